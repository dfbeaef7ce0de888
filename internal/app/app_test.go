package app

import (
	"cafe_directory/internal/config"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_SQLiteWithoutRedis(t *testing.T) {
	cfg := &config.Config{
		SecretKey:   "test",
		DBDriver:    config.DriverSQLite,
		DBPath:      "file:app_test?mode=memory&cache=shared",
		AutoMigrate: true,
	}
	a, err := New(context.Background(), cfg)
	require.NoError(t, err)

	assert.Nil(t, a.Redis)
	assert.True(t, a.DB.Migrator().HasTable("cafes"))
	assert.NoError(t, a.Close())
}

func TestNew_BadDriver(t *testing.T) {
	_, err := New(context.Background(), &config.Config{DBDriver: "nope"})
	assert.Error(t, err)
}
