package server

import (
	"cafe_directory/internal/app"
	"cafe_directory/internal/config"
	"cafe_directory/internal/domain"
	"cafe_directory/internal/utils"
	"fmt"
	"net/http"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newCachedTestApp is newTestApp with the cafe listing cached in miniredis
func newCachedTestApp(t *testing.T) (*app.App, http.Handler, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	a, h := newTestApp(t, func(cfg *config.Config) { cfg.RedisAddr = mr.Addr() })
	require.NotNil(t, a.Redis)
	return a, h, mr
}

func TestCafeListCache_InvalidatedOnWrites(t *testing.T) {
	a, h, mr := newCachedTestApp(t)
	user := register(t, h, "admin@x.com", "pw1", "Admin")
	bean := seedCafe(t, a, "Bean", "Soho")

	// First read fills the cache
	w := user.get("/random")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Bean", decodeJSON(t, w.Body.Bytes())["cafe"]["name"])
	assert.True(t, mr.Exists(utils.CafeListCacheKey))

	// Rows written around the handlers stay hidden while the listing is cached
	hidden := seedCafe(t, a, "Hidden", "Camden")
	w = user.get("/")
	assert.NotContains(t, w.Body.String(), "Hidden")

	// Create
	w = user.post("/add", cafeForm("Grind"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, mr.Exists(utils.CafeListCacheKey))
	w = user.get("/")
	assert.Contains(t, w.Body.String(), "Grind")
	assert.Contains(t, w.Body.String(), "Hidden")
	assert.True(t, mr.Exists(utils.CafeListCacheKey), "listing is cached again")

	// Edit
	w = user.post(fmt.Sprintf("/edit-cafe/%d", hidden.ID), cafeForm("Renamed"))
	require.Equal(t, http.StatusFound, w.Code)
	assert.False(t, mr.Exists(utils.CafeListCacheKey))
	w = user.get("/")
	assert.Contains(t, w.Body.String(), "Renamed")
	assert.NotContains(t, w.Body.String(), "Hidden")

	// Update price
	w = user.do(http.MethodPatch, fmt.Sprintf("/update-price/%d?new_price=9.99", bean.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, mr.Exists(utils.CafeListCacheKey))
	w = user.get("/")
	assert.Contains(t, w.Body.String(), "9.99")

	// Delete every cafe through the handler, the empty directory shows at once
	var cafes []domain.Cafe
	require.NoError(t, a.DB.Find(&cafes).Error)
	require.Len(t, cafes, 3)
	for _, cafe := range cafes {
		w = user.do(http.MethodDelete, fmt.Sprintf("/report-closed/%d", cafe.ID), nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.False(t, mr.Exists(utils.CafeListCacheKey))

		w = user.get("/")
		assert.NotContains(t, w.Body.String(), ">"+cafe.Name+"<")
	}
	w = user.get("/random")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = user.get("/")
	assert.Contains(t, w.Body.String(), "No cafes yet.")
}

func TestCafeListCache_CorruptEntryFallsBackToDB(t *testing.T) {
	a, h, mr := newCachedTestApp(t)
	seedCafe(t, a, "Bean", "Soho")
	require.NoError(t, mr.Set(utils.CafeListCacheKey, "not json"))

	w := newClient(t, h).get("/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Bean")

	raw, err := mr.Get(utils.CafeListCacheKey)
	require.NoError(t, err)
	assert.Contains(t, raw, `"name":"Bean"`, "the listing is rewritten from the database")
}
