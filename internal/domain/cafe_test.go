package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCafe_ToMap(t *testing.T) {
	price := "£2.40"
	c := Cafe{ID: 7, Name: "Bean", MapURL: "https://maps.example/bean", ImgURL: "https://img.example/bean.jpg",
		Location: "Soho", HasSockets: true, HasWifi: true, Seats: "20-30", CoffeePrice: &price}

	m := c.ToMap()
	assert.Len(t, m, 11)
	assert.Equal(t, uint(7), m["id"])
	assert.Equal(t, "Soho", m["location"])
	assert.Equal(t, true, m["has_sockets"])
	assert.Equal(t, false, m["has_toilet"])
	assert.Equal(t, "£2.40", m["coffee_price"])
}

func TestCafe_ToMapNullPrice(t *testing.T) {
	m := Cafe{Name: "Bean"}.ToMap()
	v, ok := m["coffee_price"]
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestUser_IsAdmin(t *testing.T) {
	var nobody *User
	assert.False(t, nobody.IsAdmin())
	assert.True(t, (&User{ID: 1}).IsAdmin())
	assert.False(t, (&User{ID: 2}).IsAdmin())
}
