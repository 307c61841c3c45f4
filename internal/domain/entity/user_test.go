package entity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLocalID(t *testing.T) {
	id := NewLocalID()

	assert.True(t, strings.HasPrefix(id, LocalIDPrefix))
	assert.True(t, User{ID: id}.IsLocal())
	assert.False(t, User{ID: "u1"}.IsLocal())
	assert.NotEqual(t, id, NewLocalID())
}

func TestRoster_FindByEmail(t *testing.T) {
	roster := Roster{
		{ID: "u1", Name: "Ana", Email: "Ana@Example.com"},
		{ID: "u2", Name: "Carlos", Email: ""},
	}

	// Match is case-insensitive and trims whitespace.
	found := roster.FindByEmail("  ana@example.COM ")
	assert.NotNil(t, found)
	assert.Equal(t, "u1", found.ID)

	// An empty needle never matches, not even accounts without an email.
	assert.Nil(t, roster.FindByEmail(""))
	assert.Nil(t, roster.FindByEmail("nobody@example.com"))
}

func TestRoster_FindByID_ReturnsMutableReference(t *testing.T) {
	roster := Roster{{ID: "u1", Name: "Ana", Active: true}}

	user := roster.FindByID("u1")
	assert.NotNil(t, user)
	user.Name = "Ana María"

	assert.Equal(t, "Ana María", roster[0].Name)
	assert.Nil(t, roster.FindByID("missing"))
}

func TestRoster_CanDeactivate(t *testing.T) {
	roster := Roster{
		{ID: "u1", Active: true},
		{ID: "u2", Active: false},
	}

	// u1 is the last active member and must stay.
	assert.False(t, roster.CanDeactivate("u1"))

	// Already-inactive or unknown users never block.
	assert.True(t, roster.CanDeactivate("u2"))
	assert.True(t, roster.CanDeactivate("missing"))

	roster[1].Active = true
	assert.True(t, roster.CanDeactivate("u1"))
	assert.Equal(t, 2, roster.ActiveCount())
}

func TestDefaultRoster(t *testing.T) {
	roster := DefaultRoster()

	assert.Len(t, roster, 4)
	assert.Equal(t, 4, roster.ActiveCount())
	for _, user := range roster {
		assert.Equal(t, RoleUser, user.Role)
		assert.Contains(t, user.Avatar, "dicebear.com")
	}

	// Each call returns an independent copy.
	roster[0].Name = "changed"
	assert.Equal(t, "Ana García", DefaultRoster()[0].Name)
}
