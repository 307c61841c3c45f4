package entity

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeISIN(t *testing.T) {
	assert.Equal(t, "US0378331005", NormalizeISIN("  us0378331005  "))
	assert.Equal(t, "ES0113900J37", NormalizeISIN("es0113900j37"))
	assert.Equal(t, "", NormalizeISIN("   "))
}

func TestNewIsinEntry(t *testing.T) {
	at := time.Date(2026, 3, 15, 23, 30, 0, 0, time.FixedZone("CET", 3600))
	entry := NewIsinEntry("  us0378331005 ", "u1", at)

	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "US0378331005", entry.ISIN)
	assert.Equal(t, "u1", entry.UserID)
	assert.Equal(t, at.UnixMilli(), entry.Timestamp)

	// The day string is derived from the same instant in UTC.
	assert.Equal(t, "2026-03-15", entry.DateStr)
	assert.Equal(t, at.UTC().Format("2006-01-02"), entry.DateStr)
}

func TestNewIsinEntry_DateStrCrossesMidnight(t *testing.T) {
	at := time.Date(2026, 1, 1, 0, 30, 0, 0, time.FixedZone("CET", 3600))
	entry := NewIsinEntry("US0378331005", "u1", at)

	// 00:30 CET on Jan 1 is still Dec 31 in UTC.
	assert.Equal(t, "2025-12-31", entry.DateStr)
}

func TestIsinEntry_Time(t *testing.T) {
	at := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	entry := NewIsinEntry("US0378331005", "u1", at)

	assert.True(t, entry.Time().Equal(at))
}

func TestNewIsinEntry_UniqueIDs(t *testing.T) {
	at := time.Now()
	first := NewIsinEntry("US0378331005", "u1", at)
	second := NewIsinEntry("US0378331005", "u1", at)

	assert.NotEqual(t, first.ID, second.ID)
	assert.False(t, strings.HasPrefix(first.ID, LocalIDPrefix))
}
