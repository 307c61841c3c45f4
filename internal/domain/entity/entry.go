package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// IsinEntry records a single product registration. Entries are immutable once
// created; the only lifecycle operation after creation is deletion.
type IsinEntry struct {
	ID        string // Unique identifier, random per entry.
	ISIN      string // Normalized upper-case product code.
	UserID    string // Owning user's id; a reference, entries are never reassigned.
	Timestamp int64  // Creation instant in epoch milliseconds.
	DateStr   string // UTC calendar day (YYYY-MM-DD) derived from Timestamp at creation.
}

// NormalizeISIN trims surrounding whitespace and upper-cases the code.
func NormalizeISIN(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// NewIsinEntry builds an entry for the given code and owner at the given
// instant. DateStr is derived from the same instant as Timestamp so the two
// stay consistent by construction; it is never recomputed afterwards.
func NewIsinEntry(isin, userID string, at time.Time) IsinEntry {
	return IsinEntry{
		ID:        uuid.NewString(),
		ISIN:      NormalizeISIN(isin),
		UserID:    userID,
		Timestamp: at.UnixMilli(),
		DateStr:   at.UTC().Format("2006-01-02"),
	}
}

// Time returns the creation instant of the entry.
func (e IsinEntry) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}
