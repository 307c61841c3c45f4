// Package util provides small helpers shared across layers.
package util

import (
	"net/url"
	"strings"
)

const avatarBaseURL = "https://api.dicebear.com/7.x/avataaars/svg?seed="

// AvatarURL builds a generated-avatar URL for the given seed, matching the
// avatars of the built-in roster.
func AvatarURL(seed string) string {
	return avatarBaseURL + url.QueryEscape(seed)
}

// NormalizeEmail lower-cases and trims an email for case-insensitive matching.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NameFromEmail derives a display name from an email's local part, used when
// an identity arrives without a display name.
func NameFromEmail(email string) string {
	local, _, found := strings.Cut(strings.TrimSpace(email), "@")
	if !found || local == "" {
		return strings.TrimSpace(email)
	}

	return local
}
