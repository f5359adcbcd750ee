package domain

import (
	"encoding/json"
	"time"
)

// LineUser is the persisted record of a LINE identity that has attempted to
// log in. It is written on every successful token verification, whether or
// not the identity is whitelisted.
type LineUser struct {
	ID                string
	LineUID           string
	DisplayName       *string
	LineDisplayName   *string
	SystemDisplayName *string // set by the user through the dashboard
	PictureURL        *string
	StatusMessage     *string
	Email             *string
	IDTokenPayload    json.RawMessage
	ProfilePayload    json.RawMessage // nil when the client sent no profile
	LastLoginAt       *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// PreferredName picks the name to show for the user, falling back to
// fallback when the record has none.
func (u LineUser) PreferredName(fallback string) string {
	for _, n := range []*string{u.SystemDisplayName, u.LineDisplayName, u.DisplayName} {
		if n != nil {
			return *n
		}
	}
	return fallback
}

// LineUserUpsert carries what a login knows about an identity.
type LineUserUpsert struct {
	LineUID         string
	LineDisplayName *string
	PictureURL      *string
	StatusMessage   *string
	Email           *string
	// SystemDisplayName only overwrites an existing value when non-nil. New
	// records fall back to LineDisplayName.
	SystemDisplayName *string
	IDTokenPayload    json.RawMessage
	ProfilePayload    json.RawMessage
	LoginAt           time.Time
}
