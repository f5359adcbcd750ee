package sessionx

import "time"

// DefaultTTL is the lifetime of a freshly issued session credential.
const DefaultTTL = 7 * 24 * time.Hour

// Identity is the principal a credential is issued for.
type Identity struct {
	Subject string
	Name    string
	Picture string
}

// Claims is the payload carried inside a signed credential. Once the
// signature has been checked it is the only source of truth for who the
// caller is.
type Claims struct {
	Subject   string `json:"sub"`
	Name      string `json:"name,omitempty"`
	Picture   string `json:"picture,omitempty"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// Identity returns the principal described by the claims.
func (c Claims) Identity() Identity {
	return Identity{Subject: c.Subject, Name: c.Name, Picture: c.Picture}
}

// Expired reports whether the claims are past their expiry at now. The expiry
// instant itself is still valid.
func (c Claims) Expired(now time.Time) bool {
	return c.ExpiresAt*1000 < now.UnixMilli()
}

// ExpiresAtTime returns the expiry as a time.Time.
func (c Claims) ExpiresAtTime() time.Time {
	return time.Unix(c.ExpiresAt, 0)
}
