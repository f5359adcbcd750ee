package linex

import (
	"encoding/json"

	"github.com/golang-jwt/jwt/v5"
)

// Profile is the payload LINE returns for a verified ID token.
type Profile struct {
	Issuer    string           `json:"iss,omitempty"`
	Subject   string           `json:"sub"`
	Audience  jwt.ClaimStrings `json:"aud,omitempty"`
	ExpiresAt *jwt.NumericDate `json:"exp,omitempty"`
	IssuedAt  *jwt.NumericDate `json:"iat,omitempty"`
	Nonce     string           `json:"nonce,omitempty"`
	AMR       []string         `json:"amr,omitempty"`
	Name      string           `json:"name,omitempty"`
	Picture   string           `json:"picture,omitempty"`
	Email     string           `json:"email,omitempty"`

	// Raw is the verify response as received.
	Raw json.RawMessage `json:"-"`
}
