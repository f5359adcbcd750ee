package sessionx

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidSession is the parent of every verification failure.
	ErrInvalidSession = errors.New("sessionx: invalid session")

	ErrMalformed = fmt.Errorf("%w: malformed credential", ErrInvalidSession)
	ErrSignature = fmt.Errorf("%w: signature mismatch", ErrInvalidSession)
	ErrExpired   = fmt.Errorf("%w: credential expired", ErrInvalidSession)

	// ErrEmptySecret is returned by NewSigner when no signing secret is given.
	ErrEmptySecret = errors.New("sessionx: signing secret is empty")
)

// Verifier checks a presented credential and returns its claims.
type Verifier interface {
	Verify(credential string) (Claims, error)
}

// Signer issues and verifies HMAC-SHA256 signed session credentials of the
// form base64url(json(claims)) + "." + base64url(mac).
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option configures a Signer.
type Option func(*Signer)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(s *Signer) { s.ttl = ttl }
}

// WithClock sets the time source, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Signer) { s.now = now }
}

// NewSigner creates a Signer keyed with secret. The secret is copied.
func NewSigner(secret []byte, opts ...Option) (*Signer, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}

	s := &Signer{
		secret: append([]byte(nil), secret...),
		ttl:    DefaultTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// TTL returns the lifetime given to new credentials.
func (s *Signer) TTL() time.Duration { return s.ttl }

// Sign issues a credential for id, valid from now until now+TTL.
func (s *Signer) Sign(id Identity) (string, Claims, error) {
	now := s.now()
	claims := Claims{
		Subject:   id.Subject,
		Name:      id.Name,
		Picture:   id.Picture,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.ttl).Unix(),
	}

	payload, err := json.Marshal(claims)
	if err != nil {
		return "", Claims{}, fmt.Errorf("sessionx: encode claims: %w", err)
	}
	encoded := EncodeSegment(payload)

	mac, err := jwt.SigningMethodHS256.Sign(encoded, s.secret)
	if err != nil {
		return "", Claims{}, fmt.Errorf("sessionx: sign: %w", err)
	}

	return encoded + "." + EncodeSegment(mac), claims, nil
}

// Verify checks the credential's signature and expiry. Claims are only
// decoded after the signature matched.
func (s *Signer) Verify(credential string) (Claims, error) {
	encoded, sig, ok := splitCredential(credential)
	if !ok {
		return Claims{}, ErrMalformed
	}

	mac, err := DecodeSegment(sig)
	if err != nil {
		return Claims{}, ErrMalformed
	}
	if err := jwt.SigningMethodHS256.Verify(encoded, mac, s.secret); err != nil {
		return Claims{}, ErrSignature
	}

	payload, err := DecodeSegment(encoded)
	if err != nil {
		return Claims{}, ErrMalformed
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return Claims{}, ErrMalformed
	}
	if claims.Subject == "" || claims.ExpiresAt == 0 {
		return Claims{}, ErrMalformed
	}

	if claims.Expired(s.now()) {
		return Claims{}, ErrExpired
	}
	return claims, nil
}

// splitCredential requires exactly two non-empty dot-separated parts.
func splitCredential(credential string) (payload, sig string, ok bool) {
	parts := strings.Split(credential, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
