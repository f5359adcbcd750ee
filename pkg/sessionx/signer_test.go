package sessionx

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const base64URLAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

func newTestSigner(t *testing.T, now *time.Time) *Signer {
	t.Helper()
	s, err := NewSigner([]byte("test-secret"), WithClock(func() time.Time { return *now }))
	require.NoError(t, err)
	return s
}

func TestSignVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)
	s := newTestSigner(t, &now)

	id := Identity{Subject: "U123", Name: "Alice", Picture: "https://example.com/a.png"}
	cred, issued, err := s.Sign(id)
	require.NoError(t, err)
	require.Equal(t, now.Unix(), issued.IssuedAt)
	require.Equal(t, now.Add(DefaultTTL).Unix(), issued.ExpiresAt)

	claims, err := s.Verify(cred)
	require.NoError(t, err)
	require.Equal(t, id, claims.Identity())
	require.Equal(t, issued, claims)
}

func TestSignOmitsEmptyOptionalFields(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)
	s := newTestSigner(t, &now)

	cred, _, err := s.Sign(Identity{Subject: "U1"})
	require.NoError(t, err)

	payload, err := DecodeSegment(strings.Split(cred, ".")[0])
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(payload, &raw))
	require.Equal(t, "U1", raw["sub"])
	require.NotContains(t, raw, "name")
	require.NotContains(t, raw, "picture")
	require.Contains(t, raw, "iat")
	require.Contains(t, raw, "exp")
}

func TestVerifyRejectsSignatureTampering(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)
	s := newTestSigner(t, &now)

	cred, _, err := s.Sign(Identity{Subject: "U123", Name: "Alice"})
	require.NoError(t, err)

	dot := strings.IndexByte(cred, '.')
	for i := dot + 1; i < len(cred); i++ {
		tampered := []byte(cred)
		tampered[i] = otherChar(cred[i])

		_, err := s.Verify(string(tampered))
		require.ErrorIs(t, err, ErrInvalidSession, "flip at %d", i)
	}
}

func TestVerifyRejectsPayloadTampering(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)
	s := newTestSigner(t, &now)

	cred, _, err := s.Sign(Identity{Subject: "U123"})
	require.NoError(t, err)
	parts := strings.Split(cred, ".")

	forged, err := json.Marshal(Claims{Subject: "U999", IssuedAt: now.Unix(), ExpiresAt: now.Add(DefaultTTL).Unix()})
	require.NoError(t, err)

	_, err = s.Verify(EncodeSegment(forged) + "." + parts[1])
	require.ErrorIs(t, err, ErrSignature)

	flipped := []byte(parts[0])
	flipped[0] = otherChar(flipped[0])
	_, err = s.Verify(string(flipped) + "." + parts[1])
	require.ErrorIs(t, err, ErrSignature)
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)
	a := newTestSigner(t, &now)
	b, err := NewSigner([]byte("another-secret"), WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	cred, _, err := a.Sign(Identity{Subject: "U123"})
	require.NoError(t, err)

	_, err = b.Verify(cred)
	require.ErrorIs(t, err, ErrSignature)
}

func TestVerifyExpiry(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)

	t.Run("one second before expiry is valid", func(t *testing.T) {
		issued := now.Add(-DefaultTTL + time.Second)
		s := newTestSigner(t, &issued)
		cred, _, err := s.Sign(Identity{Subject: "U1"})
		require.NoError(t, err)

		issued = now
		_, err = s.Verify(cred)
		require.NoError(t, err)
	})

	t.Run("expiry instant is still valid", func(t *testing.T) {
		issued := now.Add(-DefaultTTL)
		s := newTestSigner(t, &issued)
		cred, _, err := s.Sign(Identity{Subject: "U1"})
		require.NoError(t, err)

		issued = now
		_, err = s.Verify(cred)
		require.NoError(t, err)
	})

	t.Run("one second after expiry is rejected", func(t *testing.T) {
		issued := now.Add(-DefaultTTL - time.Second)
		s := newTestSigner(t, &issued)
		cred, _, err := s.Sign(Identity{Subject: "U1"})
		require.NoError(t, err)

		issued = now
		_, err = s.Verify(cred)
		require.ErrorIs(t, err, ErrExpired)
	})
}

func TestVerifyMalformed(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)
	s := newTestSigner(t, &now)

	cred, _, err := s.Sign(Identity{Subject: "U1"})
	require.NoError(t, err)
	parts := strings.Split(cred, ".")

	cases := map[string]string{
		"empty":          "",
		"no separator":   parts[0],
		"three parts":    cred + ".extra",
		"empty payload":  "." + parts[1],
		"empty sig":      parts[0] + ".",
		"bad sig base64": parts[0] + ".!!!",
		"garbage":        "garbage",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := s.Verify(input)
			require.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestVerifyRejectsSignedGarbagePayload(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)
	s := newTestSigner(t, &now)

	// Correctly signed, but the payload is not a usable claims object.
	for _, payload := range []string{`not json`, `{"name":"x","exp":1800000000}`, `{"sub":"U1"}`} {
		encoded := EncodeSegment([]byte(payload))
		mac := signRaw(t, s, encoded)

		_, err := s.Verify(encoded + "." + mac)
		require.ErrorIs(t, err, ErrMalformed, payload)
	}
}

func TestNewSignerRequiresSecret(t *testing.T) {
	t.Parallel()

	_, err := NewSigner(nil)
	require.ErrorIs(t, err, ErrEmptySecret)
}

func TestWithTTL(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)
	s, err := NewSigner([]byte("k"), WithTTL(time.Hour), WithClock(func() time.Time { return now }))
	require.NoError(t, err)
	require.Equal(t, time.Hour, s.TTL())

	_, claims, err := s.Sign(Identity{Subject: "U1"})
	require.NoError(t, err)
	require.Equal(t, now.Add(time.Hour), claims.ExpiresAtTime())
}

func otherChar(c byte) byte {
	i := strings.IndexByte(base64URLAlphabet, c)
	return base64URLAlphabet[(i+1)%len(base64URLAlphabet)]
}

func signRaw(t *testing.T, s *Signer, encoded string) string {
	t.Helper()
	mac, err := jwt.SigningMethodHS256.Sign(encoded, s.secret)
	require.NoError(t, err)
	return EncodeSegment(mac)
}
