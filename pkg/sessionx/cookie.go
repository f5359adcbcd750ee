package sessionx

import (
	"net/http"
	"net/url"
	"strings"
	"time"
)

// CookieName is the cookie holding the session credential.
const CookieName = "lec_auth"

// CookieOptions controls the attributes of the session cookie.
type CookieOptions struct {
	// Secure adds the Secure attribute. Enabled in production.
	Secure bool
	// MaxAge defaults to DefaultTTL when zero.
	MaxAge time.Duration
}

// Cookie returns the session cookie carrying credential. The value is
// path-escaped so any printable credential survives a parse round trip;
// base64url credentials are left unchanged.
func (o CookieOptions) Cookie(credential string) *http.Cookie {
	maxAge := o.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultTTL
	}
	return &http.Cookie{
		Name:     CookieName,
		Value:    url.PathEscape(credential),
		Path:     "/",
		MaxAge:   int(maxAge / time.Second),
		HttpOnly: true,
		Secure:   o.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearCookie returns a cookie that removes the session (Max-Age=0).
func (o CookieOptions) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1, // rendered as Max-Age=0
		HttpOnly: true,
		Secure:   o.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Build returns the Set-Cookie header value for credential.
func (o CookieOptions) Build(credential string) string {
	return o.Cookie(credential).String()
}

// Clear returns the Set-Cookie header value that removes the session.
func (o CookieOptions) Clear() string {
	return o.ClearCookie().String()
}

// ParseCookieHeader parses a raw Cookie (or Set-Cookie) header into a map.
// Segments are split on ";" and then on the first "="; values are
// URL-decoded, and the raw value is kept when decoding fails. Segments
// without a key are skipped. A missing header yields an empty map.
func ParseCookieHeader(header string) map[string]string {
	out := make(map[string]string)
	if header == "" {
		return out
	}

	for _, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		key, value, _ := strings.Cut(part, "=")
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		value = strings.TrimSpace(value)
		if decoded, err := url.PathUnescape(value); err == nil {
			value = decoded
		}
		out[key] = value
	}
	return out
}

// ExtractCredential returns the session credential presented on r. A
// "Bearer " Authorization header wins over the cookie.
func ExtractCredential(r *http.Request) string {
	if authz := r.Header.Get("Authorization"); strings.HasPrefix(authz, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
	}

	header := strings.Join(r.Header.Values("Cookie"), "; ")
	return ParseCookieHeader(header)[CookieName]
}
