package httpx

import (
	"net/http"
	"strings"

	"github.com/lecenter/dashboard/pkg/cryptox"
	"github.com/lecenter/dashboard/pkg/sessionx"
	"github.com/lecenter/dashboard/pkg/slogx"
)

// GuardOptions configures SessionAuthMiddleware.
type GuardOptions struct {
	// PublicPrefixes are path prefixes served without a session. Matching is
	// per path segment.
	PublicPrefixes []string
}

func (o GuardOptions) bypass(r *http.Request) bool {
	if r.Method == http.MethodOptions {
		return true
	}
	for _, p := range o.PublicPrefixes {
		if underPrefix(r.URL.Path, p) {
			return true
		}
	}
	return false
}

// underPrefix matches prefix itself and paths below it on a segment
// boundary, so "/api/auth" covers "/api/auth/me" but not "/api/authors".
func underPrefix(path, prefix string) bool {
	base := strings.TrimSuffix(prefix, "/")
	return path == prefix || path == base || strings.HasPrefix(path, base+"/")
}

// SessionAuthMiddleware requires a valid session credential on every request
// that is not a preflight and not under a public prefix. The credential is
// taken from a Bearer header, then from the session cookie. On success the
// claims are attached to the request context.
func SessionAuthMiddleware(v sessionx.Verifier, opts GuardOptions) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if opts.bypass(r) {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			log := slogx.FromContext(ctx)

			cred := sessionx.ExtractCredential(r)
			if cred == "" {
				WriteUnauthorized(w, "missing session")
				return
			}

			claims, err := v.Verify(cred)
			if err != nil {
				log.Info("session rejected", "err", err, "credential_fp", cryptox.FingerprintToken(cred))
				WriteUnauthorized(w, "invalid or expired session")
				return
			}

			ctx = ContextWithSession(ctx, claims)
			ctx = slogx.WithContext(ctx, log.With("sub", claims.Subject))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSession is SessionAuthMiddleware without any bypass.
func RequireSession(v sessionx.Verifier) Middleware {
	return SessionAuthMiddleware(v, GuardOptions{})
}

// WriteUnauthorized writes a 401 JSON error with a Bearer challenge.
func WriteUnauthorized(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteJSON(w, http.StatusUnauthorized, map[string]string{
		"error":             "unauthorized",
		"error_description": desc,
	})
}
