package http

import (
	"net/http"
	"time"

	"github.com/lecenter/dashboard/internal/auth/store"
	"github.com/lecenter/dashboard/pkg/authsdk"
	"github.com/lecenter/dashboard/pkg/httpx"
	"github.com/lecenter/dashboard/pkg/sessionx"
)

// SessionSigner issues and verifies session credentials.
type SessionSigner interface {
	sessionx.Verifier
	Sign(id sessionx.Identity) (string, sessionx.Claims, error)
}

// ReadyzHandler godoc
//
//	@Summary		Readiness probe
//	@Description	Checks the database connection and that the session signer can round-trip a credential
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	authsdk.HealthResponse	"service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	signer SessionSigner,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &authsdk.HealthChecks{
			Database: "ok",
			Signer:   "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		if err := probeSigner(signer); err != nil {
			checks.Signer = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, statusCode, authsdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}

func probeSigner(signer SessionSigner) error {
	cred, _, err := signer.Sign(sessionx.Identity{Subject: "readyz"})
	if err != nil {
		return err
	}
	_, err = signer.Verify(cred)
	return err
}
