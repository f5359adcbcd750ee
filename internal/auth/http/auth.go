package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/lecenter/dashboard/internal/auth/service"
	"github.com/lecenter/dashboard/pkg/authsdk"
	"github.com/lecenter/dashboard/pkg/cryptox"
	"github.com/lecenter/dashboard/pkg/httpx"
	"github.com/lecenter/dashboard/pkg/sessionx"
	"github.com/lecenter/dashboard/pkg/slogx"
)

const maxBodyBytes = 64 << 10

var errProviderNotConfigured = authsdk.NewAPIError(
	http.StatusInternalServerError,
	authsdk.ErrorCodeServerError,
	"LINE channel is not configured",
)

// AuthHandler serves the session endpoints under /api/auth.
type AuthHandler struct {
	AuthService *service.AuthService
	Cookies     sessionx.CookieOptions
}

// loginBody accepts both id_token and idToken.
type loginBody struct {
	IDToken      string          `json:"id_token"`
	IDTokenCamel string          `json:"idToken"`
	Profile      json.RawMessage `json:"profile"`
	Decoded      json.RawMessage `json:"decoded"`
}

// HandleLogin exchanges a LINE ID token for a session cookie.
//
//	@Summary		Log in with LINE
//	@Description	Verifies the LINE ID token, checks the whitelist and sets the lec_auth session cookie.
//	@Description	No cookie is set on failure.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.LoginRequest	true	"LINE ID token and optional LIFF metadata"
//	@Success		200		{object}	authsdk.UserResponse	"Logged in; Set-Cookie carries the session"
//	@Failure		400		{object}	authsdk.ErrorResponse	"Malformed body"
//	@Failure		401		{object}	authsdk.ErrorResponse	"Missing or rejected token, or not whitelisted"
//	@Failure		500		{object}	authsdk.ErrorResponse	"LINE channel not configured"
//	@Router			/api/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var body loginBody
	if err := httpx.DecodeJSON(r, maxBodyBytes, &body); err != nil && !errors.Is(err, io.EOF) {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	idToken := body.IDToken
	if idToken == "" {
		idToken = body.IDTokenCamel
	}

	res, err := h.AuthService.Login(ctx, service.LoginRequest{
		IDToken: idToken,
		Profile: body.Profile,
		Decoded: body.Decoded,
	})
	switch {
	case errors.Is(err, service.ErrMissingIDToken):
		authsdk.ErrMissingIDToken.WriteError(w)
		return
	case errors.Is(err, service.ErrConfiguration):
		log.Error("login unavailable", "err", err)
		errProviderNotConfigured.WriteError(w)
		return
	case errors.Is(err, service.ErrVerification):
		log.Warn("id token rejected", "err", err, "token_fp", cryptox.FingerprintToken(idToken))
		authsdk.ErrAccessDenied.WriteError(w)
		return
	case errors.Is(err, service.ErrUnauthorized):
		authsdk.ErrAccessDenied.WriteError(w)
		return
	case err != nil:
		log.Error("login failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	w.Header().Add("Set-Cookie", h.Cookies.Build(res.Credential))
	httpx.WriteJSON(w, http.StatusOK, authsdk.UserResponse{OK: true, User: toUser(res.User)})
}

// HandleLogout clears the session cookie.
//
//	@Summary		Log out
//	@Description	Always clears the lec_auth cookie. The credential itself stays valid until it expires.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	authsdk.OKResponse	"Cookie cleared (Max-Age=0)"
//	@Router			/api/auth/logout [post].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Set-Cookie", h.Cookies.Clear())
	httpx.WriteJSON(w, http.StatusOK, authsdk.OKResponse{OK: true})
}

// HandleMe returns the current user.
//
//	@Summary		Current user
//	@Tags			Auth
//	@Security		SessionCookie
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.UserResponse
//	@Failure		401	{object}	authsdk.ErrorResponse	"Missing, invalid or expired session"
//	@Failure		500	{object}	authsdk.ErrorResponse
//	@Router			/api/auth/me [get].
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := httpx.SessionFromContext(ctx)
	if !ok {
		authsdk.ErrNotLoggedIn.WriteError(w)
		return
	}

	user, err := h.AuthService.Me(ctx, claims)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to load user", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.UserResponse{OK: true, User: toUser(user)})
}

// HandleUpdateProfile changes the dashboard display name.
//
//	@Summary		Update display name
//	@Tags			Auth
//	@Security		SessionCookie
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.UpdateProfileRequest	true	"New display name"
//	@Success		200		{object}	authsdk.UserResponse
//	@Failure		400		{object}	authsdk.ErrorResponse	"Malformed body"
//	@Failure		401		{object}	authsdk.ErrorResponse	"No session, or empty display name"
//	@Failure		404		{object}	authsdk.ErrorResponse	"No LINE user record for the session"
//	@Failure		500		{object}	authsdk.ErrorResponse
//	@Router			/api/auth/profile [patch].
func (h *AuthHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := httpx.SessionFromContext(ctx)
	if !ok {
		authsdk.ErrNotLoggedIn.WriteError(w)
		return
	}

	var body authsdk.UpdateProfileRequest
	if err := httpx.DecodeJSON(r, maxBodyBytes, &body); err != nil && !errors.Is(err, io.EOF) {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	user, err := h.AuthService.UpdateDisplayName(ctx, claims, body.DisplayName)
	switch {
	case errors.Is(err, service.ErrEmptyDisplayName):
		authsdk.ErrEmptyDisplayName.WriteError(w)
		return
	case errors.Is(err, service.ErrUserNotFound):
		authsdk.ErrUserNotFound.WriteError(w)
		return
	case err != nil:
		slogx.FromContext(ctx).Error("failed to update display name", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.UserResponse{OK: true, User: toUser(user)})
}

func toUser(u service.UserSummary) authsdk.User {
	return authsdk.User{Sub: u.Subject, Name: u.Name, Picture: u.Picture}
}
