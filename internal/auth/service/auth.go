package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lecenter/dashboard/internal/auth/domain"
	"github.com/lecenter/dashboard/internal/auth/store"
	"github.com/lecenter/dashboard/pkg/linex"
	"github.com/lecenter/dashboard/pkg/sessionx"
	"github.com/lecenter/dashboard/pkg/slogx"
)

var (
	ErrMissingIDToken   = errors.New("id_token is required")
	ErrConfiguration    = errors.New("identity provider is not configured")
	ErrVerification     = errors.New("identity token verification failed")
	ErrUnauthorized     = errors.New("not authorized to access the dashboard")
	ErrEmptyDisplayName = errors.New("display name must not be empty")
	ErrUserNotFound     = errors.New("line user not found")
)

// IdentityVerifier verifies an ID token with the identity provider.
type IdentityVerifier interface {
	Verify(ctx context.Context, idToken string) (linex.Profile, error)
}

// SessionSigner issues session credentials.
type SessionSigner interface {
	Sign(id sessionx.Identity) (string, sessionx.Claims, error)
}

// LoginRequest is what the dashboard client sends after LINE Login. Profile
// and Decoded are client-side metadata, recorded but never trusted for
// authorization.
type LoginRequest struct {
	IDToken string
	Profile json.RawMessage
	Decoded json.RawMessage
}

// LoginResult is a successful login.
type LoginResult struct {
	Credential string
	Claims     sessionx.Claims
	User       UserSummary
}

// UserSummary is the user shape returned to the dashboard.
type UserSummary struct {
	Subject string
	Name    string
	Picture *string
}

// AuthService orchestrates login and the session-backed profile endpoints.
type AuthService struct {
	Verifier  IdentityVerifier
	Signer    SessionSigner
	Whitelist *WhitelistService
	Store     store.Store

	// RecordUnlisted records identities that fail the whitelist check too.
	// When false only authorized identities are recorded.
	RecordUnlisted bool

	Now func() time.Time
}

// Login verifies the ID token, records the identity, checks the whitelist and
// issues a session credential. Recording does not gate authorization: a
// failed write is logged and the login continues.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (LoginResult, error) {
	log := slogx.FromContext(ctx)

	if strings.TrimSpace(req.IDToken) == "" {
		return LoginResult{}, ErrMissingIDToken
	}

	profile, err := s.Verifier.Verify(ctx, req.IDToken)
	switch {
	case errors.Is(err, linex.ErrConfiguration):
		return LoginResult{}, fmt.Errorf("%w: %w", ErrConfiguration, err)
	case errors.Is(err, linex.ErrMissingToken):
		return LoginResult{}, ErrMissingIDToken
	case err != nil:
		return LoginResult{}, fmt.Errorf("%w: %w", ErrVerification, err)
	}

	if s.RecordUnlisted {
		s.recordIdentity(ctx, profile, req)
	}

	allowed, err := s.Whitelist.IsAuthorized(ctx, profile.Subject)
	if err != nil {
		return LoginResult{}, err
	}
	if !allowed {
		log.Info("login rejected by whitelist", "sub", profile.Subject)
		return LoginResult{}, ErrUnauthorized
	}

	if !s.RecordUnlisted {
		s.recordIdentity(ctx, profile, req)
	}

	cred, claims, err := s.Signer.Sign(sessionx.Identity{
		Subject: profile.Subject,
		Name:    profile.Name,
		Picture: profile.Picture,
	})
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue session: %w", err)
	}

	log.Info("login succeeded", "sub", profile.Subject, "expires_at", claims.ExpiresAtTime())
	return LoginResult{
		Credential: cred,
		Claims:     claims,
		User: UserSummary{
			Subject: profile.Subject,
			Name:    profile.Name,
			Picture: optional(profile.Picture),
		},
	}, nil
}

// Me describes the session's user, preferring names and picture stored on
// the identity record over the ones frozen into the session.
func (s *AuthService) Me(ctx context.Context, claims sessionx.Claims) (UserSummary, error) {
	u, err := s.Store.LineUsers().GetLineUserByUID(ctx, claims.Subject)
	if errors.Is(err, store.ErrNotFound) {
		return UserSummary{Subject: claims.Subject, Name: claims.Name, Picture: optional(claims.Picture)}, nil
	}
	if err != nil {
		return UserSummary{}, fmt.Errorf("load line user: %w", err)
	}
	return summarize(claims, u), nil
}

// UpdateDisplayName sets the dashboard display name of the session's user.
func (s *AuthService) UpdateDisplayName(ctx context.Context, claims sessionx.Claims, name string) (UserSummary, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return UserSummary{}, ErrEmptyDisplayName
	}

	u, err := s.Store.LineUsers().UpdateSystemDisplayName(ctx, claims.Subject, name)
	if errors.Is(err, store.ErrNotFound) {
		return UserSummary{}, ErrUserNotFound
	}
	if err != nil {
		return UserSummary{}, fmt.Errorf("update display name: %w", err)
	}
	return summarize(claims, u), nil
}

func (s *AuthService) recordIdentity(ctx context.Context, p linex.Profile, req LoginRequest) {
	log := slogx.FromContext(ctx)

	upsert := buildUpsert(p, req, s.now())
	if _, err := s.Store.LineUsers().UpsertLineUser(ctx, upsert); err != nil {
		log.Error("failed to record line user", "sub", p.Subject, "err", err)
	}
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// clientProfile is the subset of the LIFF profile the dashboard forwards.
type clientProfile struct {
	DisplayName   *string `json:"displayName"`
	PictureURL    *string `json:"pictureUrl"`
	StatusMessage *string `json:"statusMessage"`
}

// clientDecoded is the subset of the client-decoded ID token we record.
type clientDecoded struct {
	SystemDisplayName *string `json:"system_display_name"`
	Email             *string `json:"email"`
}

func buildUpsert(p linex.Profile, req LoginRequest, now time.Time) domain.LineUserUpsert {
	var cp clientProfile
	if isObject(req.Profile) {
		_ = json.Unmarshal(req.Profile, &cp)
	}
	var cd clientDecoded
	if isObject(req.Decoded) {
		_ = json.Unmarshal(req.Decoded, &cd)
	}

	idTokenPayload := p.Raw
	if isObject(req.Decoded) {
		idTokenPayload = req.Decoded
	}
	var profilePayload json.RawMessage
	if isObject(req.Profile) {
		profilePayload = req.Profile
	}

	return domain.LineUserUpsert{
		LineUID:           p.Subject,
		LineDisplayName:   firstNonNil(cp.DisplayName, optional(p.Name)),
		PictureURL:        firstNonNil(cp.PictureURL, optional(p.Picture)),
		StatusMessage:     cp.StatusMessage,
		Email:             firstNonNil(cd.Email, optional(p.Email)),
		SystemDisplayName: nonBlank(cd.SystemDisplayName),
		IDTokenPayload:    idTokenPayload,
		ProfilePayload:    profilePayload,
		LoginAt:           now,
	}
}

func summarize(claims sessionx.Claims, u domain.LineUser) UserSummary {
	picture := u.PictureURL
	if picture == nil {
		picture = optional(claims.Picture)
	}
	return UserSummary{
		Subject: claims.Subject,
		Name:    u.PreferredName(claims.Name),
		Picture: picture,
	}
}

func isObject(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return strings.HasPrefix(trimmed, "{")
}

// nonBlank drops blank client values so they never overwrite a stored name.
func nonBlank(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func firstNonNil(vals ...*string) *string {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}
