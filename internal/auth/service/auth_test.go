package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/lecenter/dashboard/internal/auth/domain"
	"github.com/lecenter/dashboard/internal/auth/store"
	"github.com/lecenter/dashboard/internal/auth/store/drivers/sqlite"
	"github.com/lecenter/dashboard/pkg/linex"
	"github.com/lecenter/dashboard/pkg/sessionx"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct {
	profiles map[string]linex.Profile
	err      error
	calls    int
}

func (f *fakeVerifier) Verify(_ context.Context, idToken string) (linex.Profile, error) {
	f.calls++
	if f.err != nil {
		return linex.Profile{}, f.err
	}
	p, ok := f.profiles[idToken]
	if !ok {
		return linex.Profile{}, &linex.VerificationError{Status: 400, Body: `{"error":"invalid_request"}`}
	}
	return p, nil
}

type fixture struct {
	svc      *AuthService
	store    store.Store
	signer   *sessionx.Signer
	verifier *fakeVerifier
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	signer, err := sessionx.NewSigner([]byte("service-secret"))
	require.NoError(t, err)

	v := &fakeVerifier{profiles: map[string]linex.Profile{
		"good-token": {
			Subject: "U-allowed",
			Name:    "Alice",
			Picture: "https://example.com/alice.png",
			Raw:     json.RawMessage(`{"sub":"U-allowed","name":"Alice"}`),
		},
		"stranger-token": {
			Subject: "U-stranger",
			Name:    "Mallory",
			Raw:     json.RawMessage(`{"sub":"U-stranger"}`),
		},
	}}

	require.NoError(t, st.Whitelist().AddEntry(context.Background(), domain.WhitelistEntry{LineUID: "U-allowed"}))

	return fixture{
		svc: &AuthService{
			Verifier:       v,
			Signer:         signer,
			Whitelist:      &WhitelistService{Store: st},
			Store:          st,
			RecordUnlisted: true,
		},
		store:    st,
		signer:   signer,
		verifier: v,
	}
}

func TestLoginSuccess(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	res, err := f.svc.Login(ctx, LoginRequest{IDToken: "good-token"})
	require.NoError(t, err)
	require.Equal(t, "U-allowed", res.User.Subject)
	require.Equal(t, "Alice", res.User.Name)
	require.Equal(t, "https://example.com/alice.png", *res.User.Picture)

	claims, err := f.signer.Verify(res.Credential)
	require.NoError(t, err)
	require.Equal(t, "U-allowed", claims.Subject)
	require.Equal(t, res.Claims, claims)

	u, err := f.store.LineUsers().GetLineUserByUID(ctx, "U-allowed")
	require.NoError(t, err)
	require.Equal(t, "Alice", *u.LineDisplayName)
	require.JSONEq(t, `{"sub":"U-allowed","name":"Alice"}`, string(u.IDTokenPayload))
}

func TestLoginRecordsClientMetadata(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Login(ctx, LoginRequest{
		IDToken: "good-token",
		Profile: json.RawMessage(`{"displayName":"Alice (LIFF)","pictureUrl":"https://liff/p.png","statusMessage":"teaching"}`),
		Decoded: json.RawMessage(`{"system_display_name":"Ms. Alice","email":"alice@school.example"}`),
	})
	require.NoError(t, err)

	u, err := f.store.LineUsers().GetLineUserByUID(ctx, "U-allowed")
	require.NoError(t, err)
	require.Equal(t, "Alice (LIFF)", *u.LineDisplayName)
	require.Equal(t, "Alice (LIFF)", *u.DisplayName)
	require.Equal(t, "Ms. Alice", *u.SystemDisplayName)
	require.Equal(t, "https://liff/p.png", *u.PictureURL)
	require.Equal(t, "teaching", *u.StatusMessage)
	require.Equal(t, "alice@school.example", *u.Email)
	require.JSONEq(t, `{"system_display_name":"Ms. Alice","email":"alice@school.example"}`, string(u.IDTokenPayload))
}

func TestLoginBlankSystemDisplayNameKeepsStoredName(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	login := func(decoded string) domain.LineUser {
		t.Helper()
		_, err := f.svc.Login(ctx, LoginRequest{IDToken: "good-token", Decoded: json.RawMessage(decoded)})
		require.NoError(t, err)
		u, err := f.store.LineUsers().GetLineUserByUID(ctx, "U-allowed")
		require.NoError(t, err)
		return u
	}

	// First sight falls back to the LINE name rather than storing a blank.
	u := login(`{"system_display_name":"  "}`)
	require.Equal(t, "Alice", *u.SystemDisplayName)

	login(`{"system_display_name":"Ms. Alice"}`)

	u = login(`{"system_display_name":""}`)
	require.Equal(t, "Ms. Alice", *u.SystemDisplayName)
	require.Equal(t, "Ms. Alice", u.PreferredName("fallback"))
}

func TestLoginRejectedStillRecordsIdentity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Login(ctx, LoginRequest{IDToken: "stranger-token"})
	require.ErrorIs(t, err, ErrUnauthorized)

	u, err := f.store.LineUsers().GetLineUserByUID(ctx, "U-stranger")
	require.NoError(t, err)
	require.Equal(t, "Mallory", *u.LineDisplayName)
}

func TestLoginRejectedNotRecordedWhenDisabled(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.svc.RecordUnlisted = false

	_, err := f.svc.Login(ctx, LoginRequest{IDToken: "stranger-token"})
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.store.LineUsers().GetLineUserByUID(ctx, "U-stranger")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = f.svc.Login(ctx, LoginRequest{IDToken: "good-token"})
	require.NoError(t, err)
	_, err = f.store.LineUsers().GetLineUserByUID(ctx, "U-allowed")
	require.NoError(t, err)
}

func TestLoginVerificationFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Login(ctx, LoginRequest{IDToken: "forged"})
	require.ErrorIs(t, err, ErrVerification)

	var verr *linex.VerificationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, 400, verr.Status)

	_, err = f.store.LineUsers().GetLineUserByUID(ctx, "U-allowed")
	require.ErrorIs(t, err, store.ErrNotFound, "nothing recorded before verification")
}

func TestLoginMissingToken(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Login(context.Background(), LoginRequest{IDToken: "  "})
	require.ErrorIs(t, err, ErrMissingIDToken)
	require.Zero(t, f.verifier.calls)
}

func TestLoginConfigurationError(t *testing.T) {
	f := newFixture(t)
	f.verifier.err = linex.ErrConfiguration

	_, err := f.svc.Login(context.Background(), LoginRequest{IDToken: "good-token"})
	require.ErrorIs(t, err, ErrConfiguration)
	require.NotErrorIs(t, err, ErrVerification)
}

func TestMe(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	session := sessionx.Claims{Subject: "U-allowed", Name: "Session Alice", Picture: "https://session/p.png"}

	t.Run("falls back to session without a record", func(t *testing.T) {
		u, err := f.svc.Me(ctx, session)
		require.NoError(t, err)
		require.Equal(t, "Session Alice", u.Name)
		require.Equal(t, "https://session/p.png", *u.Picture)
	})

	t.Run("prefers the stored identity", func(t *testing.T) {
		_, err := f.svc.Login(ctx, LoginRequest{
			IDToken: "good-token",
			Decoded: json.RawMessage(`{"system_display_name":"Ms. Alice"}`),
		})
		require.NoError(t, err)

		u, err := f.svc.Me(ctx, session)
		require.NoError(t, err)
		require.Equal(t, "U-allowed", u.Subject)
		require.Equal(t, "Ms. Alice", u.Name)
		require.Equal(t, "https://example.com/alice.png", *u.Picture)
	})
}

func TestUpdateDisplayName(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	session := sessionx.Claims{Subject: "U-allowed", Name: "Alice"}

	_, err := f.svc.UpdateDisplayName(ctx, session, "   ")
	require.ErrorIs(t, err, ErrEmptyDisplayName)

	_, err = f.svc.UpdateDisplayName(ctx, session, "Principal")
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = f.svc.Login(ctx, LoginRequest{IDToken: "good-token"})
	require.NoError(t, err)

	u, err := f.svc.UpdateDisplayName(ctx, session, "  Principal Alice ")
	require.NoError(t, err)
	require.Equal(t, "Principal Alice", u.Name)

	me, err := f.svc.Me(ctx, session)
	require.NoError(t, err)
	require.Equal(t, "Principal Alice", me.Name)
}

func TestWhitelistService(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	wl := f.svc.Whitelist

	ok, err := wl.IsAuthorized(ctx, "")
	require.NoError(t, err)
	require.False(t, ok)

	require.ErrorIs(t, wl.Add(ctx, " ", ""), ErrInvalidLineUID)
	require.ErrorIs(t, wl.Add(ctx, "U-allowed", ""), ErrAlreadyListed)
	require.ErrorIs(t, wl.Remove(ctx, "U-nobody"), ErrNotListed)

	n, err := wl.Import(ctx, []domain.WhitelistEntry{
		{LineUID: "U-allowed"},
		{LineUID: "U-new", Note: "imported"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	_, err = wl.Import(ctx, []domain.WhitelistEntry{{LineUID: "U-other"}, {LineUID: ""}})
	require.ErrorIs(t, err, ErrInvalidLineUID)
	ok, err = wl.IsAuthorized(ctx, "U-other")
	require.NoError(t, err)
	require.False(t, ok, "failed import is rolled back")

	entries, err := wl.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	require.NoError(t, wl.Remove(ctx, "U-new"))
	ok, err = wl.IsAuthorized(ctx, "U-new")
	require.NoError(t, err)
	require.False(t, ok)
}
