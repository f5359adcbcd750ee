package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/lecenter/dashboard/internal/auth/domain"
	"github.com/lecenter/dashboard/internal/auth/store"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func strPtr(s string) *string { return &s }

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Ping(context.Background()))
}

func TestWhitelist(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	wl := s.Whitelist()

	ok, err := wl.IsWhitelisted(ctx, "U1")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, wl.AddEntry(ctx, domain.WhitelistEntry{LineUID: "U1", Note: "front desk"}))
	require.ErrorIs(t, wl.AddEntry(ctx, domain.WhitelistEntry{LineUID: "U1"}), store.ErrAlreadyExists)

	ok, err = wl.IsWhitelisted(ctx, "U1")
	require.NoError(t, err)
	require.True(t, ok)

	// Lookup is exact match.
	ok, err = wl.IsWhitelisted(ctx, "u1")
	require.NoError(t, err)
	require.False(t, ok)

	entries, err := wl.ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "U1", entries[0].LineUID)
	require.Equal(t, "front desk", entries[0].Note)
	require.False(t, entries[0].CreatedAt.IsZero())

	require.NoError(t, wl.RemoveEntry(ctx, "U1"))
	require.ErrorIs(t, wl.RemoveEntry(ctx, "U1"), store.ErrNotFound)
}

func TestUpsertLineUserCreate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	loginAt := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	u, err := s.LineUsers().UpsertLineUser(ctx, domain.LineUserUpsert{
		LineUID:         "U1",
		LineDisplayName: strPtr("Alice"),
		PictureURL:      strPtr("https://example.com/a.png"),
		Email:           strPtr("alice@example.com"),
		IDTokenPayload:  json.RawMessage(`{"sub":"U1"}`),
		LoginAt:         loginAt,
	})
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
	require.Equal(t, "U1", u.LineUID)
	require.Equal(t, "Alice", *u.DisplayName)
	require.Equal(t, "Alice", *u.LineDisplayName)
	require.Equal(t, "Alice", *u.SystemDisplayName, "system name defaults to LINE name")
	require.Nil(t, u.StatusMessage)
	require.Nil(t, u.ProfilePayload)
	require.JSONEq(t, `{"sub":"U1"}`, string(u.IDTokenPayload))
	require.NotNil(t, u.LastLoginAt)
	require.True(t, loginAt.Equal(*u.LastLoginAt))
}

func TestUpsertLineUserUpdateKeepsSystemName(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	repo := s.LineUsers()

	first, err := repo.UpsertLineUser(ctx, domain.LineUserUpsert{
		LineUID:           "U1",
		LineDisplayName:   strPtr("Alice"),
		SystemDisplayName: strPtr("Ms. Alice"),
		StatusMessage:     strPtr("hi"),
		LoginAt:           time.Now(),
	})
	require.NoError(t, err)
	require.Equal(t, "Ms. Alice", *first.SystemDisplayName)

	second, err := repo.UpsertLineUser(ctx, domain.LineUserUpsert{
		LineUID:         "U1",
		LineDisplayName: strPtr("Alice L."),
		ProfilePayload:  json.RawMessage(`{"displayName":"Alice L."}`),
		LoginAt:         time.Now(),
	})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, "Alice L.", *second.LineDisplayName)
	require.Equal(t, "Ms. Alice", *second.SystemDisplayName)
	require.Nil(t, second.StatusMessage, "unset fields are cleared on refresh")
	require.JSONEq(t, `{}`, string(second.IDTokenPayload))
	require.JSONEq(t, `{"displayName":"Alice L."}`, string(second.ProfilePayload))

	third, err := repo.UpsertLineUser(ctx, domain.LineUserUpsert{
		LineUID:           "U1",
		SystemDisplayName: strPtr("Coach Alice"),
	})
	require.NoError(t, err)
	require.Equal(t, "Coach Alice", *third.SystemDisplayName)
}

func TestUpdateSystemDisplayName(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	repo := s.LineUsers()

	_, err := repo.UpdateSystemDisplayName(ctx, "missing", "X")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = repo.UpsertLineUser(ctx, domain.LineUserUpsert{LineUID: "U1", LineDisplayName: strPtr("Alice")})
	require.NoError(t, err)

	u, err := repo.UpdateSystemDisplayName(ctx, "U1", "Principal Alice")
	require.NoError(t, err)
	require.Equal(t, "Principal Alice", *u.SystemDisplayName)
	require.Equal(t, "Principal Alice", u.PreferredName("session"))

	got, err := repo.GetLineUserByUID(ctx, "U1")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	_, err = repo.GetLineUserByUID(ctx, "U2")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTx(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx store.Tx) error {
		require.NoError(t, tx.Whitelist().AddEntry(ctx, domain.WhitelistEntry{LineUID: "U1"}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	ok, err := s.Whitelist().IsWhitelisted(ctx, "U1")
	require.NoError(t, err)
	require.False(t, ok, "rolled back")

	require.NoError(t, s.WithTx(ctx, func(tx store.Tx) error {
		return tx.Whitelist().AddEntry(ctx, domain.WhitelistEntry{LineUID: "U1"})
	}))

	ok, err = s.Whitelist().IsWhitelisted(ctx, "U1")
	require.NoError(t, err)
	require.True(t, ok)
}
