package store

import (
	"context"
	"errors"

	"github.com/lecenter/dashboard/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Drivers implement it and expose
// sub-repositories so transactional and non-transactional code share the same
// repo types.
type Store interface {
	Whitelist() Whitelist
	LineUsers() LineUsers

	ApplyMigrations() error

	// Tx starts a read/write transaction. The caller MUST Commit or Rollback.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
	Ping(ctx context.Context) error
}

// Tx is a transactional store.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Whitelist interface {
	// IsWhitelisted reports whether lineUID has an entry. Absence is not an error.
	IsWhitelisted(ctx context.Context, lineUID string) (bool, error)

	// AddEntry inserts an entry, ErrAlreadyExists if lineUID is present.
	AddEntry(ctx context.Context, e domain.WhitelistEntry) error

	// RemoveEntry deletes an entry, ErrNotFound if absent.
	RemoveEntry(ctx context.Context, lineUID string) error

	// ListEntries returns all entries, oldest first.
	ListEntries(ctx context.Context) ([]domain.WhitelistEntry, error)
}

type LineUsers interface {
	// UpsertLineUser creates or refreshes the record for u.LineUID and
	// returns the stored row.
	UpsertLineUser(ctx context.Context, u domain.LineUserUpsert) (domain.LineUser, error)

	GetLineUserByUID(ctx context.Context, lineUID string) (domain.LineUser, error)

	// UpdateSystemDisplayName sets the dashboard display name, ErrNotFound if
	// there is no record.
	UpdateSystemDisplayName(ctx context.Context, lineUID, name string) (domain.LineUser, error)
}
