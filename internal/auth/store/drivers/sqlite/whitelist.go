package sqlite

import (
	"context"
	"strings"

	"github.com/lecenter/dashboard/internal/auth/domain"
	"github.com/lecenter/dashboard/internal/auth/store"
	"github.com/lecenter/dashboard/internal/auth/store/drivers/sqlite/gen"
)

type whitelistRepo struct {
	q *gen.Queries
}

func (r *whitelistRepo) IsWhitelisted(ctx context.Context, lineUID string) (bool, error) {
	n, err := r.q.IsWhitelisted(ctx, lineUID)
	if err != nil {
		return false, err
	}
	return n != 0, nil
}

func (r *whitelistRepo) AddEntry(ctx context.Context, e domain.WhitelistEntry) error {
	err := r.q.InsertWhitelistEntry(ctx, gen.InsertWhitelistEntryParams{
		LineUid: e.LineUID,
		Note:    mapStringNull(e.Note),
	})
	if err != nil && isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *whitelistRepo) RemoveEntry(ctx context.Context, lineUID string) error {
	n, err := r.q.DeleteWhitelistEntry(ctx, lineUID)
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *whitelistRepo) ListEntries(ctx context.Context) ([]domain.WhitelistEntry, error) {
	rows, err := r.q.ListWhitelistEntries(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.WhitelistEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapWhitelistEntry(row))
	}
	return out, nil
}

// isUniqueViolation matches SQLite's constraint error text; the driver's
// error codes are not exported through database/sql.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "PRIMARY KEY constraint failed")
}
