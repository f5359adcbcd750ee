package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lecenter/dashboard/internal/auth/domain"
	"github.com/lecenter/dashboard/internal/auth/store"
)

var (
	ErrInvalidLineUID = errors.New("line user id is required")
	ErrAlreadyListed  = errors.New("line user is already whitelisted")
	ErrNotListed      = errors.New("line user is not whitelisted")
)

// WhitelistService gates dashboard access by LINE user id. The login path
// only reads; entries are managed out-of-band.
type WhitelistService struct {
	Store store.Store
}

// IsAuthorized reports whether lineUID may use the dashboard. A missing entry
// is false, never an error; errors mean the lookup itself failed.
func (s *WhitelistService) IsAuthorized(ctx context.Context, lineUID string) (bool, error) {
	if lineUID == "" {
		return false, nil
	}
	ok, err := s.Store.Whitelist().IsWhitelisted(ctx, lineUID)
	if err != nil {
		return false, fmt.Errorf("whitelist lookup: %w", err)
	}
	return ok, nil
}

func (s *WhitelistService) Add(ctx context.Context, lineUID, note string) error {
	lineUID = strings.TrimSpace(lineUID)
	if lineUID == "" {
		return ErrInvalidLineUID
	}

	err := s.Store.Whitelist().AddEntry(ctx, domain.WhitelistEntry{LineUID: lineUID, Note: note})
	if errors.Is(err, store.ErrAlreadyExists) {
		return ErrAlreadyListed
	}
	return err
}

func (s *WhitelistService) Remove(ctx context.Context, lineUID string) error {
	err := s.Store.Whitelist().RemoveEntry(ctx, strings.TrimSpace(lineUID))
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotListed
	}
	return err
}

func (s *WhitelistService) List(ctx context.Context) ([]domain.WhitelistEntry, error) {
	return s.Store.Whitelist().ListEntries(ctx)
}

// Import adds every entry in one transaction, skipping ids that are already
// listed. It returns how many entries were added.
func (s *WhitelistService) Import(ctx context.Context, entries []domain.WhitelistEntry) (int, error) {
	added := 0
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		for _, e := range entries {
			e.LineUID = strings.TrimSpace(e.LineUID)
			if e.LineUID == "" {
				return ErrInvalidLineUID
			}

			err := tx.Whitelist().AddEntry(ctx, e)
			if errors.Is(err, store.ErrAlreadyExists) {
				continue
			}
			if err != nil {
				return fmt.Errorf("add %s: %w", e.LineUID, err)
			}
			added++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}
