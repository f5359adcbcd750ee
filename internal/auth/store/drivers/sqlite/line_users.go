package sqlite

import (
	"context"
	"database/sql"

	"github.com/lecenter/dashboard/internal/auth/domain"
	"github.com/lecenter/dashboard/internal/auth/store/drivers/sqlite/gen"
	"github.com/lecenter/dashboard/pkg/idx"
)

type lineUsersRepo struct {
	q *gen.Queries
}

func (r *lineUsersRepo) UpsertLineUser(ctx context.Context, u domain.LineUserUpsert) (domain.LineUser, error) {
	idToken := string(u.IDTokenPayload)
	if idToken == "" {
		idToken = "{}"
	}

	var loginAt sql.NullTime
	if !u.LoginAt.IsZero() {
		loginAt = sql.NullTime{Time: u.LoginAt.UTC(), Valid: true}
	}

	row, err := r.q.UpsertLineUser(ctx, gen.UpsertLineUserParams{
		ID:                idx.New().String(), // ignored when the row exists
		LineUid:           u.LineUID,
		LineDisplayName:   mapOptionalString(u.LineDisplayName),
		SystemDisplayName: mapOptionalString(u.SystemDisplayName),
		PictureUrl:        mapOptionalString(u.PictureURL),
		StatusMessage:     mapOptionalString(u.StatusMessage),
		Email:             mapOptionalString(u.Email),
		IDTokenPayload:    idToken,
		ProfilePayload:    mapRawNull(u.ProfilePayload),
		LastLoginAt:       loginAt,
	})
	if err != nil {
		return domain.LineUser{}, err
	}
	return mapLineUser(row), nil
}

func (r *lineUsersRepo) GetLineUserByUID(ctx context.Context, lineUID string) (domain.LineUser, error) {
	row, err := r.q.GetLineUserByUID(ctx, lineUID)
	if err != nil {
		return domain.LineUser{}, mapNotFound(err)
	}
	return mapLineUser(row), nil
}

func (r *lineUsersRepo) UpdateSystemDisplayName(
	ctx context.Context,
	lineUID, name string,
) (domain.LineUser, error) {
	row, err := r.q.UpdateSystemDisplayName(ctx, gen.UpdateSystemDisplayNameParams{
		LineUid:           lineUID,
		SystemDisplayName: mapStringNull(name),
	})
	if err != nil {
		return domain.LineUser{}, mapNotFound(err)
	}
	return mapLineUser(row), nil
}
