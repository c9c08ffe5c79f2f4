package useradmin

import (
	"context"
	"strings"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Roles interface {
	repository.Repository[*Role]

	GetByTitle(ctx context.Context, title string) (*Role, error)
	List(ctx context.Context) ([]*Role, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type roles struct {
	repository.Repository[*Role]
	db *bun.DB
}

var _ Roles = (*roles)(nil)

func NewRolesRepository(db *bun.DB) Roles {
	repo := repository.NewRepository[*Role](db, repository.ModelHandlers[*Role]{
		NewRecord: func() *Role { return &Role{} },
		GetID: func(r *Role) uuid.UUID {
			if r == nil {
				return uuid.Nil
			}
			return r.ID
		},
		SetID: func(r *Role, id uuid.UUID) {
			if r != nil {
				r.ID = id
			}
		},
		GetIdentifier: func() string {
			return "title"
		},
	})

	return &roles{
		Repository: repo,
		db:         db,
	}
}

func (a *roles) GetByTitle(ctx context.Context, title string) (*Role, error) {
	record := &Role{}
	err := a.db.NewSelect().Model(record).
		Where("?TableAlias.title = ?", strings.TrimSpace(title)).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"title": title})
		}
		return nil, err
	}

	return record, nil
}

func (a *roles) List(ctx context.Context) ([]*Role, error) {
	var records []*Role
	err := a.db.NewSelect().Model(&records).
		OrderExpr("rol.title ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (a *roles) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	count, err := a.db.NewSelect().Model((*Role)(nil)).
		Where("?TableAlias.id = ?", id).
		Count(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
