package repos

import (
	"context"
	"database/sql"

	"counterpos/internal/domain"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// ServiceRepo reads the catalog's service offerings.
type ServiceRepo struct{ db *sqlx.DB }

func NewServiceRepo(db *sqlx.DB) *ServiceRepo { return &ServiceRepo{db: db} }

func (r *ServiceRepo) List(ctx context.Context) ([]domain.Service, error) {
	out := []domain.Service{}
	err := r.db.SelectContext(ctx, &out, `
	  SELECT id, name, category, price, duration, is_active, created_at
	  FROM services
	  WHERE is_active = 1
	  ORDER BY LOWER(name)`)
	if err != nil {
		return nil, errors.Wrap(err, "list services")
	}
	return out, nil
}

func (r *ServiceRepo) Get(ctx context.Context, q sqlx.QueryerContext, id string) (domain.Service, error) {
	if q == nil {
		q = r.db
	}
	var s domain.Service
	err := sqlx.GetContext(ctx, q, &s, `
	  SELECT id, name, category, price, duration, is_active, created_at
	  FROM services WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Service{}, errors.Wrapf(domain.ErrNotFound, "service %s", id)
	}
	if err != nil {
		return domain.Service{}, errors.Wrapf(err, "get service %s", id)
	}
	return s, nil
}
