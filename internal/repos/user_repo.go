package repos

import (
	"context"

	"counterpos/internal/domain"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = `id, email, name, password_hash, role, is_active`

func (r *UserRepo) ByEmail(ctx context.Context, email string) (*domain.StaffUser, error) {
	var u domain.StaffUser
	err := r.DB.GetContext(ctx, &u, `SELECT `+userCols+` FROM users WHERE LOWER(email)=LOWER(?)`, email)
	if err != nil {
		return nil, errors.Wrap(err, "user by email")
	}
	return &u, nil
}

func (r *UserRepo) ByID(ctx context.Context, id string) (*domain.StaffUser, error) {
	var u domain.StaffUser
	err := r.DB.GetContext(ctx, &u, `SELECT `+userCols+` FROM users WHERE id=?`, id)
	if err != nil {
		return nil, errors.Wrapf(err, "user %s", id)
	}
	return &u, nil
}

func (r *UserRepo) BindSession(ctx context.Context, sid, userID string) error {
	ts := now()
	_, err := r.DB.ExecContext(ctx, `INSERT INTO sessions(id,user_id,created_at,last_seen)
                          VALUES(?,?,?,?)
                          ON CONFLICT(id) DO UPDATE SET user_id=excluded.user_id,last_seen=excluded.last_seen`, sid, userID, ts, ts)
	return errors.Wrap(err, "bind session")
}

// SessionUser resolves the staff account bound to sid. Inactive accounts are
// returned as-is; the authorization guard decides what they may do.
func (r *UserRepo) SessionUser(ctx context.Context, sid string) (*domain.StaffUser, error) {
	var u domain.StaffUser
	err := r.DB.GetContext(ctx, &u, `
      SELECT u.id,u.email,u.name,u.password_hash,u.role,u.is_active
      FROM sessions s
      JOIN users u ON u.id=s.user_id
      WHERE s.id=?`, sid)
	if err != nil {
		return nil, errors.Wrap(err, "session user")
	}
	return &u, nil
}

func (r *UserRepo) UnbindSession(ctx context.Context, sid string) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE sessions SET user_id=NULL,last_seen=? WHERE id=?`, now(), sid)
	return errors.Wrap(err, "unbind session")
}
