package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/ordertrack/internal/domain/errors"
	"github.com/polkiloo/ordertrack/internal/domain/model"
)

const adminColumns = `id, email, full_name, role, password_hash, is_active, last_login, created_at`

func (r *adminRepository) Create(ctx context.Context, admin *model.Admin) error {
	const query = `INSERT INTO admins (id, email, full_name, role, password_hash, is_active)
                   VALUES ($1, $2, $3, $4, $5, $6)
                   RETURNING created_at`
	err := r.storage.pool.QueryRow(ctx, query,
		admin.ID, admin.Email, admin.FullName, string(admin.Role), admin.PasswordHash, admin.IsActive,
	).Scan(&admin.CreatedAt)
	if err != nil {
		if pgErrorCode(err) == codeUniqueViolation {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
	return r.getOne(ctx, `SELECT `+adminColumns+` FROM admins WHERE lower(email) = lower($1)`, email)
}

func (r *adminRepository) GetByID(ctx context.Context, id string) (*model.Admin, error) {
	return r.getOne(ctx, `SELECT `+adminColumns+` FROM admins WHERE id = $1`, id)
}

func (r *adminRepository) getOne(ctx context.Context, query string, arg any) (*model.Admin, error) {
	var a model.Admin
	err := r.storage.pool.QueryRow(ctx, query, arg).Scan(
		&a.ID, &a.Email, &a.FullName, &a.Role, &a.PasswordHash, &a.IsActive, &a.LastLogin, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || pgErrorCode(err) == codeInvalidTextRepresentation {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *adminRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.storage.pool.Exec(ctx, `UPDATE admins SET last_login = $2 WHERE id = $1`, id, at)
	return err
}

func (r *adminRepository) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	tag, err := r.storage.pool.Exec(ctx, `UPDATE admins SET password_hash = $2 WHERE id = $1`, id, hash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}
