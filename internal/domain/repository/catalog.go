package repository

import (
	"context"
	"time"

	"github.com/polkiloo/ordertrack/internal/domain/model"
)

// MenuRepository resolves catalog items and promotions referenced by cart lines.
type MenuRepository interface {
	Lookup(ctx context.Context, ids []string) (map[string]model.MenuItem, error)
	Promotions(ctx context.Context, ids []string) (map[string]model.Promotion, error)
}

// AdminRepository persists back-office operators.
type AdminRepository interface {
	Create(ctx context.Context, admin *model.Admin) error
	GetByEmail(ctx context.Context, email string) (*model.Admin, error)
	GetByID(ctx context.Context, id string) (*model.Admin, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	UpdatePasswordHash(ctx context.Context, id, hash string) error
}
