package repository

import (
	"context"

	"github.com/polkiloo/studiodesk/internal/domain/model"
)

// UserRepository describes persistence operations for admin accounts.
type UserRepository interface {
	Create(ctx context.Context, login, passwordHash string) (*model.AdminUser, error)
	GetByLogin(ctx context.Context, login string) (*model.AdminUser, error)
	GetByID(ctx context.Context, id int64) (*model.AdminUser, error)
}
