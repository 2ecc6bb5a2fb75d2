package repo

import (
	"GluviaAdmin/internal/model"
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Account — ограничение на модели учётных записей.
type Account interface {
	model.User | model.Admin
}

// AccountRepository — записи с уникальным email (пользователи и администраторы).
type AccountRepository[T Account] interface {
	Records[T]
	// GetByEmail ищет без учёта регистра, включая удалённые записи.
	GetByEmail(ctx context.Context, email string) (*T, error)
	TouchLogin(ctx context.Context, id string, at time.Time) error
	SetPassword(ctx context.Context, id, hash string) error
}

type accountRepo[T Account] struct {
	*gormRecords[T]
}

// NewUserRepository создаёт репозиторий пользователей платформы.
func NewUserRepository(db *gorm.DB) AccountRepository[model.User] {
	return &accountRepo[model.User]{newRecords[model.User](db, true, "email", "first_name", "last_name")}
}

// NewAdminRepository создаёт репозиторий администраторов.
func NewAdminRepository(db *gorm.DB) AccountRepository[model.Admin] {
	return &accountRepo[model.Admin]{newRecords[model.Admin](db, true, "email", "first_name", "last_name")}
}

func (r *accountRepo[T]) GetByEmail(ctx context.Context, email string) (*T, error) {
	var v T
	err := r.db.WithContext(ctx).First(&v, "LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *accountRepo[T]) TouchLogin(ctx context.Context, id string, at time.Time) error {
	return r.update(ctx, id, "last_login_at", at)
}

func (r *accountRepo[T]) SetPassword(ctx context.Context, id, hash string) error {
	return r.update(ctx, id, "password", hash)
}

func (r *accountRepo[T]) update(ctx context.Context, id, col string, v any) error {
	tx := r.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Update(col, v)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
