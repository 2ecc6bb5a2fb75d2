package repo

import (
	"GluviaAdmin/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TokenRepository хранит токены сброса пароля и отозванные bearer-токены.
type TokenRepository interface {
	CreateReset(ctx context.Context, r *model.PasswordReset) error
	// ConsumeReset помечает неиспользованный и не истёкший токен использованным.
	// Иначе возвращает gorm.ErrRecordNotFound.
	ConsumeReset(ctx context.Context, token string, now time.Time) (*model.PasswordReset, error)
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	PurgeExpired(ctx context.Context, now time.Time) error
}

type tokenRepo struct {
	db *gorm.DB
}

// NewTokenRepository создаёт реализацию TokenRepository.
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepo{db: db}
}

func (r *tokenRepo) CreateReset(ctx context.Context, pr *model.PasswordReset) error {
	return r.db.WithContext(ctx).Create(pr).Error
}

func (r *tokenRepo) ConsumeReset(ctx context.Context, token string, now time.Time) (*model.PasswordReset, error) {
	var pr model.PasswordReset
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&pr, "token = ? AND used = ? AND expires_at > ?", token, false, now).Error; err != nil {
			return err
		}
		res := tx.Model(&model.PasswordReset{}).
			Where("token = ? AND used = ?", token, false).
			Update("used", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	pr.Used = true
	return &pr, nil
}

func (r *tokenRepo) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(&model.RevokedToken{ID: jti, ExpiresAt: expiresAt}).Error
}

func (r *tokenRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.RevokedToken{}).Where("id = ?", jti).Count(&n).Error
	return n > 0, err
}

func (r *tokenRepo) PurgeExpired(ctx context.Context, now time.Time) error {
	if err := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&model.RevokedToken{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Where("expires_at <= ? OR used = ?", now, true).Delete(&model.PasswordReset{}).Error
}
