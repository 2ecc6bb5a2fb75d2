package repo

import (
	"GluviaAdmin/internal/model"
	"context"

	"gorm.io/gorm"
)

// NewRuleRepository создаёт репозиторий шаблонов правил.
func NewRuleRepository(db *gorm.DB) Records[model.RuleTemplate] {
	return newRecords[model.RuleTemplate](db, true, "name", "category", "message")
}

// AuditRepository — журнал аудита, только добавление и чтение.
type AuditRepository interface {
	List(ctx context.Context, q ListQuery) ([]model.AuditLog, int64, error)
	GetByID(ctx context.Context, id string) (*model.AuditLog, error)
	Append(ctx context.Context, l *model.AuditLog) error
	Recent(ctx context.Context, limit int) ([]model.AuditLog, error)
}

type auditRepo struct {
	records *gormRecords[model.AuditLog]
}

// NewAuditRepository создаёт репозиторий журнала аудита.
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepo{records: newRecords[model.AuditLog](db, false, "actor_email", "details", "resource_id")}
}

func (r *auditRepo) List(ctx context.Context, q ListQuery) ([]model.AuditLog, int64, error) {
	return r.records.List(ctx, q)
}

func (r *auditRepo) GetByID(ctx context.Context, id string) (*model.AuditLog, error) {
	return r.records.GetByID(ctx, id)
}

func (r *auditRepo) Append(ctx context.Context, l *model.AuditLog) error {
	return r.records.Create(ctx, l)
}

func (r *auditRepo) Recent(ctx context.Context, limit int) ([]model.AuditLog, error) {
	out, _, err := r.records.List(ctx, ListQuery{Page: 1, Limit: limit})
	return out, err
}
