package service

import (
	"GluviaAdmin/internal/model"
	"GluviaAdmin/internal/repo"
	"context"

	"go.uber.org/zap"
)

// MaxActivity ограничивает размер ленты активности.
const MaxActivity = 100

var auditColumns = map[string]string{"action": "action", "resource": "resource", "actorId": "actor_id"}

// AuditService пишет и читает журнал аудита.
type AuditService struct {
	repo   repo.AuditRepository
	logger *zap.SugaredLogger
}

func NewAuditService(r repo.AuditRepository, logger *zap.SugaredLogger) *AuditService {
	return &AuditService{repo: r, logger: logger}
}

// Record appends an entry. A failed write is logged and does not fail the mutation.
func (s *AuditService) Record(ctx context.Context, actor Actor, action, resource, resourceID, details string) {
	l := &model.AuditLog{
		ActorID:    actor.ID,
		ActorEmail: actor.Email,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Details:    details,
	}
	if err := s.repo.Append(ctx, l); err != nil {
		s.logger.Errorw("audit: append failed", "action", action, "resource", resource, "id", resourceID, "error", err)
	}
}

func (s *AuditService) List(ctx context.Context, p ListParams) (Page[model.AuditLog], error) {
	q := p.query(auditColumns)
	items, total, err := s.repo.List(ctx, q)
	if err != nil {
		return Page[model.AuditLog]{}, err
	}
	return Page[model.AuditLog]{Items: items, Page: q.Page, Limit: q.Limit, Total: total}, nil
}

func (s *AuditService) Get(ctx context.Context, id string) (*model.AuditLog, error) {
	l, err := s.repo.GetByID(ctx, id)
	return l, notFound(err)
}

// Recent returns the latest entries in feed form.
func (s *AuditService) Recent(ctx context.Context, limit int) ([]model.Activity, error) {
	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > MaxActivity:
		limit = MaxActivity
	}
	logs, err := s.repo.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]model.Activity, 0, len(logs))
	for _, l := range logs {
		out = append(out, model.Activity{Action: l.Action, Resource: l.Resource, ActorEmail: l.ActorEmail, CreatedAt: l.CreatedAt})
	}
	return out, nil
}
