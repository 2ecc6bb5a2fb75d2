package store

import (
	"context"
	"fmt"

	"GluviaAdmin/internal/cli/api"
	"GluviaAdmin/internal/cli/model"
	"GluviaAdmin/internal/cli/notify"
)

// NewUserStore — пользователи платформы (/admin/users).
func NewUserStore(c *api.Client, n notify.Notifier, opts ...Option) *Store[model.User] {
	return New[model.User](c.Users(), n, Names{Singular: "User", Plural: "users"}, opts...)
}

// NewAdminStore — администраторы (/admin/admins).
func NewAdminStore(c *api.Client, n notify.Notifier, opts ...Option) *Store[model.Admin] {
	return New[model.Admin](c.Admins(), n, Names{Singular: "Admin", Plural: "admins"}, opts...)
}

// NewRuleStore — шаблоны правил (/rules).
func NewRuleStore(c *api.Client, n notify.Notifier, opts ...Option) *Store[model.RuleTemplate] {
	return New[model.RuleTemplate](c.Rules(), n, Names{Singular: "Rule", Plural: "rules"}, opts...)
}

// NewAuditStore — журнал аудита, только чтение (/admin/audit).
func NewAuditStore(c *api.Client, n notify.Notifier, opts ...Option) *Store[model.AuditLog] {
	opts = append(opts, ReadOnly())
	return New[model.AuditLog](c.AuditLogs(), n, Names{Singular: "Audit log", Plural: "audit logs"}, opts...)
}

// BatchUploader sends a validated batch of foods in one call.
type BatchUploader func(ctx context.Context, foods []model.FoodDraft) (api.Reply[model.BatchResult], error)

// FoodStore is the foods store plus batch import.
type FoodStore struct {
	*Store[model.Food]
	upload BatchUploader
}

// NewFoodStore — каталог продуктов (/foods, /foods/batch).
func NewFoodStore(c *api.Client, n notify.Notifier, opts ...Option) *FoodStore {
	return NewFoodStoreWith(c.Foods(), c.UploadFoods, n, opts...)
}

// NewFoodStoreWith wires arbitrary endpoints; tests use it with fakes.
func NewFoodStoreWith(ep Endpoint[model.Food], upload BatchUploader, n notify.Notifier, opts ...Option) *FoodStore {
	return &FoodStore{
		Store:  New[model.Food](ep, n, Names{Singular: "Food", Plural: "foods"}, opts...),
		upload: upload,
	}
}

// UploadBatch posts the whole array. The result counts are only meaningful when ok is true.
func (s *FoodStore) UploadBatch(ctx context.Context, foods []model.FoodDraft) (model.BatchResult, bool) {
	s.setLoading(true)
	defer s.setLoading(false)

	reply, err := s.upload(ctx, foods)
	if err != nil {
		s.fail("batch", err, "Failed to upload foods")
		return model.BatchResult{}, false
	}
	res := reply.Data
	if res.TotalCount == 0 {
		res.TotalCount = len(foods)
	}
	msg := fmt.Sprintf("Uploaded %d of %d foods", res.SuccessCount, res.TotalCount)
	if res.SkippedCount > 0 {
		msg += fmt.Sprintf(" (%d skipped as duplicates)", res.SkippedCount)
	}
	s.n.Success(msg)
	s.afterMutation(ctx)
	return res, true
}
