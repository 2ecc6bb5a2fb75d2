package service

import (
	"GluviaAdmin/internal/model"
	"GluviaAdmin/internal/repo"
	"context"
	"time"
)

// ActiveWindow — пользователь считается активным, если входил за этот период.
const ActiveWindow = 30 * 24 * time.Hour

// DashboardService собирает счётчики главного экрана.
type DashboardService struct {
	users  repo.Records[model.User]
	admins repo.Records[model.Admin]
	foods  repo.Records[model.Food]
	rules  repo.Records[model.RuleTemplate]
	audit  *AuditService
	now    func() time.Time
}

func NewDashboardService(
	users repo.Records[model.User],
	admins repo.Records[model.Admin],
	foods repo.Records[model.Food],
	rules repo.Records[model.RuleTemplate],
	audit *AuditService,
) *DashboardService {
	return &DashboardService{
		users: users, admins: admins, foods: foods, rules: rules, audit: audit,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Stats counts records that are not soft-deleted.
func (s *DashboardService) Stats(ctx context.Context) (model.DashboardStats, error) {
	now := s.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var st model.DashboardStats
	for _, c := range []struct {
		dst   *int64
		count func() (int64, error)
	}{
		{&st.TotalUsers, func() (int64, error) { return s.users.Count(ctx, "deleted = ?", false) }},
		{&st.ActiveUsers, func() (int64, error) {
			return s.users.Count(ctx, "deleted = ? AND last_login_at >= ?", false, now.Add(-ActiveWindow))
		}},
		{&st.NewUsersToday, func() (int64, error) {
			return s.users.Count(ctx, "deleted = ? AND created_at >= ?", false, midnight)
		}},
		{&st.TotalAdmins, func() (int64, error) { return s.admins.Count(ctx, "deleted = ?", false) }},
		{&st.TotalFoods, func() (int64, error) { return s.foods.Count(ctx, "deleted = ?", false) }},
		{&st.TotalRules, func() (int64, error) { return s.rules.Count(ctx, "deleted = ?", false) }},
		{&st.ActiveRules, func() (int64, error) {
			return s.rules.Count(ctx, "deleted = ? AND is_active = ?", false, true)
		}},
	} {
		n, err := c.count()
		if err != nil {
			return model.DashboardStats{}, err
		}
		*c.dst = n
	}
	return st, nil
}

// Activity returns the latest audit entries.
func (s *DashboardService) Activity(ctx context.Context, limit int) ([]model.Activity, error) {
	return s.audit.Recent(ctx, limit)
}
