package store

import (
	"context"
	"slices"
	"sync"

	"GluviaAdmin/internal/cli/model"
	"GluviaAdmin/internal/cli/notify"
)

// DashboardSource reads the dashboard endpoints. *api.Client implements it.
type DashboardSource interface {
	DashboardStats(ctx context.Context) (model.DashboardStats, error)
	RecentActivity(ctx context.Context, limit int) ([]model.Activity, error)
}

// DashboardSnapshot is the state of the dashboard screen.
type DashboardSnapshot struct {
	Stats     model.DashboardStats
	Activity  []model.Activity
	Loaded    bool
	IsLoading bool
}

// DashboardStore holds dashboard metrics.
type DashboardStore struct {
	src DashboardSource
	n   notify.Notifier

	mu   sync.RWMutex
	snap DashboardSnapshot
}

// NewDashboardStore creates the dashboard store.
func NewDashboardStore(src DashboardSource, n notify.Notifier) *DashboardStore {
	return &DashboardStore{src: src, n: n}
}

// Snapshot returns the current state.
func (d *DashboardStore) Snapshot() DashboardSnapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := d.snap
	out.Activity = slices.Clone(d.snap.Activity)
	return out
}

func (d *DashboardStore) publish(fn func(*DashboardSnapshot)) {
	d.mu.Lock()
	next := d.snap
	fn(&next)
	d.snap = next
	d.mu.Unlock()
}

// Load fetches stats and the recent activity feed. Both must succeed for
// the snapshot to change.
func (d *DashboardStore) Load(ctx context.Context, activityLimit int) bool {
	d.publish(func(s *DashboardSnapshot) { s.IsLoading = true })
	defer d.publish(func(s *DashboardSnapshot) { s.IsLoading = false })

	stats, err := d.src.DashboardStats(ctx)
	if err != nil {
		report(d.n, err, "Failed to load dashboard statistics")
		return false
	}
	act, err := d.src.RecentActivity(ctx, activityLimit)
	if err != nil {
		report(d.n, err, "Failed to load recent activity")
		return false
	}
	d.publish(func(s *DashboardSnapshot) {
		s.Stats = stats
		s.Activity = act
		s.Loaded = true
	})
	return true
}
