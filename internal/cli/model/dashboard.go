package model

import "time"

// DashboardStats — агрегированные показатели для главного экрана.
type DashboardStats struct {
	TotalUsers    int `json:"totalUsers"`
	ActiveUsers   int `json:"activeUsers"`
	NewUsersToday int `json:"newUsersToday"`
	TotalAdmins   int `json:"totalAdmins"`
	TotalFoods    int `json:"totalFoods"`
	TotalRules    int `json:"totalRules"`
	ActiveRules   int `json:"activeRules"`
}

// Activity is one entry of the recent-activity feed.
type Activity struct {
	Action     string    `json:"action"`
	Resource   string    `json:"resource"`
	ActorEmail string    `json:"actorEmail"`
	CreatedAt  time.Time `json:"createdAt"`
}

// BatchItemError is a per-item failure reported by the batch endpoint.
type BatchItemError struct {
	Index   int    `json:"index"`
	Name    string `json:"name,omitempty"`
	Message string `json:"message"`
}

// BatchResult is the response of POST /foods/batch.
type BatchResult struct {
	SuccessCount int              `json:"successCount"`
	SkippedCount int              `json:"skippedCount"`
	TotalCount   int              `json:"totalCount"`
	Errors       []BatchItemError `json:"errors,omitempty"`
}

// FailedCount is the number of items neither stored nor skipped.
func (r BatchResult) FailedCount() int {
	n := r.TotalCount - r.SuccessCount - r.SkippedCount
	if n < 0 {
		return 0
	}
	return n
}
