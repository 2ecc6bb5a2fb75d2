package model

import "time"

// Уровни важности правил.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// RuleTemplate — шаблон правила рекомендаций.
type RuleTemplate struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `gorm:"not null;index" json:"category"`
	Condition   string `gorm:"not null" json:"condition"`
	Message     string `gorm:"not null" json:"message"`
	Severity    string `gorm:"not null;index" json:"severity"`
	Priority    int    `gorm:"not null;default:0" json:"priority"`
	IsActive    bool   `gorm:"not null" json:"isActive"`
	Deleted     bool   `gorm:"not null;default:false;index" json:"deleted"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// Действия журнала аудита.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionLogin  = "login"
)

// AuditLog — запись журнала аудита; только добавляется.
type AuditLog struct {
	ID         string    `gorm:"primaryKey;type:uuid" json:"id"`
	ActorID    string    `gorm:"index" json:"actorId"`
	ActorEmail string    `json:"actorEmail"`
	Action     string    `gorm:"not null;index" json:"action"`
	Resource   string    `gorm:"not null;index" json:"resource"`
	ResourceID string    `json:"resourceId,omitempty"`
	Details    string    `json:"details,omitempty"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
}

// Activity is the dashboard feed projection of an AuditLog.
type Activity struct {
	Action     string    `json:"action"`
	Resource   string    `json:"resource"`
	ActorEmail string    `json:"actorEmail"`
	CreatedAt  time.Time `json:"createdAt"`
}

// DashboardStats — счётчики главного экрана.
type DashboardStats struct {
	TotalUsers    int64 `json:"totalUsers"`
	ActiveUsers   int64 `json:"activeUsers"`
	NewUsersToday int64 `json:"newUsersToday"`
	TotalAdmins   int64 `json:"totalAdmins"`
	TotalFoods    int64 `json:"totalFoods"`
	TotalRules    int64 `json:"totalRules"`
	ActiveRules   int64 `json:"activeRules"`
}

// All returns every model for AutoMigrate.
func All() []any {
	return []any{
		&User{}, &Admin{}, &PasswordReset{}, &RevokedToken{},
		&Food{}, &RuleTemplate{}, &AuditLog{},
	}
}
