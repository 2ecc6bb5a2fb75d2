package model

import "time"

// User — пользователь платформы (пациент).
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	Role         string     `json:"role"`
	DiabetesType string     `json:"diabetesType,omitempty"`
	IsVerified   bool       `json:"isVerified"`
	Deleted      bool       `json:"deleted"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// FullName returns "First Last" trimmed to what is set.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Admin — учётная запись администратора панели.
type Admin struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Role        string     `json:"role"` // admin | super_admin
	Deleted     bool       `json:"deleted"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Nutrients is the per-100g nutrient block. GlycemicIndex is optional.
type Nutrients struct {
	Calories      float64  `json:"calories"`
	Carbs         float64  `json:"carbs"`
	Protein       float64  `json:"protein"`
	Fat           float64  `json:"fat"`
	Fibre         float64  `json:"fibre"`
	GlycemicIndex *float64 `json:"glycemicIndex,omitempty"`
}

// PortionSize — типовая порция продукта.
type PortionSize struct {
	Name  string   `json:"name"`
	Grams float64  `json:"grams"`
	Carbs *float64 `json:"carbs,omitempty"`
}

// Food is a catalogue entry.
type Food struct {
	ID            string        `json:"id"`
	LocalName     string        `json:"localName"`
	CanonicalName string        `json:"canonicalName"`
	Category      string        `json:"category"`
	Affordability string        `json:"affordability"`
	Description   string        `json:"description,omitempty"`
	Region        string        `json:"region,omitempty"`
	Nutrients     Nutrients     `json:"nutrients"`
	PortionSizes  []PortionSize `json:"portionSizes"`
	Deleted       bool          `json:"deleted"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// RuleTemplate — шаблон правила рекомендаций (например, предупреждение о высоком ГИ).
type RuleTemplate struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category"`
	Condition   string    `json:"condition"`
	Message     string    `json:"message"`
	Severity    string    `json:"severity"` // info | warning | critical
	Priority    int       `json:"priority"`
	IsActive    bool      `json:"isActive"`
	Deleted     bool      `json:"deleted"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// AuditLog is an append-only record of an administrative action.
type AuditLog struct {
	ID         string    `json:"id"`
	ActorID    string    `json:"actorId"`
	ActorEmail string    `json:"actorEmail"`
	Action     string    `json:"action"`
	Resource   string    `json:"resource"`
	ResourceID string    `json:"resourceId,omitempty"`
	Details    string    `json:"details,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
