package model

import "strconv"

// UserDraft is the create payload for a platform user.
type UserDraft struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	DiabetesType string `json:"diabetesType,omitempty"`
}

// AdminDraft is the create payload for an admin account.
type AdminDraft struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

// FoodDraft — данные продукта до сохранения на сервере (форма и пакетная загрузка).
type FoodDraft struct {
	LocalName     string        `json:"localName"`
	CanonicalName string        `json:"canonicalName"`
	Category      string        `json:"category"`
	Affordability string        `json:"affordability"`
	Description   string        `json:"description,omitempty"`
	Region        string        `json:"region,omitempty"`
	Nutrients     Nutrients     `json:"nutrients"`
	PortionSizes  []PortionSize `json:"portionSizes"`
}

// RuleDraft is the create payload for a rule template.
type RuleDraft struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category"`
	Condition   string `json:"condition"`
	Message     string `json:"message"`
	Severity    string `json:"severity"`
	Priority    int    `json:"priority"`
	IsActive    bool   `json:"isActive"`
}

// Patch is a partial update: only keys present are changed.
type Patch map[string]any

func itoa(n int) string { return strconv.Itoa(n) }
