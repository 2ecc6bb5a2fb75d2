package model

import "time"

// Роли учётных записей.
const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// User — серверная модель пользователя платформы.
type User struct {
	ID           string     `gorm:"primaryKey;type:uuid" json:"id"`
	Email        string     `gorm:"not null;uniqueIndex" json:"email"`
	Password     string     `gorm:"not null" json:"-"` // bcrypt hash
	FirstName    string     `gorm:"not null" json:"firstName"`
	LastName     string     `gorm:"not null" json:"lastName"`
	Role         string     `gorm:"not null;default:user" json:"role"`
	DiabetesType string     `json:"diabetesType,omitempty"`
	IsVerified   bool       `gorm:"not null;default:false" json:"isVerified"`
	Deleted      bool       `gorm:"not null;default:false;index" json:"deleted"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// Admin — учётная запись администратора панели.
type Admin struct {
	ID          string     `gorm:"primaryKey;type:uuid" json:"id"`
	Email       string     `gorm:"not null;uniqueIndex" json:"email"`
	Password    string     `gorm:"not null" json:"-"`
	FirstName   string     `gorm:"not null" json:"firstName"`
	LastName    string     `gorm:"not null" json:"lastName"`
	Role        string     `gorm:"not null;default:admin" json:"role"`
	Deleted     bool       `gorm:"not null;default:false;index" json:"deleted"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// PasswordReset — одноразовый токен сброса пароля администратора.
type PasswordReset struct {
	Token     string    `gorm:"primaryKey;type:uuid"`
	AdminID   string    `gorm:"not null;index"`
	ExpiresAt time.Time `gorm:"not null"`
	Used      bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// RevokedToken marks a bearer token (by its jti) as logged out until it expires.
type RevokedToken struct {
	ID        string    `gorm:"primaryKey"`
	ExpiresAt time.Time `gorm:"not null;index"`
}
