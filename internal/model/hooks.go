package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// идентификаторы выдаются при первой вставке, если не заданы заранее
func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

func (u *User) BeforeCreate(*gorm.DB) error {
	ensureID(&u.ID)
	return nil
}

func (a *Admin) BeforeCreate(*gorm.DB) error {
	ensureID(&a.ID)
	return nil
}

func (f *Food) BeforeCreate(*gorm.DB) error {
	ensureID(&f.ID)
	return nil
}

func (r *RuleTemplate) BeforeCreate(*gorm.DB) error {
	ensureID(&r.ID)
	return nil
}

func (l *AuditLog) BeforeCreate(*gorm.DB) error {
	ensureID(&l.ID)
	return nil
}
