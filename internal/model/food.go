package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Nutrients — пищевая ценность на 100 г, хранится в колонках nutrient_*.
type Nutrients struct {
	Calories      float64  `gorm:"not null" json:"calories"`
	Carbs         float64  `gorm:"not null" json:"carbs"`
	Protein       float64  `gorm:"not null" json:"protein"`
	Fat           float64  `gorm:"not null" json:"fat"`
	Fibre         float64  `gorm:"not null" json:"fibre"`
	GlycemicIndex *float64 `json:"glycemicIndex,omitempty"`
}

// PortionSize is one serving definition stored inside Food.PortionSizes.
type PortionSize struct {
	Name  string   `json:"name"`
	Grams float64  `json:"grams"`
	Carbs *float64 `json:"carbs,omitempty"`
}

// Food — продукт каталога. CanonicalName уникален, по нему отсекаются дубликаты при пакетной загрузке.
type Food struct {
	ID            string         `gorm:"primaryKey;type:uuid" json:"id"`
	LocalName     string         `gorm:"not null" json:"localName"`
	CanonicalName string         `gorm:"not null;uniqueIndex" json:"canonicalName"`
	Category      string         `gorm:"not null;index" json:"category"`
	Affordability string         `gorm:"not null;default:medium" json:"affordability"`
	Description   string         `json:"description,omitempty"`
	Region        string         `json:"region,omitempty"`
	Nutrients     Nutrients      `gorm:"embedded;embeddedPrefix:nutrient_" json:"nutrients"`
	PortionSizes  datatypes.JSON `json:"portionSizes"`
	Deleted       bool           `gorm:"not null;default:false;index" json:"deleted"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// Portions decodes PortionSizes. A broken column yields an empty list.
func (f *Food) Portions() []PortionSize {
	var ps []PortionSize
	if len(f.PortionSizes) == 0 {
		return ps
	}
	_ = json.Unmarshal(f.PortionSizes, &ps)
	return ps
}

// SetPortions encodes ps into PortionSizes.
func (f *Food) SetPortions(ps []PortionSize) error {
	if ps == nil {
		ps = []PortionSize{}
	}
	b, err := json.Marshal(ps)
	if err != nil {
		return err
	}
	f.PortionSizes = datatypes.JSON(b)
	return nil
}
