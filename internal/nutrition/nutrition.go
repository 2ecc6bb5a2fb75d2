// Package nutrition holds the food-data rules shared by the admin client
// (batch pre-validation) and the reference API server.
package nutrition

import (
	"fmt"
	"strings"
)

// Affordability levels. The set is closed.
const (
	AffordabilityLow    = "low"
	AffordabilityMedium = "medium"
	AffordabilityHigh   = "high"

	// DefaultAffordability подставляется, если поле не задано вовсе.
	DefaultAffordability = AffordabilityMedium
)

// MaxGlycemicIndex is the upper bound of the glycemic index scale.
const MaxGlycemicIndex = 100

// Violation describes a single broken rule for one field.
type Violation struct {
	Field   string
	Message string
}

func (v Violation) String() string { return v.Field + ": " + v.Message }

// IsAffordability reports whether s is one of the known levels.
func IsAffordability(s string) bool {
	switch s {
	case AffordabilityLow, AffordabilityMedium, AffordabilityHigh:
		return true
	}
	return false
}

// NormalizeAffordability приводит значение к нижнему регистру; пустое значение
// заменяется значением по умолчанию.
func NormalizeAffordability(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultAffordability
	}
	return s
}

// Nutrients is the per-100g nutrient block of a food.
type Nutrients struct {
	Calories      float64
	Carbs         float64
	Protein       float64
	Fat           float64
	Fibre         float64
	GlycemicIndex *float64
}

// CheckNutrients validates the nutrient block. Field names are prefixed with "nutrients.".
func CheckNutrients(n Nutrients) []Violation {
	var out []Violation
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"calories", n.Calories},
		{"carbs", n.Carbs},
		{"protein", n.Protein},
		{"fat", n.Fat},
		{"fibre", n.Fibre},
	} {
		if f.v < 0 {
			out = append(out, Violation{Field: "nutrients." + f.name, Message: "must be non-negative"})
		}
	}
	if gi := n.GlycemicIndex; gi != nil && (*gi < 0 || *gi > MaxGlycemicIndex) {
		out = append(out, Violation{
			Field:   "nutrients.glycemicIndex",
			Message: fmt.Sprintf("must be between 0 and %d", MaxGlycemicIndex),
		})
	}
	return out
}

// Portion is one serving definition of a food.
type Portion struct {
	Name  string
	Grams float64
	Carbs *float64
}

// CheckPortions validates the portion-size list. The list must not be empty.
func CheckPortions(ps []Portion) []Violation {
	if len(ps) == 0 {
		return []Violation{{Field: "portionSizes", Message: "at least one portion size is required"}}
	}
	var out []Violation
	for i, p := range ps {
		out = append(out, CheckPortion(i, p)...)
	}
	return out
}

// CheckPortion validates the i-th entry of a portion-size list.
func CheckPortion(i int, p Portion) []Violation {
	prefix := fmt.Sprintf("portionSizes[%d].", i)
	var out []Violation
	if strings.TrimSpace(p.Name) == "" {
		out = append(out, Violation{Field: prefix + "name", Message: "is required"})
	}
	if p.Grams <= 0 {
		out = append(out, Violation{Field: prefix + "grams", Message: "must be greater than 0"})
	}
	if p.Carbs != nil && *p.Carbs < 0 {
		out = append(out, Violation{Field: prefix + "carbs", Message: "must be non-negative"})
	}
	return out
}

// CheckRequired returns a violation for every blank value, in the given order.
func CheckRequired(fields ...[2]string) []Violation {
	var out []Violation
	for _, f := range fields {
		if strings.TrimSpace(f[1]) == "" {
			out = append(out, Violation{Field: f[0], Message: "is required"})
		}
	}
	return out
}
