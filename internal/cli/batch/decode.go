// Package batch validates a pasted or uploaded JSON array of foods before it
// is sent to POST /foods/batch in a single call.
package batch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"GluviaAdmin/internal/cli/model"
	"GluviaAdmin/internal/nutrition"
)

var (
	// ErrEmpty is returned for blank input.
	ErrEmpty = errors.New("batch: input is empty")
	// ErrNotArray is returned when the input is valid JSON but not an array.
	ErrNotArray = errors.New("batch: input must be a JSON array of foods")
	// ErrNoRecords is returned for an empty array.
	ErrNoRecords = errors.New("batch: the array contains no foods")
)

// RowError is a validation failure of one record. Row is 1-based.
type RowError struct {
	Row     int
	Field   string
	Message string
}

func (e RowError) String() string {
	if e.Field == "" {
		return fmt.Sprintf("Row %d: %s", e.Row, e.Message)
	}
	return fmt.Sprintf("Row %d: %s %s", e.Row, e.Field, e.Message)
}

// Result is the outcome of a decode pass. Foods is set only when Errors is empty.
type Result struct {
	Foods  []model.FoodDraft
	Errors []RowError
}

// Valid reports whether the batch can be previewed and submitted.
func (r Result) Valid() bool { return len(r.Errors) == 0 && len(r.Foods) > 0 }

// Decode parses raw as a JSON array of food records, normalizes every
// record and validates each one independently. A non-nil error means the
// input as a whole was rejected; per-record problems are in Result.Errors.
func Decode(raw []byte) (Result, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Result{}, ErrEmpty
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return Result{}, ErrNotArray
		}
		return Result{}, fmt.Errorf("batch: invalid JSON: %w", err)
	}
	if elems == nil {
		// "null"
		return Result{}, ErrNotArray
	}
	if len(elems) == 0 {
		return Result{}, ErrNoRecords
	}

	var res Result
	foods := make([]model.FoodDraft, 0, len(elems))
	for i, el := range elems {
		d := rowDecoder{row: i + 1}
		food := d.food(el)
		if len(d.errs) > 0 {
			res.Errors = append(res.Errors, d.errs...)
			continue
		}
		foods = append(foods, food)
	}
	if len(res.Errors) == 0 {
		res.Foods = foods
	}
	return res, nil
}

// rowDecoder decodes one untyped record and collects its errors.
type rowDecoder struct {
	row  int
	errs []RowError
}

func (d *rowDecoder) fail(field, msg string) {
	d.errs = append(d.errs, RowError{Row: d.row, Field: field, Message: msg})
}

// rules records rule violations, skipping fields that already failed to decode.
func (d *rowDecoder) rules(vs []nutrition.Violation) {
	for _, v := range vs {
		if d.failed(v.Field) {
			continue
		}
		d.fail(v.Field, v.Message)
	}
}

func (d *rowDecoder) failed(field string) bool {
	for _, e := range d.errs {
		if e.Field == field {
			return true
		}
	}
	return false
}

func (d *rowDecoder) object(raw json.RawMessage, field string) (map[string]json.RawMessage, bool) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil || m == nil {
		d.fail(field, "must be an object")
		return nil, false
	}
	return m, true
}

// str returns the trimmed string at key. present is false for a missing or null key.
func (d *rowDecoder) str(m map[string]json.RawMessage, key, field string) (v string, present bool) {
	raw, ok := m[key]
	if !ok || isNull(raw) {
		return "", false
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		d.fail(field, "must be a string")
		return "", true
	}
	return strings.TrimSpace(v), true
}

// num decodes a required number. Missing and mistyped values are reported.
func (d *rowDecoder) num(m map[string]json.RawMessage, key, field string) float64 {
	raw, ok := m[key]
	if !ok || isNull(raw) {
		d.fail(field, "is required")
		return 0
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		d.fail(field, "must be a number")
	}
	return v
}

// optNum decodes an optional number; nil when absent.
func (d *rowDecoder) optNum(m map[string]json.RawMessage, key, field string) *float64 {
	raw, ok := m[key]
	if !ok || isNull(raw) {
		return nil
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		d.fail(field, "must be a number")
		return nil
	}
	return &v
}

func (d *rowDecoder) food(raw json.RawMessage) model.FoodDraft {
	var f model.FoodDraft
	m, ok := d.object(raw, "")
	if !ok {
		return f
	}

	f.LocalName, _ = d.str(m, "localName", "localName")
	f.CanonicalName, _ = d.str(m, "canonicalName", "canonicalName")
	f.Category, _ = d.str(m, "category", "category")
	f.Description, _ = d.str(m, "description", "description")
	f.Region, _ = d.str(m, "region", "region")
	d.rules(nutrition.CheckRequired(
		[2]string{"localName", f.LocalName},
		[2]string{"canonicalName", f.CanonicalName},
		[2]string{"category", f.Category},
	))

	// нормализация до валидации: отсутствующее поле получает значение по умолчанию,
	// а присутствующее, но пустое или неизвестное считается ошибкой
	aff, present := d.str(m, "affordability", "affordability")
	if present {
		aff = strings.ToLower(aff)
	} else {
		aff = nutrition.DefaultAffordability
	}
	f.Affordability = aff
	if !d.failed("affordability") && !nutrition.IsAffordability(aff) {
		d.fail("affordability", "must be one of low, medium, high")
	}

	f.Nutrients = d.nutrients(m)
	f.PortionSizes = d.portions(m)
	return f
}

func (d *rowDecoder) nutrients(m map[string]json.RawMessage) model.Nutrients {
	var n model.Nutrients
	raw, ok := m["nutrients"]
	if !ok || isNull(raw) {
		d.fail("nutrients", "is required")
		return n
	}
	nm, ok := d.object(raw, "nutrients")
	if !ok {
		return n
	}
	n.Calories = d.num(nm, "calories", "nutrients.calories")
	n.Carbs = d.num(nm, "carbs", "nutrients.carbs")
	n.Protein = d.num(nm, "protein", "nutrients.protein")
	n.Fat = d.num(nm, "fat", "nutrients.fat")
	n.Fibre = d.num(nm, "fibre", "nutrients.fibre")
	n.GlycemicIndex = d.optNum(nm, "glycemicIndex", "nutrients.glycemicIndex")

	d.rules(nutrition.CheckNutrients(nutrition.Nutrients{
		Calories:      n.Calories,
		Carbs:         n.Carbs,
		Protein:       n.Protein,
		Fat:           n.Fat,
		Fibre:         n.Fibre,
		GlycemicIndex: n.GlycemicIndex,
	}))
	return n
}

func (d *rowDecoder) portions(m map[string]json.RawMessage) []model.PortionSize {
	var elems []json.RawMessage
	if raw, ok := m["portionSizes"]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &elems); err != nil {
			d.fail("portionSizes", "must be an array")
			return nil
		}
	}

	if len(elems) == 0 {
		for _, v := range nutrition.CheckPortions(nil) {
			d.fail(v.Field, v.Message)
		}
		return nil
	}
	out := make([]model.PortionSize, 0, len(elems))
	for i, el := range elems {
		prefix := fmt.Sprintf("portionSizes[%d]", i)
		pm, ok := d.object(el, prefix)
		if !ok {
			continue
		}
		var p model.PortionSize
		p.Name, _ = d.str(pm, "name", prefix+".name")
		p.Grams = d.num(pm, "grams", prefix+".grams")
		p.Carbs = d.optNum(pm, "carbs", prefix+".carbs")
		out = append(out, p)
		d.rules(nutrition.CheckPortion(i, nutrition.Portion{Name: p.Name, Grams: p.Grams, Carbs: p.Carbs}))
	}
	return out
}

func isNull(raw json.RawMessage) bool { return bytes.Equal(bytes.TrimSpace(raw), []byte("null")) }
