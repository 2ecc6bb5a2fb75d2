package service

import (
	"GluviaAdmin/internal/model"
	"GluviaAdmin/internal/nutrition"
	"GluviaAdmin/internal/repo"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// MaxBatchSize ограничивает число продуктов в одной пакетной загрузке.
const MaxBatchSize = 1000

var foodColumns = map[string]string{"category": "category", "affordability": "affordability", "region": "region"}

// FoodService управляет каталогом продуктов.
type FoodService struct {
	*Catalog[model.Food]
	foods repo.FoodRepository
}

func NewFoodService(r repo.FoodRepository, audit *AuditService, logger *zap.SugaredLogger) *FoodService {
	return &FoodService{
		Catalog: &Catalog[model.Food]{
			resource: "foods",
			records:  r,
			kind:     foodKind{r},
			columns:  foodColumns,
			audit:    audit,
			logger:   logger,
		},
		foods: r,
	}
}

// FoodInput — тело запроса на создание продукта и элемент пакетной загрузки.
type FoodInput struct {
	LocalName     string              `json:"localName"`
	CanonicalName string              `json:"canonicalName"`
	Category      string              `json:"category"`
	Affordability string              `json:"affordability"`
	Description   string              `json:"description"`
	Region        string              `json:"region"`
	Nutrients     model.Nutrients     `json:"nutrients"`
	PortionSizes  []model.PortionSize `json:"portionSizes"`
}

// validate нормализует поля и проверяет правила продукта.
func (in *FoodInput) validate() error {
	in.LocalName = strings.TrimSpace(in.LocalName)
	in.CanonicalName = strings.TrimSpace(in.CanonicalName)
	in.Category = strings.TrimSpace(in.Category)
	in.Affordability = nutrition.NormalizeAffordability(in.Affordability)

	var c checker
	c.addAll(nutrition.CheckRequired(
		[2]string{"localName", in.LocalName},
		[2]string{"canonicalName", in.CanonicalName},
		[2]string{"category", in.Category},
	))
	if !nutrition.IsAffordability(in.Affordability) {
		c.add("affordability", "must be one of low, medium, high")
	}
	checkFoodNutrients(&c, in.Nutrients)
	c.addAll(nutrition.CheckPortions(portions(in.PortionSizes)))
	return c.err()
}

func (in *FoodInput) food() (*model.Food, error) {
	f := &model.Food{
		LocalName:     in.LocalName,
		CanonicalName: in.CanonicalName,
		Category:      in.Category,
		Affordability: in.Affordability,
		Description:   in.Description,
		Region:        in.Region,
		Nutrients:     in.Nutrients,
	}
	if err := f.SetPortions(in.PortionSizes); err != nil {
		return nil, err
	}
	return f, nil
}

func checkFoodNutrients(c *checker, n model.Nutrients) {
	c.addAll(nutrition.CheckNutrients(nutrition.Nutrients{
		Calories:      n.Calories,
		Carbs:         n.Carbs,
		Protein:       n.Protein,
		Fat:           n.Fat,
		Fibre:         n.Fibre,
		GlycemicIndex: n.GlycemicIndex,
	}))
}

func portions(ps []model.PortionSize) []nutrition.Portion {
	out := make([]nutrition.Portion, 0, len(ps))
	for _, p := range ps {
		out = append(out, nutrition.Portion{Name: p.Name, Grams: p.Grams, Carbs: p.Carbs})
	}
	return out
}

type foodKind struct {
	foods repo.FoodRepository
}

func (k foodKind) id(f *model.Food) string    { return f.ID }
func (k foodKind) label(f *model.Food) string { return f.CanonicalName }

func (k foodKind) canonicalFree(ctx context.Context, name, selfID string) error {
	existing, err := k.foods.GetByCanonicalName(ctx, name)
	switch {
	case errors.Is(notFound(err), ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID == selfID:
		return nil
	}
	return ErrCanonicalNameTaken
}

func (k foodKind) build(ctx context.Context, raw json.RawMessage) (*model.Food, error) {
	var in FoodInput
	if err := decode(raw, &in); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := k.canonicalFree(ctx, in.CanonicalName, ""); err != nil {
		return nil, err
	}
	return in.food()
}

type foodPatch struct {
	LocalName     *string              `json:"localName"`
	CanonicalName *string              `json:"canonicalName"`
	Category      *string              `json:"category"`
	Affordability *string              `json:"affordability"`
	Description   *string              `json:"description"`
	Region        *string              `json:"region"`
	Nutrients     json.RawMessage      `json:"nutrients"`
	PortionSizes  *[]model.PortionSize `json:"portionSizes"`
}

// apply: nutrients сливаются с текущими значениями поле за полем,
// portionSizes заменяют список целиком.
func (k foodKind) apply(ctx context.Context, f *model.Food, raw json.RawMessage) error {
	var p foodPatch
	if err := decode(raw, &p); err != nil {
		return err
	}
	var c checker
	for _, kv := range []struct {
		field string
		v     *string
	}{
		{"localName", p.LocalName},
		{"canonicalName", p.CanonicalName},
		{"category", p.Category},
	} {
		if kv.v != nil {
			*kv.v = strings.TrimSpace(*kv.v)
			c.required(kv.field, *kv.v)
		}
	}
	if p.Affordability != nil {
		*p.Affordability = strings.ToLower(strings.TrimSpace(*p.Affordability))
		if !nutrition.IsAffordability(*p.Affordability) {
			c.add("affordability", "must be one of low, medium, high")
		}
	}
	n := f.Nutrients
	if len(p.Nutrients) > 0 {
		if err := json.Unmarshal(p.Nutrients, &n); err != nil {
			c.add("nutrients", "must be an object of numbers")
		} else {
			checkFoodNutrients(&c, n)
		}
	}
	if p.PortionSizes != nil {
		c.addAll(nutrition.CheckPortions(portions(*p.PortionSizes)))
	}
	if err := c.err(); err != nil {
		return err
	}
	if p.CanonicalName != nil && *p.CanonicalName != f.CanonicalName {
		if err := k.canonicalFree(ctx, *p.CanonicalName, f.ID); err != nil {
			return err
		}
	}

	setString(&f.LocalName, p.LocalName)
	setString(&f.CanonicalName, p.CanonicalName)
	setString(&f.Category, p.Category)
	setString(&f.Affordability, p.Affordability)
	setString(&f.Description, p.Description)
	setString(&f.Region, p.Region)
	f.Nutrients = n
	if p.PortionSizes != nil {
		return f.SetPortions(*p.PortionSizes)
	}
	return nil
}

// BatchItemError — ошибка одного элемента пакетной загрузки.
type BatchItemError struct {
	Index   int    `json:"index"`
	Name    string `json:"name,omitempty"`
	Message string `json:"message"`
}

// BatchResult — итог пакетной загрузки.
type BatchResult struct {
	SuccessCount int              `json:"successCount"`
	SkippedCount int              `json:"skippedCount"`
	TotalCount   int              `json:"totalCount"`
	Errors       []BatchItemError `json:"errors,omitempty"`
}

// ImportBatch stores every valid food. Foods whose canonical name already
// exists, including earlier items of the same batch, are counted as skipped.
// Invalid items are reported per index and do not stop the import. Valid
// items are stored in one transaction, so a storage error stores nothing.
func (s *FoodService) ImportBatch(ctx context.Context, actor Actor, items []FoodInput) (BatchResult, error) {
	if len(items) == 0 {
		return BatchResult{}, &ValidationError{Details: []FieldError{{Field: "foods", Message: "at least one food is required"}}}
	}
	if len(items) > MaxBatchSize {
		return BatchResult{}, &ValidationError{Details: []FieldError{{
			Field: "foods", Message: fmt.Sprintf("must contain at most %d items", MaxBatchSize),
		}}}
	}

	res := BatchResult{TotalCount: len(items)}
	valid := make([]*model.Food, 0, len(items))
	for i := range items {
		in := &items[i]
		if err := in.validate(); err != nil {
			res.Errors = append(res.Errors, BatchItemError{Index: i, Name: in.CanonicalName, Message: batchMessage(err)})
			continue
		}
		f, err := in.food()
		if err != nil {
			res.Errors = append(res.Errors, BatchItemError{Index: i, Name: in.CanonicalName, Message: err.Error()})
			continue
		}
		valid = append(valid, f)
	}

	if len(valid) > 0 {
		created, err := s.foods.CreateAllIfAbsent(ctx, valid)
		if err != nil {
			return BatchResult{}, fmt.Errorf("food batch: %w", err)
		}
		for _, ok := range created {
			if ok {
				res.SuccessCount++
			} else {
				res.SkippedCount++
			}
		}
	}

	s.logger.Infow("food batch imported",
		"total", res.TotalCount, "created", res.SuccessCount, "skipped", res.SkippedCount, "failed", len(res.Errors))
	s.audit.Record(ctx, actor, model.ActionCreate, "foods", "",
		fmt.Sprintf("batch: %d created, %d skipped, %d failed", res.SuccessCount, res.SkippedCount, len(res.Errors)))
	return res, nil
}

func batchMessage(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		parts := make([]string, 0, len(ve.Details))
		for _, d := range ve.Details {
			parts = append(parts, d.Field+" "+d.Message)
		}
		return strings.Join(parts, "; ")
	}
	return err.Error()
}
