package repo

import (
	"GluviaAdmin/internal/model"
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FoodRepository — каталог продуктов.
type FoodRepository interface {
	Records[model.Food]
	// CreateAllIfAbsent создаёт продукты в одной транзакции. Продукт, чей canonical name
	// уже есть (в том числе удалённый или выше в том же списке), пропускается.
	// created[i] относится к foods[i]; при ошибке не сохраняется ни один.
	CreateAllIfAbsent(ctx context.Context, foods []*model.Food) (created []bool, err error)
	GetByCanonicalName(ctx context.Context, name string) (*model.Food, error)
}

type foodRepo struct {
	*gormRecords[model.Food]
}

// NewFoodRepository создаёт реализацию репозитория продуктов.
func NewFoodRepository(db *gorm.DB) FoodRepository {
	return &foodRepo{newRecords[model.Food](db, true, "local_name", "canonical_name", "category", "region")}
}

func (r *foodRepo) CreateAllIfAbsent(ctx context.Context, foods []*model.Food) ([]bool, error) {
	created := make([]bool, len(foods))
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, f := range foods {
			ok, err := createIfAbsent(tx, f)
			if err != nil {
				return fmt.Errorf("food %q: %w", f.CanonicalName, err)
			}
			created[i] = ok
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func createIfAbsent(db *gorm.DB, f *model.Food) (bool, error) {
	tx := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "canonical_name"}},
		DoNothing: true,
	}).Create(f)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *foodRepo) GetByCanonicalName(ctx context.Context, name string) (*model.Food, error) {
	var f model.Food
	if err := r.db.WithContext(ctx).First(&f, "canonical_name = ?", name).Error; err != nil {
		return nil, err
	}
	return &f, nil
}
