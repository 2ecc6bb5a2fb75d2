package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListQuery — параметры выборки одной страницы.
type ListQuery struct {
	Page  int
	Limit int
	// Search ищется подстрокой без учёта регистра по колонкам поиска репозитория.
	Search string
	// Filters — точные совпадения колонка = значение.
	Filters map[string]any
	// WithDeleted включает помеченные удалёнными записи.
	WithDeleted bool
}

// Records — общий контракт доступа к записям одной таблицы.
// Методы возвращают gorm.ErrRecordNotFound, если записи нет.
type Records[T any] interface {
	List(ctx context.Context, q ListQuery) ([]T, int64, error)
	GetByID(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, v *T) error
	Save(ctx context.Context, v *T) error
	// SoftDelete помечает запись удалённой; повторное удаление даёт ErrRecordNotFound.
	SoftDelete(ctx context.Context, id string) error
	Count(ctx context.Context, query string, args ...any) (int64, error)
}

type gormRecords[T any] struct {
	db         *gorm.DB
	search     []string
	softDelete bool
}

func newRecords[T any](db *gorm.DB, softDelete bool, search ...string) *gormRecords[T] {
	return &gormRecords[T]{db: db, search: search, softDelete: softDelete}
}

func (r *gormRecords[T]) List(ctx context.Context, q ListQuery) ([]T, int64, error) {
	tx := r.db.WithContext(ctx).Model(new(T))
	if r.softDelete && !q.WithDeleted {
		tx = tx.Where("deleted = ?", false)
	}
	for col, v := range q.Filters {
		tx = tx.Where(clause.Eq{Column: clause.Column{Name: col}, Value: v})
	}
	if s := strings.TrimSpace(q.Search); s != "" && len(r.search) > 0 {
		like := "%" + strings.ToLower(s) + "%"
		conds := make([]string, 0, len(r.search))
		args := make([]any, 0, len(r.search))
		for _, col := range r.search {
			conds = append(conds, "LOWER("+col+") LIKE ?")
			args = append(args, like)
		}
		tx = tx.Where(strings.Join(conds, " OR "), args...)
	}
	tx = tx.Session(&gorm.Session{})

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if q.Page < 1 {
		q.Page = 1
	}
	out := make([]T, 0)
	if q.Limit > 0 {
		tx = tx.Offset((q.Page - 1) * q.Limit).Limit(q.Limit)
	}
	if err := tx.Order("created_at DESC").Order("id").Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *gormRecords[T]) GetByID(ctx context.Context, id string) (*T, error) {
	var v T
	if err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *gormRecords[T]) Create(ctx context.Context, v *T) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *gormRecords[T]) Save(ctx context.Context, v *T) error {
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *gormRecords[T]) SoftDelete(ctx context.Context, id string) error {
	if !r.softDelete {
		return gorm.ErrNotImplemented
	}
	tx := r.db.WithContext(ctx).Model(new(T)).
		Where("id = ? AND deleted = ?", id, false).
		Update("deleted", true)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *gormRecords[T]) Count(ctx context.Context, query string, args ...any) (int64, error) {
	tx := r.db.WithContext(ctx).Model(new(T))
	if query != "" {
		tx = tx.Where(query, args...)
	}
	var n int64
	err := tx.Count(&n).Error
	return n, err
}
