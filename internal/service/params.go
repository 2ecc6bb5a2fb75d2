package service

import (
	"GluviaAdmin/internal/repo"
	"strings"
)

const (
	DefaultLimit = 10
	MaxLimit     = 1000
)

// Статусы записей для фильтра status.
const (
	StatusActive  = "active"
	StatusDeleted = "deleted"
	StatusAll     = "all"
)

// ListParams — параметры списка из query string.
type ListParams struct {
	Page    int
	Limit   int
	Search  string
	Filters map[string]string
}

// Page is one page of records with its pagination numbers.
type Page[T any] struct {
	Items []T
	Page  int
	Limit int
	Total int64
}

// Actor — администратор, выполняющий действие.
type Actor struct {
	ID    string
	Email string
}

// query переводит параметры в запрос к репозиторию. columns сопоставляет
// имя фильтра в API колонке таблицы; прочие фильтры игнорируются.
func (p ListParams) query(columns map[string]string) repo.ListQuery {
	q := repo.ListQuery{Page: p.Page, Limit: p.Limit, Search: strings.TrimSpace(p.Search), Filters: map[string]any{}}
	if q.Page < 1 {
		q.Page = 1
	}
	switch {
	case q.Limit <= 0:
		q.Limit = DefaultLimit
	case q.Limit > MaxLimit:
		q.Limit = MaxLimit
	}
	for name, v := range p.Filters {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if name == "status" {
			switch v {
			case StatusDeleted:
				q.WithDeleted = true
				q.Filters["deleted"] = true
			case StatusAll:
				q.WithDeleted = true
			}
			continue
		}
		if col, ok := columns[name]; ok {
			q.Filters[col] = v
		}
	}
	return q
}
