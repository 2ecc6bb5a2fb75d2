package service

import (
	"GluviaAdmin/internal/model"
	"GluviaAdmin/internal/repo"
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// kind описывает правила конкретного ресурса для Catalog.
type kind[T any] interface {
	// build проверяет тело запроса на создание и собирает новую запись.
	build(ctx context.Context, raw json.RawMessage) (*T, error)
	// apply проверяет частичное обновление и применяет его к cur.
	apply(ctx context.Context, cur *T, raw json.RawMessage) error
	id(v *T) string
	label(v *T) string
}

// Catalog реализует CRUD с мягким удалением и записью в журнал аудита.
type Catalog[T any] struct {
	resource string // имя коллекции в журнале аудита
	records  repo.Records[T]
	kind     kind[T]
	columns  map[string]string
	audit    *AuditService
	logger   *zap.SugaredLogger
}

func (c *Catalog[T]) List(ctx context.Context, p ListParams) (Page[T], error) {
	q := p.query(c.columns)
	items, total, err := c.records.List(ctx, q)
	if err != nil {
		return Page[T]{}, err
	}
	return Page[T]{Items: items, Page: q.Page, Limit: q.Limit, Total: total}, nil
}

func (c *Catalog[T]) Get(ctx context.Context, id string) (*T, error) {
	v, err := c.records.GetByID(ctx, id)
	return v, notFound(err)
}

func (c *Catalog[T]) Create(ctx context.Context, actor Actor, raw json.RawMessage) (*T, error) {
	v, err := c.kind.build(ctx, raw)
	if err != nil {
		return nil, err
	}
	if err := c.records.Create(ctx, v); err != nil {
		return nil, fmt.Errorf("create %s: %w", c.resource, err)
	}
	c.logger.Infow("record created", "resource", c.resource, "id", c.kind.id(v), "actor", actor.Email)
	c.audit.Record(ctx, actor, model.ActionCreate, c.resource, c.kind.id(v), c.kind.label(v))
	return v, nil
}

func (c *Catalog[T]) Update(ctx context.Context, actor Actor, id string, raw json.RawMessage) (*T, error) {
	cur, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.kind.apply(ctx, cur, raw); err != nil {
		return nil, err
	}
	if err := c.records.Save(ctx, cur); err != nil {
		return nil, fmt.Errorf("update %s: %w", c.resource, err)
	}
	c.audit.Record(ctx, actor, model.ActionUpdate, c.resource, id, c.kind.label(cur))
	return cur, nil
}

// Delete помечает запись удалённой; физически она остаётся в БД.
func (c *Catalog[T]) Delete(ctx context.Context, actor Actor, id string) error {
	if err := c.records.SoftDelete(ctx, id); err != nil {
		return notFound(err)
	}
	c.audit.Record(ctx, actor, model.ActionDelete, c.resource, id, "")
	return nil
}

// decode разбирает JSON-объект тела запроса.
func decode(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return &ValidationError{Details: []FieldError{{Field: "body", Message: "is required"}}}
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return &ValidationError{Details: []FieldError{{Field: "body", Message: "must be a valid JSON object"}}}
	}
	return nil
}
