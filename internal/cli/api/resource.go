package api

import (
	"context"
	"net/http"
	"net/url"

	"GluviaAdmin/internal/cli/model"
)

// Reply is a mutation result: the stored record and the server's message.
type Reply[T any] struct {
	Data    T
	Message string
}

// Resource is a REST collection rooted at path: list, get, create, update, delete.
type Resource[T any] struct {
	c    *Client
	path string
}

// NewResource binds a collection path to the client.
func NewResource[T any](c *Client, path string) *Resource[T] {
	return &Resource[T]{c: c, path: path}
}

// Path returns the collection path.
func (r *Resource[T]) Path() string { return r.path }

func (r *Resource[T]) itemPath(id string) string { return r.path + "/" + url.PathEscape(id) }

// List fetches one page. Without a server descriptor the whole reply is treated as one page.
func (r *Resource[T]) List(ctx context.Context, f model.ListFilters) (model.Page[T], error) {
	var items []T
	meta, err := r.c.Do(ctx, http.MethodGet, r.path, f.Query(), nil, &items)
	if err != nil {
		return model.Page[T]{}, err
	}
	if items == nil {
		items = []T{}
	}
	var p model.Pagination
	if mp := meta.Pagination; mp != nil {
		p = model.NewPagination(mp.Page, mp.Limit, mp.Total)
	} else {
		p = model.NewPagination(1, len(items), len(items))
	}
	return model.Page[T]{Items: items, Pagination: p}, nil
}

// Get fetches a single record by id.
func (r *Resource[T]) Get(ctx context.Context, id string) (T, error) {
	var v T
	_, err := r.c.Do(ctx, http.MethodGet, r.itemPath(id), nil, nil, &v)
	return v, err
}

// Create posts a draft.
func (r *Resource[T]) Create(ctx context.Context, draft any) (Reply[T], error) {
	var v T
	meta, err := r.c.Do(ctx, http.MethodPost, r.path, nil, draft, &v)
	return Reply[T]{Data: v, Message: meta.Message}, err
}

// Update sends a partial update.
func (r *Resource[T]) Update(ctx context.Context, id string, patch any) (Reply[T], error) {
	var v T
	meta, err := r.c.Do(ctx, http.MethodPut, r.itemPath(id), nil, patch, &v)
	return Reply[T]{Data: v, Message: meta.Message}, err
}

// Delete soft-deletes a record on the server.
func (r *Resource[T]) Delete(ctx context.Context, id string) (string, error) {
	meta, err := r.c.Do(ctx, http.MethodDelete, r.itemPath(id), nil, nil, nil)
	return meta.Message, err
}
