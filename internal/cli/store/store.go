// Package store holds per-resource state containers. A store is passed
// explicitly to whoever needs it; every action publishes a new immutable
// Snapshot instead of mutating the previous one.
package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"GluviaAdmin/internal/cli/api"
	"GluviaAdmin/internal/cli/model"
	"GluviaAdmin/internal/cli/notify"

	"go.uber.org/zap"
)

// Endpoint is the remote collection a store talks to. *api.Resource implements it.
type Endpoint[T any] interface {
	List(ctx context.Context, f model.ListFilters) (model.Page[T], error)
	Get(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, draft any) (api.Reply[T], error)
	Update(ctx context.Context, id string, patch any) (api.Reply[T], error)
	Delete(ctx context.Context, id string) (string, error)
}

var _ Endpoint[model.User] = (*api.Resource[model.User])(nil)

// Snapshot is the observable state of a store. Never mutate it in place.
type Snapshot[T any] struct {
	Items      []T
	Pagination model.Pagination
	Filters    model.ListFilters
	Current    *T
	IsLoading  bool
}

// Names are used to build toast texts ("User created successfully", "No users found.").
type Names struct {
	Singular string
	Plural   string
}

type options struct {
	refetch  bool
	readOnly bool
	logger   *zap.SugaredLogger
}

// Option tunes a store.
type Option func(*options)

// WithRefetch re-lists with the last filters after every successful mutation.
func WithRefetch() Option { return func(o *options) { o.refetch = true } }

// ReadOnly rejects mutations locally (audit logs).
func ReadOnly() Option { return func(o *options) { o.readOnly = true } }

// WithLogger sets the store logger.
func WithLogger(l *zap.SugaredLogger) Option { return func(o *options) { o.logger = l } }

// Store is the state container for one resource type.
type Store[T any] struct {
	ep    Endpoint[T]
	n     notify.Notifier
	names Names
	opts  options

	mu   sync.RWMutex
	snap Snapshot[T]
}

// New creates a store over ep.
func New[T any](ep Endpoint[T], n notify.Notifier, names Names, opts ...Option) *Store[T] {
	o := options{logger: zap.NewNop().Sugar()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Store[T]{ep: ep, n: n, names: names, opts: o}
}

// Names returns the display names of the resource.
func (s *Store[T]) Names() Names { return s.names }

// Snapshot returns the current state. Items and Current are private copies.
func (s *Store[T]) Snapshot() Snapshot[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.snap
	out.Items = slices.Clone(s.snap.Items)
	if s.snap.Current != nil {
		cur := *s.snap.Current
		out.Current = &cur
	}
	return out
}

// publish replaces the snapshot with fn applied to a copy of it.
func (s *Store[T]) publish(fn func(*Snapshot[T])) {
	s.mu.Lock()
	next := s.snap
	fn(&next)
	s.snap = next
	s.mu.Unlock()
}

func (s *Store[T]) setLoading(v bool) {
	s.publish(func(sn *Snapshot[T]) { sn.IsLoading = v })
}

func (s *Store[T]) fail(op string, err error, fallback string) {
	s.opts.logger.Debugw("store action failed", "resource", s.names.Plural, "op", op, "error", err)
	report(s.n, err, fallback)
}

// report shows the failure toasts. Истёкшую сессию (401) уже обработал
// общий клиент: токен сброшен, пользователь отправлен на вход.
func report(n notify.Notifier, err error, fallback string) {
	if errors.Is(err, api.ErrUnauthorized) {
		return
	}
	notify.Failure(n, err, fallback)
}

// List fetches a page and replaces Items and Pagination. On failure the
// previous items stay untouched. IsLoading is false afterwards in both cases.
func (s *Store[T]) List(ctx context.Context, f model.ListFilters) bool {
	s.setLoading(true)
	defer s.setLoading(false)

	page, err := s.ep.List(ctx, f)
	if err != nil {
		s.fail("list", err, "Failed to load "+s.names.Plural)
		return false
	}
	s.publish(func(sn *Snapshot[T]) {
		sn.Items = page.Items
		sn.Pagination = page.Pagination
		sn.Filters = f
	})
	return true
}

// GetByID loads one record into Current.
func (s *Store[T]) GetByID(ctx context.Context, id string) bool {
	s.setLoading(true)
	defer s.setLoading(false)

	v, err := s.ep.Get(ctx, id)
	if err != nil {
		s.fail("get", err, "Failed to load "+lower(s.names.Singular))
		return false
	}
	s.publish(func(sn *Snapshot[T]) { sn.Current = &v })
	return true
}

// Create posts a draft. No optimistic update is made.
func (s *Store[T]) Create(ctx context.Context, draft any) bool {
	if s.rejectReadOnly() {
		return false
	}
	s.setLoading(true)
	defer s.setLoading(false)

	reply, err := s.ep.Create(ctx, draft)
	if err != nil {
		s.fail("create", err, "Failed to create "+lower(s.names.Singular))
		return false
	}
	s.n.Success(orDefault(reply.Message, s.names.Singular+" created successfully"))
	s.publish(func(sn *Snapshot[T]) { sn.Current = &reply.Data })
	s.afterMutation(ctx)
	return true
}

// Update sends a partial update for id.
func (s *Store[T]) Update(ctx context.Context, id string, patch any) bool {
	if s.rejectReadOnly() {
		return false
	}
	s.setLoading(true)
	defer s.setLoading(false)

	reply, err := s.ep.Update(ctx, id, patch)
	if err != nil {
		s.fail("update", err, "Failed to update "+lower(s.names.Singular))
		return false
	}
	s.n.Success(orDefault(reply.Message, s.names.Singular+" updated successfully"))
	s.publish(func(sn *Snapshot[T]) { sn.Current = &reply.Data })
	s.afterMutation(ctx)
	return true
}

// Delete soft-deletes id on the server.
func (s *Store[T]) Delete(ctx context.Context, id string) bool {
	if s.rejectReadOnly() {
		return false
	}
	s.setLoading(true)
	defer s.setLoading(false)

	msg, err := s.ep.Delete(ctx, id)
	if err != nil {
		s.fail("delete", err, "Failed to delete "+lower(s.names.Singular))
		return false
	}
	s.n.Success(orDefault(msg, s.names.Singular+" deleted successfully"))
	s.afterMutation(ctx)
	return true
}

func (s *Store[T]) rejectReadOnly() bool {
	if !s.opts.readOnly {
		return false
	}
	s.n.Error(fmt.Sprintf("%s are read-only", capitalize(s.names.Plural)))
	return true
}

func (s *Store[T]) afterMutation(ctx context.Context) {
	if !s.opts.refetch {
		return
	}
	s.mu.RLock()
	f := s.snap.Filters
	s.mu.RUnlock()
	s.List(ctx, f)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func lower(s string) string { return strings.ToLower(s) }

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
