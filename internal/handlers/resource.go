package handlers

import (
	"GluviaAdmin/internal/middleware"
	"GluviaAdmin/internal/service"
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type reader[T any] interface {
	List(ctx context.Context, p service.ListParams) (service.Page[T], error)
	Get(ctx context.Context, id string) (*T, error)
}

type writer[T any] interface {
	Create(ctx context.Context, actor service.Actor, raw json.RawMessage) (*T, error)
	Update(ctx context.Context, actor service.Actor, id string, raw json.RawMessage) (*T, error)
	Delete(ctx context.Context, actor service.Actor, id string) error
}

// ResourceHandler обслуживает REST-коллекцию: список, чтение и, если задан writer, изменения.
type ResourceHandler[T any] struct {
	read     reader[T]
	write    writer[T]
	singular string
	Logger   *zap.SugaredLogger
}

// NewResourceHandler создаёт хендлер коллекции. write == nil делает коллекцию только для чтения.
func NewResourceHandler[T any](read reader[T], write writer[T], singular string, logger *zap.SugaredLogger) *ResourceHandler[T] {
	return &ResourceHandler[T]{read: read, write: write, singular: singular, Logger: logger}
}

// Routes монтирует маршруты коллекции. guard оборачивает изменяющие маршруты.
func (h *ResourceHandler[T]) Routes(guard func(http.Handler) http.Handler) func(chi.Router) {
	return func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		if h.write == nil {
			return
		}
		m := r
		if guard != nil {
			m = r.With(guard)
		}
		m.Post("/", h.Create)
		m.Put("/{id}", h.Update)
		m.Patch("/{id}", h.Update)
		m.Delete("/{id}", h.Delete)
	}
}

func actorFrom(r *http.Request) service.Actor {
	c, ok := middleware.GetClaims(r.Context())
	if !ok {
		return service.Actor{}
	}
	return service.Actor{ID: c.Subject, Email: c.Email}
}

func (h *ResourceHandler[T]) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.read.List(r.Context(), listParams(r))
	if err != nil {
		fail(w, h.Logger, "List", err, h.singular)
		return
	}
	writePage(w, page)
}

func (h *ResourceHandler[T]) Get(w http.ResponseWriter, r *http.Request) {
	v, err := h.read.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, h.Logger, "Get", err, h.singular)
		return
	}
	writeData(w, http.StatusOK, v, "")
}

func (h *ResourceHandler[T]) Create(w http.ResponseWriter, r *http.Request) {
	raw, ok := readBody(w, r)
	if !ok {
		return
	}
	v, err := h.write.Create(r.Context(), actorFrom(r), raw)
	if err != nil {
		fail(w, h.Logger, "Create", err, h.singular)
		return
	}
	writeData(w, http.StatusCreated, v, h.singular+" created successfully")
}

// Update принимает частичное обновление и по PUT, и по PATCH.
func (h *ResourceHandler[T]) Update(w http.ResponseWriter, r *http.Request) {
	raw, ok := readBody(w, r)
	if !ok {
		return
	}
	v, err := h.write.Update(r.Context(), actorFrom(r), chi.URLParam(r, "id"), raw)
	if err != nil {
		fail(w, h.Logger, "Update", err, h.singular)
		return
	}
	writeData(w, http.StatusOK, v, h.singular+" updated successfully")
}

func (h *ResourceHandler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.write.Delete(r.Context(), actorFrom(r), chi.URLParam(r, "id")); err != nil {
		fail(w, h.Logger, "Delete", err, h.singular)
		return
	}
	writeData(w, http.StatusOK, nil, h.singular+" deleted successfully")
}
