package handlers

import (
	"GluviaAdmin/internal/service"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

// maxBodyBytes ограничивает тело запроса; пакет из MaxBatchSize продуктов в него укладывается.
const maxBodyBytes = 10 << 20

type pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

type envelope struct {
	Data       any         `json:"data"`
	Message    string      `json:"message,omitempty"`
	Pagination *pagination `json:"pagination,omitempty"`
}

type errorBody struct {
	Message string               `json:"message"`
	Details []service.FieldError `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, data any, msg string) {
	writeJSON(w, status, envelope{Data: data, Message: msg})
}

func writePage[T any](w http.ResponseWriter, p service.Page[T]) {
	items := p.Items
	if items == nil {
		items = []T{}
	}
	var pages int64
	if p.Limit > 0 {
		pages = (p.Total + int64(p.Limit) - 1) / int64(p.Limit)
	}
	writeJSON(w, http.StatusOK, envelope{
		Data:       items,
		Pagination: &pagination{Page: p.Page, Limit: p.Limit, Total: p.Total, TotalPages: pages},
	})
}

func writeError(w http.ResponseWriter, status int, msg string, details ...service.FieldError) {
	writeJSON(w, status, map[string]errorBody{"error": {Message: msg, Details: details}})
}

// fail переводит ошибку сервиса в HTTP-ответ. singular подставляется в 404.
func fail(w http.ResponseWriter, logger *zap.SugaredLogger, op string, err error, singular string) {
	var ve *service.ValidationError
	var ce *service.ConflictError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusUnprocessableEntity, "Validation failed", ve.Details...)
	case errors.As(err, &ce):
		writeError(w, http.StatusConflict, fmt.Sprintf("%s is already taken", ce.Field),
			service.FieldError{Field: ce.Field, Message: "is already taken"})
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, singular+" not found")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, service.ErrInvalidResetToken):
		writeError(w, http.StatusBadRequest, "Invalid or expired reset token")
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, "Insufficient permissions")
	default:
		logger.Errorw(op+": service error", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// readBody читает тело запроса целиком с ограничением размера.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	b, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body is too large")
			return nil, false
		}
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}
	return b, true
}

// listParams собирает параметры списка из query string. Всё, кроме page,
// limit и search, считается фильтром ресурса.
func listParams(r *http.Request) service.ListParams {
	q := r.URL.Query()
	p := service.ListParams{Search: q.Get("search"), Filters: map[string]string{}}
	p.Page, _ = strconv.Atoi(q.Get("page"))
	p.Limit, _ = strconv.Atoi(q.Get("limit"))
	for k := range q {
		switch k {
		case "page", "limit", "search":
		default:
			p.Filters[k] = q.Get(k)
		}
	}
	return p
}
