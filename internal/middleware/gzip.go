package middleware

import (
	"compress/gzip"
	"net/http"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"
)

const gzipLevel = 5

// Сжимаются только ответы этих типов.
var compressibleTypes = []string{"application/json", "text/plain"}

// WithGzip распаковывает тело запроса с Content-Encoding: gzip и сжимает
// ответ, если клиент прислал Accept-Encoding: gzip.
func WithGzip(next http.Handler) http.Handler {
	compress := chimw.Compress(gzipLevel, compressibleTypes...)
	return compress(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.Header.Get("Content-Encoding"), "gzip") {
			zr, err := gzip.NewReader(r.Body)
			if err != nil {
				logger.Warnw("WithGzip: invalid gzip body", "error", err)
				writeError(w, http.StatusBadRequest, "Invalid gzip body")
				return
			}
			defer zr.Close()
			r.Body = zr
			r.Header.Del("Content-Encoding")
			r.ContentLength = -1
		}
		next.ServeHTTP(w, r)
	}))
}
