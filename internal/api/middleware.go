package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	domainerrors "github.com/nihilcoder/promptlab/internal/errors"
	"github.com/nihilcoder/promptlab/internal/logger"
)

// requestLogger logs one line per request and stores a request-scoped
// logger in the context for downstream handlers. It runs after authMiddleware.
func requestLogger(base *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			log := base.WithRequest(middleware.GetReqID(r.Context()), r.Method, r.URL.Path).
				WithUser(viewerID(r.Context()))
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(logger.NewContext(r.Context(), log)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			attrs := []any{
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
			}

			switch {
			case status >= http.StatusInternalServerError:
				log.Error("request completed", attrs...)
			case status >= http.StatusBadRequest:
				log.Warn("request completed", attrs...)
			default:
				log.Info("request completed", attrs...)
			}
		})
	}
}

// writeError writes an error envelope outside of huma, for middleware that
// rejects a request before it reaches an operation.
func writeError(w http.ResponseWriter, domainErr *domainerrors.Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(domainErr.HTTPStatus())
	_ = json.NewEncoder(w).Encode(APIErrorEnvelope{
		Version: EnvelopeVersion,
		Code:    string(domainErr.Code),
		Message: domainErr.Message,
		Details: domainErr.Details,
	})
}
