package service

import (
	"context"
	"errors"
	"log/slog"

	domainerrors "github.com/nihilcoder/promptlab/internal/errors"
	"github.com/nihilcoder/promptlab/internal/logger"
	"github.com/nihilcoder/promptlab/internal/store"
	"github.com/nihilcoder/promptlab/internal/store/query"
)

// translate maps a store failure onto a domain error. Unexpected failures
// are logged with op and returned as INTERNAL so details never reach clients.
func translate(ctx context.Context, base *slog.Logger, op, entity string, err error) error {
	var domainErr *domainerrors.Error
	var storeErr *store.Error

	switch {
	case err == nil:
		return nil
	case errors.As(err, &domainErr):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, query.ErrInvalidPagination):
		return domainerrors.ValidationWithDetails("invalid pagination", map[string]string{
			"limit":  "must be a non-negative integer",
			"offset": "must be a non-negative integer",
		})
	case errors.Is(err, store.ErrNotFound):
		return domainerrors.NotFoundf("%s not found", entity)
	case errors.Is(err, store.ErrAlreadyExists):
		return domainerrors.Conflict(entity + " already exists")
	case errors.As(err, &storeErr) && storeErr.Code == store.ErrInvalidInput.Code:
		return domainerrors.Validation(storeErr.Message)
	default:
		logFor(ctx, base).ErrorContext(ctx, op+" failed", "error", err)
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "internal error")
	}
}

// logFor returns the request-scoped logger carried by ctx, or base outside a request.
func logFor(ctx context.Context, base *slog.Logger) *slog.Logger {
	if l := logger.FromContext(ctx, nil); l != nil {
		return l.Logger
	}
	return base
}
