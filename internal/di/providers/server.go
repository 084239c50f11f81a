package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/nihilcoder/promptlab/internal/api"
	"github.com/nihilcoder/promptlab/internal/auth"
	"github.com/nihilcoder/promptlab/internal/config"
	"github.com/nihilcoder/promptlab/internal/logger"
	"github.com/nihilcoder/promptlab/internal/ratelimit"
	"github.com/nihilcoder/promptlab/internal/service"
)

// ProvideRateLimiter provides the per-caller limiter for mutating requests.
func ProvideRateLimiter(i do.Injector) (*ratelimit.KeyedRateLimiter, error) {
	cfg := do.MustInvoke[*config.Config](i)

	return ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst).WithIdleTTL(rateLimitIdleTTL), nil
}

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer builds the API handler and starts listening in the background.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := &api.Services{
		Prompt:     do.MustInvoke[*service.PromptService](i),
		Collection: do.MustInvoke[*service.CollectionService](i),
		Tag:        do.MustInvoke[*service.TagService](i),
	}

	handler := api.NewServer(api.Options{
		Store:          storeHandle.Store,
		Services:       services,
		Verifier:       do.MustInvoke[*auth.TokenVerifier](i),
		Limiter:        do.MustInvoke[*ratelimit.KeyedRateLimiter](i),
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
		Logger:         log,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
