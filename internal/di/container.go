// Package di provides dependency injection configuration for the prompt library server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/nihilcoder/promptlab/internal/auth"
	"github.com/nihilcoder/promptlab/internal/config"
	"github.com/nihilcoder/promptlab/internal/di/providers"
	"github.com/nihilcoder/promptlab/internal/logger"
	"github.com/nihilcoder/promptlab/internal/ratelimit"
	"github.com/nihilcoder/promptlab/internal/service"
	"github.com/nihilcoder/promptlab/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenVerifier)

	// Business services
	do.Provide(injector, providers.ProvideValidator)
	do.Provide(injector, providers.ProvidePromptService)
	do.Provide(injector, providers.ProvideCollectionService)
	do.Provide(injector, providers.ProvideTagService)

	// Server
	do.Provide(injector, providers.ProvideRateLimiter)
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services, starting the HTTP server last.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)
	if _, err := do.Invoke[providers.AuthKey](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*auth.TokenVerifier](injector); err != nil {
		return err
	}

	// Business services
	_ = do.MustInvoke[*validation.Validator](injector)
	_ = do.MustInvoke[*service.PromptService](injector)
	_ = do.MustInvoke[*service.CollectionService](injector)
	_ = do.MustInvoke[*service.TagService](injector)

	// Server
	_ = do.MustInvoke[*ratelimit.KeyedRateLimiter](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
