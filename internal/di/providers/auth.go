package providers

import (
	"github.com/samber/do/v2"

	"github.com/nihilcoder/promptlab/internal/auth"
	"github.com/nihilcoder/promptlab/internal/config"
	"github.com/nihilcoder/promptlab/internal/logger"
)

// AuthKey is the hex-encoded PASETO symmetric key.
type AuthKey string

// ProvideAuthKey returns the configured key, or loads it from the key file,
// generating one on first start.
func ProvideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Auth.TokenKey != "" {
		log.Info("Authentication key loaded from configuration")
		return AuthKey(cfg.Auth.TokenKey), nil
	}

	key, err := auth.LoadOrGenerateKey(cfg.Auth.KeyPath)
	if err != nil {
		return "", err
	}
	cfg.Auth.TokenKey = key

	log.Info("Authentication key loaded", "path", cfg.Auth.KeyPath)
	return AuthKey(key), nil
}

// ProvideTokenVerifier provides the bearer token verifier.
func ProvideTokenVerifier(i do.Injector) (*auth.TokenVerifier, error) {
	cfg := do.MustInvoke[*config.Config](i)
	key := do.MustInvoke[AuthKey](i)

	return auth.NewTokenVerifier(string(key), cfg.Auth.Issuer)
}
