package system

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/dailycoach/internal/auth"
	"github.com/julianstephens/dailycoach/internal/cli"
	"github.com/julianstephens/dailycoach/internal/config"
	"github.com/julianstephens/dailycoach/internal/keyring"
	"github.com/julianstephens/dailycoach/internal/logger"
	"github.com/julianstephens/dailycoach/internal/pages"
	"github.com/julianstephens/dailycoach/internal/server"
)

type ServeCmd struct {
	Addr string `help:"Address to listen on (overrides config)." placeholder:"HOST:PORT"`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return c.serve(sigCtx, ctx)
}

func (c *ServeCmd) serve(runCtx context.Context, ctx *cli.Context) error {
	cfg := ctx.Config
	if c.Addr != "" {
		cfg.Addr = c.Addr
	}

	secret, err := resolveTokenSecret(cfg)
	if err != nil {
		return err
	}
	cfg.TokenSecret = secret
	if err := cfg.ValidateServe(); err != nil {
		return err
	}

	if err := ctx.Store.Load(); err != nil {
		return err
	}
	ctx.PerformAutomaticBackup()

	tokens, err := auth.NewTokenIssuer(cfg.TokenSecret, cfg.TokenTTL)
	if err != nil {
		return err
	}
	srv := server.New(auth.NewService(ctx.Store), tokens, pages.NewController(ctx.Store), ctx.Store)
	return srv.Run(runCtx, cfg.Addr)
}

// resolveTokenSecret prefers the configured secret, then the keyring. When
// neither has one, a random secret is generated and saved to the keyring so
// tokens survive restarts.
func resolveTokenSecret(cfg config.Config) (string, error) {
	if cfg.TokenSecret != "" {
		return cfg.TokenSecret, nil
	}

	secret, err := keyring.GetTokenSecret()
	if err == nil {
		return secret, nil
	}
	if !errors.Is(err, keyring.ErrNotFound) {
		logger.Warn("Keyring unavailable, using an ephemeral token secret", "error", err)
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token secret: %w", err)
	}
	secret = hex.EncodeToString(buf)

	if err := keyring.SetTokenSecret(secret); err != nil {
		logger.Warn("Failed to store token secret, sessions will not survive a restart", "error", err)
	}
	return secret, nil
}
