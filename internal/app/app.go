// Package app wires configuration, storage, the service layer and the
// HTTP surface into a runnable server.
package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"parley/internal/janitor"
	"parley/pkg/api"
	"parley/pkg/auth"
	"parley/pkg/config"
	"parley/pkg/logger"
	"parley/pkg/mail"
	"parley/pkg/migrate"
	"parley/pkg/service"
	"parley/pkg/state"
	"parley/pkg/store"
)

// App encapsulates the server components and lifecycle.
type App struct {
	eff       config.EffectiveConfigResult
	version   string
	commit    string
	buildDate string

	paths state.Paths
	svc   *service.Service
	api   *api.API
	srv   *http.Server
}

// New initializes everything that does not need a running context: config
// validation, the folder layout, the store, schema migration and the
// service graph. Call Run to start the HTTP server and block.
func New(eff config.EffectiveConfigResult, version, commit, buildDate string) (*App, error) {
	_ = godotenv.Load(".env")

	if err := validateConfig(eff); err != nil {
		return nil, err
	}

	paths, err := state.Ensure(eff.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare data directory %s: %w", eff.DBPath, err)
	}

	if err := store.Open(paths.Store); err != nil {
		return nil, fmt.Errorf("failed to open pebble at %s: %w", paths.Store, err)
	}
	if err := migrate.Sync(context.Background(), version); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	secret := eff.Config.Security.TokenSecret
	if secret == "" {
		// dev mode: sessions signed with a throwaway secret die on restart
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return nil, err
		}
		secret = hex.EncodeToString(buf)
		logger.Warn("ephemeral_token_secret", "msg", "no token secret configured; sessions will not survive restart")
	}

	baseURL := os.Getenv("PARLEY_BASE_URL")
	if baseURL == "" {
		baseURL = "http://" + eff.Addr
	}

	svc := service.New(auth.NewSessions(secret), mail.LogMailer{From: eff.Config.Mail.From}, baseURL, nil)

	return &App{
		eff:       eff,
		version:   version,
		commit:    commit,
		buildDate: buildDate,
		paths:     paths,
		svc:       svc,
		api:       api.New(svc),
	}, nil
}

// Run starts the janitor and the HTTP server, and blocks until ctx is
// cancelled or a fatal server error occurs.
func (a *App) Run(ctx context.Context) error {
	a.printBanner()

	stopJanitor, err := janitor.Start(ctx, a.eff, a.svc, a.paths.Janitor)
	if err != nil {
		return err
	}
	defer stopJanitor()

	errCh := a.startHTTP(ctx)

	select {
	case <-ctx.Done():
		shctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.srv.Shutdown(shctx); err != nil {
			logger.Error("http_shutdown_error", "error", err)
		}
		return store.Close()
	case err := <-errCh:
		_ = store.Close()
		return err
	}
}
