// Package janitor runs scheduled maintenance: flushing expired standup
// buffers in channels nobody is reading, compacting notification logs,
// and refreshing the store size gauge.
package janitor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adhocore/gronx"

	"parley/pkg/config"
	"parley/pkg/logger"
	"parley/pkg/service"
	"parley/pkg/store"
	"parley/pkg/telemetry"
)

const defaultCron = "*/5 * * * *"

// Start launches the scheduler when enabled. The returned cancel stops it.
func Start(ctx context.Context, eff config.EffectiveConfigResult, svc *service.Service, janitorPath string) (context.CancelFunc, error) {
	if eff.Config == nil || !eff.Config.Janitor.Enabled {
		logger.Info("janitor_disabled")
		return func() {}, nil
	}

	cronExpr := eff.Config.Janitor.Cron
	if cronExpr == "" {
		cronExpr = defaultCron
	}
	if !gronx.IsValid(cronExpr) {
		logger.Error("janitor_invalid_cron", "cron", cronExpr)
		return nil, fmt.Errorf("invalid janitor cron expression: %s", cronExpr)
	}

	if err := os.MkdirAll(janitorPath, 0o700); err != nil {
		logger.Error("janitor_path_create_failed", "path", janitorPath, "error", err)
		return nil, err
	}

	logger.Info("janitor_enabled", "cron", cronExpr, "path", janitorPath)
	ctx2, cancel := context.WithCancel(ctx)
	go runScheduler(ctx2, svc, janitorPath, cronExpr)
	return cancel, nil
}

// RunOnce performs one maintenance pass. Exposed for tests and on-demand
// admin triggers.
func RunOnce(svc *service.Service, janitorPath string) error {
	if err := svc.FlushStandups(); err != nil {
		return err
	}
	if err := svc.TrimNotificationLogs(); err != nil {
		return err
	}
	telemetry.SetStoreBytes(store.DiskUsage())
	if janitorPath != "" {
		marker := filepath.Join(janitorPath, "last-run")
		_ = os.WriteFile(marker, []byte(time.Now().UTC().Format(time.RFC3339)+"\n"), 0o600)
	}
	return nil
}

// runScheduler sleeps until the next cron tick and triggers a pass.
// gronx computes ticks, so full cron syntax is available.
func runScheduler(ctx context.Context, svc *service.Service, janitorPath, cronExpr string) {
	for {
		select {
		case <-ctx.Done():
			logger.Info("janitor_scheduler_stopping")
			return
		default:
		}

		next, err := gronx.NextTickAfter(cronExpr, time.Now().UTC(), false)
		if err != nil {
			logger.Error("janitor_nexttick_failed", "cron", cronExpr, "error", err)
			select {
			case <-time.After(30 * time.Second):
			case <-ctx.Done():
				return
			}
			continue
		}

		select {
		case <-time.After(time.Until(next)):
			if err := RunOnce(svc, janitorPath); err != nil {
				logger.Error("janitor_run_error", "error", err)
			}
		case <-ctx.Done():
			logger.Info("janitor_scheduler_stopping")
			return
		}
	}
}
