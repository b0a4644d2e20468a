package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Shutdown stops the scheduler and status server and closes storage.
func (a *App) Shutdown() error {
	a.logger.Info("application-shutting-down")

	a.healthChecker.SetReady(false)
	a.scheduler.Stop()
	a.cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if a.statusServer != nil {
		if err := a.statusServer.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("status-server-shutdown-error", zap.Error(err))
		}
	}

	if err := a.storage.Close(); err != nil {
		a.logger.Error("storage-close-error", zap.Error(err))
	}

	a.wg.Wait()

	a.logger.Info("application-shutdown-complete")
	return nil
}
