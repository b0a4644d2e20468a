package app

import (
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

// Run starts every component and blocks until a shutdown signal is
// received or the process is told to stop.
func (a *App) Run() error {
	a.logger.Info("application-starting",
		zap.Bool("dry_run", a.cfg.DryRun),
		zap.String("log_level", a.cfg.LogLevel))

	if a.statusServer != nil {
		a.wg.Add(1)
		go a.runStatusServer()
	}

	a.wg.Add(1)
	go a.runScheduler()

	a.healthChecker.SetReady(true)
	a.logger.Info("application-ready")

	return a.waitForShutdown()
}

func (a *App) runStatusServer() {
	defer a.wg.Done()
	if err := a.statusServer.Start(); err != nil {
		a.logger.Error("status-server-error", zap.Error(err))
	}
}

func (a *App) runScheduler() {
	defer a.wg.Done()
	a.scheduler.Run(a.ctx)
}

func (a *App) waitForShutdown() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		a.logger.Info("shutdown-signal-received", zap.String("signal", sig.String()))
	case <-a.ctx.Done():
		a.logger.Info("context-cancelled")
	}

	return a.Shutdown()
}
