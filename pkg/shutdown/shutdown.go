package shutdown

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"postview/pkg/logger"
)

// SetupSignalHandler installs handlers for SIGINT/SIGTERM and returns a
// cancellable context. The returned context is cancelled when a watched
// signal arrives; use the cancel function to stop watching early.
func SetupSignalHandler(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sigc
		logger.Info("signal_received", "signal", s.String(), "msg", "shutdown requested")
		cancel()
	}()

	return ctx, cancel
}

// Abort logs a fatal startup error and exits. Used before the HTTP server is
// up, where there is nothing to drain.
func Abort(contextMsg string, err error) {
	logger.Error("startup_fatal", "msg", contextMsg, "error", err)
	os.Exit(2)
}
