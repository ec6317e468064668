package cleanup

import (
	"context"
	"net/http"
	"time"

	"leadconversion/internal/pkg/log_messages"
	"leadconversion/internal/pkg/logger"
)

// Resources lists everything the process has to release on shutdown. Nil fields are skipped.
type Resources struct {
	Consumer       interface{ Close() error }
	Server         *http.Server
	ShutdownTimeout time.Duration
	// Closers run in order after the consumer and server have stopped.
	Closers []NamedCloser
}

type NamedCloser struct {
	Name  string
	Close func(ctx context.Context) error
}

func CleanupResources(ctx context.Context, res Resources) {
	logger.CtxInfo(ctx, log_messages.CleanupStarted)

	if res.Consumer != nil {
		if unsubscriber, ok := res.Consumer.(interface{ Unsubscribe(context.Context) error }); ok {
			if err := unsubscriber.Unsubscribe(ctx); err != nil {
				logger.CtxError(ctx, "Failed to unsubscribe from PubSub", err)
			}
		}
		if err := res.Consumer.Close(); err != nil {
			logger.CtxError(ctx, "Failed to close PubSub consumer", err)
		} else {
			logger.CtxInfo(ctx, "PubSub consumer closed successfully")
		}
	}

	if res.Server != nil {
		timeout := res.ShutdownTimeout
		if timeout <= 0 {
			timeout = 8 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		if err := res.Server.Shutdown(shutdownCtx); err != nil {
			logger.CtxError(ctx, "Failed to shutdown HTTP server", err)
		} else {
			logger.CtxInfo(ctx, "HTTP server shutdown successfully")
		}
	}

	for _, c := range res.Closers {
		if c.Close == nil {
			continue
		}
		if err := c.Close(ctx); err != nil {
			logger.CtxError(ctx, "Failed to close "+c.Name, err)
		}
	}

	logger.CtxInfo(ctx, log_messages.CleanupCompleted)
}
