package factory

import (
	"context"
	"log/slog"
	"time"
)

// Sweep removes SSE hubs nobody is watching and boards idle for longer
// than maxIdle. Boards with a connected viewer are never reaped. It returns
// the number of boards reaped.
func (a *App) Sweep(ctx context.Context, maxIdle time.Duration) int {
	hubs := a.HubManager.CleanupEmptyHubs()

	reaped, err := a.BoardController.ReapIdle(ctx, maxIdle, a.HubManager.Watched)
	if err != nil {
		a.Logger.Error("janitor failed to reap boards", slog.Any("error", err))
	}
	if hubs > 0 || len(reaped) > 0 {
		a.Logger.Info("janitor sweep",
			slog.Int("hubs_removed", hubs),
			slog.Int("boards_reaped", len(reaped)),
		)
	}
	return len(reaped)
}

// RunJanitor sweeps every interval until ctx is done
func (a *App) RunJanitor(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := a.Clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			a.Sweep(ctx, maxIdle)
		}
	}
}
