package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/workplane/pkg/domain"
)

// LogHooks logs lifecycle events at debug level.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCommand: func(ctx context.Context, e *domain.CommandEvent) {
			if e.Err != nil {
				logger.Debug("Command", "command", e.Command, "duration", e.Duration, "err", e.Err)
				return
			}
			logger.Debug("Command", "command", e.Command, "duration", e.Duration)
		},
		OnPlaneCreated: func(ctx context.Context, e *domain.PlaneEvent) {
			logger.Debug("Plane Created", "orientation", e.Orientation, "location", e.Location, "rotation", e.Rotation)
		},
		OnModeChange: func(ctx context.Context, e *domain.ModeEvent) {
			logger.Debug("Mode Change", "from", e.From, "to", e.To)
		},
		OnStateChange: func(ctx context.Context, d *domain.SessionDiff) {
			logger.Debug("State Change", "diff", d)
		},
	}
}

// Combine fans every event out to all hook sets in order. Nil callbacks are skipped.
func Combine(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCommand: func(ctx context.Context, e *domain.CommandEvent) {
			for _, h := range sets {
				if h.OnCommand != nil {
					h.OnCommand(ctx, e)
				}
			}
		},
		OnPlaneCreated: func(ctx context.Context, e *domain.PlaneEvent) {
			for _, h := range sets {
				if h.OnPlaneCreated != nil {
					h.OnPlaneCreated(ctx, e)
				}
			}
		},
		OnModeChange: func(ctx context.Context, e *domain.ModeEvent) {
			for _, h := range sets {
				if h.OnModeChange != nil {
					h.OnModeChange(ctx, e)
				}
			}
		},
		OnStateChange: func(ctx context.Context, d *domain.SessionDiff) {
			for _, h := range sets {
				if h.OnStateChange != nil {
					h.OnStateChange(ctx, d)
				}
			}
		},
	}
}
