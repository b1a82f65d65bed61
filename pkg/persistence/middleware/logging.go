package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aretw0/workplane/pkg/domain"
	"github.com/aretw0/workplane/pkg/ports"
)

type loggingMiddleware struct {
	next   ports.SessionStore
	logger *slog.Logger
}

// NewLoggingMiddleware logs every store operation at debug level and failures at error level.
// A missing session is not a failure.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next ports.SessionStore) ports.SessionStore {
		return &loggingMiddleware{next: next, logger: logger}
	}
}

func (m *loggingMiddleware) log(ctx context.Context, op, documentID string, start time.Time, err error) {
	attrs := []any{"operation", op, "duration", time.Since(start)}
	if documentID != "" {
		attrs = append(attrs, "document", documentID)
	}
	if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		m.logger.ErrorContext(ctx, "Session store operation failed", append(attrs, "err", err)...)
		return
	}
	m.logger.DebugContext(ctx, "Session store operation", attrs...)
}

func (m *loggingMiddleware) Save(ctx context.Context, documentID string, state *domain.SessionState) error {
	start := time.Now()
	err := m.next.Save(ctx, documentID, state)
	m.log(ctx, "save", documentID, start, err)
	return err
}

func (m *loggingMiddleware) Load(ctx context.Context, documentID string) (*domain.SessionState, error) {
	start := time.Now()
	state, err := m.next.Load(ctx, documentID)
	m.log(ctx, "load", documentID, start, err)
	return state, err
}

func (m *loggingMiddleware) Delete(ctx context.Context, documentID string) error {
	start := time.Now()
	err := m.next.Delete(ctx, documentID)
	m.log(ctx, "delete", documentID, start, err)
	return err
}

func (m *loggingMiddleware) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	ids, err := m.next.List(ctx)
	m.log(ctx, "list", "", start, err)
	return ids, err
}
