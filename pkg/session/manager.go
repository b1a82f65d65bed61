package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/workplane/internal/logging"
	"github.com/aretw0/workplane/pkg/domain"
	"github.com/aretw0/workplane/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed lock survives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates session access, ensuring safe concurrent operations.
// Lock entries are reference counted and dropped when unused.
type Manager struct {
	store ports.SessionStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
	now     func() time.Time
	initFn  func(*domain.SessionState)
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithClock overrides the time source used for UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithInitializer adjusts the default state of documents that have none stored yet.
func WithInitializer(fn func(*domain.SessionState)) Option {
	return func(m *Manager) {
		m.initFn = fn
	}
}

// NewManager creates a new Manager over the given store.
func NewManager(store ports.SessionStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST lock entry.mu, and call release(documentID) after unlocking.
func (m *Manager) acquire(documentID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[documentID]
	if !exists {
		entry = &lockEntry{}
		m.locks[documentID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(documentID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[documentID]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, documentID)
	}
}

// Load retrieves an existing session from the store.
func (m *Manager) Load(ctx context.Context, documentID string) (*domain.SessionState, error) {
	var state *domain.SessionState
	err := m.WithLock(ctx, documentID, func(ctx context.Context) error {
		var err error
		state, err = m.store.Load(ctx, documentID)
		return err
	})
	return state, err
}

// LoadOrInit loads a session, returning default state if none is stored.
// Nothing is persisted for a fresh document until the first successful Update.
func (m *Manager) LoadOrInit(ctx context.Context, documentID string) (*domain.SessionState, error) {
	var state *domain.SessionState
	err := m.WithLock(ctx, documentID, func(ctx context.Context) error {
		var err error
		state, err = m.loadOrInit(ctx, documentID)
		return err
	})
	return state, err
}

func (m *Manager) loadOrInit(ctx context.Context, documentID string) (*domain.SessionState, error) {
	state, err := m.store.Load(ctx, documentID)
	if err == nil {
		return state, nil
	}
	if !errors.Is(err, domain.ErrSessionNotFound) {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	state = domain.NewSessionState(documentID)
	if m.initFn != nil {
		m.initFn(state)
	}
	return state, nil
}

// Update runs fn on a copy of the document's state and saves it only if fn succeeds.
// It returns the state before and after fn; on error, after is nil.
func (m *Manager) Update(ctx context.Context, documentID string, fn func(ctx context.Context, state *domain.SessionState) error) (before, after *domain.SessionState, err error) {
	err = m.WithLock(ctx, documentID, func(ctx context.Context) error {
		current, err := m.loadOrInit(ctx, documentID)
		if err != nil {
			return err
		}
		before = current.Snapshot()

		work := current.Snapshot()
		if err := fn(ctx, work); err != nil {
			return err
		}

		work.DocumentID = documentID
		work.UpdatedAt = m.now()
		if err := m.store.Save(ctx, documentID, work); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		after = work
		return nil
	})
	if err != nil {
		return before, nil, err
	}
	return before, after, nil
}

// Save persists the session state.
func (m *Manager) Save(ctx context.Context, documentID string, state *domain.SessionState) error {
	return m.WithLock(ctx, documentID, func(ctx context.Context) error {
		return m.store.Save(ctx, documentID, state)
	})
}

// Delete removes the session from the store.
func (m *Manager) Delete(ctx context.Context, documentID string) error {
	return m.WithLock(ctx, documentID, func(ctx context.Context) error {
		return m.store.Delete(ctx, documentID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying session store.
func (m *Manager) Store() ports.SessionStore {
	return m.store
}

// WithLock executes fn while holding the lock for the document.
func (m *Manager) WithLock(ctx context.Context, documentID string, fn func(context.Context) error) error {
	entry := m.acquire(documentID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(documentID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, documentID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"document_id", documentID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
