// Package plane owns the lifecycle of the single temporary workplane.
package plane

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/workplane/internal/logging"
	"github.com/aretw0/workplane/pkg/domain"
	"github.com/aretw0/workplane/pkg/geometry"
	"github.com/aretw0/workplane/pkg/ports"
)

// Manager creates, transforms and replaces the temporary workplane in a scene.
type Manager struct {
	scene  ports.Scene
	name   string
	logger *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithName overrides domain.TemporaryWorkplaneName.
func WithName(name string) Option {
	return func(m *Manager) {
		m.name = name
	}
}

// NewManager creates a Manager over scene.
func NewManager(scene ports.Scene, opts ...Option) *Manager {
	m := &Manager{
		scene:  scene,
		name:   domain.TemporaryWorkplaneName,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Name is the scene name of the managed workplane.
func (m *Manager) Name() string {
	return m.name
}

// lookup returns the workplane object, or nil when the scene has none.
func (m *Manager) lookup(ctx context.Context) (*domain.Object, error) {
	obj, err := m.scene.Object(ctx, m.name)
	if errors.Is(err, domain.ErrObjectNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up workplane: %w", err)
	}
	return obj, nil
}

func (m *Manager) require(ctx context.Context) (*domain.Object, error) {
	obj, err := m.lookup(ctx)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, domain.ErrNoWorkplane
	}
	return obj, nil
}

// CreateOrReplace places a new workplane from two points. An existing workplane hands its live
// grid settings to the new one and is removed; the offset starts over at zero.
// Nothing is written when the placement is degenerate.
func (m *Manager) CreateOrReplace(ctx context.Context, st *domain.SessionState, o geometry.Orientation, p1, p2 domain.Point) (*domain.Workplane, error) {
	placement, err := geometry.Orient(o, p1, p2)
	if err != nil {
		return nil, err
	}

	old, err := m.lookup(ctx)
	if err != nil {
		return nil, err
	}
	if old != nil {
		st.Grid = domain.GridOf(old)
		if err := m.scene.DeleteObject(ctx, m.name); err != nil {
			return nil, fmt.Errorf("failed to remove previous workplane: %w", err)
		}
		st.PlaneOffset = 0
	}
	if err := st.Grid.Validate(); err != nil {
		m.logger.Warn("Stored grid is invalid, using defaults", "err", err)
		st.Grid = domain.DefaultGrid()
	}

	obj, err := m.scene.CreatePlane(ctx, m.name, domain.Transform{
		Location: placement.Location,
		Rotation: placement.Rotation,
		Scale:    st.Grid.Scale(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create workplane: %w", err)
	}
	obj.Modifiers = domain.GridModifiers(st.Grid)
	obj.ShowWire = true
	if err := m.scene.UpdateObject(ctx, obj); err != nil {
		return nil, fmt.Errorf("failed to configure workplane: %w", err)
	}

	st.PlaneLocation = placement.Location
	m.logger.Debug("Workplane placed",
		"orientation", o,
		"location", placement.Location,
		"rotation", placement.Rotation,
	)
	return domain.WorkplaneFromObject(obj), nil
}

// ApplyOffset moves the workplane amount units along its normal, measured from the
// location it was placed at. Repeated calls do not accumulate.
func (m *Manager) ApplyOffset(ctx context.Context, st *domain.SessionState, amount float64) (*domain.Workplane, error) {
	obj, err := m.require(ctx)
	if err != nil {
		return nil, err
	}
	obj.Transform.Location = geometry.Offset(st.PlaneLocation, obj.Transform.Rotation, amount)
	if err := m.scene.UpdateObject(ctx, obj); err != nil {
		return nil, fmt.Errorf("failed to offset workplane: %w", err)
	}
	st.PlaneOffset = amount
	return domain.WorkplaneFromObject(obj), nil
}

// Rotate adds degrees to one rotation component of the workplane.
func (m *Manager) Rotate(ctx context.Context, axis domain.Axis, degrees float64) (*domain.Workplane, error) {
	obj, err := m.require(ctx)
	if err != nil {
		return nil, err
	}
	rot, err := geometry.RotateAxis(obj.Transform.Rotation, axis, degrees)
	if err != nil {
		return nil, err
	}
	obj.Transform.Rotation = rot
	if err := m.scene.UpdateObject(ctx, obj); err != nil {
		return nil, fmt.Errorf("failed to rotate workplane: %w", err)
	}
	return domain.WorkplaneFromObject(obj), nil
}

// SetGrid applies grid settings to the workplane and records them in st.
func (m *Manager) SetGrid(ctx context.Context, st *domain.SessionState, g domain.Grid) (*domain.Workplane, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	obj, err := m.require(ctx)
	if err != nil {
		return nil, err
	}
	domain.ApplyGrid(obj, g)
	if err := m.scene.UpdateObject(ctx, obj); err != nil {
		return nil, fmt.Errorf("failed to update grid: %w", err)
	}
	st.Grid = g
	return domain.WorkplaneFromObject(obj), nil
}

// UpdateGrid reads the live grid of the workplane, passes it to fn and applies the result.
// Callers run it inside the session update so partial edits never start from a stale grid.
func (m *Manager) UpdateGrid(ctx context.Context, st *domain.SessionState, fn func(domain.Grid) (domain.Grid, error)) (*domain.Workplane, error) {
	obj, err := m.require(ctx)
	if err != nil {
		return nil, err
	}
	g, err := fn(domain.GridOf(obj))
	if err != nil {
		return nil, err
	}
	return m.SetGrid(ctx, st, g)
}

// SwitchAxes exchanges the x and y grid settings of the live workplane.
func (m *Manager) SwitchAxes(ctx context.Context, st *domain.SessionState) (*domain.Workplane, error) {
	return m.UpdateGrid(ctx, st, func(g domain.Grid) (domain.Grid, error) {
		return g.Swapped(), nil
	})
}

// ResetGrid restores the default grid.
func (m *Manager) ResetGrid(ctx context.Context, st *domain.SessionState) (*domain.Workplane, error) {
	return m.SetGrid(ctx, st, domain.DefaultGrid())
}

// Current returns the workplane or domain.ErrNoWorkplane.
func (m *Manager) Current(ctx context.Context) (*domain.Workplane, error) {
	obj, err := m.require(ctx)
	if err != nil {
		return nil, err
	}
	return domain.WorkplaneFromObject(obj), nil
}

// Delete removes the workplane. It reports whether one existed.
func (m *Manager) Delete(ctx context.Context) (bool, error) {
	obj, err := m.lookup(ctx)
	if err != nil || obj == nil {
		return false, err
	}
	if err := m.scene.DeleteObject(ctx, m.name); err != nil {
		return false, fmt.Errorf("failed to delete workplane: %w", err)
	}
	return true, nil
}
