package workplane

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/workplane/internal/logging"
	"github.com/aretw0/workplane/pkg/adapters/memory"
	"github.com/aretw0/workplane/pkg/domain"
	"github.com/aretw0/workplane/pkg/geometry"
	"github.com/aretw0/workplane/pkg/observability"
	"github.com/aretw0/workplane/pkg/pencil"
	"github.com/aretw0/workplane/pkg/picking"
	"github.com/aretw0/workplane/pkg/plane"
	"github.com/aretw0/workplane/pkg/ports"
	"github.com/aretw0/workplane/pkg/session"
)

// DefaultDocumentID is used when no document is configured.
const DefaultDocumentID = "default"

// Base plane points used by Init: a horizontal plane through the origin row.
var (
	basePlaneA = domain.Point{0, 0.5, 0}
	basePlaneB = domain.Point{1, 0.5, 0}
)

// Controller is the entry point of the library. It runs user commands against a host scene
// and keeps the document's session state consistent between them.
type Controller struct {
	scene    ports.Scene
	sessions *session.Manager
	planes   *plane.Manager
	pencil   *pencil.Tracker
	picking  *picking.Workflow

	store       ports.SessionStore
	locker      ports.DistributedLocker
	documentID  string
	defaultGrid *domain.Grid
	view        domain.ViewSettings
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
}

// Option defines a functional option for configuring the Controller.
type Option func(*Controller)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Controller) {
		c.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithStore persists session state in store instead of memory.
func WithStore(store ports.SessionStore) Option {
	return func(c *Controller) {
		c.store = store
	}
}

// WithLocker serializes commands across processes sharing a store.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(c *Controller) {
		c.locker = locker
	}
}

// WithSessionManager injects a preconfigured manager. WithStore, WithLocker and
// WithDefaultGrid are ignored when it is set.
func WithSessionManager(m *session.Manager) Option {
	return func(c *Controller) {
		c.sessions = m
	}
}

// WithDocumentID selects the document whose state the commands use.
func WithDocumentID(id string) Option {
	return func(c *Controller) {
		c.documentID = id
	}
}

// WithDefaultGrid sets the grid of documents that have no state yet.
func WithDefaultGrid(g domain.Grid) Option {
	return func(c *Controller) {
		c.defaultGrid = &g
	}
}

// WithView overrides the view settings applied by Setup.
func WithView(v domain.ViewSettings) Option {
	return func(c *Controller) {
		c.view = v
	}
}

// New creates a Controller over the given host scene.
func New(scene ports.Scene, opts ...Option) (*Controller, error) {
	if scene == nil {
		return nil, fmt.Errorf("scene is required")
	}
	c := &Controller{
		scene:      scene,
		documentID: DefaultDocumentID,
		view:       domain.DefaultViewSettings(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.defaultGrid != nil {
		if err := c.defaultGrid.Validate(); err != nil {
			return nil, fmt.Errorf("invalid default grid: %w", err)
		}
	}
	if c.logger == nil {
		c.logger = logging.NewNop()
	}
	c.logger = c.logger.With("document", c.documentID)

	if c.sessions == nil {
		if c.store == nil {
			c.store = memory.NewStore()
		}
		sessionOpts := []session.Option{session.WithLogger(c.logger)}
		if c.locker != nil {
			sessionOpts = append(sessionOpts, session.WithLocker(c.locker))
		}
		if c.defaultGrid != nil {
			grid := *c.defaultGrid
			sessionOpts = append(sessionOpts, session.WithInitializer(func(st *domain.SessionState) {
				st.Grid = grid
			}))
		}
		c.sessions = session.NewManager(c.store, sessionOpts...)
	}

	c.planes = plane.NewManager(scene, plane.WithLogger(c.logger))
	c.pencil = pencil.NewTracker(scene,
		pencil.WithLogger(c.logger),
		pencil.WithModeObserver(c.emitModeChange),
	)
	c.picking = picking.NewWorkflow(c.pencil, picking.WithLogger(c.logger))
	return c, nil
}

// DocumentID returns the configured document.
func (c *Controller) DocumentID() string {
	return c.documentID
}

// Sessions exposes the session manager, e.g. for listing stored documents.
func (c *Controller) Sessions() *session.Manager {
	return c.sessions
}

// reportedError marks a condition that is reported to the caller while the command's
// state changes are still saved.
type reportedError struct {
	err error
}

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

// run executes fn as one command: state is loaded under the document lock, fn works on a
// copy and the copy is saved only if fn succeeds.
func (c *Controller) run(ctx context.Context, name string, fn func(ctx context.Context, st *domain.SessionState) error) error {
	start := time.Now()
	var reported error

	before, after, err := c.sessions.Update(ctx, c.documentID, func(ctx context.Context, st *domain.SessionState) error {
		err := fn(ctx, st)
		var r reportedError
		if errors.As(err, &r) {
			reported = r.err
			return nil
		}
		return err
	})
	if err == nil {
		err = reported
	}

	switch {
	case err == nil:
		c.logger.Debug("Command done", "command", name, "duration", time.Since(start))
	case observability.IsCondition(err):
		c.logger.Info("Command reported a condition", "command", name, "err", err)
	default:
		c.logger.Error("Command failed", "command", name, "err", err)
	}

	if c.hooks.OnCommand != nil {
		c.hooks.OnCommand(ctx, &domain.CommandEvent{
			EventBase: c.event(domain.EventCommand),
			Command:   name,
			Duration:  time.Since(start),
			Err:       err,
		})
	}
	if after != nil && c.hooks.OnStateChange != nil {
		if diff := domain.Diff(before, after); diff != nil {
			c.hooks.OnStateChange(ctx, diff)
		}
	}
	return err
}

func (c *Controller) event(t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: time.Now(), Type: t, DocumentID: c.documentID}
}

func (c *Controller) emitModeChange(ctx context.Context, from, to domain.Mode) {
	if c.hooks.OnModeChange != nil {
		c.hooks.OnModeChange(ctx, &domain.ModeEvent{EventBase: c.event(domain.EventModeChange), From: from, To: to})
	}
}

// placePlane replaces the workplane, returns focus to the active drawable and enters draw mode.
// With autoDelete the last stroke of the active drawable is removed afterwards.
func (c *Controller) placePlane(ctx context.Context, st *domain.SessionState, o geometry.Orientation, p1, p2 domain.Point, autoDelete bool) error {
	if _, err := c.pencil.SaveActive(ctx, st); err != nil {
		return err
	}
	wp, err := c.planes.CreateOrReplace(ctx, st, o, p1, p2)
	if err != nil {
		return err
	}
	if _, _, err := c.pencil.EnsureActive(ctx, st); err != nil {
		return err
	}
	if autoDelete {
		if err := c.pencil.DeleteLastStroke(ctx); err != nil && !errors.Is(err, domain.ErrNoStrokes) {
			return err
		}
	}
	if err := c.pencil.Draw(ctx); err != nil {
		return err
	}

	if c.hooks.OnPlaneCreated != nil {
		c.hooks.OnPlaneCreated(ctx, &domain.PlaneEvent{
			EventBase:   c.event(domain.EventPlaneCreated),
			Orientation: string(o),
			Location:    wp.Location,
			Rotation:    wp.Rotation,
			Grid:        wp.Grid,
		})
	}
	return nil
}

// activate records the focused drawable, makes sure one is active and enters draw mode.
func (c *Controller) activate(ctx context.Context, st *domain.SessionState) error {
	if _, err := c.pencil.SaveActive(ctx, st); err != nil {
		return err
	}
	if _, _, err := c.pencil.EnsureActive(ctx, st); err != nil {
		return err
	}
	return c.pencil.Draw(ctx)
}

// Setup applies the drawing view settings and enters draw mode on the active drawable.
func (c *Controller) Setup(ctx context.Context) error {
	return c.run(ctx, CmdSetup, func(ctx context.Context, st *domain.SessionState) error {
		if err := c.scene.ConfigureView(ctx, c.view); err != nil {
			return fmt.Errorf("failed to configure view: %w", err)
		}
		return c.activate(ctx, st)
	})
}

// Init places the horizontal base plane.
func (c *Controller) Init(ctx context.Context) error {
	return c.run(ctx, CmdInit, c.initBase)
}

func (c *Controller) initBase(ctx context.Context, st *domain.SessionState) error {
	return c.placePlane(ctx, st, geometry.Base, basePlaneA, basePlaneB, false)
}

// Clear removes the workplane and every drawable, then places the base plane again.
// Grid settings survive.
func (c *Controller) Clear(ctx context.Context) error {
	return c.run(ctx, CmdClear, func(ctx context.Context, st *domain.SessionState) error {
		if err := c.pencil.ObjectMode(ctx); err != nil {
			return err
		}
		wp, err := c.planes.Current(ctx)
		switch {
		case err == nil:
			st.Grid = wp.Grid
		case !errors.Is(err, domain.ErrNoWorkplane):
			return err
		}
		if _, err := c.planes.Delete(ctx); err != nil {
			return err
		}
		names, err := c.pencil.Drawables(ctx)
		if err != nil {
			return err
		}
		for _, name := range names {
			if err := c.scene.DeleteObject(ctx, name); err != nil {
				return fmt.Errorf("failed to delete drawable %q: %w", name, err)
			}
		}
		st.ClearActive()
		st.PlaneOffset = 0
		c.picking.Reset(st)
		return c.initBase(ctx, st)
	})
}

// AddDrawable creates a new drawable and starts drawing on it.
func (c *Controller) AddDrawable(ctx context.Context) error {
	return c.run(ctx, CmdAddDrawable, func(ctx context.Context, st *domain.SessionState) error {
		if _, err := c.pencil.Create(ctx, st); err != nil {
			return err
		}
		return c.pencil.Draw(ctx)
	})
}

// RemoveDrawable deletes the active drawable and activates another one.
func (c *Controller) RemoveDrawable(ctx context.Context) error {
	return c.run(ctx, CmdRemoveDrawable, func(ctx context.Context, st *domain.SessionState) error {
		if _, _, err := c.pencil.EnsureActive(ctx, st); err != nil {
			return err
		}
		if err := c.pencil.ObjectMode(ctx); err != nil {
			return err
		}
		if err := c.pencil.RemoveActive(ctx, st); err != nil {
			return err
		}
		if _, _, err := c.pencil.EnsureActive(ctx, st); err != nil {
			return err
		}
		return c.pencil.Draw(ctx)
	})
}

// SelectDrawable makes the named drawable active.
func (c *Controller) SelectDrawable(ctx context.Context, name string) error {
	return c.run(ctx, CmdSelectDrawable, func(ctx context.Context, st *domain.SessionState) error {
		if err := c.pencil.Select(ctx, st, name); err != nil {
			return err
		}
		return c.pencil.Draw(ctx)
	})
}

// DeleteLastStroke removes the most recent stroke of the active drawable. An empty drawable
// is reported with domain.ErrNoStrokes.
func (c *Controller) DeleteLastStroke(ctx context.Context) error {
	return c.run(ctx, CmdDeleteLastStroke, func(ctx context.Context, st *domain.SessionState) error {
		if err := c.activate(ctx, st); err != nil {
			return err
		}
		if err := c.pencil.DeleteLastStroke(ctx); err != nil {
			if errors.Is(err, domain.ErrNoStrokes) {
				return reportedError{err}
			}
			return err
		}
		return nil
	})
}

// PlaneFromStroke places a workplane on the first and last point of the focused drawable's
// last stroke. o is Vertical, Horizontal or Tilted.
func (c *Controller) PlaneFromStroke(ctx context.Context, o geometry.Orientation) error {
	var name string
	switch o {
	case geometry.Vertical:
		name = CmdPlaneVertical
	case geometry.Horizontal:
		name = CmdPlaneHorizontal
	case geometry.Tilted:
		name = CmdPlane3D
	default:
		return fmt.Errorf("orientation %q cannot be derived from a stroke", o)
	}
	return c.run(ctx, name, func(ctx context.Context, st *domain.SessionState) error {
		stroke, err := c.pencil.LastStroke(ctx)
		if err != nil {
			return err
		}
		p1, ok := stroke.First()
		if !ok {
			return domain.ErrNoStrokes
		}
		p2, _ := stroke.Last()
		return c.placePlane(ctx, st, o, p1, p2, st.AutoDeleteStroke)
	})
}

// PickPoints advances the point-picking workflow. The second call places a plane through the
// selected points without deleting any stroke.
func (c *Controller) PickPoints(ctx context.Context) (picking.Result, error) {
	var res picking.Result
	err := c.run(ctx, CmdPickPoints, func(ctx context.Context, st *domain.SessionState) error {
		var err error
		res, err = c.picking.Toggle(ctx, st)
		if err != nil {
			return err
		}
		if res.Phase == domain.PickAwaitingSelection {
			return nil
		}
		if res.Capture == nil {
			return c.pencil.Draw(ctx)
		}
		return c.placePlane(ctx, st, res.Capture.Orientation, res.Capture.P1, res.Capture.P2, false)
	})
	return res, err
}

// Rotate nudges the workplane around one axis.
func (c *Controller) Rotate(ctx context.Context, axis domain.Axis, degrees float64) error {
	return c.run(ctx, CmdRotate, func(ctx context.Context, st *domain.SessionState) error {
		_, err := c.planes.Rotate(ctx, axis, degrees)
		return err
	})
}

// Offset moves the workplane along its normal relative to where it was placed.
func (c *Controller) Offset(ctx context.Context, amount float64) error {
	return c.run(ctx, CmdOffset, func(ctx context.Context, st *domain.SessionState) error {
		_, err := c.planes.ApplyOffset(ctx, st, amount)
		return err
	})
}

// SetGrid changes the workplane scale and repetition counts.
func (c *Controller) SetGrid(ctx context.Context, g domain.Grid) error {
	return c.run(ctx, CmdGrid, func(ctx context.Context, st *domain.SessionState) error {
		_, err := c.planes.SetGrid(ctx, st, g)
		return err
	})
}

// UpdateGrid edits the live grid with fn under the document lock.
func (c *Controller) UpdateGrid(ctx context.Context, fn func(domain.Grid) (domain.Grid, error)) error {
	return c.run(ctx, CmdGrid, func(ctx context.Context, st *domain.SessionState) error {
		_, err := c.planes.UpdateGrid(ctx, st, fn)
		return err
	})
}

// SwitchGrid swaps the x and y grid settings.
func (c *Controller) SwitchGrid(ctx context.Context) error {
	return c.run(ctx, CmdSwitchGrid, func(ctx context.Context, st *domain.SessionState) error {
		_, err := c.planes.SwitchAxes(ctx, st)
		return err
	})
}

// ResetGrid restores scale (1,1) and counts (100,100).
func (c *Controller) ResetGrid(ctx context.Context) error {
	return c.run(ctx, CmdResetGrid, func(ctx context.Context, st *domain.SessionState) error {
		_, err := c.planes.ResetGrid(ctx, st)
		return err
	})
}

// SetAutoDelete toggles removal of the stroke a plane was derived from.
func (c *Controller) SetAutoDelete(ctx context.Context, enabled bool) error {
	return c.run(ctx, CmdAutoDelete, func(ctx context.Context, st *domain.SessionState) error {
		st.AutoDeleteStroke = enabled
		return nil
	})
}

// Panel sections that can be collapsed.
const (
	SectionSystem = "system"
	SectionGrid   = "grid"
)

// SetExpanded expands or collapses a panel section.
func (c *Controller) SetExpanded(ctx context.Context, section string, enabled bool) error {
	return c.run(ctx, CmdExpand, func(ctx context.Context, st *domain.SessionState) error {
		switch section {
		case SectionSystem:
			st.ExpandSystem = enabled
		case SectionGrid:
			st.ExpandGrid = enabled
		default:
			return fmt.Errorf("%w: unknown panel section %q", ErrInvalidArgs, section)
		}
		return nil
	})
}

// Panel reads everything the side panel shows. It does not modify state.
func (c *Controller) Panel(ctx context.Context) (*domain.PanelState, error) {
	st, err := c.sessions.LoadOrInit(ctx, c.documentID)
	if err != nil {
		return nil, err
	}
	mode, err := c.scene.Mode(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read mode: %w", err)
	}
	focused, err := c.scene.Focused(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read focus: %w", err)
	}
	wp, err := c.planes.Current(ctx)
	if err != nil && !errors.Is(err, domain.ErrNoWorkplane) {
		return nil, err
	}
	drawables, err := c.pencil.Drawables(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.PanelState{
		Session:   *st,
		Mode:      mode,
		Focused:   focused,
		Workplane: wp,
		Drawables: drawables,
	}, nil
}
