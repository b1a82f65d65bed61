package workplane

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/aretw0/workplane/pkg/domain"
	"github.com/aretw0/workplane/pkg/geometry"
	"github.com/mitchellh/mapstructure"
)

// Command names accepted by Dispatch.
const (
	CmdSetup            = "setup"
	CmdInit             = "init"
	CmdClear            = "clear"
	CmdAddDrawable      = "add-drawable"
	CmdRemoveDrawable   = "remove-drawable"
	CmdSelectDrawable   = "select-drawable"
	CmdDeleteLastStroke = "delete-last-stroke"
	CmdPlaneVertical    = "plane-vertical"
	CmdPlaneHorizontal  = "plane-horizontal"
	CmdPlane3D          = "plane-3d"
	CmdPickPoints       = "pick-points"
	CmdRotate           = "rotate"
	CmdOffset           = "offset"
	CmdGrid             = "grid"
	CmdSwitchGrid       = "switch-grid"
	CmdResetGrid        = "reset-grid"
	CmdAutoDelete       = "auto-delete"
	CmdExpand           = "expand"
)

// ErrInvalidArgs is returned when command arguments are missing or malformed.
var ErrInvalidArgs = errors.New("invalid command arguments")

// ParamType is the JSON-schema-like type of a command parameter.
type ParamType string

const (
	ParamString  ParamType = "string"
	ParamNumber  ParamType = "number"
	ParamInteger ParamType = "integer"
	ParamBoolean ParamType = "boolean"
)

// Param describes one command argument.
type Param struct {
	Name        string    `json:"name"`
	Type        ParamType `json:"type"`
	Description string    `json:"description"`
	Required    bool      `json:"required,omitempty"`
	Enum        []string  `json:"enum,omitempty"`
}

// CommandSpec describes a command for the CLI, HTTP and MCP surfaces.
type CommandSpec struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Params      []Param `json:"params,omitempty"`
}

var catalog = []CommandSpec{
	{Name: CmdSetup, Description: "Apply the drawing view settings and start drawing on the active drawable"},
	{Name: CmdInit, Description: "Place the horizontal base plane"},
	{Name: CmdClear, Description: "Delete the workplane and all drawables, then place the base plane"},
	{Name: CmdAddDrawable, Description: "Create a new drawable locked at the origin"},
	{Name: CmdRemoveDrawable, Description: "Delete the active drawable"},
	{Name: CmdSelectDrawable, Description: "Make a drawable active", Params: []Param{
		{Name: "name", Type: ParamString, Description: "Drawable name", Required: true},
	}},
	{Name: CmdDeleteLastStroke, Description: "Delete the last stroke of the active drawable"},
	{Name: CmdPlaneVertical, Description: "Vertical workplane through the ends of the last stroke"},
	{Name: CmdPlaneHorizontal, Description: "Horizontal workplane through the ends of the last stroke"},
	{Name: CmdPlane3D, Description: "Tilted workplane through the ends of the last stroke"},
	{Name: CmdPickPoints, Description: "First call: select points. Second call: workplane through 1, 2 or 3 selected points"},
	{Name: CmdRotate, Description: "Rotate the workplane around one axis", Params: []Param{
		{Name: "axis", Type: ParamString, Description: "Rotation axis", Required: true, Enum: []string{"x", "y", "z"}},
		{Name: "degrees", Type: ParamNumber, Description: "Angle to add, in degrees", Required: true},
	}},
	{Name: CmdOffset, Description: "Move the workplane along its normal from where it was placed", Params: []Param{
		{Name: "amount", Type: ParamNumber, Description: "Distance along the normal", Required: true},
	}},
	{Name: CmdGrid, Description: "Set workplane scale and grid counts; omitted values are kept", Params: []Param{
		{Name: "scale_x", Type: ParamNumber, Description: "Plane scale along x"},
		{Name: "scale_y", Type: ParamNumber, Description: "Plane scale along y"},
		{Name: "count_x", Type: ParamInteger, Description: "Repetitions along x"},
		{Name: "count_y", Type: ParamInteger, Description: "Repetitions along y"},
	}},
	{Name: CmdSwitchGrid, Description: "Swap x and y scale and counts"},
	{Name: CmdResetGrid, Description: "Reset scale to 1x1 and counts to 100x100"},
	{Name: CmdAutoDelete, Description: "Delete the stroke a V/H/3D workplane was built from", Params: []Param{
		{Name: "enabled", Type: ParamBoolean, Description: "Enable auto-delete", Required: true},
	}},
	{Name: CmdExpand, Description: "Expand or collapse a panel section", Params: []Param{
		{Name: "section", Type: ParamString, Description: "Panel section", Required: true, Enum: []string{SectionSystem, SectionGrid}},
		{Name: "enabled", Type: ParamBoolean, Description: "Expanded", Required: true},
	}},
}

// Catalog lists every command Dispatch accepts.
func Catalog() []CommandSpec {
	return slices.Clone(catalog)
}

// Lookup returns the catalog entry for a command.
func Lookup(name string) (CommandSpec, bool) {
	for _, spec := range catalog {
		if spec.Name == name {
			return spec, true
		}
	}
	return CommandSpec{}, false
}

type selectArgs struct {
	Name string `mapstructure:"name"`
}

type rotateArgs struct {
	Axis    string  `mapstructure:"axis"`
	Degrees float64 `mapstructure:"degrees"`
}

type offsetArgs struct {
	Amount float64 `mapstructure:"amount"`
}

type toggleArgs struct {
	Enabled bool `mapstructure:"enabled"`
}

type expandArgs struct {
	Section string `mapstructure:"section"`
	Enabled bool   `mapstructure:"enabled"`
}

// decodeArgs decodes loosely typed arguments ("45", 45, 45.0) into out and checks required ones.
func decodeArgs(spec CommandSpec, args map[string]any, out any) error {
	if args == nil {
		args = map[string]any{}
	}
	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Metadata:         &md,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(args); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidArgs, spec.Name, err)
	}
	for _, p := range spec.Params {
		if p.Required && !slices.Contains(md.Keys, p.Name) {
			return fmt.Errorf("%w: %s requires %q", ErrInvalidArgs, spec.Name, p.Name)
		}
	}
	return nil
}

// Dispatch runs a named command and returns the resulting panel state.
func (c *Controller) Dispatch(ctx context.Context, cmd domain.Command) (*domain.PanelState, error) {
	if err := c.dispatch(ctx, cmd); err != nil {
		return nil, err
	}
	return c.Panel(ctx)
}

func (c *Controller) dispatch(ctx context.Context, cmd domain.Command) error {
	spec, ok := Lookup(cmd.Name)
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownCommand, cmd.Name)
	}
	if len(spec.Params) == 0 && len(cmd.Args) > 0 {
		return fmt.Errorf("%w: %s takes no arguments", ErrInvalidArgs, spec.Name)
	}

	switch cmd.Name {
	case CmdSetup:
		return c.Setup(ctx)
	case CmdInit:
		return c.Init(ctx)
	case CmdClear:
		return c.Clear(ctx)
	case CmdAddDrawable:
		return c.AddDrawable(ctx)
	case CmdRemoveDrawable:
		return c.RemoveDrawable(ctx)
	case CmdSelectDrawable:
		var a selectArgs
		if err := decodeArgs(spec, cmd.Args, &a); err != nil {
			return err
		}
		return c.SelectDrawable(ctx, a.Name)
	case CmdDeleteLastStroke:
		return c.DeleteLastStroke(ctx)
	case CmdPlaneVertical:
		return c.PlaneFromStroke(ctx, geometry.Vertical)
	case CmdPlaneHorizontal:
		return c.PlaneFromStroke(ctx, geometry.Horizontal)
	case CmdPlane3D:
		return c.PlaneFromStroke(ctx, geometry.Tilted)
	case CmdPickPoints:
		_, err := c.PickPoints(ctx)
		return err
	case CmdRotate:
		var a rotateArgs
		if err := decodeArgs(spec, cmd.Args, &a); err != nil {
			return err
		}
		axis, err := domain.ParseAxis(a.Axis)
		if err != nil {
			return err
		}
		return c.Rotate(ctx, axis, a.Degrees)
	case CmdOffset:
		var a offsetArgs
		if err := decodeArgs(spec, cmd.Args, &a); err != nil {
			return err
		}
		return c.Offset(ctx, a.Amount)
	case CmdGrid:
		// Omitted fields keep the live values.
		return c.UpdateGrid(ctx, func(g domain.Grid) (domain.Grid, error) {
			err := decodeArgs(spec, cmd.Args, &g)
			return g, err
		})
	case CmdSwitchGrid:
		return c.SwitchGrid(ctx)
	case CmdResetGrid:
		return c.ResetGrid(ctx)
	case CmdAutoDelete:
		var a toggleArgs
		if err := decodeArgs(spec, cmd.Args, &a); err != nil {
			return err
		}
		return c.SetAutoDelete(ctx, a.Enabled)
	case CmdExpand:
		var a expandArgs
		if err := decodeArgs(spec, cmd.Args, &a); err != nil {
			return err
		}
		return c.SetExpanded(ctx, a.Section, a.Enabled)
	}
	return fmt.Errorf("%w: %q", domain.ErrUnknownCommand, cmd.Name)
}
