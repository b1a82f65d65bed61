package workplane

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/workplane/pkg/domain"
	"github.com/google/shlex"
)

// PanelRenderer turns the panel state into text for the terminal.
// This allows TUI rendering without coupling the core package to it.
type PanelRenderer func(*domain.PanelState) (string, error)

// Runner reads commands line by line and renders the panel after each one.
type Runner struct {
	Input    io.Reader
	Output   io.Writer
	Headless bool
	Renderer PanelRenderer
}

// NewRunner creates a Runner. Input and Output must be set before Run.
func NewRunner() *Runner {
	return &Runner{}
}

// ParseCommand parses `name key=value ...`. Values may be quoted: select-drawable name="Drawing 2".
func ParseCommand(line string) (domain.Command, error) {
	fields, err := shlex.Split(line)
	if err != nil {
		return domain.Command{}, fmt.Errorf("%w: %v", ErrInvalidArgs, err)
	}
	if len(fields) == 0 {
		return domain.Command{}, fmt.Errorf("%w: empty command", ErrInvalidArgs)
	}
	cmd := domain.Command{Name: fields[0]}
	for _, field := range fields[1:] {
		key, value, ok := strings.Cut(field, "=")
		if !ok || key == "" {
			return domain.Command{}, fmt.Errorf("%w: expected key=value, got %q", ErrInvalidArgs, field)
		}
		if cmd.Args == nil {
			cmd.Args = map[string]any{}
		}
		cmd.Args[key] = value
	}
	return cmd, nil
}

// Run executes commands until EOF, "exit" or "quit". Command errors are printed and the
// loop continues; only I/O errors end it early.
func (r *Runner) Run(ctx context.Context, c *Controller) error {
	if r.Input == nil {
		return fmt.Errorf("input reader must be set (use os.Stdin)")
	}
	if r.Output == nil {
		return fmt.Errorf("output writer must be set (use os.Stdout)")
	}
	reader := bufio.NewReader(r.Input)

	if !r.Headless {
		fmt.Fprintln(r.Output, `--- workplane (type "help" for commands) ---`)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !r.Headless {
			fmt.Fprint(r.Output, "> ")
		}
		text, err := reader.ReadString('\n')
		line := strings.TrimSpace(text)
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("input error: %w", err)
		}

		if line != "" {
			if line == "exit" || line == "quit" {
				if !r.Headless {
					fmt.Fprintln(r.Output, "Bye!")
				}
				return nil
			}
			r.handle(ctx, c, line)
		}

		if errors.Is(err, io.EOF) {
			return nil
		}
	}
}

func (r *Runner) handle(ctx context.Context, c *Controller, line string) {
	switch line {
	case "help":
		for _, spec := range Catalog() {
			usage := spec.Name
			for _, p := range spec.Params {
				usage += " " + p.Name + "="
			}
			fmt.Fprintf(r.Output, "  %-36s %s\n", usage, spec.Description)
		}
		return
	case "panel":
		panel, err := c.Panel(ctx)
		if err != nil {
			fmt.Fprintf(r.Output, "error: %v\n", err)
			return
		}
		r.render(panel)
		return
	}

	cmd, err := ParseCommand(line)
	if err != nil {
		fmt.Fprintf(r.Output, "error: %v\n", err)
		return
	}
	panel, err := c.Dispatch(ctx, cmd)
	if err != nil {
		fmt.Fprintf(r.Output, "error: %v\n", err)
		return
	}
	r.render(panel)
}

func (r *Runner) render(panel *domain.PanelState) {
	if r.Renderer != nil {
		out, err := r.Renderer(panel)
		if err == nil {
			fmt.Fprintln(r.Output, strings.TrimSpace(out))
			return
		}
		fmt.Fprintf(r.Output, "render error: %v\n", err)
	}
	fmt.Fprintf(r.Output, "ok mode=%s active=%s drawables=%d workplane=%t\n",
		panel.Mode, panel.Session.ActiveDrawable, len(panel.Drawables), panel.Workplane != nil)
}
