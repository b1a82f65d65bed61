package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/workplane/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() (func(string) (string, error), error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return r.Render, nil
}

// NewPanelRenderer renders the panel as a status line followed by glamour markdown.
func NewPanelRenderer() (func(*domain.PanelState) (string, error), error) {
	render, err := NewRenderer()
	if err != nil {
		return nil, err
	}
	return func(p *domain.PanelState) (string, error) {
		body, err := render(PanelMarkdown(p))
		if err != nil {
			return "", err
		}
		return StatusLine(p) + "\n" + strings.TrimRight(body, "\n"), nil
	}, nil
}
