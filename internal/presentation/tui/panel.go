package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/workplane/pkg/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
)

var (
	statusKey   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#818cf8"))
	statusValue = lipgloss.NewStyle().Foreground(lipgloss.Color("#e879f9"))
	statusBar   = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.NormalBorder(), false, false, true, false)
)

// StatusLine is the one-line summary shown above the panel.
func StatusLine(p *domain.PanelState) string {
	active := p.Session.ActiveDrawable
	if !p.Session.HasActive() {
		active = "none"
	}
	plane := "none"
	if p.Workplane != nil {
		plane = fmt.Sprintf("%.2f %.2f %.2f", p.Workplane.Location.X(), p.Workplane.Location.Y(), p.Workplane.Location.Z())
	}
	parts := []string{
		statusKey.Render("mode") + " " + statusValue.Render(string(p.Mode)),
		statusKey.Render("active") + " " + statusValue.Render(active),
		statusKey.Render("plane") + " " + statusValue.Render(plane),
	}
	if p.Session.Picking == domain.PickAwaitingSelection {
		parts = append(parts, statusValue.Render("selecting points"))
	}
	return statusBar.Render(strings.Join(parts, "  "))
}

// PanelMarkdown lays out the side panel. Collapsed sections only show their heading.
func PanelMarkdown(p *domain.PanelState) string {
	var b strings.Builder

	b.WriteString("## System\n\n")
	if p.Session.ExpandSystem {
		b.WriteString("`setup` `init` `clear` `add-drawable` `remove-drawable`\n\n")
		if len(p.Drawables) == 0 {
			b.WriteString("_No drawables._\n\n")
		}
		for _, name := range p.Drawables {
			if name == p.Session.ActiveDrawable {
				fmt.Fprintf(&b, "- **%s** (active)\n", name)
			} else {
				fmt.Fprintf(&b, "- %s\n", name)
			}
		}
		if len(p.Drawables) > 0 {
			b.WriteString("\n")
		}
	}

	b.WriteString("## Workplane\n\n")
	if p.Workplane == nil {
		b.WriteString("_No workplane. Run `init` to place the base plane._\n\n")
	} else {
		loc, rot := p.Workplane.Location, p.Workplane.Rotation
		fmt.Fprintf(&b, "| | x | y | z |\n|---|---|---|---|\n")
		fmt.Fprintf(&b, "| Location | %.3f | %.3f | %.3f |\n", loc.X(), loc.Y(), loc.Z())
		fmt.Fprintf(&b, "| Rotation | %.1f° | %.1f° | %.1f° |\n\n",
			mgl64.RadToDeg(rot.X()), mgl64.RadToDeg(rot.Y()), mgl64.RadToDeg(rot.Z()))
		fmt.Fprintf(&b, "Offset: %g\n\n", p.Session.PlaneOffset)
	}
	fmt.Fprintf(&b, "Auto delete stroke: **%s**\n\n", onOff(p.Session.AutoDeleteStroke))
	if p.Session.Picking == domain.PickAwaitingSelection {
		b.WriteString("> Select 1, 2 or 3 points, then run `pick-points` again.\n\n")
	}

	b.WriteString("## Grid\n\n")
	if p.Session.ExpandGrid {
		g := p.Session.Grid
		if p.Workplane != nil {
			g = p.Workplane.Grid
		}
		fmt.Fprintf(&b, "| | x | y |\n|---|---|---|\n")
		fmt.Fprintf(&b, "| Scale | %g | %g |\n", g.ScaleX, g.ScaleY)
		fmt.Fprintf(&b, "| Count | %d | %d |\n", g.CountX, g.CountY)
	}
	return b.String()
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
