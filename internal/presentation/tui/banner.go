package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

var bannerLines = []string{
	` _    _            _          _                  `,
	`| |  | |          | |        | |                 `,
	`| |  | | ___  _ __| | ___ __ | | __ _ _ __   ___ `,
	`| |/\| |/ _ \| '__| |/ / '_ \| |/ _' | '_ \ / _ \`,
	`\  /\  / (_) | |  |   <| |_) | | (_| | | | |  __/`,
	` \/  \/ \___/|_|  |_|\_\ .__/|_|\__,_|_| |_|\___|`,
	`                       | |                       `,
	`                       |_|                       `,
}

var bannerColors = []string{"#818cf8", "#a78bfa", "#c084fc", "#e879f9", "#f472b6", "#fb7185", "#fb7185", "#fb7185"}

// PrintBanner writes the ASCII banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	fmt.Fprintln(w)
	for i, line := range bannerLines {
		fmt.Fprintln(w, termenv.String(line).Foreground(p.Color(bannerColors[i])))
	}
	if v := strings.TrimSpace(version); v != "" {
		fmt.Fprintln(w, termenv.String("  v"+v).Faint())
	}
	fmt.Fprintln(w)
}
