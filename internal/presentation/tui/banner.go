package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner writes the startup banner with the version to w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	title := out.String(" logstate ").Bold().Foreground(out.Color("#818cf8"))
	ver := out.String("v" + strings.TrimSpace(version)).Faint()

	fmt.Fprintln(w)
	fmt.Fprintf(w, " %s %s\n", title, ver)
	fmt.Fprintln(w)
}
