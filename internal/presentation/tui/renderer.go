package tui

import (
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

const defaultWrap = 80

// RenderMarkdown renders md with glamour for display on f, wrapping at the terminal
// width. The source is returned unchanged when rendering fails.
func RenderMarkdown(f *os.File, md string) string {
	wrap := defaultWrap
	if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
		wrap = width
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
