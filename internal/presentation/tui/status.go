package tui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	httpadapter "github.com/aretw0/logstate/pkg/adapters/http"
	"github.com/aretw0/logstate/pkg/domain"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Output formats for CLI results.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// WriteResult prints res to w in the given format.
// Colors and markdown rendering only apply when w is a terminal.
func WriteResult(w io.Writer, format string, res domain.Result) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(httpadapter.FromResult(res))
	case FormatMarkdown:
		md := Markdown(res)
		if f, ok := w.(*os.File); ok && IsTerminal(w) {
			md = RenderMarkdown(f, md)
		}
		_, err := io.WriteString(w, md)
		return err
	case FormatText, "":
		profile := termenv.Ascii
		if IsTerminal(w) {
			profile = termenv.NewOutput(w).Profile
		}
		_, err := io.WriteString(w, Text(res, profile))
		return err
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// Text renders res as two short lines: the outcome message and the state.
func Text(res domain.Result, p termenv.Profile) string {
	mark := p.String("✓").Foreground(p.Color("2"))
	if !res.Success {
		mark = p.String("•").Foreground(p.Color("3"))
	}

	state := p.String("inactive").Faint()
	if res.Active {
		state = p.String("active").Bold().Foreground(p.Color("2"))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", mark, res.Message)
	fmt.Fprintf(&b, "  state: %s  path: %s  previous: %s\n", state, orNone(res.Path), orNone(res.PreviousPath))
	return b.String()
}

// Markdown renders res as a markdown table.
func Markdown(res domain.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n\n", res.Message)
	b.WriteString("| field | value |\n|---|---|\n")
	fmt.Fprintf(&b, "| active | %t |\n", res.Active)
	fmt.Fprintf(&b, "| path | %s |\n", tableCell(orNone(res.Path)))
	fmt.Fprintf(&b, "| previous path | %s |\n", tableCell(orNone(res.PreviousPath)))
	fmt.Fprintf(&b, "| request status | %t |\n", res.Success)
	return b.String()
}

// cellEscaper keeps a value inside one markdown table cell.
var cellEscaper = strings.NewReplacer(
	`\`, `\\`,
	"|", `\|`,
	"\r\n", `\n`,
	"\n", `\n`,
	"\r", `\r`,
)

func tableCell(s string) string {
	return cellEscaper.Replace(s)
}

func orNone(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
