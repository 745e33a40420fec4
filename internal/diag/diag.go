// Package diag renders lexical and syntax errors against their source text:
// a "name:line:col: error: reason" header, the offending line and a caret
// under the column.
package diag

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/msto63/vera/foundation/utils/stringx"
	"github.com/msto63/vera/foundation/vera"
	"github.com/msto63/vera/foundation/vera/token"
)

// Color palette shared with the explorer
var (
	ColorError  = lipgloss.Color("#EF4444") // Red
	ColorAccent = lipgloss.Color("#F59E0B") // Amber
	ColorMuted  = lipgloss.Color("#6B7280") // Gray
	ColorText   = lipgloss.Color("#F8FAFC") // Slate 50
)

// Styles used by a Renderer
type Styles struct {
	Location lipgloss.Style
	Label    lipgloss.Style
	Message  lipgloss.Style
	Gutter   lipgloss.Style
	Source   lipgloss.Style
	Caret    lipgloss.Style
}

// NewStyles builds the styles from r. Colors are dropped automatically when
// r's output is not a color terminal.
func NewStyles(r *lipgloss.Renderer) Styles {
	// tabs stay tabs so the caret line lines up with the source line
	base := r.NewStyle().TabWidth(lipgloss.NoTabConversion)
	return Styles{
		Location: base.Bold(true),
		Label:    base.Foreground(ColorError).Bold(true),
		Message:  base.Foreground(ColorText),
		Gutter:   base.Foreground(ColorMuted),
		Source:   base,
		Caret:    base.Foreground(ColorAccent).Bold(true),
	}
}

// Renderer formats diagnostics
type Renderer struct {
	styles Styles
}

// NewRenderer creates a renderer for output written to w
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{styles: NewStyles(lipgloss.NewRenderer(w))}
}

// NewRendererWithStyles creates a renderer with explicit styles
func NewRendererWithStyles(s Styles) *Renderer {
	return &Renderer{styles: s}
}

// Plain returns a renderer that never emits escape sequences
func Plain() *Renderer {
	plain := lipgloss.NewStyle().TabWidth(lipgloss.NoTabConversion)
	return &Renderer{styles: Styles{
		Location: plain, Label: plain, Message: plain,
		Gutter: plain, Source: plain, Caret: plain,
	}}
}

// Render formats err for the source text src named name. Errors without a
// source position render as a single header line.
func (r *Renderer) Render(name, src string, err error) string {
	if err == nil {
		return ""
	}
	if name == "" {
		name = "<input>"
	}

	s := r.styles
	reason := vera.ErrorReason(err)
	pos, ok := vera.ErrorPosition(err)
	if !ok {
		return fmt.Sprintf("%s %s %s",
			s.Location.Render(name+":"),
			s.Label.Render("error:"),
			s.Message.Render(reason))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s\n",
		s.Location.Render(Location(name, pos)+":"),
		s.Label.Render("error:"),
		s.Message.Render(reason))

	line, found := stringx.Line(src, pos.Line)
	if !found {
		return strings.TrimRight(b.String(), "\n")
	}

	num := strconv.Itoa(pos.Line)
	blank := strings.Repeat(" ", len(num))
	fmt.Fprintf(&b, "%s %s\n", s.Gutter.Render(num+" |"), s.Source.Render(line))
	fmt.Fprintf(&b, "%s %s", s.Gutter.Render(blank+" |"), s.Caret.Render(stringx.Caret(line, pos.Column)))
	return b.String()
}

// Location formats name:line:column
func Location(name string, pos token.Pos) string {
	return fmt.Sprintf("%s:%d:%d", name, pos.Line, pos.Column)
}

// Render formats err without styling
func Render(name, src string, err error) string {
	return Plain().Render(name, src, err)
}
