// ============================================================================
// vera - tokenizer and parser toolkit
// ============================================================================
//
// Package:     explorer
// Description: Bubbletea model: live token and AST view of edited source
// Author:      Mike Stoffels
// Created:     2026-10-03
// License:     MIT
// ============================================================================

package explorer

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/msto63/vera/foundation/utils/stringx"
	"github.com/msto63/vera/foundation/vera"
	"github.com/msto63/vera/foundation/vera/ast"
	"github.com/msto63/vera/internal/diag"
)

// View selects what the right-hand panel shows
type View int

const (
	ViewTokens View = iota
	ViewAST
	ViewFormatted
	viewCount
)

func (v View) String() string {
	switch v {
	case ViewTokens:
		return "Tokens"
	case ViewAST:
		return "AST"
	case ViewFormatted:
		return "Formatted"
	default:
		return "?"
	}
}

// Config holds explorer configuration
type Config struct {
	Engine *vera.Engine
	Name   string // shown in diagnostics
	Source string // initial editor content
}

// Model is the main Bubbletea model for the explorer
type Model struct {
	// State
	width  int
	height int
	ready  bool
	view   View

	// Components
	editor   textarea.Model
	viewport viewport.Model

	// Parse state
	engine  *vera.Engine
	name    string
	seq     int
	source  string
	result  *vera.Result
	err     error
	plain   *diag.Renderer
	parsing bool
}

// New creates a new explorer model
func New(cfg Config) Model {
	engine := cfg.Engine
	if engine == nil {
		engine = vera.NewEngine(vera.Options{})
	}

	ta := textarea.New()
	ta.Placeholder = "main { x = 1; }"
	ta.ShowLineNumbers = true
	ta.CharLimit = 0
	ta.SetValue(cfg.Source)
	ta.Focus()

	return Model{
		editor: ta,
		engine: engine,
		name:   stringx.FirstNonBlank(cfg.Name, "<buffer>"),
		plain:  diag.Plain(),
		view:   ViewTokens,
	}
}

// Init starts the first parse
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.parseCmd(m.seq, m.editor.Value()))
}

// parseCmd parses src off the update loop
func (m Model) parseCmd(seq int, src string) tea.Cmd {
	engine := m.engine
	return func() tea.Msg {
		res, err := engine.Parse(context.Background(), src)
		return parsedMsg{seq: seq, source: src, result: res, err: err}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyTab:
			m.view = (m.view + 1) % viewCount
			m.updateViewportContent()
			return m, nil
		case tea.KeyShiftTab:
			m.view = (m.view + viewCount - 1) % viewCount
			m.updateViewportContent()
			return m, nil
		case tea.KeyPgUp:
			m.viewport.ViewUp()
			return m, nil
		case tea.KeyPgDown:
			m.viewport.ViewDown()
			return m, nil
		}

		before := m.editor.Value()
		m.editor, cmd = m.editor.Update(msg)
		cmds = append(cmds, cmd)
		if m.editor.Value() != before {
			m.seq++
			m.parsing = true
			cmds = append(cmds, m.parseCmd(m.seq, m.editor.Value()))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.updateViewportContent()

	case parsedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.parsing = false
		m.source = msg.source
		m.result = msg.result
		m.err = msg.err
		m.updateViewportContent()

	default:
		m.editor, cmd = m.editor.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) layout() {
	headerHeight := 2 // title + tabs
	footerHeight := 3 // status + help
	panelHeight := m.height - headerHeight - footerHeight - 2
	if panelHeight < 3 {
		panelHeight = 3
	}
	half := m.width/2 - 2
	if half < 10 {
		half = 10
	}

	m.editor.SetWidth(half)
	m.editor.SetHeight(panelHeight)

	if !m.ready {
		m.viewport = viewport.New(half, panelHeight)
		m.ready = true
	} else {
		m.viewport.Width = half
		m.viewport.Height = panelHeight
	}
}

func (m *Model) updateViewportContent() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.panelContent())
}

// panelContent renders the active view as plain text
func (m Model) panelContent() string {
	if m.err != nil {
		return m.plain.Render(m.name, m.source, m.err)
	}
	if m.result == nil {
		return ""
	}

	switch m.view {
	case ViewTokens:
		var b strings.Builder
		for _, t := range m.result.Tokens {
			fmt.Fprintf(&b, "%s %s %s\n",
				TokenPosStyle.Render(stringx.PadRight(t.Pos.String(), 7, ' ')),
				TokenKindStyle.Render(stringx.PadRight(t.Kind.String(), 15, ' ')),
				stringx.Escape(t.Lexeme))
		}
		return b.String()
	case ViewAST:
		return ast.Tree(m.result.AST)
	case ViewFormatted:
		return ast.FormatProgram(m.result.AST)
	}
	return ""
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Starting explorer..."
	}

	var b strings.Builder
	b.WriteString(LogoStyle.Render("vera explorer"))
	b.WriteString("  ")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	left := FocusedPanelStyle.Render(m.editor.View())
	right := PanelStyle.Render(m.viewport.View())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	b.WriteString("\n")

	b.WriteString(m.Status())
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("tab: switch view • pgup/pgdn: scroll • esc: quit"))
	return b.String()
}

func (m Model) renderTabs() string {
	tabs := make([]string, 0, viewCount)
	for v := View(0); v < viewCount; v++ {
		if v == m.view {
			tabs = append(tabs, ActiveTabStyle.Render(v.String()))
		} else {
			tabs = append(tabs, TabStyle.Render(v.String()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// Status returns the status line: the first diagnostic line on error,
// token and statement counts otherwise
func (m Model) Status() string {
	switch {
	case m.parsing:
		return HelpStyle.Render("parsing...")
	case m.err != nil:
		first := strings.SplitN(m.plain.Render(m.name, m.source, m.err), "\n", 2)[0]
		return StatusErrorStyle.Render(first)
	case m.result != nil:
		return StatusOKStyle.Render(fmt.Sprintf("ok: %d tokens, %d statements in %s",
			len(m.result.Tokens), m.result.Statements, m.result.Duration))
	}
	return ""
}

// CurrentView returns the active view
func (m Model) CurrentView() View {
	return m.view
}

// Source returns the editor content
func (m Model) Source() string {
	return m.editor.Value()
}

// Err returns the error of the latest completed parse
func (m Model) Err() error {
	return m.err
}

// Result returns the latest successful parse, or nil
func (m Model) Result() *vera.Result {
	return m.result
}

// Run starts the explorer on the alternate screen
func Run(cfg Config) error {
	p := tea.NewProgram(New(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
