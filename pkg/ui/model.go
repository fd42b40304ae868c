package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/leapkey/pkg/config"
	"github.com/vanderheijden86/leapkey/pkg/jump"
)

// File is one document shown in its own pane.
type File struct {
	Name  string
	Lines []string
}

// configReloadedMsg carries a config re-read triggered by an on-disk edit.
type configReloadedMsg struct {
	cfg config.Config
}

// Model is the split-pane pager hosting the jump controller. It follows the
// usual bubbletea shape: a value type whose Update returns the next model.
type Model struct {
	theme Theme
	host  *host
	ctrl  *jump.Controller

	cfg     config.Config
	watcher *config.Watcher

	pattern textinput.Model

	width  int
	height int
	ready  bool

	status    string
	statusErr bool
}

// NewModel builds the pager with one pane per file.
func NewModel(cfg config.Config, theme Theme, files []File) Model {
	h := &host{}
	for i, f := range files {
		h.panes = append(h.panes, newPane(jump.ViewID(i+1), f.Name, f.Lines))
	}

	ti := textinput.New()
	ti.Prompt = "/"
	ti.PromptStyle = theme.Prompt
	ti.Placeholder = "pattern"
	ti.CharLimit = 128

	return Model{
		theme:   theme,
		host:    h,
		ctrl:    jump.NewController(jumpConfig(cfg), h, h, h),
		cfg:     cfg,
		pattern: ti,
	}
}

// SetWatcher attaches a config watcher; its reloads are picked up by Init.
func (m Model) SetWatcher(w *config.Watcher) Model {
	m.watcher = w
	return m
}

func jumpConfig(cfg config.Config) jump.Config {
	return jump.Config{Keys: cfg.Alphabet(), Dim: cfg.Dimming()}
}

func (m Model) Init() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	return watchConfigCmd(m.watcher)
}

// watchConfigCmd waits for the next config reload. Re-armed after every
// delivery so edits keep flowing in.
func watchConfigCmd(w *config.Watcher) tea.Cmd {
	return func() tea.Msg {
		cfg, ok := <-w.Changed()
		if !ok {
			return nil
		}
		return configReloadedMsg{cfg: cfg}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Background search completions go straight to the controller.
	if m.ctrl.Update(msg) {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case configReloadedMsg:
		if err := msg.cfg.Validate(); err != nil {
			// Keep the running config; show what is wrong with the edit.
			m.status = err.Error()
			m.statusErr = true
		} else {
			m.cfg = msg.cfg
			m.ctrl.SetConfig(jumpConfig(msg.cfg))
			m.setStatus("config reloaded")
		}
		if m.watcher == nil {
			return m, nil
		}
		return m, watchConfigCmd(m.watcher)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return m, tea.Quit
	}

	// The pattern prompt owns keys while a query is being collected.
	if m.ctrl.PatternActive() {
		switch key {
		case "esc":
			m.ctrl.Cancel()
			m.pattern.Blur()
			m.pattern.SetValue("")
			return m, nil
		case "enter":
			cmd := m.ctrl.PatternSubmit(m.pattern.Value())
			m.pattern.Blur()
			m.pattern.SetValue("")
			return m, cmd
		}
		var cmd tea.Cmd
		m.pattern, cmd = m.pattern.Update(msg)
		return m, cmd
	}

	// An in-progress jump shadows the pager's own bindings.
	if m.ctrl.InputActive() {
		if key == "esc" {
			m.ctrl.Cancel()
			return m, nil
		}
		if handled, cmd := m.ctrl.HandleKey(key); handled {
			return m, cmd
		}
		return m, nil
	}

	p := m.host.activePane()
	switch key {
	case "q":
		return m, tea.Quit

	case "tab":
		if len(m.host.panes) > 0 {
			m.host.active = (m.host.active + 1) % len(m.host.panes)
		}

	case "w":
		m.setStatus("jump: word")
		return m, m.ctrl.Word(jump.WholeWord, jump.BiDirectional)
	case "W":
		m.setStatus("jump: full word")
		return m, m.ctrl.Word(jump.FullWord, jump.BiDirectional)
	case "c":
		m.setStatus("jump: subword")
		return m, m.ctrl.Word(jump.SubWord, jump.BiDirectional)
	case "e":
		m.setStatus("jump: word forward")
		return m, m.ctrl.Word(jump.WholeWord, jump.Forwards)
	case "b":
		m.setStatus("jump: word backward")
		return m, m.ctrl.Word(jump.WholeWord, jump.Backwards)
	case "l":
		m.setStatus("jump: row")
		return m, m.ctrl.Row(jump.BiDirectional)

	case "f":
		m.setStatus("jump: type 1 char")
		m.ctrl.NChar(jump.BiDirectional, 1)
	case "t":
		m.setStatus("jump: type 2 chars")
		m.ctrl.NChar(jump.BiDirectional, 2)

	case "/":
		m.setStatus("jump: pattern")
		m.ctrl.Pattern(jump.BiDirectional)
		m.pattern.Focus()

	case "x":
		if p != nil && m.host.closePane(p.id) {
			m.ctrl.ViewClosed(p.id)
			m.layout()
		}

	case "j", "down":
		if p != nil {
			p.moveCursor(1)
		}
	case "k", "up":
		if p != nil {
			p.moveCursor(-1)
		}
	case "ctrl+d":
		if p != nil {
			p.moveCursor(p.height / 2)
		}
	case "ctrl+u":
		if p != nil {
			p.moveCursor(-p.height / 2)
		}
	case "g":
		if p != nil {
			p.moveCursorTo(jump.Point{})
		}
	case "G":
		if p != nil {
			p.moveCursorTo(jump.Point{Row: len(p.lines) - 1})
		}
	}

	return m, nil
}

// setStatus shows an informational status line, clearing any error state.
func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

// layout distributes the window across panes: each pane gets an equal share
// of the width minus its border, one status line at the bottom.
func (m *Model) layout() {
	n := len(m.host.panes)
	if n == 0 || m.width <= 0 {
		return
	}
	// 2 cells/rows of border per pane, 1 title row, 1 status row.
	paneW := m.width/n - 2
	paneH := m.height - 4
	if paneW < 1 {
		paneW = 1
	}
	if paneH < 1 {
		paneH = 1
	}
	x := 0
	for _, p := range m.host.panes {
		p.resize(paneW, paneH, x+1)
		x += paneW + 2
	}
}

func (m Model) View() string {
	if !m.ready {
		return ""
	}

	cols := make([]string, 0, len(m.host.panes))
	for i, p := range m.host.panes {
		active := i == m.host.active
		border := m.theme.InactiveBorder
		title := m.theme.TitleInactive.Render(p.title)
		if active {
			border = m.theme.ActiveBorder
			title = m.theme.TitleActive.Render(p.title)
		}
		body := border.Width(p.width).Height(p.height).Render(p.render(m.theme, active))
		cols = append(cols, lipgloss.JoinVertical(lipgloss.Left, title, body))
	}

	view := lipgloss.JoinHorizontal(lipgloss.Top, cols...)
	return lipgloss.JoinVertical(lipgloss.Left, view, m.statusLine())
}

func (m Model) statusLine() string {
	if m.ctrl.PatternActive() {
		return m.pattern.View()
	}
	if m.status != "" {
		if m.statusErr {
			return m.theme.StatusError.Render(m.status)
		}
		return m.theme.StatusBar.Render(m.status)
	}
	p := m.host.activePane()
	if p == nil {
		return ""
	}
	pos := fmt.Sprintf("%s %d:%d  w/W/c word  l row  f/t char  / pattern  q quit",
		p.title, p.cursor.Row+1, p.cursor.Col+1)
	return m.theme.StatusBar.Render(pos)
}
