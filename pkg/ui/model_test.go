package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/leapkey/pkg/config"
	"github.com/vanderheijden86/leapkey/pkg/jump"
)

func testConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.Keys = "asdf"
	return cfg
}

func testModel(t *testing.T, files ...File) Model {
	t.Helper()
	m := NewModel(testConfig(), TestTheme(), files)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return next.(Model)
}

func key(s string) tea.KeyMsg {
	if len([]rune(s)) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	t := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	return t
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, cmd := m.Update(key(k))
		m = next.(Model)
		// Run any background command synchronously and feed its message
		// back, the way the bubbletea runtime would.
		if cmd != nil {
			if msg := cmd(); msg != nil {
				next, _ = m.Update(msg)
				m = next.(Model)
			}
		}
	}
	return m
}

func demoFile(name string) File {
	return File{Name: name, Lines: []string{
		"package main",
		"",
		"func main() {",
		"\tprintln(greeting)",
		"}",
	}}
}

func TestWordJumpMovesCursor(t *testing.T) {
	m := testModel(t, demoFile("a.go"))

	m = press(t, m, "w")
	p := m.host.activePane()
	if len(p.overlays) == 0 {
		t.Fatal("no overlays after starting a word jump")
	}
	if !p.input {
		t.Fatal("input layer not installed")
	}

	// The cursor sits at 0:0, so the first word is labeled "a" and pressing
	// a different single-key label lands on another word start.
	var target jump.Point
	for _, o := range p.overlays {
		if o.Label == "s" {
			target = o.Point
		}
	}
	m = press(t, m, "s")
	p = m.host.activePane()
	if p.cursor != target {
		t.Fatalf("cursor = %+v, want %+v", p.cursor, target)
	}
	if len(p.overlays) != 0 || p.input {
		t.Fatal("overlays/input layer must be gone after the jump")
	}
}

func TestEscCancelsJump(t *testing.T) {
	m := testModel(t, demoFile("a.go"))
	m = press(t, m, "w", "esc")
	p := m.host.activePane()
	if len(p.overlays) != 0 || p.dim != nil || p.input {
		t.Fatal("esc must tear down the jump")
	}
	if m.ctrl.InputActive() {
		t.Fatal("controller still active after esc")
	}
}

func TestCrossPaneJumpSwitchesFocus(t *testing.T) {
	m := testModel(t, demoFile("a.go"), demoFile("b.go"))
	if m.host.active != 0 {
		t.Fatal("first pane should start focused")
	}

	m = press(t, m, "w")
	second := m.host.panes[1]
	if len(second.overlays) == 0 {
		t.Fatal("cross-pane jump must label the second pane too")
	}

	// Resolve a label owned by the second pane, one key at a time.
	label := second.overlays[0].Label
	target := second.overlays[0].Point
	for _, r := range label {
		m = press(t, m, string(r))
	}
	if m.host.active != 1 {
		t.Fatal("jump into the second pane must switch focus")
	}
	if got := m.host.panes[1].cursor; got != target {
		t.Fatalf("cursor = %+v, want %+v", got, target)
	}
}

func TestNCharJumpSearchesTypedChar(t *testing.T) {
	m := testModel(t, demoFile("a.go"))
	m = press(t, m, "f", "g") // jump to occurrences of "g"
	p := m.host.activePane()
	if len(p.overlays) == 0 {
		t.Fatal("no overlays for the typed character")
	}
	for _, o := range p.overlays {
		line := []rune(p.lines[o.Point.Row])
		if line[o.Point.Col] != 'g' {
			t.Fatalf("overlay at %+v does not sit on a g", o.Point)
		}
	}
}

func TestPatternPromptFlow(t *testing.T) {
	m := testModel(t, demoFile("a.go"))
	m = press(t, m, "/")
	if !m.ctrl.PatternActive() {
		t.Fatal("pattern prompt should be collecting")
	}

	m = press(t, m, "m", "a", "i", "n", "enter")
	p := m.host.activePane()
	if len(p.overlays) != 2 {
		t.Fatalf("%d overlays for /main/, want 2", len(p.overlays))
	}
	if m.ctrl.PatternActive() {
		t.Fatal("prompt must close on enter")
	}
}

func TestClosePaneDropsJumpState(t *testing.T) {
	m := testModel(t, demoFile("a.go"), demoFile("b.go"))
	m = press(t, m, "x")
	if len(m.host.panes) != 1 {
		t.Fatalf("%d panes after close, want 1", len(m.host.panes))
	}
	if m.host.panes[0].title != "b.go" {
		t.Fatalf("remaining pane = %s, want b.go", m.host.panes[0].title)
	}
	// The last pane refuses to close.
	m = press(t, m, "x")
	if len(m.host.panes) != 1 {
		t.Fatal("last pane must not close")
	}
}

func TestCancelAndScrollDuringBackgroundSearch(t *testing.T) {
	lines := make([]string, 200)
	for i := range lines {
		lines[i] = "grep targets on every row"
	}
	m := testModel(t, File{Name: "big.txt", Lines: lines})

	// Dispatch the search but run its command concurrently, the way the
	// bubbletea runtime does, instead of inline.
	m = press(t, m, "f")
	next, cmd := m.Update(key("g"))
	m = next.(Model)
	if cmd == nil {
		t.Fatal("expected a background search command")
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	// Meanwhile the user cancels and keeps scrolling.
	next, _ = m.Update(key("esc"))
	m = next.(Model)
	for i := 0; i < 50; i++ {
		next, _ = m.Update(key("j"))
		m = next.(Model)
	}

	next, _ = m.Update(<-done)
	m = next.(Model)

	if m.ctrl.InputActive() {
		t.Fatal("cancelled search must not reactivate the session")
	}
	p := m.host.activePane()
	if len(p.overlays) != 0 || p.input {
		t.Fatal("stale search result must not leave overlays behind")
	}
	if p.cursor.Row != 50 {
		t.Fatalf("cursor row = %d, want the 50 scrolled rows", p.cursor.Row)
	}
}

func TestScrollAndCloseDuringCrossPaneDiscovery(t *testing.T) {
	lines := make([]string, 200)
	for i := range lines {
		lines[i] = "words words words"
	}
	m := testModel(t, File{Name: "a.txt", Lines: lines}, File{Name: "b.txt", Lines: lines})

	next, cmd := m.Update(key("w"))
	m = next.(Model)
	if cmd == nil {
		t.Fatal("cross-pane discovery must run in the background")
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	next, _ = m.Update(key("esc"))
	m = next.(Model)
	for i := 0; i < 30; i++ {
		next, _ = m.Update(key("j"))
		m = next.(Model)
	}
	// Closing a pane while the discovery join still resolves views.
	next, _ = m.Update(key("x"))
	m = next.(Model)

	next, _ = m.Update(<-done)
	m = next.(Model)

	if m.ctrl.InputActive() {
		t.Fatal("cancelled discovery must stay idle")
	}
	for _, p := range m.host.panes {
		if len(p.overlays) != 0 || p.input {
			t.Fatal("stale discovery must not leave overlays behind")
		}
	}
}

func TestConfigReloadUpdatesAlphabet(t *testing.T) {
	m := testModel(t, demoFile("a.go"))

	cfg := testConfig()
	cfg.Keys = "jk"
	next, _ := m.Update(configReloadedMsg{cfg: cfg})
	m = next.(Model)

	m = press(t, m, "w")
	p := m.host.activePane()
	for _, o := range p.overlays {
		for _, r := range o.Label {
			if r != 'j' && r != 'k' {
				t.Fatalf("label %q uses keys outside the reloaded alphabet", o.Label)
			}
		}
	}
}

func TestInvalidConfigReloadKeepsRunningConfig(t *testing.T) {
	m := testModel(t, demoFile("a.go"))

	bad := testConfig()
	bad.Keys = "a" // below the two-key minimum
	next, _ := m.Update(configReloadedMsg{cfg: bad})
	m = next.(Model)

	if !m.statusErr {
		t.Fatal("invalid reload must surface as an error status")
	}
	if m.cfg.Keys != "asdf" {
		t.Fatalf("running config replaced by invalid one: %q", m.cfg.Keys)
	}

	// The next jump still uses the old alphabet.
	m = press(t, m, "w")
	for _, o := range m.host.activePane().overlays {
		for _, r := range o.Label {
			if r != 'a' && r != 's' && r != 'd' && r != 'f' {
				t.Fatalf("label %q uses keys outside the running alphabet", o.Label)
			}
		}
	}
	// An informational status clears the error state.
	if m.statusErr {
		t.Fatal("starting a jump must clear the error status")
	}
}
