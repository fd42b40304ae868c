package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-json"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so style helpers can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

// Theme holds every style the pager renders with. Styles are pre-computed
// once at startup instead of per-frame.
type Theme struct {
	// Label overlays by tier: single-key, two-key, longer.
	Tier [3]lipgloss.Style
	// Typed is the already-typed prefix of a partially narrowed label.
	Typed lipgloss.Style

	// Text styles
	Base   lipgloss.Style
	Dimmed lipgloss.Style
	Cursor lipgloss.Style

	// Chrome
	ActiveBorder   lipgloss.Style
	InactiveBorder lipgloss.Style
	TitleActive    lipgloss.Style
	TitleInactive  lipgloss.Style
	StatusBar      lipgloss.Style
	StatusError    lipgloss.Style
	Prompt         lipgloss.Style
}

// DefaultTheme returns the standard theme, adaptive to light and dark
// backgrounds. Tier colors step from hot to cool so the closest targets
// stand out the most.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	var t Theme

	tier0 := lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}
	tier1 := lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}
	tier2 := lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"}
	muted := lipgloss.AdaptiveColor{Light: "#888888", Dark: "#6272A4"}
	accent := lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}

	t.Tier[0] = r.NewStyle().Foreground(tier0).Bold(true)
	t.Tier[1] = r.NewStyle().Foreground(tier1).Bold(true)
	t.Tier[2] = r.NewStyle().Foreground(tier2).Bold(true)
	t.Typed = r.NewStyle().Foreground(muted)

	t.Base = r.NewStyle()
	t.Dimmed = r.NewStyle().Foreground(muted)
	t.Cursor = r.NewStyle().Reverse(true)

	t.ActiveBorder = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent)
	t.InactiveBorder = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(muted)
	t.TitleActive = r.NewStyle().Foreground(accent).Bold(true).Padding(0, 1)
	t.TitleInactive = r.NewStyle().Foreground(muted).Padding(0, 1)
	t.StatusBar = r.NewStyle().Foreground(muted)
	t.StatusError = r.NewStyle().Foreground(tier0)
	t.Prompt = r.NewStyle().Foreground(accent).Bold(true)

	return t
}

// themeFile is the JSON shape of an optional user theme. Every field is a
// hex color; empty fields keep the default.
type themeFile struct {
	Tier0  string `json:"tier0"`
	Tier1  string `json:"tier1"`
	Tier2  string `json:"tier2"`
	Typed  string `json:"typed"`
	Dimmed string `json:"dimmed"`
	Accent string `json:"accent"`
}

// LoadTheme reads a JSON theme file and overlays it onto the default theme.
func LoadTheme(r *lipgloss.Renderer, path string) (Theme, error) {
	t := DefaultTheme(r)

	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("reading theme: %w", err)
	}
	var tf themeFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return t, fmt.Errorf("parsing theme: %w", err)
	}

	if tf.Tier0 != "" {
		t.Tier[0] = r.NewStyle().Foreground(ThemeFg(tf.Tier0)).Bold(true)
	}
	if tf.Tier1 != "" {
		t.Tier[1] = r.NewStyle().Foreground(ThemeFg(tf.Tier1)).Bold(true)
	}
	if tf.Tier2 != "" {
		t.Tier[2] = r.NewStyle().Foreground(ThemeFg(tf.Tier2)).Bold(true)
	}
	if tf.Typed != "" {
		t.Typed = r.NewStyle().Foreground(ThemeFg(tf.Typed))
	}
	if tf.Dimmed != "" {
		t.Dimmed = r.NewStyle().Foreground(ThemeFg(tf.Dimmed))
	}
	if tf.Accent != "" {
		accent := ThemeFg(tf.Accent)
		t.ActiveBorder = r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent)
		t.TitleActive = r.NewStyle().Foreground(accent).Bold(true).Padding(0, 1)
		t.Prompt = r.NewStyle().Foreground(accent).Bold(true)
	}
	return t, nil
}

// TestTheme returns a theme suitable for use in tests.
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}

// LabelStyle picks the overlay style for a tier.
func (t Theme) LabelStyle(tier int) lipgloss.Style {
	if tier < 0 {
		tier = 0
	}
	if tier >= len(t.Tier) {
		tier = len(t.Tier) - 1
	}
	return t.Tier[tier]
}
