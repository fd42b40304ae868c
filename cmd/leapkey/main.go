package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/vanderheijden86/leapkey/pkg/config"
	"github.com/vanderheijden86/leapkey/pkg/debug"
	"github.com/vanderheijden86/leapkey/pkg/ui"
	"github.com/vanderheijden86/leapkey/pkg/version"
)

func main() {
	configPath := flag.String("config", "", "Config file path (default: XDG config dir)")
	themePath := flag.String("theme", "", "JSON theme file (overrides config)")
	keys := flag.String("keys", "", "Label alphabet (overrides config)")
	noDim := flag.Bool("no-dim", false, "Do not dim text while labels are shown")
	noWatch := flag.Bool("no-watch", false, "Do not reload the config on change")
	versionFlag := flag.Bool("version", false, "Show version")
	help := flag.Bool("help", false, "Show help")
	flag.Parse()

	if *help {
		fmt.Println("Usage: leapkey [options] [file [file]]")
		fmt.Println("\nA split-pane pager with label-jump navigation.")
		fmt.Println("Press w to jump to a word, l to a row, f then a character,")
		fmt.Println("/ for a pattern. Type the label shown at a target to land on it.")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("leapkey %s\n", version.Version)
		os.Exit(0)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "leapkey needs a terminal")
		os.Exit(1)
	}

	path := *configPath
	if path == "" {
		path = config.ConfigPath()
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "leapkey: %v\n", err)
		os.Exit(1)
	}
	if *keys != "" {
		cfg.Keys = *keys
	}
	if *noDim {
		dim := false
		cfg.Dim = &dim
	}
	if *themePath != "" {
		cfg.Theme = *themePath
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "leapkey: %v\n", err)
		os.Exit(1)
	}

	renderer := lipgloss.NewRenderer(os.Stdout)
	theme := ui.DefaultTheme(renderer)
	if cfg.Theme != "" {
		theme, err = ui.LoadTheme(renderer, cfg.Theme)
		if err != nil {
			fmt.Fprintf(os.Stderr, "leapkey: %v\n", err)
			os.Exit(1)
		}
	}

	files, err := loadFiles(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "leapkey: %v\n", err)
		os.Exit(1)
	}

	m := ui.NewModel(cfg, theme, files)

	if !*noWatch && path != "" {
		w, err := config.NewWatcher(path)
		if err != nil {
			debug.Log("config watch unavailable: %v", err)
		} else if err := w.Start(); err != nil {
			debug.Log("config watch failed to start: %v", err)
			w.Close()
		} else {
			defer w.Close()
			m = m.SetWatcher(w)
		}
	}

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "leapkey: %v\n", err)
		os.Exit(1)
	}
}

// loadFiles reads up to two files into panes; with no arguments the pager
// opens a built-in tour so the bindings can be tried immediately.
func loadFiles(args []string) ([]ui.File, error) {
	if len(args) == 0 {
		return []ui.File{demoFile()}, nil
	}
	if len(args) > 2 {
		return nil, fmt.Errorf("at most two files, got %d", len(args))
	}
	files := make([]ui.File, 0, len(args))
	for _, arg := range args {
		data, err := os.ReadFile(arg)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", arg, err)
		}
		lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
		files = append(files, ui.File{Name: filepath.Base(arg), Lines: lines})
	}
	return files, nil
}

func demoFile() ui.File {
	return ui.File{
		Name: "tour",
		Lines: []string{
			"leapkey tour",
			"",
			"Every jump shows short labels at the possible targets.",
			"Type a label to land on it; escape cancels.",
			"",
			"  w   jump to a word start",
			"  W   jump to a whitespace-delimited word",
			"  c   jump to a subword (camelCase humps too)",
			"  e   jump to a word after the cursor",
			"  b   jump to a word before the cursor",
			"  l   jump to a row",
			"  f   jump to a typed character",
			"  t   jump to a typed pair of characters",
			"  /   jump to a pattern match",
			"",
			"  tab switch pane    x close pane    q quit",
			"",
			"Open two files to jump across panes with one label set.",
		},
	}
}
