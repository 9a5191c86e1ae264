package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/marcus/branchline/internal/app"
	"github.com/marcus/branchline/internal/settings"
)

// Version is set at build time via ldflags
var Version = ""

var (
	repoDir      = flag.String("dir", ".", "git working directory to create branches in")
	settingsDir  = flag.String("settings", "", "settings directory (default ~/.config/branchline)")
	debugFlag    = flag.Bool("debug", false, "enable debug logging")
	versionFlag  = flag.Bool("version", false, "print version and exit")
	shortVersion = flag.Bool("v", false, "print version and exit (short)")
)

func main() {
	flag.Parse()

	if *versionFlag || *shortVersion {
		fmt.Printf("branchline version %s\n", effectiveVersion(Version))
		os.Exit(0)
	}

	// Setup logging
	logLevel := slog.LevelInfo
	if *debugFlag {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	// A .env in the working directory may carry connection defaults.
	_ = godotenv.Load()

	store, err := openStore(*settingsDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load settings: %v\n", err)
		os.Exit(1)
	}
	seedConnectionFromEnv(store, logger)

	workDir, err := filepath.Abs(*repoDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to resolve working directory: %v\n", err)
		os.Exit(1)
	}

	model := app.New(store, workDir, logger)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}
}

func openStore(dir string) (*settings.Store, error) {
	if dir != "" {
		return settings.OpenDir(dir)
	}
	return settings.Open()
}

// seedConnectionFromEnv fills an empty store from BRANCHLINE_URL and
// BRANCHLINE_TOKEN so a fresh checkout with a .env works without the
// settings form.
func seedConnectionFromEnv(store *settings.Store, logger *slog.Logger) {
	if url, _ := store.Connection(); url != "" {
		return
	}
	url := os.Getenv("BRANCHLINE_URL")
	token := os.Getenv("BRANCHLINE_TOKEN")
	if url == "" || token == "" {
		return
	}
	if err := store.SetConnection(url, token); err != nil {
		logger.Warn("seeding connection from environment failed", "err", err)
	}
}

// effectiveVersion returns the version string, with fallback to build info.
func effectiveVersion(v string) string {
	if v != "" {
		return v
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	var revision string
	var dirty bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if revision != "" {
		ver := "devel+" + revision
		if len(ver) > 20 {
			ver = ver[:20]
		}
		if dirty {
			ver += "+dirty"
		}
		return ver
	}
	return "devel"
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: branchline [options]\n\n")
		fmt.Fprintf(os.Stderr, "A TUI for browsing tracker tickets and creating git branches from them.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
}
