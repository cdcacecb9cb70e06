package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/quad/internal/app"
	"github.com/vovakirdan/quad/internal/audio"
	"github.com/vovakirdan/quad/internal/config"
	"github.com/vovakirdan/quad/internal/platform/console"
	"github.com/vovakirdan/quad/internal/platform/tui"
	"github.com/vovakirdan/quad/internal/storage"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the loop",
	Long: `Open the window and run the loop until Esc is pressed.

Controls:
  Arrows     - Move the quad one step
  Esc        - Quit

Queue policies:
  lifo   - The most recent command is applied first (default)
  fifo   - Commands are applied in the order they were typed

Examples:
  quad run
  quad run --fps 144
  quad run --backend tcell
  quad run --policy fifo --config ./config.yml`,
	Args: cobra.NoArgs,
	Run:  runLoop,
}

func init() {
	addLoopFlags(runCmd)
}

func runLoop(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := newLogger(flagLogPath, flagLogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts := []app.Option{app.WithLogger(logger)}

	// Open run history; an empty stats_db disables it
	var store *storage.Store
	if cfg.StatsDB != "" {
		store, err = storage.Open(cfg.StatsDB)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not open stats database: %v\n", err)
			// Continue without history - the loop still works
			store = nil
		}
	}
	if store != nil {
		opts = append(opts, app.WithHistory(store))
	}

	var cue *audio.Cue
	if cfg.Sound {
		cue = audio.New(logger)
		opts = append(opts, app.WithCue(cue))
	}

	var runErr error
	switch cfg.Backend {
	case config.BackendTcell:
		runErr = runTcell(cfg, opts)
	default:
		runErr = runTea(cfg, opts)
	}

	// Release resources before potential exit
	if cue != nil {
		cue.Close()
	}
	if store != nil {
		store.Close()
	}
	closeLog()

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
}

// runTea runs the loop on this goroutine while Bubble Tea owns the terminal.
func runTea(cfg config.Config, opts []app.Option) error {
	cols, rows := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		cols = w
		rows = h
	}

	win := tui.NewWindow(appName, cols, rows)
	p := tea.NewProgram(win.Model(), tea.WithAltScreen())

	progDone := make(chan error, 1)
	go func() {
		_, err := p.Run()
		win.Close()
		progDone <- err
	}()

	loopErr := app.NewSession(cfg, win, opts...).Run()
	win.Close()

	if progErr := <-progDone; progErr != nil {
		return fmt.Errorf("terminal: %w", progErr)
	}
	return loopErr
}

// runTcell runs the loop straight on a tcell screen.
func runTcell(cfg config.Config, opts []app.Option) error {
	win, err := console.NewWindow(appName)
	if err != nil {
		return err
	}

	loopErr := app.NewSession(cfg, win, opts...).Run()
	win.Close()
	return loopErr
}
