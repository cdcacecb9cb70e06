// quad opens a terminal window and moves a red quad with the arrow keys,
// redrawing it at a fixed frame rate.
//
// Usage:
//
//	quad                 - Run the loop (same as quad run)
//	quad run             - Run the loop
//	quad stats           - Show recent runs and their measured frame rates
//	quad serve           - Start SSH server, one loop per session
//
// Global flags:
//
//	--config <path>      - Config file (default: search ~/.quad/config.yaml, ./config.yml)
//	-W, --width <px>     - Override window width
//	-H, --height <px>    - Override window height
//	--fps <rate>         - Override target frame rate
//	--db <path>          - Stats database path (default: ~/.quad/stats.db)
//	--log <path>         - Write logs to a file
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/quad/internal/config"
)

const appName = "quad"

var (
	// Global flags
	flagConfig   string
	flagWidth    int
	flagHeight   int
	flagFPS      float64
	flagDBPath   string
	flagLogPath  string
	flagLogLevel string

	// Loop flags, shared by the root and run commands
	flagBackend string
	flagPolicy  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "quad - a fixed-rate render loop in your terminal",
	Long: `quad draws a red quad and moves it with the arrow keys, one step per
frame, at a fixed frame rate. Esc quits.

Available commands:
  run      - Run the loop (default)
  stats    - Show recent runs
  serve    - Start SSH server for remote sessions

Examples:
  quad
  quad --fps 30 -W 800 -H 600
  quad run --backend tcell --policy fifo
  quad stats --limit 5
  quad serve --ssh :2222`,
	Run: runLoop,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().IntVarP(&flagWidth, "width", "W", 0, "Window width in pixels (overrides config)")
	rootCmd.PersistentFlags().IntVarP(&flagHeight, "height", "H", 0, "Window height in pixels (overrides config)")
	rootCmd.PersistentFlags().Float64Var(&flagFPS, "fps", 0, "Target frame rate (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to stats database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogPath, "log", "", "Write logs to this file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	addLoopFlags(rootCmd)

	// Add subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(serveCmd)
}

// addLoopFlags registers the flags that pick how the loop runs.
func addLoopFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagBackend, "backend", "", "Window backend: tea, tcell (overrides config)")
	cmd.Flags().StringVar(&flagPolicy, "policy", "", "Command queue policy: lifo, fifo (overrides config)")
}

// loadConfig loads the config file and applies command line overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}

	cfg = config.Overrides{
		Width:     flagWidth,
		Height:    flagHeight,
		FrameRate: flagFPS,
		Policy:    flagPolicy,
		Backend:   flagBackend,
		StatsDB:   flagDBPath,
	}.Apply(cfg)

	return cfg, cfg.Validate()
}

// newLogger writes to the --log file, or nowhere when it is unset.
// The returned function closes the file.
func newLogger(path, level string) (*log.Logger, func(), error) {
	var out io.Writer = io.Discard
	closeFn := func() {}

	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", err)
		}
		out = f
		closeFn = func() { f.Close() }
	}

	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          appName,
	})
	if err := setLevel(logger, level); err != nil {
		closeFn()
		return nil, nil, err
	}
	return logger, closeFn, nil
}

func setLevel(logger *log.Logger, level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", level, err)
	}
	logger.SetLevel(lvl)
	return nil
}
