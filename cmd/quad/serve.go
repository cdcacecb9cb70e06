package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/quad/internal/app"
	"github.com/vovakirdan/quad/internal/platform/tui"
	"github.com/vovakirdan/quad/internal/storage"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH server",
	Long: `Start an SSH server that runs a separate loop for every connection.

Each session gets its own scheduler, command queue and quad, sized to
the window settings of the loaded config. Runs are recorded in the
shared stats database.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.quad/host_key

Examples:
  quad serve                           # Listen on :23234 with auto-generated key
  quad serve --ssh :2222               # Listen on port 2222
  quad serve --host-key ./my_host_key  # Use specific host key
  quad serve --fps 30                  # Lower the rate for every session

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// The server has no alternate screen of its own, so it logs to stderr.
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          appName + "-ssh",
	})
	if err := setLevel(logger, flagLogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var store *storage.Store
	if cfg.StatsDB != "" {
		store, err = storage.Open(cfg.StatsDB)
		if err != nil {
			logger.Warn("could not open stats database", "error", err)
			// Continue without history
			store = nil
		}
	}

	session := func(w *tui.Window, user string) error {
		opts := []app.Option{
			app.WithLogger(logger.With("user", user)),
			app.WithBackend("ssh"),
		}
		if store != nil {
			opts = append(opts, app.WithHistory(store))
		}
		return app.NewSession(cfg, w, opts...).Run()
	}

	serverCfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		Title:       appName,
	}

	server, err := tui.NewSSHServer(serverCfg, session, logger)
	if err != nil {
		if store != nil {
			store.Close()
		}
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting quad SSH server on %s\n", serverCfg.Address)
	fmt.Println("Connect with: ssh localhost -p 23234")
	fmt.Println("Press Ctrl+C to stop")

	serveErr := server.ListenAndServe()
	if store != nil {
		store.Close()
	}
	if serveErr != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", serveErr)
		os.Exit(1)
	}
}
