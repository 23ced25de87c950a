package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/collab-arena/arena/internal/logging"
	"github.com/collab-arena/arena/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the debate HTTP server",
	Long: `Start the HTTP server: a server-sent events endpoint that streams
live debates and a JSON endpoint that synthesizes conclusions from
client-held transcripts.

The config file is watched for changes; edits to backend filters,
token budgets and timeouts apply to new requests without a restart.
Credentials are read from the environment (PERPLEXITY_API_KEY,
OPENROUTER_API_KEY) or a local .env file.`,
	RunE: runServe,
}

var servePort int

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Listen port (overrides server.port)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if servePort != 0 {
		viper.Set("server.port", servePort)
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logging.NewLogger(cfg.Logging.Dir, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer func() { _ = log.Close() }()

	srv, err := server.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to build server: %w", err)
	}

	// Rebuild the server's engine when the config file changes.
	// In-flight streams keep the settings they started with.
	viper.OnConfigChange(func(e fsnotify.Event) {
		fresh, err := loadConfig()
		if err != nil {
			log.Warn("config change ignored", "file", e.Name, "error", err.Error())
			return
		}
		if err := srv.Reload(fresh); err != nil {
			log.Warn("config change ignored", "file", e.Name, "error", err.Error())
			return
		}
		log.Info("config reloaded", "file", e.Name)
	})
	viper.WatchConfig()

	// Serve until interrupted.
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Listen() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Info("shutting down", "signal", sig.String())
		fmt.Println("\nShutting down...")
		return srv.Shutdown()
	}
}
