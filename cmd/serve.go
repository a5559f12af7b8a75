package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kozaktomas/face-gate/internal/config"
	"github.com/kozaktomas/face-gate/internal/enroll"
	"github.com/kozaktomas/face-gate/internal/match"
	"github.com/kozaktomas/face-gate/internal/web"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the identification gateway",
	Long: `Start the Face Gate HTTP server.
The server exposes enrollment, face search, and analyze-and-identify
endpoints backed by the configured recognition service.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "Port to listen on (overrides WEB_PORT)")
	serveCmd.Flags().String("host", "", "Host to bind to (overrides WEB_HOST)")
}

// resolveServeHostPort resolves host and port, flags winning over env vars.
func resolveServeHostPort(cmd *cobra.Command, cfg *config.Config) {
	if port := mustGetInt(cmd, "port"); port != 0 {
		cfg.Server.Port = port
	}
	if host := mustGetString(cmd, "host"); host != "" {
		cfg.Server.Host = host
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	resolveServeHostPort(cmd, cfg)

	st, err := openStore(cfg)
	if err != nil {
		return err
	}

	client, err := newRecognizerClient(cfg)
	if err != nil {
		return err
	}

	analyzer, err := newAnalyzer(cmd.Context(), cfg, client)
	if err != nil {
		return err
	}

	engine := match.NewEngine(st, client)
	manager := enroll.NewManager(st)
	server := web.NewServer(cfg, engine, analyzer, manager, st)

	fmt.Printf("Reference store: %s\n", st.Dir())
	fmt.Printf("Recognition model: %s (analyzer: %s)\n", client.Model(), analyzer.Name())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
	}()

	fmt.Printf("Starting Face Gate on http://%s:%d\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
