package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/SaxonF/supawatch/internal/ui"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Port  int
	Watch bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the browsing server",
		Long: `Start a local server providing the sidebar and browsing API.

The server resolves every group's population strategy on demand, streams
change signals to connected clients, and re-imports the project's template
document when it changes on disk.`,
		Example: `  # Start on default port
  supawatch serve

  # Start on custom port without the specs watcher
  supawatch serve --port 3000 --watch=false`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 8765)")
	cmd.Flags().BoolVar(&opts.Watch, "watch", true, "Watch the specs directory for changes")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cfg := GetConfig(cmd.Context())
	logger := GetLogger(cmd.Context())

	serverCfg := cfg.GetServer()
	port := serverCfg.Port
	if opts.Port != 0 {
		port = opts.Port
	}
	watch := serverCfg.Watch
	if cmd.Flags().Changed("watch") {
		watch = opts.Watch
	}

	svc, cleanup, err := newService(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	server := ui.NewServer(ui.Config{
		Admin:         svc,
		Port:          port,
		Watch:         watch,
		SpecsDir:      cfg.SpecsDir,
		SessionSecret: sessionSecret(serverCfg.SessionSecret),
		Logger:        logger,
	})

	fmt.Printf("Starting server on http://localhost:%d\n", port)
	fmt.Println("Press Ctrl+C to stop")

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	return server.Serve(ctx)
}

// sessionSecret resolves the cookie-signing secret. In production this
// should come from config or the environment.
func sessionSecret(configured string) string {
	if configured != "" {
		return configured
	}
	if secret := os.Getenv("SUPAWATCH_SESSION_SECRET"); secret != "" {
		return secret
	}
	// Default secret for development
	return "supawatch-dev-secret-change-in-production" //nolint:gosec
}
