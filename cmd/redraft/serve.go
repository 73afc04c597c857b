package main

import (
	"fmt"

	"github.com/redraft-ai/redraft/internal/config"
	"github.com/redraft-ai/redraft/internal/server"
	"github.com/redraft-ai/redraft/service"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// ServeCommand represents the serve command
type ServeCommand struct {
	listenAddr  string
	backendURL  string
	storagePath string
	configFile  string
	initialFile string
}

// NewServeCommand creates a new serve command
func NewServeCommand() *ServeCommand {
	return &ServeCommand{}
}

// CreateCobraCommand creates the cobra command for the review server
func (s *ServeCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the interactive review server",
		Long: `Run the interactive review server.

The server accepts analysis results over HTTP, renders them as an
interactive review page, and relays block rewrites and issue feedback
to the analysis backend. Live rewrite progress streams to the page
over a WebSocket.

Endpoints:
  GET  /review            the review page
  POST /api/analyze-file  install a new analysis result
  POST /rewrite-block     rewrite one block via the AI backend
  POST /api/feedback      record helpful / not-helpful feedback
  GET  /ws                live update stream

Examples:
  # Serve with defaults (loopback only)
  redraft serve

  # Serve a pre-loaded analysis file against a remote backend
  redraft serve --file analysis.json --backend http://10.0.0.5:5000`,
		Args: cobra.NoArgs,
		RunE: s.runServe,
	}

	cmd.Flags().StringVar(&s.listenAddr, "addr", "", "Listen address (default from config)")
	cmd.Flags().StringVar(&s.backendURL, "backend", "", "Analysis backend base URL")
	cmd.Flags().StringVar(&s.storagePath, "storage", "", "SQLite session store path (empty for in-memory)")
	cmd.Flags().StringVarP(&s.configFile, "config", "c", "", "Configuration file path")
	cmd.Flags().StringVar(&s.initialFile, "file", "", "Analysis file to load at startup")

	return cmd
}

// runServe executes the serve command
func (s *ServeCommand) runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(s.configFile)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Command-line flags override the config file when explicitly set
	explicitFlags := make(map[string]bool)
	cmd.Flags().Visit(func(f *pflag.Flag) {
		explicitFlags[f.Name] = true
	})
	tracker := config.NewFlagTrackerWithFlags(explicitFlags)
	cfg.Server.ListenAddr = tracker.MergeString(cfg.Server.ListenAddr, s.listenAddr, "addr")
	cfg.Server.BackendURL = tracker.MergeString(cfg.Server.BackendURL, s.backendURL, "backend")
	cfg.Server.StoragePath = tracker.MergeString(cfg.Server.StoragePath, s.storagePath, "storage")

	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	defer srv.Close()

	if s.initialFile != "" {
		result, err := service.NewAnalysisLoader().Load(s.initialFile)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", s.initialFile, err)
		}
		srv.SetResult(result)
		fmt.Fprintf(cmd.ErrOrStderr(), "Loaded %s\n", s.initialFile)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Review server on http://%s/review (session %s)\n",
		cfg.Server.ListenAddr, srv.SessionID())
	return srv.ListenAndServe()
}

// NewServeCmd creates and returns the serve cobra command
func NewServeCmd() *cobra.Command {
	serveCommand := NewServeCommand()
	return serveCommand.CreateCobraCommand()
}
