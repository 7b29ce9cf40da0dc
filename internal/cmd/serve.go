package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/renato0307/idevman/internal/logging"
	"github.com/renato0307/idevman/internal/paths"
	"github.com/renato0307/idevman/internal/server"
)

// ServeCmd serves the dashboard over SSH
type ServeCmd struct {
	Host string `help:"Host to bind to (overrides settings.json)"`
	Port string `help:"Port to listen on (overrides settings.json)"`
}

// Run executes the serve command
func (s *ServeCmd) Run(cli *CLI) error {
	rt := cli.Container.Runtime()
	host, port := rt.SSHHost, rt.SSHPort
	if s.Host != "" {
		host = s.Host
	}
	if s.Port != "" {
		port = s.Port
	}

	logging.Logger.Info("Starting idevman SSH server",
		"host", host,
		"port", port,
		"db_path", rt.DBPath)

	srv, err := server.NewServer(host, port, paths.GetSSHDir(), cli.Container.SessionService, cli.Container.Bus)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	// Sessions come and go; the poll loop runs for the lifetime of the server
	cli.Container.StartMonitor()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Start(ctx)
}
