package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"investcharts/internal/logger"
	"investcharts/internal/server"
	"investcharts/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP chart service",
	Long:  `Serve chart rendering, dashboard generation and stored dashboards over HTTP until SIGINT or SIGTERM.`,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log := logger.Component("main")
	log.Info("Starting investcharts", map[string]interface{}{
		"port":        cfg.Port,
		"environment": cfg.Environment,
		"storage":     cfg.DeploymentMode,
	})

	client, err := storage.NewStorageClient(ctx, cfg)
	if err != nil {
		return err
	}
	srv := server.NewServer(cfg, client)
	defer func() {
		if err := srv.Close(); err != nil {
			log.Warn("Failed to close storage", map[string]interface{}{"error": err.Error()})
		}
	}()

	return srv.Run(ctx)
}
