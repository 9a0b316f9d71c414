package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/incident-rag/internal/db"
	"github.com/ziadkadry99/incident-rag/internal/history"
	"github.com/ziadkadry99/incident-rag/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  `Starts an HTTP server exposing the query and incident analysis endpoints, plus a health check at /healthz.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		logger, err := newLogger()
		if err != nil {
			return err
		}
		defer logger.Sync()

		a, client, err := createAnalyzer(ctx, cfg, logger)
		if err != nil {
			return err
		}

		var store *history.Store
		if cfg.HistoryPath != "" {
			database, err := db.Open(cfg.HistoryPath)
			if err != nil {
				return fmt.Errorf("opening history database: %w", err)
			}
			defer database.Close()
			store = history.NewStore(database)
		}

		srv := server.New(server.Config{
			Port:                    cfg.Server.Port,
			AllowAll:                cfg.Server.AllowAll,
			KnowledgeBaseConfigured: cfg.KnowledgeBaseID != "",
			S3BucketConfigured:      cfg.S3Bucket != "",
			ModelID:                 cfg.ModelID,
			Region:                  cfg.Region,
		}, client, a, store, logger)

		errCh := make(chan error, 1)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case <-stop:
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
