package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ayusman/sareefit/internal/logging"
	"github.com/ayusman/sareefit/internal/server"
	"github.com/ayusman/sareefit/internal/store"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and WebSocket API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = cfg.Addr
			}

			if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
				return fmt.Errorf("create data directory: %w", err)
			}

			st, err := store.New(cfg.DatabasePath())
			if err != nil {
				return fmt.Errorf("initialize store: %w", err)
			}
			defer st.Close()

			a, err := newApp(appOptions{store: st, detector: true})
			if err != nil {
				return err
			}
			defer a.Close()

			if cfg.WebDir != "" {
				logger.WithField("dir", cfg.WebDir).Info("Serving static files")
			}

			srv := server.New(server.Config{
				StaticDir: cfg.WebDir,
				App:       a,
				Store:     st,
				Logger:    logger,
			})

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.ListenAndServe(addr)
			}()

			logger.WithFields(logging.Fields{
				"addr":     addr,
				"database": st.Path(),
			}).Info("Server started")

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			select {
			case err := <-errCh:
				return err
			case <-sigCh:
			}

			logger.Info("Shutting down server...")
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			return <-errCh
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from SAREEFIT_ADDR or :8080)")
	return cmd
}
