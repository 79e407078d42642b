package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/keiri-dev/keiri/internal/httpapi"
)

func newServeCommand(g *globals) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), g, func(a *app) error {
				addr := listen
				if addr == "" {
					addr = a.cfg.Server.Listen
				}

				api := httpapi.New(httpapi.Deps{
					Store:    a.store,
					Builder:  a.builder(),
					Ledger:   a.aggregator(),
					Composer: a.composer(),
					Location: a.loc,
					Logger:   a.logger,
				})
				srv := &http.Server{
					Addr:              addr,
					Handler:           api.Router(),
					ReadHeaderTimeout: 10 * time.Second,
				}

				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()

				errCh := make(chan error, 1)
				go func() {
					a.logger.Info("listening", "addr", addr)
					errCh <- srv.ListenAndServe()
				}()

				select {
				case err := <-errCh:
					if errors.Is(err, http.ErrServerClosed) {
						return nil
					}
					return err
				case <-ctx.Done():
				}

				a.logger.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default: server.listen)")
	return cmd
}
