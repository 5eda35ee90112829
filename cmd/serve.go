package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bnema/sentra-emo/internal/adapters/httpapi"
)

func newServeCmd(loader *appLoader) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loader.load()
			if err != nil {
				return err
			}

			settings := app.settings
			if cmd.Flags().Changed("host") {
				settings.Host = host
			}
			if cmd.Flags().Changed("port") {
				settings.Port = port
			}
			if err := settings.Validate(); err != nil {
				return err
			}

			if app.pool != nil {
				if err := app.pool.Validate(cmd.Context()); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			server := httpapi.NewServer(httpapi.Deps{
				Analyzer:  app.analyze,
				Users:     app.tracker,
				Analytics: app.analytics,
				Sources:   app.sources,
				Logger:    app.logger.Named("http"),
			})

			app.logger.Info("starting sentra",
				zap.String("addr", settings.Addr()),
				zap.String("backend", string(settings.Backend)),
				zap.String("store_dir", settings.StoreDir),
			)
			if err := server.ListenAndServe(ctx, settings.Addr()); err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "listen host (overrides APP_HOST)")
	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides APP_PORT)")

	return cmd
}
