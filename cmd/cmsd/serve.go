package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	var address string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the public site and the admin API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			module, err := opts.module(ctx)
			if err != nil {
				return err
			}
			defer module.Close()

			handler, err := module.Handler()
			if err != nil {
				return err
			}
			cfg := module.Config().HTTP
			if address != "" {
				cfg.Address = address
			}
			server := &http.Server{
				Addr:              cfg.Address,
				Handler:           handler,
				ReadTimeout:       cfg.ReadTimeout,
				ReadHeaderTimeout: cfg.ReadTimeout,
				WriteTimeout:      cfg.WriteTimeout,
			}

			logger := module.Logger()
			errCh := make(chan error, 1)
			go func() {
				logger.Info("cmsd.serve.listening", "address", cfg.Address, "admin_prefix", cfg.AdminPrefix)
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			logger.Info("cmsd.serve.shutdown")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&address, "address", "", "listen address, overrides http.address")
	return cmd
}
