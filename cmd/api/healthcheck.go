package main

import (
	"fmt"
	"time"

	"pet-shop-api/internal/platform/config"
	"pet-shop-api/internal/platform/httpclient"

	"github.com/spf13/cobra"
)

// healthcheck sirve como HEALTHCHECK de contenedor: exit 1 si /health no responde 2xx.
func newHealthcheckCommand() *cobra.Command {
	var (
		target  string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "healthcheck",
		Short: "Consulta GET /health de una instancia",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if target == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				target = "http://localhost" + cfg.Addr()
			}

			c, err := httpclient.New(target, timeout)
			if err != nil {
				return err
			}
			if err := c.Health(cmd.Context()); err != nil {
				return fmt.Errorf("unhealthy: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}

	cmd.Flags().StringVar(&target, "url", "", "URL base (default http://localhost:$PORT)")
	cmd.Flags().DurationVar(&timeout, "timeout", httpclient.DefaultTimeout, "timeout del request")
	return cmd
}
