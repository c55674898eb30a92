package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// @title Pet Shop API
// @version 1.0
// @description API de la veterinaria: attendants, clientes y mascotas.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer <token>
func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "pet-shop-api",
		Short:         "Backend de la veterinaria (attendants, clientes y mascotas)",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	root.AddCommand(
		newServeCommand(),
		newMigrateCommand(),
		newHealthcheckCommand(),
	)
	return root
}
