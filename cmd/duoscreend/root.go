package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	verbose bool
}

func newRootCmd(app *AppContext, flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "duoscreend",
		Short:         "duoscreend orchestrates dual-screen handheld sessions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newAutostartCmd(app))
	cmd.AddCommand(newSchemaCmd())

	return cmd
}
