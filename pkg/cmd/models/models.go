package models

import (
	"github.com/spf13/cobra"
)

func NewModelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "commands for stored degradation models",
	}

	cmd.AddCommand(NewModelsShowCmd())
	cmd.AddCommand(NewModelsDeleteCmd())

	return cmd
}
