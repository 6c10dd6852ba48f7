package report

import (
	"github.com/spf13/cobra"
)

func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "commands for stored validation runs",
	}

	cmd.AddCommand(NewReportShowCmd())
	cmd.AddCommand(NewReportDeleteCmd())

	return cmd
}
