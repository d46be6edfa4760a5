package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const modulePath = "github.com/2389/maze-gateway"

func newVersionCmd(svc Service) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the " + svc.Name + " version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\nmodule: %s\n", svc.Name, svc.Version, modulePath)
			return nil
		},
	}
}
