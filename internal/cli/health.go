package cli

import (
	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := client.Health(cmd.Context())
			if err != nil {
				return err
			}

			status, _ := result["status"].(string)
			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(HealthResult{Status: status})
			return nil
		},
	}
}
