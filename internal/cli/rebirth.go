package cli

import (
	"github.com/spf13/cobra"
)

func newRebirthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rebirth",
		Short: "Rebirth commands",
	}

	cmd.AddCommand(newRebirthDoCmd())
	cmd.AddCommand(newRebirthUpgradeCmd())

	return cmd
}

func newRebirthDoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "do",
		Short: "Reset your run for rebirth points",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result RebirthResult

			if err := client.Post(cmd.Context(), "/api/v1/rebirth", nil, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newRebirthUpgradeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "upgrade <click|production|points>",
		Short:     "Spend rebirth points on a permanent bonus",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"click", "production", "points"},
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"kind": args[0]}
			var result UpgradeResult

			if err := client.Post(cmd.Context(), "/api/v1/rebirth/upgrades", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}
