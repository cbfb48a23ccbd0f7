package cli

import (
	"github.com/spf13/cobra"
)

func newRewardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reward",
		Short: "Mystery box and luck bonus commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "box",
		Short: "Open a mystery box",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result RewardResult

			if err := client.Post(cmd.Context(), "/api/v1/rewards/mystery-box", nil, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "luck",
		Short: "Claim the hourly luck bonus",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result BonusResult

			if err := client.Post(cmd.Context(), "/api/v1/rewards/luck-bonus", nil, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	})

	return cmd
}
