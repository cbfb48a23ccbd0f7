package cli

import (
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

func newLeaderboardCmd() *cobra.Command {
	var (
		category string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show a leaderboard",
		Long:  "Show a leaderboard. Categories: crystals, cps, clicks, buildings, rebirth, luck.",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			query.Set("category", category)
			if limit > 0 {
				query.Set("limit", strconv.Itoa(limit))
			}

			var result Leaderboard
			if err := client.Get(cmd.Context(), "/api/v1/leaderboard?"+query.Encode(), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "crystals", "Leaderboard category")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Number of entries (server default 10, max 100)")

	return cmd
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show global statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result StatsResult

			if err := client.Get(cmd.Context(), "/api/v1/stats", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}
