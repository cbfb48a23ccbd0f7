package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Load and save progress",
	}

	cmd.AddCommand(newGameLoadCmd())
	cmd.AddCommand(newGameSaveCmd())

	return cmd
}

func newGameLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "Show the saved game state",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameState

			if err := client.Get(cmd.Context(), "/api/v1/game", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newGameSaveCmd() *cobra.Command {
	var (
		file      string
		producers []string

		currency, lifetime, clickPower, clickPrice, clicks int64
	)

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save game state",
		Long: `Save game state from a JSON file, or by overriding fields of the
current saved state with flags.

Producers are given as name=count or name=count:price, for example
--producer autoclicker=10:25 --producer mine=1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var req SaveRequest

			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return err
				}
				if err := json.Unmarshal(data, &req); err != nil {
					return fmt.Errorf("invalid save file: %w", err)
				}
			} else {
				var current GameState
				if err := client.Get(cmd.Context(), "/api/v1/game", &current); err != nil {
					return err
				}
				req = saveRequestFromState(current)
			}

			flags := cmd.Flags()
			if flags.Changed("currency") {
				req.Currency = currency
			}
			if flags.Changed("lifetime") {
				req.LifetimeCurrency = lifetime
			} else if req.LifetimeCurrency < req.Currency {
				req.LifetimeCurrency = req.Currency
			}
			if flags.Changed("click-power") {
				req.ClickPower = clickPower
			}
			if flags.Changed("click-power-price") {
				req.ClickPowerPrice = clickPrice
			}
			if flags.Changed("clicks") {
				req.TotalClicks = clicks
			}
			if req.Producers == nil {
				req.Producers = make(map[string]Producer)
			}
			for _, spec := range producers {
				name, count, price, err := parseProducer(spec)
				if err != nil {
					return err
				}
				p := req.Producers[name]
				p.Count = count
				if price >= 0 {
					p.Price = price
				}
				req.Producers[name] = p
			}

			var result GameState
			if err := client.Put(cmd.Context(), "/api/v1/game", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "JSON file holding the full state to save")
	cmd.Flags().Int64Var(&currency, "currency", 0, "Crystal balance")
	cmd.Flags().Int64Var(&lifetime, "lifetime", 0, "Lifetime crystals earned")
	cmd.Flags().Int64Var(&clickPower, "click-power", 0, "Crystals per click")
	cmd.Flags().Int64Var(&clickPrice, "click-power-price", 0, "Price of the next click power level")
	cmd.Flags().Int64Var(&clicks, "clicks", 0, "Total clicks")
	cmd.Flags().StringArrayVar(&producers, "producer", nil, "Producer as name=count[:price] (repeatable)")

	return cmd
}

func saveRequestFromState(g GameState) SaveRequest {
	producers := make(map[string]Producer, len(g.Producers))
	for name, p := range g.Producers {
		producers[name] = p
	}
	return SaveRequest{
		Currency:         g.Currency,
		LifetimeCurrency: g.LifetimeCurrency,
		ClickPower:       g.ClickPower,
		ClickPowerPrice:  g.ClickPowerPrice,
		TotalClicks:      g.TotalClicks,
		Producers:        producers,
	}
}

// parseProducer parses name=count[:price]. A missing price is returned as -1.
func parseProducer(spec string) (name string, count, price int64, err error) {
	name, value, ok := strings.Cut(spec, "=")
	if !ok || name == "" {
		return "", 0, 0, fmt.Errorf("invalid producer %q: expected name=count[:price]", spec)
	}

	countStr, priceStr, hasPrice := strings.Cut(value, ":")
	count, err = strconv.ParseInt(countStr, 10, 64)
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid producer count in %q", spec)
	}

	price = -1
	if hasPrice {
		price, err = strconv.ParseInt(priceStr, 10, 64)
		if err != nil {
			return "", 0, 0, fmt.Errorf("invalid producer price in %q", spec)
		}
	}
	return name, count, price, nil
}
