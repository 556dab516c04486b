package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"harvest/internal/catalog"
	cl "harvest/internal/cli"
	"harvest/internal/config"
	"harvest/internal/game"

	"github.com/spf13/cobra"
)

func main() {
	cfg := config.LoadCLIFromEnv()
	apiBase := cfg.APIBaseURL

	root := &cobra.Command{
		Use:          "harvest",
		Short:        "Harvest CLI game client",
		SilenceUsage: true,
	}

	root.AddCommand(
		newNewCmd(&apiBase),
		newStatusCmd(&apiBase),
		newInvestCmd(&apiBase),
		newPlayCmd(&apiBase),
		newCountriesCmd(&apiBase),
		newLeaderboardCmd(&apiBase),
		newResetCmd(&apiBase),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newClient(apiBase *string) *cl.Client {
	return cl.NewClient(strings.TrimRight(strings.TrimSpace(*apiBase), "/"))
}

func newNewCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Start a game against three rival farms",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)

			countries, err := client.Countries(ctx)
			if err != nil {
				return err
			}
			country, err := promptCountry(countries)
			if err != nil {
				return err
			}
			crop, err := promptCrop(country)
			if err != nil {
				return err
			}

			created, err := client.CreateGame(ctx, country.Name, crop.Name)
			if err != nil {
				return err
			}
			if err := cl.SaveGameRef(cl.GameRef{
				GameID:  created.ID,
				Country: country.Name,
				Crop:    crop.Name,
			}); err != nil {
				return err
			}

			printSuccess(fmt.Sprintf("Game started. You farm %s in %s.", crop.Name, country.Name))
			if crop.Fact != "" {
				printInfo(crop.Fact)
			}
			renderState(created.State)
			printInfo("Run `harvest invest <percent>` to plant your first season, or `harvest play` for the interactive table.")
			return nil
		},
	}
}

func newStatusCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current standings",
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := cl.LoadGameRef()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			st, err := newClient(apiBase).GameState(ctx, ref.GameID)
			if err != nil {
				return err
			}
			renderState(st)
			return nil
		},
	}
}

func newInvestCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "invest [percent]",
		Short: "Invest a percentage of your money for this season",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := cl.LoadGameRef()
			if err != nil {
				return err
			}

			var pct int
			if len(args) == 1 {
				pct, err = strconv.Atoi(strings.TrimSpace(args[0]))
				if err != nil {
					return fmt.Errorf("percent must be a whole number: %q", args[0])
				}
			} else {
				v, err := promptInt(fmt.Sprintf("Investment percent (%d-%d)", game.MinPercent, game.MaxPercent), game.MinPercent, game.MaxPercent)
				if err != nil {
					return err
				}
				pct = v
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			st, err := newClient(apiBase).SubmitInvestment(ctx, ref.GameID, pct)
			if err != nil {
				return err
			}
			renderRound(st)
			if st.GameOver {
				renderGameOver(st)
				return cl.ClearGameRef()
			}
			return nil
		},
	}
}

func newCountriesCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "countries",
		Short: "List countries and their crops",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			countries, err := newClient(apiBase).Countries(ctx)
			if err != nil {
				return err
			}
			renderCountries(countries)
			return nil
		},
	}
}

func newLeaderboardCmd(apiBase *string) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the richest finished games",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			rows, err := newClient(apiBase).Leaderboard(ctx, limit)
			if err != nil {
				return err
			}
			renderLeaderboard(rows)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of rows to show")
	return cmd
}

func newResetCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Abandon the current game",
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := cl.LoadGameRef()
			if err != nil {
				return cl.ClearGameRef()
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			if err := newClient(apiBase).DeleteGame(ctx, ref.GameID); err != nil {
				printWarn("Could not delete the server-side game: " + err.Error())
			}
			if err := cl.ClearGameRef(); err != nil {
				return err
			}
			printSuccess("Game abandoned.")
			return nil
		},
	}
}

func promptCountry(countries []catalog.Country) (catalog.Country, error) {
	if len(countries) == 0 {
		return catalog.Country{}, fmt.Errorf("the catalog has no countries")
	}
	accent.Println("\nPick your country:")
	for i, c := range countries {
		fmt.Printf("  %2d. %s\n", i+1, c.Name)
	}
	n, err := promptInt("Country number", 1, len(countries))
	if err != nil {
		return catalog.Country{}, err
	}
	return countries[n-1], nil
}

func promptCrop(country catalog.Country) (catalog.Crop, error) {
	if len(country.Crops) == 0 {
		return catalog.Crop{}, fmt.Errorf("%s has no crops listed", country.Name)
	}
	accent.Printf("\nCrops grown in %s:\n", country.Name)
	for i, c := range country.Crops {
		fmt.Printf("  %2d. %s\n", i+1, c.Name)
	}
	n, err := promptInt("Crop number", 1, len(country.Crops))
	if err != nil {
		return catalog.Crop{}, err
	}
	return country.Crops[n-1], nil
}
