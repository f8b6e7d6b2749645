// AngelaMos | 2026
// cards.go

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/card"
	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/config"
	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/core"
)

var cardsFile string

// seedCard is the on-disk shape of one deck entry.
type seedCard struct {
	Name     string `json:"name"`
	Fortune  string `json:"fortune"`
	Message  string `json:"message"`
	ImageURL string `json:"image_url"`
	Weight   int    `json:"weight"`
}

var seedCardsCmd = &cobra.Command{
	Use:   "seed-cards",
	Short: "Insert or update fortune cards from a JSON file",
	Long: `Insert or update fortune cards. Cards are matched by name, so running
the command twice with the same file is harmless.

The file holds a JSON array:
  [{"name": "Sun", "fortune": "great", "message": "...", "weight": 5}]`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cards, err := readCards(cardsFile)
		if err != nil {
			return err
		}

		return withDatabase(cmd.Context(), func(cfg *config.Config, db *core.Database) error {
			loc, err := time.LoadLocation(cfg.Card.Timezone)
			if err != nil {
				return err
			}

			svc := card.NewService(card.NewRepository(db.DB), loc)
			n, err := svc.Seed(cmd.Context(), cards)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d cards\n", n)
			return nil
		})
	},
}

func init() {
	seedCardsCmd.Flags().StringVarP(&cardsFile, "file", "f", "", "JSON file with the cards")
	_ = seedCardsCmd.MarkFlagRequired("file") //nolint:errcheck // flag is defined above

	rootCmd.AddCommand(seedCardsCmd)
}

func readCards(path string) ([]card.Card, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cards file: %w", err)
	}

	var entries []seedCard
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse cards file: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%s holds no cards", path)
	}

	cards := make([]card.Card, 0, len(entries))
	for _, e := range entries {
		cards = append(cards, card.Card{
			Name:     e.Name,
			Fortune:  e.Fortune,
			Message:  e.Message,
			ImageURL: e.ImageURL,
			Weight:   e.Weight,
		})
	}
	return cards, nil
}
