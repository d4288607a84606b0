package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrlokans/bookreviews/internal/config"
	"github.com/mrlokans/bookreviews/internal/database"
	"github.com/mrlokans/bookreviews/internal/database/catalog"
)

// StatsOptions holds flags for the stats command.
type StatsOptions struct {
	Format string // "json" | "text"
}

// StatsResult is the stats command output.
type StatsResult struct {
	Books   int64 `json:"books"`
	Reviews int64 `json:"reviews"`
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewStatsCommand creates the stats command.
func NewStatsCommand() *cobra.Command {
	opts := &StatsOptions{}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print how many books and reviews the catalog holds",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, config.NewConfig().Database, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	return cmd
}

func runStats(cmd *cobra.Command, cfg config.Database, opts *StatsOptions) error {
	db, err := database.NewDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	books, reviews, err := catalog.NewRepository(db.DB).Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to read stats: %w", err)
	}

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		return json.NewEncoder(out).Encode(StatsResult{Books: books, Reviews: reviews})
	}
	fmt.Fprintf(out, "books:   %d\nreviews: %d\n", books, reviews)
	return nil
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
