package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/moasearch/moa/internal/search"
	"github.com/moasearch/moa/internal/ui"
)

func newSearchCmd() *cobra.Command {
	var limit int
	var mode string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "search <query>...",
		Short: "Search the corpus",
		Long: `Search runs the query against the keyword and vector indexes and
prints a fused ranking. With --mode keyword only the lexical leg runs.
No matches is a normal outcome, not an error.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			eng, err := buildEngine(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() { _ = eng.Close() }()

			var searchMode search.Mode
			switch mode {
			case "", "hybrid":
				searchMode = search.ModeHybrid
			case "keyword":
				searchMode = search.ModeKeyword
			default:
				return fmt.Errorf("unknown mode %q (hybrid or keyword)", mode)
			}

			results, err := eng.Search(cmd.Context(), query, search.Options{
				Limit: limit,
				Mode:  searchMode,
			})
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}

			ui.NewRenderer(os.Stdout, noColor).Results(query, results)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of results")
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "Retrieval mode: hybrid or keyword")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit results as JSON")
	return cmd
}
