package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/moasearch/moa/internal/loader"
	"github.com/moasearch/moa/internal/ui"
)

func newIngestCmd() *cobra.Command {
	var recursive bool

	cmd := &cobra.Command{
		Use:   "ingest <path>...",
		Short: "Index documents into the corpus",
		Long: `Ingest reads text or Markdown files, splits them into chunks and
indexes them. Re-ingesting a file replaces its chunks. When the vector
backend is unavailable files are still indexed for keyword search.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			eng, err := buildEngine(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() { _ = eng.Close() }()

			renderer := ui.NewRenderer(os.Stdout, noColor)

			var docs []*loader.Document
			for _, path := range args {
				info, err := os.Stat(path)
				if err != nil {
					return fmt.Errorf("cannot access %s: %w", path, err)
				}
				if info.IsDir() {
					if !recursive {
						return fmt.Errorf("%s is a directory (use --recursive)", path)
					}
					loaded, errs := loader.LoadDir(path)
					for _, lerr := range errs {
						renderer.Errorf("skipped: %v", lerr)
					}
					docs = append(docs, loaded...)
					continue
				}
				doc, err := loader.Load(path)
				if err != nil {
					return err
				}
				docs = append(docs, doc)
			}

			if len(docs) == 0 {
				return fmt.Errorf("no ingestable documents found")
			}

			for _, doc := range docs {
				report, err := eng.IngestText(cmd.Context(), doc.Source, doc.Text)
				if err != nil {
					return err
				}
				renderer.IngestReport(report)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Ingest directories recursively")
	return cmd
}
