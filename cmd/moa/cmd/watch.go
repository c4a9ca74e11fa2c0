package cmd

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/moasearch/moa/internal/loader"
	"github.com/moasearch/moa/internal/search"
	"github.com/moasearch/moa/internal/ui"
	"github.com/moasearch/moa/internal/watcher"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Watch a directory and keep the index in sync",
		Long: `Watch ingests every supported file under the directory, then watches
for changes. Created and modified files are reingested, deleted files are
removed from the index. Runs until interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Events carry absolute paths; ingest under the same names.
			dir, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}

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

			// Initial sync.
			docs, errs := loader.LoadDir(dir)
			for _, lerr := range errs {
				renderer.Errorf("skipped: %v", lerr)
			}
			for _, doc := range docs {
				report, err := eng.IngestText(cmd.Context(), doc.Source, doc.Text)
				if err != nil {
					return err
				}
				renderer.IngestReport(report)
			}

			w, err := watcher.New(watcher.Options{Match: loader.Supported}, slog.Default())
			if err != nil {
				return err
			}

			g, gctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				return w.Start(gctx, dir)
			})
			g.Go(func() error {
				return consumeEvents(gctx, w, eng, renderer)
			})

			err = g.Wait()
			if err == context.Canceled {
				return nil
			}
			return err
		},
	}
	return cmd
}

func consumeEvents(ctx context.Context, w *watcher.Watcher, eng *search.Engine, renderer *ui.Renderer) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case events, ok := <-w.Events():
			if !ok {
				return nil
			}
			for _, ev := range events {
				handleEvent(ctx, eng, renderer, ev)
			}
		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			slog.Warn("watch_error", slog.String("error", err.Error()))
		}
	}
}

func handleEvent(ctx context.Context, eng *search.Engine, renderer *ui.Renderer, ev watcher.FileEvent) {
	switch ev.Operation {
	case watcher.OpCreate, watcher.OpModify:
		doc, err := loader.Load(ev.Path)
		if err != nil {
			renderer.Errorf("skipped %s: %v", ev.Path, err)
			return
		}
		report, err := eng.IngestText(ctx, doc.Source, doc.Text)
		if err != nil {
			renderer.Errorf("ingest failed for %s: %v", ev.Path, err)
			return
		}
		renderer.IngestReport(report)
	case watcher.OpDelete:
		if err := eng.DeleteSource(ctx, ev.Path); err != nil {
			renderer.Errorf("delete failed for %s: %v", ev.Path, err)
		}
	}
}
