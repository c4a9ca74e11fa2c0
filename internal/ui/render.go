package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-isatty"

	"github.com/moasearch/moa/internal/search"
)

// snippetLen caps the content preview per result, in runes.
const snippetLen = 200

// Renderer writes human-readable output.
type Renderer struct {
	w      io.Writer
	styles Styles
}

// NewRenderer creates a renderer for w. Color is enabled only when w is a
// terminal and noColor is false.
func NewRenderer(w io.Writer, noColor bool) *Renderer {
	useColor := !noColor
	if f, ok := w.(*os.File); ok {
		if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
			useColor = false
		}
	} else {
		useColor = false
	}
	return &Renderer{w: w, styles: GetStyles(!useColor)}
}

// Results renders a ranked result list. An empty list is a normal outcome
// and gets a friendly message, not an error.
func (r *Renderer) Results(query string, results []search.Result) {
	if len(results) == 0 {
		fmt.Fprintf(r.w, "%s\n",
			r.styles.Dim.Render(fmt.Sprintf("No passages matched %q. Try different keywords or ingest more documents.", query)))
		return
	}

	fmt.Fprintf(r.w, "%s\n\n", r.styles.Header.Render(fmt.Sprintf("%d results for %q", len(results), query)))

	for i, res := range results {
		score := r.styles.Score.Render(fmt.Sprintf("%.2f", res.Score))
		source := r.styles.Source.Render(res.Source)
		fmt.Fprintf(r.w, "%2d. [%s] %s\n", i+1, score, source)
		fmt.Fprintf(r.w, "    %s\n", r.styles.Content.Render(snippet(res.Content)))

		var signals []string
		if res.VectorSimilarity > 0 {
			signals = append(signals, fmt.Sprintf("vector %.2f", res.VectorSimilarity))
		}
		if res.KeywordScore > 0 {
			signals = append(signals, fmt.Sprintf("keyword %.0f", res.KeywordScore))
		}
		if len(signals) > 0 {
			fmt.Fprintf(r.w, "    %s\n", r.styles.Dim.Render(strings.Join(signals, ", ")))
		}
		fmt.Fprintln(r.w)
	}
}

// IngestReport renders an ingestion summary.
func (r *Renderer) IngestReport(rep *search.IngestReport) {
	status := r.styles.Success.Render("indexed")
	if rep.VectorsSkipped {
		status = r.styles.Warning.Render("indexed (keyword-only)")
	}
	fmt.Fprintf(r.w, "%s %s: %d chunks in %s\n",
		status, rep.Source, rep.ChunksIndexed, rep.Duration.Round(1e6))
}

// Stats renders corpus statistics.
func (r *Renderer) Stats(s *search.Stats) {
	fmt.Fprintf(r.w, "%s\n", r.styles.Header.Render("Corpus"))
	fmt.Fprintf(r.w, "  chunks:  %d\n", s.Chunks)
	fmt.Fprintf(r.w, "  vectors: %d\n", s.Vectors)
	fmt.Fprintf(r.w, "  sources: %d\n", len(s.Sources))
	for _, src := range s.Sources {
		fmt.Fprintf(r.w, "    %s\n", r.styles.Source.Render(src))
	}
	if s.VectorBackend {
		fmt.Fprintf(r.w, "  backend: %s\n", r.styles.Success.Render("hybrid ("+s.EmbeddingModel+")"))
	} else {
		fmt.Fprintf(r.w, "  backend: %s\n", r.styles.Warning.Render("keyword-only"))
	}
}

// Successf renders a success line.
func (r *Renderer) Successf(format string, args ...any) {
	fmt.Fprintf(r.w, "%s\n", r.styles.Success.Render(fmt.Sprintf(format, args...)))
}

// Errorf renders an error line.
func (r *Renderer) Errorf(format string, args ...any) {
	fmt.Fprintf(r.w, "%s\n", r.styles.Error.Render(fmt.Sprintf(format, args...)))
}

// snippet shortens content to one preview line.
func snippet(content string) string {
	content = strings.Join(strings.Fields(content), " ")
	if utf8.RuneCountInString(content) <= snippetLen {
		return content
	}
	runes := []rune(content)
	return string(runes[:snippetLen]) + "..."
}
