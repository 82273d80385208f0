// Package pipeline drives a resolved plan through lookup, aggregation,
// rendering and output.
package pipeline

import (
	"context"

	"github.com/FocuswithJustin/bibledraft/core/draft"
	"github.com/FocuswithJustin/bibledraft/core/errors"
	"github.com/FocuswithJustin/bibledraft/core/ranges"
	"github.com/FocuswithJustin/bibledraft/core/render"
	"github.com/FocuswithJustin/bibledraft/core/xhtml"
	"github.com/FocuswithJustin/bibledraft/internal/logging"
	"github.com/FocuswithJustin/bibledraft/internal/output"
)

// Runner processes plans. It is not safe for concurrent use.
type Runner struct {
	Fetcher       *draft.Fetcher
	Writer        *output.Writer
	RenderOptions render.Options

	// Log collects problems across every Run on this Runner.
	Log *draft.ErrorLog
}

// Summary reports what a run produced.
type Summary struct {
	Windows   int
	Verses    int
	Problems  int
	Documents []output.Written
}

// Run processes every window of plan in order. Windows, chapters and verses
// are sequential; only the translations of one verse are fetched together.
// Each window ends with its document written and errors.json flushed.
func (r *Runner) Run(ctx context.Context, plan *ranges.Plan) (*Summary, error) {
	if plan == nil || plan.Book == nil {
		return nil, errors.NewValidation("plan", "is required")
	}
	// Results are matched to translations by index, so both must come
	// from the fetcher's own table.
	specs := r.Fetcher.Translations()
	if err := draft.ValidateTranslations(specs); err != nil {
		return nil, err
	}
	if r.Log == nil {
		r.Log = &draft.ErrorLog{}
	}

	logging.DebugContext(ctx, "run_started",
		"book", plan.Book.Name,
		"code", plan.Book.Code,
		"windows", len(plan.Windows),
		"verses", plan.VerseCount(),
	)

	summary := &Summary{}
	for _, w := range plan.Windows {
		written, err := r.runWindow(ctx, plan, w, specs, summary)
		if err != nil {
			return summary, err
		}
		summary.Windows++
		summary.Documents = append(summary.Documents, *written)
	}

	logging.InfoContext(ctx, "run_complete",
		"windows", summary.Windows,
		"verses", summary.Verses,
		"problems", summary.Problems,
	)
	return summary, nil
}

func (r *Runner) runWindow(ctx context.Context, plan *ranges.Plan, w ranges.Window, specs []draft.TranslationSpec, summary *Summary) (*output.Written, error) {
	doc := render.NewDocument(render.Title(plan.Book, w.Chapters, plan.VersesExpr))

	for _, cv := range w.Verses {
		for _, verse := range cv.Verses.Values() {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			results, err := r.Fetcher.FetchVerse(ctx, plan.Book.Code, cv.Chapter, verse)
			if err != nil {
				return nil, err
			}

			ref := draft.Ref{Book: plan.Book.Name, Chapter: cv.Chapter, Verse: verse}
			record, problems := draft.Aggregate(specs, ref, results, r.Log)
			for _, p := range problems {
				logging.LookupProblem(ctx, p)
			}
			logging.DebugContext(ctx, "verse_record", "ref", ref.String(), "record", record)

			doc.Add(render.RenderVerseBlock(plan.Book, cv.Chapter, verse, record, specs, r.RenderOptions))
			summary.Verses++
			summary.Problems += len(problems)
		}
	}

	html := doc.Render()
	written, err := r.Writer.WriteDocument(doc.FileName(), html)
	if err != nil {
		return nil, err
	}
	logging.DocumentWritten(ctx, written.Path, written.Size, written.Digest, "verses", doc.Len())
	r.inspect(ctx, written.Path, html)

	if _, err := r.Writer.WriteErrorLog(r.Log); err != nil {
		return nil, err
	}

	logging.InfoContext(ctx, "done_processing", "title", doc.Title())
	return written, nil
}

// inspect logs the structure of a written document. Raw passages may carry
// markup that is not well-formed; that is reported, never fatal.
func (r *Runner) inspect(ctx context.Context, path, html string) {
	report, err := xhtml.Inspect([]byte(html))
	if err != nil {
		logging.WarnContext(ctx, "document_not_well_formed", "path", path, "error", err)
		return
	}
	logging.DebugContext(ctx, "document_structure",
		"path", path,
		"blocks", report.Blocks,
		"rows", report.Rows,
		"annotations", report.Annotations,
		"empty_cells", report.EmptyCells,
	)
}
