package draft

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/FocuswithJustin/bibledraft/internal/logging"
)

// VerseClient looks up one verse in one translation.
type VerseClient interface {
	GetVerse(ctx context.Context, bookCode string, chapter, verse, versionID int) (*LookupResult, error)
}

// Fetcher issues one lookup per translation for a verse and joins them.
type Fetcher struct {
	client  VerseClient
	specs   []TranslationSpec
	limiter *rate.Limiter
}

// NewFetcher returns a Fetcher over specs. A positive interval is the
// minimum spacing between any two lookups; zero leaves them unpaced.
func NewFetcher(client VerseClient, specs []TranslationSpec, interval time.Duration) *Fetcher {
	f := &Fetcher{
		client: client,
		specs:  append([]TranslationSpec(nil), specs...),
	}
	if interval > 0 {
		f.limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
	return f
}

// Translations returns the table the fetcher queries.
func (f *Fetcher) Translations() []TranslationSpec {
	return append([]TranslationSpec(nil), f.specs...)
}

// FetchVerse runs every translation's lookup concurrently and waits for all
// of them. results[i] belongs to Translations()[i] whatever the completion
// order. Lookup failures are classified into the results; the returned
// error is only ever the context's.
func (f *Fetcher) FetchVerse(ctx context.Context, bookCode string, chapter, verse int) ([]VerseResult, error) {
	results := make([]VerseResult, len(f.specs))

	var eg errgroup.Group
	for i, spec := range f.specs {
		eg.Go(func() error {
			results[i] = f.fetchOne(ctx, bookCode, chapter, verse, spec)
			return nil
		})
	}
	_ = eg.Wait()

	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

func (f *Fetcher) fetchOne(ctx context.Context, bookCode string, chapter, verse int, spec TranslationSpec) VerseResult {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return Failed(0, err.Error())
		}
	}

	start := time.Now()
	res, err := f.client.GetVerse(ctx, bookCode, chapter, verse, spec.ExternalID)
	out := Classify(res, err)

	args := []any{"result", out.Kind.String()}
	if res != nil && res.Citation != "" {
		args = append(args, "citation", res.Citation)
	}
	logging.VerseLookup(ctx, bookCode, chapter, verse, spec.Key, time.Since(start), args...)
	return out
}
