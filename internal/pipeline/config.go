package pipeline

import (
	"time"

	"github.com/FocuswithJustin/bibledraft/core/draft"
	"github.com/FocuswithJustin/bibledraft/core/render"
	"github.com/FocuswithJustin/bibledraft/internal/output"
	"github.com/FocuswithJustin/bibledraft/internal/youversion"
)

// Config holds run configuration.
type Config struct {
	OutputDir    string        // Directory for documents and errors.json
	BaseURL      string        // Verse page root (empty = youversion.DefaultBaseURL)
	Timeout      time.Duration // Per-lookup timeout (0 = youversion.DefaultTimeout)
	RateInterval time.Duration // Minimum spacing between lookups (0 = unpaced)
	RawPassages  bool          // Embed passage text without escaping
}

// New builds a Runner over the default translation table. A nil client
// means the bible.com client configured from cfg.
func New(cfg Config, client draft.VerseClient) *Runner {
	if client == nil {
		opts := []youversion.Option{}
		if cfg.BaseURL != "" {
			opts = append(opts, youversion.WithBaseURL(cfg.BaseURL))
		}
		if cfg.Timeout > 0 {
			opts = append(opts, youversion.WithTimeout(cfg.Timeout))
		}
		client = youversion.NewClient(opts...)
	}

	return &Runner{
		Fetcher:       draft.NewFetcher(client, draft.DefaultTranslations(), cfg.RateInterval),
		Writer:        output.NewWriter(cfg.OutputDir),
		RenderOptions: render.Options{RawPassages: cfg.RawPassages},
	}
}
