// Command draft builds translation-draft worksheets: one HTML table per
// verse comparing the configured Bible versions, with blank rows for the
// translator's notes.
package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/bibledraft/core/books"
	"github.com/FocuswithJustin/bibledraft/core/errors"
	"github.com/FocuswithJustin/bibledraft/core/ranges"
	"github.com/FocuswithJustin/bibledraft/internal/logging"
	"github.com/FocuswithJustin/bibledraft/internal/pipeline"
	"github.com/FocuswithJustin/bibledraft/internal/validation"
	"github.com/FocuswithJustin/bibledraft/internal/youversion"
)

const version = "1.0.0"

// CLI defines the command-line interface for draft.
type CLI struct {
	Book     string `short:"b" required:"" help:"Book name or three-letter code (e.g. James, JAS, JAM)"`
	Chapters string `short:"c" help:"Chapter or chapter range (e.g. 3 or 1-4); omit for the whole book"`
	Verses   string `short:"v" help:"Verse or verse range (e.g. 2 or 2-7); omit for whole chapters"`

	OutputDir    string        `name:"output-dir" short:"o" env:"DRAFT_OUTPUT_DIR" default:"." type:"path" help:"Directory for documents and errors.json"`
	BaseURL      string        `name:"base-url" env:"DRAFT_BASE_URL" default:"https://www.bible.com/bible" help:"Verse page root URL"`
	Timeout      time.Duration `default:"60s" help:"Timeout for each verse lookup"`
	RateInterval time.Duration `name:"rate-interval" default:"0s" help:"Minimum spacing between lookups (0 = unpaced)"`
	RawPassages  bool          `name:"raw-passages" help:"Embed passage text without HTML escaping"`

	LogLevel  string `name:"log-level" enum:"debug,info,warn,error" default:"info" help:"Log level"`
	LogFormat string `name:"log-format" enum:"json,text" default:"json" help:"Log format"`

	Version kong.VersionFlag `help:"Print version information"`
}

// Run resolves the whole plan before the first lookup so that input
// errors never leave files behind.
func (c *CLI) Run(ctx context.Context) error {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return err
	}
	format, err := logging.ParseFormat(c.LogFormat)
	if err != nil {
		return err
	}
	logging.InitLogger(level, format)

	ctx, _ = logging.StartRun(ctx)
	logging.DebugContext(ctx, "parameters",
		"book", c.Book,
		"chapters", c.Chapters,
		"verses", c.Verses,
		"output_dir", c.OutputDir,
	)

	plan, err := c.plan()
	if err != nil {
		return err
	}

	summary, err := pipeline.New(c.config(), nil).Run(ctx, plan)
	if err != nil {
		return errors.Wrap(err, "processing "+plan.Book.Name)
	}

	logging.DebugContext(ctx, "summary", "documents", len(summary.Documents))
	return nil
}

func (c *CLI) plan() (*ranges.Plan, error) {
	if strings.TrimSpace(c.Book) == "" {
		return nil, errors.NewValidation("book", "is required")
	}
	if err := validation.ValidatePath(c.OutputDir); err != nil {
		return nil, &errors.ValidationError{Field: "output-dir", Value: c.OutputDir, Message: err.Error()}
	}
	if err := ranges.Validate(c.Chapters, c.Verses); err != nil {
		return nil, err
	}
	book, err := books.Lookup(c.Book)
	if err != nil {
		return nil, err
	}
	return ranges.Resolve(book, strings.TrimSpace(c.Chapters), strings.TrimSpace(c.Verses))
}

func (c *CLI) config() pipeline.Config {
	baseURL := c.BaseURL
	if baseURL == "" {
		baseURL = youversion.DefaultBaseURL
	}
	return pipeline.Config{
		OutputDir:    c.OutputDir,
		BaseURL:      baseURL,
		Timeout:      c.Timeout,
		RateInterval: c.RateInterval,
		RawPassages:  c.RawPassages,
	}
}

func newParser(cli *CLI, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name("draft"),
		kong.Description("Build verse-by-verse translation draft worksheets from bible.com"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{"version": version},
	}, options...)
	return kong.New(cli, options...)
}

// exitError makes kong exit with status 1 for every failure, including
// parse errors whose own exit code is reserved for kong's usage errors.
// Unwrap keeps the usage output for parse errors.
type exitError struct {
	err error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }
func (e *exitError) ExitCode() int { return 1 }

// failure prepares err for FatalIfErrorf. Input errors are reported as the
// plain diagnostic; anything else is also logged as a failed run.
func failure(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if !errors.IsInputError(err) {
		logging.ErrorContext(ctx, "run_failed", "error", err)
	}
	return &exitError{err: err}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cli CLI
	parser, err := newParser(&cli, kong.BindTo(ctx, (*context.Context)(nil)))
	if err != nil {
		panic(err)
	}
	kctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		parser.FatalIfErrorf(&exitError{err: err})
	}

	kctx.FatalIfErrorf(failure(ctx, kctx.Run()))
}
