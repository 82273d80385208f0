package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"github.com/FocuswithJustin/bibledraft/core/books"
	"github.com/FocuswithJustin/bibledraft/core/draft"
	bderrors "github.com/FocuswithJustin/bibledraft/core/errors"
	"github.com/FocuswithJustin/bibledraft/core/ranges"
	"github.com/FocuswithJustin/bibledraft/core/xhtml"
	"github.com/FocuswithJustin/bibledraft/internal/logging"
	"github.com/FocuswithJustin/bibledraft/internal/output"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type call struct {
	chapter, verse, versionID int
}

type fakeClient struct {
	mu      sync.Mutex
	calls   []call
	respond func(c call) (*draft.LookupResult, error)
}

func (f *fakeClient) GetVerse(ctx context.Context, bookCode string, chapter, verse, versionID int) (*draft.LookupResult, error) {
	c := call{chapter, verse, versionID}
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()
	if f.respond != nil {
		return f.respond(c)
	}
	return &draft.LookupResult{Passage: fmt.Sprintf("%s %d:%d (%d)", bookCode, chapter, verse, versionID)}, nil
}

func newRunner(t *testing.T, client draft.VerseClient) (*Runner, string) {
	t.Helper()
	dir := t.TempDir()
	return New(Config{OutputDir: dir}, client), dir
}

func resolve(t *testing.T, name, chapters, verses string) *ranges.Plan {
	t.Helper()
	book, err := books.Lookup(name)
	if err != nil {
		t.Fatalf("Lookup(%q) error = %v", name, err)
	}
	plan, err := ranges.Resolve(book, chapters, verses)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	return plan
}

func readErrorLog(t *testing.T, dir string) []string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, output.ErrorLogName))
	if err != nil {
		t.Fatalf("failed to read errors.json: %v", err)
	}
	var entries []string
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("errors.json is not a JSON array: %v", err)
	}
	return entries
}

func TestRunSingleVerse(t *testing.T) {
	client := &fakeClient{}
	r, dir := newRunner(t, client)

	summary, err := r.Run(context.Background(), resolve(t, "James", "1", "1"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if summary.Windows != 1 || summary.Verses != 1 || summary.Problems != 0 {
		t.Errorf("summary = %+v, want 1 window, 1 verse, 0 problems", summary)
	}
	if len(client.calls) != 7 {
		t.Errorf("lookups = %d, want 7", len(client.calls))
	}

	path := filepath.Join(dir, "ยากอบ James 1.1.html")
	if summary.Documents[0].Path != path {
		t.Errorf("Path = %q, want %q", summary.Documents[0].Path, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("document not written: %v", err)
	}
	if summary.Documents[0].Digest != output.Digest(data) {
		t.Error("reported digest does not match the file")
	}

	report, err := xhtml.Inspect(data)
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if report.Blocks != 1 || report.Rows != 7 || report.Annotations != 4 || report.EmptyCells != 0 {
		t.Errorf("report = %+v, want 1 block, 7 rows, 4 annotations, no empty cells", report)
	}
	if !strings.Contains(string(data), "James 1:1") {
		t.Error("document should contain the James 1:1 heading")
	}

	if entries := readErrorLog(t, dir); len(entries) != 0 {
		t.Errorf("errors.json = %v, want empty", entries)
	}
}

func TestRunLookupFailure(t *testing.T) {
	client := &fakeClient{respond: func(c call) (*draft.LookupResult, error) {
		switch c.versionID {
		case 59:
			return &draft.LookupResult{Code: 400, Message: "bad request"}, nil
		case 156:
			return &draft.LookupResult{}, nil
		}
		return &draft.LookupResult{Passage: "text"}, nil
	}}
	r, dir := newRunner(t, client)

	summary, err := r.Run(context.Background(), resolve(t, "JAM", "1", "1"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.Problems != 2 {
		t.Errorf("Problems = %d, want 2", summary.Problems)
	}

	want := []string{
		"ERROR: bad request for James Ch 1:1 (ESV)",
		"WARN: Verse undefined for James Ch 1:1 (SBLG)",
	}
	if diff := cmp.Diff(want, readErrorLog(t, dir)); diff != "" {
		t.Errorf("errors.json mismatch (-want +got):\n%s", diff)
	}

	data, _ := os.ReadFile(summary.Documents[0].Path)
	report, err := xhtml.Inspect(data)
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if report.Rows != 7 || report.EmptyCells != 2 {
		t.Errorf("report = %+v, want 7 rows with 2 blank passages", report)
	}
}

func TestRunAllLookupsFail(t *testing.T) {
	client := &fakeClient{respond: func(c call) (*draft.LookupResult, error) {
		return nil, fmt.Errorf("connection refused")
	}}
	r, dir := newRunner(t, client)

	summary, err := r.Run(context.Background(), resolve(t, "James", "1", "1-2"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.Problems != 14 {
		t.Errorf("Problems = %d, want 14", summary.Problems)
	}

	entries := readErrorLog(t, dir)
	if len(entries) != 14 {
		t.Fatalf("errors.json has %d entries, want 14", len(entries))
	}
	for _, e := range entries {
		if !strings.HasPrefix(e, "ERROR: connection refused for James Ch 1:") {
			t.Errorf("unexpected entry %q", e)
		}
	}

	data, _ := os.ReadFile(summary.Documents[0].Path)
	report, _ := xhtml.Inspect(data)
	if report.Blocks != 2 || report.EmptyCells != 14 {
		t.Errorf("report = %+v, want 2 blocks with every passage blank", report)
	}
}

func TestRunVersesInOrder(t *testing.T) {
	client := &fakeClient{}
	r, _ := newRunner(t, client)

	if _, err := r.Run(context.Background(), resolve(t, "James", "2", "1-4")); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(client.calls) != 28 {
		t.Fatalf("lookups = %d, want 28", len(client.calls))
	}
	for i, c := range client.calls {
		if want := i/7 + 1; c.verse != want || c.chapter != 2 {
			t.Errorf("call %d = %+v, want chapter 2 verse %d", i, c, want)
		}
	}
}

func TestRunWholeBook(t *testing.T) {
	client := &fakeClient{}
	r, dir := newRunner(t, client)

	summary, err := r.Run(context.Background(), resolve(t, "James", "", ""))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if summary.Windows != 1 || summary.Verses != 108 {
		t.Errorf("summary = %+v, want 1 window of 108 verses", summary)
	}

	entries, _ := os.ReadDir(dir)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	if diff := cmp.Diff([]string{"errors.json", "ยากอบ James 1-5.html"}, names); diff != "" {
		t.Errorf("output files mismatch (-want +got):\n%s", diff)
	}
}

func TestRunErrorLogAccumulates(t *testing.T) {
	book := &books.BookInfo{Code: "TST", Name: "Test", VersesPerChapter: []int{1, 1, 1, 1, 1, 1}}
	plan, err := ranges.Resolve(book, "", "")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	client := &fakeClient{respond: func(c call) (*draft.LookupResult, error) {
		if c.versionID == 59 {
			return &draft.LookupResult{}, nil
		}
		return &draft.LookupResult{Passage: "text"}, nil
	}}
	r, dir := newRunner(t, client)

	summary, err := r.Run(context.Background(), plan)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.Windows != 2 {
		t.Fatalf("Windows = %d, want 2", summary.Windows)
	}

	want := make([]string, 0, 6)
	for ch := 1; ch <= 6; ch++ {
		want = append(want, fmt.Sprintf("WARN: Verse undefined for Test Ch %d:1 (ESV)", ch))
	}
	if diff := cmp.Diff(want, readErrorLog(t, dir)); diff != "" {
		t.Errorf("errors.json mismatch (-want +got):\n%s", diff)
	}

	for _, name := range []string{"Test 1-5.html", "Test 6.html"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &fakeClient{}
	r, dir := newRunner(t, client)

	if _, err := r.Run(ctx, resolve(t, "James", "1", "1")); err != context.Canceled {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if len(client.calls) != 0 {
		t.Errorf("lookups = %d, want none after cancellation", len(client.calls))
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("expected no output files, found %d", len(entries))
	}
}

func TestRunRawPassages(t *testing.T) {
	client := &fakeClient{respond: func(c call) (*draft.LookupResult, error) {
		return &draft.LookupResult{Passage: "a <b>bold</b> claim"}, nil
	}}
	dir := t.TempDir()
	r := New(Config{OutputDir: dir, RawPassages: true}, client)

	summary, err := r.Run(context.Background(), resolve(t, "James", "1", "1"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	data, _ := os.ReadFile(summary.Documents[0].Path)
	if !strings.Contains(string(data), "a <b>bold</b> claim") {
		t.Error("raw passages should be embedded unescaped")
	}
}

func TestRunNilPlan(t *testing.T) {
	r, _ := newRunner(t, &fakeClient{})
	if _, err := r.Run(context.Background(), nil); err == nil {
		t.Error("Run(nil) should fail")
	}
}

func TestRunRejectsDuplicateTranslations(t *testing.T) {
	specs := []draft.TranslationSpec{
		{Key: "ESV", ExternalID: 59, DisplayName: "ESV"},
		{Key: "ESV", ExternalID: 60, DisplayName: "ESV again"},
	}
	client := &fakeClient{}
	dir := t.TempDir()
	r := &Runner{
		Fetcher: draft.NewFetcher(client, specs, 0),
		Writer:  output.NewWriter(dir),
	}

	_, err := r.Run(context.Background(), resolve(t, "James", "1", "1"))
	var ve *bderrors.ValidationError
	if !bderrors.As(err, &ve) || ve.Field != "translations" {
		t.Fatalf("Run() error = %v, want translations ValidationError", err)
	}
	if len(client.calls) != 0 {
		t.Errorf("lookups = %d, want none", len(client.calls))
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("expected no output files, found %d", len(entries))
	}
}

func TestRunUsesFetcherTranslations(t *testing.T) {
	specs := []draft.TranslationSpec{
		{Key: "ESV", ExternalID: 59, DisplayName: "ESV"},
		{Key: "SBLG", ExternalID: 156, DisplayName: "Greek"},
	}
	client := &fakeClient{respond: func(c call) (*draft.LookupResult, error) {
		if c.versionID == 156 {
			return &draft.LookupResult{}, nil
		}
		return &draft.LookupResult{Passage: "text"}, nil
	}}
	dir := t.TempDir()
	r := &Runner{
		Fetcher: draft.NewFetcher(client, specs, 0),
		Writer:  output.NewWriter(dir),
	}

	summary, err := r.Run(context.Background(), resolve(t, "James", "1", "1"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	data, _ := os.ReadFile(summary.Documents[0].Path)
	report, err := xhtml.Inspect(data)
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if report.Rows != 2 || report.EmptyCells != 1 {
		t.Errorf("report = %+v, want 2 rows with 1 blank passage", report)
	}
	want := []string{"WARN: Verse undefined for James Ch 1:1 (SBLG)"}
	if diff := cmp.Diff(want, readErrorLog(t, dir)); diff != "" {
		t.Errorf("errors.json mismatch (-want +got):\n%s", diff)
	}
}

func TestRunLogsCompletion(t *testing.T) {
	var buf bytes.Buffer
	logging.InitLoggerTo(&buf, logging.LevelInfo, logging.FormatJSON)
	defer logging.InitLogger(logging.LevelInfo, logging.FormatJSON)

	r, _ := newRunner(t, &fakeClient{})
	if _, err := r.Run(context.Background(), resolve(t, "James", "1", "1")); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var found bool
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("bad log line %q: %v", line, err)
		}
		if entry["msg"] == "done_processing" {
			found = true
			if entry["title"] != "ยากอบ James 1:1" {
				t.Errorf("title = %v, want ยากอบ James 1:1", entry["title"])
			}
		}
	}
	if !found {
		t.Errorf("no done_processing entry in:\n%s", buf.String())
	}
}
