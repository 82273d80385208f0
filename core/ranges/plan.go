package ranges

import (
	"fmt"

	"github.com/FocuswithJustin/bibledraft/core/books"
	"github.com/FocuswithJustin/bibledraft/core/errors"
)

// ChapterVerses is the concrete verse span for one chapter.
type ChapterVerses struct {
	Chapter int   `json:"chapter"`
	Verses  Range `json:"verses"`
}

// Window is one output document's worth of chapters.
type Window struct {
	Chapters Range           `json:"chapters"`
	Verses   []ChapterVerses `json:"verses"`
}

// VerseCount returns the number of verses the window will process.
func (w Window) VerseCount() int {
	n := 0
	for _, cv := range w.Verses {
		n += cv.Verses.Len()
	}
	return n
}

// Plan is the fully resolved enumeration for one invocation.
type Plan struct {
	Book *books.BookInfo `json:"-"`

	// VersesExpr is the verse expression as given, empty for whole chapters.
	VersesExpr string `json:"verses_expr,omitempty"`

	Windows []Window `json:"windows"`
}

// VerseCount returns the number of verses across all windows.
func (p *Plan) VerseCount() int {
	n := 0
	for _, w := range p.Windows {
		n += w.VerseCount()
	}
	return n
}

// VerseRange resolves the verse span for one chapter. An empty expression
// means the whole chapter, which requires a known verse count.
func VerseRange(book *books.BookInfo, chapter int, verses string) (Range, error) {
	if verses != "" {
		return Parse("verses", verses)
	}
	n, ok := book.VersesInChapter(chapter)
	if !ok {
		return Range{}, &errors.ValidationError{
			Field:   "chapters",
			Value:   fmt.Sprint(chapter),
			Message: fmt.Sprintf("unable to determine verses for %s chapter %d", book.Name, chapter),
		}
	}
	return Range{Start: 1, End: n}, nil
}

// Resolve validates the expressions against the book and enumerates every
// window, chapter and verse span. Nothing here touches the network, so all
// input problems surface before the first lookup.
func Resolve(book *books.BookInfo, chapters, verses string) (*Plan, error) {
	if book == nil {
		return nil, errors.NewValidation("book", "is required")
	}
	if err := Validate(chapters, verses); err != nil {
		return nil, err
	}

	var windows []Range
	if chapters == "" {
		windows = Windows(book.Chapters(), WindowSize)
	} else {
		r, err := Parse("chapters", chapters)
		if err != nil {
			return nil, err
		}
		if r.End > book.Chapters() {
			return nil, &errors.ValidationError{
				Field:   "chapters",
				Value:   chapters,
				Message: fmt.Sprintf("%s has %d chapters", book.Name, book.Chapters()),
			}
		}
		windows = []Range{r}
	}

	plan := &Plan{Book: book, VersesExpr: verses}
	for _, wr := range windows {
		w := Window{Chapters: wr}
		for _, ch := range wr.Values() {
			vr, err := VerseRange(book, ch, verses)
			if err != nil {
				return nil, err
			}
			w.Verses = append(w.Verses, ChapterVerses{Chapter: ch, Verses: vr})
		}
		plan.Windows = append(plan.Windows, w)
	}

	return plan, nil
}
