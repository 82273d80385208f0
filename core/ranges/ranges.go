// Package ranges resolves chapter and verse expressions into the concrete
// sequence of (chapter, verse) pairs to process.
package ranges

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/FocuswithJustin/bibledraft/core/errors"
)

// WindowSize is the number of chapters written per document in whole-book mode.
const WindowSize = 5

// MaxValue bounds any chapter or verse number. The longest chapter in any
// versification (Psalm 119) has 176 verses.
const MaxValue = 200

// Range is an inclusive [Start, End] span of chapter or verse numbers.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Single returns the range [n, n].
func Single(n int) Range {
	return Range{Start: n, End: n}
}

// Len returns the number of values in the range.
func (r Range) Len() int {
	return r.End - r.Start + 1
}

// IsSingle reports whether the range holds exactly one value.
func (r Range) IsSingle() bool {
	return r.Start == r.End
}

// String renders "n" for a single value and "a-b" otherwise.
func (r Range) String() string {
	if r.IsSingle() {
		return strconv.Itoa(r.Start)
	}
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// Values returns every number in the range in ascending order.
func (r Range) Values() []int {
	out := make([]int, 0, r.Len())
	for n := r.Start; n <= r.End; n++ {
		out = append(out, n)
	}
	return out
}

// rangeGrammar is the participle grammar for range expressions.
// Examples: "3", "1-5", " 2 - 4 "
//
type rangeGrammar struct {
	Start int  `parser:"@Int"`
	End   *int `parser:"( '-' @Int )?"`
}

var rangeLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Punct", Pattern: `-`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var rangeParser = participle.MustBuild[rangeGrammar](
	participle.Lexer(rangeLexer),
	participle.Elide("Whitespace"),
)

// Parse parses a chapter or verse expression. field names the flag in
// error messages.
func Parse(field, expr string) (Range, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Range{}, &errors.ValidationError{Field: field, Message: "empty range expression"}
	}

	parsed, err := rangeParser.ParseString(field, expr)
	if err != nil {
		return Range{}, &errors.ValidationError{
			Field:   field,
			Value:   expr,
			Message: fmt.Sprintf("invalid range %q: expected N or A-B", expr),
			Err:     &errors.ParseError{Format: "range", Message: err.Error(), Err: err},
		}
	}

	r := Single(parsed.Start)
	if parsed.End != nil {
		r.End = *parsed.End
	}

	if r.Start < 1 {
		return Range{}, &errors.ValidationError{Field: field, Value: expr, Message: "numbers start at 1"}
	}
	if r.End > MaxValue {
		return Range{}, &errors.ValidationError{
			Field:   field,
			Value:   expr,
			Message: fmt.Sprintf("%d is above the limit of %d", r.End, MaxValue),
		}
	}
	if r.Start > r.End {
		return Range{}, &errors.ValidationError{
			Field:   field,
			Value:   expr,
			Message: fmt.Sprintf("start %d is after end %d", r.Start, r.End),
		}
	}

	return r, nil
}

// IsMulti reports whether an expression is written as a hyphenated range.
func IsMulti(expr string) bool {
	return strings.Contains(expr, "-")
}

// Validate checks the flag combination before anything else happens.
// A chapter range together with a verse range is an ambiguous cross
// product, and verses need a chapter to belong to.
func Validate(chapters, verses string) error {
	chapters = strings.TrimSpace(chapters)
	verses = strings.TrimSpace(verses)

	if IsMulti(chapters) && IsMulti(verses) {
		return &errors.ValidationError{
			Field:   "chapters",
			Value:   chapters,
			Message: fmt.Sprintf("cannot have chapters %q and verses %q at the same time", chapters, verses),
		}
	}
	if chapters == "" && verses != "" {
		return &errors.ValidationError{
			Field:   "verses",
			Value:   verses,
			Message: fmt.Sprintf("cannot get verses %q without a chapter", verses),
		}
	}
	return nil
}

// Windows partitions [1, total] into consecutive windows of size chapters.
// The final window may be shorter.
func Windows(total, size int) []Range {
	if total < 1 || size < 1 {
		return nil
	}
	out := make([]Range, 0, (total+size-1)/size)
	for start := 1; start <= total; start += size {
		out = append(out, Range{Start: start, End: min(start+size-1, total)})
	}
	return out
}
