package draft

import (
	"strings"

	"github.com/FocuswithJustin/bibledraft/core/errors"
)

// LookupResult is the raw answer of the remote verse lookup. A Code of 400
// or above means the lookup failed with Message.
type LookupResult struct {
	Citation string `json:"citation,omitempty"`
	Passage  string `json:"passage,omitempty"`
	Code     int    `json:"code,omitempty"`
	Message  string `json:"message,omitempty"`
}

// ResultKind tags a VerseResult.
type ResultKind int

const (
	// ResultOK carries passage text.
	ResultOK ResultKind = iota
	// ResultNotFound means the lookup succeeded without a passage.
	ResultNotFound
	// ResultError means the lookup or transport failed.
	ResultError
)

func (k ResultKind) String() string {
	switch k {
	case ResultOK:
		return "ok"
	case ResultNotFound:
		return "not_found"
	case ResultError:
		return "error"
	default:
		return "unknown"
	}
}

// VerseResult is the classified outcome of one lookup.
type VerseResult struct {
	Kind    ResultKind
	Text    string
	Code    int
	Message string
}

// OK returns a passage result.
func OK(text string) VerseResult {
	return VerseResult{Kind: ResultOK, Text: text}
}

// NotFound returns a missing-passage result.
func NotFound() VerseResult {
	return VerseResult{Kind: ResultNotFound}
}

// Failed returns an error result.
func Failed(code int, message string) VerseResult {
	return VerseResult{Kind: ResultError, Code: code, Message: message}
}

// Classify turns a lookup answer and transport error into a VerseResult.
// It is applied uniformly to every fetch.
func Classify(res *LookupResult, err error) VerseResult {
	if err != nil {
		var le *errors.LookupError
		if errors.As(err, &le) {
			return Failed(le.Code, le.Message)
		}
		return Failed(0, err.Error())
	}
	if res == nil {
		return NotFound()
	}
	if res.Code >= 400 {
		msg := res.Message
		if msg == "" {
			msg = "lookup failed"
		}
		return Failed(res.Code, msg)
	}
	if strings.TrimSpace(res.Passage) == "" {
		return NotFound()
	}
	return OK(res.Passage)
}
