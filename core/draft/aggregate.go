package draft

import (
	"encoding/json"
	"fmt"
)

// Ref identifies the verse being drafted in log lines.
type Ref struct {
	Book    string
	Chapter int
	Verse   int
}

func (r Ref) String() string {
	return fmt.Sprintf("%s Ch %d:%d", r.Book, r.Chapter, r.Verse)
}

// ErrorLog is the append-only list of problems found during a run.
type ErrorLog struct {
	entries []string
}

// Add appends one entry.
func (l *ErrorLog) Add(entry string) {
	l.entries = append(l.entries, entry)
}

// Entries returns a copy of the entries in insertion order.
func (l *ErrorLog) Entries() []string {
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *ErrorLog) Len() int {
	return len(l.entries)
}

// MarshalJSON encodes the log as a JSON array, never null.
func (l *ErrorLog) MarshalJSON() ([]byte, error) {
	if l.entries == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.entries)
}

// Aggregate builds the record for one verse. results[i] belongs to
// specs[i]; a missing result counts as an error. Problems are appended to
// log and the affected field is left blank. Aggregate never fails.
func Aggregate(specs []TranslationSpec, ref Ref, results []VerseResult, log *ErrorLog) (*VerseRecord, []string) {
	record := NewVerseRecord(specs)
	var problems []string

	for i, spec := range specs {
		res := Failed(0, "no result")
		if i < len(results) {
			res = results[i]
		}

		where := fmt.Sprintf("%s (%s)", ref, spec.Key)
		switch res.Kind {
		case ResultOK:
			record.Set(spec.Key, res.Text)
			continue
		case ResultNotFound:
			problems = append(problems, "WARN: Verse undefined for "+where)
		default:
			problems = append(problems, fmt.Sprintf("ERROR: %s for %s", res.Message, where))
		}
	}

	if log != nil {
		for _, p := range problems {
			log.Add(p)
		}
	}
	return record, problems
}
