package draft

import (
	"encoding/json"
	"log/slog"
)

// VerseRecord maps translation keys to passage text for one verse. Every
// configured key is present; an empty string means no passage.
type VerseRecord struct {
	keys     []string
	passages map[string]string
}

// NewVerseRecord returns an empty record with one blank entry per spec.
func NewVerseRecord(specs []TranslationSpec) *VerseRecord {
	r := &VerseRecord{
		keys:     make([]string, 0, len(specs)),
		passages: make(map[string]string, len(specs)),
	}
	for _, s := range specs {
		if _, ok := r.passages[s.Key]; ok {
			continue
		}
		r.keys = append(r.keys, s.Key)
		r.passages[s.Key] = ""
	}
	return r
}

// Set stores text under key. Keys outside the record are ignored and
// reported as false.
func (r *VerseRecord) Set(key, text string) bool {
	if _, ok := r.passages[key]; !ok {
		return false
	}
	r.passages[key] = text
	return true
}

// Get returns the passage for key, or "" when absent.
func (r *VerseRecord) Get(key string) string {
	return r.passages[key]
}

// Keys returns the keys in configuration order.
func (r *VerseRecord) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of keys.
func (r *VerseRecord) Len() int {
	return len(r.keys)
}

// MarshalJSON encodes the record as a JSON object.
func (r *VerseRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.passages)
}

// LogValue renders the record as an ordered slog group.
func (r *VerseRecord) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(r.keys))
	for _, k := range r.keys {
		attrs = append(attrs, slog.String(k, r.passages[k]))
	}
	return slog.GroupValue(attrs...)
}
