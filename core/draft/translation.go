// Package draft gathers one verse across every configured translation into
// a VerseRecord, reporting per-translation problems to an ErrorLog.
package draft

import (
	"fmt"

	"github.com/FocuswithJustin/bibledraft/core/errors"
)

// TranslationSpec identifies one translation to query and its table label.
type TranslationSpec struct {
	// Key is the short code used in records and log lines (e.g. "ESV").
	Key string `json:"key"`

	// ExternalID is the remote lookup's numeric version id.
	ExternalID int `json:"external_id"`

	// DisplayName is the left-column label. It is trusted markup and may
	// contain <br/>.
	DisplayName string `json:"display_name"`
}

// DefaultTranslations returns the translation table in display order.
// A fresh slice is returned on every call.
func DefaultTranslations() []TranslationSpec {
	return []TranslationSpec{
		// Thai
		{Key: "THSV11", ExternalID: 174, DisplayName: "มาตรฐาน<br/>THSV 2011"},
		{Key: "TNCV", ExternalID: 179, DisplayName: "อมตธรรมร่วมสมัย<br/>TNCV"},
		{Key: "THAERV", ExternalID: 203, DisplayName: "อ่านเข้าใจง่าย<br/>Easy to read"},

		// Lanna
		{Key: "NODTHNT", ExternalID: 1907, DisplayName: "คำเมือง<br/>(Lanna)"},

		// Thai
		{Key: "NTV", ExternalID: 2744, DisplayName: "แปลใหม่<br/>(NTV)"},

		// English
		{Key: "ESV", ExternalID: 59, DisplayName: "ESV"},

		// Greek
		{Key: "SBLG", ExternalID: 156, DisplayName: "Greek"},
	}
}

// ValidateTranslations checks that the table is non-empty and that keys and
// external ids are unique.
func ValidateTranslations(specs []TranslationSpec) error {
	if len(specs) == 0 {
		return errors.NewValidation("translations", "at least one translation is required")
	}
	keys := make(map[string]bool, len(specs))
	ids := make(map[int]bool, len(specs))
	for _, s := range specs {
		if s.Key == "" {
			return errors.NewValidation("translations", "translation key must not be empty")
		}
		if s.ExternalID <= 0 {
			return errors.NewValidation("translations", fmt.Sprintf("%s has no external id", s.Key))
		}
		if keys[s.Key] {
			return errors.NewValidation("translations", fmt.Sprintf("duplicate key %s", s.Key))
		}
		if ids[s.ExternalID] {
			return errors.NewValidation("translations", fmt.Sprintf("duplicate external id %d", s.ExternalID))
		}
		keys[s.Key] = true
		ids[s.ExternalID] = true
	}
	return nil
}
