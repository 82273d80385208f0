// Package validation checks and sanitizes the file names and paths the
// tool writes to.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxFilenameLength is the maximum allowed filename length in bytes.
	MaxFilenameLength = 255
	// MaxStemLength bounds a sanitized name, leaving room for an extension.
	MaxStemLength = 240
	// MaxPathLength is the maximum allowed path length.
	MaxPathLength = 4096
)

// Common validation errors.
var (
	ErrInvalidFilename  = errors.New("invalid filename")
	ErrFilenameTooLong  = errors.New("filename too long")
	ErrPathTooLong      = errors.New("path too long")
	ErrInvalidCharacter = errors.New("invalid character in path")
	ErrEmptyPath        = errors.New("path cannot be empty")
)

// ValidateFilename checks that filename names a file directly inside a
// directory: no separators, no control characters, no reserved names.
func ValidateFilename(filename string) error {
	if filename == "" {
		return ErrInvalidFilename
	}

	if len(filename) > MaxFilenameLength {
		return ErrFilenameTooLong
	}

	if filename == "." || filename == ".." {
		return fmt.Errorf("%w: reserved name", ErrInvalidFilename)
	}

	if strings.ContainsAny(filename, "/\\") {
		return fmt.Errorf("%w: path separator not allowed", ErrInvalidFilename)
	}

	for _, r := range filename {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character not allowed", ErrInvalidFilename)
		}
	}

	// Names starting with a hyphen read as flags in shell pipelines.
	if strings.HasPrefix(filename, "-") {
		return fmt.Errorf("%w: filename cannot start with hyphen", ErrInvalidFilename)
	}

	return nil
}

// ValidatePath rejects empty, oversized or control-character paths.
func ValidatePath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}

	if len(path) > MaxPathLength {
		return ErrPathTooLong
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character not allowed", ErrInvalidCharacter)
		}
	}

	return nil
}

// filenameReplacer maps reference punctuation and characters that are
// illegal on common file systems.
var filenameReplacer = strings.NewReplacer(
	":", ".",
	"/", "-",
	"\\", "-",
	"*", "",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFilename turns a document title such as "ยากอบ James 1:2-4" into a
// portable file name stem ("ยากอบ James 1.2-4"). Long titles are cut at a
// rune boundary to MaxStemLength bytes.
func SanitizeFilename(title string) (string, error) {
	name := filenameReplacer.Replace(title)

	var cleaned strings.Builder
	for _, r := range name {
		if !unicode.IsControl(r) {
			cleaned.WriteRune(r)
		}
	}
	name = strings.TrimSpace(cleaned.String())
	name = strings.TrimLeft(name, "-.")

	for len(name) > MaxStemLength {
		_, size := utf8.DecodeLastRuneInString(name)
		name = name[:len(name)-size]
	}
	name = strings.TrimSpace(name)

	if err := ValidateFilename(name); err != nil {
		return "", err
	}
	return name, nil
}
