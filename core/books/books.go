// Package books is the static book catalog: codes, aliases, English and
// localized names, and per-chapter verse counts.
package books

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/FocuswithJustin/bibledraft/core/errors"
)

//go:embed books.yaml
var catalogYAML []byte

// BookInfo is read-only reference data for one book.
type BookInfo struct {
	// Code is the USFM book code passed to the verse lookup (e.g. "JAS").
	Code string `yaml:"code"`

	// Name is the English book name (e.g. "James").
	Name string `yaml:"name"`

	// LocalizedName is the target-language book name, if known.
	LocalizedName string `yaml:"localized,omitempty"`

	// Aliases are additional 3-letter codes accepted on the command line.
	Aliases []string `yaml:"aliases,omitempty"`

	// VersesPerChapter holds verse counts, chapter 1 at index 0.
	VersesPerChapter []int `yaml:"verses"`
}

// Chapters returns the number of chapters in the book.
func (b *BookInfo) Chapters() int {
	return len(b.VersesPerChapter)
}

// VersesInChapter returns the verse count for a chapter and whether it is known.
func (b *BookInfo) VersesInChapter(chapter int) (int, bool) {
	if chapter < 1 || chapter > len(b.VersesPerChapter) {
		return 0, false
	}
	n := b.VersesPerChapter[chapter-1]
	return n, n > 0
}

// DisplayName returns "<localized> <name>" or just the name.
func (b *BookInfo) DisplayName() string {
	if b.LocalizedName == "" {
		return b.Name
	}
	return b.LocalizedName + " " + b.Name
}

// Catalog indexes books by code, alias and name.
type Catalog struct {
	books  []BookInfo
	byCode map[string]*BookInfo
	byName map[string]*BookInfo
}

type catalogFile struct {
	Books []BookInfo `yaml:"books"`
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, &errors.ParseError{Format: "book catalog", Message: err.Error(), Err: err}
	}
	return New(f.Books)
}

// New builds a catalog from book records. Codes, aliases and names must be
// unique across the catalog.
func New(books []BookInfo) (*Catalog, error) {
	c := &Catalog{
		books:  books,
		byCode: make(map[string]*BookInfo, len(books)*2),
		byName: make(map[string]*BookInfo, len(books)),
	}

	for i := range c.books {
		b := &c.books[i]
		if b.Code == "" || b.Name == "" {
			return nil, errors.NewParse("book catalog", "", fmt.Sprintf("entry %d is missing code or name", i))
		}
		if len(b.VersesPerChapter) == 0 {
			return nil, errors.NewParse("book catalog", "", fmt.Sprintf("%s has no chapters", b.Code))
		}
		for _, key := range append([]string{b.Code}, b.Aliases...) {
			k := normalizeCode(key)
			if _, dup := c.byCode[k]; dup {
				return nil, errors.NewParse("book catalog", "", fmt.Sprintf("duplicate code %q", key))
			}
			c.byCode[k] = b
		}
		k := normalizeName(b.Name)
		if _, dup := c.byName[k]; dup {
			return nil, errors.NewParse("book catalog", "", fmt.Sprintf("duplicate name %q", b.Name))
		}
		c.byName[k] = b
	}

	return c, nil
}

// Books returns the catalog entries in canonical order.
func (c *Catalog) Books() []BookInfo {
	return c.books
}

// GetBookByCode finds a book by code or alias, case-insensitively.
func (c *Catalog) GetBookByCode(code string) (*BookInfo, error) {
	if b, ok := c.byCode[normalizeCode(code)]; ok {
		return b, nil
	}
	return nil, errors.NewNotFound("book code", code)
}

// GetBookByName finds a book by English name, case-insensitively.
func (c *Catalog) GetBookByName(name string) (*BookInfo, error) {
	if b, ok := c.byName[normalizeName(name)]; ok {
		return b, nil
	}
	return nil, errors.NewNotFound("book", name)
}

// Lookup resolves command-line book input. Three-character input is tried
// as a code first, anything else as a name first; each falls back to the
// other form.
func (c *Catalog) Lookup(input string) (*BookInfo, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, errors.NewValidation("book", "must not be empty")
	}

	if len([]rune(input)) == 3 {
		if b, err := c.GetBookByCode(input); err == nil {
			return b, nil
		}
		if b, err := c.GetBookByName(input); err == nil {
			return b, nil
		}
		return nil, errors.NewNotFound("book", input)
	}

	if b, err := c.GetBookByName(input); err == nil {
		return b, nil
	}
	if b, err := c.GetBookByCode(input); err == nil {
		return b, nil
	}
	return nil, errors.NewNotFound("book", input)
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Parse(catalogYAML)
	})
	return defaultCatalog, defaultErr
}

// Lookup resolves command-line book input against the embedded catalog.
func Lookup(input string) (*BookInfo, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	return c.Lookup(input)
}

func normalizeCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func normalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
