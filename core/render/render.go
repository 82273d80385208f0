// Package render turns verse records into HTML comparison tables.
package render

import (
	"fmt"
	"strings"

	"github.com/FocuswithJustin/bibledraft/core/books"
	"github.com/FocuswithJustin/bibledraft/core/draft"
	"github.com/FocuswithJustin/bibledraft/core/encoding"
	"github.com/FocuswithJustin/bibledraft/core/ranges"
	"github.com/FocuswithJustin/bibledraft/internal/validation"
)

// AnnotationRows are the blank rows appended under every verse table for
// the translator's notes.
var AnnotationRows = []string{
	"Back translation",
	"Key terms",
	"Notes",
	"Checked by",
}

// PageBreak separates verse blocks when the document is printed.
const PageBreak = `<div style="page-break-after: always"></div>`

// Options controls rendering.
type Options struct {
	// RawPassages embeds passage text without HTML escaping.
	RawPassages bool
}

// Heading returns the verse heading, prefixed with the localized book name
// when the catalog has one.
func Heading(book *books.BookInfo, chapter, verse int) string {
	ref := fmt.Sprintf("%s %d:%d", book.Name, chapter, verse)
	if book.LocalizedName == "" {
		return ref
	}
	return book.LocalizedName + " — " + ref
}

// RenderVerseBlock renders one verse as a heading, a two-column table with
// one row per translation in table order, the annotation rows, and a page
// break. Equal inputs always render identical bytes.
func RenderVerseBlock(book *books.BookInfo, chapter, verse int, record *draft.VerseRecord, specs []draft.TranslationSpec, opts Options) string {
	var buf strings.Builder

	buf.WriteString(fmt.Sprintf("<h2 id=\"v%d-%d\">%s</h2>\n", chapter, verse, encoding.EscapeHTML(Heading(book, chapter, verse))))
	buf.WriteString("<table class=\"draft\">\n")
	buf.WriteString("  <colgroup><col class=\"version\"/><col class=\"passage\"/></colgroup>\n")

	for _, spec := range specs {
		text := ""
		if record != nil {
			text = record.Get(spec.Key)
		}
		if !opts.RawPassages {
			text = encoding.EscapeText(text)
		}
		buf.WriteString(fmt.Sprintf("  <tr data-version=\"%s\"><td class=\"version\">%s</td><td class=\"passage\">%s</td></tr>\n",
			encoding.EscapeHTML(spec.Key), spec.DisplayName, text))
	}

	for _, label := range AnnotationRows {
		buf.WriteString(fmt.Sprintf("  <tr class=\"annotation\"><td class=\"version\">%s</td><td class=\"passage\"></td></tr>\n", encoding.EscapeHTML(label)))
	}

	buf.WriteString("</table>\n")
	buf.WriteString(PageBreak)
	buf.WriteString("\n")

	return buf.String()
}

// Title names a document from the book, its chapter window and the verse
// expression, e.g. "ยากอบ James 1-5" or "James 1:2-4".
func Title(book *books.BookInfo, chapters ranges.Range, verses string) string {
	title := book.DisplayName() + " " + chapters.String()
	if verses = strings.TrimSpace(verses); verses != "" {
		title += ":" + strings.ReplaceAll(verses, " ", "")
	}
	return title
}

// FileName turns a document title into a portable file name. A title with
// nothing usable left falls back to "draft.html".
func FileName(title string) string {
	name, err := validation.SanitizeFilename(title)
	if err != nil {
		name = "draft"
	}
	return name + ".html"
}

// RenderDocument wraps verse blocks in a complete HTML document.
func RenderDocument(title string, blocks []string) string {
	var buf strings.Builder

	buf.WriteString("<!DOCTYPE html>\n")
	buf.WriteString("<html>\n")
	buf.WriteString("<head>\n")
	buf.WriteString("  <meta charset=\"UTF-8\"/>\n")
	buf.WriteString(fmt.Sprintf("  <title>%s</title>\n", encoding.EscapeHTML(title)))
	buf.WriteString("  <style>\n")
	buf.WriteString("    body { font-family: 'Noto Sans Thai', 'Noto Serif', serif; margin: 2em; }\n")
	buf.WriteString("    table.draft { border-collapse: collapse; width: 100%; margin-bottom: 1em; }\n")
	buf.WriteString("    table.draft td { border: 1px solid #999; padding: 0.4em; vertical-align: top; }\n")
	buf.WriteString("    col.version { width: 20%; }\n")
	buf.WriteString("    tr.annotation td { height: 2.5em; }\n")
	buf.WriteString("  </style>\n")
	buf.WriteString("</head>\n")
	buf.WriteString("<body>\n")
	buf.WriteString(fmt.Sprintf("<h1>%s</h1>\n", encoding.EscapeHTML(title)))
	for _, b := range blocks {
		buf.WriteString(b)
	}
	buf.WriteString("</body>\n")
	buf.WriteString("</html>\n")

	return buf.String()
}

// Document accumulates verse blocks for one output file.
type Document struct {
	title  string
	blocks []string
}

// NewDocument starts an empty document.
func NewDocument(title string) *Document {
	return &Document{title: title}
}

// Title returns the document title.
func (d *Document) Title() string {
	return d.title
}

// FileName returns the file name derived from the title.
func (d *Document) FileName() string {
	return FileName(d.title)
}

// Add appends a rendered verse block.
func (d *Document) Add(block string) {
	d.blocks = append(d.blocks, block)
}

// Len returns the number of verse blocks.
func (d *Document) Len() int {
	return len(d.blocks)
}

// Render returns the complete document.
func (d *Document) Render() string {
	return RenderDocument(d.title, d.blocks)
}
