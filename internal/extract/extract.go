// Package extract turns uploaded documents into plain text for analysis.
// Extraction never fails: unreadable or unsupported files yield a bracketed
// placeholder and a note explaining what went wrong.
package extract

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Document type tags.
const (
	TypePDF      = "pdf"
	TypeDOCX     = "docx"
	TypeXLSX     = "xlsx"
	TypePPTX     = "pptx"
	TypeHTML     = "html"
	TypeText     = "txt"
	TypeMarkdown = "md"
	TypeCSV      = "csv"
	TypeJSON     = "json"
	TypeUnknown  = "unknown"
)

// ExcerptRunes is the length of the excerpt kept on the deal.
const ExcerptRunes = 500

var extensionTypes = map[string]string{
	".pdf":      TypePDF,
	".docx":     TypeDOCX,
	".xlsx":     TypeXLSX,
	".pptx":     TypePPTX,
	".html":     TypeHTML,
	".htm":      TypeHTML,
	".txt":      TypeText,
	".md":       TypeMarkdown,
	".markdown": TypeMarkdown,
	".csv":      TypeCSV,
	".json":     TypeJSON,
}

// Result is the outcome of extracting one file.
type Result struct {
	DocType   string
	Text      string
	PageCount *int
	// Note is set when the text is a placeholder.
	Note string
}

// OK reports whether real text was extracted.
func (r Result) OK() bool { return r.Note == "" }

// DetectType returns the document type tag for filename.
func DetectType(filename string) string {
	if t, ok := extensionTypes[strings.ToLower(filepath.Ext(filename))]; ok {
		return t
	}
	return TypeUnknown
}

// Extract returns the text content of data, dispatching on the file extension.
func Extract(filename string, data []byte) Result {
	docType := DetectType(filename)
	res := Result{DocType: docType}

	var (
		text string
		err  error
	)
	switch docType {
	case TypePDF:
		var pages int
		text, pages, err = pdfText(data)
		if pages > 0 {
			res.PageCount = &pages
		}
	case TypeDOCX:
		text, err = docxText(data)
	case TypeXLSX:
		text, err = xlsxText(data)
	case TypePPTX:
		text, err = pptxText(data)
	case TypeHTML:
		text, err = htmlText(data)
	case TypeText, TypeMarkdown, TypeCSV, TypeJSON:
		text = decodeText(data)
	default:
		res.Note = "unsupported document type"
		res.Text = fmt.Sprintf("[Unsupported document type: %s]", filename)
		return res
	}

	if err != nil {
		res.Note = err.Error()
		res.Text = fmt.Sprintf("[Could not extract %s: %v]", strings.ToUpper(docType), err)
		return res
	}
	res.Text = strings.TrimSpace(text)
	return res
}

// Excerpt returns the first n runes of text.
func Excerpt(text string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	return string(runes[:n])
}

// decodeText reads data as UTF-8, falling back to Latin-1 when it is not valid UTF-8.
func decodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	var b strings.Builder
	b.Grow(len(data))
	for _, c := range data {
		b.WriteRune(rune(c))
	}
	return b.String()
}
