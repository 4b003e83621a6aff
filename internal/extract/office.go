package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var errNoContent = errors.New("archive has no document content")

// docxText reads the paragraphs of word/document.xml. Non-empty table cells
// are separated by " | " and rows end a line.
func docxText(data []byte) (string, error) {
	zr, err := openZip(data)
	if err != nil {
		return "", err
	}
	f := findFile(zr, "word/document.xml")
	if f == nil {
		return "", errNoContent
	}
	return readXMLText(f, xmlLayout{text: "t", lineBreak: []string{"p", "tr"}, cellBreak: "tc"})
}

// pptxText reads every slide in order, each under a "--- Slide N ---" header.
func pptxText(data []byte) (string, error) {
	zr, err := openZip(data)
	if err != nil {
		return "", err
	}
	slides := numberedFiles(zr, slidePath)
	if len(slides) == 0 {
		return "", errNoContent
	}
	var parts []string
	for _, s := range slides {
		text, err := readXMLText(s.f, xmlLayout{text: "t", lineBreak: []string{"p"}})
		if err != nil {
			return "", fmt.Errorf("slide %d: %w", s.n, err)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("--- Slide %d ---\n%s", s.n, strings.TrimSpace(text)))
	}
	return strings.Join(parts, "\n\n"), nil
}

// xlsxText reads the shared string table followed by inline strings of each
// sheet. Numeric cells are not included.
func xlsxText(data []byte) (string, error) {
	zr, err := openZip(data)
	if err != nil {
		return "", err
	}
	var parts []string
	if f := findFile(zr, "xl/sharedStrings.xml"); f != nil {
		text, err := readXMLText(f, xmlLayout{text: "t", lineBreak: []string{"si"}})
		if err != nil {
			return "", fmt.Errorf("shared strings: %w", err)
		}
		parts = append(parts, strings.TrimSpace(text))
	}
	sheets := numberedFiles(zr, sheetPath)
	for _, sh := range sheets {
		text, err := readXMLText(sh.f, xmlLayout{text: "t", lineBreak: []string{"row"}, cellBreak: "c"})
		if err != nil {
			return "", fmt.Errorf("sheet %d: %w", sh.n, err)
		}
		if t := strings.TrimSpace(text); t != "" {
			parts = append(parts, t)
		}
	}
	if len(parts) == 0 && len(sheets) == 0 {
		return "", errNoContent
	}
	return strings.Join(parts, "\n\n"), nil
}

func openZip(data []byte) (*zip.Reader, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	return zr, nil
}

func findFile(zr *zip.Reader, name string) *zip.File {
	for _, f := range zr.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}

var (
	slidePath = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)
	sheetPath = regexp.MustCompile(`^xl/worksheets/sheet(\d+)\.xml$`)
)

// numberedFile is an archive part together with the number in its name.
type numberedFile struct {
	n int
	f *zip.File
}

// numberedFiles returns the archive entries matching pattern ordered by the
// number captured in its first group.
func numberedFiles(zr *zip.Reader, pattern *regexp.Regexp) []numberedFile {
	var out []numberedFile
	for _, f := range zr.File {
		m := pattern.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		n, _ := strconv.Atoi(m[1])
		out = append(out, numberedFile{n: n, f: f})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].n < out[j].n })
	return out
}

// xmlLayout names the elements that carry text and structure in an OOXML part.
// Namespaces are ignored; only local names are compared.
type xmlLayout struct {
	text      string
	lineBreak []string
	cellBreak string
}

func (l xmlLayout) breaksLine(name string) bool {
	for _, n := range l.lineBreak {
		if n == name {
			return true
		}
	}
	return false
}

func readXMLText(f *zip.File, layout xmlLayout) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	return xmlText(rc, layout)
}

func xmlText(r io.Reader, layout xmlLayout) (string, error) {
	dec := xml.NewDecoder(r)
	var (
		b         strings.Builder
		line      strings.Builder
		inText    int
		cellDepth int
		cells     []string
	)
	flushLine := func() {
		if len(cells) > 0 {
			filled := cells[:0]
			for _, c := range cells {
				if c != "" {
					filled = append(filled, c)
				}
			}
			if len(filled) > 0 {
				b.WriteString(strings.Join(filled, " | "))
				b.WriteByte('\n')
			}
			cells = cells[:0]
		}
		if s := strings.TrimSpace(line.String()); s != "" {
			b.WriteString(s)
			b.WriteByte('\n')
		}
		line.Reset()
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("reading xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Local == layout.text:
				inText++
			case layout.cellBreak != "" && t.Name.Local == layout.cellBreak:
				cellDepth++
			}
		case xml.EndElement:
			switch {
			case t.Name.Local == layout.text:
				inText--
			case layout.cellBreak != "" && t.Name.Local == layout.cellBreak:
				cellDepth--
				cells = append(cells, strings.TrimSpace(line.String()))
				line.Reset()
			case layout.breaksLine(t.Name.Local):
				if cellDepth > 0 {
					line.WriteByte(' ')
				} else {
					flushLine()
				}
			}
		case xml.CharData:
			if inText > 0 {
				line.Write(t)
			}
		}
	}
	flushLine()
	return b.String(), nil
}
