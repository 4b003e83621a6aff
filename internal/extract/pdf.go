package extract

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// pdfText counts the pages of a PDF and recovers the text shown by the string
// operators of each page's content stream. Pages without text are skipped; the
// rest are headed "--- Page N ---".
func pdfText(data []byte) (string, int, error) {
	pages, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return "", 0, fmt.Errorf("reading pdf: %w", err)
	}

	dir, err := os.MkdirTemp("", "dealflow-pdf-*")
	if err != nil {
		return "", pages, fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	if err := api.ExtractContent(bytes.NewReader(data), dir, "doc", nil, nil); err != nil {
		return "", pages, fmt.Errorf("extracting pdf content: %w", err)
	}

	files, err := contentFiles(dir)
	if err != nil {
		return "", pages, err
	}
	var parts []string
	for _, cf := range files {
		raw, err := os.ReadFile(cf.path)
		if err != nil {
			return "", pages, fmt.Errorf("reading page %d content: %w", cf.page, err)
		}
		text := strings.TrimSpace(contentStreamText(raw))
		if text == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("--- Page %d ---\n%s", cf.page, text))
	}
	return strings.Join(parts, "\n\n"), pages, nil
}

type contentFile struct {
	page int
	path string
}

var pageNumberSuffix = regexp.MustCompile(`(\d+)\.txt$`)

func contentFiles(dir string) ([]contentFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing pdf content: %w", err)
	}
	var out []contentFile
	for _, e := range entries {
		m := pageNumberSuffix.FindStringSubmatch(e.Name())
		if e.IsDir() || m == nil {
			continue
		}
		n, _ := strconv.Atoi(m[1])
		out = append(out, contentFile{page: n, path: filepath.Join(dir, e.Name())})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].page < out[j].page })
	return out, nil
}

// tjGapThreshold is the TJ kerning adjustment, in thousandths of an em, that
// is read as a word gap.
const tjGapThreshold = -200

// contentStreamText walks a decoded content stream and collects literal
// strings passed to the text-showing operators Tj, TJ, ' and ". Text blocks,
// T* and Td/TD moves start a new line. Hex strings and font encodings are not
// decoded.
func contentStreamText(stream []byte) string {
	var (
		out     strings.Builder
		pending []string
		inArray bool
		arrText strings.Builder
	)
	newline := func() {
		s := out.String()
		if len(s) > 0 && s[len(s)-1] != '\n' {
			out.WriteByte('\n')
		}
	}

	for i := 0; i < len(stream); {
		c := stream[i]
		switch {
		case c == '(':
			s, next := readLiteral(stream, i)
			if inArray {
				arrText.WriteString(s)
			} else {
				pending = append(pending, s)
			}
			i = next
		case c == '[':
			inArray = true
			arrText.Reset()
			i++
		case c == ']':
			inArray = false
			pending = append(pending, arrText.String())
			i++
		case c == '%':
			for i < len(stream) && stream[i] != '\n' && stream[i] != '\r' {
				i++
			}
		case isDelimiterSpace(c):
			i++
		default:
			start := i
			for i < len(stream) && !isDelimiterSpace(stream[i]) && !strings.ContainsRune("()[]<>%/", rune(stream[i])) {
				i++
			}
			if i == start {
				i++
				continue
			}
			tok := string(stream[start:i])
			if inArray {
				if n, err := strconv.ParseFloat(tok, 64); err == nil && n <= tjGapThreshold {
					arrText.WriteByte(' ')
				}
				continue
			}
			switch tok {
			case "Tj", "TJ":
				for _, p := range pending {
					out.WriteString(p)
				}
			case "'", `"`:
				newline()
				for _, p := range pending {
					out.WriteString(p)
				}
			case "T*", "Td", "TD", "ET":
				newline()
			}
			if _, err := strconv.ParseFloat(tok, 64); err != nil {
				pending = pending[:0]
			}
		}
	}
	return out.String()
}

func isDelimiterSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\r' || c == '\t' || c == '\f' || c == 0
}

// readLiteral decodes the PDF literal string starting at stream[start] == '('
// and returns it with the index just past the closing parenthesis.
func readLiteral(stream []byte, start int) (string, int) {
	var b strings.Builder
	depth := 0
	i := start
	for i < len(stream) {
		c := stream[i]
		switch c {
		case '(':
			if depth > 0 {
				b.WriteByte(c)
			}
			depth++
		case ')':
			depth--
			if depth == 0 {
				return b.String(), i + 1
			}
			b.WriteByte(c)
		case '\\':
			i++
			if i >= len(stream) {
				return b.String(), i
			}
			switch e := stream[i]; e {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case 'b', 'f':
			case '\r', '\n':
			default:
				if e >= '0' && e <= '7' {
					n := 0
					j := 0
					for ; j < 3 && i < len(stream) && stream[i] >= '0' && stream[i] <= '7'; j++ {
						n = n*8 + int(stream[i]-'0')
						i++
					}
					b.WriteRune(rune(n & 0xff))
					continue
				}
				b.WriteByte(e)
			}
		default:
			b.WriteByte(c)
		}
		i++
	}
	return b.String(), i
}
