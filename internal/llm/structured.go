package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SchemaValidator checks a decoded value. A non-nil error rejects the output.
type SchemaValidator[T any] func(T) error

// ExtractJSON decodes the first JSON object in a model response into T.
// Markdown fences and surrounding prose are ignored, and the usual model
// slips (comments, trailing commas, ".5" style numbers) are repaired first.
func ExtractJSON[T any](raw string, validator SchemaValidator[T]) (T, error) {
	var result T

	block := firstObject(stripCodeFences(raw))
	if block == "" {
		return result, fmt.Errorf("%w: no JSON object found in response", ErrInvalidOutput)
	}
	if err := json.Unmarshal([]byte(repairJSON(block)), &result); err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	if validator != nil {
		if err := validator(result); err != nil {
			var zero T
			return zero, fmt.Errorf("%w: validation failed: %v", ErrInvalidOutput, err)
		}
	}
	return result, nil
}

func stripCodeFences(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if !strings.HasPrefix(strings.TrimSpace(line), "```") {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// lexState tracks whether a byte-by-byte scan is inside a string literal.
type lexState struct {
	inString bool
	escaped  bool
}

// code advances past c and reports whether c is JSON structure rather than
// part of a string literal. Quote characters count as string content.
func (l *lexState) code(c byte) bool {
	switch {
	case l.escaped:
		l.escaped = false
		return false
	case l.inString && c == '\\':
		l.escaped = true
		return false
	case c == '"':
		l.inString = !l.inString
		return false
	}
	return !l.inString
}

// firstObject returns the first balanced {...} block, or "" if none closes.
func firstObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}
	var lx lexState
	depth := 0
	for i := start; i < len(s); i++ {
		if !lx.code(s[i]) {
			continue
		}
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

func repairJSON(s string) string {
	return fixLiterals(stripComments(s))
}

// stripComments drops // and /* */ comments outside string values.
func stripComments(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	var lx lexState
	for i := 0; i < len(s); i++ {
		c := s[i]
		if lx.code(c) && c == '/' && i+1 < len(s) {
			switch s[i+1] {
			case '/':
				nl := strings.IndexByte(s[i:], '\n')
				if nl < 0 {
					return b.String()
				}
				i += nl - 1
				continue
			case '*':
				end := strings.Index(s[i+2:], "*/")
				if end < 0 {
					return b.String()
				}
				i += end + 3
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

// fixLiterals rewrites ".8" as "0.8" and removes commas directly before a
// closing brace or bracket.
func fixLiterals(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	var lx lexState
	for i := 0; i < len(s); i++ {
		c := s[i]
		if lx.code(c) {
			switch {
			case c == '.' && i+1 < len(s) && isDigit(s[i+1]) && startsNumber(prevNonSpace(s, i-1)):
				b.WriteByte('0')
			case c == ',':
				if next := nextNonSpace(s, i+1); next == '}' || next == ']' {
					continue
				}
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

func nextNonSpace(s string, i int) byte {
	for ; i < len(s); i++ {
		if !isSpace(s[i]) {
			return s[i]
		}
	}
	return 0
}

func prevNonSpace(s string, i int) byte {
	for ; i >= 0; i-- {
		if !isSpace(s[i]) {
			return s[i]
		}
	}
	return 0
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\r' || c == '\t'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// startsNumber reports whether a number may begin right after c.
func startsNumber(c byte) bool {
	switch c {
	case 0, ':', ',', '[', '{', '-':
		return true
	}
	return false
}
