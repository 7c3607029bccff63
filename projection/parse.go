package projection

import (
	"strings"

	"github.com/pkg/errors"
)

// ParseFieldNames returns the top-level output keys of a rendered projection
// such as `{_id, "slug": slug.current, author->{name}}`. A bare entry is
// named after its leading attribute; spreads ("...") are skipped.
func ParseFieldNames(text string) (names []string, err error) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "{") || !strings.HasSuffix(text, "}") {
		err = errors.Errorf("projection must be wrapped in braces: %q", text)
		return
	}
	entries, err := splitEntries(text[1 : len(text)-1])
	if err != nil {
		return
	}
	names = []string{}
	for _, entry := range entries {
		var name string
		name, err = entryName(entry)
		if err != nil {
			return
		}
		if name != "" {
			names = append(names, name)
		}
	}
	return
}

// splitEntries splits on commas at nesting depth zero.
func splitEntries(body string) (entries []string, err error) {
	depth := 0
	inString := false
	start := 0
	for i := 0; i < len(body); i++ {
		c := body[i]
		if inString {
			if c == '\\' {
				i++
			} else if c == '"' {
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[', '(':
			depth++
		case '}', ']', ')':
			depth--
			if depth < 0 {
				err = errors.Errorf("unbalanced %q at offset %d", c, i)
				return
			}
		case ',':
			if depth == 0 {
				entries = append(entries, body[start:i])
				start = i + 1
			}
		}
	}
	if inString || depth != 0 {
		err = errors.New("unterminated projection")
		return
	}
	entries = append(entries, body[start:])
	out := entries[:0]
	for _, e := range entries {
		if e = strings.TrimSpace(e); e != "" {
			out = append(out, e)
		}
	}
	entries = out
	return
}

func entryName(entry string) (string, error) {
	if strings.HasPrefix(entry, "...") {
		return "", nil
	}
	if strings.HasPrefix(entry, `"`) {
		end := strings.Index(entry[1:], `"`)
		if end < 0 {
			return "", errors.Errorf("unterminated key in %q", entry)
		}
		rest := strings.TrimSpace(entry[end+2:])
		if !strings.HasPrefix(rest, ":") {
			return "", errors.Errorf("key without value in %q", entry)
		}
		return entry[1 : end+1], nil
	}
	end := 0
	for end < len(entry) && isIdentByte(entry[end]) {
		end++
	}
	if end == 0 {
		return "", errors.Errorf("cannot name projection entry %q", entry)
	}
	return entry[:end], nil
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
