package common

import (
	"encoding/json"
	"net/url"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/sjson"
)

// Scalar lists the value kinds a query parameter may carry.
type Scalar interface {
	~string | ~bool | ~int | ~int64 | ~float64
}

// Param is one named value bound to a $name placeholder.
type Param struct {
	Name  string
	Value any
}

var paramNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Bind creates a parameter. Values are normalised to string, bool, int64 or
// float64 so that descriptors compare by value.
func Bind[T Scalar](name string, value T) Param {
	rv := reflect.ValueOf(value)
	var v any
	switch rv.Kind() {
	case reflect.String:
		v = rv.String()
	case reflect.Bool:
		v = rv.Bool()
	case reflect.Int, reflect.Int64:
		v = rv.Int()
	default:
		v = rv.Float()
	}
	return Param{Name: name, Value: v}
}

// ValidParamName reports whether name can follow a $ in query text.
func ValidParamName(name string) bool {
	return paramNamePattern.MatchString(name)
}

// Params maps placeholder names (without $) to their values.
type Params map[string]any

// Names returns the parameter names in sorted order.
func (p Params) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Descriptor is a query ready to be executed by the document store client.
type Descriptor struct {
	Query  string
	Params Params
}

// Placeholders returns the distinct $name tokens referenced by the query text,
// sorted. Tokens inside string literals are ignored.
func (d Descriptor) Placeholders() []string {
	return Placeholders(d.Query)
}

// Check verifies that every placeholder is bound and every parameter is used.
func (d Descriptor) Check() error {
	used := Placeholders(d.Query)
	missing := []string{}
	for _, name := range used {
		if _, ok := d.Params[name]; !ok {
			missing = append(missing, name)
		}
	}
	seen := map[string]bool{}
	for _, name := range used {
		seen[name] = true
	}
	orphan := []string{}
	for _, name := range d.Params.Names() {
		if !seen[name] {
			orphan = append(orphan, name)
		}
	}
	if len(missing) == 0 && len(orphan) == 0 {
		return nil
	}
	return errors.Wrapf(ErrParamMismatch, "unbound %v, unused %v", missing, orphan)
}

// RequestBody renders the JSON body accepted by the store's query endpoint:
// {"query": "...", "params": {...}}.
func (d Descriptor) RequestBody() ([]byte, error) {
	body, err := sjson.SetBytes([]byte(`{}`), "query", d.Query)
	if err != nil {
		return nil, errors.Wrap(err, "set query")
	}
	body, err = sjson.SetRawBytes(body, "params", []byte(`{}`))
	if err != nil {
		return nil, errors.Wrap(err, "set params")
	}
	for _, name := range d.Params.Names() {
		body, err = sjson.SetBytes(body, "params."+name, d.Params[name])
		if err != nil {
			return nil, errors.Wrapf(err, "set param %s", name)
		}
	}
	return body, nil
}

// URLValues renders the descriptor for a GET request: the query text under
// "query" and every parameter as "$name" holding its JSON encoding.
func (d Descriptor) URLValues() (url.Values, error) {
	v := url.Values{}
	v.Set("query", d.Query)
	for _, name := range d.Params.Names() {
		raw, err := json.Marshal(d.Params[name])
		if err != nil {
			return nil, errors.Wrapf(err, "encode param %s", name)
		}
		v.Set("$"+name, string(raw))
	}
	return v, nil
}

// Placeholders scans query text for $name tokens outside string literals.
func Placeholders(text string) []string {
	found := map[string]bool{}
	inString := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			if c == '\\' {
				i++
			} else if c == '"' {
				inString = false
			}
			continue
		}
		if c == '"' {
			inString = true
			continue
		}
		if c != '$' {
			continue
		}
		j := i + 1
		for j < len(text) && isNameByte(text[j], j == i+1) {
			j++
		}
		if j > i+1 {
			found[text[i+1:j]] = true
		}
		i = j - 1
	}
	names := make([]string, 0, len(found))
	for name := range found {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func isNameByte(c byte, first bool) bool {
	switch {
	case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return !first
	}
	return false
}

// Merge returns a copy of p with other's entries added. A name bound to two
// different values is reported as a mismatch.
func (p Params) Merge(other Params) (Params, error) {
	out := Params{}
	for k, v := range p {
		out[k] = v
	}
	for k, v := range other {
		if prev, ok := out[k]; ok && prev != v {
			return nil, errors.Wrapf(ErrParamMismatch, "%s bound twice", k)
		}
		out[k] = v
	}
	return out, nil
}

// String returns the query text with parameters listed after it, for logs.
func (d Descriptor) String() string {
	var b strings.Builder
	b.WriteString(d.Query)
	for _, name := range d.Params.Names() {
		raw, _ := json.Marshal(d.Params[name])
		b.WriteString(" $")
		b.WriteString(name)
		b.WriteString("=")
		b.Write(raw)
	}
	return b.String()
}
