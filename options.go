package groqkit

import (
	"groqkit/common"
	"math"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// parseOptions parses a JSON options object and rejects keys outside known.
// An empty input is an empty object.
func parseOptions(raw string, known ...string) (opts gjson.Result, err error) {
	if strings.TrimSpace(raw) == "" {
		raw = "{}"
	}
	if !gjson.Valid(raw) {
		err = common.InvalidOption("options", "malformed JSON")
		return
	}
	opts = gjson.Parse(raw)
	if !opts.IsObject() {
		err = common.InvalidOption("options", "must be a JSON object")
		return
	}
	allowed := map[string]bool{}
	for _, key := range known {
		allowed[key] = true
	}
	opts.ForEach(func(key, _ gjson.Result) bool {
		if !allowed[key.String()] {
			err = common.UnknownOption(key.String())
			return false
		}
		return true
	})
	return
}

func lookup(opts gjson.Result, key string) (gjson.Result, bool) {
	r := opts.Get(gjson.Escape(key))
	if !r.Exists() || r.Type == gjson.Null {
		return r, false
	}
	return r, true
}

func boolOption(opts gjson.Result, key string) (v bool, err error) {
	r, ok := lookup(opts, key)
	if !ok {
		return
	}
	if !r.IsBool() {
		err = common.InvalidOption(key, "must be a boolean, got %s", r.Raw)
		return
	}
	v = r.Bool()
	return
}

func stringOption(opts gjson.Result, key string) (v string, err error) {
	r, ok := lookup(opts, key)
	if !ok {
		return
	}
	if r.Type != gjson.String {
		err = common.InvalidOption(key, "must be a string, got %s", r.Raw)
		return
	}
	v = r.Str
	return
}

func intOption(opts gjson.Result, key string) (v int, err error) {
	r, ok := lookup(opts, key)
	if !ok {
		return
	}
	if r.Type != gjson.Number || r.Num != math.Trunc(r.Num) {
		err = common.InvalidOption(key, "must be an integer, got %s", r.Raw)
		return
	}
	v = int(r.Int())
	return
}

func timeOption(opts gjson.Result, key string) (v time.Time, err error) {
	s, err := stringOption(opts, key)
	if err != nil || s == "" {
		return
	}
	v, err = time.Parse(time.RFC3339, s)
	if err != nil {
		err = common.InvalidOption(key, "must be an RFC 3339 timestamp, got %q", s)
	}
	return
}

// decoder reads typed options one by one and keeps the first error.
type decoder struct {
	opts gjson.Result
	err  error
}

func newDecoder(raw string, known ...string) *decoder {
	opts, err := parseOptions(raw, known...)
	return &decoder{opts: opts, err: err}
}

func (d *decoder) getBool(key string) bool {
	if d.err != nil {
		return false
	}
	v, err := boolOption(d.opts, key)
	d.err = err
	return v
}

func (d *decoder) getString(key string) string {
	if d.err != nil {
		return ""
	}
	v, err := stringOption(d.opts, key)
	d.err = err
	return v
}

func (d *decoder) getInt(key string) int {
	if d.err != nil {
		return 0
	}
	v, err := intOption(d.opts, key)
	d.err = err
	return v
}

func (d *decoder) getTime(key string) time.Time {
	if d.err != nil {
		return time.Time{}
	}
	v, err := timeOption(d.opts, key)
	d.err = err
	return v
}
