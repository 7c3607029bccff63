package common

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestPlaceholders(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"none", `*[_type == "product"]`, []string{}},
		{"single", `*[_type == "product" && slug.current == $slug][0]`, []string{"slug"}},
		{"sorted and unique", `*[a == $b && c == $a && d == $b]`, []string{"a", "b"}},
		{"ignores strings", `*[title == "$notAParam" && x == $real]`, []string{"real"}},
		{"escaped quote", `*[title == "say \"$hi\"" && x == $y]`, []string{"y"}},
		{"digits after first", `*[x == $p1 && y == $1]`, []string{"p1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Placeholders(tt.text))
		})
	}
}

func TestDescriptorCheck(t *testing.T) {
	t.Run("parity", func(t *testing.T) {
		d := Descriptor{Query: `*[slug.current == $slug]`, Params: Params{"slug": "paddy-cleaner"}}
		assert.NoError(t, d.Check())
	})
	t.Run("unbound", func(t *testing.T) {
		d := Descriptor{Query: `*[slug.current == $slug]`, Params: Params{}}
		err := d.Check()
		assert.ErrorIs(t, err, ErrParamMismatch)
		assert.Contains(t, err.Error(), "slug")
	})
	t.Run("unused", func(t *testing.T) {
		d := Descriptor{Query: `*[_type == "post"]`, Params: Params{"extra": true}}
		assert.ErrorIs(t, d.Check(), ErrParamMismatch)
	})
}

func TestBind(t *testing.T) {
	type slug string
	assert.Equal(t, Param{Name: "slug", Value: "x"}, Bind("slug", slug("x")))
	assert.Equal(t, Param{Name: "n", Value: int64(3)}, Bind("n", 3))
	assert.Equal(t, Param{Name: "f", Value: 2.5}, Bind("f", 2.5))
	assert.Equal(t, Param{Name: "b", Value: true}, Bind("b", true))
}

func TestValidParamName(t *testing.T) {
	assert.True(t, ValidParamName("searchTerm"))
	assert.True(t, ValidParamName("filter0"))
	assert.False(t, ValidParamName("0filter"))
	assert.False(t, ValidParamName("a-b"))
	assert.False(t, ValidParamName(""))
}

func TestParamsMerge(t *testing.T) {
	merged, err := Params{"a": "1"}.Merge(Params{"b": int64(2), "a": "1"})
	require.NoError(t, err)
	assert.Equal(t, Params{"a": "1", "b": int64(2)}, merged)

	_, err = Params{"a": "1"}.Merge(Params{"a": "2"})
	assert.ErrorIs(t, err, ErrParamMismatch)
}

func TestRequestBody(t *testing.T) {
	d := Descriptor{
		Query:  `*[_type == "product" && slug.current == $slug][0]`,
		Params: Params{"slug": "paddy-cleaner", "limit": int64(4)},
	}
	body, err := d.RequestBody()
	require.NoError(t, err)
	require.True(t, gjson.ValidBytes(body))
	r := gjson.ParseBytes(body)
	assert.Equal(t, d.Query, r.Get("query").String())
	assert.Equal(t, "paddy-cleaner", r.Get("params.slug").String())
	assert.Equal(t, int64(4), r.Get("params.limit").Int())

	empty, err := Descriptor{Query: `count(*[_type == "post"])`}.RequestBody()
	require.NoError(t, err)
	assert.Equal(t, "{}", gjson.GetBytes(empty, "params").Raw)
}

func TestURLValues(t *testing.T) {
	d := Descriptor{Query: `*[slug.current == $slug]`, Params: Params{"slug": "a b"}}
	v, err := d.URLValues()
	require.NoError(t, err)
	assert.Equal(t, d.Query, v.Get("query"))
	assert.Equal(t, `"a b"`, v.Get("$slug"))
}

func TestDescriptorString(t *testing.T) {
	d := Descriptor{Query: `*[x == $a]`, Params: Params{"a": "v", "b": int64(1)}}
	assert.Equal(t, `*[x == $a] $a="v" $b=1`, d.String())
}

func TestOptionError(t *testing.T) {
	err := InvalidOption("limit", "must not be negative, got %d", -1)
	assert.ErrorIs(t, err, ErrInvalidOption)

	var oe *OptionError
	require.True(t, errors.As(err, &oe))
	assert.Equal(t, "limit", oe.Option)
	assert.Contains(t, err.Error(), "-1")

	assert.ErrorIs(t, UnknownOption("colour"), ErrUnknownOption)
	assert.NotErrorIs(t, UnknownOption("colour"), ErrInvalidOption)
}

func TestIds(t *testing.T) {
	run, err := NewRunId()
	require.NoError(t, err)
	parsed, err := ParseRunId(run.String())
	require.NoError(t, err)
	assert.Equal(t, run, parsed)

	_, err = ParseRunId("not-a-uuid")
	assert.Error(t, err)

	a, _ := NewEntryId()
	b, _ := NewEntryId()
	assert.NotEqual(t, a.String(), b.String())

	var scanned EntryId
	require.NoError(t, scanned.Scan(a.String()))
	assert.Equal(t, a, scanned)
}

func TestContentType(t *testing.T) {
	assert.True(t, TeamMember.Valid())
	assert.False(t, ContentType(`x"]`).Valid())
	assert.True(t, IsIntrinsic("_id"))
	assert.False(t, IsIntrinsic("title"))
}
