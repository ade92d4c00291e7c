package jsonvalue

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_RoundTripKeepsNumbersAndNesting(t *testing.T) {
	src := `{"hero":{"title":"Solar","price":12.50,"tags":["a","b"],"visible":true},"footer":null}`

	v, err := Parse([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, Object, v.Kind())

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, src, string(out))
	assert.Contains(t, string(out), "12.50")
}

func TestParse_RejectsTrailingData(t *testing.T) {
	_, err := Parse([]byte(`{"a":1} {"b":2}`))
	assert.Error(t, err)

	_, err = Parse([]byte(`{"a":`))
	assert.Error(t, err)
}

func TestParse_KeepsOutOfRangeNumberLiteral(t *testing.T) {
	v, err := Parse([]byte(`{"big":1e400,"id":9007199254740993}`))
	require.NoError(t, err)

	big, ok := v.Field("big")
	require.True(t, ok)
	_, ok = big.AsNumber()
	assert.False(t, ok)
	lit, ok := big.NumberLiteral()
	require.True(t, ok)
	assert.Equal(t, "1e400", lit)

	id, _ := v.Field("id")
	lit, _ = id.NumberLiteral()
	assert.Equal(t, "9007199254740993", lit)

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Contains(t, string(out), "1e400")
}

func TestUnmarshalJSON_InsideStruct(t *testing.T) {
	var payload struct {
		Data Value `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"data":{"items":[1,2,3]}}`), &payload))

	items, ok := payload.Data.Get("items")
	require.True(t, ok)
	assert.Equal(t, 3, items.Len())
}

func TestEmptyContainersMarshal(t *testing.T) {
	out, err := json.Marshal(ArrayValue())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(out))

	out, err = json.Marshal(EmptyObject())
	require.NoError(t, err)
	assert.Equal(t, "{}", string(out))
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"same object different key order", `{"a":1,"b":[true,null]}`, `{"b":[true,null],"a":1}`, true},
		{"numbers by value", `{"n":1}`, `{"n":1.0}`, true},
		{"different array order", `[1,2]`, `[2,1]`, false},
		{"extra key", `{"a":1}`, `{"a":1,"b":2}`, false},
		{"kind mismatch", `"1"`, `1`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(MustParse(tt.a), MustParse(tt.b)))
		})
	}
}

func TestMerge(t *testing.T) {
	base := MustParse(`{"hero":{"title":"X","subtitle":"S"},"list":[1,2],"keep":true}`)
	patch := MustParse(`{"hero":{"title":"Y"},"list":[3],"footer":{"text":"F"}}`)

	merged := Merge(base, patch)

	assert.True(t, Equal(MustParse(`{"hero":{"title":"Y","subtitle":"S"},"list":[3],"keep":true,"footer":{"text":"F"}}`), merged))
	// inputs untouched
	assert.True(t, Equal(MustParse(`{"hero":{"title":"X","subtitle":"S"},"list":[1,2],"keep":true}`), base))
}

func TestGetAndSetPath(t *testing.T) {
	doc := MustParse(`{"hero":{"buttons":[{"label":"Call"}]}}`)

	label, ok := doc.Get("hero.buttons.0.label")
	require.True(t, ok)
	s, _ := label.AsString()
	assert.Equal(t, "Call", s)

	_, ok = doc.Get("hero.buttons.3.label")
	assert.False(t, ok)

	updated, err := doc.Set("hero.buttons.0.label", StringValue("Quote"))
	require.NoError(t, err)
	assert.Equal(t, "Quote", mustString(t, updated, "hero.buttons.0.label"))
	assert.Equal(t, "Call", mustString(t, doc, "hero.buttons.0.label"))

	appended, err := doc.Set("hero.buttons.1", MustParse(`{"label":"Email"}`))
	require.NoError(t, err)
	buttons, _ := appended.Get("hero.buttons")
	assert.Equal(t, 2, buttons.Len())

	created, err := EmptyObject().Set("seo.meta.title", StringValue("Home"))
	require.NoError(t, err)
	assert.Equal(t, "Home", mustString(t, created, "seo.meta.title"))
}

func TestSetPath_Errors(t *testing.T) {
	doc := MustParse(`{"title":"x","items":[1]}`)

	_, err := doc.Set("title.sub", StringValue("y"))
	assert.Error(t, err)

	_, err = doc.Set("items.5", IntValue(2))
	assert.Error(t, err)

	_, err = doc.Set("items.first", IntValue(2))
	assert.Error(t, err)

	_, err = doc.Set("a..b", IntValue(2))
	assert.Error(t, err)
}

func TestSetPath_EmptyPathReplacesRoot(t *testing.T) {
	out, err := MustParse(`{"a":1}`).Set("", StringValue("root"))
	require.NoError(t, err)
	s, ok := out.AsString()
	assert.True(t, ok)
	assert.Equal(t, "root", s)
}

func mustString(t *testing.T, v Value, path string) string {
	t.Helper()
	f, ok := v.Get(path)
	require.True(t, ok, "missing %s", path)
	s, ok := f.AsString()
	require.True(t, ok, "%s is not a string", path)
	return s
}
