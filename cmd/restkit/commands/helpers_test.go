package commands

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAttrs(t *testing.T) {
	t.Parallel()

	attrs, err := parseAttrs([]string{"name=Marla", "age=30", "score=1.5", "admin=true", "note=null"})
	require.NoError(t, err)

	assert.Equal(t, map[string]interface{}{
		"name":  "Marla",
		"age":   int64(30),
		"score": 1.5,
		"admin": true,
		"note":  nil,
	}, attrs)
}

func TestParseAttrsInvalid(t *testing.T) {
	t.Parallel()

	_, err := parseAttrs([]string{"no-equals-sign"})
	require.Error(t, err)

	_, err = parseAttrs([]string{"=value"})
	require.Error(t, err)
}

func TestParseAttrsKeepsEqualsInValue(t *testing.T) {
	t.Parallel()

	attrs, err := parseAttrs([]string{"query=a=b"})
	require.NoError(t, err)
	assert.Equal(t, "a=b", attrs["query"])
}

func TestParseParams(t *testing.T) {
	t.Parallel()

	params, err := parseParams([]string{"page=2", "member=true"})
	require.NoError(t, err)
	assert.Equal(t, "page=2&member=true", params.Encode())

	_, err = parseParams([]string{"broken"})
	require.Error(t, err)
}

func TestValueToNative(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(42), valueToNative(json.Number("42")))
	assert.InDelta(t, 1.5, valueToNative(json.Number("1.5")), 0.0001)
	assert.Equal(t, "hello", valueToNative("hello"))
	assert.Equal(t, []interface{}{int64(1), "x"}, valueToNative([]interface{}{json.Number("1"), "x"}))
}

func TestAttrDisplay(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", attrDisplay(nil))
	assert.Equal(t, "plain", attrDisplay("plain"))
	assert.Equal(t, "42", attrDisplay(json.Number("42")))
	assert.Equal(t, "true", attrDisplay(true))
	assert.Equal(t, "3 items", attrDisplay([]interface{}{1, 2, 3}))
}
