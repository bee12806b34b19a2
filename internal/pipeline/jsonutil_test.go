package pipeline

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject_Clean(t *testing.T) {
	got, err := extractJSONObject(`{"a": 1}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 1}`, got)
}

func TestExtractJSONObject_Fenced(t *testing.T) {
	in := "```json\n{\"sheets\": [{\"page\": 1}]}\n```"
	got, err := extractJSONObject(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"sheets": [{"page": 1}]}`, got)
}

func TestExtractJSONObject_BareFence(t *testing.T) {
	in := "```\n{\"x\": true}\n```"
	got, err := extractJSONObject(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"x": true}`, got)
}

func TestExtractJSONObject_Chatter(t *testing.T) {
	in := `Here is the takeoff you asked for:

{"steel_members": [{"size": "W12x26", "count": 12}]}

Let me know if you need anything else.`
	got, err := extractJSONObject(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"steel_members": [{"size": "W12x26", "count": 12}]}`, got)
}

func TestExtractJSONObject_BracesInsideStrings(t *testing.T) {
	in := `note: {"description": "beam {W12x26} at line }3{", "count": 2} trailing`
	got, err := extractJSONObject(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"description": "beam {W12x26} at line }3{", "count": 2}`, got)
}

func TestExtractJSONObject_EscapedQuotes(t *testing.T) {
	in := `{"label": "12\" slab {typ}", "ok": true}`
	got, err := extractJSONObject(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"label": "12\" slab {typ}", "ok": true}`, got)
}

func TestExtractJSONObject_NoObject(t *testing.T) {
	_, err := extractJSONObject("the drawings show no structural steel at all")
	assert.True(t, eris.Is(err, ErrNoJSON))
}

func TestExtractJSONObject_Unbalanced(t *testing.T) {
	_, err := extractJSONObject(`{"a": [1, 2`)
	assert.True(t, eris.Is(err, ErrNoJSON))
}

func TestDecodeOracleJSON(t *testing.T) {
	var out struct {
		Count int `json:"count"`
	}
	err := decodeOracleJSON("```json\n{\"count\": 14}\n```", &out)
	require.NoError(t, err)
	assert.Equal(t, 14, out.Count)
}

func TestDecodeOracleJSON_TypeMismatch(t *testing.T) {
	var out struct {
		Count int `json:"count"`
	}
	err := decodeOracleJSON(`{"count": "fourteen"}`, &out)
	assert.Error(t, err)
	assert.False(t, eris.Is(err, ErrNoJSON))
}
