package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject_BareObject(t *testing.T) {
	span, err := ExtractJSONObject(`{"category": "billing", "priority": "low"}`)
	require.NoError(t, err)
	assert.Equal(t, `{"category": "billing", "priority": "low"}`, span)
}

func TestExtractJSONObject_SurroundedByProse(t *testing.T) {
	text := "Sure! Here is the classification:\n```json\n{\"category\": \"technical\", \"priority\": \"high\"}\n```\nLet me know if you need anything else."
	span, err := ExtractJSONObject(text)
	require.NoError(t, err)
	assert.Equal(t, `{"category": "technical", "priority": "high"}`, span)
}

func TestExtractJSONObject_NestedBraces(t *testing.T) {
	span, err := ExtractJSONObject(`prefix {"a": {"b": 1}, "c": 2} suffix`)
	require.NoError(t, err)
	assert.Equal(t, `{"a": {"b": 1}, "c": 2}`, span)
}

func TestExtractJSONObject_BracesInsideStrings(t *testing.T) {
	span, err := ExtractJSONObject(`{"category": "general", "note": "use {curly} braces"}`)
	require.NoError(t, err)
	assert.Equal(t, `{"category": "general", "note": "use {curly} braces"}`, span)
}

func TestExtractJSONObject_EscapedQuoteInsideString(t *testing.T) {
	span, err := ExtractJSONObject(`{"note": "a \"quoted\" {brace}"}`)
	require.NoError(t, err)
	assert.Equal(t, `{"note": "a \"quoted\" {brace}"}`, span)
}

func TestExtractJSONObject_NoObject(t *testing.T) {
	_, err := ExtractJSONObject("no json here at all")
	assert.ErrorIs(t, err, ErrNoJSONObject)
}

func TestExtractJSONObject_UnbalancedObject(t *testing.T) {
	_, err := ExtractJSONObject(`{"category": "billing"`)
	assert.ErrorIs(t, err, ErrNoJSONObject)
}
