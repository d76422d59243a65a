package compiler

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_MarshalPreservesInsertionOrder(t *testing.T) {
	doc := NewDocument()
	doc.Set("zeta", 1)
	doc.Set("alpha", 2)
	doc.Set("mid", 3)

	out, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":1,"alpha":2,"mid":3}`, string(out))
}

func TestDocument_SetReplacesInPlace(t *testing.T) {
	doc := NewDocument()
	doc.Set("a", 1)
	doc.Set("b", 2)
	doc.Set("a", 9)

	out, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Equal(t, `{"a":9,"b":2}`, string(out))
	assert.Equal(t, 2, doc.Len())
}

func TestDocument_Nesting(t *testing.T) {
	inner := NewDocument()
	inner.Set("x", "y")
	doc := NewDocument()
	doc.Set("outer", inner)

	out, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Equal(t, `{"outer":{"x":"y"}}`, string(out))
}

func TestDocument_Get(t *testing.T) {
	doc := NewDocument()
	doc.Set("k", 42)

	v, ok := doc.Get("k")
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	_, ok = doc.Get("missing")
	assert.False(t, ok)
}

func TestDocument_Empty(t *testing.T) {
	out, err := json.Marshal(NewDocument())
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(out))
}
