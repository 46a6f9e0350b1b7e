package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Uniqueness(t *testing.T) {
	ids := make(map[string]bool)
	count := 1000

	for i := 0; i < count; i++ {
		id, err := Generate("evt")
		require.NoError(t, err)
		assert.False(t, ids[id], "ID should be unique: %s", id)
		ids[id] = true
	}

	assert.Len(t, ids, count)
}

func TestGenerate_Format(t *testing.T) {
	id, err := Generate("evt")
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(id, "evt-"))

	suffix := strings.TrimPrefix(id, "evt-")
	assert.Len(t, suffix, eventLength)
	for _, r := range suffix {
		assert.Contains(t, eventAlphabet, string(r))
	}
}

func TestMustGenerate(t *testing.T) {
	assert.NotPanics(t, func() {
		id := MustGenerate("evt")
		assert.True(t, strings.HasPrefix(id, "evt-"))
	})
}
