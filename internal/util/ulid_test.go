package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIDMonotonic(t *testing.T) {
	at := time.UnixMilli(1_700_000_000_000)
	a := NewIDAt(at)
	b := NewIDAt(at)

	assert.Len(t, a, 26)
	assert.Less(t, a, b)
}

func TestIDTime(t *testing.T) {
	at := time.UnixMilli(1_700_000_000_123)
	got, ok := IDTime(NewIDAt(at))
	require.True(t, ok)
	assert.True(t, at.Equal(got))

	_, ok = IDTime("not-a-ulid")
	assert.False(t, ok)
}
