package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppState(t *testing.T) {
	s := New("f1", nil, []string{"safe-1"})

	assert.NotNil(t, s.Selection)
	assert.Equal(t, "f1", s.Folder())

	assert.False(t, s.SetFolder("f1"))
	assert.True(t, s.SetFolder("f2"))
	assert.Equal(t, "f2", s.Folder())

	assert.True(t, s.IsUnlocked("safe-1"))
	assert.False(t, s.IsUnlocked("safe-2"))
	s.MarkUnlocked("safe-2")
	assert.True(t, s.IsUnlocked("safe-2"))
}
