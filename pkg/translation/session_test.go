package translation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSession(t *testing.T) {
	s := NewSession()

	first := s.Begin()
	assert.True(t, first.Current())

	second := s.Begin()
	assert.False(t, first.Current())
	assert.True(t, second.Current())

	s.Close()
	assert.False(t, second.Current())
	assert.False(t, s.Begin().Current())
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeMissingAPIKey, ErrorCode(missingAPIKey("GPT-4o")))
	assert.Equal(t, "", ErrorCode(ErrEmptyText))
	assert.Equal(t, "", ErrorCode(nil))
	assert.ErrorIs(t, stale(), ErrStale)
}
