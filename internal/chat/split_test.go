package chat

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"short"}, Split("short", 10))
	assert.Equal(t, []string{""}, Split("", 10))

	chunks := Split(strings.Repeat("é", 25), 10)
	require.Len(t, chunks, 3)
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 10)
	}
	assert.Equal(t, strings.Repeat("é", 25), strings.Join(chunks, ""))

	assert.Equal(t, []string{"aaaaaaa\n", "bbbbbbbbbb"}, Split("aaaaaaa\nbbbbbbbbbb", 10))
	assert.Equal(t, []string{"a\nbbbbbbbb", "bb"}, Split("a\nbbbbbbbbbb", 10))
}
