package online

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 40))
	assert.Equal(t, "abc", truncate("abcdef", 3))

	// each hangul syllable is three bytes
	got := truncate("가나다", 4)
	assert.Equal(t, "가", got)
	assert.True(t, utf8.ValidString(got))

	got = truncate("é…é…", 4)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "é", got)
	assert.Empty(t, truncate("가", 2))
}
