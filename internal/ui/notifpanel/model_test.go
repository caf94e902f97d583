package notifpanel

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateShortStringsUnchanged(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 10))
	assert.Equal(t, "hello", truncate("hello", 5))
	assert.Equal(t, "", truncate("", 10))
}

func TestTruncateAppendsEllipsis(t *testing.T) {
	got := truncate("a long notification message", 10)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, utf8.RuneCountInString(got), 10)
}

func TestTruncateCountsRunesNotBytes(t *testing.T) {
	// Each rune here is multiple bytes wide.
	s := "Jalan Kebersihan área número überflüssig 日本語テキスト"

	got := truncate(s, 20)
	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, utf8.RuneCountInString(got), 20)

	// A string of exactly max runes passes through intact.
	exact := strings.Repeat("日", 8)
	assert.Equal(t, exact, truncate(exact, 8))
}

func TestTruncateEnforcesMinimumWidth(t *testing.T) {
	got := truncate("notification", 0)
	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
}
