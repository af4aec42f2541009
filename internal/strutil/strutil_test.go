package strutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLimit(t *testing.T) {
	assert.Equal(t, "short", Limit("short", 10))
	assert.Equal(t, "exact", Limit("exact", 5))
	assert.Equal(t, "long…", Limit("longer than that", 5))
	assert.Equal(t, "", Limit("anything", 0))
	assert.Equal(t, "", Limit("anything", -1))
}

func TestLimitWideRunes(t *testing.T) {
	// Each CJK rune occupies two cells.
	assert.Equal(t, "你好", Limit("你好", 4))
	assert.Equal(t, "你…", Limit("你好世界", 4))
}

func TestOneLine(t *testing.T) {
	assert.Equal(t, "a b c", OneLine("a\nb\n\nc"))
	assert.Equal(t, "", OneLine("\n\n"))
}

func TestRepeat(t *testing.T) {
	assert.Equal(t, "--", Repeat("-", 2))
	assert.Equal(t, "", Repeat("-", 0))
	assert.Equal(t, "", Repeat("-", -3))
}
