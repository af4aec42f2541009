package console

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readOne(t *testing.T, input string) Key {
	t.Helper()
	k, err := ReadKey(strings.NewReader(input))
	require.NoError(t, err)
	return k
}

func TestReadKeyBasics(t *testing.T) {
	assert.Equal(t, Key{Kind: KeyRune, Rune: 'q'}, readOne(t, "q"))
	assert.Equal(t, Key{Kind: KeyEnter}, readOne(t, "\r"))
	assert.Equal(t, Key{Kind: KeyEnter}, readOne(t, "\n"))
	assert.Equal(t, Key{Kind: KeyTab}, readOne(t, "\t"))
	assert.Equal(t, Key{Kind: KeyBackspace}, readOne(t, "\x7f"))
	assert.Equal(t, Key{Kind: KeyInterrupt}, readOne(t, "\x03"))
}

func TestReadKeyArrows(t *testing.T) {
	assert.Equal(t, Key{Kind: KeyUp}, readOne(t, "\x1b[A"))
	assert.Equal(t, Key{Kind: KeyDown}, readOne(t, "\x1b[B"))
	assert.Equal(t, Key{Kind: KeyRight}, readOne(t, "\x1b[C"))
	assert.Equal(t, Key{Kind: KeyLeft}, readOne(t, "\x1bOD"))
}

func TestReadKeyBareEscape(t *testing.T) {
	assert.Equal(t, Key{Kind: KeyEscape}, readOne(t, "\x1b"))
	// ESC followed by a non-sequence byte is still an escape; the
	// trailing byte is consumed with it.
	assert.Equal(t, Key{Kind: KeyEscape}, readOne(t, "\x1bq"))
}

func TestReadKeyUTF8(t *testing.T) {
	assert.Equal(t, Key{Kind: KeyRune, Rune: 'ü'}, readOne(t, "ü"))
	assert.Equal(t, Key{Kind: KeyRune, Rune: '中'}, readOne(t, "中"))
}

func TestReadKeySkipsControlBytes(t *testing.T) {
	// A stray control byte is swallowed; the next printable key wins.
	assert.Equal(t, Key{Kind: KeyRune, Rune: 'x'}, readOne(t, "\x01x"))
}

func TestReadKeyEOF(t *testing.T) {
	_, err := ReadKey(strings.NewReader(""))
	assert.Error(t, err)
}
