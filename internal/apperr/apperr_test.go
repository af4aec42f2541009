package apperr

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCarriesKindAndMessage(t *testing.T) {
	err := New(Validation, "name %q is taken", "work")
	assert.Equal(t, `name "work" is taken`, err.Error())
	assert.True(t, IsKind(err, Validation))
	assert.False(t, IsKind(err, Persistence))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := os.ErrNotExist
	err := Wrap(Persistence, cause, "writing settings")

	assert.Equal(t, "writing settings: file does not exist", err.Error())
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.True(t, IsKind(err, Persistence))
}

func TestIsKindThroughFmtWrapping(t *testing.T) {
	inner := New(Migration, "schema version 99")
	outer := fmt.Errorf("opening store: %w", inner)

	assert.True(t, IsKind(outer, Migration))
	assert.False(t, IsKind(outer, Validation))
}

func TestIsKindOnUntypedError(t *testing.T) {
	assert.False(t, IsKind(errors.New("plain"), Validation))
	assert.False(t, IsKind(nil, Validation))
}

func TestKindOf(t *testing.T) {
	kind, ok := KindOf(New(Probe, "timeout"))
	require.True(t, ok)
	assert.Equal(t, Probe, kind)

	_, ok = KindOf(errors.New("plain"))
	assert.False(t, ok)
}

func TestKindStrings(t *testing.T) {
	assert.Equal(t, "validation failure", Validation.String())
	assert.Equal(t, "terminal unavailable", TerminalUnavailable.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
