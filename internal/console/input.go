package console

import (
	"io"
	"time"
)

// Key is the semantic vocabulary the legacy dispatcher translates raw
// terminal input into. Anything that is not one of the named keys arrives
// as KeyRune with Rune set, so text-entry contexts can consume it.
type KeyKind int

const (
	KeyRune KeyKind = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyTab
	KeyInterrupt
)

// Key is a decoded input event.
type Key struct {
	Kind KeyKind
	Rune rune
}

// ReadKey blocks on the next key from r (which must be in raw mode) and
// decodes common escape sequences. Ctrl+C is reported as KeyInterrupt so
// callers can guarantee an exit path even in raw mode.
func ReadKey(r io.Reader) (Key, error) {
	var b [1]byte
	if _, err := r.Read(b[:]); err != nil {
		return Key{}, err
	}

	switch b[0] {
	case 0x03: // Ctrl+C
		return Key{Kind: KeyInterrupt}, nil
	case '\r', '\n':
		return Key{Kind: KeyEnter}, nil
	case 0x7f, 0x08:
		return Key{Kind: KeyBackspace}, nil
	case '\t':
		return Key{Kind: KeyTab}, nil
	case 0x1b:
		return readEscape(r)
	}

	if b[0] < 0x20 {
		// Other control characters are ignored at this layer.
		return ReadKey(r)
	}
	if b[0] < 0x80 {
		return Key{Kind: KeyRune, Rune: rune(b[0])}, nil
	}
	return decodeUTF8(r, b[0])
}

// escapeWait bounds how long the reader waits for the rest of an escape
// sequence before treating a lone ESC byte as the Escape key.
const escapeWait = 50 * time.Millisecond

type deadlineReader interface {
	SetReadDeadline(t time.Time) error
}

// readEscape decodes CSI arrow sequences. A bare ESC (no follow-up bytes
// arriving within escapeWait) is reported as KeyEscape; without deadline
// support (non-file readers) a read error has the same effect.
func readEscape(r io.Reader) (Key, error) {
	dl, bounded := r.(deadlineReader)
	if bounded {
		_ = dl.SetReadDeadline(time.Now().Add(escapeWait))
		defer func() { _ = dl.SetReadDeadline(time.Time{}) }()
	}

	var b [1]byte
	if _, err := r.Read(b[:]); err != nil {
		return Key{Kind: KeyEscape}, nil
	}
	if b[0] != '[' && b[0] != 'O' {
		return Key{Kind: KeyEscape}, nil
	}
	if _, err := r.Read(b[:]); err != nil {
		return Key{Kind: KeyEscape}, nil
	}
	switch b[0] {
	case 'A':
		return Key{Kind: KeyUp}, nil
	case 'B':
		return Key{Kind: KeyDown}, nil
	case 'C':
		return Key{Kind: KeyRight}, nil
	case 'D':
		return Key{Kind: KeyLeft}, nil
	}
	return Key{Kind: KeyEscape}, nil
}

// decodeUTF8 finishes reading a multi-byte rune whose first byte is b0.
func decodeUTF8(r io.Reader, b0 byte) (Key, error) {
	var n int
	switch {
	case b0&0xe0 == 0xc0:
		n = 1
	case b0&0xf0 == 0xe0:
		n = 2
	case b0&0xf8 == 0xf0:
		n = 3
	default:
		return ReadKey(r)
	}
	buf := make([]byte, n+1)
	buf[0] = b0
	if _, err := io.ReadFull(r, buf[1:]); err != nil {
		return Key{}, err
	}
	runes := []rune(string(buf))
	if len(runes) == 0 {
		return ReadKey(r)
	}
	return Key{Kind: KeyRune, Rune: runes[0]}, nil
}
