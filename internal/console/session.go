// Package console owns the real terminal: mode transitions (raw input,
// alternate screen, cursor visibility), TTY detection, color profile
// selection, and the raw key reader / prompt primitives used by the legacy
// interactive mode. Exactly one component owns the terminal at a time; the
// Session type makes that ownership explicit and restorable on every exit
// path, including panics.
package console

import (
	"io"
	"os"
	"sync"

	"ccswitch/internal/apperr"

	"golang.org/x/term"
)

// ANSI sequences for the session transitions.
const (
	seqEnterAltScreen = "\x1b[?1049h"
	seqLeaveAltScreen = "\x1b[?1049l"
	seqHideCursor     = "\x1b[?25l"
	seqShowCursor     = "\x1b[?25h"
	seqClearScreen    = "\x1b[2J\x1b[H"
)

// Mockable terminal hooks, swapped out by tests that have no TTY.
var (
	termIsTerminal = term.IsTerminal
	termMakeRaw    = func(fd int) (*term.State, error) { return term.MakeRaw(fd) }
	termRestore    = func(fd int, st *term.State) error { return term.Restore(fd, st) }
)

// IsInteractive reports whether both stdin and stdout are terminals.
func IsInteractive() bool {
	return termIsTerminal(int(os.Stdin.Fd())) && termIsTerminal(int(os.Stdout.Fd()))
}

// Session represents exclusive ownership of the terminal in raw
// alternate-screen mode. Obtain one with Enter; every Enter must be paired
// with exactly one effective Restore, which the deferred guard pattern
// guarantees:
//
//	s, err := console.Enter()
//	if err != nil { ... }
//	defer s.Restore()
//	defer console.RestoreOnPanic(s)
type Session struct {
	mu     sync.Mutex
	out    io.Writer
	fd     int
	prev   *term.State
	active bool
}

// Enter switches the terminal into raw input + alternate screen with a
// hidden cursor. It fails fast with a TerminalUnavailable error when
// stdin/stdout is not an interactive terminal, and with a TerminalMode
// error when the mode switch itself fails.
func Enter() (*Session, error) {
	if !IsInteractive() {
		return nil, apperr.New(apperr.TerminalUnavailable, "stdin/stdout is not an interactive terminal")
	}
	s := &Session{out: os.Stdout, fd: int(os.Stdin.Fd())}
	if err := s.acquire(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) acquire() error {
	prev, err := termMakeRaw(s.fd)
	if err != nil {
		return apperr.Wrap(apperr.TerminalMode, err, "failed to enter raw mode")
	}
	s.prev = prev
	if _, err := io.WriteString(s.out, seqEnterAltScreen+seqClearScreen+seqHideCursor); err != nil {
		_ = termRestore(s.fd, prev)
		s.prev = nil
		return apperr.Wrap(apperr.TerminalMode, err, "failed to enter alternate screen")
	}
	s.active = true
	return nil
}

func (s *Session) release() error {
	var firstErr error
	if s.prev != nil {
		if err := termRestore(s.fd, s.prev); err != nil && firstErr == nil {
			firstErr = apperr.Wrap(apperr.TerminalMode, err, "failed to restore terminal mode")
		}
		s.prev = nil
	}
	if _, err := io.WriteString(s.out, seqShowCursor+seqLeaveAltScreen); err != nil && firstErr == nil {
		firstErr = apperr.Wrap(apperr.TerminalMode, err, "failed to leave alternate screen")
	}
	s.active = false
	return firstErr
}

// Restore reverses Enter. It is idempotent: calling it on an already
// restored (or suspended) session is a no-op.
func (s *Session) Restore() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return nil
	}
	return s.release()
}

// Suspend fully tears the session down so another owner (the legacy flow,
// an external editor) can use the terminal. The session stays resumable.
func (s *Session) Suspend() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return nil
	}
	return s.release()
}

// Resume re-acquires the terminal after Suspend. It is safe to call even
// if the prior Suspend failed partway: acquisition starts from scratch.
func (s *Session) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		return nil
	}
	return s.acquire()
}

// Active reports whether the session currently owns the terminal.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// RestoreOnPanic restores the terminal before letting a panic continue to
// propagate, so the panic message is printed on a sane screen.
// Usage: defer console.RestoreOnPanic(s)
func RestoreOnPanic(s *Session) {
	if r := recover(); r != nil {
		_ = s.Restore()
		panic(r)
	}
}

// Size returns the terminal dimensions, preferring stdout over stderr.
// Returns 0, 0 when neither is a terminal.
func Size() (int, int) {
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		return w, h
	}
	if w, h, err := term.GetSize(int(os.Stderr.Fd())); err == nil {
		return w, h
	}
	return 0, 0
}
