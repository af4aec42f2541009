// Package services implements the application's operations: provider,
// MCP server, and prompt management, plus backup and settings actions.
// Every mutation goes through the store's guarded Mutate and is followed
// by a projection of the affected apps' live artifacts, so the canonical
// document and the live files never drift apart.
package services

import (
	"time"

	"ccswitch/internal/live"
	"ccswitch/internal/store"

	"github.com/google/uuid"
)

// Services bundles the store behind the operation set both front ends
// (TUI and legacy console) share.
type Services struct {
	store *store.Store
}

// New wraps st.
func New(st *store.Store) *Services {
	return &Services{store: st}
}

// Snapshot returns a read-only deep copy of the canonical document.
func (s *Services) Snapshot() *store.Config {
	return s.store.Snapshot()
}

// project is mockable for tests that have no live app directories.
var project = live.Project

// mutateAndProject applies fn, then projects the named apps. The mutation
// is already durable when projection runs; a projection failure is
// surfaced but does not roll the document back.
func (s *Services) mutateAndProject(fn func(cfg *store.Config) error, apps ...store.AppType) error {
	if err := s.store.Mutate(fn); err != nil {
		return err
	}
	return project(s.store.Snapshot(), apps...)
}

func newID() string { return uuid.NewString() }

func nowMillis() int64 { return time.Now().UnixMilli() }
