package store

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"ccswitch/internal/apperr"
	"ccswitch/internal/fsutil"
	"ccswitch/internal/logger"

	"github.com/gofrs/flock"
)

// Store serializes every mutation of the canonical document and persists
// it with backup-then-atomic-replace discipline. Readers get deep-copied
// snapshots, so a reader can never observe a half-applied mutation.
type Store struct {
	mu      sync.Mutex
	path    string
	lock    *flock.Flock
	rotator *Rotator
	cfg     *Config
}

// Open loads (or initializes) the canonical document at path, migrating
// older schemas in place. Backups rotate under backupDir.
func Open(path, backupDir string) (*Store, error) {
	s := &Store{
		path:    path,
		lock:    flock.New(path + ".lock"),
		rotator: NewRotator(backupDir, DefaultKeep),
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		logger.Info(context.Background(), "No config document found, starting fresh", "path", path)
		s.cfg = NewConfig()
		return s, nil
	case err != nil:
		return nil, apperr.Wrap(apperr.Persistence, err, "read config document")
	}

	cfg, migrated, err := decode(data)
	if err != nil {
		return nil, err
	}
	s.cfg = cfg

	if migrated {
		logger.Notice(context.Background(), "Migrated config document to current schema", "version", SchemaVersion)
		if err := s.persist(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Path returns the location of the persisted document.
func (s *Store) Path() string { return s.path }

// Backups exposes the snapshot rotator for listing and reading backups.
func (s *Store) Backups() *Rotator { return s.rotator }

// Snapshot returns a deep copy of the current document.
func (s *Store) Snapshot() *Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Clone()
}

// Mutate applies fn to a clone of the document, validates the result, and
// persists it. Only on successful persist does the clone become the live
// document; any failure leaves the previous state untouched, in memory
// and on disk.
func (s *Store) Mutate(fn func(cfg *Config) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cfg.Clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return apperr.Wrap(apperr.Validation, err, "config document invalid after change")
	}

	prev := s.cfg
	s.cfg = next
	if err := s.persist(); err != nil {
		s.cfg = prev
		return err
	}
	return nil
}

// RestoreBackup replaces the document with the named snapshot. The current
// state is itself snapshotted first, so a restore is always reversible.
func (s *Store) RestoreBackup(name string) error {
	data, err := s.rotator.Read(name)
	if err != nil {
		return err
	}
	cfg, _, err := decode(data)
	if err != nil {
		return apperr.Wrap(apperr.Validation, err, "backup %s is not a valid config document", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.cfg
	s.cfg = cfg
	if err := s.persist(); err != nil {
		s.cfg = prev
		return err
	}
	logger.Notice(context.Background(), "Restored config document from backup", "backup", name)
	return nil
}

// persist writes the live document to disk. Callers hold s.mu. The file
// lock guards against a second process racing the backup+replace pair.
func (s *Store) persist() error {
	if err := s.lock.Lock(); err != nil {
		return apperr.Wrap(apperr.Persistence, err, "acquire config lock")
	}
	defer func() {
		if err := s.lock.Unlock(); err != nil {
			logger.Warn(context.Background(), "Could not release config lock", "error", err)
		}
	}()

	if err := s.rotator.Snapshot(s.path); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s.cfg, "", "  ")
	if err != nil {
		return apperr.Wrap(apperr.Persistence, err, "encode config document")
	}
	data = append(data, '\n')

	if err := fsutil.WriteFileAtomic(s.path, data, 0o600); err != nil {
		return apperr.Wrap(apperr.Persistence, err, "write config document")
	}
	return nil
}
