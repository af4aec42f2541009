package store

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"ccswitch/internal/apperr"
	"ccswitch/internal/fsutil"
	"ccswitch/internal/logger"
)

// DefaultKeep is how many config snapshots the rotator retains.
const DefaultKeep = 10

const backupTimeFormat = "20060102-150405"

// Rotator snapshots the config document before each mutation and prunes
// the oldest copies past the retention cap.
type Rotator struct {
	dir  string
	keep int
}

// NewRotator returns a rotator storing snapshots under dir. keep <= 0
// selects the default retention cap.
func NewRotator(dir string, keep int) *Rotator {
	if keep <= 0 {
		keep = DefaultKeep
	}
	return &Rotator{dir: dir, keep: keep}
}

// Backup describes one retained snapshot.
type Backup struct {
	Name    string
	Path    string
	ModTime time.Time
	Size    int64
}

// Snapshot copies src into the backup directory under a timestamped name,
// then prunes old snapshots. A missing src is not an error; there is
// nothing to preserve on first save.
func (r *Rotator) Snapshot(src string) error {
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return nil
	}

	name := "config-" + time.Now().Format(backupTimeFormat) + ".json"
	dst := filepath.Join(r.dir, name)
	// Several mutations inside one second land on the same stem; suffix
	// them so no snapshot is silently overwritten.
	for n := 1; ; n++ {
		if _, err := os.Stat(dst); os.IsNotExist(err) {
			break
		}
		dst = filepath.Join(r.dir, strings.TrimSuffix(name, ".json")+"."+strconv.Itoa(n)+".json")
	}

	if err := fsutil.CopyFile(src, dst); err != nil {
		return apperr.Wrap(apperr.Persistence, err, "snapshot config backup")
	}
	r.prune()
	return nil
}

// List returns the retained snapshots, newest first.
func (r *Rotator) List() ([]Backup, error) {
	entries, err := os.ReadDir(r.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, err, "list config backups")
	}

	var out []Backup
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), "config-") || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, Backup{
			Name:    e.Name(),
			Path:    filepath.Join(r.dir, e.Name()),
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ModTime.Equal(out[j].ModTime) {
			stemI, sufI := splitSnapshotName(out[i].Name)
			stemJ, sufJ := splitSnapshotName(out[j].Name)
			if stemI == stemJ {
				return sufI > sufJ
			}
			return stemI > stemJ
		}
		return out[i].ModTime.After(out[j].ModTime)
	})
	return out, nil
}

// splitSnapshotName separates the timestamp stem from the collision
// counter: "config-<ts>.json" yields 0 and "config-<ts>.N.json" yields
// N. Within one second a higher counter marks the newer copy.
func splitSnapshotName(name string) (string, int) {
	stem := strings.TrimSuffix(name, ".json")
	if i := strings.LastIndex(stem, "."); i >= 0 {
		if n, err := strconv.Atoi(stem[i+1:]); err == nil {
			return stem[:i], n
		}
	}
	return stem, 0
}

// Read returns the raw bytes of the named snapshot.
func (r *Rotator) Read(name string) ([]byte, error) {
	if name != filepath.Base(name) {
		return nil, apperr.New(apperr.Validation, "invalid backup name %q", name)
	}
	data, err := os.ReadFile(filepath.Join(r.dir, name))
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, err, "read backup %s", name)
	}
	return data, nil
}

// prune deletes the oldest snapshots beyond the retention cap. Pruning is
// best effort; a failure here never blocks the save that triggered it.
func (r *Rotator) prune() {
	backups, err := r.List()
	if err != nil {
		logger.Warn(context.Background(), "Could not prune config backups", "error", err)
		return
	}
	for _, b := range backups[min(r.keep, len(backups)):] {
		if err := os.Remove(b.Path); err != nil {
			logger.Warn(context.Background(), "Could not remove old config backup", "path", b.Path, "error", err)
		}
	}
}
