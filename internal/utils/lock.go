package utils

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	homedir "github.com/mitchellh/go-homedir"
)

const lockFileSuffix = ".lock"

// lockRetry is how often a waiting poller retries the lock.
var lockRetry = 250 * time.Millisecond

// DBLock keeps two polls from writing snapshots at once. The lock file sits
// next to the database as <db>.lock.
type DBLock struct {
	file *flock.Flock
}

func NewDBLock(dbPath string) (*DBLock, error) {
	abs, err := GetAbsDBPath(dbPath)
	if err != nil {
		return nil, fmt.Errorf("resolve db path: %w", err)
	}
	return &DBLock{file: flock.New(abs + lockFileSuffix)}, nil
}

// Path is the lock file.
func (l *DBLock) Path() string { return l.file.Path() }

// Lock takes the lock, waiting for a running poll until ctx is done.
func (l *DBLock) Lock(ctx context.Context) error {
	ok, err := l.file.TryLock()
	if err != nil {
		return fmt.Errorf("lock %s: %w", l.Path(), err)
	}
	if ok {
		return nil
	}
	Log.Warnf("A poll is already writing to %s, waiting", l.Path())
	ok, err = l.file.TryLockContext(ctx, lockRetry)
	if err != nil {
		return fmt.Errorf("lock %s: %w", l.Path(), err)
	}
	if !ok {
		return fmt.Errorf("lock %s: not acquired", l.Path())
	}
	return nil
}

func (l *DBLock) Unlock() error {
	err := l.file.Unlock()
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("unlock %s: %w", l.Path(), err)
	}
	return nil
}

// GetAbsDBPath resolves the snapshot database path. Empty means
// ~/.config/gcpath/gcpath.sqlite.
func GetAbsDBPath(dbPath string) (string, error) {
	if dbPath != "" {
		return filepath.Abs(dbPath)
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "gcpath", "gcpath.sqlite"), nil
}
