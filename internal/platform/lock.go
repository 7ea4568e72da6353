package platform

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// LockRetryDelay is how often a waiting LockDir retries the lock
const LockRetryDelay = 200 * time.Millisecond

// LockPath returns the lock file guarding dir inside lockRoot. Equivalent
// spellings of the same directory map to the same lock.
func LockPath(lockRoot, dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	sum := sha256.Sum256([]byte(filepath.Clean(abs)))
	return filepath.Join(lockRoot, "locks", hex.EncodeToString(sum[:8])+".lock"), nil
}

// LockDir takes an exclusive lock for the package directory dir, waiting
// until it is free or ctx is done. The returned func releases the lock.
// Locks live under lockRoot so package directories are left untouched.
func LockDir(ctx context.Context, lockRoot, dir string) (func(), error) {
	lockPath, err := LockPath(lockRoot, dir)
	if err != nil {
		return func() {}, err
	}
	if err := os.MkdirAll(filepath.Dir(lockPath), DefaultDirPermissions); err != nil {
		return func() {}, fmt.Errorf("create lock directory: %w", err)
	}

	l := flock.New(lockPath)
	locked, err := l.TryLockContext(ctx, LockRetryDelay)
	if err != nil {
		return func() {}, fmt.Errorf("cannot lock %s: %w", dir, err)
	}
	if !locked {
		return func() {}, fmt.Errorf("cannot lock %s (lock: %s)", dir, lockPath)
	}
	return func() { _ = l.Unlock() }, nil
}
