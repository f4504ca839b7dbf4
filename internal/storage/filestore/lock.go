package filestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	LockFile = ".lock"

	lockPoll    = 10 * time.Millisecond
	lockTimeout = 10 * time.Second
	// A lock file older than this is left over from a crashed process.
	staleLockAge = 30 * time.Second
)

// dirGates serializes lock attempts on one data directory within this
// process. The lock file alone is not enough on filesystems whose exclusive
// create is not atomic.
var dirGates sync.Map

func gateFor(dir string) chan struct{} {
	gate, _ := dirGates.LoadOrStore(filepath.Clean(dir), make(chan struct{}, 1))
	return gate.(chan struct{})
}

// lock takes the data directory's write lock, shared with every process
// using the same directory. The returned func releases it.
func (s *Store) lock(ctx context.Context) (func(), error) {
	ctx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	gate := gateFor(s.dir)
	select {
	case gate <- struct{}{}:
	case <-ctx.Done():
		return nil, fmt.Errorf("lock %s: %w", s.dir, ctx.Err())
	}

	if err := s.createLockFile(ctx); err != nil {
		<-gate
		return nil, err
	}

	path := filepath.Join(s.dir, LockFile)
	return func() {
		if err := s.fs.Remove(path); err != nil {
			log.WithError(err).WithField("file", path).Warn("release data lock")
		}
		<-gate
	}, nil
}

func (s *Store) createLockFile(ctx context.Context) error {
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	path := filepath.Join(s.dir, LockFile)

	ticker := time.NewTicker(lockPoll)
	defer ticker.Stop()
	for {
		f, err := s.fs.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			_, werr := fmt.Fprintf(f, "%d\n", os.Getpid())
			if cerr := f.Close(); werr == nil {
				werr = cerr
			}
			if werr != nil {
				_ = s.fs.Remove(path)
				return fmt.Errorf("write %s: %w", path, werr)
			}
			return nil
		}
		if !os.IsExist(err) {
			return fmt.Errorf("create %s: %w", path, err)
		}
		s.breakStaleLock(path)

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return fmt.Errorf("data directory %s is locked by another process: %w", s.dir, ctx.Err())
		}
	}
}

func (s *Store) breakStaleLock(path string) {
	info, err := s.fs.Stat(path)
	if err != nil {
		return
	}
	if age := time.Since(info.ModTime()); age > staleLockAge {
		log.WithFields(log.Fields{"file": path, "age": age.Round(time.Second)}).Warn("removing stale data lock")
		_ = s.fs.Remove(path)
	}
}
