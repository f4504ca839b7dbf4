package worker

import (
	"context"
	"time"

	"github.com/Eursukkul/event-registration/internal/ledger"
	"github.com/sirupsen/logrus"
)

// Committer is the part of the ledger the flusher drives.
type Committer interface {
	Commit(ctx context.Context, store ledger.Store) error
	Pending() int
}

// Snapshotter is a file backed data directory.
type Snapshotter interface {
	Save() error
	Backup(dir string) ([]string, error)
}

type Flusher struct {
	ledger         Committer
	store          ledger.Store
	snapshots      Snapshotter
	interval       time.Duration
	backupDir      string
	backupInterval time.Duration
}

type Option func(*Flusher)

// WithBackups saves the data directory on every flush and copies it into dir
// every interval.
func WithBackups(s Snapshotter, dir string, interval time.Duration) Option {
	return func(f *Flusher) {
		f.snapshots = s
		f.backupDir = dir
		f.backupInterval = interval
	}
}

func NewFlusher(l Committer, store ledger.Store, interval time.Duration, opts ...Option) *Flusher {
	f := &Flusher{ledger: l, store: store, interval: interval}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Start flushes every interval until ctx is done, then flushes once more.
func (f *Flusher) Start(ctx context.Context) error {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	var backups <-chan time.Time
	if f.snapshots != nil && f.backupDir != "" && f.backupInterval > 0 {
		bt := time.NewTicker(f.backupInterval)
		defer bt.Stop()
		backups = bt.C
	}

	logrus.WithField("interval", f.interval.String()).Info("flusher started")

	for {
		select {
		case <-ctx.Done():
			// The parent context is gone; the last flush gets its own deadline.
			final, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			err := f.Flush(final)
			cancel()
			logrus.Info("flusher stopped")
			return err
		case <-ticker.C:
			if err := f.Flush(ctx); err != nil {
				logrus.WithError(err).Warn("flush failed, will retry")
			}
		case <-backups:
			if _, err := f.Backup(); err != nil {
				logrus.WithError(err).Error("backup failed")
			}
		}
	}
}

// Flush commits pending ledger records and saves the data directory.
func (f *Flusher) Flush(ctx context.Context) error {
	if pending := f.ledger.Pending(); pending > 0 {
		if err := f.ledger.Commit(ctx, f.store); err != nil {
			return err
		}
		logrus.WithField("records", pending).Debug("pending registrations committed")
	}
	if f.snapshots != nil {
		return f.snapshots.Save()
	}
	return nil
}

func (f *Flusher) Backup() ([]string, error) {
	if f.snapshots == nil || f.backupDir == "" {
		return nil, nil
	}
	files, err := f.snapshots.Backup(f.backupDir)
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"dir": f.backupDir, "files": len(files)}).Info("backup written")
	return files, nil
}
