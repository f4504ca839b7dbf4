// Package filestore keeps events, attendees and registrations as JSON
// documents in a data directory. It implements the same repository
// interfaces as the PostgreSQL backend.
package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/Eursukkul/event-registration/internal/models"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

const (
	EventsFile        = "events.json"
	AttendeesFile     = "attendees.json"
	RegistrationsFile = "registrations.json"

	backupStampLayout = "20060102-150405"
)

var dataFiles = []string{EventsFile, AttendeesFile, RegistrationsFile}

type Store struct {
	fs  afero.Fs
	dir string
	now func() time.Time

	mu            sync.Mutex
	events        []models.Event
	attendees     []models.Attendee
	registrations []models.Registration
}

func New(fs afero.Fs, dir string) *Store {
	return &Store{
		fs:            fs,
		dir:           dir,
		now:           time.Now,
		events:        []models.Event{},
		attendees:     []models.Attendee{},
		registrations: []models.Registration{},
	}
}

// Open creates a store and loads whatever the directory already holds.
func Open(fs afero.Fs, dir string) (*Store, error) {
	s := New(fs, dir)
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Dir() string { return s.dir }

// Load reads the three collections. Missing files are empty collections.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.reload(dataFiles...); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"dir":           s.dir,
		"events":        len(s.events),
		"attendees":     len(s.attendees),
		"registrations": len(s.registrations),
	}).Debug("data directory loaded")
	return nil
}

// Save rewrites all three collections from what the directory currently
// holds, under the directory lock.
func (s *Store) Save() error {
	return s.update(context.Background(), func() error {
		if err := s.write(EventsFile, s.events); err != nil {
			return err
		}
		if err := s.write(AttendeesFile, s.attendees); err != nil {
			return err
		}
		return s.write(RegistrationsFile, s.registrations)
	}, dataFiles...)
}

// update runs fn holding the directory lock and s.mu, after reloading the
// named collections from disk.
func (s *Store) update(ctx context.Context, fn func() error, names ...string) error {
	unlock, err := s.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.reload(names...); err != nil {
		return err
	}
	return fn()
}

// view runs fn holding s.mu after reloading the named collections.
func (s *Store) view(fn func() error, names ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.reload(names...); err != nil {
		return err
	}
	return fn()
}

// reload replaces the named collections with the files' contents. Callers
// hold s.mu.
func (s *Store) reload(names ...string) error {
	for _, name := range names {
		switch name {
		case EventsFile:
			var events []models.Event
			if err := s.read(EventsFile, &events); err != nil {
				return err
			}
			for i := range events {
				for j := range events[i].Sessions {
					events[i].Sessions[j].EventID = events[i].ID
					events[i].Sessions[j].Position = j
				}
			}
			s.events = nonNil(events)
		case AttendeesFile:
			var attendees []models.Attendee
			if err := s.read(AttendeesFile, &attendees); err != nil {
				return err
			}
			s.attendees = nonNil(attendees)
		case RegistrationsFile:
			var registrations []models.Registration
			if err := s.read(RegistrationsFile, &registrations); err != nil {
				return err
			}
			s.registrations = nonNil(registrations)
		}
	}
	return nil
}

// Backup copies the data files that exist into backupDir, each prefixed
// with a YYYYMMDD-HHMMSS stamp, and returns the paths it created.
func (s *Store) Backup(backupDir string) ([]string, error) {
	unlock, err := s.lock(context.Background())
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := s.fs.MkdirAll(backupDir, 0o755); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}

	stamp := s.now().Format(backupStampLayout)
	var created []string
	for _, name := range dataFiles {
		src := filepath.Join(s.dir, name)
		ok, err := afero.Exists(s.fs, src)
		if err != nil {
			return created, err
		}
		if !ok {
			continue
		}
		data, err := afero.ReadFile(s.fs, src)
		if err != nil {
			return created, fmt.Errorf("read %s: %w", name, err)
		}
		dest := filepath.Join(backupDir, stamp+"-"+name)
		if err := afero.WriteFile(s.fs, dest, data, 0o644); err != nil {
			return created, fmt.Errorf("write %s: %w", dest, err)
		}
		created = append(created, dest)
	}
	return created, nil
}

func (s *Store) read(name string, v any) error {
	path := filepath.Join(s.dir, name)
	ok, err := afero.Exists(s.fs, path)
	if err != nil || !ok {
		return err
	}
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// write replaces the file atomically through a temp file and a rename.
func (s *Store) write(name string, v any) error {
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := s.fs.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
