package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Staged is a write that has been flushed under a temporary name but is not yet
// visible under its key. Exactly one of Promote or Discard takes effect;
// Discard after Promote is a no-op, which makes it safe to defer.
type Staged struct {
	Key     string
	tmp     string
	fs      *filesystem
	settled bool
}

// Promote moves the staged file onto its key. It never replaces an existing
// file: the key is claimed with an exclusive create first, so a key that is
// already present fails with ErrExists and the staged file stays discardable.
func (s *Staged) Promote() error {
	if s.settled {
		return ErrSettled
	}

	if err := s.fs.claim(s.Key); err != nil {
		return fmt.Errorf("promote %s: %w", s.Key, err)
	}

	if err := s.fs.fs.Rename(s.tmp, s.Key); err != nil {
		s.fs.remove(s.Key)
		return fmt.Errorf("promote %s: %w", s.Key, mapFSError(err))
	}

	s.settled = true
	return nil
}

// replace moves the staged file onto its key, overwriting any existing file.
func (s *Staged) replace() error {
	if s.settled {
		return ErrSettled
	}

	if err := s.fs.fs.Rename(s.tmp, s.Key); err != nil {
		return fmt.Errorf("replace %s: %w", s.Key, mapFSError(err))
	}

	s.settled = true
	return nil
}

// Discard removes the staged file if it has not been promoted.
func (s *Staged) Discard() {
	if s.settled {
		return
	}
	s.settled = true
	s.fs.remove(s.tmp)
}

// claim creates an empty placeholder at key, failing if key exists. The
// placeholder is replaced by the rename that follows.
func (f *filesystem) claim(key string) error {
	file, err := f.fs.OpenFile(key, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return ErrExists
		}
		return mapFSError(err)
	}
	return file.Close()
}
