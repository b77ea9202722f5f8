package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const lineEnd = "\r\n"

// lockedFile is an output file truncated on open. While it is open the
// sidecar "<path>.lock" is held under an exclusive lock; the file itself is
// never locked so writes through f work where locks are mandatory.
type lockedFile struct {
	path string
	f    *os.File
	lock *flock.Flock
}

func openLocked(path string) (*lockedFile, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: creating directory for %s: %w", ErrOutput, path, err)
		}
	}

	lock := flock.New(lockPath(path), flock.SetPermissions(0o644))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("%w: locking %s: %w", ErrOutput, path, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s is in use by another run", ErrOutput, path)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		lock.Unlock()
		return nil, fmt.Errorf("%w: opening %s: %w", ErrOutput, path, err)
	}

	return &lockedFile{path: path, f: f, lock: lock}, nil
}

func lockPath(path string) string {
	return path + ".lock"
}

func (l *lockedFile) write(s string) error {
	if _, err := l.f.WriteString(s); err != nil {
		return fmt.Errorf("%w: writing %s: %w", ErrOutput, l.path, err)
	}
	return nil
}

func (l *lockedFile) close() error {
	err := l.f.Close()
	if unlockErr := l.lock.Unlock(); err == nil {
		err = unlockErr
	}
	return err
}

// FileSink writes every event as a CRLF-terminated line.
type FileSink struct {
	file  *lockedFile
	stats Statistics
}

// NewFileSink opens path for this run, truncating earlier content.
func NewFileSink(path string) (*FileSink, error) {
	lf, err := openLocked(path)
	if err != nil {
		return nil, err
	}
	return &FileSink{file: lf}, nil
}

func (s *FileSink) line(msg string) error {
	return s.file.write(msg + lineEnd)
}

func (s *FileSink) Announce(params []Param) error {
	for _, p := range params {
		if err := s.line(p.Key + ": " + p.Value); err != nil {
			return err
		}
	}
	return nil
}

func (s *FileSink) Match(msg string) error {
	return s.line(msg)
}

func (s *FileSink) MatchCounted(msg string) error {
	if err := s.line(msg); err != nil {
		return err
	}
	s.stats.hit()
	return nil
}

func (s *FileSink) Error(msg string) error {
	s.stats.fail()
	return s.line(msg)
}

func (s *FileSink) Finish() error {
	if err := s.line(fmt.Sprintf("Hits: %d", s.stats.Hits)); err != nil {
		return err
	}
	return s.line(fmt.Sprintf("Errors: %d", s.stats.Errors))
}

func (s *FileSink) Stats() Statistics {
	return s.stats
}

func (s *FileSink) Close() error {
	return s.file.close()
}
