package gen

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// ErrDuplicateUnit is returned when a round emits the same
// (namespace, name) pair twice.
var ErrDuplicateUnit = errors.New("unit already emitted in this round")

// Sink persists generated units.
type Sink interface {
	Emit(unit Unit) error
}

// OutputError wraps a failure to persist a unit with its identity.
type OutputError struct {
	Namespace string
	Name      string
	Err       error
}

func (e *OutputError) Error() string {
	return "writing " + e.Namespace + "." + e.Name + ": " + e.Err.Error()
}

func (e *OutputError) Unwrap() error {
	return e.Err
}

func outputError(u Unit, err error) error {
	return &OutputError{Namespace: u.Namespace, Name: u.Name, Err: err}
}

// keys tracks the units emitted in a round.
type keys map[string]struct{}

func (k keys) claim(u Unit) error {
	if _, dup := k[u.Key()]; dup {
		return outputError(u, ErrDuplicateUnit)
	}

	k[u.Key()] = struct{}{}

	return nil
}

// FileSink writes each unit into its package directory.
type FileSink struct {
	fs      afero.Fs
	root    string
	written []string
	seen    keys
}

// NewFileSink creates a sink writing through fs. Units without a directory
// are written under root.
func NewFileSink(fs afero.Fs, root string) *FileSink {
	return &FileSink{fs: fs, root: root, seen: make(keys)}
}

// Path returns the file path a unit is written to.
func (s *FileSink) Path(u Unit) string {
	dir := u.Dir
	if dir == "" {
		dir = s.root
	}

	return filepath.Join(dir, u.Filename)
}

// Emit writes the unit. The file handle is closed on every path and a
// failing Close is reported together with any write error.
func (s *FileSink) Emit(u Unit) (err error) {
	if err := s.seen.claim(u); err != nil {
		return err
	}

	path := s.Path(u)

	if err := s.fs.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return outputError(u, errors.Wrap(err, "creating output directory"))
	}

	f, err := s.fs.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePerm)
	if err != nil {
		return outputError(u, errors.Wrapf(err, "opening %s", path))
	}

	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.CombineErrors(err, outputError(u, errors.Wrapf(cerr, "closing %s", path)))
		}
	}()

	if _, err := f.Write(u.Source); err != nil {
		return outputError(u, errors.Wrapf(err, "writing %s", path))
	}

	s.written = append(s.written, path)

	return nil
}

// Written returns the paths written so far, sorted.
func (s *FileSink) Written() []string {
	out := append([]string(nil), s.written...)
	sort.Strings(out)

	return out
}

// MemorySink keeps units in memory.
type MemorySink struct {
	units []Unit
	seen  keys
}

// NewMemorySink creates an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{seen: make(keys)}
}

// Emit records the unit.
func (s *MemorySink) Emit(u Unit) error {
	if err := s.seen.claim(u); err != nil {
		return err
	}

	s.units = append(s.units, u)

	return nil
}

// Units returns the recorded units in emission order.
func (s *MemorySink) Units() []Unit {
	return append([]Unit(nil), s.units...)
}

// Unit returns the unit with the given key.
func (s *MemorySink) Unit(key string) (Unit, bool) {
	for _, u := range s.units {
		if u.Key() == key {
			return u, true
		}
	}

	return Unit{}, false
}
