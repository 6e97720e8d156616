// internal/artifact/store.go
package artifact

import (
	"bufio"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"guidance/core/tsv"
)

const (
	headerTTL     = 30 * time.Minute
	// No janitor: expired headers are dropped lazily by Get, and a Store
	// owns no goroutines.
	headerCleanup = 0
	// ScratchSuffix marks decompressed working copies.
	ScratchSuffix = ".temp"
)

// Store writes and reads artifacts on the local filesystem. Writes go to a
// sibling ".part" file renamed into place on Commit, so a consumer never sees
// a half-written artifact.
type Store struct {
	headers *gocache.Cache
}

func NewStore() *Store {
	return &Store{headers: gocache.New(headerTTL, headerCleanup)}
}

// Writer is a line-oriented artifact writer.
type Writer struct {
	path   string
	part   string
	fh     *os.File
	gz     *gzip.Writer
	bw     *bufio.Writer
	lines  int
	closed bool
}

// Create opens a writer for path. A ".gz" suffix selects gzip output.
func (s *Store) Create(path string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	part := path + ".part"
	fh, err := os.Create(part)
	if err != nil {
		return nil, err
	}
	w := &Writer{path: path, part: part, fh: fh}
	var dst io.Writer = fh
	if strings.HasSuffix(path, ".gz") {
		w.gz = gzip.NewWriter(fh)
		dst = w.gz
	}
	w.bw = bufio.NewWriterSize(dst, 256*1024)
	return w, nil
}

// WriteLine writes line followed by a newline.
func (w *Writer) WriteLine(line string) error {
	w.lines++
	if _, err := w.bw.WriteString(line); err != nil {
		return err
	}
	return w.bw.WriteByte('\n')
}

func (w *Writer) Lines() int { return w.lines }

// Commit flushes and atomically publishes the artifact.
func (w *Writer) Commit() error {
	if w.closed {
		return errors.New("artifact: writer already closed")
	}
	w.closed = true
	err := w.bw.Flush()
	if w.gz != nil {
		if cerr := w.gz.Close(); err == nil {
			err = cerr
		}
	}
	if cerr := w.fh.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(w.part)
		return fmt.Errorf("artifact %s: %w", w.path, err)
	}
	return os.Rename(w.part, w.path)
}

// Abort discards everything written. It is safe after Commit.
func (w *Writer) Abort() {
	if w.closed {
		return
	}
	w.closed = true
	if w.gz != nil {
		_ = w.gz.Close()
	}
	_ = w.fh.Close()
	_ = os.Remove(w.part)
}

// WriteLines creates path with the given lines in one step.
func (s *Store) WriteLines(path string, lines []string) error {
	w, err := s.Create(path)
	if err != nil {
		return err
	}
	for _, l := range lines {
		if err := w.WriteLine(l); err != nil {
			w.Abort()
			return err
		}
	}
	return w.Commit()
}

// Header returns the parsed first line of path. Headers are cached per
// (path, delim, mtime): artifacts are immutable once committed.
func (s *Store) Header(ctx context.Context, path, delim string) (tsv.Schema, error) {
	st, err := os.Stat(path)
	if err != nil {
		return tsv.Schema{}, err
	}
	key := fmt.Sprintf("%s|%q|%d|%d", path, delim, st.ModTime().UnixNano(), st.Size())
	if v, ok := s.headers.Get(key); ok {
		if sch, ok := v.(tsv.Schema); ok {
			return sch, nil
		}
	}
	var sch tsv.Schema
	done := errors.New("done")
	err = tsv.ScanLines(ctx, path, func(_ int, line string) error {
		sch = tsv.ParseHeader(line, delim)
		return done
	})
	if err != nil && !errors.Is(err, done) {
		return tsv.Schema{}, err
	}
	if sch.Names == nil {
		sch = tsv.NewSchema(nil, delim)
	}
	s.headers.Set(key, sch, gocache.DefaultExpiration)
	return sch, nil
}

// Exists reports whether the artifact is present on disk.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Placeholder creates an empty artifact when path is missing. It reports
// whether it created one.
func (s *Store) Placeholder(path string) (bool, error) {
	if Exists(path) {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, err
	}
	fh, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return false, nil
		}
		return false, err
	}
	return true, fh.Close()
}

// Scratch decompresses src into a working copy next to dir and returns the
// copy's path with a cleanup func that removes it.
func (s *Store) Scratch(src, dir string) (string, func(), error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", nil, err
	}
	base := strings.TrimSuffix(filepath.Base(src), ".gz")
	fh, err := os.CreateTemp(dir, base+".*"+ScratchSuffix)
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { _ = os.Remove(fh.Name()) }
	rc, err := tsv.Open(src)
	if err != nil {
		_ = fh.Close()
		cleanup()
		return "", nil, err
	}
	_, err = io.Copy(fh, rc)
	_ = rc.Close()
	if cerr := fh.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		cleanup()
		return "", nil, err
	}
	return fh.Name(), cleanup, nil
}
