package writer

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/TsubasaBE/go-xlsx/internal/ooxml"
)

// createTemp opens a temporary file next to dst so the final rename stays
// on one filesystem.
func createTemp(dst string) (*os.File, error) {
	f, err := os.CreateTemp(filepath.Dir(dst), ".xlsx-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("writer: %w", err)
	}
	return f, nil
}

// zipParts writes parts to f in order and closes f.
func zipParts(f *os.File, parts []part) error {
	zw := zip.NewWriter(f)
	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			f.Close()
			return fmt.Errorf("writer: %s: %w", p.name, err)
		}
		if _, err := w.Write(p.data); err != nil {
			f.Close()
			return fmt.Errorf("writer: %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return fmt.Errorf("writer: %w", err)
	}
	return f.Close()
}

// extract unpacks the zip at src into dir.
func extract(src, dir string) error {
	zr, err := zip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("writer: open %q: %w", src, err)
	}
	defer zr.Close()

	for _, zf := range zr.File {
		if !filepath.IsLocal(zf.Name) {
			return fmt.Errorf("writer: %q: entry %q escapes the archive", src, zf.Name)
		}
		if zf.FileInfo().IsDir() {
			continue
		}
		if err := extractFile(zf, filepath.Join(dir, filepath.FromSlash(zf.Name))); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(zf *zip.File, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("writer: %w", err)
	}
	rc, err := zf.Open()
	if err != nil {
		return fmt.Errorf("writer: %s: %w", zf.Name, err)
	}
	defer rc.Close()
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("writer: %w", err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("writer: %s: %w", zf.Name, err)
	}
	return out.Close()
}

// zipDir archives every file under dir into f, content types first, and
// closes f.
func zipDir(f *os.File, dir string) error {
	var names []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		f.Close()
		return fmt.Errorf("writer: %w", err)
	}
	slices.SortFunc(names, func(a, b string) int {
		switch {
		case a == b:
			return 0
		case a == ooxml.ContentTypesPart:
			return -1
		case b == ooxml.ContentTypesPart:
			return 1
		case a < b:
			return -1
		default:
			return 1
		}
	})

	parts := make([]part, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
		if err != nil {
			f.Close()
			return fmt.Errorf("writer: %w", err)
		}
		parts = append(parts, part{name: name, data: data})
	}
	return zipParts(f, parts)
}

// scratch is an extracted container addressed by zip entry names.
type scratch struct {
	dir string
}

func (s scratch) path(name string) string {
	return filepath.Join(s.dir, filepath.FromSlash(name))
}

func (s scratch) exists(name string) bool {
	_, err := os.Stat(s.path(name))
	return err == nil
}

func (s scratch) read(name string) ([]byte, error) {
	return os.ReadFile(s.path(name))
}

func (s scratch) write(p part) error {
	dst := s.path(p.name)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, p.data, 0o644)
}

// remove deletes the file or directory name.  A missing entry is not an
// error.
func (s scratch) remove(name string) error {
	err := os.RemoveAll(s.path(name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s scratch) rename(from, to string) error {
	return os.Rename(s.path(from), s.path(to))
}

// glob returns the entry names under dir matching pattern.
func (s scratch) glob(dir, pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.path(dir), pattern))
	if err != nil {
		return nil, err
	}
	var names []string
	for _, m := range matches {
		rel, err := filepath.Rel(s.dir, m)
		if err != nil {
			return nil, err
		}
		names = append(names, filepath.ToSlash(rel))
	}
	return names, nil
}

// isLocked reports whether another process holds path open.  Tests replace
// it.
var isLocked = fileLocked

func fileLocked(path string) bool {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return !errors.Is(err, fs.ErrNotExist)
	}
	f.Close()
	return false
}

// commit moves tmp onto dst.  When dst is locked the file is moved to
// "new_<name>" in the same directory instead and the returned LockedError
// says so.
func commit(tmp, dst string) (string, *LockedError, error) {
	var cause error
	if !isLocked(dst) {
		err := os.Rename(tmp, dst)
		if err == nil {
			return dst, nil, nil
		}
		if !errors.Is(err, fs.ErrPermission) {
			return "", nil, fmt.Errorf("writer: %w", err)
		}
		cause = err
	}
	alt := filepath.Join(filepath.Dir(dst), "new_"+filepath.Base(dst))
	if err := os.Rename(tmp, alt); err != nil {
		return "", nil, fmt.Errorf("writer: %w", err)
	}
	return alt, &LockedError{Path: dst, Alternate: alt, Err: cause}, nil
}
