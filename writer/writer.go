// Package writer serializes a [workbook.Workbook] to an .xlsx or .xlsm file.
//
// A destination that does not exist gets a freshly generated container.  An
// existing destination is patched: the parts the model owns (workbook,
// worksheets, shared strings, relationships, content types and the title list
// in docProps/app.xml) are regenerated and every other part is carried over,
// apart from a few known parts that would be left pointing at rewritten
// content.
package writer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/TsubasaBE/go-xlsx/workbook"
)

const creator = "go-xlsx"

// ErrDestinationLocked is matched by the warning reported when the target
// file was in use and the workbook was written under another name.
var ErrDestinationLocked = errors.New("writer: destination locked")

// LockedError names the locked destination and the file written instead.
type LockedError struct {
	Path      string
	Alternate string
	// Err is the failure that revealed the lock, if any.
	Err error
}

func (e *LockedError) Error() string {
	msg := fmt.Sprintf("writer: %s is locked, wrote %s instead", e.Path, e.Alternate)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LockedError) Unwrap() error { return e.Err }

// Is reports whether target is ErrDestinationLocked.
func (e *LockedError) Is(target error) bool { return target == ErrDestinationLocked }

// Mode is the strategy Write used.
type Mode int

const (
	// ModeNew builds every part from scratch.
	ModeNew Mode = iota
	// ModeMerge patches an existing container.
	ModeMerge
)

func (m Mode) String() string {
	switch m {
	case ModeNew:
		return "new"
	case ModeMerge:
		return "merge"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Options configures Write.  The zero value is ready to use.
type Options struct {
	// Logger receives warnings and debug output.  Nil means the logrus
	// standard logger.
	Logger logrus.FieldLogger
	// ScratchDir is where merge mode extracts the existing container.
	// Empty means os.TempDir().  Each write uses its own subdirectory.
	ScratchDir string
	// Now stamps docProps/core.xml.  Nil means time.Now.
	Now func() time.Time
}

func (o Options) logger() logrus.FieldLogger {
	if o.Logger == nil {
		return logrus.StandardLogger()
	}
	return o.Logger
}

func (o Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

// Report describes a finished write.
type Report struct {
	// Path is the file that was written.  It differs from the requested
	// path when the destination was locked.
	Path string
	Mode Mode
	// Warnings holds recovered problems such as a *LockedError or an
	// app.xml whose title list was left unchanged.
	Warnings []error
}

// Write saves wb to path, choosing the mode from whether path exists.  The
// workbook's shared-string pool is rebuilt as a side effect.
func Write(wb *workbook.Workbook, path string, opts Options) (*Report, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
	default:
		return nil, fmt.Errorf("writer: %q: %w", path, workbook.ErrBadExtension)
	}
	log := opts.logger().WithField("path", path)

	_, err := os.Stat(path)
	switch {
	case err == nil:
		log.WithField("mode", ModeMerge).Debug("writing workbook")
		return writeMerge(wb, path, opts, log)
	case errors.Is(err, fs.ErrNotExist):
		log.WithField("mode", ModeNew).Debug("writing workbook")
		return writeNew(wb, path, opts, log)
	default:
		return nil, fmt.Errorf("writer: stat %q: %w", path, err)
	}
}
