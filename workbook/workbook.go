// Package workbook holds an ordered collection of named worksheets with a
// shared-string pool and a named-range registry, and reads .xlsx/.xlsm
// files into that model (see [Open]).
package workbook

import (
	"fmt"
	"slices"
	"strings"

	"github.com/TsubasaBE/go-xlsx/address"
	"github.com/TsubasaBE/go-xlsx/stringtable"
	"github.com/TsubasaBE/go-xlsx/worksheet"
)

// NamedRange binds a workbook-level name to a rectangle on one sheet.
type NamedRange struct {
	Name  string
	Sheet string
	// Ref is "A1" or "A1:C3", without "$" markers.
	Ref string
}

// Workbook is an ordered set of uniquely named worksheets.  Sheet order is
// insertion order and is the order written to a container.
//
// A Workbook is not safe for concurrent mutation.
type Workbook struct {
	names       []string
	sheets      map[string]*worksheet.Worksheet
	strings     *stringtable.StringTable
	namedRanges []NamedRange
	warnings    []error

	// Date1904 is true when the workbook uses the 1904 date system (base
	// date 1904-01-01, serial 0 = 1904-01-01).  It is set by the reader and
	// only affects how date-formatted cells were rendered to text.
	Date1904 bool
}

// New returns an empty workbook.
func New() *Workbook {
	return &Workbook{
		sheets:  make(map[string]*worksheet.Worksheet),
		strings: &stringtable.StringTable{},
	}
}

func (wb *Workbook) init() {
	if wb.sheets == nil {
		wb.sheets = make(map[string]*worksheet.Worksheet)
	}
	if wb.strings == nil {
		wb.strings = &stringtable.StringTable{}
	}
}

// AddWorksheet stores ws under name and returns it.  A nil ws adds an empty
// worksheet.  Adding a name that already exists replaces that sheet and
// keeps its position.
func (wb *Workbook) AddWorksheet(name string, ws *worksheet.Worksheet) *worksheet.Worksheet {
	wb.init()
	if ws == nil {
		ws = worksheet.New()
	}
	if _, ok := wb.sheets[name]; !ok {
		wb.names = append(wb.names, name)
	}
	wb.sheets[name] = ws
	return ws
}

// Worksheet returns the sheet called name.
func (wb *Workbook) Worksheet(name string) (*worksheet.Worksheet, error) {
	ws, ok := wb.sheets[name]
	if !ok {
		return nil, fmt.Errorf("workbook: sheet %q: %w", name, ErrUnknownSheet)
	}
	return ws, nil
}

// SheetNames returns the sheet names in workbook order.
func (wb *Workbook) SheetNames() []string {
	return slices.Clone(wb.names)
}

// Len returns the number of worksheets.
func (wb *Workbook) Len() int { return len(wb.names) }

// RemoveWorksheet deletes the sheet called name together with the named
// ranges that point at it.  It reports whether a sheet was removed; an
// unknown name is not an error.
func (wb *Workbook) RemoveWorksheet(name string) bool {
	if _, ok := wb.sheets[name]; !ok {
		return false
	}
	delete(wb.sheets, name)
	wb.names = slices.DeleteFunc(wb.names, func(n string) bool { return n == name })
	wb.namedRanges = slices.DeleteFunc(wb.namedRanges, func(nr NamedRange) bool { return nr.Sheet == name })
	return true
}

// RenameWorksheet renames sheet from to to and reports whether from
// existed.  When to already names another sheet, that sheet is replaced:
// the renamed sheet takes over its position and from's position is
// dropped.  Named ranges follow the rename; ranges on a replaced sheet are
// removed.
func (wb *Workbook) RenameWorksheet(from, to string) bool {
	ws, ok := wb.sheets[from]
	if !ok {
		return false
	}
	if from == to {
		return true
	}
	if _, collide := wb.sheets[to]; collide {
		wb.names = slices.DeleteFunc(wb.names, func(n string) bool { return n == from })
		wb.namedRanges = slices.DeleteFunc(wb.namedRanges, func(nr NamedRange) bool { return nr.Sheet == to })
	} else {
		wb.names[slices.Index(wb.names, from)] = to
	}
	delete(wb.sheets, from)
	wb.sheets[to] = ws
	for i := range wb.namedRanges {
		if wb.namedRanges[i].Sheet == from {
			wb.namedRanges[i].Sheet = to
		}
	}
	return true
}

// SetEmptyCell sets the empty-cell value of every worksheet.
func (wb *Workbook) SetEmptyCell(v worksheet.Value) {
	for _, ws := range wb.sheets {
		ws.SetEmptyCell(v)
	}
}

// SharedStrings returns the workbook's shared-string pool.  Writers reset
// and refill it while serializing worksheets.
func (wb *Workbook) SharedStrings() *stringtable.StringTable {
	wb.init()
	return wb.strings
}

// AddNamedRange registers name for ref on sheet.  ref may carry "$"
// markers.  An existing entry with the same name, or with the same sheet
// and rectangle, is replaced in place.
func (wb *Workbook) AddNamedRange(name, sheet, ref string) error {
	if name == "" {
		return fmt.Errorf("workbook: named range needs a name")
	}
	if _, ok := wb.sheets[sheet]; !ok {
		return fmt.Errorf("workbook: named range %q: sheet %q: %w", name, sheet, ErrUnknownSheet)
	}
	rng, err := address.ParseRange(strings.ReplaceAll(ref, "$", ""))
	if err != nil {
		return fmt.Errorf("workbook: named range %q: %w", name, err)
	}
	nr := NamedRange{Name: name, Sheet: sheet, Ref: rng.String()}
	collides := func(old NamedRange) bool {
		return old.Name == nr.Name || (old.Sheet == nr.Sheet && old.Ref == nr.Ref)
	}
	i := slices.IndexFunc(wb.namedRanges, collides)
	if i < 0 {
		wb.namedRanges = append(wb.namedRanges, nr)
		return nil
	}
	wb.namedRanges[i] = nr
	rest := slices.DeleteFunc(wb.namedRanges[i+1:], collides)
	wb.namedRanges = wb.namedRanges[:i+1+len(rest)]
	return nil
}

// RemoveNamedRange deletes name and reports whether it existed.
func (wb *Workbook) RemoveNamedRange(name string) bool {
	n := len(wb.namedRanges)
	wb.namedRanges = slices.DeleteFunc(wb.namedRanges, func(nr NamedRange) bool { return nr.Name == name })
	return len(wb.namedRanges) != n
}

// NamedRanges returns the registered named ranges in registration order.
func (wb *Workbook) NamedRanges() []NamedRange {
	return slices.Clone(wb.namedRanges)
}

// Resolve returns the named range called name.  An unknown name yields the
// zero NamedRange and false.
func (wb *Workbook) Resolve(name string) (NamedRange, bool) {
	i := slices.IndexFunc(wb.namedRanges, func(nr NamedRange) bool { return nr.Name == name })
	if i < 0 {
		return NamedRange{}, false
	}
	return wb.namedRanges[i], true
}

// NamedRangeValues returns the values covered by the named range, row-major.
// It returns nil for an unknown name.
func (wb *Workbook) NamedRangeValues(name string) [][]worksheet.Value {
	nr, ok := wb.Resolve(name)
	if !ok {
		return nil
	}
	ws, ok := wb.sheets[nr.Sheet]
	if !ok {
		return nil
	}
	vals, err := ws.Range(nr.Ref)
	if err != nil {
		return nil
	}
	return vals
}

// Warnings returns the recoverable problems met while reading the workbook.
// Each entry matches one of the package's sentinel errors with errors.Is.
func (wb *Workbook) Warnings() []error {
	return slices.Clone(wb.warnings)
}

func (wb *Workbook) addWarning(err error) {
	wb.warnings = append(wb.warnings, err)
}
