// Package worksheet holds one sheet's cells in a sparse store and provides
// indexed, addressed, row, column and range access.  It also decodes the
// xl/worksheets/sheetN.xml part of an .xlsx file (see [Parse]).
package worksheet

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/TsubasaBE/go-xlsx/address"
)

// Cell is one stored cell record.
type Cell struct {
	// Value is the cell's literal value, or the cached result of Formula as
	// read from a file.  It is empty for formulas set through this package.
	Value Value
	// Formula is the formula source without the leading "=", or "".
	Formula string
	// Style is the 0-based cell-format (XF) index the cell was read with.
	// Only the reader sets it and the writers ignore it.
	Style int
	// Comment is the text of the cell's comment, or "".
	Comment string
}

// hasData reports whether c is worth keeping in the store.
func (c Cell) hasData() bool {
	return !c.Value.IsEmpty() || c.Formula != "" || c.Comment != ""
}

// Worksheet is a sparse cell store.  Row and column indices are 1-based.
//
// The extent (MaxRow, MaxCol) is the smallest A1-anchored rectangle that
// holds every stored cell.  It grows on every write and resets to 0×0 only
// when the last cell is removed.
//
// A Worksheet is not safe for concurrent mutation.
type Worksheet struct {
	cells  map[address.Coord]Cell
	maxRow int
	maxCol int
	empty  Value
}

// New returns an empty worksheet whose empty-cell value is the empty Value.
func New() *Worksheet {
	return &Worksheet{cells: make(map[address.Coord]Cell)}
}

// NewFromCells builds a worksheet from a pre-parsed cell map.  Records
// without a value, formula or comment are dropped.
func NewFromCells(cells map[address.Coord]Cell) (*Worksheet, error) {
	ws := New()
	for c, cell := range cells {
		if c.Row < 1 || c.Col < 1 {
			return nil, fmt.Errorf("worksheet: cell (%d, %d): %w", c.Row, c.Col, address.ErrInvalidIndex)
		}
		if !cell.Value.Finite() {
			return nil, fmt.Errorf("worksheet: cell (%d, %d): %w", c.Row, c.Col, ErrNonFinite)
		}
		if !cell.hasData() {
			continue
		}
		ws.cells[c] = cell
		ws.grow(c)
	}
	return ws, nil
}

// Size returns [rows, cols] of the worksheet extent.
func (ws *Worksheet) Size() (rows, cols int) { return ws.maxRow, ws.maxCol }

// MaxRow returns the number of rows in the extent.
func (ws *Worksheet) MaxRow() int { return ws.maxRow }

// MaxCol returns the number of columns in the extent.
func (ws *Worksheet) MaxCol() int { return ws.maxCol }

// Len returns the number of stored cell records.
func (ws *Worksheet) Len() int { return len(ws.cells) }

// EmptyCell returns the value substituted for unset addresses.
func (ws *Worksheet) EmptyCell() Value { return ws.empty }

// SetEmptyCell changes the value substituted for unset addresses.
func (ws *Worksheet) SetEmptyCell(v Value) { ws.empty = v }

// Index returns the value at (row, col), or the empty-cell value when no
// record exists.  Formula cells return their cached value.
func (ws *Worksheet) Index(row, col int) Value {
	if c, ok := ws.cells[address.Coord{Row: row, Col: col}]; ok && !c.Value.IsEmpty() {
		return c.Value
	}
	return ws.empty
}

// Address is like Index but takes a cell label such as "B4".
func (ws *Worksheet) Address(label string) (Value, error) {
	r, c, err := address.ToIndex(label)
	if err != nil {
		return Value{}, err
	}
	return ws.Index(r, c), nil
}

// Cell returns the full record at (row, col) and whether one exists.
func (ws *Worksheet) Cell(row, col int) (Cell, bool) {
	c, ok := ws.cells[address.Coord{Row: row, Col: col}]
	return c, ok
}

// Set stores v at (row, col).  Text starting with "=" is stored as a formula
// (without the "=") with an empty value; anything else is stored as a
// literal and clears any formula.  Setting the empty Value removes the
// record unless it still carries a comment.  NaN and infinite numbers fail
// with [ErrNonFinite].
func (ws *Worksheet) Set(row, col int, v Value) error {
	if !v.Finite() {
		return fmt.Errorf("worksheet: cell (%d, %d): %w", row, col, ErrNonFinite)
	}
	if v.IsFormula() {
		return ws.SetFormula(row, col, v.s)
	}
	return ws.update(row, col, func(c *Cell) {
		c.Value = v
		c.Formula = ""
	})
}

// SetAddress is like Set but takes a cell label.
func (ws *Worksheet) SetAddress(label string, v Value) error {
	r, c, err := address.ToIndex(label)
	if err != nil {
		return err
	}
	return ws.Set(r, c, v)
}

// SetFormula stores formula at (row, col) with an empty value.  A leading
// "=" is stripped.
func (ws *Worksheet) SetFormula(row, col int, formula string) error {
	f := strings.TrimPrefix(formula, "=")
	return ws.update(row, col, func(c *Cell) {
		c.Value = Value{}
		c.Formula = f
	})
}

// SetComment attaches a comment to (row, col).  An empty text removes it.
func (ws *Worksheet) SetComment(row, col int, text string) error {
	return ws.update(row, col, func(c *Cell) { c.Comment = text })
}

func (ws *Worksheet) update(row, col int, fn func(*Cell)) error {
	if row < 1 || col < 1 {
		return fmt.Errorf("worksheet: cell (%d, %d): %w", row, col, address.ErrInvalidIndex)
	}
	if ws.cells == nil {
		ws.cells = make(map[address.Coord]Cell)
	}
	k := address.Coord{Row: row, Col: col}
	c := ws.cells[k]
	fn(&c)
	if !c.hasData() {
		delete(ws.cells, k)
		if len(ws.cells) == 0 {
			ws.maxRow, ws.maxCol = 0, 0
		}
		return nil
	}
	ws.cells[k] = c
	ws.grow(k)
	return nil
}

func (ws *Worksheet) grow(c address.Coord) {
	ws.maxRow = max(ws.maxRow, c.Row)
	ws.maxCol = max(ws.maxCol, c.Col)
}

// Row returns row n as a dense slice of length MaxCol.
func (ws *Worksheet) Row(n int) []Value {
	out := make([]Value, ws.maxCol)
	for c := range out {
		out[c] = ws.Index(n, c+1)
	}
	return out
}

// Col returns column n as a dense slice of length MaxRow.
func (ws *Worksheet) Col(n int) []Value {
	out := make([]Value, ws.maxRow)
	for r := range out {
		out[r] = ws.Index(r+1, n)
	}
	return out
}

// Rows iterates over rows 1..MaxRow in order.
//
// Rows uses Go 1.22+ range-over-func semantics.
func (ws *Worksheet) Rows() func(yield func([]Value) bool) {
	return func(yield func([]Value) bool) {
		for r := 1; r <= ws.maxRow; r++ {
			if !yield(ws.Row(r)) {
				return
			}
		}
	}
}

// Cols iterates over columns 1..MaxCol in order.
func (ws *Worksheet) Cols() func(yield func([]Value) bool) {
	return func(yield func([]Value) bool) {
		for c := 1; c <= ws.maxCol; c++ {
			if !yield(ws.Col(c)) {
				return
			}
		}
	}
}

// Range returns the rectangle named by ref ("B2" or "A1:C3") in row-major
// order.  Cells outside the extent are filled with the empty-cell value.
func (ws *Worksheet) Range(ref string) ([][]Value, error) {
	rng, err := address.ParseRange(ref)
	if err != nil {
		return nil, err
	}
	return ws.Rect(rng), nil
}

// Rect is Range for an already-parsed range.
func (ws *Worksheet) Rect(rng address.Range) [][]Value {
	out := make([][]Value, 0, rng.Rows())
	for r := rng.From.Row; r <= rng.To.Row; r++ {
		row := make([]Value, 0, rng.Cols())
		for c := rng.From.Col; c <= rng.To.Col; c++ {
			row = append(row, ws.Index(r, c))
		}
		out = append(out, row)
	}
	return out
}

// KeyRow returns the first row whose cell in column keyCol equals key, or
// nil when no row matches.
func (ws *Worksheet) KeyRow(key Value, keyCol int) []Value {
	for r := 1; r <= ws.maxRow; r++ {
		if ws.Index(r, keyCol) == key {
			return ws.Row(r)
		}
	}
	return nil
}

// KeyCol returns the first column whose cell in row keyRow equals key, or
// nil when no column matches.
func (ws *Worksheet) KeyCol(key Value, keyRow int) []Value {
	for c := 1; c <= ws.maxCol; c++ {
		if ws.Index(keyRow, c) == key {
			return ws.Col(c)
		}
	}
	return nil
}

// Coords returns the positions of all stored records in row-major order.
func (ws *Worksheet) Coords() []address.Coord {
	return slices.SortedFunc(maps.Keys(ws.cells), func(a, b address.Coord) int {
		if a.Row != b.Row {
			return cmp.Compare(a.Row, b.Row)
		}
		return cmp.Compare(a.Col, b.Col)
	})
}
