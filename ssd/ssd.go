// Package ssd extracts semi-structured data tables from a worksheet.
//
// A table is marked by two flag cells: a KEYROWS cell whose column holds the
// row keys below it, and a KEYCOLS cell whose row holds the column keys to
// its right.  Each header runs until the first empty cell.  A single cell
// may carry both flags ("KEYROWSKEYCOLS").
package ssd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/TsubasaBE/go-xlsx/address"
	"github.com/TsubasaBE/go-xlsx/worksheet"
)

// ErrUnpairedFlags is returned when the number of KEYROWS flags differs
// from the number of KEYCOLS flags.
var ErrUnpairedFlags = errors.New("ssd: keyrows and keycols flags do not pair up")

// Default flag texts.
const (
	DefaultKeyRows = "KEYROWS"
	DefaultKeyCols = "KEYCOLS"
)

// Options sets the flag texts.  Empty fields use the defaults.
type Options struct {
	KeyRows string
	KeyCols string
}

// Table is one extracted data set.  Data has one row per KeyRows entry and
// one column per KeyCols entry.
type Table struct {
	KeyRows []worksheet.Value
	KeyCols []worksheet.Value
	Data    [][]worksheet.Value
}

// Scan finds every flagged table in ws.  Flags are paired in row-major
// order: the n-th KEYROWS flag with the n-th KEYCOLS flag.
func Scan(ws *worksheet.Worksheet, opts Options) ([]Table, error) {
	kr := opts.KeyRows
	if kr == "" {
		kr = DefaultKeyRows
	}
	kc := opts.KeyCols
	if kc == "" {
		kc = DefaultKeyCols
	}

	var rowFlags, colFlags []address.Coord
	for _, k := range ws.Coords() {
		cell, _ := ws.Cell(k.Row, k.Col)
		s, ok := cell.Value.Text()
		if !ok {
			continue
		}
		if strings.Contains(s, kr) {
			rowFlags = append(rowFlags, k)
		}
		if strings.Contains(s, kc) {
			colFlags = append(colFlags, k)
		}
	}
	if len(rowFlags) != len(colFlags) {
		return nil, fmt.Errorf("%w: %d %s, %d %s", ErrUnpairedFlags, len(rowFlags), kr, len(colFlags), kc)
	}

	tables := make([]Table, 0, len(rowFlags))
	for i := range rowFlags {
		tables = append(tables, extract(ws, rowFlags[i], colFlags[i]))
	}
	return tables, nil
}

func extract(ws *worksheet.Worksheet, rf, cf address.Coord) Table {
	var t Table
	for r := rf.Row + 1; r <= ws.MaxRow() && !blank(ws, r, rf.Col); r++ {
		t.KeyRows = append(t.KeyRows, ws.Index(r, rf.Col))
	}
	for c := cf.Col + 1; c <= ws.MaxCol() && !blank(ws, cf.Row, c); c++ {
		t.KeyCols = append(t.KeyCols, ws.Index(cf.Row, c))
	}
	for i := range t.KeyRows {
		row := make([]worksheet.Value, len(t.KeyCols))
		for j := range t.KeyCols {
			row[j] = ws.Index(rf.Row+1+i, cf.Col+1+j)
		}
		t.Data = append(t.Data, row)
	}
	return t
}

func blank(ws *worksheet.Worksheet, r, c int) bool {
	cell, ok := ws.Cell(r, c)
	return !ok || (cell.Value.IsEmpty() && cell.Formula == "")
}
