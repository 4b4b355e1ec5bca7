// Package csvio converts between CSV text and a single [worksheet.Worksheet].
//
// Reading infers a value per field: integers and floats become numbers,
// TRUE/FALSE (any case) become booleans, fields starting with "=" become
// formulas and everything else is text.  Empty fields leave no cell.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/TsubasaBE/go-xlsx/workbook"
	"github.com/TsubasaBE/go-xlsx/worksheet"
)

// DefaultSheetName names the sheet created by ReadFile.
const DefaultSheetName = "Sheet1"

// Options configures reading and writing.  The zero value uses a comma
// separator and DefaultSheetName.
type Options struct {
	Comma     rune
	SheetName string
}

func (o Options) comma() rune {
	if o.Comma == 0 {
		return ','
	}
	return o.Comma
}

func (o Options) sheetName() string {
	if o.SheetName == "" {
		return DefaultSheetName
	}
	return o.SheetName
}

// Read parses CSV from r into a new worksheet.  Rows may have different
// lengths.
func Read(r io.Reader, opts Options) (*worksheet.Worksheet, error) {
	cr := csv.NewReader(r)
	cr.Comma = opts.comma()
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	ws := worksheet.New()
	for row := 1; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return ws, nil
		}
		if err != nil {
			return nil, fmt.Errorf("csvio: %w", err)
		}
		for i, field := range rec {
			if field == "" {
				continue
			}
			if err := ws.Set(row, i+1, Infer(field)); err != nil {
				return nil, fmt.Errorf("csvio: row %d: %w", row, err)
			}
		}
	}
}

// ReadFile reads the CSV file at path into a workbook holding one sheet
// named by opts.SheetName.
func ReadFile(path string, opts Options) (*workbook.Workbook, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csvio: %w", err)
	}
	defer f.Close()
	ws, err := Read(f, opts)
	if err != nil {
		return nil, err
	}
	wb := workbook.New()
	wb.AddWorksheet(opts.sheetName(), ws)
	return wb, nil
}

// Infer converts one CSV field to a cell value.
func Infer(field string) worksheet.Value {
	switch strings.ToUpper(field) {
	case "TRUE":
		return worksheet.Bool(true)
	case "FALSE":
		return worksheet.Bool(false)
	}
	trimmed := strings.TrimSpace(field)
	if trimmed != field || trimmed == "" {
		return worksheet.Text(field)
	}
	if n, err := strconv.ParseInt(field, 10, 64); err == nil {
		return worksheet.Number(float64(n))
	}
	if n, err := strconv.ParseFloat(field, 64); err == nil && !isSpecial(field) {
		return worksheet.Number(n)
	}
	return worksheet.Text(field)
}

// isSpecial reports the float spellings ParseFloat accepts that a
// spreadsheet would keep as text.
func isSpecial(s string) bool {
	switch strings.ToLower(strings.TrimLeft(s, "+-")) {
	case "inf", "infinity", "nan":
		return true
	}
	return strings.ContainsAny(s, "_xXpP")
}

// Write renders ws as CSV, one record per row from 1 to MaxRow and
// MaxCol fields per record.  Formulas are written with a leading "=".
func Write(w io.Writer, ws *worksheet.Worksheet, opts Options) error {
	cw := csv.NewWriter(w)
	cw.Comma = opts.comma()

	rows, cols := ws.Size()
	rec := make([]string, cols)
	for r := 1; r <= rows; r++ {
		for c := 1; c <= cols; c++ {
			rec[c-1] = field(ws, r, c)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("csvio: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("csvio: %w", err)
	}
	return nil
}

func field(ws *worksheet.Worksheet, r, c int) string {
	cell, ok := ws.Cell(r, c)
	if !ok {
		return ""
	}
	if cell.Formula != "" {
		return "=" + cell.Formula
	}
	return cell.Value.String()
}

// WriteFile writes sheet of wb to the CSV file at path.  An empty sheet
// name selects the first sheet.
func WriteFile(wb *workbook.Workbook, sheet, path string, opts Options) error {
	if sheet == "" {
		names := wb.SheetNames()
		if len(names) == 0 {
			return fmt.Errorf("csvio: workbook has no sheets: %w", workbook.ErrUnknownSheet)
		}
		sheet = names[0]
	}
	ws, err := wb.Worksheet(sheet)
	if err != nil {
		return fmt.Errorf("csvio: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csvio: %w", err)
	}
	if err := Write(f, ws, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
