// Package xlsx reads and writes Office Open XML spreadsheets (.xlsx and
// .xlsm) as a plain grid of values.  No cgo is required.
//
// # Quick start
//
//	wb, err := xlsx.Open("Book1.xlsx", xlsx.ReadOptions{})
//	if err != nil { ... }
//
//	fmt.Println(wb.SheetNames()) // ["Sheet1", "Sheet2"]
//
//	ws, err := wb.Worksheet("Sheet1")
//	if err != nil { ... }
//
//	for row := range ws.Rows() {
//	    fmt.Println(row)
//	}
//
// Cells hold a [worksheet.Value]: empty, text, number or boolean.  Numeric
// cells whose style is a date or time format are read as text in the
// layouts 2006/01/02, 15:04:05 and 2006/01/02 15:04:05.  Formulas are kept
// as text and never evaluated.
//
// # Writing
//
// [Write] builds a new container when the destination does not exist.  An
// existing destination is patched: sheets, shared strings and the parts
// describing them are regenerated and unrelated parts (themes, styles,
// document properties) are carried over.
//
//	ws := wb.AddWorksheet("Summary", nil)
//	ws.SetAddress("B4", worksheet.Int(42))
//	rep, err := xlsx.Write(wb, "Book1.xlsx", xlsx.WriteOptions{})
//
// When the destination is locked by another process the workbook is saved
// as "new_<name>" next to it; rep.Path names the file written and
// rep.Warnings holds a *writer.LockedError.
//
// # Dates
//
// [ConvertDate] and [ConvertDateEx] turn an Excel serial into a
// [time.Time]; pass wb.Date1904 to ConvertDateEx for workbooks using the
// 1904 date system.  [IsDateFormat] classifies a numFmtId and format code.
package xlsx

import (
	"io"
	"time"

	"github.com/TsubasaBE/go-xlsx/address"
	"github.com/TsubasaBE/go-xlsx/internal/dateformat"
	"github.com/TsubasaBE/go-xlsx/workbook"
	"github.com/TsubasaBE/go-xlsx/writer"
)

// Version is the current version of the go-xlsx library.
const Version = "0.3.0"

type (
	// ReadOptions configures Open and OpenReader.
	ReadOptions = workbook.Options
	// WriteOptions configures Write.
	WriteOptions = writer.Options
)

// Error kinds, matched with errors.Is.
var (
	ErrInvalidAddress       = address.ErrInvalidAddress
	ErrInvalidIndex         = address.ErrInvalidIndex
	ErrContainer            = workbook.ErrContainer
	ErrUnknownSheet         = workbook.ErrUnknownSheet
	ErrIllFormedWorkbookXML = workbook.ErrIllFormedWorkbookXML
	ErrFileNotFound         = workbook.ErrFileNotFound
	ErrBadExtension         = workbook.ErrBadExtension
	ErrDestinationLocked    = writer.ErrDestinationLocked
)

// Open reads the named .xlsx or .xlsm file.  opts.Sheets limits the sheets
// read; an unknown name fails with ErrUnknownSheet.
func Open(name string, opts ReadOptions) (*workbook.Workbook, error) {
	return workbook.Open(name, opts)
}

// OpenReader reads a workbook from an arbitrary [io.ReaderAt].  size must
// equal the total byte length of the data.
func OpenReader(r io.ReaderAt, size int64, opts ReadOptions) (*workbook.Workbook, error) {
	return workbook.OpenReader(r, size, opts)
}

// Write saves wb to name.  See the package documentation for the two write
// modes.
func Write(wb *workbook.Workbook, name string, opts WriteOptions) (*writer.Report, error) {
	return writer.Write(wb, name, opts)
}

// ConvertDate converts a serial in the 1900 date system to a [time.Time].
//
// Excel keeps Lotus 1-2-3's phantom 1900-02-29 (serial 60), so serial 61 is
// 1900-03-01 and serial 0 is midnight on 1900-01-01.  The fractional day is
// rounded to the nearest second.
func ConvertDate(date float64) (time.Time, error) {
	return dateformat.Convert(date, false)
}

// ConvertDateEx is like ConvertDate but honours the 1904 date system, in
// which serial 0 is 1904-01-01.
func ConvertDateEx(date float64, date1904 bool) (time.Time, error) {
	return dateformat.Convert(date, date1904)
}

// IsDateFormat reports whether numFmtId id, with formatStr for custom ids
// (164 and up), renders a serial as a date, a time or both.
func IsDateFormat(id int, formatStr string) bool {
	return dateformat.Classify(id, formatStr) != dateformat.None
}
