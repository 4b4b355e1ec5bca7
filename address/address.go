// Package address converts between spreadsheet cell labels ("A1", "XFD1048576")
// and 1-based (row, column) index pairs.
//
// Column letters are a bijective base-26 numeral: there is no zero digit,
// "A".."Z" are 1..26, "AA" is 27, "ZZ" is 702 and "AAA" is 703.  Labels are
// case-insensitive on input and always produced in upper case.
package address

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidAddress is returned for malformed cell labels and ranges.
var ErrInvalidAddress = errors.New("invalid address")

// ErrInvalidIndex is returned when a row or column index is < 1.  It wraps
// ErrInvalidAddress so callers can match either.
var ErrInvalidIndex = fmt.Errorf("%w: index out of range", ErrInvalidAddress)

// Excel's own sheet limits.  The codec accepts anything up to the internal
// caps below; these are exported for callers that want to validate against
// what a spreadsheet application will actually open.
const (
	MaxExcelRows = 1_048_576
	MaxExcelCols = 16_384
)

// Internal caps keep every index representable as a 32-bit int.
const (
	maxColumnLetters = 6
	maxCol           = 321_272_406 // "ZZZZZZ"
	maxRow           = 1<<31 - 1
)

// Coord is a 1-based cell position.
type Coord struct {
	Row int
	Col int
}

// String returns the cell label for c, or "" when c is out of range.
func (c Coord) String() string {
	s, err := FromIndex(c.Row, c.Col)
	if err != nil {
		return ""
	}
	return s
}

// ToIndex parses a cell label and returns its 1-based row and column.
// A single leading '$' on either part (absolute reference) is accepted.
func ToIndex(label string) (row, col int, err error) {
	if label == "" {
		return 0, 0, fmt.Errorf("address: empty label: %w", ErrInvalidAddress)
	}
	s := strings.TrimPrefix(label, "$")

	i := 0
	for i < len(s) && isLetter(s[i]) {
		i++
	}
	letters, digits := s[:i], strings.TrimPrefix(s[i:], "$")
	if letters == "" {
		return 0, 0, fmt.Errorf("address: %q has no column letters: %w", label, ErrInvalidAddress)
	}
	if digits == "" {
		return 0, 0, fmt.Errorf("address: %q has no row number: %w", label, ErrInvalidAddress)
	}
	for j := 0; j < len(digits); j++ {
		if digits[j] < '0' || digits[j] > '9' {
			return 0, 0, fmt.Errorf("address: %q contains %q: %w", label, digits[j], ErrInvalidAddress)
		}
	}

	col, err = ColumnNumber(letters)
	if err != nil {
		return 0, 0, fmt.Errorf("address: %q: %w", label, err)
	}
	r, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || r < 1 || r > maxRow {
		return 0, 0, fmt.Errorf("address: %q row out of range: %w", label, ErrInvalidAddress)
	}
	return int(r), col, nil
}

// FromIndex returns the cell label for the 1-based row and column.
func FromIndex(row, col int) (string, error) {
	if row < 1 || row > maxRow {
		return "", fmt.Errorf("address: row %d: %w", row, ErrInvalidIndex)
	}
	letters, err := ColumnLetters(col)
	if err != nil {
		return "", err
	}
	return letters + strconv.Itoa(row), nil
}

// MustFromIndex is like FromIndex but panics on invalid input.  It is meant
// for loops whose bounds are already known to be valid.
func MustFromIndex(row, col int) string {
	s, err := FromIndex(row, col)
	if err != nil {
		panic(err)
	}
	return s
}

// ColumnNumber decodes column letters ("A", "xfd") into a 1-based index.
func ColumnNumber(letters string) (int, error) {
	if letters == "" || len(letters) > maxColumnLetters {
		return 0, fmt.Errorf("column %q: %w", letters, ErrInvalidAddress)
	}
	n := 0
	for i := 0; i < len(letters); i++ {
		ch := letters[i]
		if !isLetter(ch) {
			return 0, fmt.Errorf("column %q: %w", letters, ErrInvalidAddress)
		}
		n = n*26 + int(upper(ch)-'A') + 1
	}
	return n, nil
}

// ColumnLetters encodes a 1-based column index as letters.
func ColumnLetters(col int) (string, error) {
	if col < 1 || col > maxCol {
		return "", fmt.Errorf("address: column %d: %w", col, ErrInvalidIndex)
	}
	var buf [maxColumnLetters]byte
	i := len(buf)
	for n := col; n > 0; n = (n - 1) / 26 {
		i--
		buf[i] = byte('A' + (n-1)%26)
	}
	return string(buf[i:]), nil
}

// Range is an inclusive rectangle of cells.  From is always the top-left and
// To the bottom-right corner.
type Range struct {
	From Coord
	To   Coord
}

// Rows returns the number of rows spanned by r.
func (r Range) Rows() int { return r.To.Row - r.From.Row + 1 }

// Cols returns the number of columns spanned by r.
func (r Range) Cols() int { return r.To.Col - r.From.Col + 1 }

// String renders r as "A1" for a single cell or "A1:B2" otherwise.
func (r Range) String() string {
	if r.From == r.To {
		return r.From.String()
	}
	return r.From.String() + ":" + r.To.String()
}

// ParseRange accepts "A1", "A1:C3" or absolute forms such as "$A$1:$C$3".
// Reversed corners ("C3:A1") are normalized.
func ParseRange(ref string) (Range, error) {
	first, second, isRange := strings.Cut(ref, ":")
	r1, c1, err := ToIndex(first)
	if err != nil {
		return Range{}, err
	}
	if !isRange {
		c := Coord{Row: r1, Col: c1}
		return Range{From: c, To: c}, nil
	}
	r2, c2, err := ToIndex(second)
	if err != nil {
		return Range{}, err
	}
	return Range{
		From: Coord{Row: min(r1, r2), Col: min(c1, c2)},
		To:   Coord{Row: max(r1, r2), Col: max(c1, c2)},
	}, nil
}

// Dimension returns the worksheet dimension reference for a sheet whose used
// area is rows × cols anchored at A1: "A1" for an empty or single-cell sheet,
// "A1:<last>" otherwise.
func Dimension(rows, cols int) string {
	if rows <= 1 && cols <= 1 {
		return "A1"
	}
	return "A1:" + MustFromIndex(max(rows, 1), max(cols, 1))
}

func isLetter(ch byte) bool {
	return (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z')
}

func upper(ch byte) byte {
	if ch >= 'a' && ch <= 'z' {
		return ch - 'a' + 'A'
	}
	return ch
}
