package worksheet

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/TsubasaBE/go-xlsx/address"
	"github.com/TsubasaBE/go-xlsx/internal/dateformat"
	"github.com/TsubasaBE/go-xlsx/stringtable"
	"github.com/TsubasaBE/go-xlsx/styles"
)

// ErrMalformedCell is returned by Parse for a cell whose payload does not
// match its declared type, such as a shared-string index past the end of
// the table.
var ErrMalformedCell = errors.New("worksheet: malformed cell")

// Source carries the workbook-level tables a worksheet part refers to.
// Every field may be left zero.
type Source struct {
	// Strings is the shared-string table; nil means no table.
	Strings *stringtable.StringTable
	// Styles maps the s attribute of a cell to its number format.
	Styles styles.StyleTable
	// Date1904 selects the 1904 date system.
	Date1904 bool
	// Comments holds comment text by cell, from the sheet's comment part.
	Comments map[address.Coord]string
}

type cellXML struct {
	R  string     `xml:"r,attr"`
	T  string     `xml:"t,attr"`
	S  int        `xml:"s,attr"`
	V  *string    `xml:"v"`
	F  *string    `xml:"f"`
	Is *inlineXML `xml:"is"`
}

type inlineXML struct {
	T    string `xml:"t"`
	Runs []struct {
		T string `xml:"t"`
	} `xml:"r"`
}

func (is *inlineXML) String() string {
	if is == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(is.T)
	for _, r := range is.Runs {
		b.WriteString(r.T)
	}
	return b.String()
}

// Parse decodes a worksheet part.  Cells carrying neither a value, a
// formula nor a comment are not stored.  Numbers whose style is a date,
// time or datetime format are stored as text in the layouts of
// [dateformat].  A cell label that is not a valid address is an error
// matching [address.ErrInvalidAddress].
func Parse(r io.Reader, src Source) (*Worksheet, error) {
	ws := New()
	dec := xml.NewDecoder(r)
	row, col := 0, 0
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("worksheet: %w", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "row":
			row, col = nextRow(se, row), 0
		case "c":
			var cx cellXML
			if err := dec.DecodeElement(&cx, &se); err != nil {
				return nil, fmt.Errorf("worksheet: %w", err)
			}
			if cx.R != "" {
				r, c, err := address.ToIndex(cx.R)
				if err != nil {
					return nil, fmt.Errorf("worksheet: cell %q: %w", cx.R, err)
				}
				row, col = r, c
			} else {
				row, col = max(row, 1), col+1
			}
			cell, err := decodeCell(cx, src)
			if err != nil {
				return nil, fmt.Errorf("worksheet: cell %s: %w", address.MustFromIndex(row, col), err)
			}
			if !cell.hasData() {
				continue
			}
			ws.cells[address.Coord{Row: row, Col: col}] = cell
			ws.grow(address.Coord{Row: row, Col: col})
		}
	}
	for k, text := range src.Comments {
		if text == "" {
			continue
		}
		c := ws.cells[k]
		c.Comment = text
		ws.cells[k] = c
		ws.grow(k)
	}
	return ws, nil
}

// nextRow returns the row index of a <row> element, falling back to the row
// after prev when the r attribute is absent or unusable.
func nextRow(se xml.StartElement, prev int) int {
	for _, a := range se.Attr {
		if a.Name.Local != "r" {
			continue
		}
		if n, err := strconv.Atoi(a.Value); err == nil && n > 0 {
			return n
		}
	}
	return prev + 1
}

func decodeCell(cx cellXML, src Source) (Cell, error) {
	cell := Cell{Style: cx.S}
	if cx.F != nil {
		cell.Formula = *cx.F
	}
	if cx.T == "inlineStr" {
		cell.Value = Text(cx.Is.String())
		return cell, nil
	}
	if cx.V == nil {
		return cell, nil
	}
	raw := *cx.V
	switch cx.T {
	case "s":
		idx, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return cell, fmt.Errorf("shared string index %q: %w", raw, ErrMalformedCell)
		}
		s, ok := src.Strings.Lookup(idx)
		if !ok {
			return cell, fmt.Errorf("shared string index %d of %d: %w", idx, src.Strings.Len(), ErrMalformedCell)
		}
		cell.Value = Text(s)
	case "b":
		switch strings.TrimSpace(raw) {
		case "1", "true":
			cell.Value = Bool(true)
		case "0", "false":
			cell.Value = Bool(false)
		default:
			return cell, fmt.Errorf("boolean %q: %w", raw, ErrMalformedCell)
		}
	case "str", "e", "d":
		cell.Value = Text(raw)
	case "", "n":
		if strings.TrimSpace(raw) == "" {
			return cell, nil
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return cell, fmt.Errorf("number %q: %w", raw, ErrMalformedCell)
		}
		cell.Value = Number(n)
		if kind := src.Styles.Kind(cx.S); kind != dateformat.None {
			if s, err := dateformat.Format(n, kind, src.Date1904); err == nil {
				cell.Value = Text(s)
			}
		}
	default:
		cell.Value = Text(raw)
	}
	return cell, nil
}
