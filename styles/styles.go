// Package styles maps the s attribute of a cell to the number format of
// its cell format record in xl/styles.xml.  Fonts, fills and borders are
// not modeled.
package styles

import (
	"encoding/xml"
	"fmt"

	"github.com/TsubasaBE/go-xlsx/internal/dateformat"
)

// XFStyle is one <xf> entry of <cellXfs>.
type XFStyle struct {
	// NumFmtID is the numFmtId attribute of the <xf>.  Values 0–163 are
	// built-in Excel formats; values ≥ 164 are custom formats defined by a
	// <numFmt> element in the same file.
	NumFmtID int
	// FormatStr is the formatCode of the corresponding <numFmt>.  It is
	// empty for built-in IDs that have no custom override.
	FormatStr string
}

// StyleTable is indexed by the s attribute of a <c> element.
type StyleTable []XFStyle

// Default returns the table used when xl/styles.xml is absent or unreadable:
// a single General style at index 0.
func Default() StyleTable {
	return StyleTable{{NumFmtID: 0}}
}

type styleSheetXML struct {
	NumFmts struct {
		NumFmt []struct {
			ID   int    `xml:"numFmtId,attr"`
			Code string `xml:"formatCode,attr"`
		} `xml:"numFmt"`
	} `xml:"numFmts"`
	CellXfs struct {
		Xf []struct {
			NumFmtID int `xml:"numFmtId,attr"`
		} `xml:"xf"`
	} `xml:"cellXfs"`
}

// Parse builds a StyleTable from the raw bytes of xl/styles.xml.
func Parse(data []byte) (StyleTable, error) {
	var ss styleSheetXML
	if err := xml.Unmarshal(data, &ss); err != nil {
		return nil, fmt.Errorf("styles: %w", err)
	}
	fmts := make(map[int]string, len(ss.NumFmts.NumFmt))
	for _, f := range ss.NumFmts.NumFmt {
		fmts[f.ID] = f.Code
	}
	table := make(StyleTable, 0, len(ss.CellXfs.Xf))
	for _, xf := range ss.CellXfs.Xf {
		table = append(table, XFStyle{NumFmtID: xf.NumFmtID, FormatStr: fmts[xf.NumFmtID]})
	}
	if len(table) == 0 {
		return Default(), nil
	}
	return table, nil
}

// Kind returns the temporal category of style index s.  Out-of-range
// indices are [dateformat.None].
func (st StyleTable) Kind(s int) dateformat.Kind {
	if s < 0 || s >= len(st) {
		return dateformat.None
	}
	return dateformat.Classify(st[s].NumFmtID, st[s].FormatStr)
}

// IsDate reports whether style index s renders as a date or time.  A nil
// table has no date styles.
func (st StyleTable) IsDate(s int) bool {
	return st.Kind(s) != dateformat.None
}
