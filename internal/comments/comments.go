// Package comments decodes legacy cell-comment parts (xl/commentsN.xml).
package comments

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/TsubasaBE/go-xlsx/address"
)

// threadedMarker opens the placeholder text Excel writes into the legacy
// comment part when the real comment is a threaded one.
const threadedMarker = "[Threaded comment]"

type commentsXML struct {
	List []struct {
		Ref  string  `xml:"ref,attr"`
		Text textXML `xml:"text"`
	} `xml:"commentList>comment"`
}

type textXML struct {
	T    string `xml:"t"`
	Runs []struct {
		T string `xml:"t"`
	} `xml:"r"`
}

func (t textXML) String() string {
	if len(t.Runs) == 0 {
		return t.T
	}
	var b strings.Builder
	b.WriteString(t.T)
	for _, r := range t.Runs {
		b.WriteString(r.T)
	}
	return b.String()
}

// Parse returns the comment text of every cell in the part, keyed by cell
// position.  Threaded-comment placeholders are reduced to the comment body.
func Parse(data []byte) (map[address.Coord]string, error) {
	var doc commentsXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("comments: %w", err)
	}
	out := make(map[address.Coord]string, len(doc.List))
	for _, c := range doc.List {
		r, col, err := address.ToIndex(c.Ref)
		if err != nil {
			return nil, fmt.Errorf("comments: %w", err)
		}
		out[address.Coord{Row: r, Col: col}] = Clean(c.Text.String())
	}
	return out, nil
}

// Clean strips Excel's threaded-comment placeholder, keeping only the text
// after the first "Comment:" label.  Other text is returned unchanged.
func Clean(text string) string {
	body, ok := strings.CutPrefix(strings.TrimSpace(text), threadedMarker)
	if !ok {
		return text
	}
	if _, after, found := strings.Cut(body, "Comment:"); found {
		return strings.TrimSpace(after)
	}
	return strings.TrimSpace(body)
}
