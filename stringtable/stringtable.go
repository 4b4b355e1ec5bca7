// Package stringtable parses the xl/sharedStrings.xml part of an .xlsx file
// and provides indexed access to the shared string values.  The same type is
// the append-only, deduplicating pool the writers fill while serializing
// worksheets.
package stringtable

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// StringTable holds the shared strings of one workbook.
type StringTable struct {
	strings []string
	index   map[string]int
	refs    int
}

// New reads all shared string entries from r and returns a populated
// StringTable.  Rich-text entries (<si><r><t>..</t></r>...</si>) are
// flattened by concatenating their runs; phonetic runs (<rPh>) are ignored.
func New(r io.Reader) (*StringTable, error) {
	st := &StringTable{index: make(map[string]int)}
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return st, nil
		}
		if err != nil {
			return nil, fmt.Errorf("stringtable: %w", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "si" {
			continue
		}
		s, err := parseSI(dec)
		if err != nil {
			return nil, fmt.Errorf("stringtable: entry %d: %w", len(st.strings), err)
		}
		st.strings = append(st.strings, s)
		if _, dup := st.index[s]; !dup {
			st.index[s] = len(st.strings) - 1
		}
	}
}

// NewFromBytes is a convenience wrapper that builds a StringTable from an
// in-memory byte slice (useful in tests).
func NewFromBytes(b []byte) (*StringTable, error) {
	return New(bytes.NewReader(b))
}

// Lookup returns the shared string at index idx and whether idx is in range.
func (st *StringTable) Lookup(idx int) (string, bool) {
	if st == nil || idx < 0 || idx >= len(st.strings) {
		return "", false
	}
	return st.strings[idx], true
}

// Len returns the number of unique entries in the table.
func (st *StringTable) Len() int {
	if st == nil {
		return 0
	}
	return len(st.strings)
}

// Add returns the index of s, appending it on first use.  Every call counts
// as one reference for [StringTable.Count].
func (st *StringTable) Add(s string) int {
	if st.index == nil {
		st.index = make(map[string]int)
	}
	st.refs++
	if i, ok := st.index[s]; ok {
		return i
	}
	st.strings = append(st.strings, s)
	st.index[s] = len(st.strings) - 1
	return len(st.strings) - 1
}

// Count returns the number of references handed out by Add since the last
// Reset.
func (st *StringTable) Count() int {
	if st == nil {
		return 0
	}
	return st.refs
}

// Reset empties the table.  Writers call it before serializing so indices
// are assigned in first-use order.
func (st *StringTable) Reset() {
	st.strings = st.strings[:0]
	st.index = make(map[string]int)
	st.refs = 0
}

// Strings returns a copy of the entries in index order.
func (st *StringTable) Strings() []string {
	if st == nil {
		return nil
	}
	return append([]string(nil), st.strings...)
}

// NeedsPreserve reports whether s must be written with xml:space="preserve"
// to survive whitespace normalization.
func NeedsPreserve(s string) bool {
	if s == "" {
		return false
	}
	return strings.TrimSpace(s[:1]) == "" || strings.TrimSpace(s[len(s)-1:]) == ""
}

// parseSI reads from just after <si> up to the matching </si>.  Direct <t>
// children and <t> children of <r> runs contribute text.
func parseSI(dec *xml.Decoder) (string, error) {
	var b strings.Builder
	var stack []string
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			stack = append(stack, t.Name.Local)
		case xml.EndElement:
			if len(stack) == 0 {
				return b.String(), nil
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if textContext(stack) {
				b.Write(t)
			}
		}
	}
}

func textContext(stack []string) bool {
	switch len(stack) {
	case 1:
		return stack[0] == "t"
	case 2:
		return stack[0] == "r" && stack[1] == "t"
	}
	return false
}
