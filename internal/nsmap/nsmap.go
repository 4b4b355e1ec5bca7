// Package nsmap collects the namespace declarations of an XML document's
// root element.  Each call returns a fresh map; no parser state is shared
// between calls.
package nsmap

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

// Map maps a namespace prefix to its URI.  The default namespace is stored
// under "".
type Map map[string]string

// Resolve reads the root element of data and returns its namespace
// declarations.
func Resolve(data []byte) (Map, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("nsmap: no root element")
		}
		if err != nil {
			return nil, fmt.Errorf("nsmap: %w", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		m := Map{}
		for _, a := range se.Attr {
			switch {
			case a.Name.Space == "" && a.Name.Local == "xmlns":
				m[""] = a.Value
			case a.Name.Space == "xmlns":
				m[a.Name.Local] = a.Value
			}
		}
		return m, nil
	}
}

// Prefix returns the prefix bound to uri.  A URI bound to the default
// namespace yields ("", true).  When a URI is bound more than once the
// default namespace wins, then the lexically smallest prefix.
func (m Map) Prefix(uri string) (string, bool) {
	if m[""] == uri && uri != "" {
		return "", true
	}
	best, found := "", false
	for p, u := range m {
		if p == "" || u != uri {
			continue
		}
		if !found || p < best {
			best, found = p, true
		}
	}
	return best, found
}
