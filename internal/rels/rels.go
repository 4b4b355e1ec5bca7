// Package rels parses and resolves OOXML relationship parts (.rels).
//
// It exists so the reader (workbook/) and the writers (writer/) share one
// view of the relationship graph between container parts.
package rels

import (
	"encoding/xml"
	"fmt"
	"path"
	"strings"
)

// Relationships is the root element of a .rels XML document.
type Relationships struct {
	Relationships []Relationship `xml:"Relationship"`
}

// Relationship is one entry in a .rels XML document.
type Relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

// External reports whether the target points outside the package.
func (r Relationship) External() bool {
	return strings.EqualFold(r.TargetMode, "External")
}

// HasType reports whether the relationship type ends in "/"+suffix.  Both
// the transitional and the strict schema URIs share their final segment.
func (r Relationship) HasType(suffix string) bool {
	return strings.HasSuffix(r.Type, "/"+suffix)
}

// Parse parses the raw bytes of a .rels XML file.
func Parse(data []byte) ([]Relationship, error) {
	var r Relationships
	if err := xml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse rels XML: %w", err)
	}
	return r.Relationships, nil
}

// ParseMap parses the raw bytes of a .rels XML file and returns a map of
// relationship ID → relationship.
func ParseMap(data []byte) (map[string]Relationship, error) {
	list, err := Parse(data)
	if err != nil {
		return nil, err
	}
	m := make(map[string]Relationship, len(list))
	for _, rel := range list {
		m[rel.ID] = rel
	}
	return m, nil
}

// PartRels returns the path of the .rels part that describes part:
// "xl/worksheets/sheet1.xml" → "xl/worksheets/_rels/sheet1.xml.rels".
func PartRels(part string) string {
	dir, file := path.Split(part)
	return dir + "_rels/" + file + ".rels"
}

// Resolve returns the zip entry name that target refers to when it appears
// in the relationships of source.  Absolute targets ("/xl/...") are taken
// from the package root; relative targets are joined to source's directory.
func Resolve(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return path.Clean(strings.TrimPrefix(target, "/"))
	}
	return path.Clean(path.Join(path.Dir(source), target))
}

// ResolveWorkbookTarget resolves a target listed in xl/_rels/workbook.xml.rels.
// Some third-party writers emit "xl/worksheets/sheet1.xml" (package-relative
// without the leading slash); that form is accepted alongside the standard
// "worksheets/sheet1.xml" and "/xl/worksheets/sheet1.xml".
func ResolveWorkbookTarget(target string) string {
	t := strings.TrimPrefix(target, "/")
	if strings.HasPrefix(t, "xl/") {
		return path.Clean(t)
	}
	return Resolve("xl/workbook.xml", target)
}

// Relative returns target expressed relative to the directory of source,
// the inverse of Resolve for targets inside the package.
func Relative(source, target string) string {
	from := strings.Split(path.Dir(source), "/")
	to := strings.Split(target, "/")
	if path.Dir(source) == "." {
		from = nil
	}
	i := 0
	for i < len(from) && i < len(to)-1 && from[i] == to[i] {
		i++
	}
	var parts []string
	for range from[i:] {
		parts = append(parts, "..")
	}
	parts = append(parts, to[i:]...)
	return strings.Join(parts, "/")
}
