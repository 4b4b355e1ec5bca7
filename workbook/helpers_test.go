package workbook_test

import (
	"archive/zip"
	"bytes"
	"slices"
	"testing"
)

// zipAddFile writes data as a new entry named name into zw.
// It calls t.Fatalf on any error.
func zipAddFile(t *testing.T, zw *zip.Writer, name string, data []byte) {
	t.Helper()
	f, err := zw.Create(name)
	if err != nil {
		t.Fatalf("zip create %s: %v", name, err)
	}
	if _, err := f.Write(data); err != nil {
		t.Fatalf("zip write %s: %v", name, err)
	}
}

// buildZip packs parts into an in-memory zip, entries in name order.
func buildZip(t *testing.T, parts map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	names := make([]string, 0, len(parts))
	for n := range parts {
		names = append(names, n)
	}
	slices.Sort(names)
	for _, n := range names {
		zipAddFile(t, zw, n, []byte(parts[n]))
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

const (
	workbookRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet1.xml"/>
<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="/xl/worksheets/sheet2.xml"/>
<Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/sharedStrings" Target="sharedStrings.xml"/>
<Relationship Id="rId4" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
</Relationships>`

	workbookXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
<workbookPr/>
<sheets>
<sheet name="sh1" sheetId="1" r:id="rId1"/>
<sheet name="My Sheet" sheetId="2" r:id="rId2"/>
</sheets>
<definedNames>
<definedName name="total">sh1!$B$4</definedName>
<definedName name="block">'My Sheet'!$A$1:$B$2</definedName>
<definedName name="constant">42</definedName>
<definedName name="ghost">Nowhere!$A$1</definedName>
<definedName name="_xlnm.Print_Area" localSheetId="0">sh1!$A$1:$C$3</definedName>
</definedNames>
</workbook>`

	sheet1XML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
<sheetData>
<row r="1"><c r="A1" t="s"><v>0</v></c><c r="B1" s="1"><v>43831</v></c></row>
<row r="4"><c r="B4"><v>42</v></c></row>
</sheetData>
</worksheet>`

	sheet2XML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
<sheetData>
<row r="1"><c r="A1" t="s"><v>1</v></c><c r="B1"><f>A2+1</f><v>2</v></c></row>
<row r="2"><c r="A2"><v>1</v></c><c r="B2" t="b"><v>0</v></c></row>
</sheetData>
</worksheet>`

	sharedStringsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" count="2" uniqueCount="2"><si><t>hello</t></si><si><t>second</t></si></sst>`

	stylesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<styleSheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><cellXfs count="2"><xf numFmtId="0"/><xf numFmtId="14"/></cellXfs></styleSheet>`

	sheet2RelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/comments" Target="../comments1.xml"/>
</Relationships>`

	comments1XML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<comments xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><authors><author>a</author></authors><commentList><comment ref="A2" authorId="0"><text><t>remember</t></text></comment></commentList></comments>`
)

// fixtureParts returns a small two-sheet workbook.
func fixtureParts() map[string]string {
	return map[string]string{
		"xl/workbook.xml":                    workbookXML,
		"xl/_rels/workbook.xml.rels":         workbookRelsXML,
		"xl/worksheets/sheet1.xml":           sheet1XML,
		"xl/worksheets/sheet2.xml":           sheet2XML,
		"xl/worksheets/_rels/sheet2.xml.rels": sheet2RelsXML,
		"xl/comments1.xml":                   comments1XML,
		"xl/sharedStrings.xml":               sharedStringsXML,
		"xl/styles.xml":                      stylesXML,
	}
}
