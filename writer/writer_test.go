package writer_test

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TsubasaBE/go-xlsx/workbook"
	"github.com/TsubasaBE/go-xlsx/worksheet"
	"github.com/TsubasaBE/go-xlsx/writer"
)

var fixedNow = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }

func quietOptions() writer.Options {
	log, _ := logtest.NewNullLogger()
	return writer.Options{Logger: log, Now: fixedNow}
}

// readEntries returns every entry of the zip at path.
func readEntries(t *testing.T, path string) map[string]string {
	t.Helper()
	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()
	out := make(map[string]string, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		out[f.Name] = string(b)
	}
	return out
}

// rewriteEntries replaces the container at path with entries, in the order
// of the original archive followed by any new names.
func rewriteEntries(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	var order []string
	for _, f := range zr.File {
		order = append(order, f.Name)
	}
	zr.Close()
	seen := make(map[string]bool)
	for _, n := range order {
		seen[n] = true
	}
	for n := range entries {
		if !seen[n] {
			order = append(order, n)
		}
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, n := range order {
		data, ok := entries[n]
		if !ok {
			continue
		}
		w, err := zw.Create(n)
		require.NoError(t, err)
		_, err = w.Write([]byte(data))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func set(t *testing.T, ws *worksheet.Worksheet, label string, v worksheet.Value) {
	t.Helper()
	require.NoError(t, ws.SetAddress(label, v))
}

func open(t *testing.T, path string) *workbook.Workbook {
	t.Helper()
	log, _ := logtest.NewNullLogger()
	wb, err := workbook.Open(path, workbook.Options{Logger: log})
	require.NoError(t, err)
	return wb
}

func TestWriteNewRoundTrip(t *testing.T) {
	wb := workbook.New()
	set(t, wb.AddWorksheet("Sheet1", nil), "B4", worksheet.Int(42))

	path := filepath.Join(t.TempDir(), "out.xlsx")
	rep, err := writer.Write(wb, path, quietOptions())
	require.NoError(t, err)
	assert.Equal(t, writer.ModeNew, rep.Mode)
	assert.Equal(t, path, rep.Path)
	assert.Empty(t, rep.Warnings)

	got := open(t, path)
	assert.Equal(t, []string{"Sheet1"}, got.SheetNames())
	ws, err := got.Worksheet("Sheet1")
	require.NoError(t, err)
	assert.Equal(t, worksheet.Int(42), ws.Index(4, 2))
	rows, cols := ws.Size()
	assert.Equal(t, [2]int{4, 2}, [2]int{rows, cols})

	entries := readEntries(t, path)
	assert.Contains(t, entries["xl/worksheets/sheet1.xml"], `<dimension ref="A1:B4"/>`)
	assert.Contains(t, entries["docProps/core.xml"], "2024-03-01T12:00:00Z")
	assert.NotContains(t, entries, "xl/sharedStrings.xml")
	assert.NotContains(t, entries["xl/_rels/workbook.xml.rels"], "sharedStrings")
	assert.NotContains(t, entries["[Content_Types].xml"], "sharedStrings")
}

func TestWriteNewPartOrder(t *testing.T) {
	wb := workbook.New()
	wb.AddWorksheet("a", nil)
	path := filepath.Join(t.TempDir(), "order.xlsx")
	_, err := writer.Write(wb, path, quietOptions())
	require.NoError(t, err)

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()
	require.NotEmpty(t, zr.File)
	assert.Equal(t, "[Content_Types].xml", zr.File[0].Name)

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	for _, want := range []string{"_rels/.rels", "docProps/app.xml", "docProps/core.xml", "xl/workbook.xml", "xl/_rels/workbook.xml.rels", "xl/worksheets/sheet1.xml"} {
		assert.Contains(t, names, want)
	}
	entries := readEntries(t, path)
	assert.Contains(t, entries["xl/worksheets/sheet1.xml"], `<dimension ref="A1"/>`)
}

func TestWriteSharedStringDedup(t *testing.T) {
	wb := workbook.New()
	ws := wb.AddWorksheet("s", nil)
	set(t, ws, "A1", worksheet.Text("copy"))
	set(t, ws, "B2", worksheet.Text("copy"))
	set(t, ws, "C3", worksheet.Text(" padded "))

	path := filepath.Join(t.TempDir(), "dedup.xlsx")
	_, err := writer.Write(wb, path, quietOptions())
	require.NoError(t, err)

	sst := readEntries(t, path)["xl/sharedStrings.xml"]
	assert.Contains(t, sst, `count="3"`)
	assert.Contains(t, sst, `uniqueCount="2"`)
	assert.Equal(t, 1, strings.Count(sst, "<t>copy</t>"))
	assert.Contains(t, sst, `<t xml:space="preserve"> padded </t>`)

	got, err := open(t, path).Worksheet("s")
	require.NoError(t, err)
	assert.Equal(t, worksheet.Text("copy"), got.Index(2, 2))
	assert.Equal(t, worksheet.Text(" padded "), got.Index(3, 3))
}

func TestWriteFormulaRoundTrip(t *testing.T) {
	wb := workbook.New()
	ws := wb.AddWorksheet("f", nil)
	set(t, ws, "A1", worksheet.Int(1))
	set(t, ws, "A2", worksheet.Text("=A1+2"))
	set(t, ws, "A3", worksheet.Bool(true))

	path := filepath.Join(t.TempDir(), "formula.xlsx")
	_, err := writer.Write(wb, path, quietOptions())
	require.NoError(t, err)

	sheet := readEntries(t, path)["xl/worksheets/sheet1.xml"]
	assert.Contains(t, sheet, `<c r="A2"><f>A1+2</f></c>`)
	assert.Contains(t, sheet, `<c r="A3" t="b"><v>1</v></c>`)

	got, err := open(t, path).Worksheet("f")
	require.NoError(t, err)
	c, ok := got.Cell(2, 1)
	require.True(t, ok)
	assert.Equal(t, "A1+2", c.Formula)
	assert.True(t, c.Value.IsEmpty())
	assert.Equal(t, worksheet.Bool(true), got.Index(3, 1))
}

func TestWriteNamedRanges(t *testing.T) {
	wb := workbook.New()
	set(t, wb.AddWorksheet("My Sheet", nil), "B2", worksheet.Int(5))
	require.NoError(t, wb.AddNamedRange("block", "My Sheet", "A1:B2"))

	path := filepath.Join(t.TempDir(), "names.xlsx")
	_, err := writer.Write(wb, path, quietOptions())
	require.NoError(t, err)

	entries := readEntries(t, path)
	assert.Contains(t, entries["xl/workbook.xml"], `<definedName name="block">`)
	assert.Contains(t, entries["xl/workbook.xml"], `My Sheet`)
	assert.Contains(t, entries["xl/workbook.xml"], `!$A$1:$B$2</definedName>`)
	assert.Contains(t, entries["docProps/app.xml"], "<vt:lpstr>Named Ranges</vt:lpstr>")

	got := open(t, path)
	nr, ok := got.Resolve("block")
	require.True(t, ok)
	assert.Equal(t, workbook.NamedRange{Name: "block", Sheet: "My Sheet", Ref: "A1:B2"}, nr)
	assert.Equal(t, worksheet.Int(5), got.NamedRangeValues("block")[1][1])
}

func TestWriteMacroContentType(t *testing.T) {
	wb := workbook.New()
	wb.AddWorksheet("m", nil)
	path := filepath.Join(t.TempDir(), "macro.xlsm")
	_, err := writer.Write(wb, path, quietOptions())
	require.NoError(t, err)
	assert.Contains(t, readEntries(t, path)["[Content_Types].xml"], "application/vnd.ms-excel.sheet.macroEnabled.main+xml")
}

func TestWriteBadExtension(t *testing.T) {
	_, err := writer.Write(workbook.New(), filepath.Join(t.TempDir(), "out.csv"), quietOptions())
	assert.ErrorIs(t, err, workbook.ErrBadExtension)
}

// twoSheetFile writes sh1 and sh2 in new mode.
func twoSheetFile(t *testing.T) string {
	t.Helper()
	wb := workbook.New()
	sh1 := wb.AddWorksheet("sh1", nil)
	set(t, sh1, "A1", worksheet.Text("one"))
	sh2 := wb.AddWorksheet("sh2", nil)
	set(t, sh2, "A1", worksheet.Text("two"))
	set(t, sh2, "C5", worksheet.Number(2.5))
	set(t, sh2, "B2", worksheet.Text("=C5*2"))

	path := filepath.Join(t.TempDir(), "book.xlsx")
	_, err := writer.Write(wb, path, quietOptions())
	require.NoError(t, err)
	return path
}

func TestMergePreservesUntouchedSheet(t *testing.T) {
	path := twoSheetFile(t)
	before, err := open(t, path).Worksheet("sh2")
	require.NoError(t, err)

	wb := open(t, path)
	sh1, err := wb.Worksheet("sh1")
	require.NoError(t, err)
	set(t, sh1, "D4", worksheet.Text("edited"))

	rep, err := writer.Write(wb, path, quietOptions())
	require.NoError(t, err)
	assert.Equal(t, writer.ModeMerge, rep.Mode)
	assert.Equal(t, path, rep.Path)
	assert.Empty(t, rep.Warnings)

	after := open(t, path)
	assert.Equal(t, []string{"sh1", "sh2"}, after.SheetNames())
	got1, err := after.Worksheet("sh1")
	require.NoError(t, err)
	assert.Equal(t, worksheet.Text("edited"), got1.Index(4, 4))
	got2, err := after.Worksheet("sh2")
	require.NoError(t, err)
	assert.Equal(t, before.Coords(), got2.Coords())
	for _, k := range before.Coords() {
		want, _ := before.Cell(k.Row, k.Col)
		have, _ := got2.Cell(k.Row, k.Col)
		assert.Equal(t, want, have, k.String())
	}
}

func TestMergeUpdatesAppXML(t *testing.T) {
	path := twoSheetFile(t)
	entries := readEntries(t, path)
	entries["docProps/app.xml"] = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties" xmlns:vt="http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes" xmlns:x="urn:example:ext">
<Application>Microsoft Excel</Application>
<HeadingPairs><vt:vector size="4" baseType="variant"><vt:variant><vt:lpstr>Worksheets</vt:lpstr></vt:variant><vt:variant><vt:i4>2</vt:i4></vt:variant><vt:variant><vt:lpstr>Charts</vt:lpstr></vt:variant><vt:variant><vt:i4>1</vt:i4></vt:variant></vt:vector></HeadingPairs>
<TitlesOfParts><vt:vector size="3" baseType="lpstr"><vt:lpstr>sh1</vt:lpstr><vt:lpstr>sh2</vt:lpstr><vt:lpstr>Chart1</vt:lpstr></vt:vector></TitlesOfParts>
<x:Custom>keep me</x:Custom>
<Company>Acme</Company>
</Properties>`
	rewriteEntries(t, path, entries)

	wb := open(t, path)
	wb.AddWorksheet("sh3", nil)
	require.NoError(t, wb.AddNamedRange("total", "sh2", "$C$5"))
	rep, err := writer.Write(wb, path, quietOptions())
	require.NoError(t, err)
	assert.Empty(t, rep.Warnings)

	app := readEntries(t, path)["docProps/app.xml"]
	assert.Contains(t, app, "<x:Custom>keep me</x:Custom>")
	assert.Contains(t, app, "<Company>Acme</Company>")
	assert.Contains(t, app, `<vt:vector size="6" baseType="variant">`)
	assert.Contains(t, app, `<vt:vector size="5" baseType="lpstr">`)
	assert.Contains(t, app, "<vt:lpstr>sh1</vt:lpstr><vt:lpstr>sh2</vt:lpstr><vt:lpstr>sh3</vt:lpstr><vt:lpstr>Chart1</vt:lpstr><vt:lpstr>total</vt:lpstr>")
}

func TestMergeMalformedAppXMLWarns(t *testing.T) {
	path := twoSheetFile(t)
	entries := readEntries(t, path)
	entries["docProps/app.xml"] = `<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties"><Application>x</Application></Properties>`
	rewriteEntries(t, path, entries)

	log, hook := logtest.NewNullLogger()
	rep, err := writer.Write(open(t, path), path, writer.Options{Logger: log})
	require.NoError(t, err)
	require.Len(t, rep.Warnings, 1)
	require.NotEmpty(t, hook.Entries)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Contains(t, readEntries(t, path)["docProps/app.xml"], "<Application>x</Application>")
}

func TestMergeRemovesSheetsAndStaleParts(t *testing.T) {
	wb := workbook.New()
	for _, name := range []string{"a", "b", "c"} {
		set(t, wb.AddWorksheet(name, nil), "A1", worksheet.Text(name))
	}
	path := filepath.Join(t.TempDir(), "stale.xlsm")
	_, err := writer.Write(wb, path, quietOptions())
	require.NoError(t, err)

	entries := readEntries(t, path)
	entries["xl/printerSettings/printerSettings1.bin"] = "bin"
	entries["xl/vbaProject.bin"] = "bin"
	entries["xl/calcChain.xml"] = `<calcChain/>`
	entries["xl/comments1.xml"] = `<comments/>`
	entries["xl/worksheets/_rels/sheet1.xml.rels"] = `<Relationships/>`
	entries["xl/theme/theme1.xml"] = `<a:theme xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"/>`
	entries["docProps/custom.xml"] = `<Properties/>`
	entries["_rels/.rels"] = strings.Replace(entries["_rels/.rels"], "</Relationships>",
		`<Relationship Id="rId4" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/custom-properties" Target="docProps/custom.xml"/></Relationships>`, 1)
	entries["xl/_rels/workbook.xml.rels"] = strings.Replace(entries["xl/_rels/workbook.xml.rels"], "</Relationships>",
		`<Relationship Id="rId90" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme" Target="theme/theme1.xml"/>`+
			`<Relationship Id="rId91" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/calcChain" Target="calcChain.xml"/></Relationships>`, 1)
	entries["[Content_Types].xml"] = strings.Replace(entries["[Content_Types].xml"], "</Types>",
		`<Override PartName="/xl/theme/theme1.xml" ContentType="application/vnd.openxmlformats-officedocument.theme+xml"/>`+
			`<Override PartName="/xl/calcChain.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.calcChain+xml"/></Types>`, 1)
	rewriteEntries(t, path, entries)

	wb = open(t, path)
	require.True(t, wb.RemoveWorksheet("b"))
	_, err = writer.Write(wb, path, quietOptions())
	require.NoError(t, err)

	got := readEntries(t, path)
	for _, gone := range []string{
		"xl/printerSettings/printerSettings1.bin",
		"xl/vbaProject.bin",
		"xl/calcChain.xml",
		"xl/comments1.xml",
		"xl/worksheets/_rels/sheet1.xml.rels",
		"docProps/custom.xml",
		"xl/worksheets/sheet3.xml",
	} {
		assert.NotContains(t, got, gone)
	}
	for name := range got {
		assert.NotContains(t, name, "temp_")
	}
	assert.Contains(t, got, "xl/theme/theme1.xml")
	assert.NotContains(t, got["_rels/.rels"], "custom.xml")
	assert.Contains(t, got["xl/_rels/workbook.xml.rels"], `Target="theme/theme1.xml"`)
	assert.NotContains(t, got["xl/_rels/workbook.xml.rels"], "calcChain")
	assert.Contains(t, got["[Content_Types].xml"], "/xl/theme/theme1.xml")
	assert.NotContains(t, got["[Content_Types].xml"], "calcChain")
	assert.NotContains(t, got["[Content_Types].xml"], "/xl/worksheets/sheet3.xml")
	assert.Contains(t, got["[Content_Types].xml"], "macroEnabled")

	after := open(t, path)
	assert.Equal(t, []string{"a", "c"}, after.SheetNames())
	c, err := after.Worksheet("c")
	require.NoError(t, err)
	assert.Equal(t, worksheet.Text("c"), c.Index(1, 1))
}

func TestMergeReorderedSheetsKeepIdentity(t *testing.T) {
	path := twoSheetFile(t)
	wb := open(t, path)
	sh1, err := wb.Worksheet("sh1")
	require.NoError(t, err)
	require.True(t, wb.RemoveWorksheet("sh1"))
	wb.AddWorksheet("sh1", sh1)

	_, err = writer.Write(wb, path, quietOptions())
	require.NoError(t, err)

	after := open(t, path)
	assert.Equal(t, []string{"sh2", "sh1"}, after.SheetNames())
	got1, err := after.Worksheet("sh1")
	require.NoError(t, err)
	assert.Equal(t, worksheet.Text("one"), got1.Index(1, 1))
	got2, err := after.Worksheet("sh2")
	require.NoError(t, err)
	assert.Equal(t, worksheet.Text("two"), got2.Index(1, 1))
}

func TestMergeReplacesSheetStoredOutsideWorksheets(t *testing.T) {
	path := twoSheetFile(t)
	entries := readEntries(t, path)
	entries["xl/legacy/data.xml"] = entries["xl/worksheets/sheet2.xml"]
	delete(entries, "xl/worksheets/sheet2.xml")
	entries["xl/_rels/workbook.xml.rels"] = strings.Replace(entries["xl/_rels/workbook.xml.rels"],
		`Target="worksheets/sheet2.xml"`, `Target="legacy/data.xml"`, 1)
	entries["[Content_Types].xml"] = strings.Replace(entries["[Content_Types].xml"],
		`/xl/worksheets/sheet2.xml`, `/xl/legacy/data.xml`, 1)
	rewriteEntries(t, path, entries)

	wb := open(t, path)
	require.True(t, wb.RemoveWorksheet("sh1"))
	log, hook := logtest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	_, err := writer.Write(wb, path, writer.Options{Logger: log, Now: fixedNow})
	require.NoError(t, err)

	var from any
	for _, e := range hook.AllEntries() {
		if e.Message == "replacing sheet" && e.Data["sheet"] == "sh2" {
			from = e.Data["from"]
		}
	}
	assert.Equal(t, "xl/legacy/data.xml", from)

	got := readEntries(t, path)
	assert.NotContains(t, got, "xl/legacy/data.xml")
	assert.NotContains(t, got, "xl/worksheets/sheet2.xml")
	for name := range got {
		assert.NotContains(t, name, "temp_")
	}
	assert.NotContains(t, got["[Content_Types].xml"], "/xl/legacy/")

	after := open(t, path)
	assert.Equal(t, []string{"sh2"}, after.SheetNames())
	sh2, err := after.Worksheet("sh2")
	require.NoError(t, err)
	assert.Equal(t, worksheet.Text("two"), sh2.Index(1, 1))
}

func TestMergeRelocatesMainPart(t *testing.T) {
	path := twoSheetFile(t)
	entries := readEntries(t, path)
	entries["wb/book.xml"] = entries["xl/workbook.xml"]
	entries["wb/_rels/book.xml.rels"] = strings.NewReplacer(
		`Target="worksheets/`, `Target="/xl/worksheets/`,
		`Target="sharedStrings.xml"`, `Target="/xl/sharedStrings.xml"`,
	).Replace(entries["xl/_rels/workbook.xml.rels"])
	delete(entries, "xl/workbook.xml")
	delete(entries, "xl/_rels/workbook.xml.rels")
	entries["_rels/.rels"] = strings.Replace(entries["_rels/.rels"], `Target="xl/workbook.xml"`, `Target="wb/book.xml"`, 1)
	entries["[Content_Types].xml"] = strings.Replace(entries["[Content_Types].xml"], `"/xl/workbook.xml"`, `"/wb/book.xml"`, 1)
	rewriteEntries(t, path, entries)

	wb := open(t, path)
	require.Equal(t, []string{"sh1", "sh2"}, wb.SheetNames())
	sh1, err := wb.Worksheet("sh1")
	require.NoError(t, err)
	set(t, sh1, "B1", worksheet.Text("edited"))

	_, err = writer.Write(wb, path, quietOptions())
	require.NoError(t, err)

	got := readEntries(t, path)
	assert.Contains(t, got, "xl/workbook.xml")
	assert.NotContains(t, got, "wb/book.xml")
	assert.NotContains(t, got, "wb/_rels/book.xml.rels")
	assert.Contains(t, got["_rels/.rels"], `Target="xl/workbook.xml"`)
	assert.NotContains(t, got["[Content_Types].xml"], "/wb/book.xml")

	after := open(t, path)
	assert.Equal(t, []string{"sh1", "sh2"}, after.SheetNames())
	got1, err := after.Worksheet("sh1")
	require.NoError(t, err)
	assert.Equal(t, worksheet.Text("edited"), got1.Index(1, 2))
	got2, err := after.Worksheet("sh2")
	require.NoError(t, err)
	assert.Equal(t, worksheet.Number(2.5), got2.Index(5, 3))
}

func TestMergeLockedDestination(t *testing.T) {
	path := twoSheetFile(t)
	original, err := os.ReadFile(path)
	require.NoError(t, err)

	restore := writer.SetLockCheck(func(string) bool { return true })
	defer restore()

	wb := open(t, path)
	wb.AddWorksheet("extra", nil)
	log, hook := logtest.NewNullLogger()
	scratch := t.TempDir()
	rep, err := writer.Write(wb, path, writer.Options{Logger: log, ScratchDir: scratch})
	require.NoError(t, err)

	alt := filepath.Join(filepath.Dir(path), "new_book.xlsx")
	assert.Equal(t, alt, rep.Path)
	require.Len(t, rep.Warnings, 1)
	assert.ErrorIs(t, rep.Warnings[0], writer.ErrDestinationLocked)
	var locked *writer.LockedError
	require.ErrorAs(t, rep.Warnings[0], &locked)
	assert.Equal(t, path, locked.Path)
	assert.Equal(t, alt, locked.Alternate)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, alt, hook.LastEntry().Data["alternate"])

	current, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, current)
	assert.Contains(t, open(t, alt).SheetNames(), "extra")

	left, err := os.ReadDir(scratch)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestMergeCleansScratchOnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o644))
	scratch := t.TempDir()

	opts := quietOptions()
	opts.ScratchDir = scratch
	_, err := writer.Write(workbook.New(), path, opts)
	require.Error(t, err)

	left, err := os.ReadDir(scratch)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "new", writer.ModeNew.String())
	assert.Equal(t, "merge", writer.ModeMerge.String())
	assert.Equal(t, "Mode(7)", writer.Mode(7).String())
}
