package writer

import (
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"

	"github.com/TsubasaBE/go-xlsx/address"
	"github.com/TsubasaBE/go-xlsx/internal/ooxml"
	"github.com/TsubasaBE/go-xlsx/stringtable"
	"github.com/TsubasaBE/go-xlsx/workbook"
	"github.com/TsubasaBE/go-xlsx/worksheet"
)

// part is one generated container entry.
type part struct {
	name string
	data []byte
}

func newDoc(rootTag, ns string) (*etree.Document, *etree.Element) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	root := doc.CreateElement(rootTag)
	if ns != "" {
		root.CreateAttr("xmlns", ns)
	}
	return doc, root
}

func render(name string, doc *etree.Document) (part, error) {
	b, err := doc.WriteToBytes()
	if err != nil {
		return part{}, err
	}
	return part{name: name, data: b}, nil
}

// ── package-level parts ──────────────────────────────────────────────────────

func rootRelsPart() (part, error) {
	doc, root := newDoc("Relationships", ooxml.NSPackageRels)
	addRel(root, "rId3", ooxml.RelExtendedProps, ooxml.AppPart)
	addRel(root, "rId2", ooxml.RelCoreProps, ooxml.CorePart)
	addRel(root, "rId1", ooxml.RelOfficeDocument, ooxml.WorkbookPart)
	return render(ooxml.RootRelsPart, doc)
}

func addRel(root *etree.Element, id, relType, target string) {
	r := root.CreateElement("Relationship")
	r.CreateAttr("Id", id)
	r.CreateAttr("Type", relType)
	r.CreateAttr("Target", target)
}

// appPart builds docProps/app.xml listing the sheets and named ranges.
func appPart(sheets []string, names []string) (part, error) {
	doc, root := newDoc("Properties", ooxml.NSExtendedProps)
	root.CreateAttr("xmlns:vt", ooxml.NSDocPropsVT)
	root.CreateElement("Application").SetText("Microsoft Excel")
	root.CreateElement("DocSecurity").SetText("0")
	root.CreateElement("ScaleCrop").SetText("false")

	groups := []titleGroup{{label: worksheetsLabel, titles: sheets}}
	if len(names) > 0 {
		groups = append(groups, titleGroup{label: namedRangesLabel, titles: names})
	}
	setTitleGroups(root, "vt:", groups)

	root.CreateElement("Company")
	root.CreateElement("LinksUpToDate").SetText("false")
	root.CreateElement("SharedDoc").SetText("false")
	root.CreateElement("HyperlinksChanged").SetText("false")
	root.CreateElement("AppVersion").SetText("16.0300")
	return render(ooxml.AppPart, doc)
}

func corePart(now time.Time) (part, error) {
	doc, root := newDoc("cp:coreProperties", "")
	root.CreateAttr("xmlns:cp", ooxml.NSCoreProps)
	root.CreateAttr("xmlns:dc", ooxml.NSDC)
	root.CreateAttr("xmlns:dcterms", ooxml.NSDCTerms)
	root.CreateAttr("xmlns:dcmitype", ooxml.NSDCMIType)
	root.CreateAttr("xmlns:xsi", ooxml.NSXSI)
	root.CreateElement("dc:creator").SetText(creator)
	root.CreateElement("cp:lastModifiedBy").SetText(creator)
	stamp := now.UTC().Format("2006-01-02T15:04:05Z")
	for _, tag := range []string{"dcterms:created", "dcterms:modified"} {
		el := root.CreateElement(tag)
		el.CreateAttr("xsi:type", "dcterms:W3CDTF")
		el.SetText(stamp)
	}
	return render(ooxml.CorePart, doc)
}

// ── workbook parts ───────────────────────────────────────────────────────────

// workbookPart lists the sheets in order with sheetId n and r:id "rIdn".
func workbookPart(wb *workbook.Workbook) (part, error) {
	doc, root := newDoc("workbook", ooxml.NSMain)
	root.CreateAttr("xmlns:r", ooxml.NSRelationships)
	pr := root.CreateElement("workbookPr")
	if wb.Date1904 {
		pr.CreateAttr("date1904", "1")
	}
	sheets := root.CreateElement("sheets")
	for i, name := range wb.SheetNames() {
		s := sheets.CreateElement("sheet")
		s.CreateAttr("name", name)
		s.CreateAttr("sheetId", strconv.Itoa(i+1))
		s.CreateAttr("r:id", "rId"+strconv.Itoa(i+1))
	}
	if nrs := wb.NamedRanges(); len(nrs) > 0 {
		dn := root.CreateElement("definedNames")
		for _, nr := range nrs {
			el := dn.CreateElement("definedName")
			el.CreateAttr("name", nr.Name)
			el.SetText(qualifiedRef(nr.Sheet, nr.Ref))
		}
	}
	calc := root.CreateElement("calcPr")
	calc.CreateAttr("calcId", "191029")
	calc.CreateAttr("fullCalcOnLoad", "1")
	return render(ooxml.WorkbookPart, doc)
}

// qualifiedRef renders "'My Sheet'!$A$1:$B$2".
func qualifiedRef(sheet, ref string) string {
	rng, err := address.ParseRange(ref)
	if err != nil {
		return quoteSheet(sheet) + "!" + ref
	}
	abs := absolute(rng.From)
	if rng.From != rng.To {
		abs += ":" + absolute(rng.To)
	}
	return quoteSheet(sheet) + "!" + abs
}

func absolute(c address.Coord) string {
	letters, _ := address.ColumnLetters(c.Col)
	return "$" + letters + "$" + strconv.Itoa(c.Row)
}

func quoteSheet(name string) string {
	plain := name != "" && !(name[0] >= '0' && name[0] <= '9')
	for _, r := range name {
		if !(r == '_' || r == '.' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			plain = false
			break
		}
	}
	if plain {
		return name
	}
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// worksheetPart serializes ws.  Strings are added to pool on first use.
func worksheetPart(n int, ws *worksheet.Worksheet, pool *stringtable.StringTable) (part, error) {
	doc, root := newDoc("worksheet", ooxml.NSMain)
	root.CreateAttr("xmlns:r", ooxml.NSRelationships)
	root.CreateElement("dimension").CreateAttr("ref", address.Dimension(ws.Size()))
	view := root.CreateElement("sheetViews").CreateElement("sheetView")
	if n == 1 {
		view.CreateAttr("tabSelected", "1")
	}
	view.CreateAttr("workbookViewId", "0")
	root.CreateElement("sheetFormatPr").CreateAttr("defaultRowHeight", "15")

	data := root.CreateElement("sheetData")
	var row *etree.Element
	rowNum := 0
	for _, k := range ws.Coords() {
		cell, _ := ws.Cell(k.Row, k.Col)
		if cell.Formula == "" && cell.Value.IsEmpty() {
			continue
		}
		if k.Row != rowNum {
			rowNum = k.Row
			row = data.CreateElement("row")
			row.CreateAttr("r", strconv.Itoa(rowNum))
		}
		writeCell(row.CreateElement("c"), k, cell, pool)
	}

	m := root.CreateElement("pageMargins")
	for _, kv := range [][2]string{{"left", "0.7"}, {"right", "0.7"}, {"top", "0.75"}, {"bottom", "0.75"}, {"header", "0.3"}, {"footer", "0.3"}} {
		m.CreateAttr(kv[0], kv[1])
	}
	return render(ooxml.WorksheetPart(n), doc)
}

func writeCell(c *etree.Element, k address.Coord, cell worksheet.Cell, pool *stringtable.StringTable) {
	c.CreateAttr("r", k.String())
	if cell.Formula != "" {
		c.CreateElement("f").SetText(cell.Formula)
		return
	}
	v := cell.Value
	switch v.Kind() {
	case worksheet.KindText:
		s, _ := v.Text()
		c.CreateAttr("t", "s")
		c.CreateElement("v").SetText(strconv.Itoa(pool.Add(s)))
	case worksheet.KindBool:
		b, _ := v.Bool()
		c.CreateAttr("t", "b")
		if b {
			c.CreateElement("v").SetText("1")
		} else {
			c.CreateElement("v").SetText("0")
		}
	case worksheet.KindNumber:
		n, _ := v.Number()
		c.CreateElement("v").SetText(worksheet.FormatNumber(n))
	}
}

// sharedStringsPart must run after every worksheet has been serialized.
func sharedStringsPart(pool *stringtable.StringTable) (part, error) {
	doc, root := newDoc("sst", ooxml.NSMain)
	root.CreateAttr("count", strconv.Itoa(pool.Count()))
	root.CreateAttr("uniqueCount", strconv.Itoa(pool.Len()))
	for _, s := range pool.Strings() {
		t := root.CreateElement("si").CreateElement("t")
		if stringtable.NeedsPreserve(s) {
			t.CreateAttr("xml:space", "preserve")
		}
		t.SetText(s)
	}
	return render(ooxml.SharedStringsPart, doc)
}

// workbookRelsPart lists sheets as rId1..rIdn, then the shared strings when
// the pool is non-empty, then extra.
func workbookRelsPart(sheets int, hasStrings bool, extra []extraRel) (part, error) {
	doc, root := newDoc("Relationships", ooxml.NSPackageRels)
	for i := 1; i <= sheets; i++ {
		addRel(root, "rId"+strconv.Itoa(i), ooxml.RelWorksheet, strings.TrimPrefix(ooxml.WorksheetPart(i), "xl/"))
	}
	next := sheets + 1
	if hasStrings {
		addRel(root, "rId"+strconv.Itoa(next), ooxml.RelSharedStrings, "sharedStrings.xml")
		next++
	}
	for _, r := range extra {
		addRel(root, "rId"+strconv.Itoa(next), r.relType, r.target)
		next++
	}
	return render(ooxml.WorkbookRelsPart, doc)
}

// extraRel is a preserved workbook relationship.
type extraRel struct {
	relType string
	target  string
}

// contentTypes describes [Content_Types].xml.
type contentTypes struct {
	defaults  [][2]string // extension, content type
	overrides [][2]string // part name, content type
}

func newContentTypes() *contentTypes {
	return &contentTypes{defaults: [][2]string{
		{"rels", ooxml.CTRels},
		{"xml", ooxml.CTXML},
	}}
}

func (ct *contentTypes) addDefault(ext, ctype string) {
	for _, d := range ct.defaults {
		if strings.EqualFold(d[0], ext) {
			return
		}
	}
	ct.defaults = append(ct.defaults, [2]string{ext, ctype})
}

func (ct *contentTypes) addOverride(partName, ctype string) {
	if !strings.HasPrefix(partName, "/") {
		partName = "/" + partName
	}
	for i, o := range ct.overrides {
		if strings.EqualFold(o[0], partName) {
			ct.overrides[i][1] = ctype
			return
		}
	}
	ct.overrides = append(ct.overrides, [2]string{partName, ctype})
}

// addCore adds the overrides every generated workbook carries.
func (ct *contentTypes) addCore(sheets int, hasStrings, macro bool) {
	main := ooxml.CTWorkbook
	if macro {
		main = ooxml.CTWorkbookMacro
	}
	ct.addOverride(ooxml.WorkbookPart, main)
	for i := 1; i <= sheets; i++ {
		ct.addOverride(ooxml.WorksheetPart(i), ooxml.CTWorksheet)
	}
	if hasStrings {
		ct.addOverride(ooxml.SharedStringsPart, ooxml.CTSharedStrings)
	}
}

func (ct *contentTypes) part() (part, error) {
	doc, root := newDoc("Types", ooxml.NSContentTypes)
	for _, d := range ct.defaults {
		el := root.CreateElement("Default")
		el.CreateAttr("Extension", d[0])
		el.CreateAttr("ContentType", d[1])
	}
	for _, o := range ct.overrides {
		el := root.CreateElement("Override")
		el.CreateAttr("PartName", o[0])
		el.CreateAttr("ContentType", o[1])
	}
	return render(ooxml.ContentTypesPart, doc)
}
