package writer

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"

	"github.com/TsubasaBE/go-xlsx/internal/ooxml"
	"github.com/TsubasaBE/go-xlsx/internal/rels"
	"github.com/TsubasaBE/go-xlsx/workbook"
)

// staleParts are removed from a merged container.  Each one is either not
// modeled or carries references into the rewritten worksheets.
var staleParts = []string{
	"xl/ctrlProps",
	"xl/drawings",
	"xl/printerSettings",
	"xl/threadedComments",
	"xl/worksheets/_rels",
	ooxml.VBAProjectPart,
	ooxml.CustomPart,
	ooxml.CalcChainPart,
}

// droppedRels are workbook relationship types that are regenerated or whose
// targets are removed.
var droppedRels = []string{
	"/worksheet",
	"/sharedStrings",
	"/calcChain",
	"/vbaProject",
	"/externalLink",
	"/pivotCacheDefinition",
	"/chartsheet",
	"/dialogsheet",
	"/macrosheet",
}

// oldSheet is a worksheet as listed by the container being merged into.
type oldSheet struct {
	rID     string
	part    string
	sheetID string
}

type merger struct {
	wb    *workbook.Workbook
	dst   string
	sc    scratch
	log   logrus.FieldLogger
	rep   *Report
	main  string // main part of the existing container
	old   map[string]oldSheet
	temps map[string]string // original part -> temp name
}

func writeMerge(wb *workbook.Workbook, dst string, opts Options, log logrus.FieldLogger) (*Report, error) {
	dir, err := os.MkdirTemp(opts.ScratchDir, "xlsx-merge-*")
	if err != nil {
		return nil, fmt.Errorf("writer: scratch: %w", err)
	}
	defer os.RemoveAll(dir)

	m := &merger{
		wb:    wb,
		dst:   dst,
		sc:    scratch{dir: dir},
		log:   log,
		rep:   &Report{Path: dst, Mode: ModeMerge},
		temps: make(map[string]string),
	}
	if err := extract(dst, dir); err != nil {
		return nil, err
	}
	if err := m.run(); err != nil {
		return nil, err
	}

	tmp, err := createTemp(dst)
	if err != nil {
		return nil, err
	}
	if err := zipDir(tmp, dir); err != nil {
		os.Remove(tmp.Name())
		return nil, err
	}
	final, locked, err := commit(tmp.Name(), dst)
	if err != nil {
		os.Remove(tmp.Name())
		return nil, err
	}
	if locked != nil {
		log.WithField("alternate", locked.Alternate).Warn("destination locked, wrote alternate file")
		m.rep.Warnings = append(m.rep.Warnings, locked)
	}
	m.rep.Path = final
	return m.rep, nil
}

func (m *merger) run() error {
	m.main = m.mainPart()
	if !local(m.main) || !m.sc.exists(m.main) {
		return fmt.Errorf("writer: %q: %s: %w", m.dst, m.main, workbook.ErrContainer)
	}
	oldRels, err := m.readOldSheets()
	if err != nil {
		return err
	}
	m.updateApp()
	if err := m.stashWorksheets(); err != nil {
		return err
	}
	if err := m.relocateMain(); err != nil {
		return err
	}

	mp, err := renderModel(m.wb)
	if err != nil {
		return err
	}
	if err := m.sc.write(mp.workbook); err != nil {
		return fmt.Errorf("writer: %w", err)
	}
	if err := m.writeSheets(mp.sheets); err != nil {
		return err
	}
	if mp.hasStrings {
		err = m.sc.write(mp.strings)
	} else {
		err = m.sc.remove(ooxml.SharedStringsPart)
	}
	if err != nil {
		return fmt.Errorf("writer: shared strings: %w", err)
	}
	if err := m.removeStale(oldRels); err != nil {
		return err
	}

	rp, err := workbookRelsPart(len(mp.sheets), mp.hasStrings, m.keptRels(oldRels))
	if err != nil {
		return fmt.Errorf("writer: workbook rels: %w", err)
	}
	if err := m.sc.write(rp); err != nil {
		return fmt.Errorf("writer: %w", err)
	}
	if err := m.writeContentTypes(len(mp.sheets), mp.hasStrings); err != nil {
		return err
	}
	return m.pruneRootRels()
}

// mainPart returns the workbook part named by the package relationships,
// or xl/workbook.xml when there is none.
func (m *merger) mainPart() string {
	data, err := m.sc.read(ooxml.RootRelsPart)
	if err != nil {
		return ooxml.WorkbookPart
	}
	list, err := rels.Parse(data)
	if err != nil {
		return ooxml.WorkbookPart
	}
	for _, r := range list {
		if r.HasType("officeDocument") && !r.External() {
			return rels.Resolve("", r.Target)
		}
	}
	return ooxml.WorkbookPart
}

// resolve returns the entry name of a target listed in the main part's
// relationships.
func (m *merger) resolve(target string) string {
	if m.main == ooxml.WorkbookPart {
		return rels.ResolveWorkbookTarget(target)
	}
	return rels.Resolve(m.main, target)
}

func local(name string) bool {
	return filepath.IsLocal(filepath.FromSlash(name))
}

// readOldSheets maps each existing sheet name to its relationship id, part
// and sheet id, and returns the old workbook relationships.
func (m *merger) readOldSheets() ([]rels.Relationship, error) {
	var list []rels.Relationship
	relsPart := rels.PartRels(m.main)
	if data, err := m.sc.read(relsPart); err == nil {
		if list, err = rels.Parse(data); err != nil {
			return nil, fmt.Errorf("writer: %s: %w", relsPart, err)
		}
	}
	byID := make(map[string]rels.Relationship, len(list))
	for _, r := range list {
		byID[r.ID] = r
	}

	data, err := m.sc.read(m.main)
	if err != nil {
		return nil, fmt.Errorf("writer: %w", err)
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("writer: %s: %w", m.main, err)
	}
	sheets := child(doc.Root(), "sheets")
	if sheets == nil {
		return nil, fmt.Errorf("writer: %s: no sheets element: %w", m.main, workbook.ErrContainer)
	}
	m.old = make(map[string]oldSheet)
	for _, el := range sheets.SelectElements("sheet") {
		rid := relID(el)
		s := oldSheet{rID: rid, sheetID: el.SelectAttrValue("sheetId", "")}
		if r, ok := byID[rid]; ok && !r.External() {
			s.part = m.resolve(r.Target)
		}
		m.old[el.SelectAttrValue("name", "")] = s
	}
	return list, nil
}

// relID returns the r:id attribute of a sheet element whatever its prefix.
func relID(el *etree.Element) string {
	for _, a := range el.Attr {
		if a.Key == "id" && a.Space != "" {
			return a.Value
		}
	}
	return ""
}

func (m *merger) updateApp() {
	data, err := m.sc.read(ooxml.AppPart)
	if err != nil {
		return
	}
	out, err := updateAppXML(data, m.wb.SheetNames(), namedRangeNames(m.wb))
	if err != nil {
		m.log.WithField("part", ooxml.AppPart).WithError(err).Warn("title list left unchanged")
		m.rep.Warnings = append(m.rep.Warnings, err)
		return
	}
	if err := m.sc.write(part{name: ooxml.AppPart, data: out}); err != nil {
		m.rep.Warnings = append(m.rep.Warnings, err)
	}
}

// stashWorksheets renames the part of every listed sheet, and any other
// part under xl/worksheets, to temp_<name> so the new slots cannot collide
// with old content.
func (m *merger) stashWorksheets() error {
	var parts []string
	for _, s := range m.old {
		if s.part != "" {
			parts = append(parts, s.part)
		}
	}
	orphans, err := m.sc.glob(ooxml.WorksheetsDir, "*.xml")
	if err != nil {
		return fmt.Errorf("writer: %w", err)
	}
	parts = append(parts, orphans...)
	for _, p := range parts {
		if _, done := m.temps[p]; done || !local(p) || !m.sc.exists(p) {
			continue
		}
		tmp := path.Join(path.Dir(p), "temp_"+path.Base(p))
		if err := m.sc.rename(p, tmp); err != nil {
			return fmt.Errorf("writer: %w", err)
		}
		m.temps[p] = tmp
	}
	return nil
}

// relocateMain removes a main part stored anywhere but xl/workbook.xml,
// together with its relationships.  The regenerated workbook is always
// written to xl/workbook.xml.
func (m *merger) relocateMain() error {
	if m.main == ooxml.WorkbookPart {
		return nil
	}
	m.log.WithFields(logrus.Fields{"from": m.main, "to": ooxml.WorkbookPart}).Debug("relocating main part")
	for _, name := range []string{m.main, rels.PartRels(m.main)} {
		if err := m.sc.remove(name); err != nil {
			return fmt.Errorf("writer: %w", err)
		}
	}
	return nil
}

// writeSheets stores the regenerated sheets in their slots.  The stashed
// original of a sheet that still exists is deleted as its replacement is
// written; whatever is left afterwards belonged to removed sheets or to no
// sheet at all and is deleted too.
func (m *merger) writeSheets(sheets []part) error {
	names := m.wb.SheetNames()
	for i, p := range sheets {
		log := m.log.WithField("sheet", names[i])
		if err := m.sc.write(p); err != nil {
			return fmt.Errorf("writer: %w", err)
		}
		old, ok := m.old[names[i]]
		if !ok {
			log.WithField("part", p.name).Debug("adding sheet")
			continue
		}
		log.WithFields(logrus.Fields{
			"from":    old.part,
			"to":      p.name,
			"rid":     old.rID,
			"sheetId": old.sheetID,
		}).Debug("replacing sheet")
		if tmp, ok := m.temps[old.part]; ok {
			if err := m.sc.remove(tmp); err != nil {
				return fmt.Errorf("writer: %w", err)
			}
			delete(m.temps, old.part)
		}
	}
	for orig, tmp := range m.temps {
		m.log.WithField("part", orig).Debug("dropping unlisted sheet part")
		if err := m.sc.remove(tmp); err != nil {
			return fmt.Errorf("writer: %w", err)
		}
	}
	return nil
}

// removeStale deletes the parts in staleParts, the comment parts, and the
// targets of dropped workbook relationships that are not regenerated in
// place.
func (m *merger) removeStale(oldRels []rels.Relationship) error {
	stale := append([]string(nil), staleParts...)
	comments, err := m.sc.glob("xl", "comments*.xml")
	if err != nil {
		return fmt.Errorf("writer: %w", err)
	}
	stale = append(stale, comments...)
	for _, r := range oldRels {
		if r.External() || !hasAnySuffix(r.Type, droppedRels) || r.HasType("worksheet") {
			continue
		}
		target := m.resolve(r.Target)
		if target == ooxml.SharedStringsPart || strings.HasPrefix(target, ooxml.WorksheetsDir) || !local(target) {
			continue
		}
		stale = append(stale, target)
	}
	for _, name := range stale {
		if !m.sc.exists(name) {
			continue
		}
		m.log.WithField("part", name).Debug("removing part")
		if err := m.sc.remove(name); err != nil {
			return fmt.Errorf("writer: %w", err)
		}
	}
	return nil
}

// keptRels returns the old workbook relationships that survive the merge:
// internal targets that still exist and are not regenerated.
func (m *merger) keptRels(old []rels.Relationship) []extraRel {
	var out []extraRel
	for _, r := range old {
		if r.External() || hasAnySuffix(r.Type, droppedRels) {
			continue
		}
		target := m.resolve(r.Target)
		if !local(target) || !m.sc.exists(target) {
			continue
		}
		out = append(out, extraRel{relType: r.Type, target: rels.Relative(ooxml.WorkbookPart, target)})
	}
	return out
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}

// writeContentTypes keeps the old defaults and the overrides of parts that
// still exist, then adds the generated parts.
func (m *merger) writeContentTypes(sheets int, hasStrings bool) error {
	ct := newContentTypes()
	if data, err := m.sc.read(ooxml.ContentTypesPart); err == nil {
		doc := etree.NewDocument()
		if err := doc.ReadFromBytes(data); err != nil {
			return fmt.Errorf("writer: %s: %w", ooxml.ContentTypesPart, err)
		}
		if root := doc.Root(); root != nil {
			for _, d := range root.SelectElements("Default") {
				ct.addDefault(d.SelectAttrValue("Extension", ""), d.SelectAttrValue("ContentType", ""))
			}
			for _, o := range root.SelectElements("Override") {
				name := o.SelectAttrValue("PartName", "")
				ctype := o.SelectAttrValue("ContentType", "")
				if !m.keepOverride(name, ctype) {
					continue
				}
				ct.addOverride(name, ctype)
			}
		}
	}
	ct.addCore(sheets, hasStrings, ooxml.IsMacroEnabled(m.dst))
	p, err := ct.part()
	if err != nil {
		return fmt.Errorf("writer: %w", err)
	}
	return m.sc.write(p)
}

func (m *merger) keepOverride(name, ctype string) bool {
	switch {
	case ctype == ooxml.CTWorksheet, ctype == ooxml.CTSharedStrings:
		return false
	case strings.EqualFold(name, "/"+ooxml.WorkbookPart):
		return false
	}
	return m.sc.exists(strings.TrimPrefix(name, "/"))
}

// pruneRootRels drops package relationships whose targets were removed.
func (m *merger) pruneRootRels() error {
	data, err := m.sc.read(ooxml.RootRelsPart)
	if err != nil {
		p, err := rootRelsPart()
		if err != nil {
			return fmt.Errorf("writer: %w", err)
		}
		return m.sc.write(p)
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return fmt.Errorf("writer: %s: %w", ooxml.RootRelsPart, err)
	}
	root := doc.Root()
	if root == nil {
		return fmt.Errorf("writer: %s: empty document: %w", ooxml.RootRelsPart, workbook.ErrContainer)
	}
	changed := false
	for _, el := range root.SelectElements("Relationship") {
		if el.SelectAttrValue("TargetMode", "") == "External" {
			continue
		}
		target := rels.Resolve("", el.SelectAttrValue("Target", ""))
		if strings.HasSuffix(el.SelectAttrValue("Type", ""), "/officeDocument") {
			if target != ooxml.WorkbookPart {
				el.CreateAttr("Target", ooxml.WorkbookPart)
				changed = true
			}
			continue
		}
		if !m.sc.exists(target) {
			root.RemoveChild(el)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	out, err := doc.WriteToBytes()
	if err != nil {
		return fmt.Errorf("writer: %w", err)
	}
	return m.sc.write(part{name: ooxml.RootRelsPart, data: out})
}
