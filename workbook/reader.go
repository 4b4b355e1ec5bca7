package workbook

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/TsubasaBE/go-xlsx/address"
	"github.com/TsubasaBE/go-xlsx/internal/comments"
	"github.com/TsubasaBE/go-xlsx/internal/ooxml"
	"github.com/TsubasaBE/go-xlsx/internal/rels"
	"github.com/TsubasaBE/go-xlsx/stringtable"
	"github.com/TsubasaBE/go-xlsx/styles"
	"github.com/TsubasaBE/go-xlsx/worksheet"
)

var (
	// ErrContainer is matched by every error caused by a malformed
	// container: not a zip archive, a missing mandatory part, or a part
	// whose XML cannot be decoded.
	ErrContainer = errors.New("workbook: malformed container")
	// ErrUnknownSheet is returned for a sheet name that does not exist.
	ErrUnknownSheet = errors.New("workbook: unknown sheet")
	// ErrIllFormedWorkbookXML marks a defined name that was skipped while
	// reading.  It is only ever reported through Warnings.
	ErrIllFormedWorkbookXML = errors.New("workbook: ill-formed workbook.xml")
	// ErrFileNotFound is returned by Open when the path does not exist.
	ErrFileNotFound = errors.New("workbook: file not found")
	// ErrBadExtension is returned by Open for paths that are not .xlsx or
	// .xlsm files.
	ErrBadExtension = errors.New("workbook: unsupported file extension")
)

// PartError reports a container part that could not be read.  It matches
// ErrContainer with errors.Is and unwraps to the underlying cause.
type PartError struct {
	// Part is the zip entry name, or "" when the archive itself is bad.
	Part string
	Err  error
}

func (e *PartError) Error() string {
	if e.Part == "" {
		return "workbook: container: " + e.Err.Error()
	}
	return "workbook: " + e.Part + ": " + e.Err.Error()
}

func (e *PartError) Unwrap() error { return e.Err }

// Is makes every PartError match ErrContainer.
func (e *PartError) Is(target error) bool { return target == ErrContainer }

// Options controls reading.  The zero value reads every sheet and logs to
// the logrus standard logger.
type Options struct {
	// Sheets restricts reading to the named sheets.  Every name must exist.
	// Workbook order is kept regardless of the order given here.
	Sheets []string
	// Logger receives warnings and debug output.
	Logger logrus.FieldLogger
}

func (o Options) logger() logrus.FieldLogger {
	if o.Logger == nil {
		return logrus.StandardLogger()
	}
	return o.Logger
}

// ValidatePath checks that path has an .xlsx or .xlsm extension and exists.
func ValidatePath(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
	default:
		return fmt.Errorf("workbook: %q: %w", path, ErrBadExtension)
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("workbook: %q: %w", path, ErrFileNotFound)
		}
		return fmt.Errorf("workbook: stat %q: %w", path, err)
	}
	return nil
}

// Open reads the named .xlsx or .xlsm file.  The file is closed before Open
// returns; the Workbook holds no reference to it.
func Open(path string, opts Options) (*Workbook, error) {
	if err := ValidatePath(path); err != nil {
		return nil, err
	}
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, &PartError{Err: err}
	}
	defer rc.Close()
	opts.Logger = opts.logger().WithField("file", path)
	return read(&rc.Reader, opts)
}

// OpenReader reads a workbook from an in-memory ReaderAt.
// size must be the total byte size of the ZIP data.
func OpenReader(r io.ReaderAt, size int64, opts Options) (*Workbook, error) {
	zf, err := zip.NewReader(r, size)
	if err != nil {
		return nil, &PartError{Err: err}
	}
	return read(zf, opts)
}

// ── internal ─────────────────────────────────────────────────────────────────

type sheetEntry struct {
	name string
	part string
}

type reader struct {
	zf  *zip.Reader
	log logrus.FieldLogger
	wb  *Workbook

	mainPart string
	sheets   []sheetEntry
	styles   styles.StyleTable
	pending  []pendingName
}

func read(zf *zip.Reader, opts Options) (*Workbook, error) {
	rd := &reader{zf: zf, log: opts.logger(), wb: New()}
	if err := rd.parseWorkbook(); err != nil {
		return nil, err
	}
	selected, err := rd.selectSheets(opts.Sheets)
	if err != nil {
		return nil, err
	}
	if err := rd.parseSharedStrings(); err != nil {
		return nil, err
	}
	rd.parseStyles()
	for _, entry := range selected {
		ws, err := rd.parseSheet(entry)
		if err != nil {
			return nil, err
		}
		rd.wb.AddWorksheet(entry.name, ws)
	}
	rd.addNamedRanges()
	return rd.wb, nil
}

type workbookXML struct {
	WorkbookPr struct {
		Date1904 string `xml:"date1904,attr"`
	} `xml:"workbookPr"`
	Sheets []struct {
		Name string `xml:"name,attr"`
		RID  string `xml:"id,attr"`
	} `xml:"sheets>sheet"`
	DefinedNames []struct {
		Name  string `xml:"name,attr"`
		Value string `xml:",chardata"`
	} `xml:"definedNames>definedName"`
}

// pendingName holds a defined name until the sheets it refers to are
// loaded.
type pendingName struct {
	name, sheet, ref string
}

// parseWorkbook locates the main part through _rels/.rels, then reads the
// sheet list, the date system and the defined names.
func (rd *reader) parseWorkbook() error {
	rd.mainPart = ooxml.WorkbookPart
	if data, err := rd.readZipEntry(ooxml.RootRelsPart); err == nil {
		if list, err := rels.Parse(data); err == nil {
			for _, r := range list {
				if r.HasType("officeDocument") {
					rd.mainPart = rels.Resolve("", r.Target)
					break
				}
			}
		}
	}

	data, err := rd.readZipEntry(rd.mainPart)
	if err != nil {
		return &PartError{Part: rd.mainPart, Err: err}
	}
	var doc workbookXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return &PartError{Part: rd.mainPart, Err: err}
	}
	rd.wb.Date1904 = doc.WorkbookPr.Date1904 == "1" || doc.WorkbookPr.Date1904 == "true"

	relsPart := rels.PartRels(rd.mainPart)
	relsData, err := rd.readZipEntry(relsPart)
	if err != nil {
		return &PartError{Part: relsPart, Err: err}
	}
	relMap, err := rels.ParseMap(relsData)
	if err != nil {
		return &PartError{Part: relsPart, Err: err}
	}
	for _, s := range doc.Sheets {
		rel, ok := relMap[s.RID]
		if !ok {
			return &PartError{Part: relsPart, Err: fmt.Errorf("no relationship %q for sheet %q", s.RID, s.Name)}
		}
		part := rels.ResolveWorkbookTarget(rel.Target)
		if rd.mainPart != ooxml.WorkbookPart {
			part = rels.Resolve(rd.mainPart, rel.Target)
		}
		rd.sheets = append(rd.sheets, sheetEntry{name: s.Name, part: part})
	}
	for _, dn := range doc.DefinedNames {
		rd.definedName(dn.Name, dn.Value)
	}
	return nil
}

// definedName queues one <definedName>.  Entries that do not name a single
// sheet-qualified rectangle are skipped with a warning.
func (rd *reader) definedName(name, value string) {
	if strings.HasPrefix(name, "_xlnm.") {
		rd.log.WithField("name", name).Debug("skipping built-in defined name")
		return
	}
	log := rd.log.WithFields(logrus.Fields{"part": rd.mainPart, "name": name})
	sheet, ref, ok := splitSheetRef(value)
	if !ok {
		err := fmt.Errorf("defined name %q = %q has no sheet qualifier: %w", name, value, ErrIllFormedWorkbookXML)
		log.Warn(err.Error())
		rd.wb.addWarning(err)
		return
	}
	if _, err := address.ParseRange(ref); err != nil {
		err = fmt.Errorf("defined name %q = %q: %w: %w", name, value, ErrIllFormedWorkbookXML, err)
		log.Warn(err.Error())
		rd.wb.addWarning(err)
		return
	}
	rd.pending = append(rd.pending, pendingName{name: name, sheet: sheet, ref: ref})
}

// splitSheetRef splits "Sheet1!$A$1" or "'My Sheet'!$A$1:$B$2" into the
// sheet name and the "$"-free reference.
func splitSheetRef(value string) (sheet, ref string, ok bool) {
	value = strings.TrimSpace(value)
	i := strings.LastIndex(value, "!")
	if i <= 0 {
		return "", "", false
	}
	sheet, ref = value[:i], strings.ReplaceAll(value[i+1:], "$", "")
	if len(sheet) >= 2 && sheet[0] == '\'' && sheet[len(sheet)-1] == '\'' {
		sheet = strings.ReplaceAll(sheet[1:len(sheet)-1], "''", "'")
	}
	return sheet, ref, sheet != "" && ref != ""
}

func (rd *reader) selectSheets(names []string) ([]sheetEntry, error) {
	if len(names) == 0 {
		return rd.sheets, nil
	}
	for _, n := range names {
		if !slices.ContainsFunc(rd.sheets, func(e sheetEntry) bool { return e.name == n }) {
			return nil, fmt.Errorf("workbook: sheet %q: %w", n, ErrUnknownSheet)
		}
	}
	return slices.DeleteFunc(slices.Clone(rd.sheets), func(e sheetEntry) bool {
		return !slices.Contains(names, e.name)
	}), nil
}

// parseSharedStrings reads the shared-string part if it exists.
func (rd *reader) parseSharedStrings() error {
	part := rd.relatedPart("sharedStrings", ooxml.SharedStringsPart)
	data, err := rd.readZipEntry(part)
	if err != nil {
		// Part is optional: no shared strings in this workbook.
		return nil
	}
	st, err := stringtable.NewFromBytes(data)
	if err != nil {
		return &PartError{Part: part, Err: err}
	}
	rd.wb.strings = st
	return nil
}

// parseStyles reads the styles part.  A missing or malformed part leaves
// the default table so the workbook still opens; dates are then read as
// plain numbers.
func (rd *reader) parseStyles() {
	rd.styles = styles.Default()
	part := rd.relatedPart("styles", ooxml.StylesPart)
	data, err := rd.readZipEntry(part)
	if err != nil {
		return
	}
	st, err := styles.Parse(data)
	if err != nil {
		rd.log.WithField("part", part).WithError(err).Warn("ignoring unreadable styles")
		return
	}
	rd.styles = st
}

// relatedPart returns the target of the main part's relationship of the
// given type, or fallback.
func (rd *reader) relatedPart(relType, fallback string) string {
	data, err := rd.readZipEntry(rels.PartRels(rd.mainPart))
	if err != nil {
		return fallback
	}
	list, err := rels.Parse(data)
	if err != nil {
		return fallback
	}
	for _, r := range list {
		if r.HasType(relType) && !r.External() {
			return rels.Resolve(rd.mainPart, r.Target)
		}
	}
	return fallback
}

func (rd *reader) parseSheet(entry sheetEntry) (*worksheet.Worksheet, error) {
	data, err := rd.readZipEntry(entry.part)
	if err != nil {
		return nil, &PartError{Part: entry.part, Err: fmt.Errorf("sheet %q: %w", entry.name, err)}
	}
	src := worksheet.Source{
		Strings:  rd.wb.strings,
		Styles:   rd.styles,
		Date1904: rd.wb.Date1904,
		Comments: rd.sheetComments(entry),
	}
	ws, err := worksheet.Parse(bytes.NewReader(data), src)
	if err != nil {
		return nil, &PartError{Part: entry.part, Err: err}
	}
	rd.log.WithFields(logrus.Fields{"sheet": entry.name, "cells": ws.Len()}).Debug("read worksheet")
	return ws, nil
}

// sheetComments loads the comment part linked from the sheet's .rels.  The
// part is optional; an unreadable one is logged and ignored.
func (rd *reader) sheetComments(entry sheetEntry) map[address.Coord]string {
	data, err := rd.readZipEntry(rels.PartRels(entry.part))
	if err != nil {
		return nil
	}
	list, err := rels.Parse(data)
	if err != nil {
		return nil
	}
	for _, r := range list {
		if !r.HasType("comments") || r.External() {
			continue
		}
		part := rels.Resolve(entry.part, r.Target)
		cdata, err := rd.readZipEntry(part)
		if err != nil {
			rd.log.WithField("part", part).WithError(err).Warn("comment part missing")
			return nil
		}
		m, err := comments.Parse(cdata)
		if err != nil {
			rd.log.WithField("part", part).WithError(err).Warn("ignoring unreadable comments")
			return nil
		}
		return m
	}
	return nil
}

// addNamedRanges registers the queued defined names.  Names pointing at a
// sheet that does not exist are reported; names pointing at a sheet left
// out by Options.Sheets are dropped quietly.
func (rd *reader) addNamedRanges() {
	for _, p := range rd.pending {
		err := rd.wb.AddNamedRange(p.name, p.sheet, p.ref)
		if err == nil {
			continue
		}
		if errors.Is(err, ErrUnknownSheet) && slices.ContainsFunc(rd.sheets, func(e sheetEntry) bool { return e.name == p.sheet }) {
			continue
		}
		rd.log.WithFields(logrus.Fields{"part": rd.mainPart, "name": p.name}).Warn(err.Error())
		rd.wb.addWarning(err)
	}
}

// readZipEntry reads the full contents of a named entry from the ZIP archive.
func (rd *reader) readZipEntry(name string) ([]byte, error) {
	for _, f := range rd.zf.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			data, readErr := io.ReadAll(rc)
			closeErr := rc.Close()
			if readErr != nil {
				return nil, readErr
			}
			// Propagate decompressor checksum / close errors even when the read
			// appeared to succeed.
			if closeErr != nil {
				return nil, closeErr
			}
			return data, nil
		}
	}
	return nil, fmt.Errorf("%q not found in archive: %w", name, fs.ErrNotExist)
}
