package writer

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/TsubasaBE/go-xlsx/internal/ooxml"
	"github.com/TsubasaBE/go-xlsx/workbook"
)

// modelParts holds the parts generated from the workbook model.
type modelParts struct {
	workbook   part
	sheets     []part
	strings    part
	hasStrings bool
}

// renderModel serializes the workbook part, every worksheet and the shared
// strings.  The pool is reset first so indices follow sheet order.
func renderModel(wb *workbook.Workbook) (*modelParts, error) {
	pool := wb.SharedStrings()
	pool.Reset()

	mp := &modelParts{}
	var err error
	for i, name := range wb.SheetNames() {
		ws, werr := wb.Worksheet(name)
		if werr != nil {
			return nil, werr
		}
		p, perr := worksheetPart(i+1, ws, pool)
		if perr != nil {
			return nil, fmt.Errorf("writer: sheet %q: %w", name, perr)
		}
		mp.sheets = append(mp.sheets, p)
	}
	if mp.workbook, err = workbookPart(wb); err != nil {
		return nil, fmt.Errorf("writer: workbook part: %w", err)
	}
	if pool.Len() > 0 {
		mp.hasStrings = true
		if mp.strings, err = sharedStringsPart(pool); err != nil {
			return nil, fmt.Errorf("writer: shared strings: %w", err)
		}
	}
	return mp, nil
}

func namedRangeNames(wb *workbook.Workbook) []string {
	var names []string
	for _, nr := range wb.NamedRanges() {
		names = append(names, nr.Name)
	}
	return names
}

func writeNew(wb *workbook.Workbook, path string, opts Options, log logrus.FieldLogger) (*Report, error) {
	mp, err := renderModel(wb)
	if err != nil {
		return nil, err
	}
	macro := ooxml.IsMacroEnabled(path)

	ct := newContentTypes()
	ct.addCore(len(mp.sheets), mp.hasStrings, macro)
	ct.addOverride(ooxml.CorePart, ooxml.CTCoreProps)
	ct.addOverride(ooxml.AppPart, ooxml.CTExtendedProps)

	parts := make([]part, 0, len(mp.sheets)+7)
	for _, build := range []func() (part, error){
		ct.part,
		rootRelsPart,
		func() (part, error) { return appPart(wb.SheetNames(), namedRangeNames(wb)) },
		func() (part, error) { return corePart(opts.now()) },
		func() (part, error) { return workbookRelsPart(len(mp.sheets), mp.hasStrings, nil) },
	} {
		p, err := build()
		if err != nil {
			return nil, fmt.Errorf("writer: %w", err)
		}
		parts = append(parts, p)
	}
	parts = append(parts, mp.workbook)
	parts = append(parts, mp.sheets...)
	if mp.hasStrings {
		parts = append(parts, mp.strings)
	}

	tmp, err := createTemp(path)
	if err != nil {
		return nil, err
	}
	if err := zipParts(tmp, parts); err != nil {
		os.Remove(tmp.Name())
		return nil, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("writer: %w", err)
	}
	log.WithField("parts", len(parts)).Debug("container written")
	return &Report{Path: path, Mode: ModeNew}, nil
}
