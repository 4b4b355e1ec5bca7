package writer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/TsubasaBE/go-xlsx/internal/nsmap"
	"github.com/TsubasaBE/go-xlsx/internal/ooxml"
)

const (
	worksheetsLabel  = "Worksheets"
	namedRangesLabel = "Named Ranges"
)

// errTitles marks an app.xml whose title list cannot be edited safely.
var errTitles = errors.New("writer: app.xml title list")

// titleGroup is one HeadingPairs entry with the titles it counts.
type titleGroup struct {
	label  string
	titles []string
}

// readTitleGroups splits TitlesOfParts into the groups announced by
// HeadingPairs.
func readTitleGroups(root *etree.Element) ([]titleGroup, error) {
	hp := child(root, "HeadingPairs", "vector")
	tp := child(root, "TitlesOfParts", "vector")
	if hp == nil || tp == nil {
		return nil, fmt.Errorf("%w: HeadingPairs or TitlesOfParts missing", errTitles)
	}
	variants := hp.SelectElements("variant")
	if len(variants)%2 != 0 {
		return nil, fmt.Errorf("%w: odd HeadingPairs entry count %d", errTitles, len(variants))
	}
	var titles []string
	for _, el := range tp.ChildElements() {
		titles = append(titles, el.Text())
	}

	var groups []titleGroup
	pos := 0
	for i := 0; i < len(variants); i += 2 {
		label := firstText(variants[i])
		n, err := strconv.Atoi(strings.TrimSpace(firstText(variants[i+1])))
		if err != nil || n < 0 || pos+n > len(titles) {
			return nil, fmt.Errorf("%w: bad count for %q", errTitles, label)
		}
		groups = append(groups, titleGroup{label: label, titles: titles[pos : pos+n]})
		pos += n
	}
	return groups, nil
}

// setTitleGroups rebuilds the HeadingPairs and TitlesOfParts vectors of
// root.  prefix qualifies the docPropsVTypes elements ("vt:" or "").
func setTitleGroups(root *etree.Element, prefix string, groups []titleGroup) {
	hp := root.SelectElement("HeadingPairs")
	if hp == nil {
		hp = root.CreateElement("HeadingPairs")
	}
	tp := root.SelectElement("TitlesOfParts")
	if tp == nil {
		tp = root.CreateElement("TitlesOfParts")
	}

	hv := resetVector(hp, prefix, "variant", 2*len(groups))
	total := 0
	for _, g := range groups {
		hv.CreateElement(prefix+"variant").CreateElement(prefix+"lpstr").SetText(g.label)
		hv.CreateElement(prefix+"variant").CreateElement(prefix+"i4").SetText(strconv.Itoa(len(g.titles)))
		total += len(g.titles)
	}
	tv := resetVector(tp, prefix, "lpstr", total)
	for _, g := range groups {
		for _, t := range g.titles {
			tv.CreateElement(prefix + "lpstr").SetText(t)
		}
	}
}

func resetVector(parent *etree.Element, prefix, baseType string, size int) *etree.Element {
	for _, old := range parent.SelectElements("vector") {
		parent.RemoveChild(old)
	}
	v := parent.CreateElement(prefix + "vector")
	v.CreateAttr("size", strconv.Itoa(size))
	v.CreateAttr("baseType", baseType)
	return v
}

// updateAppXML rewrites the worksheet and named-range groups of an existing
// docProps/app.xml and leaves every other element alone.
func updateAppXML(data []byte, sheets, names []string) ([]byte, error) {
	ns, err := nsmap.Resolve(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errTitles, err)
	}
	prefix, ok := ns.Prefix(ooxml.NSDocPropsVT)
	if !ok {
		return nil, fmt.Errorf("%w: docPropsVTypes namespace not declared", errTitles)
	}
	if prefix != "" {
		prefix += ":"
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: %w", errTitles, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: empty document", errTitles)
	}
	groups, err := readTitleGroups(root)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range groups {
		if groups[i].label == worksheetsLabel {
			groups[i].titles = sheets
			found = true
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: no %q group", errTitles, worksheetsLabel)
	}
	groups = setGroup(groups, namedRangesLabel, names)

	setTitleGroups(root, prefix, groups)
	return doc.WriteToBytes()
}

// setGroup replaces the titles of label, appends the group when missing,
// and drops it when titles is empty.
func setGroup(groups []titleGroup, label string, titles []string) []titleGroup {
	out := groups[:0]
	done := false
	for _, g := range groups {
		if g.label != label {
			out = append(out, g)
			continue
		}
		if len(titles) > 0 && !done {
			out = append(out, titleGroup{label: label, titles: titles})
			done = true
		}
	}
	if len(titles) > 0 && !done {
		out = append(out, titleGroup{label: label, titles: titles})
	}
	return out
}

func child(el *etree.Element, path ...string) *etree.Element {
	for _, tag := range path {
		if el == nil {
			return nil
		}
		el = el.SelectElement(tag)
	}
	return el
}

func firstText(el *etree.Element) string {
	if kids := el.ChildElements(); len(kids) > 0 {
		return kids[0].Text()
	}
	return el.Text()
}
