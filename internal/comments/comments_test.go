package comments

import (
	"testing"

	"github.com/TsubasaBE/go-xlsx/address"
)

const commentsPart = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<comments xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
<authors><author>tc={1}</author><author>alice</author></authors>
<commentList>
<comment ref="B2" authorId="0"><text><t>[Threaded comment]

Your version of Excel allows you to read this threaded comment; however, any edits to it will get removed if the file is opened in a newer version of Excel. Learn more: https://go.microsoft.com/fwlink/?linkid=870924

Comment:
    check this total</t></text></comment>
<comment ref="C3" authorId="1"><text><r><rPr><b/></rPr><t>alice:</t></r><r><t xml:space="preserve">
plain note</t></r></text></comment>
</commentList>
</comments>`

func TestParse(t *testing.T) {
	got, err := Parse([]byte(commentsPart))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c := got[address.Coord{Row: 2, Col: 2}]; c != "check this total" {
		t.Errorf("B2 = %q", c)
	}
	if c := got[address.Coord{Row: 3, Col: 3}]; c != "alice:\nplain note" {
		t.Errorf("C3 = %q", c)
	}
}

func TestParseBadRef(t *testing.T) {
	_, err := Parse([]byte(`<comments><commentList><comment ref="1A"><text><t>x</t></text></comment></commentList></comments>`))
	if err == nil {
		t.Fatal("expected error for bad ref")
	}
}

func TestClean(t *testing.T) {
	tests := map[string]string{
		"plain":                              "plain",
		"[Threaded comment]\nComment:\n  hi": "hi",
		"[Threaded comment] only":            "only",
		"  Comment: not threaded":            "  Comment: not threaded",

		// the body may itself contain the label
		"[Threaded comment]\nComment:\n    Review note. Comment: fix totals": "Review note. Comment: fix totals",
	}
	for in, want := range tests {
		if got := Clean(in); got != want {
			t.Errorf("Clean(%q) = %q, want %q", in, got, want)
		}
	}
}
