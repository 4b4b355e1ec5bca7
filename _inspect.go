//go:build ignore

package main

import (
	"fmt"
	"path/filepath"

	"github.com/TsubasaBE/go-xlsx/workbook"
)

func main() {
	files, _ := filepath.Glob("xls/*.xls[xm]")
	for _, f := range files {
		wb, err := workbook.Open(f, workbook.Options{})
		if err != nil {
			fmt.Printf("ERROR opening %s: %v\n", filepath.Base(f), err)
			continue
		}
		sheets := wb.SheetNames()
		fmt.Printf("\n=== %s ===\n", filepath.Base(f))
		fmt.Printf("  Sheets (%d): %v date1904=%v\n", len(sheets), sheets, wb.Date1904)
		for i, name := range sheets {
			ws, err := wb.Worksheet(name)
			if err != nil {
				fmt.Printf("  [%d] %q: ERROR %v\n", i+1, name, err)
				continue
			}
			rows, cols := ws.Size()
			fmt.Printf("  [%d] %q size=%dx%d cells=%d first=%v\n",
				i+1, name, rows, cols, ws.Len(), ws.Row(1))
		}
		for _, nr := range wb.NamedRanges() {
			fmt.Printf("  name %s -> %s!%s\n", nr.Name, nr.Sheet, nr.Ref)
		}
		for _, w := range wb.Warnings() {
			fmt.Printf("  warning: %v\n", w)
		}
	}
}
