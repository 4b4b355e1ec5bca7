// Package ooxml names the parts, namespaces, relationship types and content
// types of an SpreadsheetML package.
package ooxml

import (
	"strconv"
	"strings"
)

// Part paths inside the zip container.
const (
	ContentTypesPart  = "[Content_Types].xml"
	RootRelsPart      = "_rels/.rels"
	AppPart           = "docProps/app.xml"
	CorePart          = "docProps/core.xml"
	CustomPart        = "docProps/custom.xml"
	WorkbookPart      = "xl/workbook.xml"
	WorkbookRelsPart  = "xl/_rels/workbook.xml.rels"
	SharedStringsPart = "xl/sharedStrings.xml"
	StylesPart        = "xl/styles.xml"
	CalcChainPart     = "xl/calcChain.xml"
	VBAProjectPart    = "xl/vbaProject.bin"
	WorksheetsDir     = "xl/worksheets/"
)

// Namespaces.
const (
	NSMain          = "http://schemas.openxmlformats.org/spreadsheetml/2006/main"
	NSRelationships = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	NSPackageRels   = "http://schemas.openxmlformats.org/package/2006/relationships"
	NSContentTypes  = "http://schemas.openxmlformats.org/package/2006/content-types"
	NSExtendedProps = "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties"
	NSDocPropsVT    = "http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes"
	NSCoreProps     = "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
	NSDC            = "http://purl.org/dc/elements/1.1/"
	NSDCTerms       = "http://purl.org/dc/terms/"
	NSDCMIType      = "http://purl.org/dc/dcmitype/"
	NSXSI           = "http://www.w3.org/2001/XMLSchema-instance"
	NSMC            = "http://schemas.openxmlformats.org/markup-compatibility/2006"
)

// Relationship types.
const (
	RelOfficeDocument   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	RelExtendedProps    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
	RelCoreProps        = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	RelWorksheet        = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet"
	RelSharedStrings    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/sharedStrings"
	RelStyles           = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	RelTheme            = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme"
	RelCalcChain        = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/calcChain"
	RelVBAProject       = "http://schemas.microsoft.com/office/2006/relationships/vbaProject"
	RelComments         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/comments"
	RelCustomProperties = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/custom-properties"
)

// Content types.
const (
	CTRels          = "application/vnd.openxmlformats-package.relationships+xml"
	CTXML           = "application/xml"
	CTWorkbook      = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"
	CTWorkbookMacro = "application/vnd.ms-excel.sheet.macroEnabled.main+xml"
	CTWorksheet     = "application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"
	CTSharedStrings = "application/vnd.openxmlformats-officedocument.spreadsheetml.sharedStrings+xml"
	CTStyles        = "application/vnd.openxmlformats-officedocument.spreadsheetml.styles+xml"
	CTTheme         = "application/vnd.openxmlformats-officedocument.theme+xml"
	CTCoreProps     = "application/vnd.openxmlformats-package.core-properties+xml"
	CTExtendedProps = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
)

// WorksheetPart returns the path of the n-th (1-based) worksheet slot.
func WorksheetPart(n int) string {
	return WorksheetsDir + "sheet" + strconv.Itoa(n) + ".xml"
}

// IsMacroEnabled reports whether path names a macro-enabled workbook.
func IsMacroEnabled(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".xlsm")
}
