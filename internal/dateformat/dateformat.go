// Package dateformat classifies Excel number formats as date, time or
// datetime formats and converts date serials to [time.Time].
//
// It is shared by styles/ and worksheet/ and has no public-API contract of
// its own.  All callers are within the same module.
package dateformat

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/xuri/nfp"
)

// Kind is the temporal category of a number format.
type Kind int

const (
	// None is a non-temporal format (General, numbers, text, currency...).
	None Kind = iota
	// Date carries a calendar date and no time of day.
	Date
	// Time carries a time of day (or elapsed time) and no calendar date.
	Time
	// DateTime carries both.
	DateTime
)

func (k Kind) String() string {
	switch k {
	case Date:
		return "date"
	case Time:
		return "time"
	case DateTime:
		return "datetime"
	}
	return "none"
}

// Layouts used to render temporal cells as text.
const (
	DateLayout     = "2006/01/02"
	TimeLayout     = "15:04:05"
	DateTimeLayout = "2006/01/02 15:04:05"
)

// firstCustomID is the first numFmtId reserved for workbook-defined formats.
const firstCustomID = 164

// BuiltIn returns the Kind of a built-in numFmtId (ECMA-376 §18.8.30):
//
//	14–17, 27–31, 36, 50, 51, 54, 57, 58   dates (27+ are locale-specific)
//	18–21, 32–35, 45–47, 52, 53, 55, 56    times
//	22                                     date and time
func BuiltIn(id int) Kind {
	switch {
	case id >= 14 && id <= 17:
		return Date
	case id >= 18 && id <= 21:
		return Time
	case id == 22:
		return DateTime
	case id >= 27 && id <= 31, id == 36:
		return Date
	case id >= 32 && id <= 35:
		return Time
	case id >= 45 && id <= 47:
		return Time
	case id == 50, id == 51, id == 54, id == 57, id == 58:
		return Date
	case id == 52, id == 53, id == 55, id == 56:
		return Time
	}
	return None
}

// Classify returns the Kind of a number format.  For built-in ids the
// format string is ignored; for custom ids (>= 164) formatCode is tokenized
// with nfp and the first section decides.
func Classify(id int, formatCode string) Kind {
	if id < firstCustomID {
		return BuiltIn(id)
	}
	return ScanFormatCode(formatCode)
}

// ScanFormatCode classifies a custom number-format string.  "m"/"mm" is a
// month unless the same section also contains an hour or second token, in
// which case it is read as minutes.
func ScanFormatCode(formatCode string) Kind {
	if formatCode == "" || strings.EqualFold(formatCode, "general") {
		return None
	}
	ps := nfp.NumberFormatParser()
	sections := ps.Parse(formatCode)
	if len(sections) == 0 {
		return None
	}
	var hasDate, hasTime, hasMonthOrMinute bool
	for _, tok := range sections[0].Items {
		switch tok.TType {
		case nfp.TokenTypeElapsedDateTimes:
			hasTime = true
		case nfp.TokenTypeDateTimes:
			if tok.TValue == "" {
				continue
			}
			switch strings.ToLower(tok.TValue)[0] {
			case 'y', 'd', 'e', 'g', 'b':
				hasDate = true
			case 'h', 's', 'a':
				hasTime = true
			case 'm':
				hasMonthOrMinute = true
			}
		}
	}
	if hasMonthOrMinute && !hasTime {
		hasDate = true
	}
	switch {
	case hasDate && hasTime:
		return DateTime
	case hasDate:
		return Date
	case hasTime:
		return Time
	}
	return None
}

// Convert converts an Excel serial to a [time.Time] in UTC.
//
// In the 1900 system serial 0 is 1900-01-00 and Excel keeps Lotus 1-2-3's
// phantom 1900-02-29 (serial 60), so serials >= 61 are offset from
// 1899-12-30 and smaller serials from 1899-12-31.  In the 1904 system
// serial 0 is 1904-01-01 with no correction.
func Convert(serial float64, date1904 bool) (time.Time, error) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) {
		return time.Time{}, fmt.Errorf("dateformat: invalid serial %v", serial)
	}
	if serial < 0 {
		return time.Time{}, fmt.Errorf("dateformat: negative serial %v not supported", serial)
	}
	// 9999-12-31 is serial 2,958,465 in the 1900 system; 1462 days less in
	// the 1904 system.
	maxSerial := 2_958_466.0
	if date1904 {
		maxSerial -= 1462
	}
	if serial > maxSerial {
		return time.Time{}, fmt.Errorf("dateformat: serial %v exceeds maximum %v", serial, maxSerial)
	}

	fracSec, rollover := fracSeconds(serial)
	days := int(serial) + rollover
	var base time.Time
	switch {
	case date1904:
		base = time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC)
	case days >= 61:
		base = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	case days == 0:
		base = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
	default:
		base = time.Date(1899, 12, 31, 0, 0, 0, 0, time.UTC)
	}
	return base.AddDate(0, 0, days).Add(time.Duration(fracSec) * time.Second), nil
}

// Format renders serial as text according to kind.  Time values use only
// the fractional day.
func Format(serial float64, kind Kind, date1904 bool) (string, error) {
	if kind == Time {
		secs, _ := fracSeconds(serial)
		return time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC).
			Add(time.Duration(secs) * time.Second).Format(TimeLayout), nil
	}
	t, err := Convert(serial, date1904)
	if err != nil {
		return "", err
	}
	if kind == DateTime {
		return t.Format(DateTimeLayout), nil
	}
	return t.Format(DateLayout), nil
}

// fracSeconds converts the fractional-day part of serial to whole seconds
// within the day, rounding half a second up, plus a day rollover (0 or 1)
// when rounding reaches midnight.
func fracSeconds(serial float64) (secs int64, rollover int) {
	const roundEpsilon = 1e-9
	const nanosInADay = float64(24 * 60 * 60 * 1e9)
	fracDay := (serial - math.Trunc(serial)) + roundEpsilon
	d := time.Duration(fracDay * nanosInADay)
	secs = int64(d / time.Second)
	if d%time.Second > 500*time.Millisecond {
		secs++
	}
	if secs < 0 {
		secs = 0
	}
	return secs % 86400, int(secs / 86400)
}
