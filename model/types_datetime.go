package model

import (
	"strings"
	"time"

	"github.com/oarkflow/date"
)

func init() {
	RegisterType(dateTimeType{name: "date", defaultFormat: "YYYY-MM-DD"})
	RegisterType(dateTimeType{name: "time", defaultFormat: "HH:mm:ss"})
	RegisterType(dateTimeType{name: "datetime", defaultFormat: "YYYY-MM-DD HH:mm:ss"})
	RegisterType(dateTimeType{name: "datetime-ms", defaultFormat: "YYYY-MM-DD HH:mm:ss.SSS"})
	RegisterType(dateTimeType{name: "datetime-us", defaultFormat: "YYYY-MM-DD HH:mm:ss.SSSSSS"})
}

// leapSecondDates lists every UTC date (from 1972-06-30, the first
// inserted leap second, forward) on which a positive leap second was
// inserted at 23:59:60. Grounds dateTimeType's $leapSecond admission
// list (spec §4.D).
var leapSecondDates = map[string]bool{
	"1972-06-30": true, "1972-12-31": true, "1973-12-31": true, "1974-12-31": true,
	"1975-12-31": true, "1976-12-31": true, "1977-12-31": true, "1978-12-31": true,
	"1979-12-31": true, "1981-06-30": true, "1982-06-30": true, "1983-06-30": true,
	"1985-06-30": true, "1987-12-31": true, "1989-12-31": true, "1990-12-31": true,
	"1992-06-30": true, "1993-06-30": true, "1994-06-30": true, "1995-12-31": true,
	"1997-06-30": true, "1998-12-31": true, "2005-12-31": true, "2008-12-31": true,
	"2012-06-30": true, "2015-06-30": true, "2016-12-31": true,
}

// leapSecondMonthDays is the month-day portion of leapSecondDates, used
// when the active format omits the year (spec: "when the format omits
// the year, any month-end date on that list is admissible").
var leapSecondMonthDays = func() map[string]bool {
	out := make(map[string]bool, len(leapSecondDates))
	for d := range leapSecondDates {
		out[d[5:]] = true
	}
	return out
}()

// translateFormat converts the engine's Y/M/D/H/m/s/S token grammar
// (spec §4.D) into a Go reference-time layout string. Literal
// separators ("-", ":", ".", " ") pass through unchanged.
//
// Grounded on jsonschema/decode.go and jsonschema/v2/validator.go's use
// of github.com/oarkflow/date.Parse for permissive heuristic parsing;
// that parser alone cannot enforce an explicit $format or reject Feb 29
// under $leapYear:false, so this translator targets the standard
// library's exact time.Parse instead for format-constrained validation.
func translateFormat(format string) string {
	var sb strings.Builder
	runes := []rune(format)
	for i := 0; i < len(runes); {
		r := runes[i]
		j := i
		for j < len(runes) && runes[j] == r {
			j++
		}
		run := j - i
		switch r {
		case 'Y':
			if run >= 4 {
				sb.WriteString("2006")
			} else {
				sb.WriteString("06")
			}
		case 'M':
			sb.WriteString("01")
		case 'D':
			sb.WriteString("02")
		case 'H':
			sb.WriteString("15")
		case 'm':
			sb.WriteString("04")
		case 's':
			sb.WriteString("05")
		case 'S':
			sb.WriteString(strings.Repeat("0", run))
		default:
			sb.WriteString(string(r))
		}
		i = j
	}
	return sb.String()
}

type dateTimeType struct {
	name          string
	defaultFormat string
}

func (t dateTimeType) Name() string { return t.name }
func (t dateTimeType) Defaults() map[string]any {
	return map[string]any{"format": t.defaultFormat, "leapYear": true, "leapSecond": false}
}

func (t dateTimeType) Validate(rc *RunCtx, s *Schema, path string, v any) (any, bool) {
	str, ok := v.(string)
	if !ok {
		rc.Acc.Add(path, CodeExpectedString, "expected "+t.name+" string")
		return nil, false
	}
	format := s.ExtraString("format", t.defaultFormat)
	leapYear := s.ExtraBool("leapYear", true)
	leapSecond := s.ExtraBool("leapSecond", false)

	hasYear := strings.Contains(format, "Y")
	hasMonth := strings.Contains(format, "M")
	hasDay := strings.Contains(format, "D")

	if leapSecond && hasDay && strings.HasSuffix(str, "23:59:60") {
		if t.leapSecondAdmitted(str, format, hasYear) {
			return str, true
		}
		rc.Acc.Add(path, CodeInvalidValue, "23:59:60 is not a recognized leap-second date")
		return nil, false
	}

	layout := translateFormat(format)
	parsedTime, err := time.Parse(layout, str)
	if err != nil {
		// Fall back to the heuristic parser only when the caller never
		// overrode $format, mirroring jsonschema/decode.go's permissive
		// date.Parse for untyped input while still enforcing an explicit
		// $format strictly via time.Parse above.
		usedDefaultFormat := format == t.defaultFormat
		if !usedDefaultFormat {
			rc.Acc.Add(path, CodeInvalidFormat, "does not match format \""+format+"\"")
			return nil, false
		}
		if _, dErr := date.Parse(str); dErr != nil {
			rc.Acc.Add(path, CodeInvalidFormat, "does not match format \""+format+"\"")
			return nil, false
		}
		return str, true
	}

	if hasMonth && hasDay && parsedTime.Month() == time.February && parsedTime.Day() == 29 && !leapYear {
		rc.Acc.Add(path, CodeInvalidValue, "February 29 not permitted ($leapYear: false)")
		return nil, false
	}
	return str, true
}

// leapSecondAdmitted checks the date portion of str (already confirmed
// to end in "23:59:60") against the historical leap-second list, using
// the month-day-only table when the active format has no year token.
func (t dateTimeType) leapSecondAdmitted(str, format string, hasYear bool) bool {
	idx := strings.IndexByte(str, ' ')
	var datePart string
	if idx >= 0 {
		datePart = str[:idx]
	} else {
		datePart = str
	}
	if !hasYear {
		if len(datePart) < 5 {
			return false
		}
		return leapSecondMonthDays[datePart[len(datePart)-5:]]
	}
	return leapSecondDates[datePart]
}
