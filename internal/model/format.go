package model

import (
	"math"
	"strconv"
	"time"
)

// DateLayout is the rendered date form.
const DateLayout = "2006-01-02"

// FormatDate renders a date as YYYY-MM-DD.
func FormatDate(d time.Time) string {
	return d.Format(DateLayout)
}

// FormatFloat renders v in shortest round-trip form; non-finite values as inf, -inf and NaN.
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatDays renders an optional day count; nil is empty.
func FormatDays(days *int) string {
	if days == nil {
		return ""
	}
	return strconv.Itoa(*days)
}
