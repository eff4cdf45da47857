// Package normalize parses raw swim times and dates.
package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/swimtrend/internal/model"
)

// InputDateLayout is the only accepted input date pattern, e.g. "Jan 5, 2023".
const InputDateLayout = "Jan 2, 2006"

// ParseTime converts "M:SS.CC" or "SS.CC" into seconds rounded to 2 decimals.
// The fractional component is always divided by 100, whatever its length.
func ParseTime(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if strings.Count(s, ".") != 1 {
		return 0, fmt.Errorf("%w: expected exactly one '.'", model.ErrBadTime)
	}
	minutes := 0
	rest := s
	switch strings.Count(s, ":") {
	case 0:
	case 1:
		var minPart string
		minPart, rest, _ = strings.Cut(s, ":")
		m, err := parseDigits(minPart, "minutes")
		if err != nil {
			return 0, err
		}
		minutes = m
	default:
		return 0, fmt.Errorf("%w: expected at most one ':'", model.ErrBadTime)
	}

	secPart, fracPart, _ := strings.Cut(rest, ".")
	seconds, err := parseDigits(secPart, "seconds")
	if err != nil {
		return 0, err
	}
	frac, err := parseDigits(fracPart, "fraction")
	if err != nil {
		return 0, err
	}
	total := float64(minutes)*60 + float64(seconds) + float64(frac)/100
	return math.Round(total*100) / 100, nil
}

func parseDigits(part, name string) (int, error) {
	if part == "" {
		return 0, fmt.Errorf("%w: empty %s", model.ErrBadTime, name)
	}
	for i := 0; i < len(part); i++ {
		if part[i] < '0' || part[i] > '9' {
			return 0, fmt.Errorf("%w: non-numeric %s %q", model.ErrBadTime, name, part)
		}
	}
	v, err := strconv.Atoi(part)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q: %v", model.ErrBadTime, name, part, err)
	}
	return v, nil
}

// ParseDate parses a "Mon D, YYYY" date into UTC midnight.
func ParseDate(raw string) (time.Time, error) {
	parsed, err := time.Parse(InputDateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: expected %q: %v", model.ErrBadDate, InputDateLayout, err)
	}
	return parsed, nil
}

// Records normalizes raw records one-to-one, in order. The first malformed
// value aborts with a *model.ParseError.
func Records(records []model.SwimRecord) ([]model.Swim, error) {
	out := make([]model.Swim, 0, len(records))
	for _, rec := range records {
		t, err := ParseTime(rec.TimeRaw)
		if err != nil {
			return nil, &model.ParseError{Row: rec.Row, Field: "Time", Value: rec.TimeRaw, Err: err}
		}
		d, err := ParseDate(rec.DateRaw)
		if err != nil {
			return nil, &model.ParseError{Row: rec.Row, Field: "Date", Value: rec.DateRaw, Err: err}
		}
		out = append(out, model.Swim{Time: t, Date: d})
	}
	return out, nil
}
