package workout

import (
	"strconv"
	"strings"
	"time"
)

// ParseDuration converts a free-form duration string into a time.Duration.
// Accepted forms, tried in order:
//
//   - ISO-8601 style durations starting with "P" (years/months/weeks are not
//     handled; the integer immediately preceding each H, M, and S token is
//     summed)
//   - colon-delimited MM:SS or HH:MM:SS with all-digit segments
//   - a bare number, interpreted as minutes
//
// Returns ok=false for anything unparsable or non-positive; malformed input
// is never an error, callers decide whether absence is acceptable.
func ParseDuration(text string) (time.Duration, bool) {
	value := strings.TrimSpace(text)
	if value == "" || value == "null" {
		return 0, false
	}

	if strings.HasPrefix(strings.ToUpper(value), "P") {
		hours := intBeforeToken(value, 'H')
		minutes := intBeforeToken(value, 'M')
		seconds := intBeforeToken(value, 'S')
		total := hours*3600 + minutes*60 + seconds
		if total <= 0 {
			return 0, false
		}
		return time.Duration(total) * time.Second, true
	}

	if parts := strings.Split(value, ":"); len(parts) == 2 || len(parts) == 3 {
		numbers := make([]int, 0, 3)
		allDigits := true
		for _, part := range parts {
			n, err := strconv.Atoi(part)
			if err != nil || part == "" {
				allDigits = false
				break
			}
			numbers = append(numbers, n)
		}
		if allDigits {
			var total int
			if len(numbers) == 2 {
				total = numbers[0]*60 + numbers[1]
			} else {
				total = numbers[0]*3600 + numbers[1]*60 + numbers[2]
			}
			if total <= 0 {
				return 0, false
			}
			return time.Duration(total) * time.Second, true
		}
		return 0, false
	}

	minutes, err := strconv.ParseFloat(value, 64)
	if err != nil || minutes <= 0 {
		return 0, false
	}
	return time.Duration(minutes * float64(time.Minute)), true
}

// intBeforeToken returns the contiguous run of digits immediately preceding
// the first occurrence of token, or 0 when the token is absent or not
// preceded by digits.
func intBeforeToken(value string, token byte) int {
	idx := strings.IndexByte(strings.ToUpper(value), token)
	if idx <= 0 {
		return 0
	}
	end := idx
	start := end
	for start > 0 && value[start-1] >= '0' && value[start-1] <= '9' {
		start--
	}
	if start == end {
		return 0
	}
	n, err := strconv.Atoi(value[start:end])
	if err != nil {
		return 0
	}
	return n
}

// TimeOfDay is a wall-clock time without a date.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// ParseTimeOfDay parses HH:MM or HH:MM:SS.
func ParseTimeOfDay(text string) (TimeOfDay, bool) {
	value := strings.TrimSpace(text)
	if value == "" {
		return TimeOfDay{}, false
	}
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}, true
		}
	}
	return TimeOfDay{}, false
}

// String renders the time as HH:MM:SS.
func (t TimeOfDay) String() string {
	return strconv.Itoa(t.Hour/10) + strconv.Itoa(t.Hour%10) + ":" +
		strconv.Itoa(t.Minute/10) + strconv.Itoa(t.Minute%10) + ":" +
		strconv.Itoa(t.Second/10) + strconv.Itoa(t.Second%10)
}

var dateLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDate parses YYYY-MM-DD or ISO datetime variants (with or without an
// offset). The result is always timezone-aware; naive input is taken as UTC.
func ParseDate(text string) (time.Time, bool) {
	value := strings.TrimSpace(text)
	if value == "" {
		return time.Time{}, false
	}
	value = strings.Replace(value, "Z", "+00:00", 1)
	for _, layout := range dateLayouts {
		// time.Parse yields UTC for layouts without an offset, so naive
		// input comes back timezone-aware.
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CombineDateAndTime merges a date string with an optional time-of-day
// string, defaulting the time to midnight. The result is timezone-aware.
func CombineDateAndTime(dateText, timeText string) (time.Time, bool) {
	date, ok := ParseDate(dateText)
	if !ok {
		return time.Time{}, false
	}
	tod, ok := ParseTimeOfDay(timeText)
	if !ok {
		tod = TimeOfDay{}
	}
	return time.Date(date.Year(), date.Month(), date.Day(), tod.Hour, tod.Minute, tod.Second, 0, date.Location()), true
}
