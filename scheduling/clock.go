package scheduling

import (
	"fmt"
	"strconv"
	"strings"
)

// Clock is a time of day in seconds after midnight.
type Clock int

const (
	Minute Clock = 60
	Hour         = 60 * Minute
	// EndOfDay is 24:00, the exclusive upper bound of any interval.
	EndOfDay = 24 * Hour
)

// ParseClock accepts "HH:MM", "HH:MM:SS" or "HH:MM:SS.ffffff" as returned by
// postgres TIME columns. Fractional seconds are truncated. 24:00 is accepted
// as EndOfDay and is the only value past 23:59:59.
func ParseClock(s string) (Clock, error) {
	bad := fmt.Errorf("invalid time %q: expected HH:MM[:SS[.ffffff]]", s)
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, bad
	}
	frac := ""
	if len(parts) == 3 {
		if sec, f, ok := strings.Cut(parts[2], "."); ok {
			if f == "" || len(f) > 6 || !allDigits(f) {
				return 0, bad
			}
			parts[2], frac = sec, f
		}
	}
	limits := []int{24, 59, 59}
	var vals [3]int
	for i, p := range parts {
		if len(p) != 2 || !allDigits(p) {
			return 0, bad
		}
		n, err := strconv.Atoi(p)
		if err != nil || n > limits[i] {
			return 0, bad
		}
		vals[i] = n
	}
	c := Clock(vals[0])*Hour + Clock(vals[1])*Minute + Clock(vals[2])
	if c > EndOfDay || (c == EndOfDay && strings.Trim(frac, "0") != "") {
		return 0, bad
	}
	return c, nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// MustParseClock panics on malformed input. Intended for tests and constants.
func MustParseClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Clock) hms() (int, int, int) {
	s := int(c)
	return s / 3600, (s % 3600) / 60, s % 60
}

// String renders the canonical 24-hour form "15:04:05".
func (c Clock) String() string {
	h, m, s := c.hms()
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// Format12 renders a 12-hour display form such as "09:00 AM".
func (c Clock) Format12() string {
	h, m, _ := c.hms()
	suffix := "AM"
	if h%24 >= 12 {
		suffix = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%02d:%02d %s", h12, m, suffix)
}

// AddMinutes returns c shifted by n minutes.
func (c Clock) AddMinutes(n int) Clock {
	return c + Clock(n)*Minute
}

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start Clock
	End   Clock
}

// ParseInterval parses both bounds of a stored row.
func ParseInterval(start, end string) (Interval, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Interval{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Interval{}, err
	}
	return Interval{Start: s, End: e}, nil
}

func (i Interval) Valid() bool { return i.Start < i.End }

// Overlaps reports strict intersection. Touching intervals do not overlap.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start < o.End && i.End > o.Start
}

// Minutes is the interval length in whole minutes.
func (i Interval) Minutes() int { return int(i.End-i.Start) / int(Minute) }

func (i Interval) String() string { return i.Start.String() + "-" + i.End.String() }
