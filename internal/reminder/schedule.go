package reminder

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NextAt computes the next reminder fire time for a preferred hh:mm in loc:
// today if the time is still ahead, otherwise tomorrow.
func NextAt(now time.Time, hour, minute int, loc *time.Location) time.Time {
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)
	if !next.After(local) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// ParseTimezoneLocation resolves a profile's stored timezone. It accepts IANA
// names like "America/Sao_Paulo", "UTC"/"GMT", and fixed offsets such as
// "UTC+3", "-03:30". Fixed offsets are DST-agnostic.
func ParseTimezoneLocation(tz string) (*time.Location, error) {
	tz = strings.TrimSpace(tz)
	if tz == "" || strings.EqualFold(tz, "UTC") || strings.EqualFold(tz, "Etc/UTC") || strings.EqualFold(tz, "GMT") {
		return time.UTC, nil
	}

	if loc, err := time.LoadLocation(tz); err == nil {
		return loc, nil
	}

	offSec, ok := parseUTCOffsetSeconds(tz)
	if !ok {
		return nil, fmt.Errorf("unsupported timezone %q", tz)
	}
	return time.FixedZone(formatUTCOffsetName(offSec), offSec), nil
}

func parseUTCOffsetSeconds(tz string) (int, bool) {
	s := strings.TrimSpace(tz)

	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return parseSignHourMinuteToSeconds(s)
	}

	if strings.HasPrefix(strings.ToUpper(s), "UTC") {
		s = strings.TrimSpace(s[3:])
		if s == "" {
			return 0, true
		}
		if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
			return parseSignHourMinuteToSeconds(s)
		}
	}

	return 0, false
}

func parseSignHourMinuteToSeconds(s string) (int, bool) {
	if len(s) < 2 {
		return 0, false
	}
	sign := 1
	if s[0] == '-' {
		sign = -1
	} else if s[0] != '+' {
		return 0, false
	}
	s = s[1:]

	hh, mm := s, "0"
	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		if len(parts) != 2 {
			return 0, false
		}
		hh, mm = parts[0], parts[1]
	}

	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, false
	}
	if h < 0 || h > 14 || m < 0 || m >= 60 {
		return 0, false
	}

	return sign * (h*3600 + m*60), true
}

func formatUTCOffsetName(offsetSec int) string {
	sign := "+"
	if offsetSec < 0 {
		sign = "-"
		offsetSec = -offsetSec
	}
	return fmt.Sprintf("UTC%s%02d:%02d", sign, offsetSec/3600, (offsetSec%3600)/60)
}
