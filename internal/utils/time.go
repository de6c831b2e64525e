package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ParseTimeOfDay parses "HH:MM" or "HH:MM:SS" into seconds after midnight.
// Hours may exceed 23 for trips running past midnight of the service day.
func ParseTimeOfDay(value string) (int, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid time of day %q, use HH:MM or HH:MM:SS", value)
	}

	fields := [3]int{}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid time of day %q, use HH:MM or HH:MM:SS", value)
		}
		fields[i] = n
	}
	if fields[1] > 59 || fields[2] > 59 {
		return 0, errors.New("minutes and seconds must be below 60")
	}
	return fields[0]*3600 + fields[1]*60 + fields[2], nil
}

// FormatTimeOfDay formats seconds after midnight as HH:MM:SS. Negative
// values get a leading minus sign.
func FormatTimeOfDay(seconds int) string {
	sign := ""
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	return fmt.Sprintf("%s%02d:%02d:%02d", sign, seconds/3600, seconds/60%60, seconds%60)
}

// FormatDuration formats a duration in seconds compactly, e.g. "1h5m" or "45s".
func FormatDuration(seconds int) string {
	if seconds < 0 {
		return "-" + FormatDuration(-seconds)
	}
	h, m, s := seconds/3600, seconds/60%60, seconds%60
	var b strings.Builder
	if h > 0 {
		fmt.Fprintf(&b, "%dh", h)
	}
	if m > 0 {
		fmt.Fprintf(&b, "%dm", m)
	}
	if s > 0 || b.Len() == 0 {
		fmt.Fprintf(&b, "%ds", s)
	}
	return b.String()
}
