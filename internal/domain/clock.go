package domain

import (
	"fmt"
	"strconv"
	"strings"
)

const SecondsPerDay = 24 * 3600

// ParseClock parses "HH:MM" or "HH:MM:SS" into seconds since midnight.
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("time %q: want HH:MM or HH:MM:SS", s)
	}

	limits := []int{24, 60, 60}
	total := 0
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, fmt.Errorf("time %q: %w", s, err)
		}
		if n < 0 || n >= limits[i] {
			return 0, fmt.Errorf("time %q: field %d out of range", s, i+1)
		}
		total = total*60 + n
	}
	if len(parts) == 2 {
		total *= 60
	}

	return total, nil
}

// FormatClock formats seconds since midnight as HH:MM:SS, folding values
// past midnight back into the day.
func FormatClock(sec int) string {
	sec %= SecondsPerDay
	if sec < 0 {
		sec += SecondsPerDay
	}
	return fmt.Sprintf("%02d:%02d:%02d", sec/3600, (sec%3600)/60, sec%60)
}
