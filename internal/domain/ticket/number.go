package ticket

import (
	"fmt"
	"strconv"
	"strings"
)

// NumberPrefix is the per-year prefix shared by every ticket number.
func NumberPrefix(year int) string {
	return fmt.Sprintf("T%04d-", year)
}

// FormatNumber renders a ticket number such as T2025-0001.
func FormatNumber(year, seq int) string {
	return fmt.Sprintf("%s%04d", NumberPrefix(year), seq)
}

// ParseSequence extracts the sequence of a number issued in year.
func ParseSequence(number string, year int) (int, bool) {
	rest, ok := strings.CutPrefix(number, NumberPrefix(year))
	if !ok {
		return 0, false
	}
	seq, err := strconv.Atoi(rest)
	if err != nil || seq <= 0 {
		return 0, false
	}
	return seq, true
}
