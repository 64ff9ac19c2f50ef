package pipeline

import (
	"strings"
	"unicode"
)

// Normalize reduces one page of raw statement text to the lines that can
// plausibly carry a transaction. Transactional lines always contain a date or
// an amount, so any line without a single decimal digit (prose, headers,
// disclaimers) is dropped. Line order is preserved. An entirely non-numeric
// page yields an empty string, which downstream treats as "no transactions
// on this page".
func Normalize(page string) string {
	lines := strings.Split(page, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.ContainsFunc(line, unicode.IsDigit) {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
