package sequence

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatMoveNumber returns a journal-scoped move number like "VTE/2025/0004".
func FormatMoveNumber(journalCode string, year, seq int) string {
	return fmt.Sprintf("%s/%04d/%04d", journalCode, year, seq)
}

// ParseMoveNumber parses "VTE/2025/0004" into journal code, year, seq.
func ParseMoveNumber(number string) (journalCode string, year, seq int, err error) {
	parts := strings.SplitN(number, "/", 3)
	if len(parts) != 3 {
		return "", 0, 0, fmt.Errorf("invalid move number format: %q", number)
	}

	journalCode = parts[0]
	if journalCode == "" {
		return "", 0, 0, fmt.Errorf("empty journal code in move number %q", number)
	}

	year, err = strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid year in move number %q: %w", number, err)
	}

	seq, err = strconv.Atoi(parts[2])
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid sequence in move number %q: %w", number, err)
	}

	return journalCode, year, seq, nil
}
