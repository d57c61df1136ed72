package convert

import "strings"

// SplitLines splits text on '\n', trims each line and drops the blank ones.
// Trimming also removes the '\r' left over from CRLF input.
func SplitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
