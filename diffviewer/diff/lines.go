package diff

import "strings"

// SplitLines splits text into lines. Both "\n" and "\r\n" terminate a line, a lone "\r" does not.
//
// An empty text has no lines at all. Otherwise, a trailing line terminator yields a trailing empty
// line, i.e. "a\n" is split into "a" and "".
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	// Only strip "\r" from lines that were terminated by "\n", the last one never was.
	for i := range len(lines) - 1 {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}
	return lines
}
