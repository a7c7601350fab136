// Package snippet trims file contents to the size used in prompts.
package snippet

import (
	"strings"
	"unicode/utf8"
)

const (
	// MaxLines is the number of lines kept per file
	MaxLines = 300
	// MaxBytes is the UTF-8 byte size kept per file
	MaxBytes = 20 * 1024
)

// Snippet is the trimmed content of one file
type Snippet struct {
	Path    string
	Content string
}

// Truncate applies TruncateLines then TruncateBytes with the default limits
func Truncate(content string) string {
	return TruncateBytes(TruncateLines(content, MaxLines), MaxBytes)
}

// TruncateLines keeps the first n lines, as split by SplitLines, joined
// with "\n".
func TruncateLines(content string, n int) string {
	lines := SplitLines(content)
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}

// TruncateBytes cuts content to at most n bytes without leaving a partial
// UTF-8 sequence at the end.
func TruncateBytes(content string, n int) string {
	if len(content) <= n {
		return content
	}
	return strings.ToValidUTF8(content[:n], "")
}

// SplitLines splits on line terminators: "\n", "\r\n", "\r", "\v", "\f",
// the file, group and record separators (0x1c-0x1e), NEL, LS and PS.
// A final terminator does not start an empty line, so "a\nb\n" has two
// lines and "" has none.
func SplitLines(content string) []string {
	var lines []string
	start := 0
	for i, r := range content {
		if i < start {
			continue
		}
		switch r {
		case '\n', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
			lines = append(lines, content[start:i])
			start = i + utf8.RuneLen(r)
		case '\r':
			lines = append(lines, content[start:i])
			start = i + 1
			if start < len(content) && content[start] == '\n' {
				start++
			}
		}
	}
	if start < len(content) {
		lines = append(lines, content[start:])
	}
	return lines
}

// CountLines returns the number of lines SplitLines would produce
func CountLines(content string) int {
	return len(SplitLines(content))
}
