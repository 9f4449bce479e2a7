package util

import (
	"errors"
	"fmt"
	"strings"
)

const (
	tabWidth = 8

	// TXTChunkSize is the maximum length of a single character-string in a TXT record
	TXTChunkSize = 255
)

// ErrOpenQuotes is returned when a string ends while a quote is still open
var ErrOpenQuotes = errors.New("string ended with open quotes")

// Chunks splits the string in chunks of at most chunkSize bytes
func Chunks(s string, chunkSize int) []string {
	if chunkSize >= len(s) {
		return []string{s}
	}

	chunks := make([]string, 0, len(s)/chunkSize+1)

	for len(s) > chunkSize {
		chunks = append(chunks, s[:chunkSize])
		s = s[chunkSize:]
	}

	return append(chunks, s)
}

// Tabify pads st with tabs up to width (a multiple of 8).
// At least one tab is always appended.
func Tabify(st string, width int) string {
	if len(st) >= width {
		return st + "\t"
	}

	padding := width - len(st)
	tabs := (padding + tabWidth - 1) / tabWidth

	return st + strings.Repeat("\t", tabs)
}

// ExpandedLen returns the length of st with tabs expanded to 8 column stops
func ExpandedLen(st string) int {
	col := 0

	for _, c := range st {
		switch c {
		case '\t':
			col += tabWidth - col%tabWidth
		case '\n', '\r':
			col = 0
		default:
			col++
		}
	}

	return col
}

// CompactSpaces collapses every whitespace run outside quotes to a single space
// and trims the result
func CompactSpaces(st string) string {
	st = strings.TrimSpace(st)

	var sb strings.Builder

	inQuotes := false
	addedSpace := false

	for _, c := range st {
		switch {
		case c == '"':
			inQuotes = !inQuotes
			addedSpace = false

			sb.WriteRune(c)
		case inQuotes:
			sb.WriteRune(c)
		case c == '\t' || c == '\n' || c == '\r' || c == ' ':
			if !addedSpace {
				sb.WriteByte(' ')

				addedSpace = true
			}
		default:
			addedSpace = false

			sb.WriteRune(c)
		}
	}

	return sb.String()
}

// MergeQuotes compacts st and joins adjacent quoted strings: `"a" "b"` becomes `"ab"`
func MergeQuotes(st string) (string, error) {
	st = CompactSpaces(st)

	var ret []byte

	inQuotes := false

	for i := 0; i < len(st); i++ {
		c := st[i]

		if c == '"' {
			if !inQuotes && len(ret) >= 2 && string(ret[len(ret)-2:]) == `" ` {
				ret = ret[:len(ret)-2]
			} else {
				ret = append(ret, c)
			}

			inQuotes = !inQuotes

			continue
		}

		ret = append(ret, c)
	}

	if inQuotes {
		return "", fmt.Errorf("%w: %s", ErrOpenQuotes, st)
	}

	return string(ret), nil
}

// SplitTXTMultiline quotes data in chunks of at most 255 bytes
func SplitTXTMultiline(data string) []string {
	return ConvertEach(Chunks(data, TXTChunkSize), func(chunk string) string {
		return `"` + chunk + `"`
	})
}

// SplitTXT is SplitTXTMultiline joined with spaces
func SplitTXT(data string) string {
	return strings.Join(SplitTXTMultiline(data), " ")
}
