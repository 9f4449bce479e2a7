package parsers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/0xERR0R/zonegen/util"
)

var (
	ErrNestedParentheses    = errors.New(`found "(" while already in parentheses`)
	ErrUnmatchedParenthesis = errors.New(`found ")" without "("`)
	ErrOpenParentheses      = errors.New("input ended with open parentheses")
	ErrOpenQuotes           = util.ErrOpenQuotes
)

// CleanupLine strips a `;` comment, unless it is quoted, and surrounding whitespace.
func CleanupLine(line string) string {
	if strings.IndexByte(line, ';') >= 0 {
		inQuotes := false

	scan:
		for i := 0; i < len(line); i++ {
			switch line[i] {
			case '"':
				inQuotes = !inQuotes
			case ';':
				if !inQuotes {
					line = line[:i]

					break scan
				}
			}
		}
	}

	return strings.TrimSpace(line)
}

// LineEndsInParentheses reports whether a parenthesis is still open at the end of `line`.
//
// `inParentheses` is the state before the line. `line` must be free of comments.
func LineEndsInParentheses(line string, inParentheses bool) (bool, error) {
	inQuotes := false

	for i := 0; i < len(line); i++ {
		c := line[i]

		if c == '"' {
			inQuotes = !inQuotes

			continue
		}

		if inQuotes {
			continue
		}

		switch {
		case c == '(' && inParentheses:
			return false, fmt.Errorf("%w: %s", ErrNestedParentheses, line)
		case c == '(':
			inParentheses = true
		case c == ')' && !inParentheses:
			return false, fmt.Errorf("%w: %s", ErrUnmatchedParenthesis, line)
		case c == ')':
			inParentheses = false
		}
	}

	if inQuotes {
		return false, fmt.Errorf("%w: %s", ErrOpenQuotes, line)
	}

	return inParentheses, nil
}

// MergeMultiline joins the physical lines of a parenthesized record to a single line.
//
// Parentheses are removed and whitespace outside quotes is collapsed. Quotes can't span lines.
// With `mergeQuotes`, adjacent quoted strings are joined.
func MergeMultiline(lines []string, mergeQuotes bool) (string, error) {
	cleaned := make([]string, 0, len(lines))

	for _, l := range lines {
		cleaned = append(cleaned, util.CompactSpaces(CleanupLine(l)))
	}

	joined := strings.Join(cleaned, "\n")

	var sb strings.Builder

	inQuotes := false
	inParentheses := false

	for i := 0; i < len(joined); i++ {
		c := joined[i]

		switch {
		case c == '\n':
			if inQuotes {
				return "", fmt.Errorf("%w: %s", ErrOpenQuotes, joined)
			}

			sb.WriteByte(' ')
		case c == '"':
			inQuotes = !inQuotes

			sb.WriteByte(c)
		case inQuotes:
			sb.WriteByte(c)
		case c == '(':
			if inParentheses {
				return "", fmt.Errorf("%w: %s", ErrNestedParentheses, joined)
			}

			inParentheses = true
		case c == ')':
			if !inParentheses {
				return "", fmt.Errorf("%w: %s", ErrUnmatchedParenthesis, joined)
			}

			inParentheses = false
		case c == '\r':
			sb.WriteByte(' ')
		default:
			sb.WriteByte(c)
		}
	}

	if mergeQuotes {
		return util.MergeQuotes(sb.String())
	}

	return util.CompactSpaces(sb.String()), nil
}
