package parsers

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
)

// maxLineSize bounds a single physical line; long DKIM keys are written unwrapped
const maxLineSize = 1024 * 1024

// Lines splits `r` into a series of lines.
//
// Comments are stripped, and lines that end up empty are skipped.
func Lines(r io.Reader) SeriesParser[string] {
	return newLines(r)
}

// LogicalLines merges the lines of `r` that are continued with parentheses.
//
// The position is the one of the first physical line of the current logical line.
func LogicalLines(r io.Reader, mergeQuotes bool) SeriesParser[string] {
	return &logicalLines{
		inner:       newLines(r),
		mergeQuotes: mergeQuotes,
	}
}

type lines struct {
	scanner *bufio.Scanner
	lineNo  uint
}

func newLines(r io.Reader) *lines {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineSize)
	scanner.Split(bufio.ScanLines)

	return &lines{scanner: scanner}
}

func (l *lines) Position() string {
	return fmt.Sprintf("line %d", l.lineNo)
}

func (l *lines) Next(ctx context.Context) (string, error) {
	for {
		l.lineNo++

		if err := ctx.Err(); err != nil {
			return "", NewNonResumableError(err)
		}

		if !l.scanner.Scan() {
			break
		}

		text := CleanupLine(l.scanner.Text())

		if len(text) == 0 {
			continue // empty or commented line
		}

		return text, nil
	}

	err := l.scanner.Err()
	if err != nil {
		// bufio.Scanner does not support continuing after an error
		return "", NewNonResumableError(err)
	}

	return "", NewNonResumableError(io.EOF)
}

type logicalLines struct {
	inner       *lines
	mergeQuotes bool
	first       uint
}

func (l *logicalLines) Position() string {
	return fmt.Sprintf("line %d", l.first)
}

func (l *logicalLines) Next(ctx context.Context) (string, error) {
	var buf []string

	inParentheses := false

	for {
		line, err := l.inner.Next(ctx)
		if err != nil {
			if len(buf) > 0 && errors.Is(err, io.EOF) {
				return "", NewNonResumableError(ErrOpenParentheses)
			}

			if len(buf) == 0 {
				l.first = l.inner.lineNo
			}

			return "", err
		}

		if len(buf) == 0 {
			l.first = l.inner.lineNo
		}

		buf = append(buf, line)

		inParentheses, err = LineEndsInParentheses(line, inParentheses)
		if err != nil {
			return "", NewNonResumableError(err)
		}

		if inParentheses {
			continue
		}

		merged, err := MergeMultiline(buf, l.mergeQuotes)
		if err != nil {
			return "", NewNonResumableError(err)
		}

		return merged, nil
	}
}
