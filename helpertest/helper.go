package helpertest

import (
	"fmt"
	"os"
	"strings"

	"github.com/0xERR0R/zonegen/log"

	"github.com/onsi/gomega"
	"github.com/onsi/gomega/types"
)

// TempFile creates temp file with passed data
func TempFile(data string) *os.File {
	f, err := os.CreateTemp("", "zonegen")
	if err != nil {
		log.Log().Fatal(err)
	}

	_, err = f.WriteString(data)
	if err != nil {
		log.Log().Fatal(err)
	}

	return f
}

// CompactLine collapses every whitespace run of a rendered line to a single space
func CompactLine(line string) string {
	return strings.Join(strings.Fields(line), " ")
}

// CompactLines splits zone text in lines and compacts each of them
func CompactLines(zone string) []string {
	lines := strings.Split(zone, "\n")
	res := make([]string, 0, len(lines))

	for _, l := range lines {
		res = append(res, CompactLine(l))
	}

	return res
}

func toZoneLines(actual interface{}) ([]string, error) {
	switch v := actual.(type) {
	case string:
		return CompactLines(v), nil
	case []string:
		return CompactLines(strings.Join(v, "\n")), nil
	case fmt.Stringer:
		return CompactLines(v.String()), nil
	default:
		return nil, fmt.Errorf("not supported type %T", actual)
	}
}

// HaveZoneLine succeeds if the zone text contains line, ignoring whitespace differences
func HaveZoneLine(line string) types.GomegaMatcher {
	return &zoneLineMatcher{lines: []string{CompactLine(line)}}
}

// HaveZoneLines succeeds if the zone text contains all lines consecutively and in order,
// ignoring whitespace differences
func HaveZoneLines(lines ...string) types.GomegaMatcher {
	expected := make([]string, 0, len(lines))

	for _, l := range lines {
		expected = append(expected, CompactLine(l))
	}

	return &zoneLineMatcher{lines: expected}
}

type zoneLineMatcher struct {
	lines []string
}

// Match checks the zone text
func (matcher *zoneLineMatcher) Match(actual interface{}) (success bool, err error) {
	got, err := toZoneLines(actual)
	if err != nil {
		return false, err
	}

	for i := 0; i+len(matcher.lines) <= len(got); i++ {
		found := true

		for j, l := range matcher.lines {
			if got[i+j] != l {
				found = false

				break
			}
		}

		if found {
			return true, nil
		}
	}

	return false, nil
}

// FailureMessage generates a failure message
func (matcher *zoneLineMatcher) FailureMessage(actual interface{}) (message string) {
	return fmt.Sprintf("Expected\n%s\nto contain the lines\n\t%s", actual, strings.Join(matcher.lines, "\n\t"))
}

// NegatedFailureMessage creates negated message
func (matcher *zoneLineMatcher) NegatedFailureMessage(actual interface{}) (message string) {
	return fmt.Sprintf("Expected\n%s\nnot to contain the lines\n\t%s", actual, strings.Join(matcher.lines, "\n\t"))
}

// ComeBefore succeeds if the line containing first appears before the line containing second
func ComeBefore(first, second string) types.GomegaMatcher {
	return gomega.WithTransform(func(actual interface{}) (bool, error) {
		lines, err := toZoneLines(actual)
		if err != nil {
			return false, err
		}

		firstIdx, secondIdx := -1, -1

		for i, l := range lines {
			if firstIdx < 0 && strings.Contains(l, first) {
				firstIdx = i
			}

			if secondIdx < 0 && strings.Contains(l, second) {
				secondIdx = i
			}
		}

		return firstIdx >= 0 && secondIdx >= 0 && firstIdx < secondIdx, nil
	}, gomega.BeTrue())
}

// HaveMode checks the permission bits of a file
func HaveMode(mode os.FileMode) types.GomegaMatcher {
	return gomega.WithTransform(func(path string) (os.FileMode, error) {
		st, err := os.Stat(path)
		if err != nil {
			return 0, err
		}

		return st.Mode().Perm(), nil
	}, gomega.Equal(mode))
}
