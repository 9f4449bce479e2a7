package rr

import (
	"strings"
	"time"

	"github.com/0xERR0R/zonegen/util"
)

const (
	nameWidth       = 24
	nameWidthNoTTL  = 32
	ttlWidth        = 8
	typeWidth       = 8
	continuationPad = 8
)

// FormatRecord lays out a single record entry in tab aligned columns.
//
// A zero ttl omits the ttl column and widens the name column instead. Multiline data is wrapped in
// parentheses and aligned under the data column. The result has no trailing newline.
func FormatRecord(name string, ttl time.Duration, rrType, data string, multiline []string, comment string) (string, error) {
	ttlCol := ""

	if ttl > 0 {
		lit, err := util.ZoneDuration(ttl)
		if err != nil {
			return "", err
		}

		ttlCol = util.Tabify(lit, ttlWidth)
		name = util.Tabify(name, nameWidth)
	} else {
		name = util.Tabify(name, nameWidthNoTTL)
	}

	rrType = util.Tabify(rrType, typeWidth)

	switch {
	case len(multiline) > 0:
		data = formatMultiline(name, ttlCol, rrType, data, multiline, comment)
	case len(comment) > 0:
		data += " ; " + comment
	}

	return name + ttlCol + "IN\t" + rrType + data, nil
}

func formatMultiline(name, ttlCol, rrType, data string, multiline []string, comment string) string {
	if len(multiline) == 1 {
		line := multiline[0]

		if len(data) > 0 {
			line = data + " " + line
		}

		if len(comment) > 0 {
			line += " ; " + comment
		}

		return line
	}

	width := util.ExpandedLen(name) + util.ExpandedLen(ttlCol) + util.ExpandedLen(rrType) + continuationPad
	prefix := "\n" + strings.Repeat("\t", width/continuationPad)

	lines := make([]string, 0, len(multiline)+2) // nolint:gomnd

	if len(data) > 0 {
		lines = append(lines, data+" (")
		lines = append(lines, multiline...)
	} else {
		lines = append(lines, "( "+multiline[0])
		lines = append(lines, multiline[1:]...)
		prefix += "  "
	}

	if len(comment) > 0 {
		lines = append(lines, ") ; "+comment)
	} else {
		lines[len(lines)-1] += " )"
	}

	return strings.Join(lines, prefix)
}
