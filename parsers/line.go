package parsers

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode"
)

var (
	// ErrUnparsableLine is returned for lines with more leading tokens than an owner and a ttl
	ErrUnparsableLine = errors.New("could not parse line")
	ErrBadTTL         = errors.New("cannot parse ttl")
)

// KnownTypes are the record types the line parser recognizes
// nolint:gochecknoglobals
var KnownTypes = map[string]bool{
	"A":      true,
	"AAAA":   true,
	"NS":     true,
	"CNAME":  true,
	"DKIM":   true,
	"DS":     true,
	"MX":     true,
	"SSHFP":  true,
	"TXT":    true,
	"SOA":    true,
	"DNSKEY": true,
	"PTR":    true,
	"SRV":    true,
}

// nolint:gochecknoglobals
var ttlUnits = map[byte]time.Duration{
	'M': time.Minute,
	'H': time.Hour,
	'D': 24 * time.Hour,
	'W': 7 * 24 * time.Hour,
}

// ParsedLine is a single record line split in its parts.
// Owner and TTL are empty when the line has none. TTL is kept as written.
type ParsedLine struct {
	Owner string
	TTL   string
	Type  string
	RData string
}

func (p ParsedLine) String() string {
	return strings.Join(strings.Fields(fmt.Sprintf("%s %s IN %s %s", p.Owner, p.TTL, p.Type, p.RData)), " ")
}

// IsTTL reports whether a token looks like a ttl
func IsTTL(st string) bool {
	if len(st) == 0 || st[0] < '0' || st[0] > '9' || st[len(st)-1] == '.' || strings.Contains(st, "arpa") {
		return false
	}

	_, err := ParseTTL(st)

	return err == nil
}

// ParseTTL parses a ttl literal like 300, 15M, 2h, 1D or 2W
func ParseTTL(st string) (time.Duration, error) {
	if len(st) == 0 {
		return 0, fmt.Errorf("%w: empty value", ErrBadTTL)
	}

	digits := st
	unit := time.Second

	last := st[len(st)-1]
	if last < '0' || last > '9' {
		u, ok := ttlUnits[byte(unicode.ToUpper(rune(last)))]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrBadTTL, st)
		}

		digits = st[:len(st)-1]
		unit = u
	}

	n, err := strconv.ParseUint(digits, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadTTL, st)
	}

	return time.Duration(n) * unit, nil
}

// ParseLine splits a logical line.
//
// It returns nil for lines that carry no known record: empty lines, RRSIG/NSEC lines and
// lines without a known type.
func ParseLine(line string) (*ParsedLine, error) {
	line = CleanupLine(line)
	if len(line) == 0 {
		return nil, nil
	}

	items := strings.Fields(line)

	if items[0] == "RRSIG" || items[0] == "NSEC" {
		return nil, nil
	}

	typeIdx := -1

	for i, item := range items {
		if KnownTypes[item] {
			typeIdx = i

			break
		}
	}

	if typeIdx < 0 {
		return nil, nil
	}

	res := &ParsedLine{
		Type: items[typeIdx],
		// re-split to keep the spacing of the data
		RData: fieldsRemainder(line, typeIdx+1),
	}

	ttlSet := false
	ownerSet := false

	for _, item := range items[:typeIdx] {
		switch {
		case item == "IN":
			continue
		case !ttlSet && IsTTL(item):
			res.TTL = item
			ttlSet = true
		case !ownerSet:
			res.Owner = item
			ownerSet = true
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnparsableLine, line)
		}
	}

	return res, nil
}

// ParsedLines parses each logical line of `r`, skipping the ones that carry no record.
func ParsedLines(r io.Reader, mergeQuotes bool) SeriesParser[*ParsedLine] {
	return SkipValues(TryAdapt(LogicalLines(r, mergeQuotes), ParseLine), func(p *ParsedLine) bool {
		return p == nil
	})
}

// fieldsRemainder returns s without its first n whitespace separated fields
func fieldsRemainder(s string, n int) string {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	for ; n > 0; n-- {
		idx := strings.IndexFunc(s, unicode.IsSpace)
		if idx < 0 {
			return ""
		}

		s = strings.TrimLeftFunc(s[idx:], unicode.IsSpace)
	}

	return s
}
