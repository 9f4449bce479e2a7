package util

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hako/durafmt"
)

var ErrZeroDuration = errors.New("duration can't be 0")

// nolint:gochecknoglobals
var zoneUnits = []struct {
	d      time.Duration
	suffix string
}{
	{7 * 24 * time.Hour, "W"},
	{24 * time.Hour, "D"},
	{time.Hour, "H"},
	{time.Minute, "M"},
	{time.Second, ""},
}

// ZoneDuration formats d as a zone file ttl literal using the largest unit
// that divides it exactly, e.g. 1D, 15M, 90.
func ZoneDuration(d time.Duration) (string, error) {
	d = d.Truncate(time.Second)

	if d <= 0 {
		return "", fmt.Errorf("%w: %s", ErrZeroDuration, d)
	}

	for _, u := range zoneUnits {
		if d%u.d == 0 {
			return fmt.Sprintf("%d%s", d/u.d, u.suffix), nil
		}
	}

	// unreachable, d is a whole number of seconds
	return fmt.Sprintf("%d", d/time.Second), nil
}

// HumanDuration returns a readable form of d, e.g. "4 weeks, 2 days"
func HumanDuration(d time.Duration) string {
	words := strings.Fields(durafmt.Parse(d.Truncate(time.Second)).String())

	pairs := make([]string, 0, len(words)/2) // nolint:gomnd

	for i := 0; i+1 < len(words); i += 2 {
		pairs = append(pairs, words[i]+" "+words[i+1])
	}

	return strings.Join(pairs, ", ")
}
