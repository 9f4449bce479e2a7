package config

import (
	"time"

	"github.com/0xERR0R/zonegen/parsers"

	"github.com/hako/durafmt"
)

// Duration is a wrapper for time.Duration to support yaml unmarshalling.
// Zone file ttls like 1D or 2W are accepted next to Go durations.
type Duration time.Duration

// ToDuration converts Duration to time.Duration
func (c Duration) ToDuration() time.Duration {
	return time.Duration(c)
}

// IsZero returns true if duration is zero
func (c Duration) IsZero() bool {
	return c == 0
}

// String implements `fmt.Stringer`
func (c Duration) String() string {
	return durafmt.Parse(c.ToDuration()).String()
}

// UnmarshalText implements `encoding.TextUnmarshaler`.
func (c *Duration) UnmarshalText(data []byte) error {
	input := string(data)

	if ttl, err := parsers.ParseTTL(input); err == nil {
		*c = Duration(ttl)

		return nil
	}

	duration, err := time.ParseDuration(input)
	if err != nil {
		return err
	}

	*c = Duration(duration)

	return nil
}
