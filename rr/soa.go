package rr

import (
	"fmt"
	"strings"
	"time"

	"github.com/0xERR0R/zonegen/util"

	"github.com/creasty/defaults"
)

const (
	soaIndent     = "\t\t\t\t\t"
	soaValueWidth = 16
)

// SOA is the start of authority of a zone
type SOA struct {
	Name    string        `validate:"required"`
	TTL     time.Duration `default:"24h" validate:"gt=0"`
	Refresh time.Duration `default:"24h" validate:"gt=0"`
	Retry   time.Duration `default:"1h" validate:"gt=0"`
	Expire  time.Duration `default:"2160h" validate:"gt=0"`
	Minimum time.Duration `default:"1m" validate:"gt=0"`
	Contact string        `validate:"required"`
	Serial  uint32        `default:"1"`
	NS0     string        `validate:"required"`
}

// NewSOA returns the SOA of name with the default timers
func NewSOA(name string) *SOA {
	res := &SOA{Name: name}
	defaults.MustSet(res)

	return res
}

// Render writes the $ORIGIN and $TTL directives followed by the SOA record and an empty line
func (s *SOA) Render() (string, error) {
	if err := validate.Struct(s); err != nil {
		return "", fmt.Errorf("bad SOA of %q: %w", s.Name, err)
	}

	ttl, err := util.ZoneDuration(s.TTL)
	if err != nil {
		return "", err
	}

	ttl2 := util.Tabify(ttl, ttlWidth)

	var sb strings.Builder

	fmt.Fprintf(&sb, "$ORIGIN\t\t\t%s.\n", strings.TrimSuffix(s.Name, "."))
	fmt.Fprintf(&sb, "$TTL\t\t\t%s; %s\n", ttl2, util.HumanDuration(s.TTL))
	fmt.Fprintf(&sb, "@\t\t\t%sIN\tSOA\t%s. %s. (\n", ttl2,
		strings.TrimSuffix(s.NS0, "."), strings.TrimSuffix(s.Contact, "."))
	fmt.Fprintf(&sb, "%s%s ; serial\n", soaIndent, util.Tabify(fmt.Sprint(s.Serial), soaValueWidth))

	for _, timer := range []struct {
		name string
		d    time.Duration
	}{
		{"refresh", s.Refresh},
		{"retry", s.Retry},
		{"expire", s.Expire},
		{"minimum", s.Minimum},
	} {
		lit, err := util.ZoneDuration(timer.d)
		if err != nil {
			return "", fmt.Errorf("bad SOA %s: %w", timer.name, err)
		}

		fmt.Fprintf(&sb, "%s%s ; %s (%s)\n", soaIndent, util.Tabify(lit, soaValueWidth), timer.name,
			util.HumanDuration(timer.d))
	}

	sb.WriteString(soaIndent + ")\n\n")

	return sb.String(), nil
}
