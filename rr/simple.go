package rr

import (
	"fmt"
	"strings"

	"github.com/0xERR0R/zonegen/util"
)

const domainKeyLabel = "_domainkey"

type MX struct {
	Base
	Priority uint16
	MX       string `validate:"required"`
}

func (m *MX) Type() string {
	return "MX"
}

func (m *MX) Records() ([]StringRecord, error) {
	return []StringRecord{{
		Text:     fmt.Sprintf("%-4d %s", m.Priority, m.MX),
		NeedsDot: dotsFor(m.MX),
	}}, nil
}

type NS struct {
	Base
	NS string `validate:"required"`
}

func (n *NS) Type() string {
	return "NS"
}

func (n *NS) Records() ([]StringRecord, error) {
	return []StringRecord{{Text: n.NS, NeedsDot: dotsFor(n.NS)}}, nil
}

// dotsFor forces a trailing dot for targets that look like fully qualified names
func dotsFor(target string) *bool {
	if strings.Count(target, ".") >= 2 { // nolint:gomnd
		return boolPtr(true)
	}

	return nil
}

// CNAME is an alias of Hostname to Target
type CNAME struct {
	Base
	Target string `validate:"required"`
}

func (c *CNAME) Type() string {
	return "CNAME"
}

func (c *CNAME) Records() ([]StringRecord, error) {
	return []StringRecord{{Text: c.Target, AutoDot: 2}}, nil // nolint:gomnd
}

// AssociatedHostname is the target, so that aliases are listed next to the host they point to
func (c *CNAME) AssociatedHostname() string {
	return c.Target
}

// SortKey places aliases of DKIM keys last
func (c *CNAME) SortKey() string {
	if strings.HasSuffix(c.Hostname, domainKeyLabel) {
		return "zzzz_" + c.Hostname
	}

	return c.Hostname
}

const spfPrefix = "_spf."

type TXT struct {
	Base
	TXT string
}

func (t *TXT) Type() string {
	return "TXT"
}

// Records splits payloads longer than 255 bytes into several quoted strings
func (t *TXT) Records() ([]StringRecord, error) {
	chunks := util.SplitTXTMultiline(t.TXT)
	if len(chunks) == 1 {
		return []StringRecord{{Text: chunks[0]}}, nil
	}

	return []StringRecord{{Multiline: chunks}}, nil
}

// AssociatedHostname groups _spf.<host> records under <host>
func (t *TXT) AssociatedHostname() string {
	return strings.TrimPrefix(t.Hostname, spfPrefix)
}

func (t *TXT) SortKey() string {
	if strings.HasPrefix(t.Hostname, spfPrefix) {
		return strings.TrimPrefix(t.Hostname, spfPrefix) + "_zzzz"
	}

	return t.Hostname
}

type SSHFP struct {
	Base
	KeyType     uint8
	HashType    uint8
	Fingerprint string `validate:"required"`
}

func (s *SSHFP) Type() string {
	return "SSHFP"
}

func (s *SSHFP) Records() ([]StringRecord, error) {
	return []StringRecord{{Text: fmt.Sprintf("%d %d %s", s.KeyType, s.HashType, s.Fingerprint)}}, nil
}
