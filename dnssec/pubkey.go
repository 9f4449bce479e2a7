package dnssec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/0xERR0R/zonegen/parsers"
)

var (
	ErrNotDNSKEY     = errors.New("not a DNSKEY line")
	ErrMissingOwner  = errors.New("DNSKEY line has no owner")
	ErrBadDNSKEYData = errors.New("cannot parse DNSKEY data")
)

// PubKey is a parsed DNSKEY line along with its derived values
type PubKey struct {
	Zone         string
	Flags        uint16
	Protocol     uint8
	Algorithm    uint8
	KeyPub       string
	KeyID        uint16
	KSK          bool
	DigestSHA1   string
	DigestSHA256 string
}

// ParsePubKeyLine parses the DNSKEY line of a .key file or of a zone.
// The owner is the zone the key belongs to and is stored without the trailing dot.
func ParsePubKeyLine(line parsers.ParsedLine) (*PubKey, error) {
	if line.Type != "DNSKEY" {
		return nil, fmt.Errorf("%w: %s", ErrNotDNSKEY, line)
	}

	if len(line.Owner) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingOwner, line)
	}

	parts := strings.SplitN(line.RData, " ", 4) // nolint:gomnd
	if len(parts) != 4 {                        // nolint:gomnd
		return nil, fmt.Errorf("%w: %s", ErrBadDNSKEYData, line.RData)
	}

	flags, err := strconv.ParseUint(parts[0], 10, 16)
	if err != nil {
		return nil, fmt.Errorf("%w: bad flags %q", ErrBadDNSKEYData, parts[0])
	}

	protocol, err := strconv.ParseUint(parts[1], 10, 8)
	if err != nil {
		return nil, fmt.Errorf("%w: bad protocol %q", ErrBadDNSKEYData, parts[1])
	}

	if protocol != Protocol {
		return nil, fmt.Errorf("%w: %d", ErrBadProtocol, protocol)
	}

	algorithm, err := ParseAlgorithm(parts[2])
	if err != nil {
		return nil, err
	}

	res := &PubKey{
		Zone:      strings.TrimSuffix(line.Owner, "."),
		Flags:     uint16(flags),
		Protocol:  uint8(protocol),
		Algorithm: algorithm,
		KeyPub:    strings.TrimSpace(parts[3]),
		KSK:       IsKSK(uint16(flags)),
	}

	res.KeyID, err = KeyTag(res.Flags, res.Protocol, res.Algorithm, res.KeyPub)
	if err != nil {
		return nil, err
	}

	digests, err := DSDigests(res.Zone, res.Flags, res.Protocol, res.Algorithm, res.KeyPub)
	if err != nil {
		return nil, err
	}

	res.DigestSHA1 = digests.SHA1
	res.DigestSHA256 = digests.SHA256

	return res, nil
}
