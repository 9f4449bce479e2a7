package rr

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/0xERR0R/zonegen/dnssec"
	"github.com/0xERR0R/zonegen/parsers"
)

var (
	ErrUnsupportedType = errors.New("unsupported record type")
	ErrBadData         = errors.New("bad record data")
	ErrMissingOwner    = errors.New("record needs an owner")
	ErrUnexpectedOwner = errors.New("record must be at the apex")
)

// FromParsedLine builds the record of a parsed zone file line.
//
// The owner must be relative to domain, empty for the apex. The ttl is taken as written, callers
// normalize it against the zone ttl.
func FromParsedLine(domain string, line *parsers.ParsedLine) (Record, error) {
	var ttl time.Duration

	if len(line.TTL) > 0 {
		var err error

		ttl, err = parsers.ParseTTL(line.TTL)
		if err != nil {
			return nil, err
		}
	}

	rec, err := fromParsedLine(domain, line)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, line)
	}

	rec.Header().TTL = ttl

	return rec, nil
}

// nolint:cyclop
func fromParsedLine(domain string, line *parsers.ParsedLine) (Record, error) {
	base := Base{Domain: domain, Hostname: line.Owner}

	switch line.Type {
	case "A", "AAAA":
		ip := net.ParseIP(line.RData)
		if ip == nil {
			return nil, fmt.Errorf("%w: bad address %q", ErrBadData, line.RData)
		}

		if (ip.To4() != nil) != (line.Type == "A") {
			return nil, fmt.Errorf("%w: address doesn't match the record type", ErrBadData)
		}

		return &Host{Base: base, IP: ip}, nil

	case "CNAME":
		return &CNAME{Base: base, Target: line.RData}, nil

	case "NS":
		return &NS{Base: base, NS: line.RData}, nil

	case "MX":
		prio, mx, _ := strings.Cut(line.RData, " ")

		n, err := strconv.ParseUint(prio, 10, 16)
		if err != nil || len(mx) == 0 {
			return nil, fmt.Errorf("%w: bad MX data", ErrBadData)
		}

		return &MX{Base: base, Priority: uint16(n), MX: strings.TrimSpace(mx)}, nil

	case "TXT", "DKIM":
		if IsDKIMOwner(line.Owner) {
			return ParseDKIM(domain, line.Owner, line.RData)
		}

		if line.Type == "DKIM" {
			return nil, fmt.Errorf("%w: not a DKIM owner", ErrBadDKIM)
		}

		return &TXT{Base: base, TXT: unquote(line.RData)}, nil

	case "SSHFP":
		return parseSSHFP(base, line.RData)

	case "SRV":
		return ParseSRV(domain, line.Owner, line.RData)

	case "DS":
		return parseDS(base, line.RData)

	case "DNSKEY":
		return parseDNSKEY(base, line)
	}

	return nil, fmt.Errorf("%w %s", ErrUnsupportedType, line.Type)
}

func parseSSHFP(base Base, data string) (Record, error) {
	fields := strings.SplitN(data, " ", 3) // nolint:gomnd
	if len(fields) != 3 {                  // nolint:gomnd
		return nil, fmt.Errorf("%w: bad SSHFP data", ErrBadData)
	}

	keyType, err := strconv.ParseUint(fields[0], 10, 8)
	if err != nil {
		return nil, fmt.Errorf("%w: bad SSHFP key type", ErrBadData)
	}

	hashType, err := strconv.ParseUint(fields[1], 10, 8)
	if err != nil {
		return nil, fmt.Errorf("%w: bad SSHFP hash type", ErrBadData)
	}

	return &SSHFP{Base: base, KeyType: uint8(keyType), HashType: uint8(hashType), Fingerprint: fields[2]}, nil
}

func parseDS(base Base, data string) (Record, error) {
	if len(base.Hostname) == 0 {
		return nil, ErrMissingOwner
	}

	fields := strings.Fields(data)
	if len(fields) != 4 { // nolint:gomnd
		return nil, fmt.Errorf("%w: bad DS data", ErrBadData)
	}

	keyID, err := strconv.ParseUint(fields[0], 10, 16)
	if err != nil {
		return nil, fmt.Errorf("%w: bad DS key tag", ErrBadData)
	}

	alg, err := dnssec.ParseAlgorithm(fields[1])
	if err != nil {
		return nil, err
	}

	res := &DS{DNSSEC{
		Base: base,
		Key:  dnssec.Key{KeyID: uint16(keyID), KSK: true, Algorithm: alg},
	}}

	switch fields[2] {
	case strconv.Itoa(dnssec.DigestSHA1):
		res.DigestSHA1 = fields[3]
	case strconv.Itoa(dnssec.DigestSHA256):
		res.DigestSHA256 = fields[3]
	default:
		return nil, fmt.Errorf("%w: cannot handle digest type %q", ErrBadData, fields[2])
	}

	return res, nil
}

func parseDNSKEY(base Base, line *parsers.ParsedLine) (Record, error) {
	if len(base.Hostname) > 0 {
		return nil, ErrUnexpectedOwner
	}

	pub, err := dnssec.ParsePubKeyLine(parsers.ParsedLine{Owner: base.Domain, Type: line.Type, RData: line.RData})
	if err != nil {
		return nil, err
	}

	return &DNSKEY{DNSSEC{
		Base: base,
		Key: dnssec.Key{
			Zone:         pub.Zone,
			KeyID:        pub.KeyID,
			KSK:          pub.KSK,
			Algorithm:    pub.Algorithm,
			DigestSHA1:   pub.DigestSHA1,
			DigestSHA256: pub.DigestSHA256,
			KeyPub:       pub.KeyPub,
		},
	}}, nil
}
