package dnssec

import (
	"crypto/sha1" // nolint:gosec
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/miekg/dns"
)

const (
	// Protocol is the only DNSKEY protocol value defined by RFC 4034
	Protocol = 3

	FlagsZSK = 256
	FlagsKSK = 257

	DigestSHA1   = 1
	DigestSHA256 = 2
)

var (
	ErrBadKey       = errors.New("cannot decode key material")
	ErrBadOwner     = errors.New("cannot encode owner name")
	ErrBadProtocol  = errors.New("cannot handle protocol")
	ErrBadAlgorithm = errors.New("unknown DNSSEC algorithm")
)

// Digests are the uppercase hex DS digests of a key
type Digests struct {
	SHA1   string
	SHA256 string
}

// keyRData returns the DNSKEY rdata in wire format: flags, protocol, algorithm and the key
func keyRData(flags uint16, protocol, algorithm uint8, key string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(key, " ", ""))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadKey, err)
	}

	buf := make([]byte, 4, 4+len(raw)) // nolint:gomnd
	binary.BigEndian.PutUint16(buf, flags)
	buf[2] = protocol
	buf[3] = algorithm

	return append(buf, raw...), nil
}

// KeyTag calculates the key tag of a DNSKEY as of RFC 4034, appendix B
func KeyTag(flags uint16, protocol, algorithm uint8, key string) (uint16, error) {
	rdata, err := keyRData(flags, protocol, algorithm, key)
	if err != nil {
		return 0, err
	}

	var acc uint32

	for i, b := range rdata {
		if i%2 == 0 {
			acc += uint32(b) << 8
		} else {
			acc += uint32(b)
		}
	}

	acc += acc >> 16

	return uint16(acc & 0xFFFF), nil
}

// DSDigests calculates the SHA-1 and SHA-256 DS digests of a DNSKEY owned by owner
func DSDigests(owner string, flags uint16, protocol, algorithm uint8, key string) (Digests, error) {
	rdata, err := keyRData(flags, protocol, algorithm, key)
	if err != nil {
		return Digests{}, err
	}

	name := make([]byte, 256) // nolint:gomnd

	n, err := dns.PackDomainName(dns.Fqdn(owner), name, 0, nil, false)
	if err != nil {
		return Digests{}, fmt.Errorf("%w %q: %v", ErrBadOwner, owner, err)
	}

	data := append(name[:n], rdata...)

	s1 := sha1.Sum(data) // nolint:gosec
	s256 := sha256.Sum256(data)

	return Digests{
		SHA1:   strings.ToUpper(fmt.Sprintf("%x", s1)),
		SHA256: strings.ToUpper(fmt.Sprintf("%x", s256)),
	}, nil
}

// AlgorithmName returns the mnemonic of a DNSSEC algorithm number, like RSASHA256
func AlgorithmName(algorithm uint8) (string, error) {
	name, ok := dns.AlgorithmToString[algorithm]
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrBadAlgorithm, algorithm)
	}

	return name, nil
}

// ParseAlgorithm accepts an algorithm number or mnemonic
func ParseAlgorithm(st string) (uint8, error) {
	if alg, ok := dns.StringToAlgorithm[strings.ToUpper(st)]; ok {
		return alg, nil
	}

	n, err := strconv.ParseUint(st, 10, 8)
	if err == nil {
		if _, ok := dns.AlgorithmToString[uint8(n)]; ok {
			return uint8(n), nil
		}
	}

	return 0, fmt.Errorf("%w: %s", ErrBadAlgorithm, st)
}

// IsKSK reports whether the DNSKEY flags designate a key signing key
func IsKSK(flags uint16) bool {
	return flags&0x03 == 0x01
}
