package util

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/miekg/dns"
)

const (
	IPv4PtrSuffix = ".in-addr.arpa."
	IPv6PtrSuffix = ".ip6.arpa."

	byteBits   = 8
	nibbleBits = byteBits / 2

	ipv4Labels = net.IPv4len
	ipv6Labels = 2 * net.IPv6len
)

var (
	ErrInvalidArpaAddrLen = errors.New("arpa hostname is not of expected length")
	ErrBadNetwork         = errors.New("bad network")
)

// ReverseName returns the reverse zone name of a network in CIDR notation,
// e.g. "10.0.0.0/24" -> "0.0.10.in-addr.arpa".
// The network must not have host bits set and its prefix must be a multiple of
// 8 bits (IPv4) or 4 bits (IPv6).
func ReverseName(network string) (string, error) {
	ip, ipnet, err := net.ParseCIDR(network)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrBadNetwork, network)
	}

	if !ip.Equal(ipnet.IP) {
		return "", fmt.Errorf("%w: %s has host bits set", ErrBadNetwork, network)
	}

	return ReverseNetName(ipnet)
}

// ReverseNetName is ReverseName for an already parsed network
func ReverseNetName(ipnet *net.IPNet) (string, error) {
	ones, bits := ipnet.Mask.Size()

	unit, labels := byteBits, ipv4Labels
	if bits == 8*net.IPv6len {
		unit, labels = nibbleBits, ipv6Labels
	}

	if ones%unit != 0 {
		return "", fmt.Errorf("%w: prefix of %s is not a multiple of %d", ErrBadNetwork, ipnet, unit)
	}

	rev, err := dns.ReverseAddr(ipnet.IP.String())
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrBadNetwork, ipnet)
	}

	parts := strings.Split(strings.TrimSuffix(rev, "."), ".")

	return strings.Join(parts[labels-ones/unit:], "."), nil
}

// ReversePointer returns the full reverse pointer name of ip, without the trailing dot
func ReversePointer(ip net.IP) string {
	rev, err := dns.ReverseAddr(ip.String())
	if err != nil {
		return ""
	}

	return strings.TrimSuffix(rev, ".")
}

// NetworkFromReverseName is the inverse of ReverseName
func NetworkFromReverseName(name string) (*net.IPNet, error) {
	name = dns.Fqdn(strings.ToLower(name))

	var (
		suffix string
		labels int
		unit   int
	)

	switch {
	case strings.HasSuffix("."+name, IPv4PtrSuffix):
		suffix, labels, unit = IPv4PtrSuffix, ipv4Labels, byteBits
	case strings.HasSuffix("."+name, IPv6PtrSuffix):
		suffix, labels, unit = IPv6PtrSuffix, ipv6Labels, nibbleBits
	default:
		return nil, fmt.Errorf("%w: %s is not a reverse zone", ErrBadNetwork, name)
	}

	var present []string
	if rest := strings.TrimSuffix("."+name, suffix); rest != "" {
		present = strings.Split(strings.TrimPrefix(rest, "."), ".")
	}

	if len(present) > labels {
		return nil, ErrInvalidArpaAddrLen
	}

	padded := make([]string, 0, labels)
	for i := len(present); i < labels; i++ {
		padded = append(padded, "0")
	}

	padded = append(padded, present...)

	ip, err := ParseIPFromArpaAddr(strings.Join(padded, ".") + suffix)
	if err != nil {
		return nil, err
	}

	if unit == byteBits {
		ip = ip.To4()
	}

	return &net.IPNet{IP: ip, Mask: net.CIDRMask(len(present)*unit, labels*unit)}, nil
}

func ParseIPFromArpaAddr(arpa string) (net.IP, error) {
	if strings.HasSuffix(arpa, IPv4PtrSuffix) {
		return parseIPv4FromArpaAddr(arpa)
	}

	if strings.HasSuffix(arpa, IPv6PtrSuffix) {
		return parseIPv6FromArpaAddr(arpa)
	}

	return nil, fmt.Errorf("invalid arpa hostname: %s", arpa)
}

func parseIPv4FromArpaAddr(arpa string) (net.IP, error) {
	const base10 = 10

	revAddr := strings.TrimSuffix(arpa, IPv4PtrSuffix)

	parts := strings.Split(revAddr, ".")
	if len(parts) != ipv4Labels {
		return nil, ErrInvalidArpaAddrLen
	}

	buf := make([]byte, 0, net.IPv4len)

	// Parse and add each byte, in reverse, to the buffer
	for i := len(parts) - 1; i >= 0; i-- {
		part, err := strconv.ParseUint(parts[i], base10, byteBits)
		if err != nil {
			return nil, err
		}

		buf = append(buf, byte(part))
	}

	return net.IPv4(buf[0], buf[1], buf[2], buf[3]), nil
}

func parseIPv6FromArpaAddr(arpa string) (net.IP, error) {
	const base16 = 16

	revAddr := strings.TrimSuffix(arpa, IPv6PtrSuffix)

	parts := strings.Split(revAddr, ".")
	if len(parts) != ipv6Labels {
		return nil, ErrInvalidArpaAddrLen
	}

	buf := make([]byte, 0, net.IPv6len)

	// Parse and add each byte, in reverse, to the buffer
	for i := len(parts) - 1; i >= 0; i -= 2 {
		msNibble, err := strconv.ParseUint(parts[i], base16, byteBits)
		if err != nil {
			return nil, err
		}

		lsNibble, err := strconv.ParseUint(parts[i-1], base16, byteBits)
		if err != nil {
			return nil, err
		}

		part := msNibble<<nibbleBits | lsNibble

		buf = append(buf, byte(part))
	}

	return net.IP(buf), nil
}
