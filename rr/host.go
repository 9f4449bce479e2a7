package rr

import (
	"encoding/hex"
	"fmt"
	"net"
	"strings"

	"github.com/0xERR0R/zonegen/util"
)

// Host is an A or AAAA record. Reverse marks hosts that also get a PTR record.
type Host struct {
	Base
	IP      net.IP `validate:"required"`
	Reverse bool
}

func (h *Host) Type() string {
	if h.IP.To4() != nil {
		return "A"
	}

	return "AAAA"
}

func (h *Host) Records() ([]StringRecord, error) {
	if len(h.IP) != net.IPv4len && len(h.IP) != net.IPv6len {
		return nil, badRecord(h, "unsupported IP address %v", h.IP)
	}

	return []StringRecord{{Text: h.IP.String()}}, nil
}

// SortKey orders by address, IPv4 addresses first
func (h *Host) SortKey() string {
	return hex.EncodeToString(asIPv6(h.IP))
}

func (h *Host) isV4() bool {
	return h.IP.To4() != nil
}

// asIPv6 maps IPv4 addresses to ::a.b.c.d. They sort before IPv6 addresses outside of ::/96
func asIPv6(ip net.IP) []byte {
	if v4 := ip.To4(); v4 != nil {
		res := make([]byte, net.IPv6len)
		copy(res[12:], v4)

		return res
	}

	return ip.To16()
}

// PTR is the reverse record of a Host in the reverse zone NetDomain
type PTR struct {
	Host
	NetDomain string `validate:"required"`
}

// NewPTR creates the PTR record of host inside the reverse zone netDomain
func NewPTR(host *Host, netDomain string) *PTR {
	return &PTR{Host: *host, NetDomain: netDomain}
}

func (p *PTR) Type() string {
	return "PTR"
}

// CookedHostname is the reverse pointer of the address relative to the reverse zone
func (p *PTR) CookedHostname() string {
	owner, _ := p.owner()

	return owner
}

func (p *PTR) owner() (string, error) {
	rev := util.ReversePointer(p.IP)
	suffix := "." + strings.TrimSuffix(p.NetDomain, ".")

	if !strings.HasSuffix(rev, suffix) {
		return "", badRecord(p, "%s is not inside %s", rev, p.NetDomain)
	}

	return strings.TrimSuffix(rev, suffix), nil
}

func (p *PTR) Records() ([]StringRecord, error) {
	if !p.Reverse {
		return nil, badRecord(p, "PTR attempted for non-reverse")
	}

	if len(p.IP) != net.IPv4len && len(p.IP) != net.IPv6len {
		return nil, badRecord(p, "bad IP version %v", p.IP)
	}

	if _, err := p.owner(); err != nil {
		return nil, err
	}

	data := p.Domain
	if len(p.Hostname) > 0 {
		data = p.Hostname + "." + p.Domain
	}

	return []StringRecord{{Text: data, NeedsDot: boolPtr(true)}}, nil
}

// SortKey orders by IP version, then numerically by address
func (p *PTR) SortKey() string {
	if p.isV4() {
		return fmt.Sprintf("4-%x", []byte(p.IP.To4()))
	}

	return fmt.Sprintf("6-%x", []byte(p.IP.To16()))
}
