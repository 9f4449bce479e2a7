package store

import (
	"fmt"
	"net"
	"time"

	"github.com/0xERR0R/zonegen/dnssec"
	"github.com/0xERR0R/zonegen/rr"
)

// SOA returns the SOA of the domain. Unset timers keep their defaults.
func (d *Domain) SOA() *rr.SOA {
	res := rr.NewSOA(d.Name)

	for _, v := range []struct {
		dst *time.Duration
		src time.Duration
	}{
		{&res.TTL, d.TTL},
		{&res.Refresh, d.Refresh},
		{&res.Retry, d.Retry},
		{&res.Expire, d.Expire},
		{&res.Minimum, d.Minimum},
	} {
		if v.src > 0 {
			*v.dst = v.src
		}
	}

	res.Contact = d.Contact
	res.NS0 = d.NS0

	if d.Serial > 0 {
		res.Serial = d.Serial
	}

	return res
}

// IPNet parses the network
func (n *Network) IPNet() (*net.IPNet, error) {
	_, ipnet, err := net.ParseCIDR(n.Network)
	if err != nil {
		return nil, fmt.Errorf("bad network %q of %s: %w", n.Network, n.Domain, err)
	}

	return ipnet, nil
}

func base(domain, hostname string, ttl time.Duration) rr.Base {
	return rr.Base{Domain: domain, Hostname: hostname, TTL: ttl}
}

func (h *Host) Record() (*rr.Host, error) {
	ip := net.ParseIP(h.IP)
	if ip == nil {
		return nil, fmt.Errorf("bad address %q of %s.%s", h.IP, h.Hostname, h.Domain)
	}

	return &rr.Host{Base: base(h.Domain, h.Hostname, h.TTL), IP: ip, Reverse: h.Reverse}, nil
}

func (c *CName) Record() *rr.CNAME {
	return &rr.CNAME{Base: base(c.Domain, c.Hostname, c.TTL), Target: c.Hostname0}
}

func (n *NS) Record() *rr.NS {
	return &rr.NS{Base: base(n.Domain, "", n.TTL), NS: n.NS}
}

func (m *MX) Record() *rr.MX {
	return &rr.MX{Base: base(m.Domain, m.Hostname, m.TTL), Priority: m.Priority, MX: m.MX}
}

func (t *TXT) Record() *rr.TXT {
	return &rr.TXT{Base: base(t.Domain, t.Hostname, t.TTL), TXT: t.TXT}
}

func (s *SSHFP) Record() *rr.SSHFP {
	return &rr.SSHFP{
		Base:        base(s.Domain, s.Hostname, s.TTL),
		KeyType:     s.KeyType,
		HashType:    s.HashType,
		Fingerprint: s.Fingerprint,
	}
}

func (d *DKIM) Record() *rr.DKIM {
	return &rr.DKIM{
		Base:       base(d.Domain, d.Hostname, d.TTL),
		Selector:   d.Selector,
		K:          d.K,
		KeyPub:     d.KeyPub,
		G:          d.G,
		H:          d.H,
		T:          d.T,
		Subdomains: d.Subdomains,
	}
}

func (s *SRV) Record() *rr.SRV {
	return &rr.SRV{
		Base:     base(s.Domain, "", s.TTL),
		Name:     s.Name,
		Service:  s.Service,
		Protocol: s.Protocol,
		Priority: s.Priority,
		Weight:   s.Weight,
		Port:     s.Port,
		Target:   s.Target,
	}
}

func (d *DNSSEC) Record() *rr.DNSSEC {
	res := rr.NewDNSSEC(d.Domain, &dnssec.Key{
		Zone:         d.Domain,
		KeyID:        d.KeyID,
		KSK:          d.KSK,
		Algorithm:    d.Algorithm,
		DigestSHA1:   d.DigestSHA1,
		DigestSHA256: d.DigestSHA256,
		KeyPub:       d.KeyPub,
		StKeyPub:     d.StKeyPub,
		StKeyPriv:    d.StKeyPriv,
		TSCreated:    d.TSCreated,
		TSActivate:   d.TSActivate,
		TSPublish:    d.TSPublish,
	})
	res.TTL = d.TTL

	return res
}

// NewDNSSEC is the row of an imported key
func NewDNSSEC(domain string, key *dnssec.Key, ttl time.Duration) *DNSSEC {
	return &DNSSEC{
		Domain:       domain,
		KeyID:        key.KeyID,
		KSK:          key.KSK,
		Algorithm:    key.Algorithm,
		DigestSHA1:   key.DigestSHA1,
		DigestSHA256: key.DigestSHA256,
		KeyPub:       key.KeyPub,
		StKeyPub:     key.StKeyPub,
		StKeyPriv:    key.StKeyPriv,
		TSCreated:    key.TSCreated,
		TSActivate:   key.TSActivate,
		TSPublish:    key.TSPublish,
		TTL:          ttl,
	}
}
