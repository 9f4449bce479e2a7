package model

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/0xERR0R/zonegen/rr"

	"github.com/hashicorp/go-multierror"
)

var ErrBadSubdomain = errors.New("bad subdomain")

// DomainData holds every record of a zone as read from one or more sources
type DomainData struct {
	// Name is the zone name, the reverse name for reverse zones
	Name   string
	Serial uint32
	SOA    *rr.SOA
	// Network is set for reverse zones
	Network *net.IPNet

	Hosts  []*rr.Host
	CNAMEs []*rr.CNAME
	NS     []*rr.NS
	MX     []*rr.MX
	TXT    []*rr.TXT
	DNSSEC []*rr.DNSSEC
	DS     []*rr.DS
	SSHFP  []*rr.SSHFP
	DKIM   []*rr.DKIM
	SRV    []*rr.SRV

	// Subdomains are the fully qualified names of the delegated zones
	Subdomains []string
}

func NewDomainData(name string) *DomainData {
	return &DomainData{Name: name}
}

// IsReverse reports whether this is the data of a reverse zone
func (d *DomainData) IsReverse() bool {
	return d.Network != nil
}

// Append adds the records of other. Name, serial, SOA and subdomains are kept.
func (d *DomainData) Append(other *DomainData) {
	if other == nil {
		return
	}

	d.Hosts = append(d.Hosts, other.Hosts...)
	d.CNAMEs = append(d.CNAMEs, other.CNAMEs...)
	d.NS = append(d.NS, other.NS...)
	d.MX = append(d.MX, other.MX...)
	d.TXT = append(d.TXT, other.TXT...)
	d.DNSSEC = append(d.DNSSEC, other.DNSSEC...)
	d.DS = append(d.DS, other.DS...)
	d.SSHFP = append(d.SSHFP, other.SSHFP...)
	d.DKIM = append(d.DKIM, other.DKIM...)
	d.SRV = append(d.SRV, other.SRV...)
}

// AddRecord files rec in the list of its type
func (d *DomainData) AddRecord(rec rr.Record) error {
	switch r := rec.(type) {
	case *rr.Host:
		d.Hosts = append(d.Hosts, r)
	case *rr.CNAME:
		d.CNAMEs = append(d.CNAMEs, r)
	case *rr.NS:
		d.NS = append(d.NS, r)
	case *rr.MX:
		d.MX = append(d.MX, r)
	case *rr.TXT:
		d.TXT = append(d.TXT, r)
	case *rr.DNSKEY:
		d.DNSSEC = append(d.DNSSEC, &r.DNSSEC)
	case *rr.DS:
		d.DS = append(d.DS, r)
	case *rr.SSHFP:
		d.SSHFP = append(d.SSHFP, r)
	case *rr.DKIM:
		d.DKIM = append(d.DKIM, r)
	case *rr.SRV:
		d.SRV = append(d.SRV, r)
	default:
		return fmt.Errorf("can't store %s records", rec.Type())
	}

	return nil
}

// Records returns all records, grouped by type
func (d *DomainData) Records() []rr.Record {
	res := make([]rr.Record, 0, d.Count())

	res = appendRecords(res, d.Hosts)
	res = appendRecords(res, d.CNAMEs)
	res = appendRecords(res, d.NS)
	res = appendRecords(res, d.MX)
	res = appendRecords(res, d.TXT)

	for _, key := range d.DNSSEC {
		res = append(res, rr.NewDNSKEY(key))
	}

	res = appendRecords(res, d.DS)
	res = appendRecords(res, d.SSHFP)
	res = appendRecords(res, d.DKIM)
	res = appendRecords(res, d.SRV)

	return res
}

func appendRecords[T rr.Record](res []rr.Record, records []T) []rr.Record {
	for _, r := range records {
		res = append(res, r)
	}

	return res
}

// Count returns the number of records
func (d *DomainData) Count() int {
	return len(d.Hosts) + len(d.CNAMEs) + len(d.NS) + len(d.MX) + len(d.TXT) + len(d.DNSSEC) +
		len(d.DS) + len(d.SSHFP) + len(d.DKIM) + len(d.SRV)
}

// Validate checks the subdomains and every record, collecting all errors
func (d *DomainData) Validate() error {
	var errs *multierror.Error

	for _, sub := range d.Subdomains {
		if !IsSubdomain(sub, d.Name) {
			errs = multierror.Append(errs, fmt.Errorf("%w: %s is not below %s", ErrBadSubdomain, sub, d.Name))
		}
	}

	for _, rec := range d.Records() {
		if err := rr.Validate(rec); err != nil {
			errs = multierror.Append(errs, err)
		}
	}

	return errs.ErrorOrNil()
}

// IsSubdomain reports whether sub is strictly below domain
func IsSubdomain(sub, domain string) bool {
	return strings.HasSuffix(sub, "."+domain) && len(sub) > len(domain)+1
}

// RelativeName returns the part of the fully qualified name that is below domain.
// It returns "" for the domain itself.
func RelativeName(fqdn, domain string) string {
	fqdn = strings.TrimSuffix(fqdn, ".")

	if fqdn == domain {
		return ""
	}

	return strings.TrimSuffix(fqdn, "."+domain)
}

// FQDN returns hostname.domain, or domain for an empty hostname
func FQDN(hostname, domain string) string {
	if len(hostname) == 0 || hostname == "@" {
		return domain
	}

	return hostname + "." + domain
}
