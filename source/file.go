package source

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/0xERR0R/zonegen/dnssec"
	"github.com/0xERR0R/zonegen/model"
	"github.com/0xERR0R/zonegen/rr"

	"golang.org/x/exp/maps"
)

// FileSet serves a parsed zone file as if each delegated subdomain was a zone of its own.
//
// Subdomains are the owners of NS and DS records below the apex. Records at or below a subdomain
// are moved to it, DS records become KSK keys of the subdomain.
type FileSet struct {
	domain     string
	data       *model.DomainData
	subdomains map[string]bool
}

func NewFileSet(data *model.DomainData) *FileSet {
	res := &FileSet{
		domain:     data.Name,
		data:       data,
		subdomains: make(map[string]bool),
	}

	for _, ns := range data.NS {
		if len(ns.Hostname) > 0 {
			res.subdomains[model.FQDN(ns.Hostname, data.Name)] = true
		}
	}

	for _, ds := range data.DS {
		res.subdomains[model.FQDN(ds.Hostname, data.Name)] = true
	}

	return res
}

// Sources is a Factory for the zone and its subdomains
func (f *FileSet) Sources(_ context.Context, domain string) ([]Source, error) {
	if domain != f.domain && !f.subdomains[domain] {
		return nil, fmt.Errorf("%s is not part of the zone file of %s", domain, f.domain)
	}

	return []Source{&File{name: domain, set: f}}, nil
}

// zoneOf returns the zone the owner fqdn belongs to: the deepest subdomain that contains it,
// or the domain
func (f *FileSet) zoneOf(fqdn string) string {
	res := f.domain

	for sub := range f.subdomains {
		if (fqdn == sub || model.IsSubdomain(fqdn, sub)) && len(sub) > len(res) {
			res = sub
		}
	}

	return res
}

// directSubdomains returns the subdomains right below zone
func (f *FileSet) directSubdomains(zone string) []string {
	var res []string

	for sub := range f.subdomains {
		if model.IsSubdomain(sub, zone) && f.zoneOf(parentOf(sub)) == zone {
			res = append(res, sub)
		}
	}

	sort.Strings(res)

	return res
}

func parentOf(fqdn string) string {
	_, parent, _ := strings.Cut(fqdn, ".")

	return parent
}

// rehome returns the records of src that belong to zone, with the hostname made relative to it
func rehome[T rr.Record](f *FileSet, zone string, src []T, clone func(T) T) []T {
	var res []T

	for _, rec := range src {
		h := rec.Header()

		fqdn := model.FQDN(h.Hostname, h.Domain)
		if f.zoneOf(fqdn) != zone {
			continue
		}

		c := clone(rec)
		c.Header().Domain = zone
		c.Header().Hostname = model.RelativeName(fqdn, zone)

		res = append(res, c)
	}

	return res
}

func clone[T any](rec *T) *T {
	c := *rec

	return &c
}

// dataFor builds the records of zone
func (f *FileSet) dataFor(zone string) *model.DomainData {
	src := f.data

	res := model.NewDomainData(zone)
	res.Serial = src.Serial

	soa := *src.SOA
	soa.Name = zone
	res.SOA = &soa

	if src.IsReverse() {
		res.Network = src.Network
		// PTR targets are outside of reverse zones
		res.Hosts = src.Hosts
	} else {
		res.Hosts = rehome(f, zone, src.Hosts, clone[rr.Host])
	}

	res.CNAMEs = rehome(f, zone, src.CNAMEs, clone[rr.CNAME])
	res.NS = rehome(f, zone, src.NS, clone[rr.NS])
	res.MX = rehome(f, zone, src.MX, clone[rr.MX])
	res.TXT = rehome(f, zone, src.TXT, clone[rr.TXT])
	res.DNSSEC = rehome(f, zone, src.DNSSEC, clone[rr.DNSSEC])
	res.SSHFP = rehome(f, zone, src.SSHFP, clone[rr.SSHFP])
	res.DKIM = rehome(f, zone, src.DKIM, clone[rr.DKIM])
	res.SRV = rehome(f, zone, src.SRV, clone[rr.SRV])

	res.DNSSEC = append(res.DNSSEC, f.delegationKeys(zone)...)
	res.Subdomains = f.directSubdomains(zone)

	return res
}

// delegationKeys turns the DS records of the delegation of zone to KSK keys, one per key tag
func (f *FileSet) delegationKeys(zone string) []*rr.DNSSEC {
	type keyID struct {
		tag       uint16
		algorithm uint8
	}

	keys := make(map[keyID]*rr.DNSSEC)
	order := make(map[keyID]int)

	for _, ds := range f.data.DS {
		if model.FQDN(ds.Hostname, ds.Domain) != zone {
			continue
		}

		id := keyID{ds.KeyID, ds.Algorithm}

		key, ok := keys[id]
		if !ok {
			key = rr.NewDNSSEC(zone, &dnssec.Key{
				Zone:      zone,
				KeyID:     ds.KeyID,
				KSK:       true,
				Algorithm: ds.Algorithm,
			})
			key.TTL = ds.TTL
			keys[id] = key
			order[id] = len(order)
		}

		if len(ds.DigestSHA1) > 0 {
			key.DigestSHA1 = ds.DigestSHA1
		}

		if len(ds.DigestSHA256) > 0 {
			key.DigestSHA256 = ds.DigestSHA256
		}
	}

	ids := maps.Keys(keys)
	sort.Slice(ids, func(i, j int) bool { return order[ids[i]] < order[ids[j]] })

	res := make([]*rr.DNSSEC, 0, len(ids))
	for _, id := range ids {
		res = append(res, keys[id])
	}

	return res
}

// File is the source of one zone of a FileSet
type File struct {
	name   string
	set    *FileSet
	serial uint32
}

func (s *File) Name() string {
	return "file"
}

func (s *File) GetData(context.Context) (*model.DomainData, error) {
	res := s.set.dataFor(s.name)

	if s.serial > 0 {
		res.Serial = s.serial
		res.SOA.Serial = s.serial
	}

	return res, nil
}

func (s *File) HasChanged(context.Context) (bool, error) {
	return false, nil
}

func (s *File) IncSerial(_ context.Context, old uint32) (uint32, error) {
	return old + 1, nil
}

func (s *File) SetSerial(_ context.Context, serial uint32) error {
	s.serial = serial

	return nil
}
