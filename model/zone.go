package model

import (
	"github.com/0xERR0R/zonegen/rr"
)

// SubdomainData holds what the parent zone lists for a delegated subdomain
type SubdomainData struct {
	// Name is the fully qualified name of the subdomain
	Name string
	NS   []*rr.NS
	DS   []*rr.DS
	Glue []*rr.Host
}

// ZoneData is the combined data of a zone, ready to be rendered
type ZoneData struct {
	Domain string
	SOA    *rr.SOA
	Data   *DomainData
	Subs   map[string]*SubdomainData
	// Sources names the sources the data came from, in order
	Sources []string
}

func NewZoneData(domain string) *ZoneData {
	return &ZoneData{
		Domain: domain,
		Data:   NewDomainData(domain),
		Subs:   make(map[string]*SubdomainData),
	}
}

// IsReverse reports whether the zone is a reverse zone
func (z *ZoneData) IsReverse() bool {
	return z.Data.IsReverse()
}

// KeyFile is an exported DNSSEC key file
type KeyFile struct {
	Name    string
	Content string
	Private bool
}

// ZoneOutput is the result of a zone generation
type ZoneOutput struct {
	Zone string
	Keys []KeyFile
}
