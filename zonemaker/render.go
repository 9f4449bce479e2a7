package zonemaker

import (
	"strings"

	"github.com/0xERR0R/zonegen/model"
	"github.com/0xERR0R/zonegen/rr"
	"github.com/0xERR0R/zonegen/util"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// renderer accumulates zone text and stops at the first error
type renderer struct {
	sb    strings.Builder
	count int
	err   error
}

func (r *renderer) raw(st string) {
	if r.err == nil {
		r.sb.WriteString(st)
	}
}

func (r *renderer) record(rec rr.Record) {
	if r.err != nil {
		return
	}

	var text string

	text, r.err = rr.Render(rec)
	r.raw(text)
	r.count++
}

// blank renders rec without its hostname column
func (r *renderer) blank(rec rr.Record) {
	if r.err != nil {
		return
	}

	var text string

	text, r.err = rr.RenderOwner(rec, "")
	r.raw(text)
	r.count++
}

func asRecords[T rr.Record](records []T) []rr.Record {
	return util.ConvertEach(records, func(rec T) rr.Record { return rec })
}

// topLevelRecords lists the records that may live at the apex, per type
func topLevelRecords(data *model.DomainData) [][]rr.Record {
	keys := make([]rr.Record, 0, len(data.DNSSEC))
	for _, key := range data.DNSSEC {
		keys = append(keys, rr.NewDNSKEY(key))
	}

	return [][]rr.Record{
		asRecords(data.NS),
		asRecords(data.MX),
		keys,
		asRecords(data.CNAMEs),
		asRecords(data.TXT),
		asRecords(data.DKIM),
		asRecords(data.SRV),
		asRecords(data.SSHFP),
	}
}

// hostRecords lists the records that are grouped with hosts, per type
func hostRecords(data *model.DomainData) [][]rr.Record {
	return [][]rr.Record{
		asRecords(data.MX),
		asRecords(data.CNAMEs),
		asRecords(data.TXT),
		asRecords(data.DKIM),
		asRecords(data.SRV),
		asRecords(data.SSHFP),
	}
}

// Render returns the zone text and the number of rendered records
func Render(zone *model.ZoneData) (string, int, error) {
	r := &renderer{}

	soa, err := zone.SOA.Render()
	if err != nil {
		return "", 0, err
	}

	r.raw(soa)
	r.count++

	r.topLevel(zone)

	if zone.IsReverse() {
		r.raw("\n")
		r.reverse(zone)
	} else {
		r.subzones(zone)
		r.raw("\n")
		r.hosts(zone.Data)
	}

	if r.err != nil {
		return "", 0, r.err
	}

	return r.sb.String(), r.count, nil
}

func (r *renderer) topLevel(zone *model.ZoneData) {
	data := zone.Data
	lists := topLevelRecords(data)

	for _, recs := range lists {
		for _, rec := range recs {
			if len(rec.AssociatedHostname()) == 0 && len(rec.CookedHostname()) == 0 {
				r.record(rec)
			}
		}
	}

	if !zone.IsReverse() {
		for _, host := range data.Hosts {
			if len(host.AssociatedHostname()) == 0 {
				r.record(host)
			}
		}
	}

	// DKIM and SRV have a host part even at the apex
	for _, recs := range lists {
		for _, rec := range recs {
			if len(rec.AssociatedHostname()) == 0 && len(rec.CookedHostname()) > 0 {
				r.record(rec)
			}
		}
	}
}

func (r *renderer) subzones(zone *model.ZoneData) {
	names := maps.Keys(zone.Subs)
	slices.Sort(names)

	var glue []*rr.Host

	for _, name := range names {
		sub := zone.Subs[name]

		if len(sub.NS)+len(sub.DS)+len(sub.Glue) > 0 {
			r.raw("\n")
		}

		for _, ns := range sub.NS {
			r.record(ns)
		}

		for _, ds := range sub.DS {
			r.record(ds)
		}

		glue = append(glue, sub.Glue...)
	}

	if len(glue) == 0 {
		return
	}

	r.raw("\n; Glue records\n")

	for _, host := range glue {
		r.record(host)
	}
}

func (r *renderer) hosts(data *model.DomainData) {
	done := make(map[string]bool)

	for _, ns := range data.NS {
		done[ns.Hostname] = true
	}

	lists := hostRecords(data)

	for _, host := range rr.Sorted(data.Hosts) {
		hostname := host.Hostname
		if len(hostname) == 0 || done[hostname] {
			continue
		}

		done[hostname] = true
		first := true

		emit := func(rec rr.Record) {
			if first {
				r.record(rec)
				first = false
			} else {
				r.blank(rec)
			}
		}

		for _, rrType := range []string{"A", "AAAA"} {
			for _, h := range data.Hosts {
				if h.Hostname == hostname && h.Type() == rrType {
					emit(h)
				}
			}
		}

		for _, recs := range lists {
			for _, rec := range recs {
				if rec.AssociatedHostname() == hostname && rec.CookedHostname() == hostname {
					emit(rec)
				}
			}
		}

		// _spf TXT, DKIM keys and aliases pointing to the host
		for _, recs := range lists {
			for _, rec := range recs {
				if rec.AssociatedHostname() == hostname && rec.CookedHostname() != hostname {
					r.record(rec)
				}
			}
		}
	}

	for _, recs := range lists {
		separated := false

		for _, rec := range rr.Sorted(recs) {
			if len(rec.Header().Hostname) == 0 || done[rec.AssociatedHostname()] {
				continue
			}

			if !separated {
				r.raw("\n")
				separated = true
			}

			r.record(rec)
		}
	}
}

// reverse renders the PTR records, IPv4 before IPv6
func (r *renderer) reverse(zone *model.ZoneData) {
	ptrs := make([]*rr.PTR, 0, len(zone.Data.Hosts))

	for _, host := range zone.Data.Hosts {
		if host.Reverse {
			ptrs = append(ptrs, rr.NewPTR(host, zone.Domain))
		}
	}

	for _, ptr := range rr.Sorted(ptrs) {
		r.record(ptr)
	}
}
