// Package zonemaker assembles zone files from record sources.
package zonemaker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/0xERR0R/zonegen/evt"
	"github.com/0xERR0R/zonegen/log"
	"github.com/0xERR0R/zonegen/model"
	"github.com/0xERR0R/zonegen/rr"
	"github.com/0xERR0R/zonegen/source"
	"github.com/0xERR0R/zonegen/util"

	"golang.org/x/exp/slices"
)

var (
	ErrNoSources     = errors.New("no sources")
	ErrUnknownDomain = errors.New("unknown domain")
)

// ZoneMaker builds the zone of a single domain
type ZoneMaker struct {
	domain  string
	sources source.Factory
}

func New(domain string, sources source.Factory) *ZoneMaker {
	return &ZoneMaker{domain: domain, sources: sources}
}

// gathered is the data of every source of a domain
type gathered struct {
	sources []source.Source
	data    []*model.DomainData
}

func (g *gathered) main() *model.DomainData {
	return g.data[0]
}

func (z *ZoneMaker) gather(ctx context.Context, domain string) (*gathered, error) {
	sources, err := z.sources(ctx, domain)
	if err != nil {
		return nil, err
	}

	if len(sources) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoSources, domain)
	}

	res := &gathered{sources: sources, data: make([]*model.DomainData, 0, len(sources))}

	for _, src := range sources {
		data, err := src.GetData(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s source of %s: %w", src.Name(), domain, err)
		}

		res.data = append(res.data, data)
	}

	return res, nil
}

// serial returns the highest serial and the index of the source it comes from
func (g *gathered) serial() (serial uint32, idx int) {
	idx = -1

	for i, data := range g.data {
		if data != nil && (idx < 0 || data.Serial > serial) {
			serial, idx = data.Serial, i
		}
	}

	return serial, idx
}

func (g *gathered) changed(ctx context.Context) (bool, error) {
	for _, src := range g.sources {
		changed, err := src.HasChanged(ctx)
		if err != nil || changed {
			return changed, err
		}
	}

	return false, nil
}

// ZoneData combines the sources of the domain and collects the delegation data of its subdomains.
//
// With incSerial, the serial is advanced and stored if any source changed.
func (z *ZoneMaker) ZoneData(ctx context.Context, incSerial bool) (*model.ZoneData, error) {
	ctx, logger := log.CtxWithZone(ctx, z.domain)

	g, err := z.gather(ctx, z.domain)
	if err != nil {
		return nil, err
	}

	main := g.main()
	if main == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDomain, z.domain)
	}

	serial, idx := g.serial()
	logger.Debugf("old serial: %d", serial)

	if incSerial {
		if serial, err = z.incSerial(ctx, g, serial, idx); err != nil {
			return nil, err
		}
	}

	res := model.NewZoneData(z.domain)

	for _, src := range g.sources {
		res.Sources = append(res.Sources, src.Name())
	}

	soa := *main.SOA
	soa.Serial = serial
	res.SOA = &soa

	res.Data.Name = main.Name
	res.Data.SOA = res.SOA
	res.Data.Serial = serial
	res.Data.Network = main.Network
	res.Data.Subdomains = main.Subdomains

	for _, data := range g.data {
		res.Data.Append(data)
	}

	if err := z.addSubdomains(ctx, res, main.Subdomains); err != nil {
		return nil, err
	}

	normalizeTTLs(res)

	return res, nil
}

func (z *ZoneMaker) incSerial(ctx context.Context, g *gathered, serial uint32, idx int) (uint32, error) {
	changed, err := g.changed(ctx)
	if err != nil || !changed {
		return serial, err
	}

	logger := log.FromCtx(ctx)
	logger.Debug("detected changes")

	next, err := g.sources[idx].IncSerial(ctx, serial)
	if err != nil {
		return 0, err
	}

	logger.Debugf("new serial: %d", next)

	for _, src := range g.sources {
		if err := src.SetSerial(ctx, next); err != nil {
			return 0, fmt.Errorf("can't store serial in %s source: %w", src.Name(), err)
		}
	}

	evt.Bus().Publish(evt.SerialIncremented, z.domain, serial, next)

	return next, nil
}

// addSubdomains files the NS, DS and glue records of each delegated subdomain
func (z *ZoneMaker) addSubdomains(ctx context.Context, res *model.ZoneData, subdomains []string) error {
	logger := log.FromCtx(ctx)

	worklist := slices.Clone(subdomains)
	slices.Sort(worklist)

	visited := make(map[string]bool, len(worklist))

	for len(worklist) > 0 {
		sub := worklist[0]
		worklist = worklist[1:]

		if !model.IsSubdomain(sub, z.domain) {
			return fmt.Errorf("%w: %s is not below %s", model.ErrBadSubdomain, sub, z.domain)
		}

		if visited[sub] {
			continue
		}

		visited[sub] = true

		g, err := z.gather(ctx, sub)
		if err != nil {
			return err
		}

		data := g.main()
		if data == nil {
			logger.Debugf("no data for subdomain %s", sub)

			continue
		}

		for _, d := range g.data[1:] {
			data.Append(d)
		}

		res.Subs[sub] = delegation(z.domain, sub, data)
	}

	return nil
}

// delegation returns what the parent zone lists for sub
func delegation(domain, sub string, data *model.DomainData) *model.SubdomainData {
	hostname := model.RelativeName(sub, domain)
	res := &model.SubdomainData{Name: sub}

	for _, key := range data.DNSSEC {
		if !key.KSK {
			continue
		}

		ds := rr.NewDS(key)
		ds.Domain = domain
		ds.Hostname = hostname
		res.DS = append(res.DS, ds)
	}

	for _, ns := range data.NS {
		rec := *ns
		rec.Domain = domain
		rec.Hostname = hostname
		res.NS = append(res.NS, &rec)

		target := strings.TrimSuffix(ns.NS, ".")
		if !model.IsSubdomain(target, sub) {
			continue
		}

		for _, host := range data.Hosts {
			fqdn := model.FQDN(host.Hostname, host.Domain)
			if fqdn != target {
				continue
			}

			glue := *host
			glue.Domain = domain
			glue.Hostname = model.RelativeName(fqdn, domain)
			res.Glue = append(res.Glue, &glue)
		}
	}

	return res
}

// normalizeTTLs stores ttls that match the zone ttl as "inherit"
func normalizeTTLs(zone *model.ZoneData) {
	ttl := zone.SOA.TTL

	normalize := func(rec rr.Record) {
		if h := rec.Header(); h.TTL == ttl {
			h.TTL = 0
		}
	}

	for _, rec := range zone.Data.Records() {
		normalize(rec)
	}

	for _, key := range zone.Data.DNSSEC {
		normalize(key)
	}

	for _, sub := range zone.Subs {
		for _, rec := range util.ConcatSlices(asRecords(sub.NS), asRecords(sub.DS), asRecords(sub.Glue)) {
			normalize(rec)
		}
	}
}

// Generate renders the zone and, with keys, its key files
func (z *ZoneMaker) Generate(ctx context.Context, keys, incSerial bool) (*model.ZoneOutput, error) {
	zone, err := z.ZoneData(ctx, incSerial)
	if err != nil {
		return nil, err
	}

	text, count, err := Render(zone)
	if err != nil {
		return nil, err
	}

	res := &model.ZoneOutput{Zone: text}

	if keys {
		res.Keys = MakeKeys(zone)
	}

	log.FromCtx(ctx).WithField("zone", z.domain).Infof("generated zone with serial %d and %d records", zone.SOA.Serial, count)

	evt.Bus().Publish(evt.ZoneGenerated, z.domain, zone.SOA.Serial, count)

	return res, nil
}
