// Package zoneparser reads complete BIND master files.
package zoneparser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/0xERR0R/zonegen/evt"
	"github.com/0xERR0R/zonegen/log"
	"github.com/0xERR0R/zonegen/model"
	"github.com/0xERR0R/zonegen/parsers"
	"github.com/0xERR0R/zonegen/rr"
	"github.com/0xERR0R/zonegen/util"

	"github.com/miekg/dns"
)

const (
	directiveTTL    = "$TTL"
	directiveOrigin = "$ORIGIN"

	soaFields = 7
)

var (
	ErrDomainMismatch = errors.New("domain doesn't match")
	ErrMissingDomain  = errors.New("can't determine the domain")
	ErrMissingSOA     = errors.New("record before the SOA")
	ErrDuplicateSOA   = errors.New("more than one SOA")
	ErrBadSOA         = errors.New("bad SOA")
	ErrBadDirective   = errors.New("bad directive")
	ErrOutOfZone      = errors.New("owner is outside of the zone")
	ErrUnexpectedPTR  = errors.New("PTR record in a forward zone")
	ErrBadDNSSEC      = errors.New("bad DNSSEC record")
)

// ParseFile reads the zone file filename, see Parse
func ParseFile(ctx context.Context, filename, domain string) (*model.DomainData, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	defer f.Close()

	return Parse(ctx, f, domain)
}

// Parse reads a zone file.
//
// If domain is empty, it is taken from $ORIGIN or from the owner of the SOA.
// Lines that can't be turned into records are logged and skipped. Structural errors abort.
func Parse(ctx context.Context, r io.Reader, domain string) (*model.DomainData, error) {
	z := &zoneReader{domain: strings.TrimSuffix(domain, ".")}

	ctx, logger := log.CtxWithZone(ctx, z.domain)

	records := parsers.SkipValues(
		parsers.TryAdapt(parsers.LogicalLines(r, true), z.parseLine),
		func(rec rr.Record) bool { return rec == nil },
	)

	filtered := parsers.FilterErrors(records, func(error) error { return nil })
	filtered.OnErr(func(err error) {
		logger.Warnf("skipping line: %s", err)

		evt.Bus().Publish(evt.LineSkipped, z.domain, err.Error())
	})

	err := parsers.ForEach[rr.Record](ctx, filtered, func(rec rr.Record) error {
		return z.data.AddRecord(rec)
	})
	if err != nil {
		return nil, err
	}

	if z.data == nil {
		return nil, parsers.NewNonResumableError(fmt.Errorf("%w: no SOA found", ErrBadSOA))
	}

	z.resolvePTRDomains()

	return z.data, nil
}

type zoneReader struct {
	domain string
	data   *model.DomainData

	defTTL    time.Duration
	soaTTL    time.Duration
	lastOwner string

	// full PTR targets, split into hostname and domain once the zone is read
	ptrTargets map[*rr.Host]string
}

func (z *zoneReader) parseLine(line string) (rr.Record, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, nil
	}

	switch fields[0] {
	case directiveTTL:
		return nil, z.setTTL(fields)
	case directiveOrigin:
		return nil, z.setOrigin(fields)
	}

	parsed, err := parsers.ParseLine(line)
	if err != nil || parsed == nil {
		return nil, err
	}

	if parsed.Type == "SOA" {
		return nil, z.setSOA(parsed)
	}

	if z.data == nil {
		return nil, parsers.NewNonResumableError(fmt.Errorf("%w: %s", ErrMissingSOA, parsed))
	}

	if parsed.Type == "PTR" {
		ptrOwner(parsed)
	}

	owner, err := z.owner(parsed.Owner)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, parsed)
	}

	if parsed.Type == "PTR" {
		return z.reverseHost(owner, parsed)
	}

	explicitTTL := len(parsed.TTL) > 0

	rec, err := rr.FromParsedLine(z.domain, &parsers.ParsedLine{
		Owner: owner,
		TTL:   parsed.TTL,
		Type:  parsed.Type,
		RData: parsed.RData,
	})

	switch {
	case err != nil && isDNSSECType(parsed.Type):
		// keys are never skipped
		return nil, parsers.NewNonResumableError(fmt.Errorf("%w: %v", ErrBadDNSSEC, err))
	case err != nil:
		return nil, err
	}

	z.normalizeTTL(rec.Header(), explicitTTL)

	return rec, nil
}

func isDNSSECType(rrType string) bool {
	return rrType == "DNSKEY" || rrType == "DS"
}

// normalizeTTL stores ttls that match the SOA ttl as "inherit"
func (z *zoneReader) normalizeTTL(h *rr.Base, explicit bool) {
	if !explicit && z.defTTL != z.soaTTL {
		h.TTL = z.defTTL
	}

	if h.TTL == z.soaTTL {
		h.TTL = 0
	}
}

func (z *zoneReader) setTTL(fields []string) error {
	if len(fields) != 2 { // nolint:gomnd
		return parsers.NewNonResumableError(fmt.Errorf("%w: %s", ErrBadDirective, strings.Join(fields, " ")))
	}

	ttl, err := parsers.ParseTTL(fields[1])
	if err != nil {
		return parsers.NewNonResumableError(err)
	}

	z.defTTL = ttl

	return nil
}

func (z *zoneReader) setOrigin(fields []string) error {
	if len(fields) != 2 || !dns.IsFqdn(fields[1]) {
		return parsers.NewNonResumableError(fmt.Errorf("%w: %s", ErrBadDirective, strings.Join(fields, " ")))
	}

	if _, ok := dns.IsDomainName(fields[1]); !ok {
		return parsers.NewNonResumableError(fmt.Errorf("%w: bad origin %s", ErrBadDirective, fields[1]))
	}

	origin := strings.TrimSuffix(fields[1], ".")

	switch {
	case len(z.domain) == 0:
		z.domain = origin
	case origin != z.domain:
		return parsers.NewNonResumableError(fmt.Errorf("%w: $ORIGIN %s in zone %s", ErrDomainMismatch, origin, z.domain))
	}

	return nil
}

func (z *zoneReader) setSOA(line *parsers.ParsedLine) error {
	if z.data != nil {
		return parsers.NewNonResumableError(ErrDuplicateSOA)
	}

	owner := strings.TrimSuffix(line.Owner, ".")

	switch {
	case len(owner) == 0 || owner == "@" || owner == z.domain:
	case len(owner) > 0 && len(z.domain) == 0:
		z.domain = owner
	default:
		return parsers.NewNonResumableError(fmt.Errorf("%w: SOA of %q in zone %q", ErrDomainMismatch, owner, z.domain))
	}

	if len(z.domain) == 0 {
		return parsers.NewNonResumableError(ErrMissingDomain)
	}

	soa, err := parseSOA(z.domain, line.RData)
	if err != nil {
		return parsers.NewNonResumableError(err)
	}

	soa.TTL = z.defTTL

	if len(line.TTL) > 0 {
		if soa.TTL, err = parsers.ParseTTL(line.TTL); err != nil {
			return parsers.NewNonResumableError(err)
		}
	}

	if soa.TTL == 0 {
		return parsers.NewNonResumableError(fmt.Errorf("%w: no ttl for %s", ErrBadSOA, z.domain))
	}

	if z.defTTL == 0 {
		z.defTTL = soa.TTL
	}

	z.soaTTL = soa.TTL
	z.lastOwner = ""

	z.data = model.NewDomainData(z.domain)
	z.data.SOA = soa
	z.data.Serial = soa.Serial

	if strings.HasSuffix(z.domain, strings.TrimSuffix(util.IPv4PtrSuffix, ".")) ||
		strings.HasSuffix(z.domain, strings.TrimSuffix(util.IPv6PtrSuffix, ".")) {
		if z.data.Network, err = util.NetworkFromReverseName(z.domain); err != nil {
			return parsers.NewNonResumableError(err)
		}
	}

	return nil
}

// parseSOA reads "ns0 contact serial refresh retry expire minimum"
func parseSOA(domain, data string) (*rr.SOA, error) {
	fields := strings.Fields(data)
	if len(fields) != soaFields {
		return nil, fmt.Errorf("%w: expected %d fields in %q", ErrBadSOA, soaFields, data)
	}

	soa := rr.NewSOA(domain)
	soa.NS0 = strings.TrimSuffix(fields[0], ".")
	soa.Contact = strings.TrimSuffix(fields[1], ".")

	serial, err := strconv.ParseUint(fields[2], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: serial %q", ErrBadSOA, fields[2])
	}

	soa.Serial = uint32(serial)

	for i, dst := range []*time.Duration{&soa.Refresh, &soa.Retry, &soa.Expire, &soa.Minimum} {
		if *dst, err = parsers.ParseTTL(fields[3+i]); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadSOA, err)
		}
	}

	return soa, nil
}

// owner returns the owner relative to the zone, "" for the apex.
// A blank owner continues the previous one.
func (z *zoneReader) owner(owner string) (string, error) {
	switch {
	case len(owner) == 0:
		return z.lastOwner, nil
	case owner == "@":
		z.lastOwner = ""
	case strings.HasSuffix(owner, "."):
		fqdn := strings.TrimSuffix(owner, ".")
		if fqdn != z.domain && !model.IsSubdomain(fqdn, z.domain) {
			return "", fmt.Errorf("%w: %s", ErrOutOfZone, owner)
		}

		z.lastOwner = model.RelativeName(fqdn, z.domain)
	default:
		z.lastOwner = owner
	}

	return z.lastOwner, nil
}

// ptrOwner fixes the owner of PTR lines whose owner is a single numeric label, like "5".
// Such labels look like a ttl. PTR lines always carry an owner.
func ptrOwner(line *parsers.ParsedLine) {
	switch {
	case len(line.TTL) == 0:
	case len(line.Owner) == 0:
		line.Owner, line.TTL = line.TTL, ""
	case parsers.IsTTL(line.Owner):
		line.Owner, line.TTL = line.TTL, line.Owner
	}
}

// reverseHost turns a PTR record back to the reverse flagged host it was made of
func (z *zoneReader) reverseHost(owner string, line *parsers.ParsedLine) (rr.Record, error) {
	if !z.data.IsReverse() {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedPTR, line)
	}

	ip, err := util.ParseIPFromArpaAddr(dns.Fqdn(model.FQDN(owner, z.domain)))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, line)
	}

	target := strings.TrimSuffix(line.RData, ".")

	host := &rr.Host{IP: ip, Reverse: true}
	host.Hostname, host.Domain = splitTarget(target, nil)

	if z.ptrTargets == nil {
		z.ptrTargets = make(map[*rr.Host]string)
	}

	z.ptrTargets[host] = target

	if len(line.TTL) > 0 {
		if host.TTL, err = parsers.ParseTTL(line.TTL); err != nil {
			return nil, err
		}
	}

	z.normalizeTTL(&host.Base, len(line.TTL) > 0)

	return host, nil
}

// resolvePTRDomains splits the PTR targets at the longest known forward domain.
// Domains are known from the SOA contact and name servers and from targets that are
// the parent of other targets.
func (z *zoneReader) resolvePTRDomains() {
	if len(z.ptrTargets) == 0 {
		return
	}

	known := make(map[string]bool)

	addParent := func(name string) {
		if _, parent, found := strings.Cut(strings.TrimSuffix(name, "."), "."); found && strings.Contains(parent, ".") {
			known[parent] = true
		}
	}

	addParent(z.data.SOA.Contact)
	addParent(z.data.SOA.NS0)

	for _, ns := range z.data.NS {
		addParent(ns.NS)
	}

	targets := make(map[string]bool, len(z.ptrTargets))
	for _, target := range z.ptrTargets {
		targets[target] = true
	}

	for target := range targets {
		if _, parent, found := strings.Cut(target, "."); found && targets[parent] {
			known[parent] = true
		}
	}

	for host, target := range z.ptrTargets {
		host.Hostname, host.Domain = splitTarget(target, known)
	}
}

// splitTarget returns the hostname and domain of target. The longest known domain
// that contains target wins, otherwise the first label is the hostname.
func splitTarget(target string, known map[string]bool) (hostname, domain string) {
	for candidate := target; ; {
		if known[candidate] {
			return model.RelativeName(target, candidate), candidate
		}

		var found bool
		if _, candidate, found = strings.Cut(candidate, "."); !found {
			break
		}
	}

	hostname, domain, found := strings.Cut(target, ".")
	if !found {
		return "", target
	}

	return hostname, domain
}
