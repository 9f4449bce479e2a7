package zonemaker

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/0xERR0R/zonegen/log"
	"github.com/0xERR0R/zonegen/source"
	"github.com/0xERR0R/zonegen/store"
)

// ExportOptions control where and how zones are exported
type ExportOptions struct {
	OutDir string
	KeyDir string
	// OldDir holds the previous zone files; it enables the dynamic source
	OldDir    string
	Keys      bool
	IncSerial bool
}

// Exporter generates the zones stored in the database
type Exporter struct {
	store *store.Store
	opts  ExportOptions
}

func NewExporter(st *store.Store, opts ExportOptions) *Exporter {
	return &Exporter{store: st, opts: opts}
}

// Sources returns the database source and, with an old zone directory, the dynamic source
func (e *Exporter) Sources(_ context.Context, domain string) ([]source.Source, error) {
	res := []source.Source{source.NewDB(e.store, domain)}

	if len(e.opts.OldDir) > 0 {
		res = append(res, source.NewDynamic(e.store, domain, e.opts.OldDir))
	}

	return res, nil
}

// Export generates a single zone and writes it to the output directory
func (e *Exporter) Export(ctx context.Context, domain string) error {
	out, err := New(domain, e.Sources).Generate(ctx, e.opts.Keys, e.opts.IncSerial)
	if err != nil {
		return fmt.Errorf("can't generate %s: %w", domain, err)
	}

	if err := os.MkdirAll(e.opts.OutDir, os.ModePerm); err != nil {
		return fmt.Errorf("can't create output directory: %w", err)
	}

	keyDir := e.opts.KeyDir
	if len(keyDir) == 0 {
		keyDir = e.opts.OutDir
	}

	return WriteOutput(out, filepath.Join(e.opts.OutDir, domain), keyDir)
}

// ExportDomains exports the named forward domains, or all of them when names is empty.
// Reverse domains are exported through ExportNetworks.
func (e *Exporter) ExportDomains(ctx context.Context, names []string) error {
	domains, err := e.store.Domains(ctx)
	if err != nil {
		return err
	}

	wanted := toSet(names)

	for _, domain := range domains {
		if domain.Reverse || (len(wanted) > 0 && !wanted[domain.Name]) {
			continue
		}

		delete(wanted, domain.Name)

		if err := e.Export(ctx, domain.Name); err != nil {
			return err
		}
	}

	for name := range wanted {
		log.PrefixedLog("export").Warnf("unknown domain %s", log.EscapeInput(name))
	}

	return nil
}

// ExportNetworks exports the reverse zones of the networks given in CIDR notation,
// or all of them when cidrs is empty
func (e *Exporter) ExportNetworks(ctx context.Context, cidrs []string) error {
	wanted := make(map[string]bool, len(cidrs))

	for _, cidr := range cidrs {
		_, ipnet, err := net.ParseCIDR(cidr)
		if err != nil {
			return fmt.Errorf("bad network %q: %w", cidr, err)
		}

		wanted[ipnet.String()] = true
	}

	networks, err := e.store.Networks(ctx)
	if err != nil {
		return err
	}

	for _, network := range networks {
		ipnet, err := network.IPNet()
		if err != nil {
			return err
		}

		if len(cidrs) > 0 && !wanted[ipnet.String()] {
			continue
		}

		delete(wanted, ipnet.String())

		if err := e.Export(ctx, network.Domain); err != nil {
			return err
		}
	}

	for name := range wanted {
		log.PrefixedLog("export").Warnf("unknown network %s", log.EscapeInput(name))
	}

	return nil
}

func toSet(names []string) map[string]bool {
	res := make(map[string]bool, len(names))

	for _, name := range names {
		res[name] = true
	}

	return res
}
