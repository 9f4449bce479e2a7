package cmd

import (
	"errors"
	"fmt"

	"github.com/0xERR0R/zonegen/log"
	"github.com/0xERR0R/zonegen/metrics"
	"github.com/0xERR0R/zonegen/store"
	"github.com/0xERR0R/zonegen/zonemaker"

	"github.com/spf13/cobra"
)

var errNoSelection = errors.New("one of --all, --domains or --networks is required")

type exportFlags struct {
	keys      bool
	incSerial bool
	oldDir    string
	outDir    string
	keyDir    string
	all       bool
	domains   []string
	networks  []string
}

// NewExportCommand creates new command instance
func NewExportCommand() *cobra.Command {
	flags := &exportFlags{}

	c := &cobra.Command{
		Use:   "export",
		Args:  cobra.NoArgs,
		Short: "Generates the zone files of the database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd, flags)
		},
	}

	c.Flags().BoolVar(&flags.keys, "keys", false, "write the DNSSEC key files")
	c.Flags().BoolVar(&flags.incSerial, "incserial", false, "increment the serial of changed zones")
	c.Flags().StringVar(&flags.oldDir, "olddir", "", "directory of the previous zone files, enables dynamic hosts")
	c.Flags().StringVar(&flags.outDir, "outdir", "", "output directory of the zone files")
	c.Flags().StringVar(&flags.keyDir, "keydir", "", "output directory of the key files")
	c.Flags().BoolVar(&flags.all, "all", false, "export all domains and networks")
	c.Flags().StringSliceVar(&flags.domains, "domains", nil, "domains to export")
	c.Flags().StringSliceVar(&flags.networks, "networks", nil, "networks to export, in CIDR notation")

	c.MarkFlagsMutuallyExclusive("all", "domains", "networks")

	return c
}

// options merges the flags that were set into the export section of the configuration
func (f *exportFlags) options(cmd *cobra.Command) zonemaker.ExportOptions {
	res := zonemaker.ExportOptions{
		OutDir:    cfg.Export.OutDir,
		KeyDir:    cfg.Export.KeyDir,
		OldDir:    cfg.Export.OldDir,
		Keys:      cfg.Export.Keys,
		IncSerial: cfg.Export.IncSerial,
	}

	changed := cmd.Flags().Changed

	if changed("outdir") {
		res.OutDir = f.outDir
	}

	if changed("keydir") {
		res.KeyDir = f.keyDir
	}

	if changed("olddir") {
		res.OldDir = f.oldDir
	}

	if changed("keys") {
		res.Keys = f.keys
	}

	if changed("incserial") {
		res.IncSerial = f.incSerial
	}

	return res
}

func runExport(cmd *cobra.Command, flags *exportFlags) error {
	if !flags.all && len(flags.domains) == 0 && len(flags.networks) == 0 {
		return errNoSelection
	}

	if err := initConfig(); err != nil {
		return err
	}

	domains := make([]string, 0, len(flags.domains))

	for _, d := range flags.domains {
		ascii, err := toASCII(d)
		if err != nil {
			return err
		}

		domains = append(domains, ascii)
	}

	if cfg.Metrics.IsEnabled() {
		metrics.StartCollection()
	}

	ctx, logger := log.NewCtx(cmd.Context(), log.PrefixedLog("export"))

	st, err := store.Open(ctx, cfg.DB)
	if err != nil {
		return err
	}

	defer st.Close()

	exporter := zonemaker.NewExporter(st, flags.options(cmd))

	if flags.all || len(domains) > 0 {
		if err := exporter.ExportDomains(ctx, domains); err != nil {
			return err
		}
	}

	if flags.all || len(flags.networks) > 0 {
		if err := exporter.ExportNetworks(ctx, flags.networks); err != nil {
			return err
		}
	}

	if cfg.Metrics.IsEnabled() {
		if err := metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			return fmt.Errorf("export done: %w", err)
		}

		logger.Debugf("metrics written to %s", cfg.Metrics.Textfile)
	}

	return nil
}
