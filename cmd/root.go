package cmd

import (
	"fmt"

	"github.com/0xERR0R/zonegen/config"
	"github.com/0xERR0R/zonegen/log"

	"github.com/spf13/cobra"
	"golang.org/x/net/idna"
)

//nolint:gochecknoglobals
var (
	version    = "undefined"
	buildTime  = "undefined"
	configPath string
	cfg        *config.Config
)

const defaultConfigPath = "./config.yml"

// NewRootCommand creates new root command
func NewRootCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "zonegen",
		Short: "zonegen generates BIND zone files",
		Long: `Generates BIND zone files from a database
of hosts, delegations and DNSSEC keys.

It can also check that a zone file survives a parse and render round trip.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	c.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file")

	c.AddCommand(
		NewExportCommand(),
		NewImportKeyCommand(),
		NewCheckCommand(),
		NewValidateCommand(),
		NewVersionCommand(),
	)

	return c
}

func initConfig() error {
	return loadConfig(false)
}

func loadConfig(mandatory bool) error {
	loaded, err := config.LoadConfig(configPath, mandatory)
	if err != nil {
		return fmt.Errorf("unable to load configuration: %w", err)
	}

	cfg = loaded

	log.ConfigureLogger(cfg.Log)

	return nil
}

// toASCII converts an internationalized domain name to its ASCII form
func toASCII(domain string) (string, error) {
	res, err := idna.Lookup.ToASCII(domain)
	if err != nil {
		return "", fmt.Errorf("invalid domain %q: %w", domain, err)
	}

	return res, nil
}

// Execute starts the command
func Execute() error {
	return NewRootCommand().Execute()
}
