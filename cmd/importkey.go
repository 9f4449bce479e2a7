package cmd

import (
	"fmt"

	"github.com/0xERR0R/zonegen/log"
	"github.com/0xERR0R/zonegen/parsers"
	"github.com/0xERR0R/zonegen/store"

	"github.com/spf13/cobra"
)

// NewImportKeyCommand creates new command instance
func NewImportKeyCommand() *cobra.Command {
	var domain, ttl string

	c := &cobra.Command{
		Use:   "import-key <file.key|file.private>...",
		Args:  cobra.MinimumNArgs(1),
		Short: "Imports DNSSEC keys created by dnssec-keygen",
		Long: `Imports DNSSEC key pairs created by dnssec-keygen into the database.

Either file of a pair may be given, the other one is read from the same directory.
Keys with a digest that is already stored are refused.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return importKeys(cmd, domain, ttl, args)
		},
	}

	c.Flags().StringVar(&domain, "domain", "", "domain of the key, defaults to the owner of the key")
	c.Flags().StringVar(&ttl, "ttl", "1D", "ttl of the key records")

	return c
}

func importKeys(cmd *cobra.Command, domain, ttl string, files []string) error {
	keyTTL, err := parsers.ParseTTL(ttl)
	if err != nil {
		return err
	}

	if len(domain) > 0 {
		if domain, err = toASCII(domain); err != nil {
			return err
		}
	}

	if err := initConfig(); err != nil {
		return err
	}

	ctx, _ := log.NewCtx(cmd.Context(), log.PrefixedLog("import-key"))

	st, err := store.Open(ctx, cfg.DB)
	if err != nil {
		return err
	}

	defer st.Close()

	for _, file := range files {
		key, err := st.ImportKeyFile(ctx, file, domain, keyTTL)
		if err != nil {
			return fmt.Errorf("can't import %s: %w", file, err)
		}

		role := "ZSK"
		if key.KSK {
			role = "KSK"
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s %d\n", key.Domain, role, key.KeyID)
	}

	return nil
}
