package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/0xERR0R/zonegen/log"
	"github.com/0xERR0R/zonegen/source"
	"github.com/0xERR0R/zonegen/util"
	"github.com/0xERR0R/zonegen/zonemaker"
	"github.com/0xERR0R/zonegen/zoneparser"

	"github.com/spf13/cobra"
)

// NewCheckCommand creates new command instance
func NewCheckCommand() *cobra.Command {
	var (
		domain    string
		printZone bool
	)

	c := &cobra.Command{
		Use:   "check <zonefile>",
		Args:  cobra.ExactArgs(1),
		Short: "Checks that a zone file is rendered the same after a round trip",
		Long: `Parses the zone file and renders it, then parses and renders the result again.
Both renderings must be identical.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkZoneFile(cmd, args[0], domain, printZone)
		},
	}

	c.Flags().StringVar(&domain, "domain", "", "domain of the zone, defaults to $ORIGIN or the SOA owner")
	c.Flags().BoolVar(&printZone, "print", false, "print the rendered zone")

	return c
}

func checkZoneFile(cmd *cobra.Command, path, domain string, printZone bool) error {
	if len(domain) > 0 {
		var err error
		if domain, err = toASCII(domain); err != nil {
			return err
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}

	defer f.Close()

	ctx, logger := log.NewCtx(cmd.Context(), log.PrefixedLog("check"))

	first, err := renderZone(ctx, f, domain)
	if err != nil {
		return fmt.Errorf("can't render %s: %w", path, err)
	}

	second, err := renderZone(ctx, strings.NewReader(first), domain)
	if err != nil {
		return fmt.Errorf("can't render %s again: %w", path, err)
	}

	out := cmd.OutOrStdout()

	if printZone {
		fmt.Fprint(out, first)
	}

	if lineNo, a, b, same := firstDifference(first, second); !same {
		fmt.Fprintf(out, "-%d: %s\n+%d: %s\n", lineNo, a, lineNo, b)

		return util.Abort("%s: renderings differ at line %d", path, lineNo)
	}

	logger.Infof("%s: round trip ok", path)

	return nil
}

// renderZone parses a zone file and renders it with its delegations
func renderZone(ctx context.Context, r io.Reader, domain string) (string, error) {
	data, err := zoneparser.Parse(ctx, r, domain)
	if err != nil {
		return "", err
	}

	out, err := zonemaker.New(data.Name, source.NewFileSet(data).Sources).Generate(ctx, false, false)
	if err != nil {
		return "", err
	}

	return out.Zone, nil
}

// firstDifference returns the first line, counted from 1, that differs between a and b
func firstDifference(a, b string) (lineNo int, lineA, lineB string, same bool) {
	if a == b {
		return 0, "", "", true
	}

	linesA := strings.Split(a, "\n")
	linesB := strings.Split(b, "\n")

	for i := 0; i < len(linesA) || i < len(linesB); i++ {
		lineA, lineB = "", ""

		if i < len(linesA) {
			lineA = linesA[i]
		}

		if i < len(linesB) {
			lineB = linesB[i]
		}

		if lineA != lineB || i >= len(linesA) || i >= len(linesB) {
			return i + 1, lineA, lineB, false
		}
	}

	return 0, "", "", true
}
