package zonemaker

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/0xERR0R/zonegen/dnssec"
	"github.com/0xERR0R/zonegen/model"
	"github.com/0xERR0R/zonegen/util"
)

// MakeKeys returns the .key and .private files of every DNSSEC key of the zone
func MakeKeys(zone *model.ZoneData) []model.KeyFile {
	res := make([]model.KeyFile, 0, 2*len(zone.Data.DNSSEC)) // nolint:gomnd

	for _, key := range zone.Data.DNSSEC {
		base := key.Filename()

		res = append(res,
			model.KeyFile{Name: base + dnssec.PublicKeySuffix, Content: key.StKeyPub},
			model.KeyFile{Name: base + dnssec.PrivateKeySuffix, Content: key.StKeyPriv, Private: true},
		)
	}

	return res
}

// WriteOutput writes the zone to zonePath and the key files to keyDir.
// Private keys are only readable by the owner.
func WriteOutput(out *model.ZoneOutput, zonePath, keyDir string) error {
	if err := util.WriteFile(zonePath, out.Zone, util.PublicFileMode); err != nil {
		return err
	}

	if len(out.Keys) == 0 {
		return nil
	}

	if err := os.MkdirAll(keyDir, os.ModePerm); err != nil {
		return fmt.Errorf("can't create key directory: %w", err)
	}

	for _, key := range out.Keys {
		mode := util.PublicFileMode
		if key.Private {
			mode = util.PrivateFileMode
		}

		if err := util.WriteFile(filepath.Join(keyDir, key.Name), key.Content, mode); err != nil {
			return err
		}
	}

	return nil
}
