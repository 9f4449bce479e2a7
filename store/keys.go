package store

import (
	"context"
	"time"

	"github.com/0xERR0R/zonegen/dnssec"
	"github.com/0xERR0R/zonegen/evt"
	"github.com/0xERR0R/zonegen/log"
)

// ImportKeyFile reads a dnssec-keygen key pair, given either of its files, and stores it.
//
// An empty domain takes the owner of the key. Keys whose digest is already stored are refused.
func (s *Store) ImportKeyFile(ctx context.Context, filename, domain string, ttl time.Duration) (*DNSSEC, error) {
	key, err := dnssec.ParseKeyFile(ctx, filename, domain)
	if err != nil {
		return nil, err
	}

	row := NewDNSSEC(key.Zone, key, ttl)

	if err := s.ImportKey(ctx, row); err != nil {
		return nil, err
	}

	log.FromCtx(ctx).Infof("imported key %d of %s", row.KeyID, row.Domain)

	evt.Bus().Publish(evt.KeyImported, row.Domain, row.KeyID, row.KSK)

	return row, nil
}
