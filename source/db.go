package source

import (
	"context"
	"fmt"
	"time"

	"github.com/0xERR0R/zonegen/log"
	"github.com/0xERR0R/zonegen/model"
	"github.com/0xERR0R/zonegen/rr"
	"github.com/0xERR0R/zonegen/store"
	"github.com/0xERR0R/zonegen/util"
)

// DB reads a domain from the database
type DB struct {
	store  *store.Store
	domain string
}

func NewDB(st *store.Store, domain string) *DB {
	return &DB{store: st, domain: domain}
}

func (s *DB) Name() string {
	return "db"
}

// nolint:funlen
func (s *DB) GetData(ctx context.Context) (*model.DomainData, error) {
	logger := log.FromCtx(ctx)

	logger.Debugf("reading data of %s", s.domain)

	domain, err := s.store.Domain(ctx, s.domain)
	if err != nil {
		return nil, err
	}

	if domain == nil {
		logger.Debugf("no domain data for %s", s.domain)

		return nil, nil
	}

	res := model.NewDomainData(s.domain)
	res.SOA = domain.SOA()
	res.Serial = res.SOA.Serial

	var hosts []store.Host

	if domain.Reverse {
		network, err := s.store.Network(ctx, s.domain)
		if err != nil {
			return nil, err
		}

		if network == nil {
			return nil, fmt.Errorf("%w: %s", store.ErrNoNetwork, s.domain)
		}

		if res.Network, err = network.IPNet(); err != nil {
			return nil, err
		}

		if res.Name, err = util.ReverseNetName(res.Network); err != nil {
			return nil, err
		}

		hosts, err = s.store.NetworkHosts(ctx, res.Network)
		if err != nil {
			return nil, err
		}
	} else {
		hosts, err = store.Records[store.Host](ctx, s.store, s.domain)
		if err != nil {
			return nil, err
		}
	}

	for i := range hosts {
		h, err := hosts[i].Record()
		if err != nil {
			return nil, err
		}

		res.Hosts = append(res.Hosts, h)
	}

	if err := s.readRecords(ctx, res); err != nil {
		return nil, err
	}

	if res.Subdomains, err = s.store.Subdomains(ctx, s.domain); err != nil {
		return nil, err
	}

	return res, nil
}

func (s *DB) readRecords(ctx context.Context, res *model.DomainData) (err error) {
	if res.CNAMEs, err = records(ctx, s, (*store.CName).Record); err != nil {
		return err
	}

	if res.NS, err = records(ctx, s, (*store.NS).Record); err != nil {
		return err
	}

	if res.MX, err = records(ctx, s, (*store.MX).Record); err != nil {
		return err
	}

	if res.DNSSEC, err = records(ctx, s, (*store.DNSSEC).Record); err != nil {
		return err
	}

	if res.TXT, err = records(ctx, s, (*store.TXT).Record); err != nil {
		return err
	}

	if res.SSHFP, err = records(ctx, s, (*store.SSHFP).Record); err != nil {
		return err
	}

	if res.DKIM, err = records(ctx, s, (*store.DKIM).Record); err != nil {
		return err
	}

	res.SRV, err = records(ctx, s, (*store.SRV).Record)

	return err
}

func records[Row any, R rr.Record](ctx context.Context, s *DB, convert func(*Row) R) ([]R, error) {
	rows, err := store.Records[Row](ctx, s.store, s.domain)
	if err != nil {
		return nil, err
	}

	res := make([]R, 0, len(rows))

	for i := range rows {
		res = append(res, convert(&rows[i]))
	}

	return res, nil
}

func (s *DB) HasChanged(ctx context.Context) (bool, error) {
	return s.store.HasChanged(ctx, s.domain)
}

func (s *DB) IncSerial(_ context.Context, old uint32) (uint32, error) {
	return IncSerialDate(old, time.Now())
}

func (s *DB) SetSerial(ctx context.Context, serial uint32) error {
	log.FromCtx(ctx).Debugf("storing serial %d of %s", serial, s.domain)

	return s.store.StoreSerial(ctx, s.domain, serial)
}
