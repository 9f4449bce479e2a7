package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/0xERR0R/zonegen/log"
	"github.com/0xERR0R/zonegen/model"
	"github.com/0xERR0R/zonegen/store"
	"github.com/0xERR0R/zonegen/util"
	"github.com/0xERR0R/zonegen/zoneparser"

	"github.com/patrickmn/go-cache"
)

const (
	zoneCacheExpiration = 10 * time.Minute
	zoneCacheCleanup    = 30 * time.Minute
)

var ErrNoZoneFile = errors.New("no zone file for dynamic hosts")

// parsed zone files, keyed by path and modification time
// nolint:gochecknoglobals
var zoneCache = cache.New(zoneCacheExpiration, zoneCacheCleanup)

// Dynamic takes the addresses of dynamic hosts from the existing zone file
type Dynamic struct {
	store   *store.Store
	domain  string
	zoneDir string
}

func NewDynamic(st *store.Store, domain, zoneDir string) *Dynamic {
	return &Dynamic{store: st, domain: domain, zoneDir: zoneDir}
}

func (s *Dynamic) Name() string {
	return "dynamic"
}

func (s *Dynamic) zoneFile() string {
	return filepath.Join(s.zoneDir, s.domain)
}

func (s *Dynamic) readZoneFile(ctx context.Context) (*model.DomainData, error) {
	path := s.zoneFile()

	st, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoZoneFile, path)
		}

		return nil, err
	}

	key := fmt.Sprintf("%s@%d", path, st.ModTime().UnixNano())

	if data, found := zoneCache.Get(key); found {
		return data.(*model.DomainData), nil
	}

	data, err := zoneparser.ParseFile(ctx, path, s.domain)
	if err != nil {
		return nil, err
	}

	zoneCache.SetDefault(key, data)

	return data, nil
}

func (s *Dynamic) GetData(ctx context.Context) (*model.DomainData, error) {
	dynamic, err := s.store.DynamicHostnames(ctx, s.domain)
	if err != nil || len(dynamic) == 0 {
		return nil, err
	}

	domain, err := s.store.Domain(ctx, s.domain)
	if err != nil || domain == nil {
		return nil, err
	}

	logger := log.FromCtx(ctx)
	logger.Debugf("domain %s has %d dynamic entries", s.domain, len(dynamic))

	file, err := s.readZoneFile(ctx)
	if err != nil {
		return nil, err
	}

	res := model.NewDomainData(s.domain)

	if network, err := s.store.Network(ctx, s.domain); err != nil {
		return nil, err
	} else if network != nil {
		if res.Network, err = network.IPNet(); err != nil {
			return nil, err
		}

		if res.Name, err = util.ReverseNetName(res.Network); err != nil {
			return nil, err
		}
	}

	wanted := make(map[string]bool, len(dynamic))
	for _, h := range dynamic {
		wanted[h] = true
	}

	for _, h := range file.Hosts {
		if !wanted[h.Hostname] {
			continue
		}

		logger.Debugf("adding dynamic entry %s %s %s", h.Hostname, h.Type(), h.IP)

		// the cached file data is shared
		host := *h
		res.Hosts = append(res.Hosts, &host)
	}

	if len(res.Hosts) == 0 {
		return nil, nil
	}

	res.Serial = domain.Serial
	if file.Serial > res.Serial {
		res.Serial = file.Serial
	}

	return res, nil
}

// HasChanged is always false, dynamic hosts never trigger a new serial by themselves
func (s *Dynamic) HasChanged(context.Context) (bool, error) {
	return false, nil
}

func (s *Dynamic) IncSerial(_ context.Context, old uint32) (uint32, error) {
	return old + 1, nil
}

// SetSerial does nothing, the zone file gets the serial when it is written
func (s *Dynamic) SetSerial(context.Context, uint32) error {
	return nil
}
