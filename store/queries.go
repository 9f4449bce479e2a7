package store

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrDuplicateKey = errors.New("key already exists")
	ErrNoNetwork    = errors.New("reverse domain without a network entry")
)

// Domain returns the domain called name, or nil if there is none
func (s *Store) Domain(ctx context.Context, name string) (*Domain, error) {
	var res Domain

	err := s.db.WithContext(ctx).Where("name = ?", name).First(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("can't read domain %s: %w", name, err)
	}

	return &res, nil
}

// Domains returns all domains, ordered by name
func (s *Store) Domains(ctx context.Context) ([]Domain, error) {
	var res []Domain

	if err := s.db.WithContext(ctx).Order("name").Find(&res).Error; err != nil {
		return nil, fmt.Errorf("can't read domains: %w", err)
	}

	return res, nil
}

// Network returns the network of the reverse domain, or nil if there is none
func (s *Store) Network(ctx context.Context, domain string) (*Network, error) {
	var res Network

	err := s.db.WithContext(ctx).Where("domain = ?", domain).First(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("can't read network of %s: %w", domain, err)
	}

	return &res, nil
}

// Networks returns all networks, ordered by domain
func (s *Store) Networks(ctx context.Context) ([]Network, error) {
	var res []Network

	if err := s.db.WithContext(ctx).Order("domain").Find(&res).Error; err != nil {
		return nil, fmt.Errorf("can't read networks: %w", err)
	}

	return res, nil
}

// Subdomains returns the names of the direct subdomains of domain.
// A subdomain of another subdomain is left out.
func (s *Store) Subdomains(ctx context.Context, domain string) ([]string, error) {
	var names []string

	err := s.db.WithContext(ctx).Model(&Domain{}).
		Where("name LIKE ?", "%."+domain).
		Order("name").
		Pluck("name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("can't read subdomains of %s: %w", domain, err)
	}

	res := make([]string, 0, len(names))

	for _, name := range names {
		direct := true

		for _, other := range names {
			if other != name && strings.HasSuffix(name, "."+other) {
				direct = false

				break
			}
		}

		if direct {
			res = append(res, name)
		}
	}

	return res, nil
}

// NetworkHosts returns the hosts whose address lies in ipnet, in any domain
func (s *Store) NetworkHosts(ctx context.Context, ipnet *net.IPNet) ([]Host, error) {
	var all []Host

	if err := s.db.WithContext(ctx).Order("ip").Find(&all).Error; err != nil {
		return nil, fmt.Errorf("can't read hosts: %w", err)
	}

	res := make([]Host, 0, len(all))

	for _, h := range all {
		if ip := net.ParseIP(h.IP); ip != nil && ipnet.Contains(ip) {
			res = append(res, h)
		}
	}

	return res, nil
}

// Records returns the rows of table T that belong to domain
func Records[T any](ctx context.Context, s *Store, domain string) ([]T, error) {
	var res []T

	if err := s.db.WithContext(ctx).Where("domain = ?", domain).Order("id").Find(&res).Error; err != nil {
		var zero T

		return nil, fmt.Errorf("can't read %T rows of %s: %w", zero, domain, err)
	}

	return res, nil
}

// DynamicHostnames returns the dynamic hostnames of domain
func (s *Store) DynamicHostnames(ctx context.Context, domain string) ([]string, error) {
	var res []string

	err := s.db.WithContext(ctx).Model(&Dynamic{}).Where("domain = ?", domain).Order("hostname").
		Pluck("hostname", &res).Error
	if err != nil {
		return nil, fmt.Errorf("can't read dynamic hosts of %s: %w", domain, err)
	}

	return res, nil
}

// HasChanged reports whether records of domain changed since its serial was last stored
func (s *Store) HasChanged(ctx context.Context, domain string) (bool, error) {
	d, err := s.Domain(ctx, domain)
	if err != nil {
		return false, err
	}

	if d == nil {
		return false, nil
	}

	return d.Updated.After(d.TS), nil
}

// StoreSerial saves the serial of domain and marks its records as unchanged
func (s *Store) StoreSerial(ctx context.Context, domain string, serial uint32) error {
	err := s.db.WithContext(ctx).Model(&Domain{}).Where("name = ?", domain).
		Updates(map[string]interface{}{
			"serial": serial,
			"ts":     gorm.Expr("updated"),
		}).Error
	if err != nil {
		return fmt.Errorf("can't store serial of %s: %w", domain, err)
	}

	return nil
}

// ImportKey stores a DNSSEC key. A key with the same digest must not exist yet.
func (s *Store) ImportKey(ctx context.Context, key *DNSSEC) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64

		err := tx.Model(&DNSSEC{}).
			Where("digest_sha1 = ? OR digest_sha256 = ?", key.DigestSHA1, key.DigestSHA256).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("can't check for existing keys: %w", err)
		}

		if count > 0 {
			return fmt.Errorf("%w: key id %d of %s", ErrDuplicateKey, key.KeyID, key.Domain)
		}

		if err := tx.Create(key).Error; err != nil {
			return fmt.Errorf("can't store key: %w", err)
		}

		return nil
	})
}
