package store

import (
	"time"

	"gorm.io/gorm"
)

// Domain is a forward or reverse zone with its SOA values.
// Zero timers fall back to the SOA defaults.
type Domain struct {
	Name    string `gorm:"primaryKey"`
	Reverse bool
	TTL     time.Duration
	Refresh time.Duration
	Retry   time.Duration
	Expire  time.Duration
	Minimum time.Duration
	Contact string
	Serial  uint32
	NS0     string `gorm:"column:ns0"`
	// TS is the value of Updated when the serial was last stored
	TS time.Time
	// Updated changes whenever a record of the domain changes
	Updated time.Time
}

func (Domain) TableName() string { return "domains" }

// Network maps a reverse domain to its network, in CIDR notation
type Network struct {
	Domain  string `gorm:"primaryKey"`
	Network string `gorm:"uniqueIndex"`
}

func (Network) TableName() string { return "networks" }

type Host struct {
	ID       uint   `gorm:"primaryKey"`
	IP       string `gorm:"column:ip;index"`
	Domain   string `gorm:"index"`
	Hostname string
	Reverse  bool
	TTL      time.Duration
}

func (Host) TableName() string { return "hosts" }

type CName struct {
	ID        uint   `gorm:"primaryKey"`
	Domain    string `gorm:"index"`
	Hostname  string
	Hostname0 string `gorm:"column:hostname0"`
	TTL       time.Duration
}

func (CName) TableName() string { return "cnames" }

type NS struct {
	ID     uint   `gorm:"primaryKey"`
	Domain string `gorm:"index"`
	NS     string `gorm:"column:ns"`
	TTL    time.Duration
}

func (NS) TableName() string { return "ns" }

type MX struct {
	ID       uint   `gorm:"primaryKey"`
	Domain   string `gorm:"index"`
	Hostname string
	Priority uint16
	MX       string `gorm:"column:mx"`
	TTL      time.Duration
}

func (MX) TableName() string { return "mx" }

type TXT struct {
	ID       uint   `gorm:"primaryKey"`
	Domain   string `gorm:"index"`
	Hostname string
	TXT      string `gorm:"column:txt"`
	TTL      time.Duration
}

func (TXT) TableName() string { return "txt" }

type SSHFP struct {
	ID          uint   `gorm:"primaryKey"`
	Domain      string `gorm:"index"`
	Hostname    string
	KeyType     uint8
	HashType    uint8
	Fingerprint string
	TTL         time.Duration
}

func (SSHFP) TableName() string { return "sshfp" }

type DKIM struct {
	ID         uint   `gorm:"primaryKey"`
	Domain     string `gorm:"index"`
	Hostname   string
	Selector   string
	K          string `gorm:"column:k"`
	KeyPub     string
	G          string `gorm:"column:g"`
	H          string `gorm:"column:h"`
	T          bool   `gorm:"column:t"`
	Subdomains bool
	TTL        time.Duration
}

func (DKIM) TableName() string { return "dkim" }

type SRV struct {
	ID       uint   `gorm:"primaryKey"`
	Domain   string `gorm:"index"`
	Name     string
	Protocol string
	Service  string
	Priority uint16
	Weight   uint16
	Port     uint16
	Target   string
	TTL      time.Duration
}

func (SRV) TableName() string { return "srv" }

type DNSSEC struct {
	ID           uint   `gorm:"primaryKey"`
	Domain       string `gorm:"index"`
	KeyID        uint16 `gorm:"column:keyid"`
	KSK          bool   `gorm:"column:ksk"`
	Algorithm    uint8
	DigestSHA1   string `gorm:"column:digest_sha1;index"`
	DigestSHA256 string `gorm:"column:digest_sha256;index"`
	KeyPub       string
	StKeyPub     string
	StKeyPriv    string
	TSCreated    time.Time
	TSActivate   time.Time
	TSPublish    time.Time
	TTL          time.Duration
}

func (DNSSEC) TableName() string { return "dnssec" }

// Dynamic lists the hosts whose addresses are kept from the existing zone file
type Dynamic struct {
	ID       uint   `gorm:"primaryKey"`
	Domain   string `gorm:"index"`
	Hostname string
}

func (Dynamic) TableName() string { return "dynamic" }

// nolint:gochecknoglobals
var tables = []interface{}{
	&Domain{}, &Network{}, &Host{}, &CName{}, &NS{}, &MX{}, &TXT{}, &SSHFP{}, &DKIM{}, &SRV{}, &DNSSEC{}, &Dynamic{},
}

// touchDomain marks the records of a domain as changed
func touchDomain(tx *gorm.DB, domain string) error {
	return tx.Model(&Domain{}).Where("name = ?", domain).Update("updated", time.Now()).Error
}

func (h *Host) AfterSave(tx *gorm.DB) error     { return touchDomain(tx, h.Domain) }
func (c *CName) AfterSave(tx *gorm.DB) error    { return touchDomain(tx, c.Domain) }
func (n *NS) AfterSave(tx *gorm.DB) error       { return touchDomain(tx, n.Domain) }
func (m *MX) AfterSave(tx *gorm.DB) error       { return touchDomain(tx, m.Domain) }
func (t *TXT) AfterSave(tx *gorm.DB) error      { return touchDomain(tx, t.Domain) }
func (s *SSHFP) AfterSave(tx *gorm.DB) error    { return touchDomain(tx, s.Domain) }
func (d *DKIM) AfterSave(tx *gorm.DB) error     { return touchDomain(tx, d.Domain) }
func (s *SRV) AfterSave(tx *gorm.DB) error      { return touchDomain(tx, s.Domain) }
func (d *DNSSEC) AfterSave(tx *gorm.DB) error   { return touchDomain(tx, d.Domain) }
func (d *Dynamic) AfterSave(tx *gorm.DB) error  { return touchDomain(tx, d.Domain) }
func (h *Host) AfterDelete(tx *gorm.DB) error   { return touchDomain(tx, h.Domain) }
func (d *DNSSEC) AfterDelete(tx *gorm.DB) error { return touchDomain(tx, d.Domain) }
