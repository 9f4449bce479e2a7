package rr

import (
	"fmt"
	"strings"

	"github.com/0xERR0R/zonegen/dnssec"
)

// DNSSEC is a key pair of a zone. It renders as a DNSKEY in the zone itself and as a DS in the parent.
type DNSSEC struct {
	Base
	dnssec.Key
}

// NewDNSSEC wraps imported key material for domain
func NewDNSSEC(domain string, key *dnssec.Key) *DNSSEC {
	return &DNSSEC{Base: Base{Domain: domain}, Key: *key}
}

// Flags returns the DNSKEY flags of the key
func (d *DNSSEC) Flags() uint16 {
	if d.KSK {
		return dnssec.FlagsKSK
	}

	return dnssec.FlagsZSK
}

// Type is the type of the key in its own zone
func (d *DNSSEC) Type() string {
	return "DNSKEY"
}

// Records renders the key as a DNSKEY
func (d *DNSSEC) Records() ([]StringRecord, error) {
	return NewDNSKEY(d).Records()
}

// DNSKEY renders a key in its own zone
type DNSKEY struct {
	DNSSEC
}

func NewDNSKEY(key *DNSSEC) *DNSKEY {
	return &DNSKEY{DNSSEC: *key}
}

func (k *DNSKEY) Type() string {
	return "DNSKEY"
}

func (k *DNSKEY) Records() ([]StringRecord, error) {
	role := "ZSK"
	if k.KSK {
		role = "KSK"
	}

	alg, err := dnssec.AlgorithmName(k.Algorithm)
	if err != nil {
		return nil, badRecord(k, "%v", err)
	}

	return []StringRecord{{
		Text:      fmt.Sprintf("%d %d %d", k.Flags(), dnssec.Protocol, k.Algorithm),
		Multiline: strings.Fields(k.KeyPub),
		Comment:   fmt.Sprintf("%s ; alg = %s ; key id = %d", role, alg, k.KeyID),
	}}, nil
}

// DS renders the delegation signer of a key. Only the digests that are set are rendered.
type DS struct {
	DNSSEC
}

func NewDS(key *DNSSEC) *DS {
	return &DS{DNSSEC: *key}
}

func (d *DS) Type() string {
	return "DS"
}

func (d *DS) Records() ([]StringRecord, error) {
	res := make([]StringRecord, 0, 2) // nolint:gomnd

	if len(d.DigestSHA1) > 0 {
		res = append(res, StringRecord{
			Text: fmt.Sprintf("%d %d %d %s", d.KeyID, d.Algorithm, dnssec.DigestSHA1, d.DigestSHA1),
		})
	}

	if len(d.DigestSHA256) > 0 {
		res = append(res, StringRecord{
			Text: fmt.Sprintf("%d %d %d %s", d.KeyID, d.Algorithm, dnssec.DigestSHA256, d.DigestSHA256),
		})
	}

	if len(res) == 0 {
		return nil, badRecord(d, "DS without digests")
	}

	return res, nil
}
