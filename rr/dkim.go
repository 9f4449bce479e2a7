package rr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/0xERR0R/zonegen/util"
)

var ErrBadDKIM = errors.New("bad DKIM record")

// DKIM is a DKIM key record, written as a TXT record of <selector>._domainkey[.<hostname>].
// Empty G and H are omitted.
type DKIM struct {
	Base
	Selector   string `validate:"required"`
	K          string `validate:"required"`
	KeyPub     string `validate:"required"`
	G          string
	H          string
	T          bool
	Subdomains bool
}

func (d *DKIM) Type() string {
	return "DKIM"
}

func (d *DKIM) CookedHostname() string {
	name := d.Selector + "." + domainKeyLabel
	if len(d.Hostname) > 0 {
		name += "." + d.Hostname
	}

	return name
}

func (d *DKIM) SortKey() string {
	return d.CookedHostname()
}

// tFlag encodes the testing and subdomain flags. Empty means no t= tag.
func (d *DKIM) tFlag() string {
	switch {
	case d.T && d.Subdomains:
		return "y"
	case d.T:
		return "s:y"
	case !d.Subdomains:
		return "s"
	default:
		return ""
	}
}

func (d *DKIM) Records() ([]StringRecord, error) {
	tags := []string{"v=DKIM1"}

	if len(d.G) > 0 {
		tags = append(tags, "g="+d.G)
	}

	tags = append(tags, "k="+d.K, "s=email")

	if t := d.tFlag(); len(t) > 0 {
		tags = append(tags, "t="+t)
	}

	if len(d.H) > 0 {
		tags = append(tags, "h="+d.H)
	}

	tags = append(tags, "p="+d.KeyPub)

	return []StringRecord{{
		Multiline: util.SplitTXTMultiline(strings.Join(tags, "; ")),
		Type:      "TXT",
	}}, nil
}

// IsDKIMOwner reports whether owner is a <selector>._domainkey[.<hostname>] name
func IsDKIMOwner(owner string) bool {
	return strings.HasSuffix(owner, "."+domainKeyLabel) || strings.Contains(owner, "."+domainKeyLabel+".")
}

// ParseDKIM parses the owner and the TXT data of a DKIM record
func ParseDKIM(domain, owner, data string) (*DKIM, error) {
	parts := strings.SplitN(owner, ".", 3) // nolint:gomnd
	if len(parts) < 2 || parts[1] != domainKeyLabel || len(parts[0]) == 0 {
		return nil, fmt.Errorf("%w: not a DKIM owner %q", ErrBadDKIM, owner)
	}

	// without a t= tag the key is valid for subdomains
	res := &DKIM{
		Base:       Base{Domain: domain},
		Selector:   parts[0],
		Subdomains: true,
	}

	if len(parts) > 2 { // nolint:gomnd
		res.Hostname = parts[2]
	}

	for _, entry := range strings.Split(unquote(data), ";") {
		entry = strings.TrimSpace(entry)
		if len(entry) == 0 {
			continue
		}

		key, value, found := strings.Cut(entry, "=")
		if !found {
			return nil, fmt.Errorf("%w: bad entry %q", ErrBadDKIM, entry)
		}

		if err := res.setTag(strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
			return nil, err
		}
	}

	if len(res.K) == 0 || len(res.KeyPub) == 0 {
		return nil, fmt.Errorf("%w: k and p are required: %s", ErrBadDKIM, data)
	}

	return res, nil
}

func (d *DKIM) setTag(key, value string) error {
	switch key {
	case "v":
		if value != "DKIM1" {
			return fmt.Errorf("%w: only DKIM1 is supported, found %q", ErrBadDKIM, value)
		}
	case "g":
		d.G = value
	case "k":
		d.K = value
	case "p":
		d.KeyPub = value
	case "h":
		d.H = value
	case "t":
		switch value {
		case "y":
			d.T, d.Subdomains = true, true
		case "s:y":
			d.T, d.Subdomains = true, false
		case "s":
			d.T, d.Subdomains = false, false
		case "":
		default:
			return fmt.Errorf("%w: unhandled t value %q", ErrBadDKIM, value)
		}
	}

	return nil
}

func unquote(st string) string {
	if len(st) >= 2 && st[0] == '"' && st[len(st)-1] == '"' {
		return st[1 : len(st)-1]
	}

	return st
}
