package dnssec

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/0xERR0R/zonegen/log"
	"github.com/0xERR0R/zonegen/parsers"
)

const (
	PublicKeySuffix  = ".key"
	PrivateKeySuffix = ".private"

	timestampLayout = "20060102150405"
)

var (
	ErrBadTimestamp     = errors.New("failed to parse timestamp")
	ErrMissingTimestamp = errors.New("missing timestamp")
	ErrUnhandledLine    = errors.New("unhandled line")
	ErrSecondKey        = errors.New("found second DNSKEY")
	ErrDomainMismatch   = errors.New("key owner does not match domain")
	ErrBadFilename      = errors.New("bad key filename")
	ErrNoKey            = errors.New("could not find a DNSKEY")
)

var timestampRe = regexp.MustCompile(`^\d{14}$`)

// Key is a DNSSEC key pair as imported from dnssec-keygen files
type Key struct {
	Zone         string
	KeyID        uint16
	KSK          bool
	Algorithm    uint8
	DigestSHA1   string
	DigestSHA256 string
	KeyPub       string

	// StKeyPub and StKeyPriv keep the verbatim file contents
	StKeyPub  string
	StKeyPriv string

	TSCreated  time.Time
	TSActivate time.Time
	TSPublish  time.Time
}

// Filename returns the base name dnssec-keygen uses for the key, without a suffix
func (k *Key) Filename() string {
	return fmt.Sprintf("K%s.+%03d+%d", k.Zone, k.Algorithm, k.KeyID)
}

// ParseTimestamp parses a YYYYMMDDHHMMSS key timestamp as UTC
func ParseTimestamp(st string) (time.Time, error) {
	if !timestampRe.MatchString(st) {
		return time.Time{}, fmt.Errorf("%w %q", ErrBadTimestamp, st)
	}

	ts, err := time.ParseInLocation(timestampLayout, st, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %v", ErrBadTimestamp, st, err)
	}

	return ts, nil
}

// ParseKeyFiles parses the contents of a .key and a .private file.
//
// It returns nil when the public part carries no DNSKEY. An empty domain accepts any owner.
func ParseKeyFiles(ctx context.Context, domain, pub, priv string) (*Key, error) {
	var pubKey *PubKey

	err := parsers.ForEach(ctx, parsers.ParsedLines(strings.NewReader(pub), true), func(line *parsers.ParsedLine) error {
		if line.Type != "DNSKEY" {
			return fmt.Errorf("%w: %s", ErrUnhandledLine, line)
		}

		if pubKey != nil {
			return fmt.Errorf("%w: %s", ErrSecondKey, line)
		}

		log.FromCtx(ctx).Debugf("parsing: %s", line)

		var err error

		pubKey, err = ParsePubKeyLine(*line)

		return err
	})
	if err != nil {
		return nil, err
	}

	if pubKey == nil {
		return nil, nil
	}

	if len(domain) > 0 && pubKey.Zone != domain {
		return nil, fmt.Errorf("%w: found %q, expected %q", ErrDomainMismatch, pubKey.Zone, domain)
	}

	res := &Key{
		Zone:         pubKey.Zone,
		KeyID:        pubKey.KeyID,
		KSK:          pubKey.KSK,
		Algorithm:    pubKey.Algorithm,
		DigestSHA1:   pubKey.DigestSHA1,
		DigestSHA256: pubKey.DigestSHA256,
		KeyPub:       pubKey.KeyPub,
		StKeyPub:     pub,
		StKeyPriv:    priv,
	}

	if err := parsePrivateTimestamps(res, priv); err != nil {
		return nil, err
	}

	return res, nil
}

func parsePrivateTimestamps(key *Key, priv string) error {
	targets := map[string]*time.Time{
		"Created":  &key.TSCreated,
		"Publish":  &key.TSPublish,
		"Activate": &key.TSActivate,
	}

	for _, line := range strings.Split(priv, "\n") {
		name, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}

		target, ok := targets[strings.TrimSpace(name)]
		if !ok {
			continue
		}

		ts, err := ParseTimestamp(strings.TrimSpace(value))
		if err != nil {
			return err
		}

		*target = ts
	}

	for _, name := range []string{"Created", "Activate", "Publish"} {
		if targets[name].IsZero() {
			return fmt.Errorf("%w: no %s timestamp", ErrMissingTimestamp, name)
		}
	}

	return nil
}

// ParseKeyFile reads a key pair given the name of either of its files
func ParseKeyFile(ctx context.Context, filename, domain string) (*Key, error) {
	var base string

	switch {
	case strings.HasSuffix(filename, PublicKeySuffix):
		base = strings.TrimSuffix(filename, PublicKeySuffix)
	case strings.HasSuffix(filename, PrivateKeySuffix):
		base = strings.TrimSuffix(filename, PrivateKeySuffix)
	default:
		return nil, fmt.Errorf("%w: %s", ErrBadFilename, filename)
	}

	logger := log.FromCtx(ctx)
	logger.Debugf("importing key from %s", filename)

	pubFile := base + PublicKeySuffix
	privFile := base + PrivateKeySuffix

	pub, err := os.ReadFile(pubFile)
	if err != nil {
		return nil, fmt.Errorf("can't read public key: %w", err)
	}

	priv, err := os.ReadFile(privFile)
	if err != nil {
		return nil, fmt.Errorf("can't read private key: %w", err)
	}

	res, err := ParseKeyFiles(ctx, domain, string(pub), string(priv))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", pubFile, err)
	}

	if res == nil {
		return nil, fmt.Errorf("%w in %s", ErrNoKey, pubFile)
	}

	return res, nil
}
