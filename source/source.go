// Package source provides the record sources a zone is assembled from.
package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/0xERR0R/zonegen/model"
)

const (
	// serials above this are date shaped (YYYYMMDDnn)
	dateSerialMin = 1000000000
	dayRevisions  = 100
)

var (
	ErrFutureSerial    = errors.New("serial is in the future")
	ErrSerialExhausted = errors.New("no serial left for today")
)

// Source provides the records of a single domain
type Source interface {
	// Name identifies the kind of source in logs
	Name() string

	// GetData returns the records of the domain, or nil if the source has nothing to contribute
	GetData(ctx context.Context) (*model.DomainData, error)

	// HasChanged reports whether the data changed since the serial was last stored
	HasChanged(ctx context.Context) (bool, error)

	// IncSerial returns the serial that follows old
	IncSerial(ctx context.Context, old uint32) (uint32, error)

	// SetSerial persists the serial, if the source can
	SetSerial(ctx context.Context, serial uint32) error
}

// Factory returns the sources of a domain. The first one is the main source.
type Factory func(ctx context.Context, domain string) ([]Source, error)

// IncSerialDate advances a date shaped serial.
//
// On the same day the revision is bumped, otherwise the first revision of today is used.
// Serials that are not date shaped are incremented by one.
func IncSerialDate(old uint32, now time.Time) (uint32, error) {
	if old <= dateSerialMin {
		return old + 1, nil
	}

	today := uint32(now.Year()*10000+int(now.Month())*100+now.Day()) * dayRevisions // nolint:gomnd

	switch {
	case old/dayRevisions == today/dayRevisions:
		if old%dayRevisions == dayRevisions-1 {
			return 0, fmt.Errorf("%w: %d", ErrSerialExhausted, old)
		}

		return old + 1, nil
	case old < today:
		return today, nil
	}

	return 0, fmt.Errorf("%w: %d", ErrFutureSerial, old)
}
