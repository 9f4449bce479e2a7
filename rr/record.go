package rr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// nolint:gochecknoglobals
var validate = validator.New()

// Base holds the fields every record has.
//
// An empty Hostname is the zone apex. A zero TTL inherits the zone ttl.
type Base struct {
	Domain   string `validate:"required"`
	Hostname string
	TTL      time.Duration `validate:"gte=0"`
}

// Header gives access to the shared fields of a record
func (b *Base) Header() *Base {
	return b
}

// CookedHostname is the owner name written to the zone file
func (b *Base) CookedHostname() string {
	return b.Hostname
}

// AssociatedHostname is the host the record is listed next to
func (b *Base) AssociatedHostname() string {
	return b.Hostname
}

// SortKey orders records within a list
func (b *Base) SortKey() string {
	return b.Hostname
}

// Record is a single resource record of any supported type
type Record interface {
	// Type is the record type written to the zone file
	Type() string
	Records() ([]StringRecord, error)
	CookedHostname() string
	AssociatedHostname() string
	SortKey() string
	Header() *Base
}

// StringRecord is the rendered data of a record, before it is laid out in columns
type StringRecord struct {
	Text      string
	Multiline []string
	Comment   string

	// Hostname overrides the cooked hostname of the record
	Hostname *string
	// Type overrides the type of the record
	Type string

	// NeedsDot forces (or suppresses) a trailing dot.
	// When unset, AutoDot > 0 adds it if Text has at least AutoDot dots.
	NeedsDot *bool
	AutoDot  int
}

func (s StringRecord) needsDot() bool {
	if s.NeedsDot != nil {
		return *s.NeedsDot
	}

	return s.AutoDot > 0 && strings.Count(s.Text, ".") >= s.AutoDot
}

// BadRecordError is returned when a record can't be rendered
type BadRecordError struct {
	Reason string
	Record Record
}

func (e *BadRecordError) Error() string {
	h := e.Record.Header()

	return fmt.Sprintf("%s: %s record %q of %s", e.Reason, e.Record.Type(), h.Hostname, h.Domain)
}

func badRecord(rec Record, format string, args ...interface{}) error {
	return &BadRecordError{Reason: fmt.Sprintf(format, args...), Record: rec}
}

// Render returns the zone file lines of rec, each terminated by a newline
func Render(rec Record) (string, error) {
	return render(rec, nil)
}

// RenderOwner is Render with owner in place of the cooked hostname.
// An empty owner continues the owner of the previous line.
func RenderOwner(rec Record, owner string) (string, error) {
	return render(rec, &owner)
}

func render(rec Record, owner *string) (string, error) {
	if err := Validate(rec); err != nil {
		return "", err
	}

	records, err := rec.Records()
	if err != nil {
		return "", err
	}

	var sb strings.Builder

	for _, r := range records {
		if len(r.Text) == 0 && len(r.Multiline) == 0 {
			return "", badRecord(rec, "record is missing the data")
		}

		needsDot := r.needsDot()

		if needsDot && len(r.Multiline) > 0 {
			return "", badRecord(rec, "cannot use needsdot with multiline strings")
		}

		text := r.Text
		if needsDot && !strings.HasSuffix(text, ".") {
			text += "."
		}

		hostname := rec.CookedHostname()

		switch {
		case r.Hostname != nil:
			hostname = *r.Hostname
		case owner != nil:
			hostname = *owner
		}

		if hostname == "." {
			hostname = ""
		}

		rrType := rec.Type()
		if len(r.Type) > 0 {
			rrType = r.Type
		}

		line, err := FormatRecord(hostname, rec.Header().TTL, rrType, text, r.Multiline, r.Comment)
		if err != nil {
			return "", badRecord(rec, "%v", err)
		}

		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	return sb.String(), nil
}

// Validate checks the field values of rec
func Validate(rec Record) error {
	err := validate.Struct(rec)

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return badRecord(rec, "invalid field %s (%s)", verrs[0].Namespace(), verrs[0].Tag())
	}

	return err
}

// Sort orders records by their sort key, keeping the original order of equal keys
func Sort[T Record](records []T) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].SortKey() < records[j].SortKey()
	})
}

// Sorted returns a sorted copy of records
func Sorted[T Record](records []T) []T {
	res := make([]T, len(records))
	copy(res, records)

	Sort(res)

	return res
}

func boolPtr(v bool) *bool {
	return &v
}
