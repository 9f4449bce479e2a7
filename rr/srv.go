package rr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrBadSRV = errors.New("bad SRV record")

// SRV is a service record, owned by _<service>._<protocol>[.<name>]
type SRV struct {
	Base
	Name     string
	Service  string `validate:"required"`
	Protocol string `validate:"oneof=tcp udp sctp dccp"`
	Priority uint16
	Weight   uint16
	Port     uint16
	Target   string `validate:"required"`
}

func (s *SRV) Type() string {
	return "SRV"
}

func (s *SRV) CookedHostname() string {
	name := "_" + s.Service + "._" + s.Protocol
	if len(s.Name) > 0 {
		name += "." + s.Name
	}

	return name
}

func (s *SRV) SortKey() string {
	return s.CookedHostname()
}

func (s *SRV) Records() ([]StringRecord, error) {
	return []StringRecord{{
		Text:     fmt.Sprintf("%d %d %d %s", s.Priority, s.Weight, s.Port, s.Target),
		NeedsDot: boolPtr(strings.Contains(s.Target, ".")),
	}}, nil
}

// ParseSRV parses the owner and the data of a SRV record
func ParseSRV(domain, owner, data string) (*SRV, error) {
	labels := strings.SplitN(owner, ".", 3) // nolint:gomnd
	if len(labels) < 2 || !strings.HasPrefix(labels[0], "_") || !strings.HasPrefix(labels[1], "_") {
		return nil, fmt.Errorf("%w: bad hostname %q", ErrBadSRV, owner)
	}

	fields := strings.Fields(data)
	if len(fields) != 4 { // nolint:gomnd
		return nil, fmt.Errorf("%w: %q", ErrBadSRV, data)
	}

	var nums [3]uint16

	for i := range nums {
		n, err := strconv.ParseUint(fields[i], 10, 16)
		if err != nil {
			return nil, fmt.Errorf("%w: bad number %q", ErrBadSRV, fields[i])
		}

		nums[i] = uint16(n)
	}

	res := &SRV{
		Base:     Base{Domain: domain},
		Service:  labels[0][1:],
		Protocol: labels[1][1:],
		Priority: nums[0],
		Weight:   nums[1],
		Port:     nums[2],
		Target:   fields[3],
	}

	if len(labels) == 3 { // nolint:gomnd
		res.Name = labels[2]
	}

	return res, nil
}
