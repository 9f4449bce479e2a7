package evt

import (
	"github.com/asaskevich/EventBus"
)

const (
	// ZoneGenerated fires after a zone was rendered. Parameter: zone name, serial, record count
	ZoneGenerated = "zone:generated"

	// SerialIncremented fires if the serial of a zone was advanced. Parameter: zone name, old serial, new serial
	SerialIncremented = "zone:serialIncremented"

	// KeyImported fires if a DNSSEC key was stored. Parameter: zone name, key id, ksk flag
	KeyImported = "dnssec:keyImported"

	// LineSkipped fires if a zone file line could not be used. Parameter: zone name, error message
	LineSkipped = "parser:lineSkipped"
)

// nolint
var evtBus = EventBus.New()

func Bus() EventBus.Bus {
	return evtBus
}
