package mud

// PortOperatorEq is the only port operator emitted.
const PortOperatorEq = "eq"

// PortMatch is a single-port comparison.
type PortMatch struct {
	Operator string `json:"operator"`
	Port     int    `json:"port"`
}

// PortRange is the "tcp" match block. A nil port or zero Initiated means
// the field is unconstrained.
type PortRange struct {
	Initiated       Direction  `json:"ietf-mud:direction-initiated,omitempty"`
	SourcePort      *PortMatch `json:"source-port,omitempty"`
	DestinationPort *PortMatch `json:"destination-port,omitempty"`
}

// NewPortRange builds a port range. An initiation direction outside the
// two valid values is dropped rather than rejected.
func NewPortRange(initiated Direction, source, destination *int) PortRange {
	var pr PortRange
	if initiated.Valid() {
		pr.Initiated = initiated
	}
	if source != nil {
		pr.SourcePort = &PortMatch{Operator: PortOperatorEq, Port: *source}
	}
	if destination != nil {
		pr.DestinationPort = &PortMatch{Operator: PortOperatorEq, Port: *destination}
	}
	return pr
}

// Port returns a pointer to p, for optional port arguments.
func Port(p int) *int {
	return &p
}

func validatePort(field string, p *int) error {
	if p != nil && (*p < 0 || *p > 65535) {
		return invalidf(field, *p, "outside 0-65535")
	}
	return nil
}
