package mud

import "encoding/json"

// IANA protocol numbers carried in the ipv4/ipv6 match.
const (
	protocolNumberTCP = 6
	protocolNumberUDP = 17
)

// ForwardingAccept is the only forwarding action a sub-ACE carries.
const ForwardingAccept = "accept"

// SubACE is one access-control entry. It is built by NewSubACE or
// ExpandACE and serializes to the RFC 8520 "ace" shape.
type SubACE struct {
	Name      string
	Match     Match
	IPVersion IPVersion
	Protocol  Protocol
	// Ports is set for TCP entries only.
	Ports *PortRange
}

// SubACEParams describes a single sub-ACE. LocalPort and RemotePort are
// from the device's point of view; Initiated is the TCP initiation
// direction and is independent of Direction.
type SubACEParams struct {
	Name       string
	Direction  Direction
	Target     string
	Protocol   Protocol
	MatchType  MatchType
	Initiated  Direction
	IPVersion  IPVersion
	LocalPort  *int
	RemotePort *int
}

// NewSubACE validates p and builds the entry.
func NewSubACE(p SubACEParams) (SubACE, error) {
	match, err := BuildMatch(p.MatchType, p.Target, p.Direction)
	if err != nil {
		return SubACE{}, err
	}
	if p.Name == "" {
		return SubACE{}, invalidf("ace name", p.Name, "must not be empty")
	}
	if _, err := IPVersionKey(p.IPVersion); err != nil {
		return SubACE{}, err
	}
	if err := validatePort("local port", p.LocalPort); err != nil {
		return SubACE{}, err
	}
	if err := validatePort("remote port", p.RemotePort); err != nil {
		return SubACE{}, err
	}

	// Source/destination are packet-relative; local/remote are
	// device-relative, so the mapping flips with the policy direction.
	var source, destination *int
	switch p.Direction {
	case FromDevice:
		source, destination = p.RemotePort, p.LocalPort
	case ToDevice:
		source, destination = p.LocalPort, p.RemotePort
	default:
		return SubACE{}, invalid("direction", p.Direction)
	}

	ace := SubACE{
		Name:      p.Name,
		Match:     match,
		IPVersion: p.IPVersion,
		Protocol:  p.Protocol,
	}
	switch p.Protocol {
	case Any, UDP:
	case TCP:
		ports := NewPortRange(p.Initiated, source, destination)
		ace.Ports = &ports
	default:
		return SubACE{}, invalid("protocol", p.Protocol)
	}
	return ace, nil
}

type ipMatchJSON struct {
	Protocol   int    `json:"protocol,omitempty"`
	SrcDNSName string `json:"ietf-acldns:src-dnsname,omitempty"`
	DstDNSName string `json:"ietf-acldns:dst-dnsname,omitempty"`
}

// YANG "empty" leaves encode as [null].
type emptyLeaf []any

func present() emptyLeaf { return emptyLeaf{nil} }

type mudMatchJSON struct {
	Manufacturer     string    `json:"manufacturer,omitempty"`
	SameManufacturer emptyLeaf `json:"same-manufacturer,omitempty"`
	Controller       string    `json:"controller,omitempty"`
	MyController     emptyLeaf `json:"my-controller,omitempty"`
}

type matchesJSON struct {
	IPv4 *ipMatchJSON  `json:"ipv4,omitempty"`
	IPv6 *ipMatchJSON  `json:"ipv6,omitempty"`
	TCP  *PortRange    `json:"tcp,omitempty"`
	MUD  *mudMatchJSON `json:"ietf-mud:mud,omitempty"`
}

type actionsJSON struct {
	Forwarding string `json:"forwarding"`
}

type subACEJSON struct {
	Name    string      `json:"name"`
	Matches matchesJSON `json:"matches"`
	Actions actionsJSON `json:"actions"`
}

func (s SubACE) MarshalJSON() ([]byte, error) {
	matches, err := s.matches()
	if err != nil {
		return nil, err
	}
	return json.Marshal(subACEJSON{
		Name:    s.Name,
		Matches: matches,
		Actions: actionsJSON{Forwarding: ForwardingAccept},
	})
}

func (s SubACE) matches() (matchesJSON, error) {
	var (
		out     matchesJSON
		network *ipMatchJSON
	)
	switch m := s.Match.(type) {
	case CloudMatch:
		network = &ipMatchJSON{}
		switch m.Direction {
		case ToDevice:
			network.SrcDNSName = m.Domain
		case FromDevice:
			network.DstDNSName = m.Domain
		default:
			return out, invalid("direction", m.Direction)
		}
	case ControllerMatch:
		out.MUD = &mudMatchJSON{Controller: m.URI}
	case MyControllerMatch:
		out.MUD = &mudMatchJSON{MyController: present()}
	case ManufacturerMatch:
		out.MUD = &mudMatchJSON{Manufacturer: m.Domain}
	case SameManufacturerMatch:
		out.MUD = &mudMatchJSON{SameManufacturer: present()}
	default:
		return out, invalidf("match", s.Name, "sub-ACE has no match")
	}

	switch s.Protocol {
	case Any:
	case TCP:
		if network == nil {
			network = &ipMatchJSON{}
		}
		network.Protocol = protocolNumberTCP
		ports := PortRange{}
		if s.Ports != nil {
			ports = *s.Ports
		}
		out.TCP = &ports
	case UDP:
		if network == nil {
			network = &ipMatchJSON{}
		}
		network.Protocol = protocolNumberUDP
	default:
		return out, invalid("protocol", s.Protocol)
	}

	if network != nil {
		switch s.IPVersion {
		case IPv4:
			out.IPv4 = network
		case IPv6:
			out.IPv6 = network
		default:
			return out, invalid("ip version", s.IPVersion)
		}
	}
	return out, nil
}

// ACEParams describes one logical rule before expansion.
type ACEParams struct {
	Direction   Direction
	Target      string
	Protocol    Protocol
	MatchTypes  []MatchType
	Initiated   Direction
	IPVersion   IPVersion
	LocalPorts  []int
	RemotePorts []int
}

// ExpandACE builds one sub-ACE per (match type, local port, remote port)
// combination, in that nesting order. An empty port list stands for a
// single unconstrained port. Names take a counter that runs across the
// whole expansion, so every name in the result is distinct.
func ExpandACE(p ACEParams) ([]SubACE, error) {
	if len(p.MatchTypes) == 0 {
		return nil, invalidf("match types", p.MatchTypes, "at least one is required")
	}
	locals := portSlots(p.LocalPorts)
	remotes := portSlots(p.RemotePorts)

	aces := make([]SubACE, 0, len(p.MatchTypes)*len(locals)*len(remotes))
	index := 0
	for _, m := range p.MatchTypes {
		base, err := ACEBaseName(m)
		if err != nil {
			return nil, err
		}
		for _, local := range locals {
			for _, remote := range remotes {
				name, err := SubACEName(base, p.Direction, index)
				if err != nil {
					return nil, err
				}
				ace, err := NewSubACE(SubACEParams{
					Name:       name,
					Direction:  p.Direction,
					Target:     p.Target,
					Protocol:   p.Protocol,
					MatchType:  m,
					Initiated:  p.Initiated,
					IPVersion:  p.IPVersion,
					LocalPort:  local,
					RemotePort: remote,
				})
				if err != nil {
					return nil, err
				}
				aces = append(aces, ace)
				index++
			}
		}
	}
	return aces, nil
}

func portSlots(ports []int) []*int {
	if len(ports) == 0 {
		return []*int{nil}
	}
	slots := make([]*int, len(ports))
	for i, p := range ports {
		slots[i] = Port(p)
	}
	return slots
}
