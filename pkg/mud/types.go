package mud

import "strings"

// MatchType selects which kind of peer a rule matches.
type MatchType int

const (
	IsLocal MatchType = iota + 1 // reserved, no builder emits it
	IsManufacturer
	IsController
	IsCloud
	IsMyController
	IsSameManufacturer
)

var matchTypeTokens = map[MatchType]string{
	IsLocal:            "local",
	IsManufacturer:     "manufacturer",
	IsController:       "controller",
	IsCloud:            "cloud",
	IsMyController:     "my-controller",
	IsSameManufacturer: "same-manufacturer",
}

func (m MatchType) String() string {
	if s, ok := matchTypeTokens[m]; ok {
		return s
	}
	return "MatchType(" + itoa(int(m)) + ")"
}

func (m MatchType) MarshalText() ([]byte, error) {
	s, ok := matchTypeTokens[m]
	if !ok {
		return nil, invalid("match type", m)
	}
	return []byte(s), nil
}

func (m *MatchType) UnmarshalText(b []byte) error {
	v, err := ParseMatchType(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// ParseMatchType accepts the text tokens used in rule files, case-insensitively.
func ParseMatchType(s string) (MatchType, error) {
	token := strings.ToLower(strings.TrimSpace(s))
	for m, t := range matchTypeTokens {
		if t == token {
			return m, nil
		}
	}
	return 0, invalid("match type", s)
}

// IPVersion is the IP family of an ACL. Both is only valid as a request to
// expand into one IPv4 and one IPv6 ACL.
type IPVersion int

const (
	IPv4 IPVersion = iota + 1
	IPv6
	Both
)

var ipVersionTokens = map[IPVersion]string{
	IPv4: "ipv4",
	IPv6: "ipv6",
	Both: "both",
}

func (v IPVersion) String() string {
	if s, ok := ipVersionTokens[v]; ok {
		return s
	}
	return "IPVersion(" + itoa(int(v)) + ")"
}

func (v IPVersion) MarshalText() ([]byte, error) {
	s, ok := ipVersionTokens[v]
	if !ok {
		return nil, invalid("ip version", v)
	}
	return []byte(s), nil
}

func (v *IPVersion) UnmarshalText(b []byte) error {
	parsed, err := ParseIPVersion(string(b))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func ParseIPVersion(s string) (IPVersion, error) {
	token := strings.ToLower(strings.TrimSpace(s))
	switch token {
	case "v4", "4":
		return IPv4, nil
	case "v6", "6":
		return IPv6, nil
	}
	for v, t := range ipVersionTokens {
		if t == token {
			return v, nil
		}
	}
	return 0, invalid("ip version", s)
}

// Concrete returns the versions Both expands to, or v itself.
func (v IPVersion) Concrete() ([]IPVersion, error) {
	switch v {
	case IPv4, IPv6:
		return []IPVersion{v}, nil
	case Both:
		return []IPVersion{IPv4, IPv6}, nil
	}
	return nil, invalid("ip version", v)
}

// Protocol is the transport a rule applies to. Any means no transport match.
type Protocol int

const (
	TCP Protocol = iota + 1
	UDP
	Any
)

var protocolTokens = map[Protocol]string{
	TCP: "tcp",
	UDP: "udp",
	Any: "any",
}

func (p Protocol) String() string {
	if s, ok := protocolTokens[p]; ok {
		return s
	}
	return "Protocol(" + itoa(int(p)) + ")"
}

func (p Protocol) MarshalText() ([]byte, error) {
	s, ok := protocolTokens[p]
	if !ok {
		return nil, invalid("protocol", p)
	}
	return []byte(s), nil
}

func (p *Protocol) UnmarshalText(b []byte) error {
	parsed, err := ParseProtocol(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func ParseProtocol(s string) (Protocol, error) {
	token := strings.ToLower(strings.TrimSpace(s))
	for p, t := range protocolTokens {
		if t == token {
			return p, nil
		}
	}
	return 0, invalid("protocol", s)
}

// Direction is either the policy a rule belongs to or the side that
// initiated a TCP connection. Callers keep the two in separate fields.
type Direction int

const (
	ToDevice Direction = iota + 1
	FromDevice
)

var directionTokens = map[Direction]string{
	ToDevice:   "to-device",
	FromDevice: "from-device",
}

func (d Direction) String() string {
	if s, ok := directionTokens[d]; ok {
		return s
	}
	return "Direction(" + itoa(int(d)) + ")"
}

// Valid reports whether d is one of the two directions.
func (d Direction) Valid() bool {
	_, ok := directionTokens[d]
	return ok
}

func (d Direction) MarshalText() ([]byte, error) {
	s, ok := directionTokens[d]
	if !ok {
		return nil, invalid("direction", d)
	}
	return []byte(s), nil
}

func (d *Direction) UnmarshalText(b []byte) error {
	parsed, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func ParseDirection(s string) (Direction, error) {
	token := strings.ToLower(strings.TrimSpace(s))
	switch token {
	case "to", "todev":
		return ToDevice, nil
	case "from", "fr", "frdev":
		return FromDevice, nil
	}
	for d, t := range directionTokens {
		if t == token {
			return d, nil
		}
	}
	return 0, invalid("direction", s)
}
