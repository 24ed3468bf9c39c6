package mud

import "regexp"

// MaxTargetLength caps the target string of any match.
const MaxTargetLength = 140

var (
	domainPattern = regexp.MustCompile(`^([a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,3}$`)
	urlPattern    = regexp.MustCompile(`^https?://[^\s/$.?#][^\s]*$`)
	urnPattern    = regexp.MustCompile(`^urn:[a-zA-Z0-9][a-zA-Z0-9-]{0,31}:[^\s]+$`)
)

// IsDomainName reports whether s looks like a DNS name with a 2-3 letter TLD.
func IsDomainName(s string) bool {
	return domainPattern.MatchString(s)
}

// IsControllerURI reports whether s is an http(s) URL or a URN.
func IsControllerURI(s string) bool {
	return urlPattern.MatchString(s) || urnPattern.MatchString(s)
}

// Match is one of CloudMatch, ControllerMatch, MyControllerMatch,
// ManufacturerMatch or SameManufacturerMatch. The interface is sealed.
type Match interface {
	Type() MatchType
	isMatch()
}

// CloudMatch matches a DNS name at the network layer (ietf-acldns).
type CloudMatch struct {
	Domain    string
	Direction Direction
}

// ControllerMatch matches a class of controllers by URI.
type ControllerMatch struct {
	URI string
}

// MyControllerMatch matches the controllers configured for this device.
type MyControllerMatch struct{}

// ManufacturerMatch matches devices whose MUD URL has the given authority.
type ManufacturerMatch struct {
	Domain string
}

// SameManufacturerMatch matches devices from this device's manufacturer.
type SameManufacturerMatch struct{}

func (CloudMatch) Type() MatchType            { return IsCloud }
func (ControllerMatch) Type() MatchType       { return IsController }
func (MyControllerMatch) Type() MatchType     { return IsMyController }
func (ManufacturerMatch) Type() MatchType     { return IsManufacturer }
func (SameManufacturerMatch) Type() MatchType { return IsSameManufacturer }

func (CloudMatch) isMatch()            {}
func (ControllerMatch) isMatch()       {}
func (MyControllerMatch) isMatch()     {}
func (ManufacturerMatch) isMatch()     {}
func (SameManufacturerMatch) isMatch() {}

// NewCloudMatch builds a DNS match. The name is the packet source for
// to-device policies and the destination for from-device policies.
func NewCloudMatch(domain string, d Direction) (CloudMatch, error) {
	if !IsDomainName(domain) {
		return CloudMatch{}, invalidf("domain", domain, "not a valid domain name")
	}
	if !d.Valid() {
		return CloudMatch{}, invalid("direction", d)
	}
	return CloudMatch{Domain: domain, Direction: d}, nil
}

func NewControllerMatch(uri string) (ControllerMatch, error) {
	if !IsControllerURI(uri) {
		return ControllerMatch{}, invalidf("controller", uri, "not an http(s) URL or URN")
	}
	return ControllerMatch{URI: uri}, nil
}

func NewMyControllerMatch() MyControllerMatch {
	return MyControllerMatch{}
}

func NewManufacturerMatch(domain string) (ManufacturerMatch, error) {
	if !IsDomainName(domain) {
		return ManufacturerMatch{}, invalidf("manufacturer", domain, "not a valid domain name")
	}
	return ManufacturerMatch{Domain: domain}, nil
}

func NewSameManufacturerMatch() SameManufacturerMatch {
	return SameManufacturerMatch{}
}

// BuildMatch validates target and returns the match for m.
func BuildMatch(m MatchType, target string, d Direction) (Match, error) {
	if len(target) > MaxTargetLength {
		return nil, invalidf("target", target, "longer than %d characters", MaxTargetLength)
	}
	var (
		match Match
		err   error
	)
	switch m {
	case IsCloud:
		match, err = NewCloudMatch(target, d)
	case IsController:
		match, err = NewControllerMatch(target)
	case IsMyController:
		match = NewMyControllerMatch()
	case IsManufacturer:
		match, err = NewManufacturerMatch(target)
	case IsSameManufacturer:
		match = NewSameManufacturerMatch()
	default:
		return nil, invalidf("match type", m, "no match builder")
	}
	if err != nil {
		return nil, err
	}
	return match, nil
}
