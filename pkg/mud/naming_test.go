package mud

import (
	"errors"
	"testing"
)

func TestNamingFunctionsMapEveryValidValue(t *testing.T) {
	cases := []struct {
		name string
		fn   func() (string, error)
		want string
	}{
		{"ipv4 key", func() (string, error) { return IPVersionKey(IPv4) }, "ipv4"},
		{"ipv6 key", func() (string, error) { return IPVersionKey(IPv6) }, "ipv6"},
		{"ipv4 suffix", func() (string, error) { return IPVersionSuffix(IPv4) }, "-v4"},
		{"ipv6 suffix", func() (string, error) { return IPVersionSuffix(IPv6) }, "-v6"},
		{"to suffix", func() (string, error) { return DirectionSuffix(ToDevice) }, "to"},
		{"from suffix", func() (string, error) { return DirectionSuffix(FromDevice) }, "fr"},
		{"to prefix", func() (string, error) { return DirectionPrefix(ToDevice) }, "to"},
		{"from prefix", func() (string, error) { return DirectionPrefix(FromDevice) }, "from"},
		{"cloud base", func() (string, error) { return ACEBaseName(IsCloud) }, "cl"},
		{"same manufacturer base", func() (string, error) { return ACEBaseName(IsSameManufacturer) }, "myman"},
		{"manufacturer base", func() (string, error) { return ACEBaseName(IsManufacturer) }, "man"},
		{"my controller base", func() (string, error) { return ACEBaseName(IsMyController) }, "myctl"},
		{"controller base", func() (string, error) { return ACEBaseName(IsController) }, "ent"},
		{"sub-ace to", func() (string, error) { return SubACEName("cl", ToDevice, 3) }, "cl3-todev"},
		{"sub-ace from", func() (string, error) { return SubACEName("ent", FromDevice, 0) }, "ent0-frdev"},
		{"acl name", func() (string, error) { return ACLName("mud-42", IPv6, FromDevice) }, "mud-42-v6fr"},
		{"acl name v4 to", func() (string, error) { return ACLName("mud-42", IPv4, ToDevice) }, "mud-42-v4to"},
		{"policy key to", func() (string, error) { return PolicyKey(ToDevice) }, "to-device-policy"},
		{"policy key from", func() (string, error) { return PolicyKey(FromDevice) }, "from-device-policy"},
	}
	for _, tc := range cases {
		got, err := tc.fn()
		if err != nil {
			t.Fatalf("%s: expected no error, got %v", tc.name, err)
		}
		if got != tc.want {
			t.Errorf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestNamingFunctionsRejectOutOfEnumValues(t *testing.T) {
	calls := map[string]func() (string, error){
		"ipv key both":          func() (string, error) { return IPVersionKey(Both) },
		"ipv key zero":          func() (string, error) { return IPVersionKey(IPVersion(0)) },
		"ipv suffix both":       func() (string, error) { return IPVersionSuffix(Both) },
		"direction suffix":      func() (string, error) { return DirectionSuffix(Direction(9)) },
		"direction prefix":      func() (string, error) { return DirectionPrefix(Direction(0)) },
		"local base":            func() (string, error) { return ACEBaseName(IsLocal) },
		"unknown base":          func() (string, error) { return ACEBaseName(MatchType(77)) },
		"sub-ace bad direction": func() (string, error) { return SubACEName("cl", Direction(3), 0) },
		"acl empty base":        func() (string, error) { return ACLName("", IPv4, ToDevice) },
		"acl both":              func() (string, error) { return ACLName("mud", Both, ToDevice) },
		"policy key":            func() (string, error) { return PolicyKey(Direction(5)) },
	}
	for name, fn := range calls {
		_, err := fn()
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("%s: expected ValidationError, got %v", name, err)
		}
	}
}

func TestValidationErrorNamesTheOffendingValue(t *testing.T) {
	_, err := IPVersionKey(Both)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "ip version" || verr.Value != Both {
		t.Fatalf("expected field 'ip version' and value both, got %q / %v", verr.Field, verr.Value)
	}
	if err.Error() != "invalid ip version: both" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestParseEnumTokens(t *testing.T) {
	if d, err := ParseDirection("From-Device"); err != nil || d != FromDevice {
		t.Fatalf("expected from-device, got %v (%v)", d, err)
	}
	if d, err := ParseDirection("to"); err != nil || d != ToDevice {
		t.Fatalf("expected to-device, got %v (%v)", d, err)
	}
	if p, err := ParseProtocol("TCP"); err != nil || p != TCP {
		t.Fatalf("expected tcp, got %v (%v)", p, err)
	}
	if v, err := ParseIPVersion("both"); err != nil || v != Both {
		t.Fatalf("expected both, got %v (%v)", v, err)
	}
	if m, err := ParseMatchType("my-controller"); err != nil || m != IsMyController {
		t.Fatalf("expected my-controller, got %v (%v)", m, err)
	}

	var verr *ValidationError
	if _, err := ParseMatchType("bogus"); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for bogus match type, got %v", err)
	}
	if _, err := ParseProtocol("icmp"); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for icmp, got %v", err)
	}
}

func TestEnumTextRoundTrip(t *testing.T) {
	var d Direction
	if err := d.UnmarshalText([]byte("from-device")); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	b, err := d.MarshalText()
	if err != nil || string(b) != "from-device" {
		t.Fatalf("expected from-device, got %q (%v)", b, err)
	}
	if _, err := Direction(0).MarshalText(); err == nil {
		t.Fatalf("expected error marshalling zero direction")
	}
}

func TestConcreteExpandsBoth(t *testing.T) {
	versions, err := Both.Concrete()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(versions) != 2 || versions[0] != IPv4 || versions[1] != IPv6 {
		t.Fatalf("expected [ipv4 ipv6], got %v", versions)
	}
	if _, err := IPVersion(0).Concrete(); err == nil {
		t.Fatalf("expected error for zero ip version")
	}
}
