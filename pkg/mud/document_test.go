package mud

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

var fixedNow = func() time.Time {
	return time.Date(2026, 10, 16, 12, 30, 0, 0, time.FixedZone("CEST", 2*60*60))
}

func sampleConfig() DocumentConfig {
	return DocumentConfig{
		Support: SupportInfoConfig{
			MUDVersion:    1,
			MUDURL:        "https://things.example.com/lightbulb.json",
			CacheValidity: 48,
			IsSupported:   true,
			SystemInfo:    "Smart light bulb",
			MfgName:       "Example",
		},
		Now:     fixedNow,
		MUDName: "mud-42",
		Rules: []ACLParams{
			{ACEParams: ACEParams{
				Direction:   FromDevice,
				Target:      "api.example.com",
				Protocol:    TCP,
				MatchTypes:  []MatchType{IsCloud},
				Initiated:   FromDevice,
				IPVersion:   Both,
				RemotePorts: []int{443},
			}},
			{ACEParams: ACEParams{
				Direction:  ToDevice,
				Target:     "https://ctrl.example.com",
				Protocol:   UDP,
				MatchTypes: []MatchType{IsController, IsMyController},
				IPVersion:  IPv4,
			}},
			{
				ACEParams: ACEParams{
					Direction:  FromDevice,
					Protocol:   Any,
					MatchTypes: []MatchType{IsSameManufacturer},
					IPVersion:  IPv6,
				},
				Name: "same-mfg",
			},
		},
	}
}

func decode(t *testing.T, doc *Document) map[string]any {
	t.Helper()
	b, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("failed to marshal document: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("failed to unmarshal document: %v", err)
	}
	return out
}

func TestNewSupportInfoFormatsTimestampWithOffset(t *testing.T) {
	info, err := NewSupportInfo(SupportInfoConfig{MUDVersion: 1, MUDURL: "https://x.example.com/m.json"}, fixedNow)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if info.LastUpdate != "2026-10-16T12:30:00+02:00" {
		t.Fatalf("unexpected last-update %s", info.LastUpdate)
	}

	utc := func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	info, _ = NewSupportInfo(SupportInfoConfig{MUDVersion: 1, MUDURL: "https://x.example.com/m.json"}, utc)
	if info.LastUpdate != "2026-01-02T03:04:05+00:00" {
		t.Fatalf("expected numeric UTC offset, got %s", info.LastUpdate)
	}

	explicit := time.Date(2020, 5, 6, 7, 8, 9, 0, time.UTC)
	info, _ = NewSupportInfo(SupportInfoConfig{MUDVersion: 1, MUDURL: "https://x.example.com/m.json", LastUpdate: explicit}, fixedNow)
	if info.LastUpdate != "2020-05-06T07:08:09+00:00" {
		t.Fatalf("expected explicit timestamp to win, got %s", info.LastUpdate)
	}
}

func TestNewSupportInfoValidates(t *testing.T) {
	cases := map[string]SupportInfoConfig{
		"version":  {MUDVersion: 0, MUDURL: "https://x.example.com"},
		"url":      {MUDVersion: 1, MUDURL: " "},
		"validity": {MUDVersion: 1, MUDURL: "https://x.example.com", CacheValidity: -1},
	}
	for name, cfg := range cases {
		_, err := NewSupportInfo(cfg, fixedNow)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("%s: expected ValidationError, got %v", name, err)
		}
	}
}

func TestBuildDocumentShape(t *testing.T) {
	doc, err := BuildDocument(sampleConfig())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	out := decode(t, doc)

	container, ok := out["ietf-mud:mud"].(map[string]any)
	if !ok {
		t.Fatalf("expected ietf-mud:mud container, got %v", out)
	}
	if container["mud-version"] != float64(1) || container["mud-url"] != "https://things.example.com/lightbulb.json" {
		t.Fatalf("support info not merged into container: %v", container)
	}
	if container["mfg-name"] != "Example" {
		t.Fatalf("expected mfg-name, got %v", container["mfg-name"])
	}
	for _, absent := range []string{"model-name", "firmware-rev", "software-rev", "masa-server", "documentation"} {
		if _, ok := container[absent]; ok {
			t.Errorf("expected optional %q to be omitted", absent)
		}
	}

	from := policyNames(t, container, "from-device-policy")
	wantFrom := []string{"mud-42-1-v4fr", "mud-42-1-v6fr", "same-mfg"}
	if !equalStrings(from, wantFrom) {
		t.Fatalf("expected from-device policy %v, got %v", wantFrom, from)
	}
	to := policyNames(t, container, "to-device-policy")
	if !equalStrings(to, []string{"mud-42-2-v4to"}) {
		t.Fatalf("expected to-device policy [mud-42-2-v4to], got %v", to)
	}

	acls := out["ietf-access-control-list:acls"].(map[string]any)["acl"].([]any)
	if len(acls) != 4 {
		t.Fatalf("expected 4 ACLs, got %d", len(acls))
	}
	names := make(map[string]bool)
	for _, raw := range acls {
		acl := raw.(map[string]any)
		name := acl["name"].(string)
		if names[name] {
			t.Errorf("duplicate ACL name %s", name)
		}
		names[name] = true
		if acl["type"] != "ipv4" && acl["type"] != "ipv6" {
			t.Errorf("ACL %s has type %v", name, acl["type"])
		}
	}
}

func TestBuildDocumentEverySubACEHasExactlyOneMatch(t *testing.T) {
	doc, err := BuildDocument(sampleConfig())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	out := decode(t, doc)
	acls := out["ietf-access-control-list:acls"].(map[string]any)["acl"].([]any)
	count := 0
	for _, raw := range acls {
		aces := raw.(map[string]any)["aces"].(map[string]any)["ace"].([]any)
		for _, rawACE := range aces {
			matches := rawACE.(map[string]any)["matches"].(map[string]any)
			variants := 0
			for _, key := range []string{"ipv4", "ipv6"} {
				if ip, ok := matches[key].(map[string]any); ok {
					if _, ok := ip["ietf-acldns:src-dnsname"]; ok {
						variants++
					}
					if _, ok := ip["ietf-acldns:dst-dnsname"]; ok {
						variants++
					}
				}
			}
			if mud, ok := matches["ietf-mud:mud"].(map[string]any); ok {
				variants += len(mud)
			}
			if variants != 1 {
				t.Errorf("sub-ACE %v has %d match variants", rawACE.(map[string]any)["name"], variants)
			}
			count++
		}
	}
	if count != 5 {
		t.Fatalf("expected 5 sub-ACEs, got %d", count)
	}
}

func TestBuildDocumentIsIdempotentWithFixedClock(t *testing.T) {
	first, err := BuildDocument(sampleConfig())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	second, err := BuildDocument(sampleConfig())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if !bytes.Equal(a, b) {
		t.Fatalf("expected identical documents:\n%s\n%s", a, b)
	}
}

func TestBuildDocumentFailsWholeBuild(t *testing.T) {
	cfg := sampleConfig()
	cfg.Rules[1].Target = "ctrl.example.com"
	doc, err := BuildDocument(cfg)
	if doc != nil {
		t.Fatalf("expected no document on error")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected wrapped ValidationError, got %v", err)
	}

	cfg = sampleConfig()
	cfg.MUDName = ""
	if _, err := BuildDocument(cfg); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError when no ACL name can be derived, got %v", err)
	}
}

func TestNewDocumentValidatesParts(t *testing.T) {
	info, _ := NewSupportInfo(SupportInfoConfig{MUDVersion: 1, MUDURL: "https://x.example.com/m.json"}, fixedNow)
	acls, err := BuildACLs(cloudRule(ToDevice, IPv4))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	policy, _ := NewPolicy(ToDevice, []string{acls[0].Name})

	if _, err := NewDocument(info, []Policy{policy}, acls); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := NewDocument(info, []Policy{policy}, append(acls, acls[0])); err == nil {
		t.Errorf("expected error for duplicate ACL names")
	}
	if _, err := NewDocument(info, []Policy{policy, policy}, acls); err == nil {
		t.Errorf("expected error for two to-device policies")
	}
	dangling, _ := NewPolicy(FromDevice, []string{"missing"})
	if _, err := NewDocument(info, []Policy{dangling}, acls); err == nil {
		t.Errorf("expected error for a reference to an unknown ACL")
	}
}

func TestNewPolicyRejectsInvalidInput(t *testing.T) {
	if _, err := NewPolicy(Direction(0), []string{"a"}); err == nil {
		t.Errorf("expected error for invalid direction")
	}
	if _, err := NewPolicy(ToDevice, nil); err == nil {
		t.Errorf("expected error for empty ACL list")
	}
	p, err := NewPolicy(FromDevice, []string{"a", "b"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if key, _ := p.Key(); key != "from-device-policy" {
		t.Fatalf("expected from-device-policy, got %s", key)
	}
	b, _ := json.Marshal(p)
	if string(b) != `{"access-lists":{"access-list":[{"name":"a"},{"name":"b"}]}}` {
		t.Fatalf("unexpected policy JSON %s", b)
	}
}

func TestFieldNamesAreSorted(t *testing.T) {
	names := FieldNames()
	if len(names) != len(FieldDescriptions) {
		t.Fatalf("expected %d names, got %d", len(FieldDescriptions), len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("names not sorted: %v", names)
		}
	}
}

func policyNames(t *testing.T, container map[string]any, key string) []string {
	t.Helper()
	policy, ok := container[key].(map[string]any)
	if !ok {
		t.Fatalf("expected %s, got %v", key, container[key])
	}
	list := policy["access-lists"].(map[string]any)["access-list"].([]any)
	var names []string
	for _, entry := range list {
		names = append(names, entry.(map[string]any)["name"].(string))
	}
	return names
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
