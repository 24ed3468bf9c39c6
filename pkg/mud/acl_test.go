package mud

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func cloudRule(direction Direction, version IPVersion) ACLParams {
	return ACLParams{
		ACEParams: ACEParams{
			Direction:   direction,
			Target:      "api.example.com",
			Protocol:    TCP,
			MatchTypes:  []MatchType{IsCloud},
			Initiated:   FromDevice,
			IPVersion:   version,
			RemotePorts: []int{443},
		},
		BaseName: "mud-42",
	}
}

func TestNewACLDerivesName(t *testing.T) {
	acl, err := NewACL(cloudRule(FromDevice, IPv6))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if acl.Name != "mud-42-v6fr" {
		t.Fatalf("expected name mud-42-v6fr, got %s", acl.Name)
	}
	if acl.Type != IPv6 || acl.Direction != FromDevice {
		t.Fatalf("expected ipv6 from-device ACL, got %s/%s", acl.Type, acl.Direction)
	}
	if len(acl.ACEs.ACE) != 1 || acl.ACEs.ACE[0].Name != "cl0-frdev" {
		t.Fatalf("expected a single cl0-frdev entry, got %#v", acl.ACEs.ACE)
	}
}

func TestNewACLPrefersExplicitName(t *testing.T) {
	p := cloudRule(ToDevice, IPv4)
	p.Name = "cloud-api"
	acl, err := NewACL(p)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if acl.Name != "cloud-api" {
		t.Fatalf("expected explicit name, got %s", acl.Name)
	}
}

func TestNewACLRejectsBothAndMissingNames(t *testing.T) {
	var verr *ValidationError
	if _, err := NewACL(cloudRule(ToDevice, Both)); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for both, got %v", err)
	}

	p := cloudRule(ToDevice, IPv4)
	p.BaseName = ""
	if _, err := NewACL(p); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError without any name, got %v", err)
	}
}

func TestBuildACLsExpandsBoth(t *testing.T) {
	acls, err := BuildACLs(cloudRule(ToDevice, Both))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(acls) != 2 {
		t.Fatalf("expected 2 ACLs, got %d", len(acls))
	}
	if acls[0].Type != IPv4 || acls[1].Type != IPv6 {
		t.Fatalf("expected ipv4 then ipv6, got %s, %s", acls[0].Type, acls[1].Type)
	}
	if acls[0].Name != "mud-42-v4to" || acls[1].Name != "mud-42-v6to" {
		t.Fatalf("unexpected names %s, %s", acls[0].Name, acls[1].Name)
	}

	for _, acl := range acls {
		b, err := json.Marshal(acl)
		if err != nil {
			t.Fatalf("failed to marshal ACL: %v", err)
		}
		var out map[string]any
		if err := json.Unmarshal(b, &out); err != nil {
			t.Fatalf("failed to unmarshal ACL: %v", err)
		}
		if out["type"] == "both" || !strings.HasPrefix(out["type"].(string), "ipv") {
			t.Errorf("expected ipv4/ipv6 type, got %v", out["type"])
		}
		if _, ok := out["Direction"]; ok {
			t.Errorf("expected direction to stay out of the ACL JSON")
		}
		aces := out["aces"].(map[string]any)["ace"].([]any)
		matches := aces[0].(map[string]any)["matches"].(map[string]any)
		if _, ok := matches[out["type"].(string)]; !ok {
			t.Errorf("expected match keyed by %v, got %v", out["type"], matches)
		}
	}
}

func TestBuildACLsSuffixesExplicitNameForBoth(t *testing.T) {
	p := cloudRule(FromDevice, Both)
	p.Name = "cloud-api"
	acls, err := BuildACLs(p)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if acls[0].Name != "cloud-api-v4" || acls[1].Name != "cloud-api-v6" {
		t.Fatalf("unexpected names %s, %s", acls[0].Name, acls[1].Name)
	}
}

func TestBuildACLsPropagatesAceErrors(t *testing.T) {
	p := cloudRule(FromDevice, Both)
	p.Target = "not a domain"
	if _, err := BuildACLs(p); err == nil {
		t.Fatalf("expected error for invalid target")
	}
	p = cloudRule(FromDevice, IPVersion(0))
	if _, err := BuildACLs(p); err == nil {
		t.Fatalf("expected error for invalid ip version")
	}
}
