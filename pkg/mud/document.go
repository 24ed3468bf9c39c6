package mud

import (
	"fmt"
	"time"
)

// Document is a complete MUD file.
type Document struct {
	MUD  MUDContainer `json:"ietf-mud:mud"`
	ACLs ACLContainer `json:"ietf-access-control-list:acls"`
}

// MUDContainer carries the support-info fields at its top level next to
// the two policies.
type MUDContainer struct {
	SupportInfo
	ToDevicePolicy   *Policy `json:"to-device-policy,omitempty"`
	FromDevicePolicy *Policy `json:"from-device-policy,omitempty"`
}

type ACLContainer struct {
	ACL []ACL `json:"acl"`
}

// NewDocument assembles a document from parts that were already built.
// ACL names must be unique, each direction may have at most one policy,
// and every policy reference must name one of acls.
func NewDocument(info SupportInfo, policies []Policy, acls []ACL) (*Document, error) {
	names := make(map[string]struct{}, len(acls))
	for _, acl := range acls {
		if _, dup := names[acl.Name]; dup {
			return nil, invalidf("acl name", acl.Name, "duplicate ACL name")
		}
		names[acl.Name] = struct{}{}
	}

	doc := &Document{
		MUD:  MUDContainer{SupportInfo: info},
		ACLs: ACLContainer{ACL: make([]ACL, len(acls))},
	}
	copy(doc.ACLs.ACL, acls)

	for i := range policies {
		policy := policies[i]
		for _, name := range policy.ACLNames {
			if _, ok := names[name]; !ok {
				return nil, invalidf("policy", name, "references an unknown ACL")
			}
		}
		var slot **Policy
		switch policy.Direction {
		case ToDevice:
			slot = &doc.MUD.ToDevicePolicy
		case FromDevice:
			slot = &doc.MUD.FromDevicePolicy
		default:
			return nil, invalid("direction", policy.Direction)
		}
		if *slot != nil {
			return nil, invalidf("policy", policy.Direction, "more than one policy for this direction")
		}
		*slot = &policy
	}
	return doc, nil
}

// DocumentConfig is the raw input for BuildDocument.
type DocumentConfig struct {
	Support SupportInfoConfig
	// Now overrides the clock used for the default last-update.
	Now func() time.Time
	// MUDName is the base for rules that carry neither a name nor a base.
	MUDName string
	Rules   []ACLParams
}

// BuildDocument builds support info, ACLs and policies from raw fields.
func BuildDocument(cfg DocumentConfig) (*Document, error) {
	info, err := NewSupportInfo(cfg.Support, cfg.Now)
	if err != nil {
		return nil, err
	}
	var acls []ACL
	for i, rule := range cfg.Rules {
		built, err := BuildACLs(rule.WithBaseName(cfg.MUDName, i+1))
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i+1, err)
		}
		acls = append(acls, built...)
	}
	policies, err := PoliciesFor(acls)
	if err != nil {
		return nil, err
	}
	return NewDocument(info, policies, acls)
}

// WithBaseName fills BaseName as "{mudName}-{position}" when the rule has
// no name of its own.
func (p ACLParams) WithBaseName(mudName string, position int) ACLParams {
	if p.Name == "" && p.BaseName == "" && mudName != "" {
		p.BaseName = mudName + "-" + itoa(position)
	}
	return p
}
