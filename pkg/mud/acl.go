package mud

// ACL is a named, IP-version-typed list of sub-ACEs. Direction records the
// policy the ACL is attached to and is not serialized.
type ACL struct {
	Name      string    `json:"name"`
	Type      IPVersion `json:"type"`
	Direction Direction `json:"-"`
	ACEs      ACEList   `json:"aces"`
}

// ACEList wraps the entries as {"ace": [...]}.
type ACEList struct {
	ACE []SubACE `json:"ace"`
}

// ACLParams describes an ACL. Name is used as-is when set; otherwise the
// name is derived from BaseName.
type ACLParams struct {
	ACEParams
	Name     string
	BaseName string
}

// NewACL builds the ACL for a single concrete IP version.
func NewACL(p ACLParams) (ACL, error) {
	if p.IPVersion != IPv4 && p.IPVersion != IPv6 {
		return ACL{}, invalidf("ip version", p.IPVersion, "an ACL needs ipv4 or ipv6, expand both first")
	}
	name := p.Name
	if name == "" {
		if p.BaseName == "" {
			return ACL{}, invalidf("acl name", name, "neither an ACL name nor a MUD base name was given")
		}
		derived, err := ACLName(p.BaseName, p.IPVersion, p.Direction)
		if err != nil {
			return ACL{}, err
		}
		name = derived
	}
	aces, err := ExpandACE(p.ACEParams)
	if err != nil {
		return ACL{}, err
	}
	return ACL{
		Name:      name,
		Type:      p.IPVersion,
		Direction: p.Direction,
		ACEs:      ACEList{ACE: aces},
	}, nil
}

// BuildACLs builds one ACL per concrete version, expanding Both into IPv4
// followed by IPv6. An explicit name shared by the pair gets the version
// suffix appended so the two stay distinct.
func BuildACLs(p ACLParams) ([]ACL, error) {
	versions, err := p.IPVersion.Concrete()
	if err != nil {
		return nil, err
	}
	acls := make([]ACL, 0, len(versions))
	for _, v := range versions {
		params := p
		params.IPVersion = v
		if p.Name != "" && len(versions) > 1 {
			suffix, err := IPVersionSuffix(v)
			if err != nil {
				return nil, err
			}
			params.Name = p.Name + suffix
		}
		acl, err := NewACL(params)
		if err != nil {
			return nil, err
		}
		acls = append(acls, acl)
	}
	return acls, nil
}
