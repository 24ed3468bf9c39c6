package mud

import "encoding/json"

// Policy lists the ACLs attached to one policy direction.
type Policy struct {
	Direction Direction
	ACLNames  []string
}

type accessListRef struct {
	Name string `json:"name"`
}

type policyJSON struct {
	AccessLists struct {
		AccessList []accessListRef `json:"access-list"`
	} `json:"access-lists"`
}

func NewPolicy(d Direction, aclNames []string) (Policy, error) {
	if _, err := PolicyKey(d); err != nil {
		return Policy{}, err
	}
	if len(aclNames) == 0 {
		return Policy{}, invalidf("policy", d, "no access lists")
	}
	names := make([]string, len(aclNames))
	copy(names, aclNames)
	return Policy{Direction: d, ACLNames: names}, nil
}

// Key is the container key the policy is stored under.
func (p Policy) Key() (string, error) {
	return PolicyKey(p.Direction)
}

func (p Policy) MarshalJSON() ([]byte, error) {
	var out policyJSON
	out.AccessLists.AccessList = make([]accessListRef, 0, len(p.ACLNames))
	for _, name := range p.ACLNames {
		out.AccessLists.AccessList = append(out.AccessLists.AccessList, accessListRef{Name: name})
	}
	return json.Marshal(out)
}

// PoliciesFor groups ACL names by policy direction, to-device first,
// keeping ACL order within each policy.
func PoliciesFor(acls []ACL) ([]Policy, error) {
	byDirection := make(map[Direction][]string)
	for _, acl := range acls {
		if !acl.Direction.Valid() {
			return nil, invalidf("direction", acl.Direction, "acl %s has no policy direction", acl.Name)
		}
		byDirection[acl.Direction] = append(byDirection[acl.Direction], acl.Name)
	}
	var policies []Policy
	for _, d := range []Direction{ToDevice, FromDevice} {
		names := byDirection[d]
		if len(names) == 0 {
			continue
		}
		policy, err := NewPolicy(d, names)
		if err != nil {
			return nil, err
		}
		policies = append(policies, policy)
	}
	return policies, nil
}
