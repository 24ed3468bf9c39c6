package mud

// Every enum-to-name mapping lives here and nowhere else. Each one is
// exhaustive over its enum and rejects anything outside it.

// IPVersionKey returns the match key ("ipv4"/"ipv6") used for a concrete
// version. Both must be expanded by the caller first.
func IPVersionKey(v IPVersion) (string, error) {
	switch v {
	case IPv4:
		return "ipv4", nil
	case IPv6:
		return "ipv6", nil
	}
	return "", invalid("ip version", v)
}

// IPVersionSuffix returns the ACL name suffix for a concrete version.
func IPVersionSuffix(v IPVersion) (string, error) {
	switch v {
	case IPv4:
		return "-v4", nil
	case IPv6:
		return "-v6", nil
	}
	return "", invalid("ip version", v)
}

// DirectionSuffix is the two-letter form used inside ACL and ACE names.
func DirectionSuffix(d Direction) (string, error) {
	switch d {
	case ToDevice:
		return "to", nil
	case FromDevice:
		return "fr", nil
	}
	return "", invalid("direction", d)
}

// DirectionPrefix is the form used in policy keys ("to-device-policy").
func DirectionPrefix(d Direction) (string, error) {
	switch d {
	case ToDevice:
		return "to", nil
	case FromDevice:
		return "from", nil
	}
	return "", invalid("direction", d)
}

// ACEBaseName returns the short name sub-ACEs of a match type start with.
func ACEBaseName(m MatchType) (string, error) {
	switch m {
	case IsCloud:
		return "cl", nil
	case IsSameManufacturer:
		return "myman", nil
	case IsManufacturer:
		return "man", nil
	case IsMyController:
		return "myctl", nil
	case IsController:
		return "ent", nil
	}
	return "", invalid("match type", m)
}

// SubACEName builds "{base}{index}-todev" or "{base}{index}-frdev".
func SubACEName(base string, d Direction, index int) (string, error) {
	suffix, err := DirectionSuffix(d)
	if err != nil {
		return "", err
	}
	return base + itoa(index) + "-" + suffix + "dev", nil
}

// ACLName derives an ACL name from a base name, e.g. "mud-42-v6fr".
func ACLName(base string, v IPVersion, d Direction) (string, error) {
	if base == "" {
		return "", invalidf("acl base name", base, "must not be empty")
	}
	versionSuffix, err := IPVersionSuffix(v)
	if err != nil {
		return "", err
	}
	directionSuffix, err := DirectionSuffix(d)
	if err != nil {
		return "", err
	}
	return base + versionSuffix + directionSuffix, nil
}

// PolicyKey returns "to-device-policy" or "from-device-policy".
func PolicyKey(d Direction) (string, error) {
	prefix, err := DirectionPrefix(d)
	if err != nil {
		return "", err
	}
	return prefix + "-device-policy", nil
}
