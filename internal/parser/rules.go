package parser

import (
	"fmt"
	"strings"

	"muddy/internal/model"
	"muddy/internal/utils"
	"muddy/pkg/mud"
)

// rawRule is a rule as text, before enum and port parsing. Every rule
// source decodes into it.
type rawRule struct {
	Name        string
	Direction   string
	Target      string
	Protocol    string
	Match       []string
	Initiated   string
	IPVersion   string
	LocalPorts  []string
	RemotePorts []string
	Service     string
	Source      string
}

func (r rawRule) toRule() (model.Rule, error) {
	rule := model.Rule{
		Name:    strings.TrimSpace(r.Name),
		Target:  strings.TrimSpace(r.Target),
		Service: strings.TrimSpace(r.Service),
		Source:  r.Source,
	}

	if strings.TrimSpace(r.Direction) == "" {
		return rule, fmt.Errorf("%s: direction must be set", r.Source)
	}
	direction, err := mud.ParseDirection(r.Direction)
	if err != nil {
		return rule, fmt.Errorf("%s: %w", r.Source, err)
	}
	rule.Direction = direction

	if len(r.Match) == 0 {
		return rule, fmt.Errorf("%s: at least one match type must be set", r.Source)
	}
	for _, m := range r.Match {
		matchType, err := mud.ParseMatchType(m)
		if err != nil {
			return rule, fmt.Errorf("%s: %w", r.Source, err)
		}
		rule.MatchTypes = append(rule.MatchTypes, matchType)
	}

	if strings.TrimSpace(r.Protocol) != "" {
		if rule.Protocol, err = mud.ParseProtocol(r.Protocol); err != nil {
			return rule, fmt.Errorf("%s: %w", r.Source, err)
		}
	}
	if strings.TrimSpace(r.Initiated) != "" {
		if rule.Initiated, err = mud.ParseDirection(r.Initiated); err != nil {
			return rule, fmt.Errorf("%s: initiated: %w", r.Source, err)
		}
	}
	if strings.TrimSpace(r.IPVersion) != "" {
		if rule.IPVersion, err = mud.ParseIPVersion(r.IPVersion); err != nil {
			return rule, fmt.Errorf("%s: %w", r.Source, err)
		}
	}

	if rule.LocalPorts, err = utils.ParsePorts(r.LocalPorts); err != nil {
		return rule, fmt.Errorf("%s: local ports: %w", r.Source, err)
	}
	if rule.RemotePorts, err = utils.ParsePorts(r.RemotePorts); err != nil {
		return rule, fmt.Errorf("%s: remote ports: %w", r.Source, err)
	}
	return rule, nil
}
