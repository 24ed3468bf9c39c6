package parser

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"muddy/internal/model"
	"muddy/internal/utils"
)

// stringList accepts either a scalar ("443", "cloud;controller") or a
// sequence of scalars.
type stringList []string

func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*l = utils.SplitList(value.Value)
	case yaml.SequenceNode:
		items := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: expected a scalar list item", item.Line)
			}
			items = append(items, item.Value)
		}
		*l = items
	default:
		return fmt.Errorf("line %d: expected a scalar or a list", value.Line)
	}
	return nil
}

type yamlRule struct {
	Name        string     `yaml:"name"`
	Direction   string     `yaml:"direction"`
	Target      string     `yaml:"target"`
	Protocol    string     `yaml:"protocol"`
	Match       stringList `yaml:"match"`
	Initiated   string     `yaml:"initiated"`
	IPVersion   string     `yaml:"ip-version"`
	LocalPorts  stringList `yaml:"local-ports"`
	RemotePorts stringList `yaml:"remote-ports"`
	Service     string     `yaml:"service"`
}

// YAML file structure
type ruleFileYAML struct {
	MUDName string                 `yaml:"mud-name"`
	Support model.SupportOverrides `yaml:"support"`
	Rules   []yaml.Node            `yaml:"rules"`
}

// ParseRulesYAML reads a rule file with optional "mud-name" and "support"
// sections and a "rules" list.
func ParseRulesYAML(r io.Reader, name string) (*model.RuleSet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var cfg ruleFileYAML
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	set := &model.RuleSet{
		MUDName: strings.TrimSpace(cfg.MUDName),
		Support: cfg.Support,
	}
	for i := range cfg.Rules {
		node := &cfg.Rules[i]
		var yr yamlRule
		if err := node.Decode(&yr); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", name, node.Line, err)
		}
		raw := rawRule{
			Name:        yr.Name,
			Direction:   yr.Direction,
			Target:      yr.Target,
			Protocol:    yr.Protocol,
			Match:       yr.Match,
			Initiated:   yr.Initiated,
			IPVersion:   yr.IPVersion,
			LocalPorts:  yr.LocalPorts,
			RemotePorts: yr.RemotePorts,
			Service:     yr.Service,
			Source:      fmt.Sprintf("%s:%d", name, node.Line),
		}
		rule, err := raw.toRule()
		if err != nil {
			return nil, err
		}
		set.Rules = append(set.Rules, rule)
	}
	return set, nil
}

// LoadRuleFile picks the format from the file extension.
func LoadRuleFile(path string) (*model.RuleSet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	name := filepath.Base(path)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseRulesYAML(file, name)
	case ".csv":
		rules, err := ParseRulesCSV(file, name)
		if err != nil {
			return nil, fmt.Errorf("error parsing rules file: %w", err)
		}
		return &model.RuleSet{Rules: rules}, nil
	default:
		return nil, fmt.Errorf("unsupported rules file extension %q (want .yaml, .yml or .csv)", filepath.Ext(path))
	}
}
