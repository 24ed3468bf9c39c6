package model

import (
	"time"

	"muddy/pkg/mud"
)

// Rule is one device-communication intent as read from a rule source.
// Zero-valued enums mean "not given"; the engine fills defaults.
type Rule struct {
	Name        string // explicit ACL name, optional
	Direction   mud.Direction
	Target      string
	Protocol    mud.Protocol
	MatchTypes  []mud.MatchType
	Initiated   mud.Direction
	IPVersion   mud.IPVersion
	LocalPorts  []int
	RemotePorts []int
	Service     string // well-known service name, e.g. "https"
	Source      string // where the rule came from, e.g. "rules.csv:4"
}

// SupportOverrides carries support-info values from a config file. Nil
// fields leave the current value alone.
type SupportOverrides struct {
	MUDVersion    *int       `yaml:"mud-version"`
	MUDURL        *string    `yaml:"mud-url"`
	LastUpdate    *time.Time `yaml:"last-update"`
	CacheValidity *int       `yaml:"cache-validity"`
	IsSupported   *bool      `yaml:"is-supported"`
	SystemInfo    *string    `yaml:"systeminfo"`
	Documentation *string    `yaml:"documentation"`
	MfgName       *string    `yaml:"mfg-name"`
	ModelName     *string    `yaml:"model-name"`
	FirmwareRev   *string    `yaml:"firmware-rev"`
	SoftwareRev   *string    `yaml:"software-rev"`
	MASAServer    *string    `yaml:"masa-server"`
	Extensions    []string   `yaml:"extensions"`
}

// Apply copies every set field onto cfg.
func (o SupportOverrides) Apply(cfg *mud.SupportInfoConfig) {
	setInt(&cfg.MUDVersion, o.MUDVersion)
	setString(&cfg.MUDURL, o.MUDURL)
	if o.LastUpdate != nil {
		cfg.LastUpdate = *o.LastUpdate
	}
	setInt(&cfg.CacheValidity, o.CacheValidity)
	if o.IsSupported != nil {
		cfg.IsSupported = *o.IsSupported
	}
	setString(&cfg.SystemInfo, o.SystemInfo)
	setString(&cfg.Documentation, o.Documentation)
	setString(&cfg.MfgName, o.MfgName)
	setString(&cfg.ModelName, o.ModelName)
	setString(&cfg.FirmwareRev, o.FirmwareRev)
	setString(&cfg.SoftwareRev, o.SoftwareRev)
	setString(&cfg.MASAServer, o.MASAServer)
	if len(o.Extensions) > 0 {
		cfg.Extensions = append([]string(nil), o.Extensions...)
	}
}

// RuleSet is everything a rule source provides.
type RuleSet struct {
	MUDName string
	Support SupportOverrides
	Rules   []Rule
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
