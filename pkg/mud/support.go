package mud

import (
	"strings"
	"time"
)

// TimestampLayout is ISO-8601 with a numeric UTC offset, never "Z".
const TimestampLayout = "2006-01-02T15:04:05-07:00"

const (
	DefaultMUDVersion    = 1
	DefaultCacheValidity = 48
)

// SupportInfo holds the top-level fields of the MUD container.
type SupportInfo struct {
	MUDVersion    int      `json:"mud-version"`
	MUDURL        string   `json:"mud-url"`
	LastUpdate    string   `json:"last-update"`
	CacheValidity int      `json:"cache-validity"`
	IsSupported   bool     `json:"is-supported"`
	SystemInfo    string   `json:"systeminfo,omitempty"`
	Documentation string   `json:"documentation,omitempty"`
	MfgName       string   `json:"mfg-name,omitempty"`
	ModelName     string   `json:"model-name,omitempty"`
	FirmwareRev   string   `json:"firmware-rev,omitempty"`
	SoftwareRev   string   `json:"software-rev,omitempty"`
	MASAServer    string   `json:"masa-server,omitempty"`
	Extensions    []string `json:"extensions,omitempty"`
}

// SupportInfoConfig is the raw input for NewSupportInfo. A zero
// LastUpdate means "now".
type SupportInfoConfig struct {
	MUDVersion    int
	MUDURL        string
	LastUpdate    time.Time
	CacheValidity int
	IsSupported   bool
	SystemInfo    string
	Documentation string
	MfgName       string
	ModelName     string
	FirmwareRev   string
	SoftwareRev   string
	MASAServer    string
	Extensions    []string
}

// NewSupportInfo validates cfg. now supplies the default timestamp; nil
// uses time.Now.
func NewSupportInfo(cfg SupportInfoConfig, now func() time.Time) (SupportInfo, error) {
	if cfg.MUDVersion <= 0 {
		return SupportInfo{}, invalidf("mud-version", cfg.MUDVersion, "must be positive")
	}
	if strings.TrimSpace(cfg.MUDURL) == "" {
		return SupportInfo{}, invalidf("mud-url", cfg.MUDURL, "must be set")
	}
	if cfg.CacheValidity < 0 {
		return SupportInfo{}, invalidf("cache-validity", cfg.CacheValidity, "must not be negative")
	}

	ts := cfg.LastUpdate
	if ts.IsZero() {
		if now == nil {
			now = time.Now
		}
		ts = now()
	}

	var extensions []string
	if len(cfg.Extensions) > 0 {
		extensions = append(extensions, cfg.Extensions...)
	}

	return SupportInfo{
		MUDVersion:    cfg.MUDVersion,
		MUDURL:        cfg.MUDURL,
		LastUpdate:    ts.Format(TimestampLayout),
		CacheValidity: cfg.CacheValidity,
		IsSupported:   cfg.IsSupported,
		SystemInfo:    cfg.SystemInfo,
		Documentation: cfg.Documentation,
		MfgName:       cfg.MfgName,
		ModelName:     cfg.ModelName,
		FirmwareRev:   cfg.FirmwareRev,
		SoftwareRev:   cfg.SoftwareRev,
		MASAServer:    cfg.MASAServer,
		Extensions:    extensions,
	}, nil
}
