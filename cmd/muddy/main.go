package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"muddy/internal/engine"
	"muddy/internal/model"
	"muddy/internal/parser"
	"muddy/pkg/mud"
)

var (
	mudVersion    int
	mudURL        string
	isSupported   bool
	cacheValidity int
	systemInfo    string
	documentation string
	mfgName       string
	modelName     string
	firmwareRev   string
	softwareRev   string
	masaServer    string
	extensions    []string
	mudName       string
	ruleProvider  string
	rulesFile     string
	rulesDB       string
	deviceName    string
	outFile       string
	indent        int
	workers       int
	logLevel      string
	logFile       string
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "muddy",
		Short: "A MUD (RFC 8520) file builder",
		Long: `muddy reads device communication rules from a YAML or CSV file or a
	MariaDB table and builds a Manufacturer Usage Description file from them.`,
		SilenceUsage: true,
	}
	rootCmd.AddCommand(newMakeCmd(), newFieldsCmd())
	return rootCmd
}

func newMakeCmd() *cobra.Command {
	makeCmd := &cobra.Command{
		Use:   "make",
		Short: "Build a MUD file from a rule source",
		Args:  cobra.NoArgs,
		RunE:  runMake,
	}

	// Support info flags
	makeCmd.Flags().IntVarP(&mudVersion, "mud-version", "v", mud.DefaultMUDVersion, mud.FieldDescriptions["mud-version"])
	makeCmd.Flags().StringVarP(&mudURL, "mud-url", "u", "", mud.FieldDescriptions["mud-url"]+" (required unless set in the rules file)")
	makeCmd.Flags().BoolVarP(&isSupported, "is-supported", "s", true, mud.FieldDescriptions["is-supported"])
	makeCmd.Flags().IntVar(&cacheValidity, "cache-validity", mud.DefaultCacheValidity, mud.FieldDescriptions["cache-validity"])
	makeCmd.Flags().StringVar(&systemInfo, "systeminfo", "", mud.FieldDescriptions["systeminfo"])
	makeCmd.Flags().StringVar(&documentation, "documentation", "", mud.FieldDescriptions["documentation"])
	makeCmd.Flags().StringVar(&mfgName, "mfg-name", "", mud.FieldDescriptions["mfg-name"])
	makeCmd.Flags().StringVar(&modelName, "model-name", "", mud.FieldDescriptions["model-name"])
	makeCmd.Flags().StringVar(&firmwareRev, "firmware-rev", "", mud.FieldDescriptions["firmware-rev"])
	makeCmd.Flags().StringVar(&softwareRev, "software-rev", "", mud.FieldDescriptions["software-rev"])
	makeCmd.Flags().StringVar(&masaServer, "masa-server", "", mud.FieldDescriptions["masa-server"])
	makeCmd.Flags().StringSliceVar(&extensions, "extensions", nil, mud.FieldDescriptions["extensions"])

	// Rule source flags
	makeCmd.Flags().StringVar(&mudName, "mud-name", "", "Base name for generated ACLs (default: rules file mud-name, then a generated one)")
	makeCmd.Flags().StringVar(&ruleProvider, "provider", "file", "Rule provider type: 'file' or 'mariadb'")
	makeCmd.Flags().StringVar(&rulesFile, "rules", "", "Rules file, .yaml/.yml or .csv (for 'file' provider)")
	makeCmd.Flags().StringVar(&rulesDB, "db", "", "Database connection string (for 'mariadb' provider)")
	makeCmd.Flags().StringVar(&deviceName, "device", "", "Device name to filter DB rules (adds WHERE device_name = '...')")

	// Output and runtime flags
	makeCmd.Flags().StringVar(&outFile, "out", "-", "Output MUD file, '-' for stdout")
	makeCmd.Flags().IntVar(&indent, "indent", 2, "JSON indentation in spaces, 0 for compact output")
	makeCmd.Flags().IntVarP(&workers, "workers", "w", runtime.NumCPU(), "Number of concurrent ACL builders")
	makeCmd.Flags().StringVar(&logLevel, "log-level", "INFO", "Log level (DEBUG, INFO, WARN, ERROR)")
	makeCmd.Flags().StringVar(&logFile, "log-file", "", "Log file path (default: stderr)")

	return makeCmd
}

func newFieldsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "Describe the MUD container fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printFields(cmd.OutOrStdout())
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func runMake(cmd *cobra.Command, args []string) error {
	// --- 1. Setup Logging ---
	logger := setupLogger(logLevel, logFile)
	slog.SetDefault(logger)

	slog.Info("Starting muddy", "version", "1.0-go")
	startTime := time.Now()

	// --- 2. Load Rules ---
	slog.Info("Loading rules...", "provider", ruleProvider)
	set, err := loadRules(ruleProvider, rulesFile, rulesDB, deviceName)
	if err != nil {
		slog.Error("Failed to load rules", "error", err)
		return err
	}
	slog.Info("Successfully loaded rules", "count", len(set.Rules))

	// --- 3. Resolve Support Info ---
	support := supportConfig(cmd, set.Support)

	name := mudName
	if !cmd.Flags().Changed("mud-name") && set.MUDName != "" {
		name = set.MUDName
	}

	// --- 4. Build Document ---
	builder := engine.NewBuilder(set.Rules, name)
	builder.Workers = workers
	builder.NewName = generateMUDName
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	doc, err := builder.Build(ctx, support)
	if err != nil {
		slog.Error("Failed to build MUD document", "error", err)
		return err
	}

	// --- 5. Write Output ---
	if err := writeDocument(cmd.OutOrStdout(), outFile, doc, indent); err != nil {
		slog.Error("Failed to write MUD document", "path", outFile, "error", err)
		return err
	}

	slog.Info("MUD file written", "output_file", outFile, "duration", time.Since(startTime))
	return nil
}

// supportConfig layers flag defaults, then the rules file's support
// section, then flags the user set explicitly.
func supportConfig(cmd *cobra.Command, fromFile model.SupportOverrides) mud.SupportInfoConfig {
	cfg := mud.SupportInfoConfig{
		MUDVersion:    mudVersion,
		MUDURL:        mudURL,
		CacheValidity: cacheValidity,
		IsSupported:   isSupported,
		SystemInfo:    systemInfo,
		Documentation: documentation,
		MfgName:       mfgName,
		ModelName:     modelName,
		FirmwareRev:   firmwareRev,
		SoftwareRev:   softwareRev,
		MASAServer:    masaServer,
		Extensions:    extensions,
	}
	fromFile.Apply(&cfg)

	var explicit model.SupportOverrides
	flags := cmd.Flags()
	if flags.Changed("mud-version") {
		explicit.MUDVersion = &mudVersion
	}
	if flags.Changed("mud-url") {
		explicit.MUDURL = &mudURL
	}
	if flags.Changed("cache-validity") {
		explicit.CacheValidity = &cacheValidity
	}
	if flags.Changed("is-supported") {
		explicit.IsSupported = &isSupported
	}
	strFlags := map[string]struct {
		value *string
		dst   **string
	}{
		"systeminfo":    {&systemInfo, &explicit.SystemInfo},
		"documentation": {&documentation, &explicit.Documentation},
		"mfg-name":      {&mfgName, &explicit.MfgName},
		"model-name":    {&modelName, &explicit.ModelName},
		"firmware-rev":  {&firmwareRev, &explicit.FirmwareRev},
		"software-rev":  {&softwareRev, &explicit.SoftwareRev},
		"masa-server":   {&masaServer, &explicit.MASAServer},
	}
	for name, f := range strFlags {
		if flags.Changed(name) {
			*f.dst = f.value
		}
	}
	if flags.Changed("extensions") {
		explicit.Extensions = extensions
	}
	explicit.Apply(&cfg)
	return cfg
}

// generateMUDName returns "mud-" plus the first group of a random UUID.
func generateMUDName() string {
	id := uuid.NewString()
	return "mud-" + id[:strings.IndexByte(id, '-')]
}

func writeDocument(stdout io.Writer, path string, doc *mud.Document, indent int) error {
	var (
		data []byte
		err  error
	)
	if indent > 0 {
		data, err = json.MarshalIndent(doc, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if path == "" || path == "-" {
		_, err = stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func printFields(w io.Writer) error {
	for _, name := range mud.FieldNames() {
		if _, err := fmt.Fprintf(w, "%-20s %s\n", name, mud.FieldDescriptions[name]); err != nil {
			return err
		}
	}
	return nil
}

func setupLogger(level, logFilePath string) *slog.Logger {
	var logWriter io.Writer = os.Stderr
	if logFilePath != "" {
		f, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err == nil {
			logWriter = f
		}
		// The logger isn't set up yet, so a failed open falls back to stderr silently.
	}

	var lvl slog.Level
	switch strings.ToUpper(level) {
	case "DEBUG":
		lvl = slog.LevelDebug
	case "INFO":
		lvl = slog.LevelInfo
	case "WARN":
		lvl = slog.LevelWarn
	case "ERROR":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(logWriter, &slog.HandlerOptions{Level: lvl}))
}

func loadRules(provider, rulesPath, dbConnStr, device string) (*model.RuleSet, error) {
	switch provider {
	case "file":
		if rulesPath == "" {
			return nil, fmt.Errorf("rules file path must be provided for file provider")
		}
		return parser.LoadRuleFile(rulesPath)
	case "mariadb":
		if dbConnStr == "" {
			return nil, fmt.Errorf("database connection string must be provided for mariadb provider")
		}
		p, err := parser.NewMariaDBParser(dbConnStr, device)
		if err != nil {
			return nil, err
		}
		defer p.Close()
		if err := p.Parse(); err != nil {
			return nil, err
		}
		return &model.RuleSet{Rules: p.Rules}, nil
	default:
		return nil, fmt.Errorf("unknown rule provider: %s", provider)
	}
}
