package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"coderef/internal/config"
	"coderef/internal/paths"
)

var (
	configFormat   string
	configShowDiff bool
	configInitTOML bool
	configForce    bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage coderef configuration",
	Long:  "View and manage coderef configuration stored in .coderef/config.json or config.toml",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Display the current coderef configuration.

Examples:
  coderef config show                # Pretty-print current config
  coderef config show --format json  # Raw JSON output
  coderef config show --diff         # Only show non-default values`,
	Annotations: map[string]string{lenientConfig: "true"},
	RunE:        runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:         "init",
	Short:       "Write a default configuration file",
	Annotations: map[string]string{lenientConfig: "true"},
	RunE:        runConfigInit,
}

var configEnvCmd = &cobra.Command{
	Use:         "env",
	Short:       "List supported environment variables",
	Long:        "Display all supported coderef environment variable overrides",
	Annotations: map[string]string{lenientConfig: "true"},
	RunE:        runConfigEnv,
}

func init() {
	configShowCmd.Flags().StringVar(&configFormat, "format", "human", "Output format (human, json, toml)")
	configShowCmd.Flags().BoolVar(&configShowDiff, "diff", false, "Only show non-default values")
	configInitCmd.Flags().BoolVar(&configInitTOML, "toml", false, "Write config.toml instead of config.json")
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing configuration file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configEnvCmd)
	rootCmd.AddCommand(configCmd)
}

// ConfigShowResponse is the response format for config show
type ConfigShowResponse struct {
	ConfigPath   string                 `json:"configPath,omitempty"`
	UsedDefaults bool                   `json:"usedDefaults"`
	EnvOverrides []config.EnvOverride   `json:"envOverrides,omitempty"`
	Config       map[string]interface{} `json:"config"`
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	result, err := config.LoadConfigWithDetails(rootFlag)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	out := cmd.OutOrStdout()
	switch configFormat {
	case "json":
		return outputConfigJSON(out, result, configShowDiff)
	case "toml":
		return outputConfigTOML(out, result, configShowDiff)
	case "human":
		outputConfigHuman(out, result, configShowDiff)
		return nil
	default:
		return fmt.Errorf("unsupported format: %s (want human, json or toml)", configFormat)
	}
}

// configMap converts cfg to its JSON object form
func configMap(cfg *config.Config) (map[string]interface{}, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func shownConfig(cfg *config.Config, diffOnly bool) (map[string]interface{}, error) {
	current, err := configMap(cfg)
	if err != nil {
		return nil, err
	}
	if !diffOnly {
		return current, nil
	}
	defaults, err := configMap(config.DefaultConfig())
	if err != nil {
		return nil, err
	}
	return computeDiff(current, defaults), nil
}

func outputConfigJSON(w io.Writer, result *config.LoadResult, diffOnly bool) error {
	shown, err := shownConfig(result.Config, diffOnly)
	if err != nil {
		return err
	}

	response := ConfigShowResponse{
		ConfigPath:   result.ConfigPath,
		UsedDefaults: result.UsedDefaults,
		EnvOverrides: result.EnvOverrides,
		Config:       shown,
	}

	output, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(output))
	return nil
}

func outputConfigTOML(w io.Writer, result *config.LoadResult, diffOnly bool) error {
	var v interface{} = result.Config
	if diffOnly {
		shown, err := shownConfig(result.Config, true)
		if err != nil {
			return err
		}
		v = shown
	}
	data, err := toml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func outputConfigHuman(w io.Writer, result *config.LoadResult, diffOnly bool) {
	fmt.Fprintln(w, "coderef Configuration")
	fmt.Fprintln(w, strings.Repeat("─", 50))

	if result.UsedDefaults {
		fmt.Fprintln(w, "Source: defaults (no config file found)")
	} else if result.ConfigPath != "" {
		fmt.Fprintf(w, "Source: %s\n", result.ConfigPath)
	}

	if len(result.EnvOverrides) > 0 {
		fmt.Fprintln(w, "\nEnvironment Overrides:")
		for _, ov := range result.EnvOverrides {
			fmt.Fprintf(w, "  %s=%s → %s\n", ov.EnvVar, ov.Value, ov.Key)
		}
	}

	fmt.Fprintln(w)

	cfg := result.Config
	defaults := config.DefaultConfig()

	if diffOnly {
		fmt.Fprintln(w, "Modified Settings (differs from defaults):")
		fmt.Fprintln(w)
		printConfigDiff(w, cfg, defaults)
	} else {
		printConfigSection(w, "version", cfg.Version, defaults.Version)

		fmt.Fprintln(w, "\nparse:")
		printConfigSection(w, "  legacyOperatorSyntax", cfg.Parse.LegacyOperatorSyntax, defaults.Parse.LegacyOperatorSyntax)
		printConfigSection(w, "  allowUnspecified", cfg.Parse.AllowUnspecified, defaults.Parse.AllowUnspecified)

		fmt.Fprintln(w, "\nscan:")
		printConfigSection(w, "  extensions", cfg.Scan.Extensions, defaults.Scan.Extensions)
		printConfigSection(w, "  ignore", cfg.Scan.Ignore, defaults.Scan.Ignore)

		fmt.Fprintln(w, "\ncatalog:")
		printConfigSection(w, "  path", valueOrDefault(cfg.Catalog.Path, defaults.Catalog.Path), defaults.Catalog.Path)

		fmt.Fprintln(w, "\nexport:")
		printConfigSection(w, "  format", valueOrDefault(cfg.Export.Format, defaults.Export.Format), defaults.Export.Format)
		printConfigSection(w, "  compress", cfg.Export.Compress, defaults.Export.Compress)

		fmt.Fprintln(w, "\nlogging:")
		printConfigSection(w, "  level", cfg.Logging.Level, defaults.Logging.Level)
		printConfigSection(w, "  format", cfg.Logging.Format, defaults.Logging.Format)
		printConfigSection(w, "  maxSize", cfg.Logging.MaxSize, defaults.Logging.MaxSize)
		printConfigSection(w, "  maxBackups", cfg.Logging.MaxBackups, defaults.Logging.MaxBackups)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Use 'coderef config show --format json' for full configuration")
	fmt.Fprintln(w, "Use 'coderef config env' to see supported environment variables")
}

func printConfigSection(w io.Writer, name string, value, defaultValue interface{}) {
	modified := ""
	if !isEqual(value, defaultValue) {
		modified = fmt.Sprintf(" (default: %v)", defaultValue)
	}
	fmt.Fprintf(w, "%s: %v%s\n", name, value, modified)
}

func printConfigDiff(w io.Writer, cfg, defaults *config.Config) {
	current, err := configMap(cfg)
	if err != nil {
		fmt.Fprintf(w, "  (cannot compare: %v)\n", err)
		return
	}
	base, _ := configMap(defaults)

	diffs := flattenDiff(computeDiff(current, base), base, "")
	if len(diffs) == 0 {
		fmt.Fprintln(w, "  (no modifications - using all defaults)")
		return
	}
	for _, d := range diffs {
		fmt.Fprintf(w, "  %s\n", d)
	}
}

// flattenDiff renders a computeDiff result as sorted "a.b: value (default: x)" lines
func flattenDiff(diff, defaults map[string]interface{}, prefix string) []string {
	var lines []string
	for key, val := range diff {
		def := defaults[key]
		if nested, ok := val.(map[string]interface{}); ok {
			defNested, _ := def.(map[string]interface{})
			lines = append(lines, flattenDiff(nested, defNested, prefix+key+".")...)
			continue
		}
		lines = append(lines, fmt.Sprintf("%s%s: %v (default: %v)", prefix, key, val, def))
	}
	sort.Strings(lines)
	return lines
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := paths.ConfigPath(rootFlag)
	if configInitTOML {
		path = paths.TOMLConfigPath(rootFlag)
	}
	if _, err := os.Stat(path); err == nil && !configForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	defaults := config.DefaultConfig()
	var err error
	if configInitTOML {
		err = defaults.SaveTOML(rootFlag)
	} else {
		err = defaults.Save(rootFlag)
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

func runConfigEnv(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "Supported coderef Environment Variables")
	fmt.Fprintln(w, strings.Repeat("─", 50))
	fmt.Fprintln(w)

	defaults, err := configMap(config.DefaultConfig())
	if err != nil {
		return err
	}
	for _, ev := range config.EnvVars() {
		fmt.Fprintf(w, "  %-40s %s (default: %v)\n", ev.EnvVar, ev.Key, lookupKey(defaults, ev.Key))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Example usage:")
	fmt.Fprintln(w, "  CODEREF_EXPORT_FORMAT=scip coderef export -o index.scip")
	fmt.Fprintln(w, "  CODEREF_LOGGING_LEVEL=debug coderef scan")
	return nil
}

// lookupKey finds a lowercased dotted key in a config map
func lookupKey(m map[string]interface{}, key string) interface{} {
	head, rest, nested := strings.Cut(key, ".")
	for k, v := range m {
		if !strings.EqualFold(k, head) {
			continue
		}
		if !nested {
			return v
		}
		if sub, ok := v.(map[string]interface{}); ok {
			return lookupKey(sub, rest)
		}
		return nil
	}
	return nil
}

func valueOrDefault(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}

func isEqual(a, b interface{}) bool {
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

func computeDiff(current, defaults map[string]interface{}) map[string]interface{} {
	diff := make(map[string]interface{})
	computeDiffRecursive(current, defaults, diff)
	return diff
}

func computeDiffRecursive(current, defaults map[string]interface{}, diff map[string]interface{}) {
	for key, currentVal := range current {
		defaultVal, exists := defaults[key]
		if !exists {
			diff[key] = currentVal
			continue
		}

		currentMap, currentIsMap := currentVal.(map[string]interface{})
		defaultMap, defaultIsMap := defaultVal.(map[string]interface{})

		if currentIsMap && defaultIsMap {
			nestedDiff := make(map[string]interface{})
			computeDiffRecursive(currentMap, defaultMap, nestedDiff)
			if len(nestedDiff) > 0 {
				diff[key] = nestedDiff
			}
		} else if fmt.Sprintf("%v", currentVal) != fmt.Sprintf("%v", defaultVal) {
			diff[key] = currentVal
		}
	}
}
