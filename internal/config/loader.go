package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// FileName is the config file name searched for, without extension.
const FileName = ".gerber2nc"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "GERBER2NC"

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	searchDirs []string
	configFile string
}

// NewLoader creates a loader that searches projectDir, then the user's
// home directory, for .gerber2nc.yaml.
func NewLoader(projectDir string) Loader {
	dirs := []string{projectDir}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, home)
	}
	return &loader{searchDirs: dirs}
}

// NewFileLoader creates a loader for an explicit config file. A missing
// file is an error.
func NewFileLoader(path string) Loader {
	return &loader{configFile: path}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (GERBER2NC_*)
// 2. Config file
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		for _, dir := range l.searchDirs {
			v.AddConfigPath(dir)
		}
	}

	// Enable environment variable overrides
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	// Replace . with _ in env var names (e.g., GERBER2NC_TOOLPATH_OFFSET)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	bindEnvVars(v)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - we'll use defaults + env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || l.configFile != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// Toolpath configuration
	v.BindEnv("toolpath.offset")
	v.BindEnv("toolpath.passes")
	v.BindEnv("toolpath.spacing")
	v.BindEnv("toolpath.resolution")
	v.BindEnv("toolpath.tolerance")
	v.BindEnv("toolpath.workers")

	// Milling configuration
	v.BindEnv("milling.spindle_speed")
	v.BindEnv("milling.cut_depth")
	v.BindEnv("milling.edge_cut_depth")
	v.BindEnv("milling.safe_height")
	v.BindEnv("milling.plunge_feed_rate")
	v.BindEnv("milling.feed_rate")
	v.BindEnv("milling.hole_start")
	v.BindEnv("milling.hole_depth")
	v.BindEnv("milling.large_hole_threshold")

	// Output configuration
	v.BindEnv("output.preview")
	v.BindEnv("output.preview_scale")
	v.BindEnv("output.preview_max_size")
	v.BindEnv("output.debounce_ms")
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("toolpath.offset", defaults.Toolpath.Offset)
	v.SetDefault("toolpath.passes", defaults.Toolpath.Passes)
	v.SetDefault("toolpath.spacing", defaults.Toolpath.Spacing)
	v.SetDefault("toolpath.resolution", defaults.Toolpath.Resolution)
	v.SetDefault("toolpath.tolerance", defaults.Toolpath.Tolerance)
	v.SetDefault("toolpath.workers", defaults.Toolpath.Workers)

	v.SetDefault("milling.spindle_speed", defaults.Milling.SpindleSpeed)
	v.SetDefault("milling.cut_depth", defaults.Milling.CutDepth)
	v.SetDefault("milling.edge_cut_depth", defaults.Milling.EdgeCutDepth)
	v.SetDefault("milling.safe_height", defaults.Milling.SafeHeight)
	v.SetDefault("milling.plunge_feed_rate", defaults.Milling.PlungeFeedRate)
	v.SetDefault("milling.feed_rate", defaults.Milling.FeedRate)
	v.SetDefault("milling.hole_start", defaults.Milling.HoleStart)
	v.SetDefault("milling.hole_depth", defaults.Milling.HoleDepth)
	v.SetDefault("milling.large_hole_threshold", defaults.Milling.LargeHoleThreshold)

	v.SetDefault("output.preview", defaults.Output.Preview)
	v.SetDefault("output.preview_scale", defaults.Output.PreviewScale)
	v.SetDefault("output.preview_max_size", defaults.Output.PreviewMaxSize)
	v.SetDefault("output.debounce_ms", defaults.Output.DebounceMS)
}

