package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gnana997/uigen/pkg/parser"
	"github.com/gnana997/uigen/pkg/render"
	"github.com/gnana997/uigen/pkg/util"
)

// defaultConfigPath is read when --config is not given.
var defaultConfigPath = filepath.Join(".uigen", "config.yaml")

const defaultCacheSize = 256

// LogConfig is the log section of the project config.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ProjectConfig holds the contents of .uigen/config.yaml.
type ProjectConfig struct {
	Version      string    `yaml:"version"`
	RegistryPath string    `yaml:"registry_path"`
	TokensPath   string    `yaml:"tokens_path"`
	Dialect      string    `yaml:"dialect"`
	OutputDir    string    `yaml:"output_dir"`
	CacheSize    int       `yaml:"cache_size"`
	MCPLogPath   string    `yaml:"mcp_log_path"`
	Log          LogConfig `yaml:"log"`
}

// loadProjectConfig reads the config file at path.
// Returns nil (no error) if the file does not exist.
func loadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.CacheSize < 0 {
		return nil, fmt.Errorf("%s: cache_size must not be negative", path)
	}
	return &cfg, nil
}

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	config    string
	registry  string
	tokens    string
	format    string
	dialect   string
	logLevel  string
	logFormat string
}

// settings is the effective configuration after resolution.
type settings struct {
	RegistryPath string // "" = bundled registry
	TokensPath   string // "" = bundled tokens
	Dialect      parser.Dialect
	OutputDir    string
	CacheSize    int
	MCPLogPath   string
	Format       render.Format
	Logger       util.LoggerConfig
}

// resolveSettings applies the fallback chain to every value:
//  1. Explicit flag value (non-empty override)
//  2. Value from the project config file
//  3. Built-in default
func resolveSettings(flags *globalFlags) (settings, error) {
	path := flags.config
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}
	cfg, err := loadProjectConfig(path)
	if err != nil {
		return settings{}, err
	}
	if cfg == nil {
		if explicit {
			return settings{}, fmt.Errorf("config file not found: %s", path)
		}
		cfg = &ProjectConfig{}
	}

	s := settings{
		RegistryPath: firstNonEmpty(flags.registry, cfg.RegistryPath),
		TokensPath:   firstNonEmpty(flags.tokens, cfg.TokensPath),
		OutputDir:    cfg.OutputDir,
		CacheSize:    cfg.CacheSize,
		MCPLogPath:   cfg.MCPLogPath,
		Logger:       util.DefaultLoggerConfig(),
	}
	if s.CacheSize == 0 {
		s.CacheSize = defaultCacheSize
	}

	if s.Dialect, err = parser.ParseDialect(firstNonEmpty(flags.dialect, cfg.Dialect)); err != nil {
		return settings{}, err
	}
	if s.Format, err = render.ParseFormat(flags.format); err != nil {
		return settings{}, err
	}
	if level := firstNonEmpty(flags.logLevel, cfg.Log.Level); level != "" {
		if s.Logger.Level, err = util.ParseLogLevel(level); err != nil {
			return settings{}, err
		}
	}
	if format := firstNonEmpty(flags.logFormat, cfg.Log.Format); format != "" {
		if s.Logger.Format, err = util.ParseLogFormat(format); err != nil {
			return settings{}, err
		}
	}
	return s, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
