package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	mdwerror "github.com/msto63/vera/foundation/core/error"
	mdwlog "github.com/msto63/vera/foundation/core/log"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. VERA_SERVER_PORT.
const EnvPrefix = "VERA_"

// EnvConfigPath names an explicit config file, checked before discovery.
const EnvConfigPath = "VERA_CONFIG"

// FileNames are the config file names Discover looks for, in order.
var FileNames = []string{"vera.toml", "vera.yaml", "vera.yml"}

// Config holds the complete application configuration
type Config struct {
	General GeneralConfig `toml:"general" yaml:"general"`
	Parser  ParserConfig  `toml:"parser" yaml:"parser"`
	Server  ServerConfig  `toml:"server" yaml:"server"`
	History HistoryConfig `toml:"history" yaml:"history"`
	Output  OutputConfig  `toml:"output" yaml:"output"`

	// path of the file the config was loaded from, empty for defaults
	source string
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	LogLevel  string `toml:"log_level" yaml:"log_level"`
	LogFormat string `toml:"log_format" yaml:"log_format"`
}

// ParserConfig limits what the engine accepts
type ParserConfig struct {
	MaxInputLength  int `toml:"max_input_length" yaml:"max_input_length"`
	MaxNestingDepth int `toml:"max_nesting_depth" yaml:"max_nesting_depth"`
}

// ServerConfig configures `vera serve`
type ServerConfig struct {
	Host             string   `toml:"host" yaml:"host"`
	Port             int      `toml:"port" yaml:"port"`
	MaxRecvMsgSize   int      `toml:"max_recv_msg_size" yaml:"max_recv_msg_size"`
	EnableReflection bool     `toml:"enable_reflection" yaml:"enable_reflection"`
	CacheTTL         Duration `toml:"cache_ttl" yaml:"cache_ttl"`
	CacheMaxItems    int      `toml:"cache_max_items" yaml:"cache_max_items"`
}

// HistoryConfig configures the sqlite parse history
type HistoryConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Path    string `toml:"path" yaml:"path"`
}

// OutputConfig holds CLI output defaults
type OutputConfig struct {
	Format string `toml:"format" yaml:"format"`
}

// Duration wraps time.Duration for TOML and YAML text values
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML parses a duration scalar
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("duration must be a scalar, got %s", value.Tag)
	}
	return d.UnmarshalText([]byte(value.Value))
}

// MarshalYAML formats the duration as a string
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Default returns the configuration used when no file is present
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file, chosen by extension,
// then applies defaults and VERA_* environment overrides and validates.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, mdwerror.New(fmt.Sprintf("config file not found: %s", path)).
				WithCode(mdwerror.CodeNotFound).
				WithOperation("config.Load").
				WithDetail("path", path)
		}
		return nil, mdwerror.Wrap(err, "failed to read config").
			WithCode(mdwerror.CodeConfigError).
			WithOperation("config.Load").
			WithDetail("path", path)
	}

	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	cfg.source = path
	return cfg, nil
}

// Parse decodes raw config bytes. ext selects the decoder (".toml",
// ".yaml" or ".yml").
func Parse(data []byte, ext string) (*Config, error) {
	var cfg Config

	switch strings.ToLower(ext) {
	case ".toml":
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg); err != nil {
			return nil, mdwerror.Wrap(err, "failed to parse config").
				WithCode(mdwerror.CodeConfigError).
				WithDetail("format", "toml")
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, mdwerror.Wrap(err, "failed to parse config").
				WithCode(mdwerror.CodeConfigError).
				WithDetail("format", "yaml")
		}
	default:
		return nil, mdwerror.New(fmt.Sprintf("unsupported config format %q", ext)).
			WithCode(mdwerror.CodeConfigError)
	}

	cfg.applyDefaults()
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	cfg.expandEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Discover returns the first config file found via VERA_CONFIG, the working
// directory or $HOME/.config/vera. An empty path and nil error mean none.
func Discover() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		if _, err := os.Stat(p); err != nil {
			return "", mdwerror.New(fmt.Sprintf("%s points to a missing file: %s", EnvConfigPath, p)).
				WithCode(mdwerror.CodeNotFound)
		}
		return p, nil
	}

	dirs := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "vera"))
	}

	for _, dir := range dirs {
		for _, name := range FileNames {
			p := filepath.Join(dir, name)
			if info, err := os.Stat(p); err == nil && !info.IsDir() {
				return p, nil
			}
		}
	}
	return "", nil
}

// LoadOrDefault loads path, or the discovered file when path is empty, or
// falls back to defaults with environment overrides.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		found, err := Discover()
		if err != nil {
			return nil, err
		}
		path = found
	}
	if path != "" {
		return Load(path)
	}

	cfg := Default()
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	cfg.expandEnvVars()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Source returns the file the config was loaded from
func (c *Config) Source() string {
	return c.source
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.LogLevel == "" {
		c.General.LogLevel = "warn"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "text"
	}

	// Parser
	if c.Parser.MaxInputLength == 0 {
		c.Parser.MaxInputLength = 1 << 20
	}
	if c.Parser.MaxNestingDepth == 0 {
		c.Parser.MaxNestingDepth = 256
	}

	// Server
	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 9470
	}
	if c.Server.MaxRecvMsgSize == 0 {
		c.Server.MaxRecvMsgSize = 4 * 1024 * 1024
	}
	if c.Server.CacheTTL.Duration == 0 {
		c.Server.CacheTTL = Duration{5 * time.Minute}
	}
	if c.Server.CacheMaxItems == 0 {
		c.Server.CacheMaxItems = 1024
	}

	// History
	if c.History.Path == "" {
		c.History.Path = filepath.Join("$HOME", ".local", "share", "vera", "history.db")
	}

	// Output
	if c.Output.Format == "" {
		c.Output.Format = "tree"
	}
}

// applyEnv overrides fields from VERA_<SECTION>_<KEY> variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"GENERAL_LOG_LEVEL":  &c.General.LogLevel,
		"GENERAL_LOG_FORMAT": &c.General.LogFormat,
		"SERVER_HOST":        &c.Server.Host,
		"HISTORY_PATH":       &c.History.Path,
		"OUTPUT_FORMAT":      &c.Output.Format,
	}
	ints := map[string]*int{
		"PARSER_MAX_INPUT_LENGTH":  &c.Parser.MaxInputLength,
		"PARSER_MAX_NESTING_DEPTH": &c.Parser.MaxNestingDepth,
		"SERVER_PORT":              &c.Server.Port,
		"SERVER_MAX_RECV_MSG_SIZE": &c.Server.MaxRecvMsgSize,
		"SERVER_CACHE_MAX_ITEMS":   &c.Server.CacheMaxItems,
	}
	bools := map[string]*bool{
		"SERVER_ENABLE_REFLECTION": &c.Server.EnableReflection,
		"HISTORY_ENABLED":          &c.History.Enabled,
	}

	for key, dst := range strs {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}
	for key, dst := range ints {
		if v, ok := lookup(EnvPrefix + key); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return envError(key, v, err)
			}
			*dst = n
		}
	}
	for key, dst := range bools {
		if v, ok := lookup(EnvPrefix + key); ok {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return envError(key, v, err)
			}
			*dst = b
		}
	}
	if v, ok := lookup(EnvPrefix + "SERVER_CACHE_TTL"); ok {
		if err := c.Server.CacheTTL.UnmarshalText([]byte(strings.TrimSpace(v))); err != nil {
			return envError("SERVER_CACHE_TTL", v, err)
		}
	}
	return nil
}

func envError(key, value string, err error) error {
	return mdwerror.Wrap(err, fmt.Sprintf("invalid value for %s%s", EnvPrefix, key)).
		WithCode(mdwerror.CodeInvalidConfig).
		WithDetail("variable", EnvPrefix+key).
		WithDetail("value", value)
}

// expandEnvVars expands environment variables in path values
func (c *Config) expandEnvVars() {
	c.History.Path = os.ExpandEnv(c.History.Path)
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	var problems []string

	if _, err := mdwlog.ParseLevel(c.General.LogLevel); err != nil {
		problems = append(problems, fmt.Sprintf("general.log_level: unknown level %q", c.General.LogLevel))
	}
	if _, err := mdwlog.ParseFormat(c.General.LogFormat); err != nil {
		problems = append(problems, fmt.Sprintf("general.log_format: unknown format %q", c.General.LogFormat))
	}
	if c.Parser.MaxInputLength < 0 {
		problems = append(problems, "parser.max_input_length: must not be negative")
	}
	if c.Parser.MaxNestingDepth < 0 {
		problems = append(problems, "parser.max_nesting_depth: must not be negative")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server.port: %d out of range", c.Server.Port))
	}
	if c.Server.MaxRecvMsgSize < 0 {
		problems = append(problems, "server.max_recv_msg_size: must not be negative")
	}
	if c.Server.CacheTTL.Duration < 0 {
		problems = append(problems, "server.cache_ttl: must not be negative")
	}
	if c.Server.CacheMaxItems < 0 {
		problems = append(problems, "server.cache_max_items: must not be negative")
	}
	if c.History.Enabled && c.History.Path == "" {
		problems = append(problems, "history.path: required when history is enabled")
	}
	switch c.Output.Format {
	case "tree", "json", "yaml":
	default:
		problems = append(problems, fmt.Sprintf("output.format: unknown format %q", c.Output.Format))
	}

	if len(problems) == 0 {
		return nil
	}
	return mdwerror.New("invalid configuration: " + strings.Join(problems, "; ")).
		WithCode(mdwerror.CodeInvalidConfig).
		WithDetail("problems", problems)
}

// ServerAddress returns host:port for the parser service
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
