package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	BackendYAML   = "yaml"
	BackendSQLite = "sqlite"
)

type Config struct {
	Contexts    ContextsConfig    `yaml:"contexts"`
	Persistence PersistenceConfig `yaml:"persistence"`
	Logging     LoggingConfig     `yaml:"logging"`

	// dir is the directory holding the config file; relative paths resolve against it
	dir string
}

type ContextsConfig struct {
	Dir     string `yaml:"dir"`
	Pattern string `yaml:"pattern,omitempty"`
}

type PersistenceConfig struct {
	Backend               string `yaml:"backend"`
	Path                  string `yaml:"path"`
	PersistAcrossSessions *bool  `yaml:"persist_across_sessions,omitempty"`
}

type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.applyDefaults()
	cfg.dir = filepath.Dir(path)

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Contexts.Dir == "" {
		return fmt.Errorf("contexts.dir is required")
	}
	if c.Contexts.Pattern != "" {
		if _, err := filepath.Match(c.Contexts.Pattern, ""); err != nil {
			return fmt.Errorf("contexts.pattern: %w", err)
		}
	}

	switch c.Persistence.Backend {
	case "", BackendYAML, BackendSQLite:
	default:
		return fmt.Errorf("unknown persistence.backend %q (want %s or %s)", c.Persistence.Backend, BackendYAML, BackendSQLite)
	}

	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("unknown logging.format %q", c.Logging.Format)
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.Contexts.Pattern == "" {
		c.Contexts.Pattern = "*.imc.yaml"
	}
	if c.Persistence.Backend == "" {
		c.Persistence.Backend = BackendYAML
	}
	if c.Persistence.Path == "" {
		if c.Persistence.Backend == BackendSQLite {
			c.Persistence.Path = "rebinds.db"
		} else {
			c.Persistence.Path = "rebinds.yaml"
		}
	}
	if c.Persistence.PersistAcrossSessions == nil {
		persist := true
		c.Persistence.PersistAcrossSessions = &persist
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
}

// Persist reports whether rebinds are kept between sessions
func (c *Config) Persist() bool {
	return c.Persistence.PersistAcrossSessions == nil || *c.Persistence.PersistAcrossSessions
}

// ContextsDir returns the context directory resolved against the config file
func (c *Config) ContextsDir() string {
	return c.resolve(c.Contexts.Dir)
}

// StorePath returns the pack store path resolved against the config file
func (c *Config) StorePath() string {
	return c.resolve(c.Persistence.Path)
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) || c.dir == "" {
		return path
	}
	return filepath.Join(c.dir, path)
}

// SetPersist updates persist_across_sessions in a config file while
// preserving the rest of the file structure and comments
func SetPersist(path string, persist bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	content := string(data)

	persistRegex := regexp.MustCompile(`(?m)^([ \t]*persist_across_sessions:[ \t]*)(?:true|false)`)
	if persistRegex.MatchString(content) {
		content = persistRegex.ReplaceAllString(content, fmt.Sprintf("${1}%t", persist))
	} else {
		content = insertPersist(content, persist)
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// persistenceRegex matches the persistence section header and captures the
// indentation of the line after it
var persistenceRegex = regexp.MustCompile(`(?m)^persistence:[ \t]*(?:#.*)?$\n?([ \t]+)?`)

// insertPersist adds persist_across_sessions to the persistence section,
// creating the section when the file has none
func insertPersist(content string, persist bool) string {
	loc := persistenceRegex.FindStringSubmatchIndex(content)
	if loc == nil {
		if content != "" && !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		return content + fmt.Sprintf("\npersistence:\n  persist_across_sessions: %t\n", persist)
	}

	indent := "  "
	if loc[2] >= 0 {
		indent = content[loc[2]:loc[3]]
	}

	// Insert right after the header line
	at := loc[0] + strings.IndexByte(content[loc[0]:], '\n') + 1
	if at == loc[0] {
		return content + fmt.Sprintf("\n%spersist_across_sessions: %t\n", indent, persist)
	}
	return content[:at] + fmt.Sprintf("%spersist_across_sessions: %t\n", indent, persist) + content[at:]
}

// CreateDefaultConfig creates a new config file with default values
func CreateDefaultConfig(path, contextsDir string) error {
	content := fmt.Sprintf(`# Rebinder Configuration

# Mapping contexts are discovered recursively under dir
contexts:
  dir: %q
  pattern: "*.imc.yaml"

# Rebind packs storage
persistence:
  backend: yaml   # yaml | sqlite
  path: rebinds.yaml
  persist_across_sessions: true

logging:
  level: info
  format: console
`, contextsDir)

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	return nil
}

// Exists checks if a config file exists
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
