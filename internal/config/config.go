package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

type Config struct {
	Database   DatabaseConfig   `toml:"database"`
	Logging    LoggingConfig    `toml:"logging"`
	Rotation   RotationConfig   `toml:"rotation"`
	Assignment AssignmentConfig `toml:"assignment"`
	Server     ServerConfig     `toml:"server"`
	Seed       SeedConfig       `toml:"seed"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type LoggingConfig struct {
	Level   string        `toml:"level"`
	DevFile DevFileConfig `toml:"dev_file"`
}

type DevFileConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// RotationConfig names the catalog items that rotate as special duties.
// Order matters: earlier duties are assigned first each day.
type RotationConfig struct {
	SpecialTasks []string `toml:"special_tasks"`
}

type AssignmentConfig struct {
	Weighted    bool   `toml:"weighted"`
	Randomize   bool   `toml:"randomize"`
	ShuffleSeed uint64 `toml:"shuffle_seed"`
}

type ServerConfig struct {
	HTTPBind    string `toml:"http_bind"`
	APIEndpoint string `toml:"api_endpoint"`
	MCPEndpoint string `toml:"mcp_endpoint"`
}

type SeedConfig struct {
	UseDefaults bool `toml:"use_defaults"`
}

func Default(dbPath string) Config {
	return Config{
		Database: DatabaseConfig{
			Path: dbPath,
		},
		Logging: LoggingConfig{
			Level: "info",
			DevFile: DevFileConfig{
				Enabled: true,
				Dir:     ".rota/log",
			},
		},
		Rotation: RotationConfig{
			SpecialTasks: []string{"EoS Report", "DCOSS Monitoring"},
		},
		Assignment: AssignmentConfig{
			Weighted:    true,
			Randomize:   false,
			ShuffleSeed: 42,
		},
		Server: ServerConfig{
			HTTPBind:    "127.0.0.1:8787",
			APIEndpoint: "/api/v1",
			MCPEndpoint: "/mcp",
		},
		Seed: SeedConfig{
			UseDefaults: true,
		},
	}
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// normalize trims free-form values in place.
func (c *Config) normalize() {
	c.Database.Path = strings.TrimSpace(c.Database.Path)
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.DevFile.Dir = strings.TrimSpace(c.Logging.DevFile.Dir)
	tasks := make([]string, 0, len(c.Rotation.SpecialTasks))
	for _, task := range c.Rotation.SpecialTasks {
		if task = strings.TrimSpace(task); task != "" {
			tasks = append(tasks, task)
		}
	}
	c.Rotation.SpecialTasks = tasks
	c.Server.HTTPBind = strings.TrimSpace(c.Server.HTTPBind)
	c.Server.APIEndpoint = strings.TrimSpace(c.Server.APIEndpoint)
	c.Server.MCPEndpoint = strings.TrimSpace(c.Server.MCPEndpoint)
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return errors.New("database path is required")
	}

	switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
	case "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}

	seenTask := map[string]struct{}{}
	for idx, task := range c.Rotation.SpecialTasks {
		task = strings.TrimSpace(task)
		if task == "" {
			return fmt.Errorf("rotation.special_tasks[%d] is empty", idx)
		}
		if _, ok := seenTask[task]; ok {
			return fmt.Errorf("rotation.special_tasks[%d] is duplicated: %s", idx, task)
		}
		seenTask[task] = struct{}{}
	}

	if bind := strings.TrimSpace(c.Server.HTTPBind); bind != "" {
		if _, _, err := net.SplitHostPort(bind); err != nil {
			return fmt.Errorf("invalid server.http_bind %q: %w", bind, err)
		}
	}
	for name, endpoint := range map[string]string{
		"server.api_endpoint": c.Server.APIEndpoint,
		"server.mcp_endpoint": c.Server.MCPEndpoint,
	} {
		endpoint = strings.TrimSpace(endpoint)
		if endpoint != "" && !strings.HasPrefix(endpoint, "/") {
			return fmt.Errorf("%s must start with '/': %q", name, endpoint)
		}
	}

	return nil
}

func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// WriteDefault writes cfg to path unless a file already exists there.
func WriteDefault(path string, cfg Config) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("stat config: %w", err)
	}
	if err := EnsureConfigDir(path); err != nil {
		return false, fmt.Errorf("create config dir: %w", err)
	}
	content, err := toml.Marshal(cfg)
	if err != nil {
		return false, fmt.Errorf("encode toml: %w", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return false, fmt.Errorf("write config: %w", err)
	}
	return true, nil
}
