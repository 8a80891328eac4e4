// Package config loads runtime settings for hosting a plugin binding.
package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	pluginabi "github.com/wippyai/plugin-abi"
	"github.com/wippyai/plugin-abi/errors"
)

// Engines selectable in Config.Engine.
const (
	EngineLinear = "linear"
	EngineWazero = "wazero"
)

// Memory configures the linear memory backing the plugin heap.
type Memory struct {
	InitialPages uint32 `toml:"initial_pages"`
	MaxPages     uint32 `toml:"max_pages"`
	HeapBase     uint32 `toml:"heap_base"`
}

// Log configures the zap logger.
type Log struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

// Config is the top-level configuration file.
type Config struct {
	Engine string `toml:"engine"`
	Module string `toml:"module"`
	Plugin string `toml:"plugin"`
	Log    Log    `toml:"log"`
	Memory Memory `toml:"memory"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Engine: EngineLinear,
		Module: "plugin_abi",
		Plugin: "reverse",
		Log: Log{
			Level: "info",
		},
		Memory: Memory{
			InitialPages: 1,
			MaxPages:     256,
			HeapBase:     1024,
		},
	}
}

// Load reads a TOML file over the defaults. An empty path returns Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "read "+path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "parse "+path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes cfg to path as TOML.
func Save(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "encode config")
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "write "+path)
	}
	return nil
}

// Validate checks value ranges and cross-field constraints.
func (c Config) Validate() error {
	switch c.Engine {
	case EngineLinear, EngineWazero:
	default:
		return invalid("engine", c.Engine, "must be %q or %q", EngineLinear, EngineWazero)
	}
	if c.Module == "" {
		return invalid("module", c.Module, "must not be empty")
	}
	if c.Plugin == "" {
		return invalid("plugin", c.Plugin, "must not be empty")
	}
	if _, err := c.Log.ZapLevel(); err != nil {
		return invalid("log.level", c.Log.Level, "%v", err)
	}

	m := c.Memory
	if m.InitialPages == 0 {
		return invalid("memory.initial_pages", m.InitialPages, "must be at least 1")
	}
	if m.MaxPages != 0 && m.MaxPages < m.InitialPages {
		return invalid("memory.max_pages", m.MaxPages, "must be 0 or at least initial_pages (%d)", m.InitialPages)
	}
	if m.MaxPages > pluginabi.MaxPages {
		return invalid("memory.max_pages", m.MaxPages, "must be at most %d", pluginabi.MaxPages)
	}
	if uint64(m.HeapBase) >= uint64(m.InitialPages)*pluginabi.PageSize {
		return invalid("memory.heap_base", m.HeapBase, "must lie inside the initial memory")
	}
	return nil
}

// ZapLevel parses Level. An empty level means info.
func (l Log) ZapLevel() (zapcore.Level, error) {
	if l.Level == "" {
		return zapcore.InfoLevel, nil
	}
	return zapcore.ParseLevel(l.Level)
}

// NewLogger builds a zap logger for l.
func (l Log) NewLogger() (*zap.Logger, error) {
	level, err := l.ZapLevel()
	if err != nil {
		return nil, invalid("log.level", l.Level, "%v", err)
	}

	var zc zap.Config
	if l.Development {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	logger, err := zc.Build()
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "build logger")
	}
	return logger, nil
}

func invalid(path string, value any, format string, args ...any) error {
	return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
		Path(path).
		Value(value).
		Detail(format, args...).
		Build()
}
