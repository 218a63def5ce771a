// Package config resolves the store engine, location and logging setup for
// one process run. Sources are checked in order: a .callscope.json file in
// the working directory, then CALLSCOPE_* environment variables, then
// hardcoded defaults. The first source present supplies the whole
// configuration; sources never merge.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// FileName is the per-directory configuration file.
const FileName = ".callscope.json"

const (
	EngineSQLite = "sqlite"
	EngineDuckDB = "duckdb"
	EngineMemory = "memory"
)

const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Source names which configuration source resolved, for startup logging.
const (
	SourceFile    = "file"
	SourceEnv     = "env"
	SourceDefault = "default"
)

const (
	envEngine    = "CALLSCOPE_ENGINE"
	envPath      = "CALLSCOPE_PATH"
	envLogLevel  = "CALLSCOPE_LOG_LEVEL"
	envLogFormat = "CALLSCOPE_LOG_FORMAT"
)

// LookupFunc reports a variable's value and presence, shaped like
// os.LookupEnv.
type LookupFunc func(name string) (string, bool)

// Config is the resolved process configuration. The zero LogLevel is info.
type Config struct {
	Engine    string
	Location  string
	LogLevel  slog.Level
	LogFormat string
	Source    string
}

// EnsureStoreDir creates the store's parent directory for file-backed
// engines, so the default ~/.callscope location works on first run.
func (c *Config) EnsureStoreDir() error {
	if c.Engine == EngineMemory || c.Location == "" {
		return nil
	}

	dir := filepath.Dir(c.Location)
	if dir == "" || dir == "." {
		return nil
	}

	return os.MkdirAll(dir, 0o755)
}

// ReadError reports a configuration file that exists but could not be read.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("cannot read config file %q: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// DecodeError reports configuration JSON that could not be decoded.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot parse config file %q: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ExpandError reports a config value whose template could not be rendered.
type ExpandError struct {
	Field string
	Err   error
}

func (e *ExpandError) Error() string {
	return fmt.Sprintf("cannot expand config value %q: %v", e.Field, e.Err)
}

func (e *ExpandError) Unwrap() error { return e.Err }

// LevelError reports an unparsable log level.
type LevelError struct {
	Value string
	Err   error
}

func (e *LevelError) Error() string {
	return fmt.Sprintf("cannot parse log level %q: %v", e.Value, e.Err)
}

func (e *LevelError) Unwrap() error { return e.Err }

// FormatError reports an unknown log format.
type FormatError struct {
	Value string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unknown log format %q (want %s or %s)", e.Value, LogFormatText, LogFormatJSON)
}

// fileConfig is the .callscope.json shape. Field names mirror the
// environment variable surface.
type fileConfig struct {
	Engine    string `json:"engine"`
	Path      string `json:"path"`
	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"`
}

// Loader resolves configuration. The zero value reads the real working
// directory, environment and home directory; tests inject their own.
type Loader struct {
	Dir    string
	Lookup LookupFunc
	Home   func() (string, error)
}

// Load resolves configuration from the real process surroundings.
func Load() (*Config, error) {
	return Loader{}.Load()
}

// Load resolves configuration from the loader's sources.
func (l Loader) Load() (*Config, error) {
	path := filepath.Join(l.dir(), FileName)

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		return l.fromFile(path, data)
	case !errors.Is(err, fs.ErrNotExist):
		return nil, &ReadError{Path: path, Err: err}
	}

	if l.envPresent() {
		return l.fromEnv()
	}

	return l.finish(&Config{Source: SourceDefault}, "")
}

func (l Loader) fromFile(path string, data []byte) (*Config, error) {
	var file fileConfig
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	engine, err := l.expandField("engine", file.Engine)
	if err != nil {
		return nil, err
	}

	location, err := l.expandField("path", file.Path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Engine:    engine,
		Location:  location,
		LogFormat: file.LogFormat,
		Source:    SourceFile,
	}

	return l.finish(cfg, file.LogLevel)
}

func (l Loader) fromEnv() (*Config, error) {
	lookup := l.lookup()

	engine, _ := lookup(envEngine)
	location, _ := lookup(envPath)
	level, _ := lookup(envLogLevel)
	format, _ := lookup(envLogFormat)

	cfg := &Config{
		Engine:    engine,
		Location:  location,
		LogFormat: format,
		Source:    SourceEnv,
	}

	return l.finish(cfg, level)
}

// finish fills unset fields with hardcoded defaults and validates the
// logging setup. A memory engine keeps an empty location.
func (l Loader) finish(cfg *Config, level string) (*Config, error) {
	if cfg.Engine == "" {
		cfg.Engine = EngineSQLite
	}

	if cfg.Location == "" && cfg.Engine != EngineMemory {
		cfg.Location = l.defaultLocation()
	}

	if cfg.LogFormat == "" {
		cfg.LogFormat = LogFormatText
	}
	if cfg.LogFormat != LogFormatText && cfg.LogFormat != LogFormatJSON {
		return nil, &FormatError{Value: cfg.LogFormat}
	}

	if level != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(level)); err != nil {
			return nil, &LevelError{Value: level, Err: err}
		}
	}

	return cfg, nil
}

// defaultLocation picks the store path when no source names one: the
// project-local .callscope directory when it exists, an already present
// store in the working directory, and the per-user directory otherwise.
func (l Loader) defaultLocation() string {
	project := filepath.Join(l.dir(), ".callscope")
	if info, err := os.Stat(project); err == nil && info.IsDir() {
		return filepath.Join(project, "callscope.db")
	}

	local := filepath.Join(l.dir(), "callscope.db")
	if _, err := os.Stat(local); err == nil {
		return local
	}

	home, err := l.home()
	if err != nil || home == "" {
		return filepath.Join(project, "callscope.db")
	}

	return filepath.Join(home, ".callscope", "callscope.db")
}

func (l Loader) expandField(field, value string) (string, error) {
	expanded, err := expand(value, l.lookup())
	if err != nil {
		return "", &ExpandError{Field: field, Err: err}
	}

	return expanded, nil
}

func (l Loader) envPresent() bool {
	lookup := l.lookup()
	for _, name := range []string{envEngine, envPath, envLogLevel, envLogFormat} {
		if _, ok := lookup(name); ok {
			return true
		}
	}

	return false
}

func (l Loader) dir() string {
	if l.Dir != "" {
		return l.Dir
	}
	return "."
}

func (l Loader) lookup() LookupFunc {
	if l.Lookup != nil {
		return l.Lookup
	}
	return os.LookupEnv
}

func (l Loader) home() (string, error) {
	if l.Home != nil {
		return l.Home()
	}
	return os.UserHomeDir()
}
