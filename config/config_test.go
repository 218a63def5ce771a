package config_test

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/callscope/callscope/config"
	"github.com/stretchr/testify/require"
)

func noEnv(string) (string, bool) { return "", false }

func fakeEnv(vars map[string]string) config.LookupFunc {
	return func(name string) (string, bool) {
		value, ok := vars[name]
		return value, ok
	}
}

func fakeHome(dir string) func() (string, error) {
	return func() (string, error) { return dir, nil }
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(content), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	r := require.New(t)
	home := t.TempDir()

	loader := config.Loader{Dir: t.TempDir(), Lookup: noEnv, Home: fakeHome(home)}

	cfg, err := loader.Load()
	r.NoError(err)

	r.Equal(config.EngineSQLite, cfg.Engine)
	r.Equal(filepath.Join(home, ".callscope", "callscope.db"), cfg.Location)
	r.Equal(slog.LevelInfo, cfg.LogLevel)
	r.Equal(config.LogFormatText, cfg.LogFormat)
	r.Equal(config.SourceDefault, cfg.Source)
}

func TestLoadDefaultPrefersProjectDir(t *testing.T) {
	r := require.New(t)
	dir := t.TempDir()
	r.NoError(os.Mkdir(filepath.Join(dir, ".callscope"), 0o755))

	loader := config.Loader{Dir: dir, Lookup: noEnv, Home: fakeHome(t.TempDir())}

	cfg, err := loader.Load()
	r.NoError(err)
	r.Equal(filepath.Join(dir, ".callscope", "callscope.db"), cfg.Location)
}

func TestLoadDefaultPicksUpLocalStore(t *testing.T) {
	r := require.New(t)
	dir := t.TempDir()
	r.NoError(os.WriteFile(filepath.Join(dir, "callscope.db"), nil, 0o644))

	loader := config.Loader{Dir: dir, Lookup: noEnv, Home: fakeHome(t.TempDir())}

	cfg, err := loader.Load()
	r.NoError(err)
	r.Equal(filepath.Join(dir, "callscope.db"), cfg.Location)
}

func TestLoadFromEnv(t *testing.T) {
	r := require.New(t)

	loader := config.Loader{
		Dir: t.TempDir(),
		Lookup: fakeEnv(map[string]string{
			"CALLSCOPE_ENGINE":     "duckdb",
			"CALLSCOPE_PATH":       "/data/graph.duckdb",
			"CALLSCOPE_LOG_LEVEL":  "debug",
			"CALLSCOPE_LOG_FORMAT": "json",
		}),
	}

	cfg, err := loader.Load()
	r.NoError(err)

	r.Equal(config.EngineDuckDB, cfg.Engine)
	r.Equal("/data/graph.duckdb", cfg.Location)
	r.Equal(slog.LevelDebug, cfg.LogLevel)
	r.Equal(config.LogFormatJSON, cfg.LogFormat)
	r.Equal(config.SourceEnv, cfg.Source)
}

func TestLoadEnvPartial(t *testing.T) {
	r := require.New(t)

	loader := config.Loader{
		Dir:    t.TempDir(),
		Lookup: fakeEnv(map[string]string{"CALLSCOPE_ENGINE": "memory"}),
	}

	cfg, err := loader.Load()
	r.NoError(err)

	r.Equal(config.EngineMemory, cfg.Engine)
	r.Empty(cfg.Location)
	r.Equal(slog.LevelInfo, cfg.LogLevel)
	r.Equal(config.LogFormatText, cfg.LogFormat)
	r.Equal(config.SourceEnv, cfg.Source)
}

func TestLoadFileWinsOverEnv(t *testing.T) {
	r := require.New(t)
	dir := t.TempDir()
	writeConfig(t, dir, `{"engine": "memory"}`)

	loader := config.Loader{
		Dir:    dir,
		Lookup: fakeEnv(map[string]string{"CALLSCOPE_ENGINE": "duckdb"}),
	}

	cfg, err := loader.Load()
	r.NoError(err)

	r.Equal(config.EngineMemory, cfg.Engine)
	r.Empty(cfg.Location)
	r.Equal(config.SourceFile, cfg.Source)
}

func TestLoadFileExpandsValues(t *testing.T) {
	r := require.New(t)
	dir := t.TempDir()
	writeConfig(t, dir, `{"engine": "sqlite", "path": "{{ env \"STORE_DIR\" }}/graph.db"}`)

	loader := config.Loader{
		Dir:    dir,
		Lookup: fakeEnv(map[string]string{"STORE_DIR": "/data"}),
	}

	cfg, err := loader.Load()
	r.NoError(err)
	r.Equal("/data/graph.db", cfg.Location)
}

func TestLoadFileMalformed(t *testing.T) {
	r := require.New(t)
	dir := t.TempDir()
	writeConfig(t, dir, `{"engine": }`)

	loader := config.Loader{Dir: dir, Lookup: noEnv, Home: fakeHome(t.TempDir())}

	_, err := loader.Load()
	r.Error(err)

	var decodeErr *config.DecodeError
	r.True(errors.As(err, &decodeErr))
	r.Equal(filepath.Join(dir, config.FileName), decodeErr.Path)
}

func TestLoadRejectsUnknownLogLevel(t *testing.T) {
	r := require.New(t)

	loader := config.Loader{
		Dir:    t.TempDir(),
		Lookup: fakeEnv(map[string]string{"CALLSCOPE_LOG_LEVEL": "loud"}),
	}

	_, err := loader.Load()
	r.Error(err)

	var levelErr *config.LevelError
	r.True(errors.As(err, &levelErr))
	r.Equal("loud", levelErr.Value)
}

func TestLoadRejectsUnknownLogFormat(t *testing.T) {
	r := require.New(t)

	loader := config.Loader{
		Dir:    t.TempDir(),
		Lookup: fakeEnv(map[string]string{"CALLSCOPE_LOG_FORMAT": "yaml"}),
	}

	_, err := loader.Load()
	r.Error(err)

	var formatErr *config.FormatError
	r.True(errors.As(err, &formatErr))
	r.Equal("yaml", formatErr.Value)
}

func TestLoadRealEnvironment(t *testing.T) {
	r := require.New(t)
	t.Setenv("CALLSCOPE_ENGINE", "memory")

	loader := config.Loader{Dir: t.TempDir()}

	cfg, err := loader.Load()
	r.NoError(err)
	r.Equal(config.EngineMemory, cfg.Engine)
	r.Equal(config.SourceEnv, cfg.Source)
}

func TestEnsureStoreDir(t *testing.T) {
	r := require.New(t)
	dir := t.TempDir()

	cfg := &config.Config{
		Engine:   config.EngineSQLite,
		Location: filepath.Join(dir, "nested", "store", "callscope.db"),
	}
	r.NoError(cfg.EnsureStoreDir())

	info, err := os.Stat(filepath.Join(dir, "nested", "store"))
	r.NoError(err)
	r.True(info.IsDir())

	mem := &config.Config{Engine: config.EngineMemory}
	r.NoError(mem.EnsureStoreDir())
}
