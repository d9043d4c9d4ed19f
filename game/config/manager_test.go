package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/logjam/game/engine"
	"github.com/wricardo/logjam/game/service"
)

func createValidConfig() *engine.LevelConfig {
	return &engine.LevelConfig{
		Name:        "Test Level",
		Description: "Test level",
		Layers: [][]string{
			{"#####", "## ##", "#####"},
			{".....", "..@..", "...%."},
		},
		Legend: engine.DefaultLegend(),
		Start:  engine.Position{X: 0, Y: 0},
	}
}

func writeConfigFile(t *testing.T, dir, name string, config *engine.LevelConfig) {
	t.Helper()
	data, err := json.MarshalIndent(config, "", "  ")
	require.NoError(t, err)

	filename := name
	if filepath.Ext(filename) == "" {
		filename = name + ".json"
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), data, 0644))
}

func TestNewManager(t *testing.T) {
	t.Run("riverbank is the default", func(t *testing.T) {
		dir := t.TempDir()
		other := createValidConfig()
		other.Name = "Other"
		writeConfigFile(t, dir, "aaa", other)
		writeConfigFile(t, dir, "riverbank", createValidConfig())

		manager, err := NewManager(dir)
		require.NoError(t, err)
		id, config := manager.GetDefault()
		assert.Equal(t, "riverbank", id)
		assert.Equal(t, "Test Level", config.Name)
	})

	t.Run("first valid file when riverbank is missing", func(t *testing.T) {
		dir := t.TempDir()
		writeConfigFile(t, dir, "zeta", createValidConfig())
		writeConfigFile(t, dir, "alpha", createValidConfig())

		manager, err := NewManager(dir)
		require.NoError(t, err)
		id, _ := manager.GetDefault()
		assert.Equal(t, "alpha", id)
	})

	t.Run("built-in level when the directory is empty", func(t *testing.T) {
		manager, err := NewManager(t.TempDir())
		require.NoError(t, err)
		id, config := manager.GetDefault()
		assert.Equal(t, DefaultConfigID, id)
		assert.Equal(t, engine.DefaultLevelConfig().Name, config.Name)
	})

	t.Run("non-existent directory", func(t *testing.T) {
		_, err := NewManager("/non/existent/path")
		assert.Error(t, err)
	})
}

func TestManager_LoadConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "valid", createValidConfig())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0644))
	invalid := createValidConfig()
	invalid.Start = engine.Position{X: 2, Y: 1}
	writeConfigFile(t, dir, "invalid", invalid)

	manager, err := NewManager(dir)
	require.NoError(t, err)

	t.Run("with and without suffix", func(t *testing.T) {
		a, err := manager.LoadConfig("valid")
		require.NoError(t, err)
		b, err := manager.LoadConfig("valid.json")
		require.NoError(t, err)
		assert.Same(t, a, b, "cached")
	})

	t.Run("missing", func(t *testing.T) {
		_, err := manager.LoadConfig("missing")
		assert.ErrorIs(t, err, service.ErrConfigNotFound)
	})

	t.Run("broken json", func(t *testing.T) {
		_, err := manager.LoadConfig("broken")
		assert.ErrorIs(t, err, service.ErrInvalidConfig)
	})

	t.Run("fails validation", func(t *testing.T) {
		_, err := manager.LoadConfig("invalid")
		assert.ErrorIs(t, err, service.ErrInvalidConfig)
	})

	t.Run("path traversal", func(t *testing.T) {
		_, err := manager.LoadConfig("../etc/passwd")
		assert.ErrorIs(t, err, service.ErrInvalidConfig)
	})

	t.Run("legend defaults when omitted", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "nolegend.json"),
			[]byte(`{"name":"N","description":"d","layers":[["##"]],"start":{"x":0,"y":0}}`), 0644))
		config, err := manager.LoadConfig("nolegend")
		require.NoError(t, err)
		assert.Equal(t, engine.DefaultLegend(), config.Legend)
	})
}

func TestManager_ListConfigs(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "b_level", createValidConfig())
	writeConfigFile(t, dir, "a_level", createValidConfig())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0755))

	manager, err := NewManager(dir)
	require.NoError(t, err)

	configs, err := manager.ListConfigs()
	require.NoError(t, err)
	require.Len(t, configs, 2)
	assert.Equal(t, "a_level", configs[0].ConfigID)
	assert.Equal(t, "a_level.json", configs[0].Filename)
	assert.Equal(t, 5, configs[0].Width)
	assert.Equal(t, 3, configs[0].Height)
	assert.Equal(t, 1, configs[0].Logs)
}

func TestManager_SaveConfig(t *testing.T) {
	dir := t.TempDir()
	manager, err := NewManager(dir)
	require.NoError(t, err)

	config := createValidConfig()
	require.NoError(t, manager.SaveConfig("saved", config))
	_, err = os.Stat(filepath.Join(dir, "saved.json"))
	require.NoError(t, err)

	loaded, err := manager.LoadConfig("saved")
	require.NoError(t, err)
	assert.Same(t, config, loaded)

	manager.RefreshCache()
	reloaded, err := manager.LoadConfig("saved")
	require.NoError(t, err)
	assert.NotSame(t, config, reloaded)
	assert.Equal(t, config.Layers, reloaded.Layers)

	bad := createValidConfig()
	bad.Description = ""
	assert.ErrorIs(t, manager.SaveConfig("bad", bad), service.ErrInvalidConfig)
	assert.ErrorIs(t, manager.SaveConfig("../escape", config), service.ErrInvalidConfig)
}

func TestManager_SetDefault(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "one", createValidConfig())
	manager, err := NewManager(dir)
	require.NoError(t, err)

	require.NoError(t, manager.SetDefault("one.json"))
	id, _ := manager.GetDefault()
	assert.Equal(t, "one", id)
	assert.ErrorIs(t, manager.SetDefault("two"), service.ErrConfigNotFound)
}

func TestManager_ConcurrentLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "shared", createValidConfig())
	manager, err := NewManager(dir)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]*engine.LevelConfig, 10)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = manager.LoadConfig("shared")
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Same(t, results[0], r)
	}
}

func TestAnalyze(t *testing.T) {
	stats, err := Analyze(createValidConfig())
	require.NoError(t, err)

	assert.Equal(t, 5, stats.Width)
	assert.Equal(t, 3, stats.Height)
	assert.Equal(t, 1, stats.Water)
	assert.Equal(t, 14, stats.Land)
	assert.Equal(t, 1, stats.Stumps)
	assert.Equal(t, 1, stats.Rocks)
	assert.Equal(t, 1, stats.Logs)
	assert.Equal(t, 1, stats.Floating)
	// every land cell but the rock
	assert.Equal(t, 13, stats.Reachable)
	assert.Empty(t, stats.Stranded)
	assert.Empty(t, stats.Warnings)
}

func TestAnalyze_StrandedAndWarnings(t *testing.T) {
	config := &engine.LevelConfig{
		Name:        "Island",
		Description: "a log out of reach",
		Layers: [][]string{
			{"#  ##"},
			{"....@"},
		},
		Legend: engine.DefaultLegend(),
		Start:  engine.Position{X: 0, Y: 0},
	}
	stats, err := Analyze(config)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Reachable)
	assert.Equal(t, []engine.Position{{X: 4, Y: 0}}, stats.Stranded)
	assert.Contains(t, stats.Warnings, "the player cannot take a single step from the start")

	_, err = Analyze(&engine.LevelConfig{})
	assert.Error(t, err)
}

func TestAnalyze_BuiltInLevel(t *testing.T) {
	stats, err := Analyze(engine.DefaultLevelConfig())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Logs)
	assert.Greater(t, stats.Reachable, 1)
}
