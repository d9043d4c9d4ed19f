package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/wricardo/logjam/game/engine"
)

// ValidationResult captures the outcome of validating a single level file.
// Errors make the file invalid; Notes are informational either way.
type ValidationResult struct {
	File   string      `json:"file"`
	Valid  bool        `json:"valid"`
	Errors []string    `json:"errors,omitempty"`
	Notes  []string    `json:"notes,omitempty"`
	Stats  *LevelStats `json:"stats,omitempty"`
}

// ValidateFile loads and validates one level file, then analyzes it for
// logs the player can never reach.
func ValidateFile(path string) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(path),
		Valid: true,
	}
	fail := func(format string, args ...interface{}) ValidationResult {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf(format, args...))
		return result
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fail("failed to read file: %v", err)
	}

	var config engine.LevelConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return fail("invalid JSON: %v", err)
	}
	if config.Legend == nil {
		config.Legend = engine.DefaultLegend()
		result.Notes = append(result.Notes, "no legend, using the default")
	}

	for i, layer := range config.Layers {
		if len(layer) != len(config.Layers[0]) {
			fail("layer %d has %d rows, layer 0 has %d", i, len(layer), len(config.Layers[0]))
		}
	}
	if !result.Valid {
		return result
	}

	stats, err := Analyze(&config)
	if err != nil {
		return fail("%v", err)
	}
	result.Stats = stats

	reachable := stats.Logs - len(stats.Stranded)
	result.Notes = append(result.Notes, fmt.Sprintf("%d/%d logs reachable from the start", reachable, stats.Logs))
	for _, p := range stats.Stranded {
		result.Notes = append(result.Notes, fmt.Sprintf("stranded log at (%d,%d)", p.X, p.Y))
	}
	result.Notes = append(result.Notes, stats.Warnings...)
	return result
}

// ValidateDir validates every *.json file in dir, sorted by name
func ValidateDir(dir string) ([]ValidationResult, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("config directory: %w", err)
	}
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	results := make([]ValidationResult, 0, len(files))
	for _, file := range files {
		results = append(results, ValidateFile(file))
	}
	return results, nil
}
