package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/logjam/game/config"
	"github.com/wricardo/logjam/game/engine"
)

func output(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

// loadLevel returns the named level, or the manager's default when name is
// empty.
func loadLevel(configs *config.Manager, name string) (*engine.LevelConfig, error) {
	if name == "" {
		_, level := configs.GetDefault()
		return level, nil
	}
	level, err := configs.LoadConfig(name)
	if err != nil {
		return nil, fmt.Errorf("level %q: %w", name, err)
	}
	return level, nil
}

func runLevelsList(ctx context.Context, cmd *cli.Command) error {
	configs, err := config.NewManager(cmd.String("config-dir"))
	if err != nil {
		return err
	}
	infos, err := configs.ListConfigs()
	if err != nil {
		return err
	}

	w := output(cmd)
	for _, info := range infos {
		fmt.Fprintf(w, "%-16s %-24s %dx%d  logs: %d\n", info.ConfigID, info.Name, info.Width, info.Height, info.Logs)
	}
	return nil
}

func runLevelsValidate(ctx context.Context, cmd *cli.Command) error {
	results, err := config.ValidateDir(cmd.String("config-dir"))
	if err != nil {
		return err
	}
	if !printValidation(output(cmd), results) {
		return fmt.Errorf("some levels have errors")
	}
	return nil
}

// printValidation writes a report per file and reports whether all were valid
func printValidation(w io.Writer, results []config.ValidationResult) bool {
	allValid := true
	for _, result := range results {
		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)
		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
		} else {
			fmt.Fprintln(w, "❌ INVALID")
			allValid = false
		}
		for _, e := range result.Errors {
			fmt.Fprintln(w, "  ❌ "+e)
		}
		for _, note := range result.Notes {
			fmt.Fprintln(w, "  "+note)
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintf(w, "✅ All %d levels are valid\n", len(results))
	} else {
		fmt.Fprintln(w, "❌ Some levels have errors")
	}
	return allValid
}

func runLevelsAnalyze(ctx context.Context, cmd *cli.Command) error {
	configs, err := config.NewManager(cmd.String("config-dir"))
	if err != nil {
		return err
	}

	names := cmd.Args().Slice()
	if len(names) == 0 {
		infos, err := configs.ListConfigs()
		if err != nil {
			return err
		}
		for _, info := range infos {
			names = append(names, info.ConfigID)
		}
	}

	w := output(cmd)
	for _, name := range names {
		level, err := loadLevel(configs, name)
		if err != nil {
			return err
		}
		stats, err := config.Analyze(level)
		if err != nil {
			return fmt.Errorf("analyze %s: %w", name, err)
		}
		printStats(w, name, stats)
	}
	return nil
}

func printStats(w io.Writer, id string, stats *config.LevelStats) {
	fmt.Fprintf(w, "== %s (%s)\n", stats.Name, id)
	fmt.Fprintf(w, "   board %dx%d  water %d  land %d  stumps %d  rocks %d\n",
		stats.Width, stats.Height, stats.Water, stats.Land, stats.Stumps, stats.Rocks)
	fmt.Fprintf(w, "   logs %d (floating %d)  reachable land %d\n", stats.Logs, stats.Floating, stats.Reachable)
	if len(stats.Stranded) > 0 {
		cells := make([]string, 0, len(stats.Stranded))
		for _, p := range stats.Stranded {
			cells = append(cells, fmt.Sprintf("(%d,%d)", p.X, p.Y))
		}
		fmt.Fprintf(w, "   stranded logs: %s\n", strings.Join(cells, " "))
	}
	for _, warning := range stats.Warnings {
		fmt.Fprintf(w, "   warning: %s\n", warning)
	}
}
