// Command validate checks the theme JSON files in a directory (configs by
// default). It checks:
//   - JSON structure, including unknown keys
//   - Name and description presence
//   - Six non-empty glyphs per faction, with no glyph shared between values
//   - Victory and defeat messages
//   - That the game engine itself accepts the theme
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/factionmerge/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// Warnings do not make a file invalid.
type ValidationResult struct {
	File     string
	Valid    bool
	Errors   []string
	Warnings []string
	Info     []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) warn(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single theme file. Unlike the engine's
// own check it keeps going after the first problem.
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(filePath),
		Valid: true,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var config engine.GameConfig
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&config); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	if config.Name == "" {
		result.fail("name is required")
	} else if id := strings.TrimSuffix(result.File, ".json"); config.Name != id {
		result.warn("name %q differs from file name %q; sessions refer to the theme as %q", config.Name, id, id)
	}
	if config.Description == "" {
		result.fail("description is required")
	}

	validateGlyphs(&result, config.Glyphs)

	banner := engine.DefaultConfig().Messages
	if config.Messages.Victory == "" {
		result.fail("Missing required message: victory")
	} else if config.Messages.Victory != banner.Victory {
		result.warn("victory message %q is not the standard banner %q", config.Messages.Victory, banner.Victory)
	}
	if config.Messages.Defeat == "" {
		result.fail("Missing required message: defeat")
	} else if config.Messages.Defeat != banner.Defeat {
		result.warn("defeat message %q is not the standard banner %q", config.Messages.Defeat, banner.Defeat)
	}
	if config.Messages.Welcome == "" {
		result.warn("No welcome message")
	}
	if config.Messages.NoChange == "" {
		result.warn("No no_change message")
	}

	if result.Valid {
		if err := engine.ValidateGameConfig(&config); err != nil {
			result.fail("Rejected by engine: %v", err)
		}
	}

	if result.Valid {
		result.Info = append(result.Info,
			fmt.Sprintf("✓ Name: %s", config.Name),
			fmt.Sprintf("✓ Benign:  %s", glyphRow(config.Glyphs.Benign)),
			fmt.Sprintf("✓ Hostile: %s", glyphRow(config.Glyphs.Hostile)),
		)
	}
	return result
}

// validateGlyphs checks both glyph tables. A glyph used twice would make two
// different tiles look the same.
func validateGlyphs(result *ValidationResult, glyphs engine.Glyphs) {
	seen := make(map[string]string)

	tables := []struct {
		faction engine.Faction
		glyphs  []string
	}{
		{engine.Benign, glyphs.Benign},
		{engine.Hostile, glyphs.Hostile},
	}
	for _, table := range tables {
		if len(table.glyphs) != engine.GlyphCount {
			result.fail("glyphs.%s must have %d entries, got %d", table.faction, engine.GlyphCount, len(table.glyphs))
		}
		for i, g := range table.glyphs {
			label := fmt.Sprintf("%s %d", table.faction, 2<<i)
			if strings.TrimSpace(g) == "" {
				result.fail("glyph for %s is empty", label)
				continue
			}
			if prev, dup := seen[g]; dup {
				result.fail("glyph %s is used for both %s and %s", g, prev, label)
				continue
			}
			seen[g] = label
		}
	}
}

// glyphRow renders a table as "2=🌟 4=🌈 ..."
func glyphRow(glyphs []string) string {
	parts := make([]string, len(glyphs))
	for i, g := range glyphs {
		parts[i] = fmt.Sprintf("%d=%s", 2<<i, g)
	}
	return strings.Join(parts, " ")
}

// validateDir validates every *.json file in dir, in name order
func validateDir(dir string) ([]ValidationResult, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("finding config files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no theme files in %s", dir)
	}

	results := make([]ValidationResult, 0, len(files))
	for _, file := range files {
		results = append(results, validateConfig(file))
	}
	return results, nil
}

// printReport writes a concise report and reports whether every file was valid
func printReport(w io.Writer, results []ValidationResult) bool {
	allValid := true
	for _, result := range results {
		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Info {
				fmt.Fprintln(w, "  "+info)
			}
		} else {
			fmt.Fprintln(w, "❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				fmt.Fprintln(w, "  ❌ "+err)
			}
		}
		for _, warning := range result.Warnings {
			fmt.Fprintln(w, "  ⚠️  "+warning)
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, "✅ All configurations are valid!")
	} else {
		fmt.Fprintln(w, "❌ Some configurations have errors")
	}
	return allValid
}

func main() {
	cmd := &cli.Command{
		Name:      "validate",
		Usage:     "Validate theme files",
		ArgsUsage: "[dir]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir := "configs"
			if cmd.Args().Present() {
				dir = cmd.Args().First()
			}

			results, err := validateDir(dir)
			if err != nil {
				return err
			}
			if !printReport(cmd.Root().Writer, results) {
				return fmt.Errorf("some configurations have errors")
			}
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
