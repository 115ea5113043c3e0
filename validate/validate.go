// Command validate checks level JSON files. For each file it checks:
//   - JSON structure and the level schema (roles, sizes, ids, gear limits)
//   - Fixed gears lie fully on the board and do not overlap
//   - The level is not already solved before any gear is placed
//   - Solvability: the solver finds a placement sequence within the timeout
//
// With no arguments it validates every *.json file in the level directory;
// the built-in levels are checked with -builtin.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/gearpuzzle/game/config"
	"github.com/wricardo/gearpuzzle/game/engine"
	"github.com/wricardo/gearpuzzle/game/solver"
)

// ValidationResult captures the outcome of validating a single level.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// options controls the optional, slower checks
type options struct {
	solve   bool
	timeout time.Duration
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) info(format string, args ...interface{}) {
	r.Errors = append(r.Errors, "✓ "+fmt.Sprintf(format, args...))
}

// validateLevelFile loads and validates a single level JSON file
func validateLevelFile(ctx context.Context, filePath string, opts options) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var level engine.Level
	if err := json.Unmarshal(data, &level); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	checkLevel(ctx, &level, opts, &result)
	return result
}

// checkLevel runs the schema, layout and solvability checks on a parsed level
func checkLevel(ctx context.Context, level *engine.Level, opts options, result *ValidationResult) {
	if err := engine.ValidateLevel(level); err != nil {
		result.fail("%s", strings.TrimPrefix(err.Error(), "level validation: "))
		return
	}

	layout := validateLayout(level)
	if !layout.Valid {
		result.Valid = false
	}
	result.Errors = append(result.Errors, layout.Errors...)
	if !result.Valid {
		return
	}

	if engine.CheckWin(engine.Propagate(engine.InitializeStartDefaults(engine.GearsFromLevel(level)))) {
		result.fail("Level is solved before any gear is placed")
		return
	}

	if opts.solve {
		solvable := validateSolvable(ctx, level, opts.timeout)
		if !solvable.Valid {
			result.Valid = false
		}
		result.Errors = append(result.Errors, solvable.Errors...)
	}

	if result.Valid {
		result.info("Name: %s", level.Name)
		result.info("Start gears: %d", countRole(level, engine.RoleStart))
		result.info("Goal gears: %d", countRole(level, engine.RoleGoal))
		result.info("Inventory: %d", len(level.Inventory))
	}
}

func countRole(level *engine.Level, role engine.GearRole) int {
	n := 0
	for _, fg := range level.FixedGears {
		if fg.Role == role {
			n++
		}
	}
	return n
}

// validateLayout ensures every fixed gear lies on the board and that no two
// fixed gears overlap.
func validateLayout(level *engine.Level) ValidationResult {
	result := ValidationResult{Valid: true, Errors: []string{}}

	gears := engine.GearsFromLevel(level)
	for i, g := range gears {
		c := engine.Center(g)
		if !engine.OnBoard(c, g.Size) {
			result.fail("Gear '%s' centered at (%.0f,%.0f) extends past the %dx%d board",
				g.ID, c.X, c.Y, engine.BoardWidth, engine.BoardHeight)
		}
		if !engine.Fits(c, g.Size, gears[:i], g.ID) {
			result.fail("Gear '%s' overlaps another fixed gear", g.ID)
		}
	}

	if result.Valid {
		result.info("Layout: %d fixed gears on board", len(gears))
	}
	return result
}

// validateSolvable runs the solver on the level with a time limit
func validateSolvable(ctx context.Context, level *engine.Level, timeout time.Duration) ValidationResult {
	result := ValidationResult{Valid: true, Errors: []string{}}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	res, err := solver.New(solver.Options{}).Solve(ctx, level)
	switch {
	case err == nil:
		result.info("Solvable: %d placement(s), %d boards searched", len(res.Placements), res.Nodes)
	case errors.Is(err, solver.ErrNoSolution):
		result.fail("No solution: searched %d boards without satisfying every goal", res.Nodes)
	case errors.Is(err, solver.ErrSearchLimit), errors.Is(err, context.DeadlineExceeded):
		// An exhausted search is inconclusive, not a failure
		result.Errors = append(result.Errors, fmt.Sprintf("? Solvability unknown: %v", err))
	default:
		result.fail("Solver error: %v", err)
	}
	return result
}

// report prints one result and returns whether it was valid
func report(w io.Writer, result ValidationResult) bool {
	fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

	if result.Valid {
		fmt.Fprintln(w, "✅ VALID")
		for _, info := range result.Errors {
			fmt.Fprintln(w, "  "+info)
		}
		return true
	}

	fmt.Fprintln(w, "❌ INVALID")
	for _, err := range result.Errors {
		if !strings.HasPrefix(err, "✓") {
			fmt.Fprintln(w, "  ❌ "+err)
		}
	}
	return false
}

// run validates the given files (or every level in dir) and the built-ins when
// asked, printing a report to w. It returns whether everything was valid.
func run(ctx context.Context, w io.Writer, dir string, files []string, builtin bool, opts options) (bool, error) {
	if len(files) == 0 && dir != "" {
		found, err := filepath.Glob(filepath.Join(dir, "*.json"))
		if err != nil {
			return false, fmt.Errorf("finding level files: %w", err)
		}
		files = found
	}

	allValid := true
	count := 0
	for _, file := range files {
		count++
		if !report(w, validateLevelFile(ctx, file, opts)) {
			allValid = false
		}
	}

	if builtin {
		for _, level := range config.BuiltinLevels() {
			count++
			result := ValidationResult{File: level.ID + " (built-in)", Valid: true, Errors: []string{}}
			checkLevel(ctx, level, opts, &result)
			if !report(w, result) {
				allValid = false
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	switch {
	case count == 0:
		fmt.Fprintln(w, "No levels found")
	case allValid:
		fmt.Fprintf(w, "✅ All %d levels are valid!\n", count)
	default:
		fmt.Fprintln(w, "❌ Some levels have errors")
	}
	return allValid, nil
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "check gear puzzle level files",
		ArgsUsage: "[level.json ...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Value:   "levels",
				Usage:   "directory scanned when no files are given",
				Sources: cli.EnvVars("LEVEL_DIR"),
			},
			&cli.BoolFlag{
				Name:  "builtin",
				Usage: "also validate the built-in levels",
			},
			&cli.BoolFlag{
				Name:  "solve",
				Value: true,
				Usage: "run the solver to check each level can be won",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: 10 * time.Second,
				Usage: "solver time limit per level",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ok, err := run(ctx, os.Stdout, cmd.String("dir"), cmd.Args().Slice(), cmd.Bool("builtin"), options{
				solve:   cmd.Bool("solve"),
				timeout: cmd.Duration("timeout"),
			})
			if err != nil {
				return err
			}
			if !ok {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
