// Command analyze prints quick, human-readable heuristics about level files.
// For each level it summarizes the fixed gears and inventory, the footprint of
// the fixed layout, how far each goal sits from the nearest start gear against
// the longest chain the inventory could build, and what the solver finds.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jbeda/geom"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/gearpuzzle/game/config"
	"github.com/wricardo/gearpuzzle/game/engine"
	"github.com/wricardo/gearpuzzle/game/solver"
)

// GoalReach compares a goal's distance from the nearest start gear with the
// longest gear chain that could bridge it
type GoalReach struct {
	GoalID    string
	StartID   string
	Distance  float64
	Reach     float64
	Reachable bool
}

// Analysis is the summary printed for one level
type Analysis struct {
	Name       string
	Starts     int
	Goals      int
	Inventory  map[engine.GearSize]int
	Bounds     geom.Rect
	Reach      []GoalReach
	Solved     bool
	SolveError error
	Placements []solver.Placement
	Nodes      int
}

// footprint returns the rectangle covering every fixed gear's outer circle
func footprint(gears []engine.Gear) geom.Rect {
	if len(gears) == 0 {
		return geom.Rect{}
	}
	var r geom.Rect
	for i, g := range gears {
		c := engine.Center(g).Coord()
		radius := engine.DimensionsOf(g.Size).OuterRadius
		lo := geom.Coord{X: c.X - radius, Y: c.Y - radius}
		hi := geom.Coord{X: c.X + radius, Y: c.Y + radius}
		if i == 0 {
			r = geom.Rect{Min: lo, Max: lo}
		}
		r.ExpandToContainCoord(lo)
		r.ExpandToContainCoord(hi)
	}
	return r
}

// chainReach is the longest start-to-goal center distance a chain through
// every inventory gear can span, allowing the mesh tolerance on each link
func chainReach(start, goal engine.GearSize, inventory []engine.InventoryItem) float64 {
	reach := engine.DimensionsOf(start).OuterRadius + engine.DimensionsOf(goal).OuterRadius
	for _, item := range inventory {
		reach += 2 * engine.DimensionsOf(item.Size).OuterRadius
	}
	return reach + float64(len(inventory)+1)*engine.MeshTolerance
}

func goalReach(gears []engine.Gear, inventory []engine.InventoryItem) []GoalReach {
	var out []GoalReach
	for _, goal := range gears {
		if goal.Role != engine.RoleGoal {
			continue
		}
		var best *GoalReach
		for _, start := range gears {
			if start.Role != engine.RoleStart {
				continue
			}
			d := engine.Distance(engine.Center(start), engine.Center(goal))
			if best == nil || d < best.Distance {
				best = &GoalReach{
					GoalID:   goal.ID,
					StartID:  start.ID,
					Distance: d,
					Reach:    chainReach(start.Size, goal.Size, inventory),
				}
			}
		}
		if best != nil {
			best.Reachable = best.Distance <= best.Reach
			out = append(out, *best)
		}
	}
	return out
}

// analyzeLevel computes the heuristics and, when solve is set, runs the solver
func analyzeLevel(ctx context.Context, level *engine.Level, solve bool, timeout time.Duration) *Analysis {
	gears := engine.GearsFromLevel(level)
	a := &Analysis{
		Name:      level.Name,
		Starts:    engine.CountRole(gears, engine.RoleStart),
		Goals:     engine.CountRole(gears, engine.RoleGoal),
		Inventory: make(map[engine.GearSize]int),
		Bounds:    footprint(gears),
		Reach:     goalReach(gears, level.Inventory),
	}
	for _, item := range level.Inventory {
		a.Inventory[item.Size]++
	}

	if !solve {
		return a
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	res, err := solver.New(solver.Options{}).Solve(ctx, level)
	a.SolveError = err
	if res != nil {
		a.Solved = res.Solved
		a.Placements = res.Placements
		a.Nodes = res.Nodes
	}
	return a
}

func printAnalysis(w io.Writer, a *Analysis) {
	fmt.Fprintf(w, "Name: %s\n", a.Name)
	fmt.Fprintf(w, "Start Gears: %d\n", a.Starts)
	fmt.Fprintf(w, "Goal Gears: %d\n", a.Goals)

	fmt.Fprint(w, "Inventory:")
	total := 0
	for _, size := range engine.AllSizes() {
		if n := a.Inventory[size]; n > 0 {
			fmt.Fprintf(w, " %dx %s", n, size)
			total += n
		}
	}
	if total == 0 {
		fmt.Fprint(w, " empty")
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Footprint: %.0fx%.0f at (%.0f, %.0f)\n", a.Bounds.Width(), a.Bounds.Height(), a.Bounds.Min.X, a.Bounds.Min.Y)

	unreachable := 0
	for _, r := range a.Reach {
		fmt.Fprintf(w, "Goal %s: %.0fpx from %s, chain reach %.0fpx\n", r.GoalID, r.Distance, r.StartID, r.Reach)
		if !r.Reachable {
			unreachable++
		}
	}
	if unreachable > 0 {
		fmt.Fprintf(w, "⚠️  WARNING: %d goal(s) are further than the whole inventory can span!\n", unreachable)
	} else {
		fmt.Fprintf(w, "✅ Every goal is within reach of the inventory\n")
	}

	switch {
	case a.Solved:
		fmt.Fprintf(w, "✅ Solved with %d placement(s) after %d boards\n", len(a.Placements), a.Nodes)
		for _, p := range a.Placements {
			fmt.Fprintf(w, "   %s (%s) at (%.1f, %.1f) meshing with %s\n", p.InventoryID, p.Size, p.Center.X, p.Center.Y, p.AnchorID)
		}
	case errors.Is(a.SolveError, solver.ErrNoSolution):
		fmt.Fprintf(w, "⚠️  CRITICAL: no solution after %d boards\n", a.Nodes)
	case a.SolveError != nil:
		fmt.Fprintf(w, "?  Solver stopped: %v\n", a.SolveError)
	}
}

func readLevel(path string) (*engine.Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	var level engine.Level
	if err := json.Unmarshal(data, &level); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	if err := engine.ValidateLevel(&level); err != nil {
		return nil, err
	}
	return &level, nil
}

func run(ctx context.Context, w io.Writer, dir string, files []string, builtin, solve bool, timeout time.Duration) error {
	if len(files) == 0 && dir != "" {
		found, err := filepath.Glob(filepath.Join(dir, "*.json"))
		if err != nil {
			return fmt.Errorf("finding level files: %w", err)
		}
		files = found
	}

	for _, file := range files {
		fmt.Fprintf(w, "\n=== Analyzing %s ===\n", filepath.Base(file))
		level, err := readLevel(file)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			continue
		}
		printAnalysis(w, analyzeLevel(ctx, level, solve, timeout))
	}

	if builtin {
		for _, level := range config.BuiltinLevels() {
			fmt.Fprintf(w, "\n=== Analyzing %s (built-in) ===\n", level.ID)
			printAnalysis(w, analyzeLevel(ctx, level, solve, timeout))
		}
	}
	return nil
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "print layout heuristics and solver results for levels",
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
				Usage: "also analyze the built-in levels",
			},
			&cli.BoolFlag{
				Name:  "solve",
				Value: true,
				Usage: "run the solver on each level",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: 10 * time.Second,
				Usage: "solver time limit per level",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return run(ctx, os.Stdout, cmd.String("dir"), cmd.Args().Slice(), cmd.Bool("builtin"), cmd.Bool("solve"), cmd.Duration("timeout"))
		},
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
