package solver

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"

	"github.com/wricardo/gearpuzzle/game/engine"
)

var (
	ErrNoSolution  = errors.New("no solution found")
	ErrSearchLimit = errors.New("search limit reached")
)

const (
	DefaultDirections = 24
	DefaultMaxNodes   = 200000
)

// Options bounds the search
type Options struct {
	// Directions is the number of evenly spaced mesh angles tried around each anchor
	Directions int
	// MaxNodes caps the number of boards evaluated
	MaxNodes int
	// MaxDepth caps the number of gears placed; 0 means the whole inventory
	MaxDepth int
	Verbose  bool
}

// Placement is one gear put on the board by the solver
type Placement struct {
	InventoryID string          `json:"inventory_id"`
	Size        engine.GearSize `json:"size"`
	Center      engine.Position `json:"center"`
	AnchorID    string          `json:"anchor_id"`
}

// Result describes a finished search
type Result struct {
	Solved     bool          `json:"solved"`
	Placements []Placement   `json:"placements"`
	Gears      []engine.Gear `json:"gears,omitempty"`
	Nodes      int           `json:"nodes"`
}

// Solver searches for inventory placements that win a level
type Solver struct {
	opts Options
}

// New creates a solver, filling unset options with defaults
func New(opts Options) *Solver {
	if opts.Directions <= 0 {
		opts.Directions = DefaultDirections
	}
	if opts.MaxNodes <= 0 {
		opts.MaxNodes = DefaultMaxNodes
	}
	return &Solver{opts: opts}
}

type search struct {
	ctx      context.Context
	opts     Options
	nodes    int
	maxDepth int
	path     []Placement
	solution []engine.Gear
}

// Solve runs a depth-first search from the level's initial board. Every
// placement meshes ideally with a gear already on the board, on board and
// without overlapping anything.
func (s *Solver) Solve(ctx context.Context, level *engine.Level) (*Result, error) {
	if err := engine.ValidateLevel(level); err != nil {
		return nil, err
	}
	return s.SolveBoard(ctx, engine.Propagate(engine.InitializeStartDefaults(engine.GearsFromLevel(level))), level.Inventory)
}

// SolveBoard searches from an arbitrary board with the given items left to place
func (s *Solver) SolveBoard(ctx context.Context, gears []engine.Gear, inventory []engine.InventoryItem) (*Result, error) {
	st := &search{
		ctx:      ctx,
		opts:     s.opts,
		maxDepth: s.opts.MaxDepth,
	}
	if st.maxDepth <= 0 || st.maxDepth > len(inventory) {
		st.maxDepth = len(inventory)
	}

	if s.opts.Verbose {
		log.Printf("🔍 Solver: %d gears on board, %d in inventory, depth %d", len(gears), len(inventory), st.maxDepth)
	}

	found, err := st.dfs(engine.Propagate(gears), inventory, 0)
	result := &Result{Nodes: st.nodes, Placements: []Placement{}}
	if err != nil {
		return result, err
	}
	if !found {
		return result, ErrNoSolution
	}

	result.Solved = true
	result.Placements = append(result.Placements, st.path...)
	result.Gears = st.solution

	if s.opts.Verbose {
		log.Printf("✅ Solved with %d placement(s) after %d nodes", len(result.Placements), result.Nodes)
	}
	return result, nil
}

func (st *search) dfs(gears []engine.Gear, inventory []engine.InventoryItem, depth int) (bool, error) {
	st.nodes++
	if st.nodes > st.opts.MaxNodes {
		return false, fmt.Errorf("%w: %d nodes", ErrSearchLimit, st.opts.MaxNodes)
	}
	if err := st.ctx.Err(); err != nil {
		return false, err
	}

	if engine.CheckWin(gears) {
		st.solution = gears
		return true, nil
	}
	if depth >= st.maxDepth {
		return false, nil
	}

	// items of the same size are interchangeable, so try one per size
	tried := make(map[engine.GearSize]bool)
	for i, item := range inventory {
		if tried[item.Size] {
			continue
		}
		tried[item.Size] = true

		rest := make([]engine.InventoryItem, 0, len(inventory)-1)
		rest = append(rest, inventory[:i]...)
		rest = append(rest, inventory[i+1:]...)

		for _, c := range st.candidates(gears, item.Size) {
			gear := engine.Gear{
				ID:         item.ID,
				Role:       engine.RolePositional,
				Size:       item.Size,
				Position:   engine.TopLeftFromCenter(c.Center, item.Size),
				MeshedWith: []string{},
			}
			next := engine.Propagate(append(append(make([]engine.Gear, 0, len(gears)+1), gears...), gear))

			st.path = append(st.path, Placement{InventoryID: item.ID, Size: item.Size, Center: c.Center, AnchorID: c.AnchorID})
			found, err := st.dfs(next, rest, depth+1)
			if found || err != nil {
				return found, err
			}
			st.path = st.path[:len(st.path)-1]
		}
	}

	return false, nil
}

// candidates lists every free mesh point around the board's gears, closest to
// an unsatisfied goal first
func (st *search) candidates(gears []engine.Gear, size engine.GearSize) []Placement {
	var out []Placement
	seen := make(map[[2]int]bool)

	for _, anchor := range gears {
		if anchor.Locked {
			continue
		}
		for d := 0; d < st.opts.Directions; d++ {
			angle := 2 * math.Pi * float64(d) / float64(st.opts.Directions)
			c := engine.MeshPoint(anchor, size, angle)

			key := [2]int{int(math.Round(c.X)), int(math.Round(c.Y))}
			if seen[key] {
				continue
			}
			seen[key] = true

			if !engine.OnBoard(c, size) || !engine.Fits(c, size, gears, "") {
				continue
			}
			out = append(out, Placement{Size: size, Center: c, AnchorID: anchor.ID})
		}
	}

	targets := unsatisfiedGoals(gears)
	if len(targets) > 0 {
		sort.SliceStable(out, func(i, j int) bool {
			return nearest(out[i].Center, targets) < nearest(out[j].Center, targets)
		})
	}
	return out
}

func unsatisfiedGoals(gears []engine.Gear) []engine.Position {
	var targets []engine.Position
	for _, status := range engine.EvaluateGoals(gears) {
		if status.Satisfied {
			continue
		}
		if g, ok := engine.FindGear(gears, status.GearID); ok {
			targets = append(targets, engine.Center(g))
		}
	}
	return targets
}

func nearest(p engine.Position, targets []engine.Position) float64 {
	best := math.Inf(1)
	for _, t := range targets {
		if d := engine.Distance(p, t); d < best {
			best = d
		}
	}
	return best
}
