// Package solver finds placements of inventory gears that solve a level.
//
// The search is a bounded depth-first walk: each step places one inventory
// gear on an ideal mesh point of a gear already on the board, recomputes the
// board with engine.Propagate and stops at the first board that passes
// engine.CheckWin. Only snap-reachable positions are tried, so a level whose
// solution needs a free-floating gear outside every mesh point is reported
// as unsolved.
package solver
