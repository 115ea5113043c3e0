package engine

import (
	"fmt"
	"time"
)

// PlaceGear takes an item from the inventory and puts it on the board as a
// positional gear centered at center. With snap set, the gear is pulled onto
// the best mesh point within SnapTolerance.
func (bs *BoardState) PlaceGear(inventoryID string, center Position, snap bool) (*ActionEntry, error) {
	if bs.Won {
		return nil, ErrLevelSolved
	}
	if !finite(center) {
		return nil, ErrInvalidPosition
	}

	idx := bs.inventoryIndex(inventoryID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrInventoryItemNotFound, inventoryID)
	}
	item := bs.Inventory[idx]
	if bs.gearIndex(item.ID) >= 0 {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateGear, item.ID)
	}

	target, snapped := resolvePlacement(item.ID, item.Size, center, snap, bs.Gears)
	gear := Gear{
		ID:         item.ID,
		Role:       RolePositional,
		Size:       item.Size,
		Position:   TopLeftFromCenter(target, item.Size),
		MeshedWith: []string{},
	}

	bs.Inventory = append(bs.Inventory[:idx:idx], bs.Inventory[idx+1:]...)
	bs.Gears = Propagate(append(cloneGears(bs.Gears), gear))

	to := gear.Position
	entry := ActionEntry{Action: "place", GearID: gear.ID, Size: gear.Size, To: &to}
	if snapped != nil {
		entry.Snapped = true
		entry.AnchorID = snapped.AnchorID
	}
	bs.afterChange(&entry)
	return &entry, nil
}

// MoveGear drags a positional gear to a new center. The gear is taken off the
// board and recreated with the same id, so snapping ignores its old spot.
func (bs *BoardState) MoveGear(gearID string, center Position, snap bool) (*ActionEntry, error) {
	if bs.Won {
		return nil, ErrLevelSolved
	}
	if !finite(center) {
		return nil, ErrInvalidPosition
	}

	idx := bs.gearIndex(gearID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrGearNotFound, gearID)
	}
	gear := bs.Gears[idx]
	if gear.Role != RolePositional {
		return nil, fmt.Errorf("%w: %s is a %s gear", ErrGearNotMovable, gearID, gear.Role)
	}

	others := withoutGear(bs.Gears, idx)
	target, snapped := resolvePlacement(gear.ID, gear.Size, center, snap, others)

	from := gear.Position
	gear.Position = TopLeftFromCenter(target, gear.Size)
	gear.Angle = 0
	bs.Gears = Propagate(append(others, gear))

	to := gear.Position
	entry := ActionEntry{Action: "move", GearID: gear.ID, Size: gear.Size, From: &from, To: &to}
	if snapped != nil {
		entry.Snapped = true
		entry.AnchorID = snapped.AnchorID
	}
	bs.afterChange(&entry)
	return &entry, nil
}

// RemoveGear takes a positional gear off the board and returns it to the inventory
func (bs *BoardState) RemoveGear(gearID string) (*ActionEntry, error) {
	if bs.Won {
		return nil, ErrLevelSolved
	}

	idx := bs.gearIndex(gearID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrGearNotFound, gearID)
	}
	gear := bs.Gears[idx]
	if gear.Role != RolePositional {
		return nil, fmt.Errorf("%w: %s is a %s gear", ErrGearNotMovable, gearID, gear.Role)
	}

	bs.Gears = Propagate(withoutGear(bs.Gears, idx))
	bs.Inventory = append(bs.Inventory, InventoryItem{ID: gear.ID, Size: gear.Size})

	from := gear.Position
	entry := ActionEntry{Action: "remove", GearID: gear.ID, Size: gear.Size, From: &from}
	bs.afterChange(&entry)
	return &entry, nil
}

// PreviewSnap returns where an inventory item or placed gear would snap if
// dropped at center, without changing the board. A nil result means no snap.
func (bs *BoardState) PreviewSnap(id string, center Position) (*SnapResult, error) {
	if !finite(center) {
		return nil, ErrInvalidPosition
	}

	if idx := bs.inventoryIndex(id); idx >= 0 {
		return FindSnapTarget(center, bs.Inventory[idx].Size, id, bs.Gears, SnapTolerance), nil
	}
	if idx := bs.gearIndex(id); idx >= 0 {
		gear := bs.Gears[idx]
		if gear.Role != RolePositional {
			return nil, fmt.Errorf("%w: %s is a %s gear", ErrGearNotMovable, id, gear.Role)
		}
		return FindSnapTarget(center, gear.Size, id, bs.Gears, SnapTolerance), nil
	}

	return nil, fmt.Errorf("%w: %s", ErrGearNotFound, id)
}

// LockedGears returns the gears currently stuck by conflicting drive
func (bs *BoardState) LockedGears() []Gear {
	var locked []Gear
	for _, g := range bs.Gears {
		if g.Locked {
			locked = append(locked, g)
		}
	}
	return locked
}

// afterChange refreshes derived views, records the action and checks for a win
func (bs *BoardState) afterChange(entry *ActionEntry) {
	entry.Won = bs.updateWin(time.Now())
	bs.AddActionToHistory(*entry)
}

// updateWin refreshes goal statuses and marks the board solved the first time
// every goal spins as required. It reports whether this call solved the board.
func (bs *BoardState) updateWin(now time.Time) bool {
	bs.refresh()

	if bs.Won {
		return false
	}
	if CheckWin(bs.Gears) {
		bs.Won = true
		bs.SolvedAt = &now
		bs.ElapsedMs = now.Sub(bs.StartedAt).Milliseconds()
		bs.Message = fmt.Sprintf("Solved! All goal gears spinning in %.1fs", float64(bs.ElapsedMs)/1000)
		return true
	}

	switch {
	case bs.LockedCount > 0:
		bs.Message = fmt.Sprintf("%d gear(s) locked by conflicting rotation", bs.LockedCount)
	default:
		satisfied := 0
		for _, goal := range bs.Goals {
			if goal.Satisfied {
				satisfied++
			}
		}
		bs.Message = fmt.Sprintf("Goals satisfied: %d/%d", satisfied, len(bs.Goals))
	}
	return false
}

// refresh recomputes the views derived from the gears
func (bs *BoardState) refresh() {
	bs.Goals = EvaluateGoals(bs.Gears)
	bs.LockedCount = CountLocked(bs.Gears)
}

// AddActionToHistory adds an action to the board's history
func (bs *BoardState) AddActionToHistory(entry ActionEntry) {
	entry.Timestamp = time.Now().Unix()
	entry.ActionNumber = bs.TotalActions + 1

	// Append to cumulative history (never cleared by reset) and increment total
	bs.ActionHistory = append(bs.ActionHistory, entry)
	bs.TotalActions++

	bs.CurrentActions = append(bs.CurrentActions, entry)
	bs.CurrentActionsCount++
}

func (bs *BoardState) gearIndex(id string) int {
	for i, g := range bs.Gears {
		if g.ID == id {
			return i
		}
	}
	return -1
}

func (bs *BoardState) inventoryIndex(id string) int {
	for i, item := range bs.Inventory {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// resolvePlacement returns the center a gear ends up at and the snap used, if any
func resolvePlacement(id string, size GearSize, center Position, snap bool, board []Gear) (Position, *SnapResult) {
	if !snap {
		return center, nil
	}
	if target := FindSnapTarget(center, size, id, board, SnapTolerance); target != nil {
		return target.Position, target
	}
	return center, nil
}

// Clone returns a deep copy of the board that shares no slices or pointers
// with bs, safe to read while bs keeps changing
func (bs *BoardState) Clone() *BoardState {
	if bs == nil {
		return nil
	}
	out := *bs

	out.Gears = make([]Gear, len(bs.Gears))
	for i, g := range bs.Gears {
		g.MeshedWith = append([]string{}, g.MeshedWith...)
		out.Gears[i] = g
	}
	out.Inventory = append([]InventoryItem{}, bs.Inventory...)
	out.Goals = append([]GoalStatus{}, bs.Goals...)
	out.ActionHistory = cloneEntries(bs.ActionHistory)
	out.CurrentActions = cloneEntries(bs.CurrentActions)
	if bs.SolvedAt != nil {
		solvedAt := *bs.SolvedAt
		out.SolvedAt = &solvedAt
	}
	return &out
}

func cloneEntries(entries []ActionEntry) []ActionEntry {
	out := make([]ActionEntry, len(entries))
	for i, e := range entries {
		out[i] = e.clone()
	}
	return out
}

func (e ActionEntry) clone() ActionEntry {
	if e.From != nil {
		from := *e.From
		e.From = &from
	}
	if e.To != nil {
		to := *e.To
		e.To = &to
	}
	return e
}

func cloneGears(gears []Gear) []Gear {
	out := make([]Gear, len(gears), len(gears)+1)
	copy(out, gears)
	return out
}

func withoutGear(gears []Gear, idx int) []Gear {
	out := make([]Gear, 0, len(gears))
	out = append(out, gears[:idx]...)
	return append(out, gears[idx+1:]...)
}
