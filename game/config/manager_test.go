package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/wricardo/gearpuzzle/game/engine"
)

func createValidLevel(id string) *engine.Level {
	return &engine.Level{
		ID:   id,
		Name: "Test Level",
		FixedGears: []engine.FixedGear{
			{ID: "start-1", Role: engine.RoleStart, Size: engine.Small, Position: engine.Position{X: 100, Y: 100}, RotationSpeed: 1},
			{ID: "goal-1", Role: engine.RoleGoal, Size: engine.Small, Position: engine.Position{X: 400, Y: 100}, RequiredDirection: engine.Clockwise},
		},
		Inventory: []engine.InventoryItem{{ID: "inv-1", Size: engine.Small}},
	}
}

func writeLevelFile(t *testing.T, dir, name string, v interface{}) {
	t.Helper()
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal level: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name+".json"), data, 0644); err != nil {
		t.Fatalf("Failed to write level file: %v", err)
	}
}

func TestBuiltinLevels(t *testing.T) {
	levels := BuiltinLevels()
	if len(levels) != 7 {
		t.Fatalf("Expected 7 built-in levels, got %d", len(levels))
	}

	for i, level := range levels {
		t.Run(level.ID, func(t *testing.T) {
			if err := engine.ValidateLevel(level); err != nil {
				t.Errorf("Built-in level is invalid: %v", err)
			}
			want := "builtin-00" + string(rune('1'+i))
			if level.ID != want {
				t.Errorf("Expected id %s, got %s", want, level.ID)
			}
		})
	}

	// Copies are independent
	levels[0].Name = "changed"
	if BuiltinLevels()[0].Name != "First Steps" {
		t.Error("BuiltinLevels should return fresh copies")
	}
}

func TestNewManager(t *testing.T) {
	t.Run("built-ins only", func(t *testing.T) {
		m, err := NewManager("")
		if err != nil {
			t.Fatalf("NewManager failed: %v", err)
		}
		if m.GetDefault().ID != DefaultLevelID {
			t.Errorf("Expected default %s, got %s", DefaultLevelID, m.GetDefault().ID)
		}
	})

	t.Run("creates missing directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "levels")
		if _, err := NewManager(dir); err != nil {
			t.Fatalf("NewManager failed: %v", err)
		}
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("Expected level directory to be created")
		}
	})
}

func TestManager_LoadLevel(t *testing.T) {
	dir := t.TempDir()
	writeLevelFile(t, dir, "custom", createValidLevel("custom"))

	broken := createValidLevel("broken")
	broken.FixedGears = broken.FixedGears[:1]
	writeLevelFile(t, dir, "broken", broken)

	if err := os.WriteFile(filepath.Join(dir, "garbage.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	m, _ := NewManager(dir)

	tests := []struct {
		name    string
		id      string
		wantErr error
		wantID  string
	}{
		{"built-in", "builtin-004", nil, "builtin-004"},
		{"custom file", "custom", nil, "custom"},
		{"json suffix", "custom.json", nil, "custom"},
		{"missing", "nope", ErrLevelNotFound, ""},
		{"path traversal", "../custom", ErrLevelNotFound, ""},
		{"fails validation", "broken", ErrInvalidLevel, ""},
		{"unparsable", "garbage", ErrInvalidLevel, ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			level, err := m.LoadLevel(test.id)
			if test.wantErr != nil {
				if !errors.Is(err, test.wantErr) {
					t.Errorf("Expected %v, got %v", test.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadLevel failed: %v", err)
			}
			if level.ID != test.wantID {
				t.Errorf("Expected id %s, got %s", test.wantID, level.ID)
			}
		})
	}
}

func TestManager_LoadLevel_IDFromFilename(t *testing.T) {
	dir := t.TempDir()
	writeLevelFile(t, dir, "unnamed", createValidLevel(""))

	m, _ := NewManager(dir)
	level, err := m.LoadLevel("unnamed")
	if err != nil {
		t.Fatalf("LoadLevel failed: %v", err)
	}
	if level.ID != "unnamed" {
		t.Errorf("Expected id from filename, got %q", level.ID)
	}
}

func TestManager_ListLevels(t *testing.T) {
	dir := t.TempDir()
	writeLevelFile(t, dir, "a-custom", createValidLevel("a-custom"))
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("[]"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644); err != nil {
		t.Fatal(err)
	}

	m, _ := NewManager(dir)
	levels, err := m.ListLevels()
	if err != nil {
		t.Fatalf("ListLevels failed: %v", err)
	}
	if len(levels) != 8 {
		t.Fatalf("Expected 7 built-ins and 1 custom level, got %d", len(levels))
	}

	if !levels[0].Builtin || levels[0].ID != "builtin-001" {
		t.Errorf("Expected built-ins first, got %+v", levels[0])
	}
	custom := levels[7]
	if custom.Builtin || custom.ID != "a-custom" {
		t.Errorf("Expected custom level last, got %+v", custom)
	}
	if custom.StartGears != 1 || custom.GoalGears != 1 || custom.InventorySize != 1 {
		t.Errorf("Unexpected level summary: %+v", custom)
	}
}

func TestManager_SaveLevel(t *testing.T) {
	dir := t.TempDir()
	m, _ := NewManager(dir)

	level := createValidLevel("")
	level.Inventory = append(level.Inventory, engine.InventoryItem{Size: engine.Medium})

	saved, err := m.SaveLevel(level)
	if err != nil {
		t.Fatalf("SaveLevel failed: %v", err)
	}
	if _, err := uuid.Parse(saved.ID); err != nil {
		t.Errorf("Expected a uuid id, got %q", saved.ID)
	}
	if saved.CreatedAt == "" {
		t.Error("Expected createdAt to be set")
	}
	if saved.Inventory[1].ID == "" {
		t.Error("Expected missing inventory id to be filled")
	}

	if _, err := os.Stat(filepath.Join(dir, saved.ID+".json")); err != nil {
		t.Errorf("Expected level file on disk: %v", err)
	}

	// A fresh manager reads it back from disk
	other, _ := NewManager(dir)
	loaded, err := other.LoadLevel(saved.ID)
	if err != nil {
		t.Fatalf("LoadLevel of saved level failed: %v", err)
	}
	if loaded.Name != "Test Level" || len(loaded.Inventory) != 2 {
		t.Errorf("Unexpected loaded level: %+v", loaded)
	}
}

func TestManager_SaveLevel_Errors(t *testing.T) {
	m, _ := NewManager(t.TempDir())

	invalid := createValidLevel("no-goal")
	invalid.FixedGears = invalid.FixedGears[:1]

	tests := []struct {
		name    string
		level   *engine.Level
		wantErr error
	}{
		{"nil", nil, ErrInvalidLevel},
		{"built-in id", createValidLevel("builtin-002"), ErrBuiltinLevel},
		{"unsafe id", createValidLevel("../../etc"), ErrInvalidLevel},
		{"fails validation", invalid, ErrInvalidLevel},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := m.SaveLevel(test.level)
			if !errors.Is(err, test.wantErr) {
				t.Errorf("Expected %v, got %v", test.wantErr, err)
			}
		})
	}
}

func TestManager_SaveLevel_LeavesInputUntouched(t *testing.T) {
	m, _ := NewManager("")

	t.Run("rejected level", func(t *testing.T) {
		level := createValidLevel("")
		level.FixedGears = level.FixedGears[:1]
		level.Inventory[0].ID = ""

		if _, err := m.SaveLevel(level); !errors.Is(err, ErrInvalidLevel) {
			t.Fatalf("Expected ErrInvalidLevel, got %v", err)
		}
		if level.ID != "" || level.CreatedAt != "" || level.Inventory[0].ID != "" {
			t.Errorf("Rejected level was modified: %+v", level)
		}
	})

	t.Run("accepted level", func(t *testing.T) {
		level := createValidLevel("")
		level.Inventory[0].ID = ""

		saved, err := m.SaveLevel(level)
		if err != nil {
			t.Fatalf("SaveLevel failed: %v", err)
		}
		if saved == level {
			t.Fatal("Expected SaveLevel to return a copy")
		}
		if saved.ID == "" || saved.Inventory[0].ID == "" {
			t.Errorf("Expected defaults on the saved copy, got %+v", saved)
		}
		if level.ID != "" || level.CreatedAt != "" || level.Inventory[0].ID != "" {
			t.Errorf("Input level was modified: %+v", level)
		}

		// later edits to the input do not reach the stored level
		level.FixedGears[0].RotationSpeed = 5
		loaded, err := m.LoadLevel(saved.ID)
		if err != nil {
			t.Fatalf("LoadLevel failed: %v", err)
		}
		if loaded.FixedGears[0].RotationSpeed != 1 {
			t.Errorf("Stored level shares gears with the input: %v", loaded.FixedGears[0].RotationSpeed)
		}
	})
}

func TestManager_InMemoryDrafts(t *testing.T) {
	m, _ := NewManager("")

	saved, err := m.SaveLevel(createValidLevel("draft"))
	if err != nil {
		t.Fatalf("SaveLevel failed: %v", err)
	}
	if _, err := m.LoadLevel(saved.ID); err != nil {
		t.Errorf("Expected draft to load: %v", err)
	}

	levels, _ := m.ListLevels()
	if len(levels) != 8 {
		t.Errorf("Expected draft in listing, got %d levels", len(levels))
	}

	if err := m.DeleteLevel("draft"); err != nil {
		t.Fatalf("DeleteLevel failed: %v", err)
	}
	if err := m.DeleteLevel("draft"); !errors.Is(err, ErrLevelNotFound) {
		t.Errorf("Expected ErrLevelNotFound, got %v", err)
	}
}

func TestManager_DeleteLevel(t *testing.T) {
	dir := t.TempDir()
	m, _ := NewManager(dir)
	m.SaveLevel(createValidLevel("to-delete"))

	if err := m.SetDefault("to-delete"); err != nil {
		t.Fatalf("SetDefault failed: %v", err)
	}
	if err := m.DeleteLevel("to-delete"); err != nil {
		t.Fatalf("DeleteLevel failed: %v", err)
	}
	if _, err := m.LoadLevel("to-delete"); !errors.Is(err, ErrLevelNotFound) {
		t.Errorf("Expected deleted level to be gone, got %v", err)
	}
	if m.GetDefault().ID != DefaultLevelID {
		t.Errorf("Expected default to fall back to %s, got %s", DefaultLevelID, m.GetDefault().ID)
	}

	if err := m.DeleteLevel("builtin-001"); !errors.Is(err, ErrBuiltinLevel) {
		t.Errorf("Expected ErrBuiltinLevel, got %v", err)
	}
	if err := m.DeleteLevel("never-existed"); !errors.Is(err, ErrLevelNotFound) {
		t.Errorf("Expected ErrLevelNotFound, got %v", err)
	}
}

func TestManager_SetDefault(t *testing.T) {
	m, _ := NewManager("")

	if err := m.SetDefault("builtin-005"); err != nil {
		t.Fatalf("SetDefault failed: %v", err)
	}
	if m.GetDefault().Name != "The Long Chain" {
		t.Errorf("Expected The Long Chain, got %s", m.GetDefault().Name)
	}
	if err := m.SetDefault("missing"); !errors.Is(err, ErrLevelNotFound) {
		t.Errorf("Expected ErrLevelNotFound, got %v", err)
	}
}

func TestManager_DailyLevel(t *testing.T) {
	m, _ := NewManager("")

	tests := []struct {
		date time.Time
		want string
	}{
		{time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC), "builtin-002"},
		{time.Date(2026, 1, 7, 12, 0, 0, 0, time.UTC), "builtin-001"},
		{time.Date(2026, 1, 13, 12, 0, 0, 0, time.UTC), "builtin-007"},
	}

	for _, test := range tests {
		t.Run(test.date.Format("2006-01-02"), func(t *testing.T) {
			if got := m.DailyLevel(test.date).ID; got != test.want {
				t.Errorf("Expected %s, got %s", test.want, got)
			}
		})
	}
}

func TestManager_RefreshCache(t *testing.T) {
	dir := t.TempDir()
	writeLevelFile(t, dir, "edited", createValidLevel("edited"))

	m, _ := NewManager(dir)
	if _, err := m.LoadLevel("edited"); err != nil {
		t.Fatal(err)
	}

	changed := createValidLevel("edited")
	changed.Name = "Edited On Disk"
	writeLevelFile(t, dir, "edited", changed)

	level, _ := m.LoadLevel("edited")
	if level.Name != "Test Level" {
		t.Errorf("Expected cached level before refresh, got %s", level.Name)
	}

	if err := m.RefreshCache(); err != nil {
		t.Fatalf("RefreshCache failed: %v", err)
	}
	level, _ = m.LoadLevel("edited")
	if level.Name != "Edited On Disk" {
		t.Errorf("Expected reloaded level after refresh, got %s", level.Name)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	dir := t.TempDir()
	writeLevelFile(t, dir, "shared", createValidLevel("shared"))
	m, _ := NewManager(dir)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := m.LoadLevel("shared"); err != nil {
				errs <- err
			}
			m.DailyLevel(time.Now())
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Concurrent load failed: %v", err)
	}
}
