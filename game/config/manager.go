package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wricardo/gearpuzzle/game/engine"
	"github.com/wricardo/gearpuzzle/game/service"
)

var (
	ErrLevelNotFound = errors.New("level not found")
	ErrInvalidLevel  = errors.New("invalid level")
	ErrBuiltinLevel  = errors.New("built-in levels are read-only")
)

// Manager handles level loading and caching. Built-in levels are always
// available; custom levels live as <id>.json files in the level directory.
type Manager struct {
	levelDir     string
	defaultLevel *engine.Level
	builtins     []*engine.Level
	levels       map[string]*engine.Level
	mu           sync.RWMutex
}

// NewManager creates a new level manager. An empty levelDir keeps custom
// levels in memory only.
func NewManager(levelDir string) (*Manager, error) {
	if levelDir != "" {
		if err := os.MkdirAll(levelDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create level directory %s: %w", levelDir, err)
		}
	}

	m := &Manager{
		levelDir: levelDir,
		builtins: BuiltinLevels(),
		levels:   make(map[string]*engine.Level),
	}
	m.defaultLevel = m.builtins[0]

	return m, nil
}

// LevelDir returns the directory custom levels are stored in
func (m *Manager) LevelDir() string {
	return m.levelDir
}

// IsBuiltin reports whether id names a built-in level
func (m *Manager) IsBuiltin(id string) bool {
	return m.builtin(id) != nil
}

func (m *Manager) builtin(id string) *engine.Level {
	for _, level := range m.builtins {
		if level.ID == id {
			return level
		}
	}
	return nil
}

// LoadLevel loads a level by id
func (m *Manager) LoadLevel(id string) (*engine.Level, error) {
	id = strings.TrimSuffix(id, ".json")

	m.mu.RLock()
	// Check cache first
	if level, exists := m.levels[id]; exists {
		m.mu.RUnlock()
		return level, nil
	}
	m.mu.RUnlock()

	if level := m.builtin(id); level != nil {
		return level, nil
	}

	if !validID(id) {
		return nil, fmt.Errorf("%w: %s", ErrLevelNotFound, id)
	}
	if m.levelDir == "" {
		return nil, fmt.Errorf("%w: %s", ErrLevelNotFound, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if level, exists := m.levels[id]; exists {
		return level, nil
	}

	data, err := os.ReadFile(m.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrLevelNotFound, id)
		}
		return nil, fmt.Errorf("failed to read level file: %w", err)
	}

	var level engine.Level
	if err := json.Unmarshal(data, &level); err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %v", ErrInvalidLevel, id, err)
	}
	if level.ID == "" {
		level.ID = id
	}

	if err := engine.ValidateLevel(&level); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}

	m.levels[id] = &level
	return &level, nil
}

// ListLevels returns the built-in levels followed by every valid custom level
func (m *Manager) ListLevels() ([]*service.LevelInfo, error) {
	var levels []*service.LevelInfo
	for _, level := range m.builtins {
		levels = append(levels, levelInfo(level, true))
	}

	seen := make(map[string]bool)
	if m.levelDir != "" {
		entries, err := os.ReadDir(m.levelDir)
		if err != nil {
			return nil, fmt.Errorf("failed to read level directory: %w", err)
		}

		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
				continue
			}

			id := strings.TrimSuffix(entry.Name(), ".json")
			if m.IsBuiltin(id) {
				continue
			}
			level, err := m.LoadLevel(id)
			if err != nil {
				// Skip invalid levels
				log.Printf("Warning: skipping level %s: %v", entry.Name(), err)
				continue
			}
			seen[id] = true
			levels = append(levels, levelInfo(level, false))
		}
	}

	// In-memory drafts when no directory backs the manager
	m.mu.RLock()
	for id, level := range m.levels {
		if !seen[id] && m.levelDir == "" {
			levels = append(levels, levelInfo(level, false))
		}
	}
	m.mu.RUnlock()

	return levels, nil
}

func levelInfo(level *engine.Level, builtin bool) *service.LevelInfo {
	return &service.LevelInfo{
		ID:            level.ID,
		Name:          level.Name,
		Description:   level.Description,
		CreatedAt:     level.CreatedAt,
		Builtin:       builtin,
		StartGears:    countFixed(level, engine.RoleStart),
		GoalGears:     countFixed(level, engine.RoleGoal),
		InventorySize: len(level.Inventory),
	}
}

func countFixed(level *engine.Level, role engine.GearRole) int {
	n := 0
	for _, fg := range level.FixedGears {
		if fg.Role == role {
			n++
		}
	}
	return n
}

// GetDefault returns the default level
func (m *Manager) GetDefault() *engine.Level {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultLevel
}

// SetDefault sets the default level by id
func (m *Manager) SetDefault(id string) error {
	level, err := m.LoadLevel(id)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultLevel = level
	return nil
}

// DailyLevel picks the built-in level of the day
func (m *Manager) DailyLevel(t time.Time) *engine.Level {
	return m.builtins[t.YearDay()%len(m.builtins)]
}

// RefreshCache drops every cached custom level so the next load reads from disk
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.levelDir == "" {
		return nil
	}

	m.levels = make(map[string]*engine.Level)
	if m.defaultLevel != nil && m.builtin(m.defaultLevel.ID) == nil {
		m.defaultLevel = m.builtins[0]
	}
	return nil
}

// SaveLevel validates and stores a copy of a custom level. A missing id is
// replaced by a fresh uuid, missing inventory ids and createdAt are filled in
// on the copy; the caller's level is never modified.
func (m *Manager) SaveLevel(in *engine.Level) (*engine.Level, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: level is nil", ErrInvalidLevel)
	}

	level := copyLevel(in)
	if level.ID == "" {
		level.ID = uuid.NewString()
	}
	if !validID(level.ID) {
		return nil, fmt.Errorf("%w: id '%s' may only contain letters, digits, '-' and '_'", ErrInvalidLevel, level.ID)
	}
	if m.IsBuiltin(level.ID) {
		return nil, fmt.Errorf("%w: %s", ErrBuiltinLevel, level.ID)
	}
	if level.CreatedAt == "" {
		level.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	for i := range level.Inventory {
		if level.Inventory[i].ID == "" {
			level.Inventory[i].ID = "inv-" + uuid.NewString()[:8]
		}
	}

	if err := engine.ValidateLevel(level); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}

	if m.levelDir != "" {
		data, err := json.MarshalIndent(level, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal level: %w", err)
		}
		if err := os.WriteFile(m.path(level.ID), data, 0644); err != nil {
			return nil, fmt.Errorf("failed to write level file: %w", err)
		}
	}

	// Update cache
	m.mu.Lock()
	m.levels[level.ID] = level
	m.mu.Unlock()

	return level, nil
}

func copyLevel(level *engine.Level) *engine.Level {
	out := *level
	out.FixedGears = append([]engine.FixedGear(nil), level.FixedGears...)
	out.Inventory = append([]engine.InventoryItem(nil), level.Inventory...)
	return &out
}

// DeleteLevel removes a custom level
func (m *Manager) DeleteLevel(id string) error {
	if m.IsBuiltin(id) {
		return fmt.Errorf("%w: %s", ErrBuiltinLevel, id)
	}
	if !validID(id) {
		return fmt.Errorf("%w: %s", ErrLevelNotFound, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	_, cached := m.levels[id]
	delete(m.levels, id)
	if m.defaultLevel != nil && m.defaultLevel.ID == id {
		m.defaultLevel = m.builtins[0]
	}

	if m.levelDir == "" {
		if !cached {
			return fmt.Errorf("%w: %s", ErrLevelNotFound, id)
		}
		return nil
	}

	if err := os.Remove(m.path(id)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrLevelNotFound, id)
		}
		return fmt.Errorf("failed to delete level file: %w", err)
	}
	return nil
}

func (m *Manager) path(id string) string {
	return filepath.Join(m.levelDir, id+".json")
}

// validID keeps level ids usable as file names
func validID(id string) bool {
	if id == "" || len(id) > 64 {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

func inventoryID(n int) string {
	return fmt.Sprintf("inv-%d", n)
}
