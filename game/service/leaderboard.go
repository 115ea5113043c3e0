package service

import (
	"sort"
	"sync"
)

const LeaderboardSize = 10

// Leaderboard keeps the fastest solve per player for each level. Only the
// first solve a player submits for a level counts.
type Leaderboard struct {
	entries map[string][]LeaderboardEntry
	mu      sync.RWMutex
}

// NewLeaderboard creates an empty leaderboard
func NewLeaderboard() *Leaderboard {
	return &Leaderboard{entries: make(map[string][]LeaderboardEntry)}
}

// Submit records entry for levelID and returns the status, the 1-based rank
// of the player and the current top entries
func (lb *Leaderboard) Submit(levelID string, entry LeaderboardEntry) *SubmitResult {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	entries := lb.entries[levelID]
	for _, e := range entries {
		if e.Player == entry.Player {
			return &SubmitResult{Status: "already_solved", Leaderboard: top(entries)}
		}
	}

	entries = append(entries, entry)
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].TimeMs != entries[j].TimeMs {
			return entries[i].TimeMs < entries[j].TimeMs
		}
		return entries[i].SolvedAt.Before(entries[j].SolvedAt)
	})
	lb.entries[levelID] = entries

	result := &SubmitResult{Status: "success", Leaderboard: top(entries)}
	for i, e := range entries {
		if e.Player == entry.Player {
			result.Rank = i + 1
			break
		}
	}
	return result
}

// Top returns the best entries for a level
func (lb *Leaderboard) Top(levelID string) []LeaderboardEntry {
	lb.mu.RLock()
	defer lb.mu.RUnlock()
	return top(lb.entries[levelID])
}

func top(entries []LeaderboardEntry) []LeaderboardEntry {
	n := len(entries)
	if n > LeaderboardSize {
		n = LeaderboardSize
	}
	out := make([]LeaderboardEntry, n)
	copy(out, entries[:n])
	return out
}
