package gitrepos

import (
	"sort"
	"sync"
	"time"
)

// RepoState stores the index state for a single repository location.
type RepoState struct {
	Location     string         `json:"location"`
	Active       bool           `json:"active"`
	Revision     string         `json:"revision,omitempty"`
	Commit       string         `json:"commit,omitempty"`
	BuiltAt      time.Time      `json:"built_at,omitzero"`
	FilesIndexed int            `json:"files_indexed"`
	Definitions  int            `json:"definitions"`
	Names        int            `json:"names"`
	Bytes        string         `json:"bytes,omitempty"`
	Skipped      map[string]int `json:"skipped,omitempty"`
	Duration     string         `json:"duration,omitempty"`
	Error        string         `json:"error,omitempty"`
}

// StateTable tracks the state of every known location.
type StateTable struct {
	repos map[string]RepoState
	mu    sync.RWMutex
}

// NewStateTable creates an empty state table.
func NewStateTable() *StateTable {
	return &StateTable{repos: make(map[string]RepoState)}
}

// Get returns the state for a location.
func (t *StateTable) Get(location string) (RepoState, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	state, ok := t.repos[location]
	return state, ok
}

// Set replaces the state for a location.
func (t *StateTable) Set(state RepoState) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.repos[state.Location] = state
}

// SetError records a failure for a location, keeping the last good build info.
func (t *StateTable) SetError(location string, err string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	state, ok := t.repos[location]
	if !ok {
		state = RepoState{Location: location}
	}
	state.Error = err
	t.repos[location] = state
}

// SetActive marks location as the active one and clears the flag elsewhere.
func (t *StateTable) SetActive(location string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for loc, state := range t.repos {
		state.Active = loc == location
		t.repos[loc] = state
	}
}

// List returns all states ordered by location.
func (t *StateTable) List() []RepoState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	states := make([]RepoState, 0, len(t.repos))
	for _, state := range t.repos {
		states = append(states, state)
	}
	sort.Slice(states, func(i, j int) bool {
		return states[i].Location < states[j].Location
	})
	return states
}

// Errors returns the locations whose last build failed.
func (t *StateTable) Errors() map[string]string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	result := make(map[string]string)
	for loc, state := range t.repos {
		if state.Error != "" {
			result[loc] = state.Error
		}
	}
	return result
}
