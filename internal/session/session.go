// Package session bundles the mutable leveling state and isolates independent sessions.
package session

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"leveler/internal/bids"
	"leveler/internal/scope"
)

// State is everything the engine reads: scope, bids and plug costs.
// A State is single-writer; share it across goroutines only through a Registry.
type State struct {
	Scope *scope.Catalog
	Bids  *bids.Book
	Plugs *scope.PlugCostTable
}

func NewState() *State {
	return &State{
		Scope: scope.NewCatalog(),
		Bids:  bids.NewBook(),
		Plugs: scope.NewPlugCostTable(),
	}
}

type entry struct {
	mu    sync.Mutex
	state *State
}

// Registry hosts many sessions. Work inside one session is serialized; sessions never share state.
type Registry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*entry
}

func NewRegistry() *Registry {
	return &Registry{sessions: map[uuid.UUID]*entry{}}
}

func (r *Registry) Create() uuid.UUID {
	id := uuid.New()
	r.mu.Lock()
	r.sessions[id] = &entry{state: NewState()}
	r.mu.Unlock()
	return id
}

// Do runs fn with exclusive access to the session's state.
func (r *Registry) Do(id uuid.UUID, fn func(*State) error) error {
	r.mu.RLock()
	e, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("session not found: %s", id)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.state)
}

func (r *Registry) Drop(id uuid.UUID) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
