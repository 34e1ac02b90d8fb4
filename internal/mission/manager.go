package mission

import (
	"sort"
	"sync"

	"github.com/msageha/colonysim/internal/world"
)

// Manager is the registry of running missions. Observers may query it
// from outside the tick loop.
type Manager struct {
	mu       sync.RWMutex
	missions map[string]Mission
	order    []string
}

func NewManager() *Manager {
	return &Manager{missions: make(map[string]Mission)}
}

func (mm *Manager) Add(m Mission) {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	if _, ok := mm.missions[m.ID()]; ok {
		return
	}
	mm.missions[m.ID()] = m
	mm.order = append(mm.order, m.ID())
}

func (mm *Manager) Get(id string) (Mission, bool) {
	mm.mu.RLock()
	defer mm.mu.RUnlock()
	m, ok := mm.missions[id]
	return m, ok
}

// Missions returns every registered mission, highest priority first and
// otherwise in registration order.
func (mm *Manager) Missions() []Mission {
	mm.mu.RLock()
	out := make([]Mission, 0, len(mm.order))
	for _, id := range mm.order {
		out = append(out, mm.missions[id])
	}
	mm.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority() > out[j].Priority() })
	return out
}

// PerformMission dispatches w to the mission it belongs to.
func (mm *Manager) PerformMission(w world.Worker) bool {
	id := w.MissionID()
	if id == "" {
		return false
	}
	m, ok := mm.Get(id)
	if !ok {
		return false
	}
	return m.PerformMission(w)
}

// AllDone reports whether every registered mission has finished.
func (mm *Manager) AllDone() bool {
	mm.mu.RLock()
	defer mm.mu.RUnlock()
	for _, m := range mm.missions {
		if !m.IsDone() {
			return false
		}
	}
	return true
}

// Prune unregisters finished missions and returns them.
func (mm *Manager) Prune() []Mission {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	var done []Mission
	kept := mm.order[:0]
	for _, id := range mm.order {
		m := mm.missions[id]
		if m.IsDone() {
			done = append(done, m)
			delete(mm.missions, id)
			continue
		}
		kept = append(kept, id)
	}
	mm.order = kept
	return done
}
