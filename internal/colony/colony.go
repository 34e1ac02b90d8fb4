// Package colony is an in-memory world for the mission engine: settlements
// with stores and garages, people, robots, vehicles and the tasks they perform.
package colony

import (
	"time"

	"github.com/msageha/colonysim/internal/world"
)

// Colony ties settlements to a shared clock and task factory.
type Colony struct {
	clock       *SimClock
	settlements []*Settlement
}

func New(clock *SimClock) *Colony {
	return &Colony{clock: clock}
}

func (c *Colony) Clock() *SimClock { return c.clock }

func (c *Colony) Tasks() world.TaskFactory { return taskFactory{c: c} }

func (c *Colony) AddSettlement(s *Settlement) {
	c.settlements = append(c.settlements, s)
}

func (c *Colony) Settlements() []*Settlement {
	out := make([]*Settlement, len(c.settlements))
	copy(out, c.settlements)
	return out
}

// SettlementByName returns nil when no settlement has that name.
func (c *Colony) SettlementByName(name string) *Settlement {
	for _, s := range c.settlements {
		if s.name == name {
			return s
		}
	}
	return nil
}

func (c *Colony) settlementOf(s world.Settlement) *Settlement {
	if s == nil {
		return nil
	}
	for _, own := range c.settlements {
		if own.id == s.ID() {
			return own
		}
	}
	return nil
}

// Workers lists every resident of every settlement.
func (c *Colony) Workers() []world.Worker {
	var out []world.Worker
	for _, s := range c.settlements {
		out = append(out, s.residents...)
	}
	return out
}

// Vehicles lists every vehicle based at a settlement, wherever it is.
func (c *Colony) Vehicles() []*Vehicle {
	var out []*Vehicle
	for _, s := range c.settlements {
		out = append(out, s.fleet...)
	}
	return out
}

// Tick advances the clock by dt and lets every worker perform its task.
func (c *Colony) Tick(dt time.Duration) {
	c.clock.Advance(dt)
	for _, w := range c.Workers() {
		if tm, ok := w.TaskManager().(*TaskManager); ok {
			tm.step(dt)
		}
	}
}
