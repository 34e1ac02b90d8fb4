package mission

import (
	"math/rand"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/msageha/colonysim/internal/colony"
	"github.com/msageha/colonysim/internal/model"
	"github.com/msageha/colonysim/internal/world"
)

var start = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

const tick = 5 * time.Minute

type fixture struct {
	col  *colony.Colony
	base *colony.Settlement
	svc  *Services
}

func newFixture() *fixture {
	clock := colony.NewSimClock(start)
	col := colony.New(clock)
	base := colony.NewSettlement("Base", world.Coordinates{}, 2)
	col.AddSettlement(base)
	for _, res := range []string{"methane", model.ResourceOxygen, model.ResourceWater, model.ResourceFood} {
		base.Store(res, 1000)
	}

	cfg := model.DefaultMissionConfig()
	cfg.LoadChance = 1
	cfg.UnloadChance = 1
	return &fixture{
		col:  col,
		base: base,
		svc: &Services{
			Clock:    clock,
			Tasks:    col.Tasks(),
			Rand:     rand.New(rand.NewSource(1)),
			Logger:   zerolog.Nop(),
			Config:   cfg,
			Supplies: model.DefaultConfig().Supplies,
		},
	}
}

// people adds residents to the base; the first is usually the leader.
func (f *fixture) people(names ...string) []*colony.Person {
	out := make([]*colony.Person, 0, len(names))
	for _, n := range names {
		out = append(out, f.base.AddPerson(n))
	}
	return out
}

func (f *fixture) rover(name string) *colony.Vehicle {
	return f.base.AddVehicle(name, world.CategoryRover, colony.DefaultRoverSpec)
}

func (f *fixture) mission(t *testing.T, leader world.Person, min, max int, opts ...Option) *MissionProject {
	t.Helper()
	m, err := NewMissionProject(f.svc, Params{Type: "survey", Name: "Survey", Leader: leader, MinMembers: min, MaxMembers: max}, opts...)
	require.NoError(t, err)
	return m
}

func (f *fixture) vehicleMission(t *testing.T, leader world.Person, min, max int, opts ...Option) *VehicleProject {
	t.Helper()
	vp, err := NewVehicleProject(f.svc, Params{Type: "exploration", Name: "Expedition", Leader: leader, MinMembers: min, MaxMembers: max}, opts...)
	require.NoError(t, err)
	return vp
}

// step runs one tick: every member works on the mission, then the colony advances.
func (f *fixture) step(m Mission) {
	for _, w := range m.Members() {
		m.PerformMission(w)
	}
	f.col.Tick(tick)
}

// run steps until the mission is done or maxTicks pass, returning the ticks used.
func (f *fixture) run(m Mission, maxTicks int) int {
	n := 0
	for ; n < maxTicks && !m.IsDone(); n++ {
		f.step(m)
	}
	return n
}

func (f *fixture) site(name string, lat float64) world.NavPoint {
	return world.NavPoint{Name: name, Location: world.Coordinates{Lat: lat}}
}

func (f *fixture) home() world.NavPoint {
	return world.NavPoint{Name: f.base.Name(), Location: f.base.Coordinates(), Settlement: f.base}
}

// markerStep completes on its first execution.
type markerStep struct {
	MissionStep
	executed int
}

func newMarker(m *MissionProject, stage model.Stage, desc string) *markerStep {
	return &markerStep{MissionStep: newMissionStep(m, stage, desc)}
}

func (s *markerStep) Execute(world.Worker) bool {
	s.executed++
	s.Complete()
	return true
}

func descriptions(m *MissionProject) []string {
	var out []string
	for _, s := range m.project.RemainingSteps() {
		out = append(out, s.Description())
	}
	return out
}

func logText(m *MissionProject) []string {
	var out []string
	for _, e := range m.Log() {
		out = append(out, e.Entry)
	}
	return out
}
