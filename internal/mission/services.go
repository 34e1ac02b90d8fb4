package mission

import (
	"errors"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/msageha/colonysim/internal/events"
	"github.com/msageha/colonysim/internal/manifest"
	"github.com/msageha/colonysim/internal/model"
	"github.com/msageha/colonysim/internal/world"
)

// Services are the handles every mission and step needs from the surrounding
// simulation. They are injected at construction rather than looked up globally.
type Services struct {
	Clock    world.Clock
	Tasks    world.TaskFactory
	Rand     *rand.Rand
	Logger   zerolog.Logger
	Bus      *events.Bus
	Config   model.MissionConfig
	Supplies model.SuppliesConfig
}

var (
	ErrNoClock = errors.New("mission services: clock is required")
	ErrNoTasks = errors.New("mission services: task factory is required")
)

// normalized returns a copy of s with defaults filled in.
func (s *Services) normalized() (*Services, error) {
	if s == nil || s.Clock == nil {
		return nil, ErrNoClock
	}
	if s.Tasks == nil {
		return nil, ErrNoTasks
	}
	out := *s
	if out.Rand == nil {
		out.Rand = rand.New(rand.NewSource(1))
	}
	if out.Bus == nil {
		out.Bus = events.NewBus(0)
	}
	if out.Config == (model.MissionConfig{}) {
		out.Config = model.DefaultMissionConfig()
	}
	if out.Supplies == (model.SuppliesConfig{}) {
		out.Supplies = model.DefaultConfig().Supplies
	}
	return &out, nil
}

// chance reports true with probability p.
func (s *Services) chance(p float64) bool {
	switch {
	case p >= 1:
		return true
	case p <= 0:
		return false
	}
	return s.Rand.Float64() < p
}

// addLifeSupport adds oxygen, water and food for personSols person-sols.
func (s *Services) addLifeSupport(mf *manifest.SuppliesManifest, personSols float64, includeOptionals bool) {
	if personSols <= 0 {
		return
	}
	sup := s.Supplies
	mf.AddAmount(model.ResourceOxygen, sup.OxygenPerSol*personSols, true)
	mf.AddAmount(model.ResourceWater, sup.WaterPerSol*personSols, true)
	mf.AddAmount(model.ResourceFood, sup.FoodPerSol*personSols, true)
	if includeOptionals && sup.OptionalMargin > 0 {
		mf.AddAmount(model.ResourceOxygen, sup.OxygenPerSol*personSols*sup.OptionalMargin, false)
		mf.AddAmount(model.ResourceWater, sup.WaterPerSol*personSols*sup.OptionalMargin, false)
		mf.AddAmount(model.ResourceFood, sup.FoodPerSol*personSols*sup.OptionalMargin, false)
	}
}
