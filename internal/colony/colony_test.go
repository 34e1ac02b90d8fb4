package colony

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msageha/colonysim/internal/manifest"
	"github.com/msageha/colonysim/internal/model"
	"github.com/msageha/colonysim/internal/world"
)

var start = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestColony() (*Colony, *Settlement) {
	c := New(NewSimClock(start))
	s := NewSettlement("Base", world.Coordinates{Lat: 10, Lon: 20}, 1)
	c.AddSettlement(s)
	return c, s
}

func TestSimClock_Advance(t *testing.T) {
	clock := NewSimClock(start)
	assert.Equal(t, start, clock.Now())
	clock.Advance(time.Hour)
	assert.Equal(t, start.Add(time.Hour), clock.Now())
}

func TestSettlement_PeopleAndPopulation(t *testing.T) {
	_, s := newTestColony()
	alice := s.AddPerson("Alice")
	s.AddPerson("Bob")
	s.AddRobot("R2")

	assert.Equal(t, 2, s.Population())
	assert.Len(t, s.IndoorPeople(), 3)

	v := s.AddVehicle("Rover 1", world.CategoryRover, DefaultRoverSpec)
	require.True(t, alice.TransferTo(v))
	assert.Len(t, s.IndoorPeople(), 2, "people in a vehicle are not indoors")
	assert.Equal(t, 2, s.Population(), "population counts residents wherever they are")
	assert.True(t, alice.IsInVehicle())
	assert.False(t, alice.IsInSettlement())
	assert.True(t, v.IsOccupiedBy(alice))
}

func TestSettlement_AddToGarage(t *testing.T) {
	_, s := newTestColony()
	v1 := s.AddVehicle("Rover 1", world.CategoryRover, DefaultRoverSpec)
	v2 := s.AddVehicle("Rover 2", world.CategoryRover, DefaultRoverSpec)

	assert.True(t, s.AddToGarage(v1))
	assert.True(t, s.AddToGarage(v1), "already garaged")
	assert.False(t, s.AddToGarage(v2), "garage is full")
	assert.True(t, v1.IsInGarage())
	assert.False(t, v2.IsInGarage())

	other := NewSettlement("Other", world.Coordinates{}, 5)
	assert.False(t, other.AddToGarage(v2), "vehicle is not parked there")
}

func TestWorker_UnitAccessorsReturnUntypedNil(t *testing.T) {
	_, s := newTestColony()
	p := s.AddPerson("Alice")
	assert.Nil(t, p.Vehicle())
	assert.NotNil(t, p.Settlement())

	p.TransferTo(s.AddVehicle("Rover", world.CategoryRover, DefaultRoverSpec))
	assert.Nil(t, p.Settlement())
}

func TestPerson_Opinion(t *testing.T) {
	_, s := newTestColony()
	a := s.AddPerson("Alice")
	b := s.AddPerson("Bob")
	assert.Equal(t, float64(defaultOpinion), a.OpinionOf(b))
	a.SetOpinion(b, 80)
	assert.Equal(t, 80.0, a.OpinionOf(b))
}

func TestLoadingPlan_FailsWithoutMandatoryStock(t *testing.T) {
	_, s := newTestColony()
	v := s.AddVehicle("Rover", world.CategoryRover, DefaultRoverSpec)
	mf := manifest.New()
	mf.AddAmount("methane", 100, true)

	lc := v.SetLoading(mf)
	assert.True(t, lc.IsFailure())
	assert.False(t, lc.IsCompleted())
}

func TestLoadingPlan_EmptyManifestIsComplete(t *testing.T) {
	_, s := newTestColony()
	v := s.AddVehicle("Rover", world.CategoryRover, DefaultRoverSpec)
	lc := v.SetLoading(manifest.New())
	assert.True(t, lc.IsCompleted())
	assert.False(t, lc.IsFailure())
}

func TestLoadingPlan_LoadsMandatoryThenOptional(t *testing.T) {
	c, s := newTestColony()
	p := s.AddPerson("Alice")
	v := s.AddVehicle("Rover", world.CategoryRover, DefaultRoverSpec)
	s.Store("methane", 300)
	s.Store(model.ResourceWater, 10)
	s.StoreEquipment("drill", 1)

	mf := manifest.New()
	mf.AddAmount("methane", 300, true)
	mf.AddEquipment("drill", 1, true)
	mf.AddAmount(model.ResourceWater, 50, false)
	lc := v.SetLoading(mf)
	require.False(t, lc.IsFailure())

	tasks := c.Tasks()
	for i := 0; i < 5 && !lc.IsCompleted(); i++ {
		task := tasks.LoadVehicle(p, v)
		require.NotNil(t, task)
		require.True(t, p.TaskManager().CheckReplaceTask(task))
		c.Tick(time.Minute)
	}

	assert.True(t, lc.IsCompleted())
	assert.InDelta(t, 300, v.Cargo("methane"), 1e-9)
	assert.InDelta(t, 10, v.Cargo(model.ResourceWater), 1e-9, "optional loads what is in stock")
	assert.Equal(t, 1, v.EquipmentCount("drill"))
	assert.Equal(t, 0, s.EquipmentStock("drill"))
	assert.InDelta(t, 0, s.Stock("methane"), 1e-9)
}

func TestTaskManager_AcceptsOnlyWhenIdle(t *testing.T) {
	c, s := newTestColony()
	p := s.AddPerson("Alice")
	site := world.NavPoint{Name: "Crater"}
	tm := p.Tasks()

	require.True(t, tm.CheckReplaceTask(c.Tasks().FieldWork(p, site)))
	assert.False(t, tm.IsIdle())
	assert.False(t, tm.CheckReplaceTask(c.Tasks().FieldWork(p, site)))

	c.Tick(fieldWorkTime)
	assert.True(t, tm.IsIdle())
	assert.Equal(t, []string{"field work at Crater"}, tm.Completed())

	tm.SetRefusing(true)
	assert.False(t, tm.CheckReplaceTask(c.Tasks().FieldWork(p, site)))

	tm.SetRefusing(false)
	tm.Occupy(2 * time.Minute)
	assert.False(t, tm.IsIdle())
	c.Tick(2 * time.Minute)
	assert.True(t, tm.IsIdle())
}

func TestDriveTask_ArrivesAndParks(t *testing.T) {
	c, home := newTestColony()
	dest := NewSettlement("Outpost", world.Coordinates{Lat: 10.1, Lon: 20}, 1)
	c.AddSettlement(dest)

	p := home.AddPerson("Alice")
	v := home.AddVehicle("Rover", world.CategoryRover, DefaultRoverSpec)
	v.AddCargo("methane", 100)
	require.True(t, p.TransferTo(v))

	nav := world.NavPoint{Name: dest.Name(), Location: dest.Coordinates(), Settlement: dest}
	dist := home.Coordinates().DistanceTo(dest.Coordinates())

	task := c.Tasks().DriveVehicle(p, v, nav)
	require.NotNil(t, task)
	require.True(t, p.TaskManager().CheckReplaceTask(task))

	c.Tick(time.Minute)
	assert.Equal(t, p.ID(), v.Operator().ID())
	assert.Nil(t, v.Settlement(), "vehicle left its settlement")
	assert.Empty(t, home.ParkedVehicles())

	for i := 0; i < 100 && !p.TaskManager().IsIdle(); i++ {
		c.Tick(time.Minute)
	}
	assert.True(t, p.TaskManager().IsIdle())
	assert.Equal(t, dest.Coordinates(), v.Coordinates())
	assert.Nil(t, v.Operator())
	require.NotNil(t, v.Settlement())
	assert.Equal(t, dest.ID(), v.Settlement().ID())
	assert.InDelta(t, dist, v.Odometer(), 1e-6)
	assert.InDelta(t, 100-dist/DefaultRoverSpec.FuelEconomy, v.Cargo("methane"), 1e-6)
}

func TestDriveTask_StopsWithoutFuel(t *testing.T) {
	c, home := newTestColony()
	p := home.AddPerson("Alice")
	v := home.AddVehicle("Rover", world.CategoryRover, DefaultRoverSpec)
	require.True(t, p.TransferTo(v))

	nav := world.NavPoint{Name: "Far", Location: world.Coordinates{Lat: 20, Lon: 20}}
	require.True(t, p.TaskManager().CheckReplaceTask(c.Tasks().DriveVehicle(p, v, nav)))
	c.Tick(time.Minute)

	assert.True(t, p.TaskManager().IsIdle())
	assert.Equal(t, home.Coordinates(), v.Coordinates())
	assert.Zero(t, v.Odometer())
}

func TestUnloadAndExit(t *testing.T) {
	c, s := newTestColony()
	p := s.AddPerson("Alice")
	v := s.AddVehicle("Rover", world.CategoryRover, DefaultRoverSpec)
	v.AddCargo(model.ResourceFood, 40)
	v.equipment["drill"] = 1
	require.True(t, p.TransferTo(v))

	tasks := c.Tasks()
	assert.Nil(t, tasks.ExitVehicle(s.AddPerson("Bob"), v, true), "Bob is not aboard")

	require.True(t, p.TaskManager().CheckReplaceTask(tasks.UnloadVehicle(p, v)))
	c.Tick(time.Minute)
	assert.True(t, v.IsEmpty())
	assert.InDelta(t, 40, s.Stock(model.ResourceFood), 1e-9)
	assert.Equal(t, 1, s.EquipmentStock("drill"))
	assert.Nil(t, tasks.UnloadVehicle(p, v), "nothing left to unload")

	require.True(t, p.TaskManager().CheckReplaceTask(tasks.ExitVehicle(p, v, true)))
	c.Tick(time.Minute)
	assert.True(t, p.IsInSettlement())
	assert.False(t, v.IsOccupiedBy(p))
}

func TestSettlement_Upkeep(t *testing.T) {
	_, s := newTestColony()
	s.AddPerson("Alice")
	s.Store(model.ResourceOxygen, 10)
	s.Store(model.ResourceWater, 10)
	sup := model.SuppliesConfig{OxygenPerSol: 1, WaterPerSol: 1, FoodPerSol: 1}

	require.NoError(t, s.Upkeep(context.Background(), model.SolDuration, sup))
	assert.InDelta(t, 9, s.Stock(model.ResourceOxygen), 1e-9)
	assert.InDelta(t, 9, s.Stock(model.ResourceWater), 1e-9)
	assert.InDelta(t, 1, s.Shortages()[model.ResourceFood], 1e-9)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Upkeep(ctx, time.Minute, sup), context.Canceled)
}

func TestColony_Lookups(t *testing.T) {
	c, s := newTestColony()
	s.AddPerson("Alice")
	s.AddRobot("R2")
	s.AddVehicle("Rover", world.CategoryRover, DefaultRoverSpec)

	assert.Same(t, s, c.SettlementByName("Base"))
	assert.Nil(t, c.SettlementByName("Nowhere"))
	assert.Len(t, c.Workers(), 2)
	assert.Len(t, c.Vehicles(), 1)
	assert.Same(t, s, c.settlementOf(s))
	assert.Nil(t, c.settlementOf(nil))
}
