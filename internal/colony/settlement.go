package colony

import (
	"context"
	"sync"
	"time"

	"github.com/msageha/colonysim/internal/model"
	"github.com/msageha/colonysim/internal/world"
)

// Settlement is a base with stores, residents and a garage.
type Settlement struct {
	id        string
	name      string
	coords    world.Coordinates
	garageCap int
	residents []world.Worker
	parked    []*Vehicle
	fleet     []*Vehicle

	mu        sync.Mutex
	stores    map[string]float64
	equipment map[string]int
	shortages map[string]float64
}

func NewSettlement(name string, coords world.Coordinates, garageCapacity int) *Settlement {
	return &Settlement{
		id:        model.NewID(model.IDTypeSettle),
		name:      name,
		coords:    coords,
		garageCap: garageCapacity,
		stores:    make(map[string]float64),
		equipment: make(map[string]int),
		shortages: make(map[string]float64),
	}
}

func (s *Settlement) ID() string                     { return s.id }
func (s *Settlement) Name() string                   { return s.name }
func (s *Settlement) Coordinates() world.Coordinates { return s.coords }

// AddPerson creates a resident indoors at s.
func (s *Settlement) AddPerson(name string) *Person {
	p := newPerson(name, s)
	s.residents = append(s.residents, p)
	return p
}

// AddRobot creates a robot indoors at s.
func (s *Settlement) AddRobot(name string) *Robot {
	r := newRobot(name, s)
	s.residents = append(s.residents, r)
	return r
}

// AddVehicle creates a vehicle parked outside at s.
func (s *Settlement) AddVehicle(name string, category world.VehicleCategory, spec VehicleSpec) *Vehicle {
	v := newVehicle(name, category, spec, s)
	s.parked = append(s.parked, v)
	s.fleet = append(s.fleet, v)
	return v
}

// Residents lists everyone based at s wherever they are.
func (s *Settlement) Residents() []world.Worker {
	out := make([]world.Worker, len(s.residents))
	copy(out, s.residents)
	return out
}

func (s *Settlement) IndoorPeople() []world.Worker {
	var out []world.Worker
	for _, w := range s.residents {
		if in := w.Settlement(); in != nil && in.ID() == s.id {
			out = append(out, w)
		}
	}
	return out
}

// Population counts the people based at s, including those away.
func (s *Settlement) Population() int {
	n := 0
	for _, w := range s.residents {
		if w.Kind() == world.KindPerson {
			n++
		}
	}
	return n
}

func (s *Settlement) ParkedVehicles() []world.Vehicle {
	out := make([]world.Vehicle, 0, len(s.parked))
	for _, v := range s.parked {
		out = append(out, v)
	}
	return out
}

func (s *Settlement) AddToGarage(v world.Vehicle) bool {
	veh, ok := v.(*Vehicle)
	if !ok || veh.parkedAt != s {
		return false
	}
	if veh.garaged {
		return true
	}
	used := 0
	for _, p := range s.parked {
		if p.garaged {
			used++
		}
	}
	if used >= s.garageCap {
		return false
	}
	veh.garaged = true
	return true
}

func (s *Settlement) removeParked(v *Vehicle) {
	for i, p := range s.parked {
		if p == v {
			s.parked = append(s.parked[:i], s.parked[i+1:]...)
			return
		}
	}
}

// Store adds kg of resource to the stores.
func (s *Settlement) Store(resource string, kg float64) {
	if kg <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stores[resource] += kg
}

func (s *Settlement) Stock(resource string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stores[resource]
}

func (s *Settlement) StoreEquipment(equipmentType string, n int) {
	if n <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.equipment[equipmentType] += n
}

func (s *Settlement) EquipmentStock(equipmentType string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.equipment[equipmentType]
}

// Stores returns a snapshot of every stocked resource.
func (s *Settlement) Stores() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]float64, len(s.stores))
	for k, v := range s.stores {
		out[k] = v
	}
	return out
}

// Shortages returns how much of each resource upkeep could not draw.
func (s *Settlement) Shortages() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]float64, len(s.shortages))
	for k, v := range s.shortages {
		out[k] = v
	}
	return out
}

func (s *Settlement) retrieve(resource string, kg float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	have := s.stores[resource]
	if kg > have {
		kg = have
	}
	s.stores[resource] = have - kg
	return kg
}

func (s *Settlement) retrieveEquipment(equipmentType string, n int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.equipment[equipmentType] < n {
		return false
	}
	s.equipment[equipmentType] -= n
	return true
}

// Upkeep feeds everyone indoors for dt. It touches only this settlement's
// stores, so settlements may run their upkeep concurrently.
func (s *Settlement) Upkeep(ctx context.Context, dt time.Duration, sup model.SuppliesConfig) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	people := 0
	for _, w := range s.IndoorPeople() {
		if w.Kind() == world.KindPerson {
			people++
		}
	}
	if people == 0 {
		return nil
	}
	sols := dt.Hours() / model.SolDuration.Hours() * float64(people)
	need := map[string]float64{
		model.ResourceOxygen: sup.OxygenPerSol * sols,
		model.ResourceWater:  sup.WaterPerSol * sols,
		model.ResourceFood:   sup.FoodPerSol * sols,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for res, kg := range need {
		have := s.stores[res]
		if have >= kg {
			s.stores[res] = have - kg
			continue
		}
		s.stores[res] = 0
		s.shortages[res] += kg - have
	}
	return nil
}
