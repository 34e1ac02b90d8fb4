package colony

import (
	"github.com/msageha/colonysim/internal/manifest"
	"github.com/msageha/colonysim/internal/model"
	"github.com/msageha/colonysim/internal/world"
)

// VehicleSpec holds a vehicle's performance figures.
type VehicleSpec struct {
	BaseSpeed   float64 `yaml:"base_speed"`   // km/h
	FuelType    string  `yaml:"fuel_type"`    // resource burnt when driving
	FuelEconomy float64 `yaml:"fuel_economy"` // km per kg
}

// DefaultRoverSpec is used when a scenario gives no figures.
var DefaultRoverSpec = VehicleSpec{BaseSpeed: 30, FuelType: "methane", FuelEconomy: 2}

type Vehicle struct {
	id        string
	name      string
	category  world.VehicleCategory
	spec      VehicleSpec
	home      *Settlement
	parkedAt  *Settlement
	garaged   bool
	coords    world.Coordinates
	odometer  float64
	cargo     map[string]float64
	equipment map[string]int
	occupants []world.Worker
	operator  world.Worker
	missionID string
	reserved  bool
	loading   *LoadingPlan
}

func newVehicle(name string, category world.VehicleCategory, spec VehicleSpec, home *Settlement) *Vehicle {
	return &Vehicle{
		id:        model.NewID(model.IDTypeVehicle),
		name:      name,
		category:  category,
		spec:      spec,
		home:      home,
		parkedAt:  home,
		coords:    home.coords,
		cargo:     make(map[string]float64),
		equipment: make(map[string]int),
	}
}

func (v *Vehicle) ID() string                      { return v.id }
func (v *Vehicle) Name() string                    { return v.name }
func (v *Vehicle) Category() world.VehicleCategory { return v.category }
func (v *Vehicle) IsInGarage() bool                { return v.garaged }
func (v *Vehicle) Coordinates() world.Coordinates  { return v.coords }
func (v *Vehicle) Odometer() float64               { return v.odometer }
func (v *Vehicle) BaseSpeed() float64              { return v.spec.BaseSpeed }
func (v *Vehicle) FuelType() string                { return v.spec.FuelType }
func (v *Vehicle) FuelEconomy() float64            { return v.spec.FuelEconomy }
func (v *Vehicle) Operator() world.Worker          { return v.operator }

// Home is the settlement the vehicle belongs to.
func (v *Vehicle) Home() *Settlement { return v.home }

func (v *Vehicle) Settlement() world.Settlement {
	if v.parkedAt == nil {
		return nil
	}
	return v.parkedAt
}

func (v *Vehicle) MissionID() string                   { return v.missionID }
func (v *Vehicle) SetMissionID(id string)              { v.missionID = id }
func (v *Vehicle) IsReservedForMission() bool          { return v.reserved }
func (v *Vehicle) SetReservedForMission(reserved bool) { v.reserved = reserved }

func (v *Vehicle) CargoMass() float64 {
	var total float64
	for _, kg := range v.cargo {
		total += kg
	}
	return total
}

// Cargo is the mass of one resource aboard.
func (v *Vehicle) Cargo(resource string) float64 { return v.cargo[resource] }

func (v *Vehicle) EquipmentCount(equipmentType string) int { return v.equipment[equipmentType] }

func (v *Vehicle) IsEmpty() bool {
	return v.CargoMass() <= massEpsilon && len(v.equipment) == 0
}

func (v *Vehicle) Occupants() []world.Worker {
	out := make([]world.Worker, len(v.occupants))
	copy(out, v.occupants)
	return out
}

func (v *Vehicle) IsOccupiedBy(w world.Worker) bool {
	for _, o := range v.occupants {
		if o.ID() == w.ID() {
			return true
		}
	}
	return false
}

func (v *Vehicle) removeOccupant(id string) {
	for i, w := range v.occupants {
		if w.ID() == id {
			v.occupants = append(v.occupants[:i], v.occupants[i+1:]...)
			break
		}
	}
	if v.operator != nil && v.operator.ID() == id {
		v.operator = nil
	}
}

// SetLoading replaces the vehicle's loading plan with one for m.
func (v *Vehicle) SetLoading(m *manifest.SuppliesManifest) world.LoadingController {
	v.loading = newLoadingPlan(v, m)
	return v.loading
}

// Loading is the current loading plan, nil if none was set.
func (v *Vehicle) Loading() *LoadingPlan { return v.loading }

// AddCargo puts kg of resource aboard without a loading plan.
func (v *Vehicle) AddCargo(resource string, kg float64) {
	if kg > 0 {
		v.cargo[resource] += kg
	}
}

func (v *Vehicle) takeCargo(resource string, kg float64) float64 {
	have := v.cargo[resource]
	if kg > have {
		kg = have
	}
	if have-kg <= massEpsilon {
		delete(v.cargo, resource)
	} else {
		v.cargo[resource] = have - kg
	}
	return kg
}

func (v *Vehicle) depart() {
	if v.parkedAt == nil {
		return
	}
	v.parkedAt.removeParked(v)
	v.parkedAt = nil
	v.garaged = false
}

func (v *Vehicle) park(s *Settlement) {
	v.coords = s.coords
	if v.parkedAt == s {
		return
	}
	v.parkedAt = s
	s.parked = append(s.parked, v)
}
