package colony

import (
	"github.com/msageha/colonysim/internal/model"
	"github.com/msageha/colonysim/internal/world"
)

// unit holds the state shared by people and robots. self is the embedding
// worker so a vehicle can list it as an occupant.
type unit struct {
	self       world.Worker
	id         string
	name       string
	home       *Settlement
	settlement *Settlement
	vehicle    *Vehicle
	missionID  string
	tasks      *TaskManager
}

func newUnit(name string, home *Settlement) unit {
	return unit{
		id:         model.NewID(model.IDTypeWorker),
		name:       name,
		home:       home,
		settlement: home,
		tasks:      &TaskManager{},
	}
}

func (u *unit) ID() string   { return u.id }
func (u *unit) Name() string { return u.name }

func (u *unit) IsInVehicle() bool    { return u.vehicle != nil }
func (u *unit) IsInSettlement() bool { return u.settlement != nil }

func (u *unit) Vehicle() world.Vehicle {
	if u.vehicle == nil {
		return nil
	}
	return u.vehicle
}

func (u *unit) Settlement() world.Settlement {
	if u.settlement == nil {
		return nil
	}
	return u.settlement
}

func (u *unit) AssociatedSettlement() world.Settlement {
	if u.home == nil {
		return nil
	}
	return u.home
}

func (u *unit) MissionID() string              { return u.missionID }
func (u *unit) SetMissionID(id string)         { u.missionID = id }
func (u *unit) TaskManager() world.TaskManager { return u.tasks }

// Tasks is the concrete task manager.
func (u *unit) Tasks() *TaskManager { return u.tasks }

// IsOutside reports whether the worker is on the surface, neither in a
// settlement nor a vehicle.
func (u *unit) IsOutside() bool { return u.settlement == nil && u.vehicle == nil }

// TransferTo moves the worker into a settlement or vehicle.
func (u *unit) TransferTo(loc world.Location) bool {
	switch l := loc.(type) {
	case *Settlement:
		u.leave()
		u.settlement = l
		return true
	case *Vehicle:
		if u.vehicle == l {
			return true
		}
		u.leave()
		u.vehicle = l
		l.occupants = append(l.occupants, u.self)
		return true
	}
	return false
}

func (u *unit) leave() {
	if u.vehicle != nil {
		u.vehicle.removeOccupant(u.id)
	}
	u.vehicle = nil
	u.settlement = nil
}

// Person is a colonist.
type Person struct {
	unit
	medical       bool
	lifeSupportOK bool
	onCall        bool
	opinions      map[string]float64
	skills        map[string]float64
}

func newPerson(name string, home *Settlement) *Person {
	p := &Person{
		unit:          newUnit(name, home),
		lifeSupportOK: true,
		opinions:      make(map[string]float64),
		skills:        make(map[string]float64),
	}
	p.self = p
	return p
}

func (p *Person) Kind() world.WorkerKind { return world.KindPerson }

func (p *Person) HasSeriousMedicalProblems() bool { return p.medical }
func (p *Person) SetMedicalProblem(serious bool)  { p.medical = serious }
func (p *Person) LifeSupportOK() bool             { return p.lifeSupportOK }
func (p *Person) SetLifeSupportOK(ok bool)        { p.lifeSupportOK = ok }
func (p *Person) IsOnCall() bool                  { return p.onCall }
func (p *Person) SetOnCall(onCall bool)           { p.onCall = onCall }

// defaultOpinion is how a person regards someone they have no opinion of.
const defaultOpinion = 50

func (p *Person) OpinionOf(other world.Person) float64 {
	if v, ok := p.opinions[other.ID()]; ok {
		return v
	}
	return defaultOpinion
}

func (p *Person) SetOpinion(other world.Person, v float64) {
	p.opinions[other.ID()] = v
}

// Skill returns the named skill in 0-1, 0 when unknown.
func (p *Person) Skill(name string) float64 { return p.skills[name] }

func (p *Person) SetSkill(name string, v float64) { p.skills[name] = v }

// Robot is an autonomous worker.
type Robot struct {
	unit
	batteryLow  bool
	malfunction bool
}

func newRobot(name string, home *Settlement) *Robot {
	r := &Robot{unit: newUnit(name, home)}
	r.self = r
	return r
}

func (r *Robot) Kind() world.WorkerKind { return world.KindRobot }

func (r *Robot) IsBatteryLow() bool         { return r.batteryLow }
func (r *Robot) SetBatteryLow(low bool)     { r.batteryLow = low }
func (r *Robot) HasMalfunction() bool       { return r.malfunction }
func (r *Robot) SetMalfunction(broken bool) { r.malfunction = broken }
