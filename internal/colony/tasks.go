package colony

import (
	"fmt"
	"time"

	"github.com/msageha/colonysim/internal/world"
)

const (
	// loadRate and unloadRate are kg moved per task turn.
	loadRate      = 250.0
	unloadRate    = 250.0
	fieldWorkTime = time.Hour

	// arrivalEpsilon absorbs rounding on the last stretch of a drive, in km.
	arrivalEpsilon = 1e-9
)

// task is a world.Task the colony knows how to perform. perform reports
// whether the task is finished.
type task interface {
	world.Task
	perform(dt time.Duration) bool
}

// TaskManager runs at most one task at a time for a worker.
type TaskManager struct {
	current  task
	refusing bool
	done     []string
}

func (tm *TaskManager) IsIdle() bool { return tm.current == nil }

func (tm *TaskManager) Current() world.Task {
	if tm.current == nil {
		return nil
	}
	return tm.current
}

// CheckReplaceTask accepts t only when the worker is idle and willing.
func (tm *TaskManager) CheckReplaceTask(t world.Task) bool {
	ct, ok := t.(task)
	if !ok || tm.refusing || tm.current != nil {
		return false
	}
	tm.current = ct
	return true
}

// SetRefusing makes the worker turn down every new task.
func (tm *TaskManager) SetRefusing(refusing bool) { tm.refusing = refusing }

// Occupy keeps the worker busy with an unrelated task for d.
func (tm *TaskManager) Occupy(d time.Duration) {
	tm.current = &restTask{left: d}
}

// Completed lists the names of finished tasks, oldest first.
func (tm *TaskManager) Completed() []string {
	out := make([]string, len(tm.done))
	copy(out, tm.done)
	return out
}

func (tm *TaskManager) step(dt time.Duration) {
	if tm.current == nil {
		return
	}
	if tm.current.perform(dt) {
		tm.done = append(tm.done, tm.current.Name())
		tm.current = nil
	}
}

type restTask struct {
	left time.Duration
}

func (t *restTask) Name() string { return "rest" }

func (t *restTask) perform(dt time.Duration) bool {
	t.left -= dt
	return t.left <= 0
}

type loadTask struct {
	v *Vehicle
}

func (t *loadTask) Name() string { return "load " + t.v.name }

func (t *loadTask) perform(time.Duration) bool {
	if t.v.loading != nil {
		t.v.loading.load(loadRate)
	}
	return true
}

type unloadTask struct {
	v *Vehicle
}

func (t *unloadTask) Name() string { return "unload " + t.v.name }

// perform moves cargo into the stores where the vehicle is parked. Away
// from a settlement the cargo is left at the site.
func (t *unloadTask) perform(time.Duration) bool {
	left := unloadRate
	for _, res := range sortedKeys(t.v.cargo) {
		if left <= 0 {
			break
		}
		got := t.v.takeCargo(res, left)
		left -= got
		if t.v.parkedAt != nil {
			t.v.parkedAt.Store(res, got)
		}
	}
	if left > 0 {
		for eq, n := range t.v.equipment {
			if t.v.parkedAt != nil {
				t.v.parkedAt.StoreEquipment(eq, n)
			}
			delete(t.v.equipment, eq)
		}
	}
	return true
}

type boardTask struct {
	w world.Worker
	v *Vehicle
}

func (t *boardTask) Name() string { return "board " + t.v.name }

func (t *boardTask) perform(time.Duration) bool {
	t.w.TransferTo(t.v)
	return true
}

type driveTask struct {
	c    *Colony
	w    world.Worker
	v    *Vehicle
	dest world.NavPoint
}

func (t *driveTask) Name() string { return fmt.Sprintf("drive %s to %s", t.v.name, t.dest.Name) }

// perform drives for dt, limited by the fuel aboard, and parks the vehicle
// when it reaches a settlement.
func (t *driveTask) perform(dt time.Duration) bool {
	v := t.v
	if !v.IsOccupiedBy(t.w) {
		v.operator = nil
		return true
	}
	remaining := v.coords.DistanceTo(t.dest.Location)
	km := v.spec.BaseSpeed * dt.Hours()
	if km > remaining {
		km = remaining
	}
	if v.spec.FuelEconomy > 0 && v.spec.FuelType != "" {
		need := km / v.spec.FuelEconomy
		if got := v.takeCargo(v.spec.FuelType, need); got < need {
			km = got * v.spec.FuelEconomy
		}
	}
	if km <= 0 && remaining > arrivalEpsilon {
		v.operator = nil
		return true
	}

	v.operator = t.w
	v.depart()
	if remaining-km <= arrivalEpsilon {
		v.coords = t.dest.Location
	} else {
		v.coords = v.coords.MoveToward(t.dest.Location, km)
	}
	v.odometer += km

	if v.coords != t.dest.Location {
		return false
	}
	v.operator = nil
	if s := t.c.settlementOf(t.dest.Settlement); s != nil {
		v.park(s)
	}
	return true
}

type exitTask struct {
	w          world.Worker
	v          *Vehicle
	viaAirlock bool
}

func (t *exitTask) Name() string {
	if t.viaAirlock {
		return "exit " + t.v.name + " via airlock"
	}
	return "exit " + t.v.name
}

func (t *exitTask) perform(time.Duration) bool {
	if t.v.parkedAt != nil {
		t.w.TransferTo(t.v.parkedAt)
		return true
	}
	if u, ok := t.w.(interface{ leave() }); ok {
		u.leave()
	}
	return true
}

type fieldWorkTask struct {
	site world.NavPoint
	left time.Duration
}

func (t *fieldWorkTask) Name() string { return "field work at " + t.site.Name }

func (t *fieldWorkTask) perform(dt time.Duration) bool {
	t.left -= dt
	return t.left <= 0
}

// taskFactory builds colony tasks for the mission engine.
type taskFactory struct {
	c *Colony
}

func (f taskFactory) LoadVehicle(w world.Worker, v world.Vehicle) world.Task {
	veh, ok := v.(*Vehicle)
	if !ok || veh.loading == nil || !w.IsInSettlement() {
		return nil
	}
	return &loadTask{v: veh}
}

func (f taskFactory) UnloadVehicle(w world.Worker, v world.Vehicle) world.Task {
	veh, ok := v.(*Vehicle)
	if !ok || veh.IsEmpty() {
		return nil
	}
	if !w.IsInSettlement() && !veh.IsOccupiedBy(w) {
		return nil
	}
	return &unloadTask{v: veh}
}

func (f taskFactory) BoardVehicle(w world.Worker, v world.Vehicle) world.Task {
	veh, ok := v.(*Vehicle)
	if !ok || veh.IsOccupiedBy(w) {
		return nil
	}
	return &boardTask{w: w, v: veh}
}

func (f taskFactory) DriveVehicle(w world.Worker, v world.Vehicle, dest world.NavPoint) world.Task {
	veh, ok := v.(*Vehicle)
	if !ok || !veh.IsOccupiedBy(w) {
		return nil
	}
	return &driveTask{c: f.c, w: w, v: veh, dest: dest}
}

func (f taskFactory) ExitVehicle(w world.Worker, v world.Vehicle, viaAirlock bool) world.Task {
	veh, ok := v.(*Vehicle)
	if !ok || !veh.IsOccupiedBy(w) {
		return nil
	}
	return &exitTask{w: w, v: veh, viaAirlock: viaAirlock}
}

func (f taskFactory) FieldWork(w world.Worker, site world.NavPoint) world.Task {
	return &fieldWorkTask{site: site, left: fieldWorkTime}
}
