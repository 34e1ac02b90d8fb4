// Package world declares the collaborators the mission engine consumes:
// workers, vehicles, settlements, task factories and the simulation clock.
// Their physical behaviour lives outside the engine.
package world

import (
	"time"

	"github.com/msageha/colonysim/internal/manifest"
)

type WorkerKind string

const (
	KindPerson WorkerKind = "person"
	KindRobot  WorkerKind = "robot"
)

// Location is anything a worker can be transferred into.
type Location interface {
	ID() string
	Name() string
}

// Worker is the capability set shared by persons and robots.
type Worker interface {
	ID() string
	Name() string
	Kind() WorkerKind

	IsInVehicle() bool
	Vehicle() Vehicle // nil unless IsInVehicle
	IsInSettlement() bool
	Settlement() Settlement // nil unless IsInSettlement
	AssociatedSettlement() Settlement

	// MissionID is the identifier of the mission the worker belongs to, "" if none.
	MissionID() string
	SetMissionID(id string)

	TaskManager() TaskManager
	TransferTo(loc Location) bool
}

type Person interface {
	Worker
	HasSeriousMedicalProblems() bool
	LifeSupportOK() bool
	// OpinionOf returns how much this person likes other, 0-100.
	OpinionOf(other Person) float64
	IsOnCall() bool
	SetOnCall(onCall bool)
}

type Robot interface {
	Worker
	IsBatteryLow() bool
	HasMalfunction() bool
}

type VehicleCategory string

const (
	CategoryRover        VehicleCategory = "rover"
	CategoryLightUtility VehicleCategory = "light_utility"
	CategoryDrone        VehicleCategory = "drone"
)

type Vehicle interface {
	Location

	Category() VehicleCategory
	Settlement() Settlement // settlement the vehicle is parked at, nil when away
	IsInGarage() bool
	Coordinates() Coordinates

	CargoMass() float64
	IsEmpty() bool
	Occupants() []Worker
	Operator() Worker

	BaseSpeed() float64   // km/h
	FuelType() string     // resource consumed when driving
	FuelEconomy() float64 // km per kg of fuel

	MissionID() string
	SetMissionID(id string)
	IsReservedForMission() bool
	SetReservedForMission(reserved bool)

	SetLoading(m *manifest.SuppliesManifest) LoadingController
}

type Settlement interface {
	Location

	Coordinates() Coordinates
	IndoorPeople() []Worker
	Population() int
	ParkedVehicles() []Vehicle
	// AddToGarage tries to move a parked vehicle into a garage building.
	AddToGarage(v Vehicle) bool
}

// Task is opaque to the engine; only the success of its assignment matters.
type Task interface {
	Name() string
}

type TaskManager interface {
	IsIdle() bool
	Current() Task
	// CheckReplaceTask offers t to the worker and reports whether it was accepted.
	CheckReplaceTask(t Task) bool
}

// TaskFactory builds concrete tasks; each constructor returns nil when the task is inapplicable.
type TaskFactory interface {
	LoadVehicle(w Worker, v Vehicle) Task
	UnloadVehicle(w Worker, v Vehicle) Task
	BoardVehicle(w Worker, v Vehicle) Task
	DriveVehicle(w Worker, v Vehicle, dest NavPoint) Task
	ExitVehicle(w Worker, v Vehicle, viaAirlock bool) Task
	FieldWork(w Worker, site NavPoint) Task
}

type LoadingController interface {
	Manifest() *manifest.SuppliesManifest
	IsCompleted() bool
	IsFailure() bool
}

type Clock interface {
	Now() time.Time
}
