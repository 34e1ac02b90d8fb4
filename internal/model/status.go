package model

import "strings"

// Stage is the coarse phase a project step belongs to.
type Stage string

const (
	StageNone        Stage = ""
	StagePreparation Stage = "preparation"
	StageActive      Stage = "active"
	StageClosedown   Stage = "closedown"
)

var stageOrder = map[Stage]int{
	StagePreparation: 1,
	StageActive:      2,
	StageClosedown:   3,
}

// Order returns the display ordering of the stage, 0 for StageNone or unknown values.
func (s Stage) Order() int {
	return stageOrder[s]
}

// Before reports whether s comes strictly before other.
func (s Stage) Before(other Stage) bool {
	return s.Order() < other.Order()
}

func (s Stage) IsValid() bool {
	_, ok := stageOrder[s]
	return ok
}

func (s Stage) String() string {
	if s == StageNone {
		return "none"
	}
	return string(s)
}

// MissionStatus is a named reason explaining how a mission ended.
// The value doubles as the display name.
type MissionStatus string

const (
	StatusAccomplished            MissionStatus = "Accomplished"
	StatusNoAvailableVehicles     MissionStatus = "No available vehicles"
	StatusNotEnoughMembers        MissionStatus = "Not enough members"
	StatusLowSettlementPopulation MissionStatus = "Low settlement population"
	StatusCannotLoadResources     MissionStatus = "Cannot load resources"
	StatusLeaderNoShow            MissionStatus = "Mission leader did not board"
	StatusMedicalEmergency        MissionStatus = "Medical emergency"
	StatusAbortedByUser           MissionStatus = "Aborted by user"
)

// UserAbort builds a user-directed status carrying a free-text reason.
func UserAbort(reason string) MissionStatus {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return StatusAbortedByUser
	}
	return MissionStatus(string(StatusAbortedByUser) + ": " + reason)
}

func (s MissionStatus) DisplayName() string {
	return string(s)
}

// IsFailure is true for every status except StatusAccomplished.
func (s MissionStatus) IsFailure() bool {
	return s != StatusAccomplished
}

// StatusSet is an append-only, insertion-ordered set of statuses.
type StatusSet struct {
	order []MissionStatus
	seen  map[MissionStatus]bool
}

// Add records s and reports whether it was not present before.
func (ss *StatusSet) Add(s MissionStatus) bool {
	if ss.seen == nil {
		ss.seen = make(map[MissionStatus]bool)
	}
	if ss.seen[s] {
		return false
	}
	ss.seen[s] = true
	ss.order = append(ss.order, s)
	return true
}

func (ss *StatusSet) Has(s MissionStatus) bool {
	return ss.seen[s]
}

func (ss *StatusSet) Len() int {
	return len(ss.order)
}

// List returns a copy of the statuses in insertion order.
func (ss *StatusSet) List() []MissionStatus {
	out := make([]MissionStatus, len(ss.order))
	copy(out, ss.order)
	return out
}
