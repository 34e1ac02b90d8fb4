// Package mission specializes the generic project sequencer into cooperative,
// multi-worker missions: recruitment, vehicle reservation, supplies and the
// canonical load/board/travel/disembark/close steps.
package mission

import (
	"errors"
	"time"

	"github.com/msageha/colonysim/internal/events"
	"github.com/msageha/colonysim/internal/manifest"
	"github.com/msageha/colonysim/internal/model"
	"github.com/msageha/colonysim/internal/world"
)

// Mission is the contract exposed to the rest of the simulation and to observers.
type Mission interface {
	ID() string
	Name() string
	Type() string
	Priority() int
	Leader() world.Person

	// PerformMission lets w work on the mission for one tick and reports whether w was busy.
	PerformMission(w world.Worker) bool
	AbortMission(status model.MissionStatus)
	AbortPhase()

	Stage() model.Stage
	PhaseDescription() string
	MissionStatus() []model.MissionStatus
	Members() []world.Worker
	SignedUp() []world.Worker
	Log() []LogEntry
	Resources(includeOptionals bool) *manifest.SuppliesManifest
	AddMissionListener(fn events.Listener) func()
	IsDone() bool
}

var (
	ErrPlanInstalled = errors.New("mission plan already installed")
	ErrMissionFull   = errors.New("mission is at capacity")
	ErrNotMember     = errors.New("worker is not a mission member")
	ErrNoLeader      = errors.New("mission requires a leader")
	ErrLeaderBusy    = errors.New("leader already belongs to a mission")
	ErrMemberLimits  = errors.New("invalid member limits")
)

// LogEntry is one line of a mission's audit trail.
type LogEntry struct {
	Time  time.Time
	Entry string
	Actor string
}

// missionLog is append-only.
type missionLog struct {
	clock   world.Clock
	entries []LogEntry
}

func (l *missionLog) add(entry, actor string) {
	l.entries = append(l.entries, LogEntry{Time: l.clock.Now(), Entry: entry, Actor: actor})
}

func (l *missionLog) list() []LogEntry {
	out := make([]LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

var (
	_ Mission = (*MissionProject)(nil)
	_ Mission = (*VehicleProject)(nil)
)
