package sim

import (
	"sort"
	"time"

	"github.com/msageha/colonysim/internal/mission"
	"github.com/msageha/colonysim/internal/yaml"
)

// Report is the outcome of a run, written as YAML.
type Report struct {
	Scenario    string             `yaml:"scenario"`
	Ticks       int                `yaml:"ticks"`
	SimTime     time.Time          `yaml:"sim_time"`
	AllDone     bool               `yaml:"all_done"`
	Missions    []MissionReport    `yaml:"missions"`
	Settlements []SettlementReport `yaml:"settlements"`
}

type MissionReport struct {
	ID          string      `yaml:"id"`
	Name        string      `yaml:"name"`
	Type        string      `yaml:"type"`
	Leader      string      `yaml:"leader"`
	Done        bool        `yaml:"done"`
	Phase       string      `yaml:"phase,omitempty"`
	Statuses    []string    `yaml:"statuses,omitempty"`
	Members     []string    `yaml:"members,omitempty"`
	SignedUp    []string    `yaml:"signed_up,omitempty"`
	Vehicle     string      `yaml:"vehicle,omitempty"`
	ProposedKm  float64     `yaml:"proposed_km,omitempty"`
	TravelledKm float64     `yaml:"travelled_km,omitempty"`
	Log         []LogReport `yaml:"log"`
}

type LogReport struct {
	Time  time.Time `yaml:"time"`
	Entry string    `yaml:"entry"`
	Actor string    `yaml:"actor,omitempty"`
}

type SettlementReport struct {
	Name       string             `yaml:"name"`
	Population int                `yaml:"population"`
	Vehicles   []VehicleReport    `yaml:"vehicles,omitempty"`
	Stores     map[string]float64 `yaml:"stores,omitempty"`
	Shortages  map[string]float64 `yaml:"shortages,omitempty"`
}

type VehicleReport struct {
	Name       string  `yaml:"name"`
	ParkedAt   string  `yaml:"parked_at,omitempty"` // empty while away
	OdometerKm float64 `yaml:"odometer_km"`
}

// NewReport snapshots w after ticks ticks.
func NewReport(scenario string, w *World, ticks int) *Report {
	rep := &Report{
		Scenario: scenario,
		Ticks:    ticks,
		SimTime:  w.Colony.Clock().Now(),
		AllDone:  true,
	}
	for _, m := range w.Missions {
		mr := missionReport(m)
		rep.AllDone = rep.AllDone && mr.Done
		rep.Missions = append(rep.Missions, mr)
	}
	for _, s := range w.Colony.Settlements() {
		sr := SettlementReport{
			Name:       s.Name(),
			Population: s.Population(),
			Stores:     s.Stores(),
		}
		if short := s.Shortages(); len(short) > 0 {
			sr.Shortages = short
		}
		rep.Settlements = append(rep.Settlements, sr)
	}
	for _, v := range w.Colony.Vehicles() {
		vr := VehicleReport{Name: v.Name(), OdometerKm: v.Odometer()}
		if at := v.Settlement(); at != nil {
			vr.ParkedAt = at.Name()
		}
		for i := range rep.Settlements {
			if rep.Settlements[i].Name == v.Home().Name() {
				rep.Settlements[i].Vehicles = append(rep.Settlements[i].Vehicles, vr)
			}
		}
	}
	return rep
}

func missionReport(m mission.Mission) MissionReport {
	mr := MissionReport{
		ID:       m.ID(),
		Name:     m.Name(),
		Type:     m.Type(),
		Leader:   m.Leader().Name(),
		Done:     m.IsDone(),
		Statuses: statusNames(m.MissionStatus()),
	}
	if !mr.Done {
		mr.Phase = m.PhaseDescription()
	}
	for _, w := range m.Members() {
		mr.Members = append(mr.Members, w.Name())
	}
	for _, w := range m.SignedUp() {
		mr.SignedUp = append(mr.SignedUp, w.Name())
	}
	sort.Strings(mr.SignedUp)
	if vp, ok := m.(*mission.VehicleProject); ok {
		mr.Vehicle = vp.VehicleName()
		mr.ProposedKm = vp.ProposedDistance()
		mr.TravelledKm = vp.TotalDistanceTravelled()
	}
	for _, e := range m.Log() {
		mr.Log = append(mr.Log, LogReport{Time: e.Time, Entry: e.Entry, Actor: e.Actor})
	}
	return mr
}

// Write saves the report to path atomically.
func (r *Report) Write(path string) error {
	return yaml.AtomicWrite(path, r)
}
