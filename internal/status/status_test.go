package status

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/msageha/colonysim/internal/events"
	"github.com/msageha/colonysim/internal/sim"
)

func sampleReport() *sim.Report {
	return &sim.Report{
		Scenario: "ridge-survey",
		Ticks:    42,
		SimTime:  time.Date(2040, 3, 1, 3, 30, 0, 0, time.UTC),
		Missions: []sim.MissionReport{
			{
				ID:          "msn_1",
				Name:        "Ridge survey",
				Leader:      "Alice",
				Done:        true,
				Statuses:    []string{"Accomplished"},
				ProposedKm:  5.92,
				TravelledKm: 5.92,
			},
			{
				ID:      "msn_2",
				Name:    "Crater trip",
				Leader:  "Carol",
				Phase:   "Travel to Crater",
				Members: []string{"Carol", "Dave"},
			},
		},
		Settlements: []sim.SettlementReport{
			{Name: "Base", Population: 4, Shortages: map[string]float64{"water": 1.5}},
		},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleReport(), map[string]int{"msn_1": 7})

	if s.Run.AllDone || s.Run.Ticks != 42 || s.Run.SimTime != "2040-03-01 03:30" {
		t.Fatalf("unexpected run status: %+v", s.Run)
	}
	if len(s.Missions) != 2 {
		t.Fatalf("expected 2 missions, got %d", len(s.Missions))
	}
	done, running := s.Missions[0], s.Missions[1]
	if done.State != "Accomplished" || done.Km != "5.9/5.9" || done.Events != 7 {
		t.Errorf("finished mission: %+v", done)
	}
	if running.State != "Travel to Crater" || running.Members != 2 || running.Km != "" {
		t.Errorf("running mission: %+v", running)
	}
	if got := s.Settlements[0].Shortages; len(got) != 1 || got[0] != "water 1.50kg" {
		t.Errorf("shortages: %v", got)
	}
}

func TestRun_TextAndJSON(t *testing.T) {
	dir := t.TempDir()
	reportPath := filepath.Join(dir, "report.yaml")
	if err := sampleReport().Write(reportPath); err != nil {
		t.Fatal(err)
	}

	var text bytes.Buffer
	if err := Run(&text, reportPath, "", false); err != nil {
		t.Fatalf("Run: %v", err)
	}
	out := text.String()
	for _, want := range []string{"Scenario: ridge-survey (running after 42 ticks", "Ridge survey", "Travel to Crater", "short=water"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	var raw bytes.Buffer
	if err := Run(&raw, reportPath, "", true); err != nil {
		t.Fatalf("Run json: %v", err)
	}
	var s Summary
	if err := json.Unmarshal(raw.Bytes(), &s); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(s.Missions) != 2 || s.Missions[0].Name != "Ridge survey" {
		t.Errorf("unexpected summary: %+v", s)
	}
}

func TestRun_CountsAuditEvents(t *testing.T) {
	dir := t.TempDir()
	reportPath := filepath.Join(dir, "report.yaml")
	if err := sampleReport().Write(reportPath); err != nil {
		t.Fatal(err)
	}
	auditPath := filepath.Join(dir, "audit.jsonl")
	audit, err := events.NewAuditLogger(auditPath, 0)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		audit.Handle(events.Event{Type: events.EventPhaseStarted, MissionID: "msn_2"})
	}
	audit.Close()

	var raw bytes.Buffer
	if err := Run(&raw, reportPath, auditPath, true); err != nil {
		t.Fatalf("Run: %v", err)
	}
	var s Summary
	if err := json.Unmarshal(raw.Bytes(), &s); err != nil {
		t.Fatal(err)
	}
	if s.Missions[0].Events != 0 || s.Missions[1].Events != 3 {
		t.Errorf("event counts: %d, %d", s.Missions[0].Events, s.Missions[1].Events)
	}
}

func TestRun_MissingReport(t *testing.T) {
	if err := Run(&bytes.Buffer{}, filepath.Join(t.TempDir(), "none.yaml"), "", false); err == nil {
		t.Fatal("expected error")
	}
}
