// Package status summarises a finished or interrupted run from its report.
package status

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/msageha/colonysim/internal/events"
	"github.com/msageha/colonysim/internal/sim"
	"github.com/msageha/colonysim/internal/yaml"
)

type RunStatus struct {
	Scenario string `json:"scenario"`
	Ticks    int    `json:"ticks"`
	SimTime  string `json:"sim_time"`
	AllDone  bool   `json:"all_done"`
}

type MissionStatus struct {
	Name    string `json:"name"`
	Leader  string `json:"leader"`
	State   string `json:"state"` // phase while running, statuses once done
	Members int    `json:"members"`
	Km      string `json:"km,omitempty"`
	Events  int    `json:"events,omitempty"`
}

type SettlementStatus struct {
	Name       string   `json:"name"`
	Population int      `json:"population"`
	Shortages  []string `json:"shortages,omitempty"`
}

type Summary struct {
	Run         RunStatus          `json:"run"`
	Missions    []MissionStatus    `json:"missions,omitempty"`
	Settlements []SettlementStatus `json:"settlements,omitempty"`
}

// Run reads the report at reportPath and prints its summary to w. When
// auditPath is set, each mission also shows how many events it logged.
func Run(w io.Writer, reportPath, auditPath string, jsonOutput bool) error {
	var rep sim.Report
	if err := yaml.ReadStrict(reportPath, &rep); err != nil {
		return err
	}
	var counts map[string]int
	if auditPath != "" {
		entries, err := events.ReadEntries(auditPath)
		if err != nil {
			return err
		}
		counts = make(map[string]int)
		for _, e := range entries {
			counts[e.MissionID]++
		}
	}
	s := Summarize(&rep, counts)

	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}
	printSummary(w, s)
	return nil
}

// Summarize condenses rep. eventCounts is keyed by mission ID and may be nil.
func Summarize(rep *sim.Report, eventCounts map[string]int) Summary {
	s := Summary{Run: RunStatus{
		Scenario: rep.Scenario,
		Ticks:    rep.Ticks,
		SimTime:  rep.SimTime.Format("2006-01-02 15:04"),
		AllDone:  rep.AllDone,
	}}
	for _, m := range rep.Missions {
		ms := MissionStatus{
			Name:    m.Name,
			Leader:  m.Leader,
			State:   m.Phase,
			Members: len(m.Members),
			Events:  eventCounts[m.ID],
		}
		if m.Done {
			ms.State = strings.Join(m.Statuses, ", ")
		}
		if m.ProposedKm > 0 {
			ms.Km = fmt.Sprintf("%.1f/%.1f", m.TravelledKm, m.ProposedKm)
		}
		s.Missions = append(s.Missions, ms)
	}
	for _, st := range rep.Settlements {
		ss := SettlementStatus{Name: st.Name, Population: st.Population}
		for res, kg := range st.Shortages {
			ss.Shortages = append(ss.Shortages, fmt.Sprintf("%s %.2fkg", res, kg))
		}
		s.Settlements = append(s.Settlements, ss)
	}
	return s
}

func printSummary(w io.Writer, s Summary) {
	state := "running"
	if s.Run.AllDone {
		state = "done"
	}
	fmt.Fprintf(w, "Scenario: %s (%s after %d ticks, %s)\n", s.Run.Scenario, state, s.Run.Ticks, s.Run.SimTime)

	if len(s.Missions) > 0 {
		fmt.Fprintln(w, "\nMissions:")
		fmt.Fprintf(w, "  %-20s  %-10s  %7s  %-13s  %s\n", "NAME", "LEADER", "MEMBERS", "KM", "STATE")
		for _, m := range s.Missions {
			fmt.Fprintf(w, "  %-20s  %-10s  %7d  %-13s  %s\n", m.Name, m.Leader, m.Members, m.Km, m.State)
		}
	} else {
		fmt.Fprintln(w, "\nMissions: none")
	}

	if len(s.Settlements) > 0 {
		fmt.Fprintln(w, "\nSettlements:")
		for _, st := range s.Settlements {
			line := fmt.Sprintf("  %-20s  population=%d", st.Name, st.Population)
			if len(st.Shortages) > 0 {
				line += "  short=" + strings.Join(st.Shortages, ",")
			}
			fmt.Fprintln(w, line)
		}
	}
}
