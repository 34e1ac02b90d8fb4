// Package sim loads scenario files, builds a colony with its missions and
// drives them tick by tick until every mission is done.
package sim

import (
	"fmt"
	"strings"
	"time"

	"github.com/msageha/colonysim/internal/colony"
	"github.com/msageha/colonysim/internal/world"
	"github.com/msageha/colonysim/internal/yaml"
)

// Scenario is the content of a scenario file.
type Scenario struct {
	Name        string           `yaml:"name"`
	Start       time.Time        `yaml:"start"`
	Settlements []SettlementSpec `yaml:"settlements"`
	Missions    []MissionSpec    `yaml:"missions"`
}

type SettlementSpec struct {
	Name           string             `yaml:"name"`
	Location       world.Coordinates  `yaml:"location"`
	GarageCapacity int                `yaml:"garage_capacity"`
	Stores         map[string]float64 `yaml:"stores,omitempty"`
	Equipment      map[string]int     `yaml:"equipment,omitempty"`
	People         []PersonSpec       `yaml:"people"`
	Robots         []string           `yaml:"robots,omitempty"`
	Vehicles       []VehicleSpec      `yaml:"vehicles,omitempty"`
}

type PersonSpec struct {
	Name     string             `yaml:"name"`
	Skills   map[string]float64 `yaml:"skills,omitempty"`
	Opinions map[string]float64 `yaml:"opinions,omitempty"` // by person name, 0-100
}

type VehicleSpec struct {
	Name               string `yaml:"name"`
	Category           string `yaml:"category"`
	colony.VehicleSpec `yaml:",inline"`
}

type MissionSpec struct {
	Name       string    `yaml:"name"`
	Type       string    `yaml:"type"`
	Settlement string    `yaml:"settlement"`
	Leader     string    `yaml:"leader"`
	Vehicle    string    `yaml:"vehicle,omitempty"` // empty: pick one at the settlement
	Skill      string    `yaml:"skill,omitempty"`   // qualifies candidates by this skill
	MinMembers int       `yaml:"min_members"`
	MaxMembers int       `yaml:"max_members"`
	Priority   int       `yaml:"priority"`
	Legs       []LegSpec `yaml:"legs"`
}

// LegSpec is one stop of a mission route. A destination naming a settlement
// takes that settlement's location, anything else needs an explicit location.
type LegSpec struct {
	Destination string             `yaml:"destination"`
	Location    *world.Coordinates `yaml:"location,omitempty"`
	WorkMinutes int                `yaml:"work_minutes,omitempty"`
	Equipment   map[string]int     `yaml:"equipment,omitempty"`
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	var sc Scenario
	if err := yaml.ReadStrict(path, &sc); err != nil {
		return nil, err
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

func parseCategory(s string) (world.VehicleCategory, bool) {
	switch c := world.VehicleCategory(strings.ToLower(strings.TrimSpace(s))); c {
	case "":
		return world.CategoryRover, true
	case world.CategoryRover, world.CategoryLightUtility, world.CategoryDrone:
		return c, true
	default:
		return c, false
	}
}

// Validate reports every structural problem at once as *ValidationErrors.
func (sc *Scenario) Validate() error {
	ve := &ValidationErrors{}
	if len(sc.Settlements) == 0 {
		ve.Add("settlements", "at least one settlement is required")
	}

	settlements := make(map[string]SettlementSpec)
	people := make(map[string]string)   // person -> settlement
	vehicles := make(map[string]string) // vehicle -> settlement
	for i, s := range sc.Settlements {
		path := fmt.Sprintf("settlements[%d]", i)
		if s.Name == "" {
			ve.Add(path+".name", "required")
		} else if _, dup := settlements[s.Name]; dup {
			ve.Addf(path+".name", "duplicate settlement %q", s.Name)
		}
		settlements[s.Name] = s
		if s.GarageCapacity < 0 {
			ve.Add(path+".garage_capacity", "must not be negative")
		}
		for res, kg := range s.Stores {
			if kg < 0 {
				ve.Addf(path+".stores."+res, "must not be negative, got %v", kg)
			}
		}
		for j, p := range s.People {
			ppath := fmt.Sprintf("%s.people[%d]", path, j)
			if p.Name == "" {
				ve.Add(ppath+".name", "required")
				continue
			}
			if _, dup := people[p.Name]; dup {
				ve.Addf(ppath+".name", "duplicate person %q", p.Name)
			}
			people[p.Name] = s.Name
			for other, v := range p.Opinions {
				if v < 0 || v > 100 {
					ve.Addf(ppath+".opinions."+other, "must be within [0,100], got %v", v)
				}
			}
		}
		for j, v := range s.Vehicles {
			vpath := fmt.Sprintf("%s.vehicles[%d]", path, j)
			if v.Name == "" {
				ve.Add(vpath+".name", "required")
				continue
			}
			if _, dup := vehicles[v.Name]; dup {
				ve.Addf(vpath+".name", "duplicate vehicle %q", v.Name)
			}
			vehicles[v.Name] = s.Name
			if _, ok := parseCategory(v.Category); !ok {
				ve.Addf(vpath+".category", "unknown category %q", v.Category)
			}
			if v.BaseSpeed < 0 || v.FuelEconomy < 0 {
				ve.Add(vpath, "base_speed and fuel_economy must not be negative")
			}
		}
	}

	for i, s := range sc.Settlements {
		for j, p := range s.People {
			for other := range p.Opinions {
				if _, ok := people[other]; !ok {
					ve.Addf(fmt.Sprintf("settlements[%d].people[%d].opinions", i, j), "unknown person %q", other)
				}
			}
		}
	}

	leaders := make(map[string]bool)
	for i, m := range sc.Missions {
		path := fmt.Sprintf("missions[%d]", i)
		if leaders[m.Leader] {
			ve.Addf(path+".leader", "%q already leads another mission", m.Leader)
		}
		leaders[m.Leader] = true
		if m.Type == "" {
			ve.Add(path+".type", "required")
		}
		if _, ok := settlements[m.Settlement]; !ok {
			ve.Addf(path+".settlement", "unknown settlement %q", m.Settlement)
		}
		if home, ok := people[m.Leader]; !ok {
			ve.Addf(path+".leader", "unknown person %q", m.Leader)
		} else if home != m.Settlement {
			ve.Addf(path+".leader", "%q does not live at %q", m.Leader, m.Settlement)
		}
		if m.Vehicle != "" {
			if home, ok := vehicles[m.Vehicle]; !ok {
				ve.Addf(path+".vehicle", "unknown vehicle %q", m.Vehicle)
			} else if home != m.Settlement {
				ve.Addf(path+".vehicle", "%q is not based at %q", m.Vehicle, m.Settlement)
			}
		}
		if m.MinMembers < 1 || m.MaxMembers < m.MinMembers {
			ve.Addf(path, "need 1 <= min_members <= max_members, got %d and %d", m.MinMembers, m.MaxMembers)
		}
		if len(m.Legs) == 0 {
			ve.Add(path+".legs", "at least one leg is required")
		}
		for j, leg := range m.Legs {
			lpath := fmt.Sprintf("%s.legs[%d]", path, j)
			if leg.Destination == "" {
				ve.Add(lpath+".destination", "required")
			}
			if _, known := settlements[leg.Destination]; !known && leg.Location == nil {
				ve.Addf(lpath+".location", "required for field site %q", leg.Destination)
			}
			if leg.WorkMinutes < 0 {
				ve.Add(lpath+".work_minutes", "must not be negative")
			}
			if leg.WorkMinutes == 0 && len(leg.Equipment) > 0 {
				ve.Add(lpath+".equipment", "only used with work_minutes")
			}
		}
	}

	if ve.HasErrors() {
		return ve
	}
	return nil
}
