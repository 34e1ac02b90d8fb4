package sim

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/msageha/colonysim/internal/colony"
	"github.com/msageha/colonysim/internal/events"
	"github.com/msageha/colonysim/internal/mission"
	"github.com/msageha/colonysim/internal/model"
	"github.com/msageha/colonysim/internal/world"
)

// World is a built scenario ready to be ticked.
type World struct {
	Colony   *colony.Colony
	Manager  *mission.Manager
	Missions []mission.Mission // scenario order, kept after the manager prunes them
	Bus      *events.Bus
}

// Build creates the colony and registers every mission of sc with its plan
// installed. Mission events go to bus, or to a new bus when nil.
func Build(sc *Scenario, cfg model.Config, logger zerolog.Logger, bus *events.Bus) (*World, error) {
	start := sc.Start
	if start.IsZero() {
		start = time.Date(2040, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	c := colony.New(colony.NewSimClock(start))

	people := make(map[string]*colony.Person)
	vehicles := make(map[string]*colony.Vehicle)
	for _, ss := range sc.Settlements {
		s := colony.NewSettlement(ss.Name, ss.Location, ss.GarageCapacity)
		for res, kg := range ss.Stores {
			s.Store(res, kg)
		}
		for eq, n := range ss.Equipment {
			s.StoreEquipment(eq, n)
		}
		for _, ps := range ss.People {
			p := s.AddPerson(ps.Name)
			for skill, v := range ps.Skills {
				p.SetSkill(skill, v)
			}
			people[ps.Name] = p
		}
		for _, name := range ss.Robots {
			s.AddRobot(name)
		}
		for _, vs := range ss.Vehicles {
			category, ok := parseCategory(vs.Category)
			if !ok {
				return nil, fmt.Errorf("vehicle %q: unknown category %q", vs.Name, vs.Category)
			}
			vehicles[vs.Name] = s.AddVehicle(vs.Name, category, vehicleSpec(vs.VehicleSpec))
		}
		c.AddSettlement(s)
	}
	for _, ss := range sc.Settlements {
		for _, ps := range ss.People {
			for other, v := range ps.Opinions {
				if o, ok := people[other]; ok {
					people[ps.Name].SetOpinion(o, v)
				}
			}
		}
	}

	if bus == nil {
		bus = events.NewBus(0)
	}
	svc := &mission.Services{
		Clock:    c.Clock(),
		Tasks:    c.Tasks(),
		Rand:     rand.New(rand.NewSource(cfg.Simulation.Seed)),
		Logger:   logger,
		Bus:      bus,
		Config:   cfg.Mission,
		Supplies: cfg.Supplies,
	}
	w := &World{Colony: c, Manager: mission.NewManager(), Bus: bus}
	for i, ms := range sc.Missions {
		m, err := buildMission(svc, c, ms, people, vehicles)
		if err != nil {
			return nil, fmt.Errorf("missions[%d] %s: %w", i, ms.Type, err)
		}
		w.Missions = append(w.Missions, m)
		w.Manager.Add(m)
	}
	return w, nil
}

func buildMission(svc *mission.Services, c *colony.Colony, ms MissionSpec, people map[string]*colony.Person, vehicles map[string]*colony.Vehicle) (*mission.VehicleProject, error) {
	leader, ok := people[ms.Leader]
	if !ok {
		return nil, fmt.Errorf("unknown leader %q", ms.Leader)
	}
	var opts []mission.Option
	if ms.Skill != "" {
		opts = append(opts, mission.WithQualification(skillQualification(ms.Skill)))
	}
	if ms.Vehicle != "" {
		v, ok := vehicles[ms.Vehicle]
		if !ok {
			return nil, fmt.Errorf("unknown vehicle %q", ms.Vehicle)
		}
		opts = append(opts, mission.WithVehicle(v))
	}

	vp, err := mission.NewVehicleProject(svc, mission.Params{
		Type:       ms.Type,
		Name:       ms.Name,
		Leader:     leader,
		MinMembers: ms.MinMembers,
		MaxMembers: ms.MaxMembers,
		Priority:   ms.Priority,
	}, opts...)
	if err != nil {
		return nil, err
	}

	plan := make([]mission.Step, 0, 2*len(ms.Legs))
	for _, leg := range ms.Legs {
		dest, err := navPoint(c, leg)
		if err != nil {
			return nil, err
		}
		plan = append(plan, vp.NewTravelStep(dest))
		if leg.WorkMinutes > 0 {
			plan = append(plan, vp.NewSiteWorkStep(dest, time.Duration(leg.WorkMinutes)*time.Minute, leg.Equipment))
		}
	}
	if err := vp.SetSteps(plan); err != nil {
		return nil, err
	}
	return vp, nil
}

// skillQualification rates persons by one skill and robots as unsuited.
func skillQualification(skill string) mission.Qualification {
	return func(w world.Worker) float64 {
		p, ok := w.(*colony.Person)
		if !ok {
			return 0
		}
		return p.Skill(skill)
	}
}

func navPoint(c *colony.Colony, leg LegSpec) (world.NavPoint, error) {
	if s := c.SettlementByName(leg.Destination); s != nil {
		return world.NavPoint{Name: s.Name(), Location: s.Coordinates(), Settlement: s}, nil
	}
	if leg.Location == nil {
		return world.NavPoint{}, fmt.Errorf("field site %q has no location", leg.Destination)
	}
	return world.NavPoint{Name: leg.Destination, Location: *leg.Location}, nil
}

// vehicleSpec fills unset figures from the default rover.
func vehicleSpec(vs colony.VehicleSpec) colony.VehicleSpec {
	if vs.BaseSpeed == 0 {
		vs.BaseSpeed = colony.DefaultRoverSpec.BaseSpeed
	}
	if vs.FuelType == "" {
		vs.FuelType = colony.DefaultRoverSpec.FuelType
	}
	if vs.FuelEconomy == 0 {
		vs.FuelEconomy = colony.DefaultRoverSpec.FuelEconomy
	}
	return vs
}
