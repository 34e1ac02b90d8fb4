package mission

import (
	"time"

	"github.com/msageha/colonysim/internal/events"
	"github.com/msageha/colonysim/internal/model"
	"github.com/msageha/colonysim/internal/project"
	"github.com/msageha/colonysim/internal/world"
)

// VehicleProject is a mission that travels in a reserved vehicle. Its plan
// is wrapped in load and board steps before and a disembark step after.
type VehicleProject struct {
	*MissionProject

	vehicle     world.Vehicle
	vehicleName string
	route       []world.NavPoint
	proposed    float64
	travelled   float64
}

// NewVehicleProject creates a vehicle mission. The vehicle is reserved now
// when WithVehicle is given, otherwise it is selected in SetSteps.
func NewVehicleProject(services *Services, p Params, opts ...Option) (*VehicleProject, error) {
	m, o, err := newMissionProject(services, p, opts)
	if err != nil {
		return nil, err
	}
	vp := &VehicleProject{MissionProject: m}
	m.hooks = vp
	m.announce()
	if o.vehicle != nil {
		vp.reserveVehicle(o.vehicle)
	}
	return vp, nil
}

// Vehicle is the reserved vehicle, nil before selection and after release.
func (vp *VehicleProject) Vehicle() world.Vehicle { return vp.vehicle }

// VehicleName is the name of the last reserved vehicle, kept after release.
func (vp *VehicleProject) VehicleName() string { return vp.vehicleName }

func (vp *VehicleProject) Route() []world.NavPoint {
	out := make([]world.NavPoint, len(vp.route))
	copy(out, vp.route)
	return out
}

// ProposedDistance is the planned length of the route in km.
func (vp *VehicleProject) ProposedDistance() float64 { return vp.proposed }

// TotalDistanceTravelled includes progress on the leg being driven.
func (vp *VehicleProject) TotalDistanceTravelled() float64 {
	total := vp.travelled
	if t, ok := vp.project.CurrentStep().(*TravelStep); ok {
		total += t.Covered()
	}
	return total
}

func (vp *VehicleProject) DistanceRemaining() float64 {
	if r := vp.proposed - vp.TotalDistanceTravelled(); r > 0 {
		return r
	}
	return 0
}

// NewTravelStep creates a leg to dest. Leg distances are computed when the plan is installed.
func (vp *VehicleProject) NewTravelStep(dest world.NavPoint) *TravelStep {
	return &TravelStep{
		MissionStep: newMissionStep(vp.MissionProject, model.StageActive, "Travel to "+dest.Name),
		vp:          vp,
		dest:        dest,
	}
}

// NewSiteWorkStep creates field work at site lasting duration of simulation time.
func (vp *VehicleProject) NewSiteWorkStep(site world.NavPoint, duration time.Duration, equipment map[string]int) *SiteWorkStep {
	eq := make(map[string]int, len(equipment))
	for k, n := range equipment {
		eq[k] = n
	}
	return &SiteWorkStep{
		MissionStep: newMissionStep(vp.MissionProject, model.StageActive, "Work at "+site.Name),
		vp:          vp,
		site:        site,
		duration:    duration,
		equipment:   eq,
	}
}

// SetSteps builds the route, secures a vehicle and installs
// load, board, plan, disembark and close in that order.
func (vp *VehicleProject) SetSteps(plan []Step) error {
	if vp.planInstalled {
		return ErrPlanInstalled
	}
	if vp.project.IsFinished() {
		return nil
	}
	vp.buildRoute(plan)

	if vp.vehicle == nil {
		v := vp.selectVehicle()
		if v == nil {
			vp.AbortMission(model.StatusNoAvailableVehicles)
			return nil
		}
		vp.reserveVehicle(v)
	}

	steps := make([]Step, 0, len(plan)+3)
	steps = append(steps, newLoadStep(vp), newBoardStep(vp))
	steps = append(steps, plan...)
	steps = append(steps, newDisembarkStep(vp))
	return vp.MissionProject.SetSteps(steps)
}

func (vp *VehicleProject) buildRoute(plan []Step) {
	var prev world.Coordinates
	if s := vp.leader.AssociatedSettlement(); s != nil {
		prev = s.Coordinates()
	} else if vp.vehicle != nil {
		prev = vp.vehicle.Coordinates()
	}
	vp.route = vp.route[:0]
	vp.proposed = 0
	for _, s := range plan {
		t, ok := s.(*TravelStep)
		if !ok {
			continue
		}
		t.dest.DistanceFromPrevious = prev.DistanceTo(t.dest.Location)
		vp.route = append(vp.route, t.dest)
		vp.proposed += t.dest.DistanceFromPrevious
		prev = t.dest.Location
	}
}

// selectVehicle picks uniformly among the best scoring free vehicles parked
// at the leader's settlement.
func (vp *VehicleProject) selectVehicle() world.Vehicle {
	settlement := vp.leader.AssociatedSettlement()
	if settlement == nil {
		return nil
	}
	var best []world.Vehicle
	bestScore := 0
	for _, v := range settlement.ParkedVehicles() {
		if v.IsReservedForMission() || v.MissionID() != "" {
			continue
		}
		score := vehicleScore(v)
		if score < 0 {
			continue
		}
		switch {
		case len(best) == 0 || score > bestScore:
			best = []world.Vehicle{v}
			bestScore = score
		case score == bestScore:
			best = append(best, v)
		}
	}
	if len(best) == 0 {
		return nil
	}
	return best[vp.svc.Rand.Intn(len(best))]
}

// vehicleScore is binary: rovers are suitable, everything else is not.
func vehicleScore(v world.Vehicle) int {
	if v.Category() == world.CategoryRover {
		return 1
	}
	return -1
}

func (vp *VehicleProject) reserveVehicle(v world.Vehicle) {
	if owner := v.MissionID(); owner != "" && owner != vp.id {
		vp.logger.Warn().Str("vehicle", v.Name()).Str("owner", owner).Msg("vehicle already claimed by another mission")
	}
	v.SetReservedForMission(true)
	v.SetMissionID(vp.id)
	vp.vehicle = v
	vp.vehicleName = v.Name()
	vp.log.add("Reserved "+v.Name(), vp.leader.Name())
	vp.publish(events.EventVehicleReserved, map[string]interface{}{"vehicle": v.Name()})
}

// releaseVehicle clears both directions of the link, but only if the
// vehicle still points at this mission.
func (vp *VehicleProject) releaseVehicle() {
	v := vp.vehicle
	if v == nil {
		return
	}
	vp.vehicle = nil
	if v.MissionID() != vp.id {
		return
	}
	v.SetReservedForMission(false)
	v.SetMissionID("")
	vp.log.add("Released "+v.Name(), "")
	vp.publish(events.EventVehicleReleased, map[string]interface{}{"vehicle": v.Name()})
}

func (vp *VehicleProject) stepCompleted(step project.Step) {
	if t, ok := step.(*TravelStep); ok {
		vp.travelled += t.legDistance()
	}
}

func (vp *VehicleProject) clearDown() {
	vp.releaseVehicle()
	vp.MissionProject.clearDown()
}
