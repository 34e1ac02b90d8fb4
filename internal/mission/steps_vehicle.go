package mission

import (
	"time"

	"github.com/msageha/colonysim/internal/manifest"
	"github.com/msageha/colonysim/internal/model"
	"github.com/msageha/colonysim/internal/world"
)

// LoadVehicleStep fills the vehicle with the mission's supplies.
type LoadVehicleStep struct {
	MissionStep
	vp      *VehicleProject
	loading world.LoadingController
}

func newLoadStep(vp *VehicleProject) *LoadVehicleStep {
	return &LoadVehicleStep{
		MissionStep: newMissionStep(vp.MissionProject, model.StagePreparation, "Load vehicle"),
		vp:          vp,
	}
}

func (s *LoadVehicleStep) Start() {
	s.MissionStep.Start()
	v := s.vp.vehicle
	if v == nil {
		return
	}
	s.loading = v.SetLoading(s.vp.Resources(true))
	if st := v.Settlement(); st != nil && !v.IsInGarage() {
		st.AddToGarage(v)
	}
}

// Loading is the vehicle's loading plan, nil before the step starts.
func (s *LoadVehicleStep) Loading() world.LoadingController { return s.loading }

func (s *LoadVehicleStep) Execute(w world.Worker) bool {
	v := s.vp.vehicle
	if v == nil || s.loading == nil || s.loading.IsFailure() {
		s.vp.AbortMission(model.StatusCannotLoadResources)
		return false
	}
	if s.loading.IsCompleted() {
		s.Complete()
		return false
	}
	if !w.IsInSettlement() || !w.TaskManager().IsIdle() {
		return false
	}
	if !s.vp.svc.chance(s.vp.svc.Config.LoadChance) {
		return false
	}
	return s.assignTask(w, s.vp.svc.Tasks.LoadVehicle(w, v))
}

// BoardVehicleStep gathers every member aboard before departure.
type BoardVehicleStep struct {
	MissionStep
	vp       *VehicleProject
	called   bool
	deadline time.Time
}

func newBoardStep(vp *VehicleProject) *BoardVehicleStep {
	return &BoardVehicleStep{
		MissionStep: newMissionStep(vp.MissionProject, model.StagePreparation, "Board vehicle"),
		vp:          vp,
	}
}

func (s *BoardVehicleStep) Execute(w world.Worker) bool {
	v := s.vp.vehicle
	if v == nil {
		s.Complete()
		return false
	}
	svc := s.vp.svc
	now := svc.Clock.Now()
	if !s.called {
		s.called = true
		s.deadline = now.Add(svc.Config.BoardingDeadline())
		s.vp.log.add("Called members to board "+v.Name(), s.vp.leader.Name())
		for _, m := range s.vp.Members() {
			if !isAboard(m, v) && m.TaskManager().IsIdle() {
				s.assignTask(m, svc.Tasks.BoardVehicle(m, v))
			}
		}
	}

	if s.allAboard(v) {
		s.Complete()
		return false
	}
	if !now.Before(s.deadline) {
		s.leaveStragglers(v)
		s.Complete()
		return false
	}
	if !isAboard(w, v) && w.TaskManager().IsIdle() {
		return s.assignTask(w, svc.Tasks.BoardVehicle(w, v))
	}
	return false
}

func (s *BoardVehicleStep) allAboard(v world.Vehicle) bool {
	for _, m := range s.vp.members {
		if !isAboard(m, v) {
			return false
		}
	}
	return true
}

// leaveStragglers removes members who missed the deadline. The leader is
// moved aboard instead. Boarding never fails: if even that move is refused
// the vehicle departs and the problem is logged.
func (s *BoardVehicleStep) leaveStragglers(v world.Vehicle) {
	for _, m := range s.vp.Members() {
		if isAboard(m, v) {
			continue
		}
		if m.ID() == s.vp.leader.ID() {
			if !m.TransferTo(v) {
				s.vp.logger.Warn().Str("worker", m.Name()).Str("vehicle", v.Name()).Msg("could not move leader aboard, departing anyway")
				s.vp.log.add("Departed without leader", m.Name())
				continue
			}
			s.vp.log.add("Leader boarded at deadline", m.Name())
			continue
		}
		s.vp.log.add("Left behind", m.Name())
		_ = s.vp.RemoveMember(m)
	}
}

// TravelStep drives the vehicle to one navpoint of the route.
type TravelStep struct {
	MissionStep
	vp       *VehicleProject
	dest     world.NavPoint
	legStart world.Coordinates
	arrived  bool
}

func (s *TravelStep) Destination() world.NavPoint { return s.dest }

func (s *TravelStep) Start() {
	s.MissionStep.Start()
	if v := s.vp.vehicle; v != nil {
		s.legStart = v.Coordinates()
	}
}

func (s *TravelStep) Execute(w world.Worker) bool {
	v := s.vp.vehicle
	if v == nil {
		s.Complete()
		return false
	}
	if s.medicalEmergency() {
		s.vp.AbortMission(model.StatusMedicalEmergency)
		return false
	}
	if v.Coordinates().DistanceTo(s.dest.Location) <= s.vp.svc.Config.ArrivalToleranceKm {
		s.arrived = true
		s.Complete()
		return false
	}
	if !isAboard(w, v) || v.Operator() != nil || !w.TaskManager().IsIdle() {
		return false
	}
	return s.assignTask(w, s.vp.svc.Tasks.DriveVehicle(w, v, s.dest))
}

func (s *TravelStep) medicalEmergency() bool {
	for _, m := range s.vp.members {
		if p, ok := m.(world.Person); ok && p.HasSeriousMedicalProblems() {
			return true
		}
	}
	return false
}

// Covered is the distance driven on this leg so far.
func (s *TravelStep) Covered() float64 {
	v := s.vp.vehicle
	if !s.IsStarted() || v == nil {
		return 0
	}
	return s.legStart.DistanceTo(v.Coordinates())
}

// legDistance is the full leg on arrival, or what was covered when the leg was cut short.
func (s *TravelStep) legDistance() float64 {
	if s.arrived {
		return s.legStart.DistanceTo(s.dest.Location)
	}
	return s.Covered()
}

func (s *TravelStep) RequiredResources(mf *manifest.SuppliesManifest, includeOptionals bool) {
	v := s.vp.vehicle
	if v == nil {
		return
	}
	dist := s.dest.DistanceFromPrevious
	if s.IsStarted() {
		dist = v.Coordinates().DistanceTo(s.dest.Location)
	}
	if dist <= 0 {
		return
	}
	if eco := v.FuelEconomy(); eco > 0 && v.FuelType() != "" {
		mf.AddAmount(v.FuelType(), dist/eco, true)
	}
	if speed := v.BaseSpeed(); speed > 0 {
		hours := dist / speed
		sols := hours / model.SolDuration.Hours()
		s.vp.svc.addLifeSupport(mf, sols*float64(len(s.vp.members)), includeOptionals)
	}
}

// SiteWorkStep keeps members busy with field work at a site for a fixed time.
type SiteWorkStep struct {
	MissionStep
	vp        *VehicleProject
	site      world.NavPoint
	duration  time.Duration
	equipment map[string]int
	began     time.Time
}

func (s *SiteWorkStep) Start() {
	s.MissionStep.Start()
	s.began = s.vp.svc.Clock.Now()
}

func (s *SiteWorkStep) Execute(w world.Worker) bool {
	if s.vp.svc.Clock.Now().Sub(s.began) >= s.duration {
		s.Complete()
		return false
	}
	if !w.TaskManager().IsIdle() {
		return false
	}
	return s.assignTask(w, s.vp.svc.Tasks.FieldWork(w, s.site))
}

func (s *SiteWorkStep) RequiredResources(mf *manifest.SuppliesManifest, includeOptionals bool) {
	for eq, n := range s.equipment {
		mf.AddEquipment(eq, n, true)
	}
	left := s.duration
	if s.IsStarted() {
		left -= s.vp.svc.Clock.Now().Sub(s.began)
	}
	if left <= 0 {
		return
	}
	sols := left.Hours() / model.SolDuration.Hours()
	s.vp.svc.addLifeSupport(mf, sols*float64(len(s.vp.members)), includeOptionals)
}

// DisembarkStep unloads the vehicle and lets members out.
type DisembarkStep struct {
	MissionStep
	vp *VehicleProject
}

func newDisembarkStep(vp *VehicleProject) *DisembarkStep {
	return &DisembarkStep{
		MissionStep: newMissionStep(vp.MissionProject, model.StageClosedown, "Disembark"),
		vp:          vp,
	}
}

func (s *DisembarkStep) Start() {
	s.MissionStep.Start()
	v := s.vp.vehicle
	if v == nil {
		return
	}
	if st := v.Settlement(); st != nil && !v.IsInGarage() {
		st.AddToGarage(v)
	}
}

func (s *DisembarkStep) Execute(w world.Worker) bool {
	v := s.vp.vehicle
	if v == nil {
		s.Complete()
		return false
	}
	if v.IsEmpty() && !s.anyAboard(v) {
		s.Complete()
		return false
	}
	if !w.TaskManager().IsIdle() {
		return false
	}
	svc := s.vp.svc
	if !v.IsEmpty() {
		if !svc.chance(svc.Config.UnloadChance) {
			return false
		}
		return s.assignTask(w, svc.Tasks.UnloadVehicle(w, v))
	}
	if isAboard(w, v) {
		return s.assignTask(w, svc.Tasks.ExitVehicle(w, v, !v.IsInGarage()))
	}
	return false
}

func (s *DisembarkStep) anyAboard(v world.Vehicle) bool {
	for _, m := range s.vp.members {
		if isAboard(m, v) {
			return true
		}
	}
	return false
}
