package mission

import (
	"github.com/msageha/colonysim/internal/manifest"
	"github.com/msageha/colonysim/internal/model"
	"github.com/msageha/colonysim/internal/project"
	"github.com/msageha/colonysim/internal/world"
)

// Step is a project step that belongs to a mission and can declare supplies.
type Step interface {
	project.Step
	// RequiredResources adds what the step still needs to mf. Mandatory
	// amounts are always added, optional ones only when includeOptionals is set.
	RequiredResources(mf *manifest.SuppliesManifest, includeOptionals bool)
}

// MissionStep binds a step to its mission. Concrete steps embed it.
type MissionStep struct {
	project.BaseStep
	mission *MissionProject
}

func newMissionStep(m *MissionProject, stage model.Stage, description string) MissionStep {
	return MissionStep{BaseStep: project.NewBaseStep(stage, description), mission: m}
}

func (s *MissionStep) Mission() *MissionProject {
	return s.mission
}

func (s *MissionStep) RequiredResources(*manifest.SuppliesManifest, bool) {}

// assignTask hands t to w if w is fit to work and accepts it. A rejection is
// only logged; the step tries again with another worker on a later tick.
func (s *MissionStep) assignTask(w world.Worker, t world.Task) bool {
	if t == nil {
		return false
	}
	logger := s.mission.logger.With().Str("step", s.Description()).Str("worker", w.Name()).Str("task", t.Name()).Logger()

	switch wk := w.(type) {
	case world.Person:
		if wk.HasSeriousMedicalProblems() || !wk.LifeSupportOK() {
			logger.Debug().Msg("person unfit for task")
			return false
		}
	case world.Robot:
		if wk.IsBatteryLow() || wk.HasMalfunction() {
			logger.Debug().Msg("robot unfit for task")
			return false
		}
	}

	if !w.TaskManager().CheckReplaceTask(t) {
		logger.Debug().Msg("task rejected")
		return false
	}
	return true
}

func isAboard(w world.Worker, v world.Vehicle) bool {
	if v == nil || !w.IsInVehicle() {
		return false
	}
	in := w.Vehicle()
	return in != nil && in.ID() == v.ID()
}
