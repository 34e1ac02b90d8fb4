package mission

import (
	"github.com/msageha/colonysim/internal/model"
	"github.com/msageha/colonysim/internal/world"
)

// CloseStep detaches members one by one. The leader leaves last and
// thereby finishes the mission.
type CloseStep struct {
	MissionStep
}

func newCloseStep(m *MissionProject) *CloseStep {
	return &CloseStep{MissionStep: newMissionStep(m, model.StageClosedown, "Close mission")}
}

func (s *CloseStep) Execute(w world.Worker) bool {
	m := s.mission
	if w.ID() != m.leader.ID() {
		_ = m.RemoveMember(w)
		return false
	}
	if len(m.members) > 1 {
		return false
	}
	_ = m.RemoveMember(w)
	s.Complete()
	return false
}
