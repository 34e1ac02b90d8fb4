package mission

import (
	"sort"

	"github.com/msageha/colonysim/internal/model"
	"github.com/msageha/colonysim/internal/world"
)

type candidate struct {
	person world.Person
	score  float64
}

// findMembers recruits idle, capable people from the leader's settlement
// until the mission reaches its minimum size. The mission is aborted when
// too few qualify or recruiting would leave the settlement understaffed.
func (m *MissionProject) findMembers() {
	needed := m.minMembers - len(m.members)
	if needed <= 0 {
		return
	}
	settlement := m.leader.AssociatedSettlement()
	if settlement == nil {
		m.AbortMission(model.StatusNotEnoughMembers)
		return
	}

	var pool []candidate
	for _, w := range settlement.IndoorPeople() {
		if m.IsMember(w) || !w.TaskManager().IsIdle() || !m.isCapable(w) {
			continue
		}
		p := w.(world.Person)
		qual := m.qualify(w) * 100
		if qual <= 0 {
			continue
		}
		pool = append(pool, candidate{
			person: p,
			score:  (qual + m.leader.OpinionOf(p)) / 2,
		})
	}
	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].score != pool[j].score {
			return pool[i].score > pool[j].score
		}
		return pool[i].person.Name() < pool[j].person.Name()
	})

	logger := m.logger.With().Int("needed", needed).Int("qualified", len(pool)).Logger()
	if len(pool) < needed {
		logger.Info().Msg("not enough qualified candidates")
		m.AbortMission(model.StatusNotEnoughMembers)
		return
	}
	if remaining := m.peopleStayingBehind(settlement) - needed; remaining < m.svc.Config.MinSettlementPopulation {
		logger.Info().Int("remaining", remaining).Int("population", settlement.Population()).Msg("recruiting would leave the settlement understaffed")
		m.AbortMission(model.StatusLowSettlementPopulation)
		return
	}

	for _, c := range pool[:needed] {
		if err := m.AddMember(c.person); err != nil {
			logger.Warn().Err(err).Str("worker", c.person.Name()).Msg("recruit failed")
		}
	}
}

// peopleStayingBehind counts the people indoors at s who are not already
// members. Residents away on other missions do not keep a settlement running.
func (m *MissionProject) peopleStayingBehind(s world.Settlement) int {
	n := 0
	for _, w := range s.IndoorPeople() {
		if w.Kind() == world.KindPerson && !m.IsMember(w) {
			n++
		}
	}
	return n
}

// isCapable reports whether w may be recruited. Only people without a
// mission or a serious medical problem qualify; robots are never recruited.
func (m *MissionProject) isCapable(w world.Worker) bool {
	p, ok := w.(world.Person)
	if !ok || w.Kind() != world.KindPerson {
		return false
	}
	return p.MissionID() == "" && !p.HasSeriousMedicalProblems()
}
