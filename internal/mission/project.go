package mission

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/msageha/colonysim/internal/events"
	"github.com/msageha/colonysim/internal/manifest"
	"github.com/msageha/colonysim/internal/model"
	"github.com/msageha/colonysim/internal/project"
	"github.com/msageha/colonysim/internal/world"
)

// Params describe a mission at construction.
type Params struct {
	Type       string
	Name       string
	Leader     world.Person
	MinMembers int
	MaxMembers int
	Priority   int
}

// Qualification rates how suited a worker is for a mission, 0 meaning unsuited.
type Qualification func(w world.Worker) float64

type options struct {
	qualify Qualification
	vehicle world.Vehicle
}

type Option func(*options)

// WithQualification overrides the default qualification of 1 for every candidate.
func WithQualification(q Qualification) Option {
	return func(o *options) { o.qualify = q }
}

// WithVehicle fixes the vehicle of a VehicleProject instead of selecting one.
func WithVehicle(v world.Vehicle) Option {
	return func(o *options) { o.vehicle = v }
}

// lifecycle lets a specialised mission hook into step completion and teardown.
type lifecycle interface {
	stepCompleted(step project.Step)
	clearDown()
}

// MissionProject runs a Project on behalf of a group of workers led by one person.
type MissionProject struct {
	id          string
	missionType string
	name        string
	priority    int
	minMembers  int
	maxMembers  int

	leader   world.Person
	members  []world.Worker
	signedUp []world.Worker
	seen     map[string]bool

	status        model.StatusSet
	log           missionLog
	project       *project.Project
	svc           *Services
	logger        zerolog.Logger
	qualify       Qualification
	hooks         lifecycle
	planInstalled bool
	clearedDown   bool
	phaseStarted  time.Time
}

// NewMissionProject creates a mission with the leader as its first member.
func NewMissionProject(services *Services, p Params, opts ...Option) (*MissionProject, error) {
	m, _, err := newMissionProject(services, p, opts)
	if err != nil {
		return nil, err
	}
	m.announce()
	return m, nil
}

func newMissionProject(services *Services, p Params, opts []Option) (*MissionProject, options, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	svc, err := services.normalized()
	if err != nil {
		return nil, o, err
	}
	if p.Leader == nil {
		return nil, o, ErrNoLeader
	}
	if p.Leader.MissionID() != "" {
		return nil, o, fmt.Errorf("%w: %s", ErrLeaderBusy, p.Leader.Name())
	}
	if p.MinMembers < 1 || p.MaxMembers < p.MinMembers {
		return nil, o, fmt.Errorf("%w: min %d, max %d", ErrMemberLimits, p.MinMembers, p.MaxMembers)
	}
	if o.qualify == nil {
		o.qualify = func(world.Worker) float64 { return 1 }
	}

	m := &MissionProject{
		id:          model.NewID(model.IDTypeMission),
		missionType: p.Type,
		name:        p.Name,
		priority:    p.Priority,
		minMembers:  p.MinMembers,
		maxMembers:  p.MaxMembers,
		leader:      p.Leader,
		seen:        make(map[string]bool),
		log:         missionLog{clock: svc.Clock},
		svc:         svc,
		qualify:     o.qualify,
	}
	if m.name == "" {
		m.name = p.Type
	}
	m.logger = svc.Logger.With().Str("mission", m.name).Str("mission_id", m.id).Logger()
	m.hooks = m
	m.project = project.New(m.name, projectListener{m})
	m.join(p.Leader)
	return m, o, nil
}

func (m *MissionProject) announce() {
	m.log.add("Created", m.leader.Name())
	m.logger.Info().Str("leader", m.leader.Name()).Str("type", m.missionType).Msg("mission created")
	m.publish(events.EventMissionCreated, map[string]interface{}{
		"type":   m.missionType,
		"leader": m.leader.Name(),
	})
}

func (m *MissionProject) ID() string           { return m.id }
func (m *MissionProject) Name() string         { return m.name }
func (m *MissionProject) Type() string         { return m.missionType }
func (m *MissionProject) Priority() int        { return m.priority }
func (m *MissionProject) Leader() world.Person { return m.leader }
func (m *MissionProject) MinMembers() int      { return m.minMembers }
func (m *MissionProject) MaxMembers() int      { return m.maxMembers }
func (m *MissionProject) IsDone() bool         { return m.project.IsFinished() }
func (m *MissionProject) Stage() model.Stage   { return m.project.Stage() }
func (m *MissionProject) Log() []LogEntry      { return m.log.list() }

func (m *MissionProject) PhaseDescription() string {
	return m.project.StepDescription()
}

// ElapsedInPhase is the simulation time spent in the current step.
func (m *MissionProject) ElapsedInPhase() time.Duration {
	if m.project.CurrentStep() == nil {
		return 0
	}
	return m.svc.Clock.Now().Sub(m.phaseStarted)
}

func (m *MissionProject) MissionStatus() []model.MissionStatus {
	return m.status.List()
}

func (m *MissionProject) HasStatus(s model.MissionStatus) bool {
	return m.status.Has(s)
}

func (m *MissionProject) Members() []world.Worker {
	out := make([]world.Worker, len(m.members))
	copy(out, m.members)
	return out
}

// SignedUp lists every worker that was ever a member, in joining order.
func (m *MissionProject) SignedUp() []world.Worker {
	out := make([]world.Worker, len(m.signedUp))
	copy(out, m.signedUp)
	return out
}

func (m *MissionProject) IsMember(w world.Worker) bool {
	return m.memberIndex(w) >= 0
}

func (m *MissionProject) memberIndex(w world.Worker) int {
	for i, mem := range m.members {
		if mem.ID() == w.ID() {
			return i
		}
	}
	return -1
}

// AddMissionListener subscribes fn to this mission's events.
func (m *MissionProject) AddMissionListener(fn events.Listener) func() {
	return m.svc.Bus.Subscribe(fn, events.ForMission(m.id))
}

// PerformMission lets member w work on the current step.
func (m *MissionProject) PerformMission(w world.Worker) bool {
	if !m.IsMember(w) {
		return false
	}
	return m.project.Execute(w)
}

// AbortMission records status and sends the mission to its closedown steps.
func (m *MissionProject) AbortMission(status model.MissionStatus) {
	if m.project.IsFinished() {
		return
	}
	m.addStatus(status)
	m.log.add("Aborted: "+status.DisplayName(), "")
	m.logger.Info().Str("status", status.DisplayName()).Msg("mission aborted")
	m.project.Abort(status.DisplayName())
}

// AbortPhase forces the current step to complete.
func (m *MissionProject) AbortPhase() {
	step := m.project.CurrentStep()
	if step == nil {
		return
	}
	m.log.add("Phase aborted: "+step.Description(), "")
	m.logger.Info().Str("step", step.Description()).Msg("phase aborted")
	m.project.AbortStep()
}

// SetSteps installs plan followed by the close step and recruits members if
// the mission is short of its minimum. It may be called only once.
func (m *MissionProject) SetSteps(plan []Step) error {
	if m.planInstalled {
		return ErrPlanInstalled
	}
	if m.project.IsFinished() {
		return nil
	}

	steps := make([]Step, 0, len(plan)+1)
	steps = append(steps, plan...)
	steps = append(steps, newCloseStep(m))

	scratch := project.New(m.name, nil)
	for _, s := range steps {
		if err := scratch.AddStep(s); err != nil {
			return fmt.Errorf("install plan: %w", err)
		}
	}
	for _, s := range steps {
		if err := m.project.AddStep(s); err != nil {
			return fmt.Errorf("install plan: %w", err)
		}
	}
	m.planInstalled = true

	if len(m.members) < m.minMembers {
		m.findMembers()
	}
	return nil
}

// AddMember makes w a member. Adding an existing member is a no-op.
func (m *MissionProject) AddMember(w world.Worker) error {
	if m.IsMember(w) {
		return nil
	}
	if len(m.members) >= m.maxMembers {
		return fmt.Errorf("%w: %s", ErrMissionFull, w.Name())
	}
	m.join(w)
	m.log.add("Joined", w.Name())
	m.publish(events.EventMemberAdded, map[string]interface{}{"worker": w.Name()})
	return nil
}

func (m *MissionProject) join(w world.Worker) {
	m.members = append(m.members, w)
	if !m.seen[w.ID()] {
		m.seen[w.ID()] = true
		m.signedUp = append(m.signedUp, w)
	}
	w.SetMissionID(m.id)
	if p, ok := w.(world.Person); ok {
		p.SetOnCall(true)
	}
}

// RemoveMember detaches w from the mission and clears its on-call flag.
func (m *MissionProject) RemoveMember(w world.Worker) error {
	i := m.memberIndex(w)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotMember, w.Name())
	}
	m.members = append(m.members[:i], m.members[i+1:]...)
	if w.MissionID() == m.id {
		w.SetMissionID("")
	}
	if p, ok := w.(world.Person); ok && p.IsOnCall() {
		p.SetOnCall(false)
	}
	m.log.add("Left", w.Name())
	m.publish(events.EventMemberRemoved, map[string]interface{}{"worker": w.Name()})
	return nil
}

// Resources aggregates the supplies every remaining step still needs.
func (m *MissionProject) Resources(includeOptionals bool) *manifest.SuppliesManifest {
	mf := manifest.New()
	for _, s := range m.project.RemainingSteps() {
		if ms, ok := s.(Step); ok {
			ms.RequiredResources(mf, includeOptionals)
		}
	}
	return mf
}

func (m *MissionProject) addStatus(s model.MissionStatus) {
	if m.status.Add(s) {
		m.publish(events.EventStatusAdded, map[string]interface{}{"status": s.DisplayName()})
	}
}

func (m *MissionProject) stepCompleted(project.Step) {}

// clearDown releases members that did not leave through the close step.
func (m *MissionProject) clearDown() {
	for _, w := range m.Members() {
		m.logger.Warn().Str("worker", w.Name()).Msg("force releasing member")
		_ = m.RemoveMember(w)
	}
}

func (m *MissionProject) publish(t events.EventType, data map[string]interface{}) {
	m.svc.Bus.Publish(events.Event{
		Type:        t,
		MissionID:   m.id,
		MissionName: m.name,
		SimTime:     m.svc.Clock.Now(),
		Data:        data,
	})
}

// projectListener keeps the project callbacks off the mission's exported API.
type projectListener struct {
	m *MissionProject
}

func (l projectListener) StepStarted(step project.Step) {
	m := l.m
	m.phaseStarted = m.svc.Clock.Now()
	m.log.add("Started "+step.Description(), "")
	m.logger.Info().Str("step", step.Description()).Str("stage", step.Stage().String()).Msg("step started")
	m.publish(events.EventPhaseStarted, map[string]interface{}{
		"step":  step.Description(),
		"stage": step.Stage().String(),
	})
}

func (l projectListener) StepCompleted(step project.Step) {
	m := l.m
	m.log.add("Completed "+step.Description(), "")
	m.logger.Info().Str("step", step.Description()).Msg("step completed")
	m.hooks.stepCompleted(step)
	m.publish(events.EventPhaseCompleted, map[string]interface{}{"step": step.Description()})
}

func (l projectListener) ProjectCompleted(success bool) {
	m := l.m
	if success {
		m.addStatus(model.StatusAccomplished)
	}
	if !m.clearedDown {
		m.clearedDown = true
		m.hooks.clearDown()
	}

	names := make([]string, 0, m.status.Len())
	for _, s := range m.status.List() {
		names = append(names, s.DisplayName())
	}
	m.log.add("Finished", "")
	m.logger.Info().Bool("success", success).Strs("statuses", names).Msg("mission ended")
	m.publish(events.EventMissionEnded, map[string]interface{}{
		"success":  success,
		"statuses": names,
	})
}
