// Package project implements a generic, mission-agnostic step sequencer.
package project

import (
	"github.com/msageha/colonysim/internal/model"
	"github.com/msageha/colonysim/internal/world"
)

// Listener is notified of the project's progress.
type Listener interface {
	StepStarted(step Step)
	StepCompleted(step Step)
	ProjectCompleted(success bool)
}

// Project executes its steps strictly in the order they were added.
// It is not safe for concurrent use; callers drive it from a single tick loop.
type Project struct {
	name     string
	steps    []Step
	current  Step
	lastAdd  model.Stage
	started  bool
	finished bool
	reason   string
	listener Listener
}

func New(name string, listener Listener) *Project {
	return &Project{name: name, listener: listener}
}

func (p *Project) Name() string        { return p.name }
func (p *Project) SetName(name string) { p.name = name }
func (p *Project) IsFinished() bool    { return p.finished }
func (p *Project) IsAborted() bool     { return p.reason != "" }
func (p *Project) AbortReason() string { return p.reason }
func (p *Project) CurrentStep() Step   { return p.current }

// AddStep appends step to the queue. Steps may not go back to an earlier Stage.
func (p *Project) AddStep(step Step) error {
	if step == nil {
		return &StructureError{Project: p.name, Err: ErrNilStep}
	}
	if p.finished {
		return &StructureError{Project: p.name, Step: step.Description(), Err: ErrProjectFinished}
	}
	if step.Stage().Before(p.lastAdd) {
		return &StructureError{Project: p.name, Step: step.Description(), Err: ErrStageRegression}
	}
	p.steps = append(p.steps, step)
	p.lastAdd = step.Stage()
	return nil
}

// RemainingSteps returns the current step followed by the queued ones.
func (p *Project) RemainingSteps() []Step {
	out := make([]Step, 0, len(p.steps)+1)
	if p.current != nil {
		out = append(out, p.current)
	}
	return append(out, p.steps...)
}

// Stage is the stage of the current step, or of the next queued one before
// execution starts. It is StageNone once the project is finished.
func (p *Project) Stage() model.Stage {
	if p.finished {
		return model.StageNone
	}
	if p.current != nil {
		return p.current.Stage()
	}
	if len(p.steps) > 0 {
		return p.steps[0].Stage()
	}
	return model.StageNone
}

func (p *Project) StepDescription() string {
	if p.current != nil {
		return p.current.Description()
	}
	if p.finished {
		if p.reason != "" {
			return "Aborted: " + p.reason
		}
		return "Completed"
	}
	if len(p.steps) > 0 {
		return p.steps[0].Description()
	}
	return ""
}

// Execute lets w work on the current step, starting the next queued step
// when none is current. It reports whether w did useful work.
func (p *Project) Execute(w world.Worker) bool {
	if p.finished {
		return false
	}
	if p.current == nil {
		if !p.startNext() {
			return false
		}
	}

	step := p.current
	worked := step.Execute(w)
	// The step may have aborted the project or been replaced while executing.
	if p.current == step && step.IsComplete() {
		p.stepDone(step)
	}
	return worked
}

// Abort records reason and moves the project to its closedown steps so
// their cleanup always runs. A project that never started a step finishes
// immediately. Only the first reason is kept.
func (p *Project) Abort(reason string) {
	if p.finished {
		return
	}
	if p.reason == "" {
		p.reason = reason
		if p.reason == "" {
			p.reason = "aborted"
		}
	}

	if !p.started {
		p.steps = nil
		p.finish()
		return
	}

	kept := p.steps[:0]
	for _, s := range p.steps {
		if s.Stage() == model.StageClosedown {
			kept = append(kept, s)
		}
	}
	p.steps = kept

	if p.current != nil && p.current.Stage() != model.StageClosedown {
		step := p.current
		step.Complete()
		p.stepDone(step)
		return
	}
	if p.current == nil && len(p.steps) == 0 {
		p.finish()
	}
}

// AbortStep forces the current step to complete regardless of its progress.
func (p *Project) AbortStep() {
	if p.finished || p.current == nil {
		return
	}
	step := p.current
	step.Complete()
	p.stepDone(step)
}

func (p *Project) startNext() bool {
	if len(p.steps) == 0 {
		p.finish()
		return false
	}
	p.current = p.steps[0]
	p.steps[0] = nil
	p.steps = p.steps[1:]
	p.started = true
	p.current.Start()
	if p.listener != nil {
		p.listener.StepStarted(p.current)
	}
	return true
}

func (p *Project) stepDone(step Step) {
	p.current = nil
	if p.listener != nil {
		p.listener.StepCompleted(step)
	}
	if !p.finished && p.current == nil && len(p.steps) == 0 {
		p.finish()
	}
}

func (p *Project) finish() {
	if p.finished {
		return
	}
	p.finished = true
	p.current = nil
	if p.listener != nil {
		p.listener.ProjectCompleted(p.reason == "")
	}
}
