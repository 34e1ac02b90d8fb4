package project

import (
	"github.com/msageha/colonysim/internal/model"
	"github.com/msageha/colonysim/internal/world"
)

// Step is a single unit of work in a Project.
//
// Start is called once before the first Execute. Execute is called
// repeatedly, possibly by several workers in the same tick, until the step
// calls Complete. A step that never completes stalls its project.
type Step interface {
	ID() string
	Description() string
	Stage() model.Stage
	Start()
	// Execute lets w work on the step and reports whether w did useful work.
	Execute(w world.Worker) bool
	Complete()
	IsStarted() bool
	IsComplete() bool
}

// BaseStep carries the bookkeeping shared by all steps. Embedders supply Execute.
type BaseStep struct {
	id          string
	description string
	stage       model.Stage
	started     bool
	complete    bool
}

func NewBaseStep(stage model.Stage, description string) BaseStep {
	return BaseStep{
		id:          model.NewID(model.IDTypeStep),
		description: description,
		stage:       stage,
	}
}

func (s *BaseStep) ID() string          { return s.id }
func (s *BaseStep) Description() string { return s.description }
func (s *BaseStep) Stage() model.Stage  { return s.stage }
func (s *BaseStep) IsStarted() bool     { return s.started }
func (s *BaseStep) IsComplete() bool    { return s.complete }

func (s *BaseStep) Start() {
	s.started = true
}

func (s *BaseStep) Complete() {
	s.complete = true
}

func (s *BaseStep) String() string {
	return s.description
}
