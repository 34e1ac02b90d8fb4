package project

import (
	"errors"
	"fmt"
)

var (
	ErrStageRegression = errors.New("step stage precedes the previous step")
	ErrProjectFinished = errors.New("project already finished")
	ErrNilStep         = errors.New("step is nil")
)

// StructureError reports a step sequence that cannot be built. It indicates
// a programming error in step ordering rather than a runtime condition.
type StructureError struct {
	Project string
	Step    string
	Err     error
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("project %q: step %q: %v", e.Project, e.Step, e.Err)
}

func (e *StructureError) Unwrap() error {
	return e.Err
}
