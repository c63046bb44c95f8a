package generator

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidStep is returned when a run operation is not allowed in the current step.
	ErrInvalidStep = errors.New("operation not allowed in current step")
	// ErrNoIdeas is returned when an idea is selected before any were generated.
	ErrNoIdeas = errors.New("no ideas available")
)

// StageError 描述某个阶段的失败；阶段本身已经给出了兜底输出。
type StageError struct {
	Stage   Stage
	Section string
	Err     error
}

func (e *StageError) Error() string {
	if e.Section != "" {
		return fmt.Sprintf("%s stage (%s): %v", e.Stage, e.Section, e.Err)
	}
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
