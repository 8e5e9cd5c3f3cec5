package pipeline

import "github.com/askiada/go-dataproject/pkg/pipeline/model"

// StepOption configures a step before it starts.
type StepOption[O any] func(s *model.Step[O])

// StepConcurrency sets how many workers consume the input of the step.
func StepConcurrency[O any](concurrent int) StepOption[O] {
	return func(s *model.Step[O]) {
		s.Details.Concurrent = concurrent
	}
}
