package model

// StepType identifies the kind of stage a step is.
type StepType string

const (
	RootStepType   StepType = "root"
	NormalStepType StepType = "step"
	SinkStepType   StepType = "sink"
)

// StepInfo describes a step to the pipeline options.
type StepInfo struct {
	Type       StepType
	Name       string
	Concurrent int
}

// StartStep and EndStep are virtual steps framing every pipeline.
var (
	StartStep = &Step[any]{Details: &StepInfo{Name: "start"}}
	EndStep   = &Step[any]{Details: &StepInfo{Name: "end"}}
)

// Step is the handle returned when a stage is added. Its Output feeds the next stage.
type Step[O any] struct {
	Output  chan O
	Details *StepInfo
}
