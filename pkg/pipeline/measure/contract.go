package measure

import "time"

// Measure stores one Metric per step.
type Measure interface {
	AddMetric(name string, concurrent int) Metric
	GetMetric(name string) Metric
	AllMetrics() map[string]Metric
}

// Metric accumulates the timings of a single step.
type Metric interface {
	// AddDuration records the time spent computing one element.
	AddDuration(elapsed time.Duration)
	// AddTransportDuration records the time spent waiting for one element from inputStepName.
	AddTransportDuration(inputStepName string, elapsed time.Duration)
	AVGDuration() time.Duration
	AVGTransportDuration() map[string]time.Duration
	SetTotalDuration(endDuration time.Duration)
	GetTotalDuration() time.Duration
	Count() int64
}
