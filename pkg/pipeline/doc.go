// Package pipeline is the step engine the runner executes node graphs on.
//
// A pipeline is a chain of stages connected by channels. A root step produces elements, normal
// steps transform them with a configurable number of workers, and sinks consume them. Every stage
// runs in its own goroutines as soon as it is added; Run waits for all of them and returns the
// first error, which cancels the context shared by the remaining stages.
//
// Pipeline options (see the model package) observe each stage as it is prepared and each element
// as it flows, which is how the measure and drawer packages collect timings and draw the graph.
package pipeline
