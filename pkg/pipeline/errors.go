package pipeline

import (
	"sync"

	"github.com/pkg/errors"
)

// Errors returned when adding a stage.
var (
	ErrPipelineMustBeSet = errors.New("p must be set")
	ErrInputMustBeSet    = errors.New("input must be set")
)

// StageError is the error Run returns when a stage fails. Errors.As on it tells which stage
// stopped the pipeline.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return e.Stage + ": " + e.Err.Error() }

func (e *StageError) Unwrap() error { return e.Err }

// stageResult is the error channel of one stage. A stage sends at most one error then closes it.
type stageResult struct {
	stage string
	errC  <-chan error
}

// stages lists the running stages in the order they were added.
type stages struct {
	mu   sync.Mutex
	list []stageResult
}

func (s *stages) register(name string, errC <-chan error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list = append(s.list, stageResult{stage: name, errC: errC})
}

func (s *stages) results() []stageResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]stageResult(nil), s.list...)
}

// collectErrors forwards the errors of every stage, each one wrapped in a StageError, and closes
// the returned channel once all stages are done.
func collectErrors(results ...stageResult) <-chan error {
	var wg sync.WaitGroup
	// one slot per stage: forwarding never blocks once Run stopped reading
	out := make(chan error, len(results))

	wg.Add(len(results))
	for _, res := range results {
		go func() {
			defer wg.Done()
			if res.errC == nil {
				return
			}
			for err := range res.errC {
				out <- &StageError{Stage: res.stage, Err: err}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}
