package pipeline

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-dataproject/pkg/pipeline/model"
)

// Pipeline is a pipeline of steps.
type Pipeline struct {
	ctx       context.Context
	cancel    context.CancelFunc
	stages    *stages
	opts      []model.PipelineOption
	startTime time.Time
}

// New creates a new pipeline. Stages added to it stop when ctx is cancelled.
func New(ctx context.Context, opts ...model.PipelineOption) (*Pipeline, error) {
	dCtx, cancel := context.WithCancel(ctx)
	pipe := &Pipeline{
		ctx:       dCtx,
		cancel:    cancel,
		stages:    &stages{},
		startTime: time.Now(),
		opts:      opts,
	}

	for _, opt := range opts {
		err := opt.New()
		if err != nil {
			cancel()

			return nil, errors.Wrap(err, "unable to apply pipeline option")
		}
	}

	return pipe, nil
}

// wait returns the first stage error, without waiting for the other stages once one failed.
func wait(results ...stageResult) error {
	for err := range collectErrors(results...) {
		if err != nil {
			return err
		}
	}

	return nil
}

// Run waits for every stage to finish. The first error cancels the other stages and is returned.
func (p *Pipeline) Run() error {
	defer p.cancel()

	err := wait(p.stages.results()...)
	if err != nil {
		return err
	}

	return p.finishRun()
}

// Cancel stops every stage. Run then returns the error of the first stage noticing it.
// It is safe to call more than once, and to call after Run returned.
func (p *Pipeline) Cancel() {
	p.cancel()
}

func (p *Pipeline) finishRun() error {
	for _, opt := range p.opts {
		err := opt.Finish()
		if err != nil {
			return errors.Wrap(err, "unable to finish pipeline option")
		}
	}

	return nil
}
