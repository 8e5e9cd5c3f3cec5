// Package runner executes node pipelines against a data catalog.
//
// The nodes are fed through a step pipeline: a scheduler emits one generation of independent
// nodes at a time, a worker step runs them, and a release sink frees the intermediate data that
// no remaining node needs before letting the scheduler emit the next generation.
package runner

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/askiada/go-dataproject/pkg/catalog"
	"github.com/askiada/go-dataproject/pkg/node"
	"github.com/askiada/go-dataproject/pkg/pipeline"
	"github.com/askiada/go-dataproject/pkg/pipeline/model"
)

// ErrMissingInputs is returned when the catalog lacks some of the pipeline inputs.
var ErrMissingInputs = errors.New("pipeline inputs not found in the catalog")

const (
	schedulerStepName = "scheduler"
	runStepName       = "run node"
	releaseStepName   = "release"
)

// Runner runs pipelines. It can be reused for several runs.
type Runner struct {
	concurrency  int
	logger       *slog.Logger
	pipelineOpts []model.PipelineOption
}

// Option configures a Runner.
type Option func(r *Runner)

// WithConcurrency sets how many nodes of a generation run at the same time. 1 runs them
// sequentially.
func WithConcurrency(concurrency int) Option {
	return func(r *Runner) {
		if concurrency > 0 {
			r.concurrency = concurrency
		}
	}
}

// WithLogger sets the logger of the runs, slog.Default() otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithPipelineOptions passes options, such as measures or drawers, to the underlying step
// pipeline. Options are shared by every run so they should only be used for one.
func WithPipelineOptions(opts ...model.PipelineOption) Option {
	return func(r *Runner) {
		r.pipelineOpts = append(r.pipelineOpts, opts...)
	}
}

func New(opts ...Option) *Runner {
	r := &Runner{
		concurrency: 1,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run runs every node of p once its inputs are available. Datasets p uses that cat does not
// define are kept in memory for the run only; the values of the ones p outputs are returned.
// cat itself is not modified.
func (r *Runner) Run(ctx context.Context, p *node.Pipeline, cat *catalog.Catalog) (map[string]any, error) {
	logger := r.logger.With(slog.String("run_id", uuid.NewString()))

	missing := []string{}
	for _, name := range p.Inputs() {
		if !cat.Has(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, errors.Wrapf(ErrMissingInputs, "[%s]", strings.Join(missing, ", "))
	}

	// temporary datasets go to a copy so cat can be reused
	cat = cat.ShallowCopy()
	ephemeral := map[string]struct{}{}
	for _, name := range p.Datasets() {
		if cat.Has(name) {
			continue
		}
		err := cat.Add(name, catalog.NewMemoryDataset(), false)
		if err != nil {
			return nil, err
		}
		ephemeral[name] = struct{}{}
	}

	start := time.Now()
	total := len(p.Nodes())
	logger.Info("Starting run", slog.Int("nodes", total), slog.Int("concurrency", r.concurrency))

	if total > 0 {
		err := r.runNodes(ctx, logger, p, cat, ephemeral)
		if err != nil {
			logger.Error("Run failed", slog.Any("error", err))

			return nil, err
		}
	}

	results := map[string]any{}
	for _, name := range p.Outputs() {
		if _, ok := ephemeral[name]; !ok {
			continue
		}
		data, err := cat.Load(ctx, name)
		if err != nil {
			return nil, err
		}
		results[name] = data
	}

	logger.Info("Run completed", slog.Duration("elapsed", time.Since(start)))

	return results, nil
}

func (r *Runner) runNodes(ctx context.Context, logger *slog.Logger, p *node.Pipeline, cat *catalog.Catalog, ephemeral map[string]struct{}) error {
	groups := p.Grouped()
	total := len(p.Nodes())
	released := make(chan string, total)

	if err := ctx.Err(); err != nil {
		return err
	}

	pipe, err := pipeline.New(ctx, r.pipelineOpts...)
	if err != nil {
		return errors.Wrap(err, "unable to create pipeline")
	}
	// stages already started must not outlive a failed setup
	defer pipe.Cancel()

	scheduler, err := pipeline.AddRootStep(pipe, schedulerStepName, func(ctx context.Context, out chan<- *node.Node) error {
		return schedule(ctx, groups, out, released)
	})
	if err != nil {
		return err
	}

	ran, err := pipeline.AddStepOneToOne(pipe, runStepName, scheduler, func(ctx context.Context, n *node.Node) (*node.Node, error) {
		return n, runNode(ctx, logger, n, cat)
	}, pipeline.StepConcurrency[*node.Node](r.concurrency))
	if err != nil {
		return err
	}

	rel := newReleaser(p, cat, ephemeral)
	done := 0

	err = pipeline.AddSink(pipe, releaseStepName, ran, func(_ context.Context, n *node.Node) error {
		done++
		err := rel.nodeDone(n)
		if err != nil {
			return err
		}
		logger.Info("Completed node", slog.String("node", n.Name()), slog.Int("done", done), slog.Int("total", total))
		released <- n.Name()

		return nil
	})
	if err != nil {
		return err
	}

	return pipe.Run()
}

// schedule emits the nodes one generation at a time, waiting for every node of a generation to be
// released before emitting the next one.
func schedule(ctx context.Context, groups [][]*node.Node, out chan<- *node.Node, released <-chan string) error {
	for _, group := range groups {
		for _, n := range group {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case out <- n:
			}
		}

		for range group {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-released:
			}
		}
	}

	return nil
}

func runNode(ctx context.Context, logger *slog.Logger, n *node.Node, cat *catalog.Catalog) error {
	logger = logger.With(slog.String("node", n.Name()))

	inputs := make([]any, 0, len(n.Inputs()))
	for _, name := range n.Inputs() {
		logger.Debug("Loading data", slog.String("dataset", name))
		data, err := cat.Load(ctx, name)
		if err != nil {
			return errors.Wrapf(err, "node %s", n.Name())
		}
		inputs = append(inputs, data)
	}

	logger.Info("Running node")
	outputs, err := n.Run(ctx, inputs)
	if err != nil {
		return err
	}

	for i, name := range n.Outputs() {
		logger.Debug("Saving data", slog.String("dataset", name))
		err := cat.Save(ctx, name, outputs[i])
		if err != nil {
			return errors.Wrapf(err, "node %s", n.Name())
		}
	}

	return nil
}
