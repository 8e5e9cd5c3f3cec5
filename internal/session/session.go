// Package session runs a registered pipeline of the project from its configuration.
package session

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/askiada/go-dataproject/internal/pipelines"
	"github.com/askiada/go-dataproject/internal/settings"
	"github.com/askiada/go-dataproject/pkg/catalog"
	"github.com/askiada/go-dataproject/pkg/config"
	"github.com/askiada/go-dataproject/pkg/node"
	"github.com/askiada/go-dataproject/pkg/pipeline/drawer"
	"github.com/askiada/go-dataproject/pkg/pipeline/measure"
	"github.com/askiada/go-dataproject/pkg/pipeline/model"
	"github.com/askiada/go-dataproject/pkg/runner"
)

// DefaultConfSource is the configuration directory used when none is set.
const DefaultConfSource = "conf"

const metricsNamespace = "dataproject"

// ErrPipelineNotFound is returned when no pipeline is registered under the requested name.
var ErrPipelineNotFound = errors.New("pipeline not found")

// Options selects what Run runs and where it reports.
type Options struct {
	// Pipeline is the registered pipeline to run, pipelines.DefaultPipeline when empty.
	Pipeline   string
	Env        string
	ConfSource string
	// Concurrency is the number of nodes run at the same time.
	Concurrency int
	// NodeNames and Tags restrict the run to some nodes of the pipeline.
	NodeNames     []string
	Tags          []string
	RuntimeParams map[string]any
	// GraphFile receives a DOT drawing of the run when set.
	GraphFile string
	// MetricsFile receives the run metrics in the Prometheus text format when set.
	MetricsFile string
	Logger      *slog.Logger
	// Stdout receives what the nodes print, os.Stdout when nil.
	Stdout io.Writer
}

func (o *Options) setDefaults() {
	if o.Pipeline == "" {
		o.Pipeline = pipelines.DefaultPipeline
	}
	if o.ConfSource == "" {
		o.ConfSource = DefaultConfSource
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
}

// Run loads the catalog and parameters from the configuration and runs the selected pipeline.
// It returns the pipeline outputs that are not saved to the catalog.
func Run(ctx context.Context, opts Options) (map[string]any, error) {
	opts.setDefaults()
	logger := opts.Logger.With(slog.String("pipeline", opts.Pipeline), slog.String("env", opts.Env))

	cat, err := loadCatalog(opts)
	if err != nil {
		return nil, err
	}

	pipe, err := selectPipeline(opts)
	if err != nil {
		return nil, err
	}

	pipeOpts := []model.PipelineOption{}
	if opts.GraphFile != "" {
		m := measure.NewDefaultMeasure()
		pipeOpts = append(pipeOpts, measure.PipelineMeasure(m), drawer.PipelineDrawer(drawer.NewDOTDrawer(opts.GraphFile), m))
	}

	var reg *prometheus.Registry
	if opts.MetricsFile != "" {
		reg = prometheus.NewRegistry()
		collector, err := measure.PipelineCollector(reg, metricsNamespace)
		if err != nil {
			return nil, err
		}
		pipeOpts = append(pipeOpts, collector)
	}

	r := runner.New(
		runner.WithConcurrency(opts.Concurrency),
		runner.WithLogger(logger),
		runner.WithPipelineOptions(pipeOpts...),
	)

	outputs, err := r.Run(ctx, pipe, cat)
	if err != nil {
		return nil, err
	}

	if reg != nil {
		err = prometheus.WriteToTextfile(opts.MetricsFile, reg)
		if err != nil {
			return nil, errors.Wrap(err, "unable to write metrics")
		}
	}

	return outputs, nil
}

func loadCatalog(opts Options) (*catalog.Catalog, error) {
	loader, err := settings.NewConfigLoader(opts.ConfSource, opts.Env, opts.RuntimeParams)
	if err != nil {
		return nil, err
	}

	catCfg, err := config.Catalog(loader)
	if errors.Is(err, config.ErrNoConfigFiles) {
		catCfg = map[string]any{}
	} else if err != nil {
		return nil, errors.Wrap(err, "unable to load catalog configuration")
	}

	cat, err := catalog.FromConfig(catCfg)
	if err != nil {
		return nil, err
	}

	params, err := config.Parameters(loader)
	if err != nil {
		return nil, errors.Wrap(err, "unable to load parameters")
	}

	err = cat.AddParameters(params)
	if err != nil {
		return nil, err
	}

	return cat, nil
}

func selectPipeline(opts Options) (*node.Pipeline, error) {
	pipes, err := pipelines.Register(opts.Stdout, nil)
	if err != nil {
		return nil, err
	}

	pipe, ok := pipes[opts.Pipeline]
	if !ok {
		return nil, errors.Wrap(ErrPipelineNotFound, opts.Pipeline)
	}

	if len(opts.NodeNames) > 0 {
		pipe, err = pipe.OnlyNodes(opts.NodeNames...)
		if err != nil {
			return nil, err
		}
	}
	if len(opts.Tags) > 0 {
		pipe, err = pipe.OnlyNodesWithTags(opts.Tags...)
		if err != nil {
			return nil, err
		}
	}

	return pipe, nil
}
