package measure

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/askiada/go-dataproject/pkg/pipeline/model"
)

type pipelineCollector struct {
	elements  *prometheus.CounterVec
	compute   *prometheus.HistogramVec
	wait      *prometheus.HistogramVec
	sinkTotal *prometheus.GaugeVec
}

// PipelineCollector exports step timings as Prometheus metrics registered on reg.
func PipelineCollector(reg prometheus.Registerer, namespace string) (model.PipelineOption, error) {
	pc := &pipelineCollector{
		elements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "step_elements_total",
			Help:      "Number of elements pushed by a step.",
		}, []string{"step"}),
		compute: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "step_compute_duration_seconds",
			Help:      "Time spent computing one element.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"step"}),
		wait: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "step_wait_duration_seconds",
			Help:      "Time spent waiting for one element from the parent step.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"step", "parent"}),
		sinkTotal: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sink_end_seconds",
			Help:      "Time between the pipeline creation and the end of a sink.",
		}, []string{"step"}),
	}

	for _, c := range []prometheus.Collector{pc.elements, pc.compute, pc.wait, pc.sinkTotal} {
		err := reg.Register(c)
		if err != nil {
			return nil, errors.Wrap(err, "unable to register collector")
		}
	}

	return pc, nil
}

func (pc *pipelineCollector) New() error { return nil }

func (pc *pipelineCollector) Finish() error { return nil }

func (pc *pipelineCollector) PrepareStep(_, _ *model.StepInfo) error { return nil }

func (pc *pipelineCollector) PrepareSink(_, _ *model.StepInfo) error { return nil }

func (pc *pipelineCollector) OnStepOutput(parentStep, step *model.StepInfo, iterationDuration, computationDuration time.Duration) error {
	pc.observe(parentStep, step, iterationDuration, computationDuration)

	return nil
}

func (pc *pipelineCollector) OnSinkOutput(parentStep, step *model.StepInfo, iterationDuration, computationDuration time.Duration) error {
	pc.observe(parentStep, step, iterationDuration, computationDuration)

	return nil
}

func (pc *pipelineCollector) AfterSink(step *model.StepInfo, totalDuration time.Duration) error {
	pc.sinkTotal.WithLabelValues(step.Name).Set(totalDuration.Seconds())

	return nil
}

func (pc *pipelineCollector) observe(parentStep, step *model.StepInfo, iterationDuration, computationDuration time.Duration) {
	pc.elements.WithLabelValues(step.Name).Inc()
	pc.compute.WithLabelValues(step.Name).Observe(computationDuration.Seconds())
	pc.wait.WithLabelValues(step.Name, parentStep.Name).Observe(iterationDuration.Seconds())
}
