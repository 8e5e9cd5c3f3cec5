package measure

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-dataproject/pkg/pipeline/model"
)

func TestPipelineCollector(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	opt, err := PipelineCollector(reg, "test")
	require.NoError(t, err)

	pc, ok := opt.(*pipelineCollector)
	require.True(t, ok)

	root := &model.StepInfo{Name: "root"}
	step := &model.StepInfo{Name: "step"}
	sink := &model.StepInfo{Name: "sink"}

	require.NoError(t, opt.OnStepOutput(root, step, time.Millisecond, time.Millisecond))
	require.NoError(t, opt.OnStepOutput(root, step, time.Millisecond, time.Millisecond))
	require.NoError(t, opt.OnSinkOutput(step, sink, time.Millisecond, time.Millisecond))
	require.NoError(t, opt.AfterSink(sink, 2*time.Second))

	assert.InDelta(t, 2, testutil.ToFloat64(pc.elements.WithLabelValues("step")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pc.elements.WithLabelValues("sink")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(pc.sinkTotal.WithLabelValues("sink")), 0)

	count, err := testutil.GatherAndCount(reg, "test_step_wait_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestPipelineCollectorAlreadyRegistered(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	_, err := PipelineCollector(reg, "test")
	require.NoError(t, err)

	_, err = PipelineCollector(reg, "test")
	require.Error(t, err)
}
