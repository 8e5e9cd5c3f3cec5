package measure

import (
	"sync"
	"time"
)

type transportInfo struct {
	elapsed time.Duration
	total   int64
}

type DefaultMetric struct {
	mu          sync.Mutex
	transports  map[string]*transportInfo
	endDuration time.Duration
	stepElapsed time.Duration
	total       int64
	concurrent  int
}

func newDefaultMetric(concurrent int) *DefaultMetric {
	if concurrent < 1 {
		concurrent = 1
	}

	return &DefaultMetric{
		transports: make(map[string]*transportInfo),
		concurrent: concurrent,
	}
}

func (mt *DefaultMetric) AddDuration(elapsed time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.total++
	mt.stepElapsed += elapsed
}

func (mt *DefaultMetric) SetTotalDuration(endDuration time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.endDuration = endDuration
}

func (mt *DefaultMetric) GetTotalDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.endDuration
}

func (mt *DefaultMetric) Count() int64 {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.total
}

func (mt *DefaultMetric) AddTransportDuration(inputStepName string, elapsed time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	info, ok := mt.transports[inputStepName]
	if !ok {
		info = &transportInfo{}
		mt.transports[inputStepName] = info
	}
	info.elapsed += elapsed
	info.total++
}

func (mt *DefaultMetric) AVGDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	if mt.total == 0 {
		return 0
	}

	return round(time.Duration(float64(mt.stepElapsed) / float64(mt.total)))
}

// AVGTransportDuration returns the average wait per input step, divided by the number of workers
// sharing the input.
func (mt *DefaultMetric) AVGTransportDuration() map[string]time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	res := make(map[string]time.Duration, len(mt.transports))
	for name, info := range mt.transports {
		if info.total == 0 {
			continue
		}
		res[name] = round(time.Duration(float64(info.elapsed) / float64(info.total) / float64(mt.concurrent)))
	}

	return res
}

func round(d time.Duration) time.Duration {
	switch {
	case d > time.Hour:
		return d.Round(time.Hour)
	case d > time.Minute:
		return d.Round(time.Minute)
	case d > time.Second:
		return d.Round(time.Second)
	case d > time.Millisecond:
		return d.Round(time.Millisecond)
	case d > time.Microsecond:
		return d.Round(time.Microsecond)
	}

	return d
}

var _ Metric = (*DefaultMetric)(nil)
