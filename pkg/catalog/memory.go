package catalog

import (
	"context"
	"sync"
)

// MemoryDataset keeps its data in memory for the lifetime of the process.
type MemoryDataset struct {
	mu      sync.RWMutex
	data    any
	hasData bool
}

// NewMemoryDataset creates an empty memory dataset.
func NewMemoryDataset() *MemoryDataset {
	return &MemoryDataset{}
}

// NewMemoryDatasetWith creates a memory dataset holding data.
func NewMemoryDatasetWith(data any) *MemoryDataset {
	return &MemoryDataset{data: data, hasData: true}
}

type memoryOptions struct {
	Data any `mapstructure:"data"`
}

func newMemoryDatasetFromOptions(options map[string]any) (Dataset, error) {
	opts := memoryOptions{}

	err := decodeOptions(options, &opts)
	if err != nil {
		return nil, err
	}

	if _, ok := options["data"]; ok {
		return NewMemoryDatasetWith(opts.Data), nil
	}

	return NewMemoryDataset(), nil
}

func (m *MemoryDataset) Load(_ context.Context) (any, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.hasData {
		return nil, ErrDatasetEmpty
	}

	return m.data, nil
}

func (m *MemoryDataset) Save(_ context.Context, data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
	m.hasData = true

	return nil
}

func (m *MemoryDataset) Exists(_ context.Context) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.hasData, nil
}

func (m *MemoryDataset) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	m.hasData = false
}

func (m *MemoryDataset) Describe() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]any{"type": "MemoryDataset", "has_data": m.hasData}
}

var _ Dataset = (*MemoryDataset)(nil)
