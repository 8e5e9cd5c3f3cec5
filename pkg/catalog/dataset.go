package catalog

import (
	"context"
	"sort"
	"sync"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// Dataset loads and saves the data behind one catalog entry.
type Dataset interface {
	Load(ctx context.Context) (any, error)
	Save(ctx context.Context, data any) error
	Exists(ctx context.Context) (bool, error)
	// Release drops any data the dataset keeps in memory.
	Release()
	Describe() map[string]any
}

// Factory builds a dataset from the options of a catalog entry, type excluded.
type Factory func(options map[string]any) (Dataset, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// RegisterType makes a dataset type available to FromConfig. Registering a name twice replaces
// the previous factory.
func RegisterType(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// Types returns the registered dataset type names.
func Types() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	res := make([]string, 0, len(registry))
	for name := range registry {
		res = append(res, name)
	}
	sort.Strings(res)

	return res
}

func lookupType(name string) (Factory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	factory, ok := registry[name]

	return factory, ok
}

// decodeOptions decodes entry options into the typed config c, rejecting unknown keys.
func decodeOptions(options map[string]any, c any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           c,
	})
	if err != nil {
		return errors.Wrap(err, "failed to initialize mapstructure decoder")
	}

	err = dec.Decode(options)
	if err != nil {
		return errors.Wrapf(err, "failed to decode options into %T", c)
	}

	return nil
}

func init() {
	RegisterType("MemoryDataset", newMemoryDatasetFromOptions)
	RegisterType("text.TextDataset", newTextDatasetFromOptions)
	RegisterType("TextDataset", newTextDatasetFromOptions)
	RegisterType("yaml.YAMLDataset", newYAMLDatasetFromOptions)
	RegisterType("YAMLDataset", newYAMLDatasetFromOptions)
}
