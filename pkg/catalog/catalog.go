package catalog

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// Catalog is a named set of datasets. It is safe for concurrent use.
type Catalog struct {
	mu       sync.RWMutex
	datasets map[string]Dataset
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		datasets: make(map[string]Dataset),
	}
}

// FromConfig builds a catalog from configuration entries of the form
//
//	name:
//	  type: text.TextDataset
//	  filepath: data/01_raw/name.txt
func FromConfig(cfg map[string]any) (*Catalog, error) {
	cat := New()

	for name, raw := range cfg {
		entry, ok := raw.(map[string]any)
		if !ok {
			return nil, errors.Errorf("dataset %s: entry must be a mapping, got %T", name, raw)
		}

		ds, err := datasetFromEntry(entry)
		if err != nil {
			return nil, errors.Wrapf(err, "dataset %s", name)
		}
		cat.datasets[name] = ds
	}

	return cat, nil
}

func datasetFromEntry(entry map[string]any) (Dataset, error) {
	rawType, ok := entry["type"]
	if !ok {
		return nil, ErrMissingType
	}
	typeName, ok := rawType.(string)
	if !ok || typeName == "" {
		return nil, ErrMissingType
	}

	factory, ok := lookupType(typeName)
	if !ok {
		return nil, errors.Wrap(ErrUnknownDatasetType, typeName)
	}

	options := make(map[string]any, len(entry)-1)
	for k, v := range entry {
		if k != "type" {
			options[k] = v
		}
	}

	return factory(options)
}

// Add registers ds under name. Without replace an existing name is an error.
func (c *Catalog) Add(name string, ds Dataset, replace bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.datasets[name]; ok && !replace {
		return errors.Wrap(ErrDatasetExists, name)
	}
	c.datasets[name] = ds

	return nil
}

// AddFeedDict registers every value as a memory dataset.
func (c *Catalog) AddFeedDict(feed map[string]any, replace bool) error {
	for name, data := range feed {
		err := c.Add(name, NewMemoryDatasetWith(data), replace)
		if err != nil {
			return err
		}
	}

	return nil
}

// AddParameters registers the parameters as "parameters", and every key, nested keys joined
// with dots, as "params:<key>".
func (c *Catalog) AddParameters(params map[string]any) error {
	feed := map[string]any{"parameters": params}
	flattenParams("params:", params, feed)

	return c.AddFeedDict(feed, true)
}

func flattenParams(prefix string, params map[string]any, feed map[string]any) {
	for key, value := range params {
		feed[prefix+key] = value
		if nested, ok := value.(map[string]any); ok {
			flattenParams(prefix+key+".", nested, feed)
		}
	}
}

func (c *Catalog) get(name string) (Dataset, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ds, ok := c.datasets[name]
	if !ok {
		return nil, errors.Wrap(ErrDatasetNotFound, name)
	}

	return ds, nil
}

// Dataset returns the dataset registered under name.
func (c *Catalog) Dataset(name string) (Dataset, error) {
	return c.get(name)
}

func (c *Catalog) Load(ctx context.Context, name string) (any, error) {
	ds, err := c.get(name)
	if err != nil {
		return nil, err
	}

	data, err := ds.Load(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to load %s", name)
	}

	return data, nil
}

func (c *Catalog) Save(ctx context.Context, name string, data any) error {
	ds, err := c.get(name)
	if err != nil {
		return err
	}

	err = ds.Save(ctx, data)
	if err != nil {
		return errors.Wrapf(err, "unable to save %s", name)
	}

	return nil
}

func (c *Catalog) Exists(ctx context.Context, name string) (bool, error) {
	ds, err := c.get(name)
	if err != nil {
		return false, err
	}

	return ds.Exists(ctx)
}

func (c *Catalog) Release(name string) error {
	ds, err := c.get(name)
	if err != nil {
		return err
	}
	ds.Release()

	return nil
}

func (c *Catalog) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.datasets[name]

	return ok
}

// ShallowCopy returns a catalog holding the same datasets. Adding or replacing entries in the
// copy leaves c untouched.
func (c *Catalog) ShallowCopy() *Catalog {
	c.mu.RLock()
	defer c.mu.RUnlock()

	res := New()
	for name, ds := range c.datasets {
		res.datasets[name] = ds
	}

	return res
}

// List returns the dataset names, sorted.
func (c *Catalog) List() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	res := make([]string, 0, len(c.datasets))
	for name := range c.datasets {
		res = append(res, name)
	}
	sort.Strings(res)

	return res
}
