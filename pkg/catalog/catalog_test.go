package catalog_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-dataproject/pkg/catalog"
)

func TestFromConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cat, err := catalog.FromConfig(map[string]any{
		"raw": map[string]any{
			"type":     "text.TextDataset",
			"filepath": filepath.Join(dir, "raw.txt"),
		},
		"model": map[string]any{
			"type":     "yaml.YAMLDataset",
			"filepath": filepath.Join(dir, "model.yml"),
		},
		"cache": map[string]any{
			"type": "MemoryDataset",
			"data": 12,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"cache", "model", "raw"}, cat.List())

	ctx := context.Background()

	got, err := cat.Load(ctx, "cache")
	require.NoError(t, err)
	assert.Equal(t, 12, got)

	exists, err := cat.Exists(ctx, "raw")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, cat.Save(ctx, "raw", "hello"))
	got, err = cat.Load(ctx, "raw")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)

	require.NoError(t, cat.Save(ctx, "model", map[string]any{"alpha": 0.5, "layers": []any{1, 2}}))
	got, err = cat.Load(ctx, "model")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"alpha": 0.5, "layers": []any{1, 2}}, got)
}

func TestFromConfigErrors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		cfg      map[string]any
		expected error
	}{
		"missing type": {
			cfg:      map[string]any{"a": map[string]any{"filepath": "a.txt"}},
			expected: catalog.ErrMissingType,
		},
		"unknown type": {
			cfg:      map[string]any{"a": map[string]any{"type": "pandas.CSVDataset"}},
			expected: catalog.ErrUnknownDatasetType,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := catalog.FromConfig(tc.cfg)
			require.ErrorIs(t, err, tc.expected)
		})
	}

	_, err := catalog.FromConfig(map[string]any{"a": "text.TextDataset"})
	require.Error(t, err)

	_, err = catalog.FromConfig(map[string]any{"a": map[string]any{"type": "text.TextDataset"}})
	require.ErrorContains(t, err, "filepath must be set")

	_, err = catalog.FromConfig(map[string]any{"a": map[string]any{"type": "text.TextDataset", "filepath": "a", "sep": ","}})
	require.ErrorContains(t, err, "sep")
}

func TestCatalogAdd(t *testing.T) {
	t.Parallel()

	cat := catalog.New()
	require.NoError(t, cat.Add("a", catalog.NewMemoryDataset(), false))
	require.ErrorIs(t, cat.Add("a", catalog.NewMemoryDataset(), false), catalog.ErrDatasetExists)
	require.NoError(t, cat.Add("a", catalog.NewMemoryDatasetWith(1), true))

	got, err := cat.Load(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, 1, got)
	assert.True(t, cat.Has("a"))
	assert.False(t, cat.Has("b"))
}

func TestCatalogShallowCopy(t *testing.T) {
	t.Parallel()

	raw := catalog.NewMemoryDatasetWith("raw")
	cat := catalog.New()
	require.NoError(t, cat.Add("raw", raw, false))

	cp := cat.ShallowCopy()
	require.NoError(t, cp.Add("tmp", catalog.NewMemoryDataset(), false))
	require.NoError(t, cp.Save(context.Background(), "raw", "changed"))

	assert.Equal(t, []string{"raw"}, cat.List())
	assert.Equal(t, []string{"raw", "tmp"}, cp.List())

	// datasets are shared, not copied
	data, err := cat.Load(context.Background(), "raw")
	require.NoError(t, err)
	assert.Equal(t, "changed", data)
}

func TestCatalogMissing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cat := catalog.New()

	_, err := cat.Load(ctx, "a")
	require.ErrorIs(t, err, catalog.ErrDatasetNotFound)
	require.ErrorIs(t, cat.Save(ctx, "a", 1), catalog.ErrDatasetNotFound)
	require.ErrorIs(t, cat.Release("a"), catalog.ErrDatasetNotFound)
	_, err = cat.Exists(ctx, "a")
	require.ErrorIs(t, err, catalog.ErrDatasetNotFound)
}

func TestAddParameters(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cat := catalog.New()
	params := map[string]any{
		"rate":  0.1,
		"model": map[string]any{"depth": 3},
	}
	require.NoError(t, cat.AddParameters(params))

	assert.Equal(t, []string{"parameters", "params:model", "params:model.depth", "params:rate"}, cat.List())

	got, err := cat.Load(ctx, "params:model.depth")
	require.NoError(t, err)
	assert.Equal(t, 3, got)

	got, err = cat.Load(ctx, "parameters")
	require.NoError(t, err)
	assert.Equal(t, params, got)
}

func TestMemoryDataset(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ds := catalog.NewMemoryDataset()

	_, err := ds.Load(ctx)
	require.ErrorIs(t, err, catalog.ErrDatasetEmpty)

	require.NoError(t, ds.Save(ctx, nil))
	exists, err := ds.Exists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)

	ds.Release()
	exists, err = ds.Exists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, map[string]any{"type": "MemoryDataset", "has_data": false}, ds.Describe())
}

type stringer struct{}

func (stringer) String() string { return "from stringer" }

func TestTextDataset(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "out.txt")
	ds := catalog.NewTextDataset(path)

	require.NoError(t, ds.Save(ctx, []byte("bytes")))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "bytes", string(content))

	require.NoError(t, ds.Save(ctx, stringer{}))
	got, err := ds.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "from stringer", got)

	require.ErrorIs(t, ds.Save(ctx, 42), catalog.ErrUnsupportedValue)
	assert.Equal(t, map[string]any{"type": "text.TextDataset", "filepath": path}, ds.Describe())
}

func TestRegisterType(t *testing.T) {
	t.Parallel()

	catalog.RegisterType("test.ConstantDataset", func(options map[string]any) (catalog.Dataset, error) {
		return catalog.NewMemoryDatasetWith(options["value"]), nil
	})
	assert.Contains(t, catalog.Types(), "test.ConstantDataset")

	cat, err := catalog.FromConfig(map[string]any{
		"c": map[string]any{"type": "test.ConstantDataset", "value": "v"},
	})
	require.NoError(t, err)

	got, err := cat.Load(context.Background(), "c")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}
