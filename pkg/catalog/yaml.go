package catalog

import (
	"context"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// YAMLDataset stores any YAML-serialisable value in a file.
type YAMLDataset struct {
	path string
}

func NewYAMLDataset(path string) *YAMLDataset {
	return &YAMLDataset{path: path}
}

func newYAMLDatasetFromOptions(options map[string]any) (Dataset, error) {
	opts := fileOptions{}

	err := decodeOptions(options, &opts)
	if err != nil {
		return nil, err
	}

	err = opts.validate()
	if err != nil {
		return nil, err
	}

	return NewYAMLDataset(opts.Filepath), nil
}

func (d *YAMLDataset) Load(ctx context.Context) (any, error) {
	content, err := readFile(ctx, d.path)
	if err != nil {
		return nil, err
	}

	var data any

	err = yaml.Unmarshal(content, &data)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to parse %s", d.path)
	}

	return data, nil
}

func (d *YAMLDataset) Save(ctx context.Context, data any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	content, err := yaml.Marshal(data)
	if err != nil {
		return errors.Wrapf(err, "unable to encode %T for %s", data, d.path)
	}

	return writeFile(d.path, content)
}

func (d *YAMLDataset) Exists(_ context.Context) (bool, error) {
	return fileExists(d.path)
}

func (d *YAMLDataset) Release() {}

func (d *YAMLDataset) Describe() map[string]any {
	return map[string]any{"type": "yaml.YAMLDataset", "filepath": d.path}
}

var _ Dataset = (*YAMLDataset)(nil)
