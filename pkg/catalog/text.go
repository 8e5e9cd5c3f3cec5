package catalog

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// TextDataset stores a string in a file.
type TextDataset struct {
	path string
}

func NewTextDataset(path string) *TextDataset {
	return &TextDataset{path: path}
}

func newTextDatasetFromOptions(options map[string]any) (Dataset, error) {
	opts := fileOptions{}

	err := decodeOptions(options, &opts)
	if err != nil {
		return nil, err
	}

	err = opts.validate()
	if err != nil {
		return nil, err
	}

	return NewTextDataset(opts.Filepath), nil
}

// Load returns the file content as a string.
func (d *TextDataset) Load(ctx context.Context) (any, error) {
	content, err := readFile(ctx, d.path)
	if err != nil {
		return nil, err
	}

	return string(content), nil
}

// Save accepts strings, byte slices and fmt.Stringer values.
func (d *TextDataset) Save(ctx context.Context, data any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var content []byte
	switch v := data.(type) {
	case string:
		content = []byte(v)
	case []byte:
		content = v
	case fmt.Stringer:
		content = []byte(v.String())
	default:
		return errors.Wrapf(ErrUnsupportedValue, "text dataset %s cannot save %T", d.path, data)
	}

	return writeFile(d.path, content)
}

func (d *TextDataset) Exists(_ context.Context) (bool, error) {
	return fileExists(d.path)
}

func (d *TextDataset) Release() {}

func (d *TextDataset) Describe() map[string]any {
	return map[string]any{"type": "text.TextDataset", "filepath": d.path}
}

var _ Dataset = (*TextDataset)(nil)
