package catalog

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

type fileOptions struct {
	Filepath string `mapstructure:"filepath"`
}

func (o fileOptions) validate() error {
	if o.Filepath == "" {
		return errors.New("filepath must be set")
	}

	return nil
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, errors.Wrapf(err, "unable to stat %s", path)
	}
}

func writeFile(path string, content []byte) error {
	err := os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		return errors.Wrapf(err, "unable to create directory for %s", path)
	}

	err = os.WriteFile(path, content, 0o600)
	if err != nil {
		return errors.Wrapf(err, "unable to write %s", path)
	}

	return nil
}

func readFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read %s", path)
	}

	return content, nil
}
