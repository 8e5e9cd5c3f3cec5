// Package settings holds the project-wide settings read once at startup.
package settings

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"

	"github.com/askiada/go-dataproject/pkg/config"
)

// ConfigLoaderClass selects the configuration loader built by NewConfigLoader.
const ConfigLoaderClass = "TemplatedConfigLoader"

const (
	templatedConfigLoader = "TemplatedConfigLoader"
	plainConfigLoader     = "ConfigLoader"
)

// DefaultEnvFile is read by LoadEnv when no file is given.
const DefaultEnvFile = ".env"

// ErrUnknownLoaderClass is returned for a loader class NewConfigLoader cannot build.
var ErrUnknownLoaderClass = errors.New("unknown config loader class")

// ConfigLoaderArgs returns the arguments of the configuration loader. Every call returns a new map.
func ConfigLoaderArgs() map[string]any {
	return map[string]any{
		"globals_pattern": "*globals.yml",
	}
}

// LoadEnv loads the key/value pairs of the env files, DefaultEnvFile by default, into the process
// environment. Variables already set are kept. Missing files are skipped.
// It must be called once, before anything reads the environment.
func LoadEnv(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{DefaultEnvFile}
	}

	existing := make([]string, 0, len(filenames))
	for _, name := range filenames {
		_, err := os.Stat(name)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		existing = append(existing, name)
	}
	if len(existing) == 0 {
		return nil
	}

	err := godotenv.Load(existing...)
	if err != nil {
		return errors.Wrap(err, "unable to load env files")
	}

	return nil
}

// NewConfigLoader builds the loader selected by ConfigLoaderClass with ConfigLoaderArgs.
func NewConfigLoader(confSource, env string, runtimeParams map[string]any) (config.Loader, error) {
	return newConfigLoader(ConfigLoaderClass, ConfigLoaderArgs(), confSource, env, runtimeParams)
}

func newConfigLoader(class string, args map[string]any, confSource, env string, runtimeParams map[string]any) (config.Loader, error) {
	opts := config.Options{}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      &opts,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize mapstructure decoder")
	}
	err = dec.Decode(args)
	if err != nil {
		return nil, errors.Wrap(err, "invalid config loader args")
	}

	opts.Env = env
	opts.RuntimeParams = runtimeParams

	switch class {
	case templatedConfigLoader:
		return config.NewTemplatedLoader(confSource, opts)
	case plainConfigLoader:
		return config.NewConfigLoader(confSource, opts)
	default:
		return nil, errors.Wrap(ErrUnknownLoaderClass, class)
	}
}
