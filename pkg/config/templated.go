package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

const (
	DefaultBaseEnv        = "base"
	DefaultRunEnv         = "local"
	DefaultGlobalsPattern = "*globals.yml"
)

// Options configures a TemplatedLoader. Field tags match the loader arguments of the settings.
type Options struct {
	// Env is the run environment. Empty means DefaultRunEnv.
	Env           string `mapstructure:"env"`
	BaseEnv       string `mapstructure:"base_env"`
	DefaultRunEnv string `mapstructure:"default_run_env"`
	// GlobalsPattern selects the files holding template values. Empty disables globals files.
	GlobalsPattern string         `mapstructure:"globals_pattern"`
	GlobalsDict    map[string]any `mapstructure:"globals_dict"`
	// RuntimeParams override both the globals and the parameters.
	RuntimeParams map[string]any `mapstructure:"runtime_params"`
}

// TemplatedLoader merges base and run environment files and fills in ${...} placeholders.
type TemplatedLoader struct {
	confSource string
	opts       Options
	globals    map[string]any
}

// NewTemplatedLoader reads the globals once; Get renders every configuration with them.
func NewTemplatedLoader(confSource string, opts Options) (*TemplatedLoader, error) {
	info, err := os.Stat(confSource)
	if err != nil || !info.IsDir() {
		return nil, errors.Wrap(ErrConfSourceNotFound, confSource)
	}

	if opts.BaseEnv == "" {
		opts.BaseEnv = DefaultBaseEnv
	}
	if opts.DefaultRunEnv == "" {
		opts.DefaultRunEnv = DefaultRunEnv
	}
	if opts.Env == "" {
		opts.Env = opts.DefaultRunEnv
	}

	l := &TemplatedLoader{
		confSource: confSource,
		opts:       opts,
		globals:    map[string]any{},
	}

	if opts.GlobalsPattern != "" {
		globals, err := l.load([]string{opts.GlobalsPattern})
		if err != nil && !isNoConfigFiles(err) {
			return nil, errors.Wrap(err, "unable to load globals")
		}
		for k, v := range globals {
			l.globals[k] = v
		}
	}
	for k, v := range opts.GlobalsDict {
		l.globals[k] = v
	}
	for k, v := range opts.RuntimeParams {
		l.globals[k] = v
	}

	return l, nil
}

// Env returns the run environment.
func (l *TemplatedLoader) Env() string { return l.opts.Env }

// Globals returns the values available to placeholders.
func (l *TemplatedLoader) Globals() map[string]any {
	res := make(map[string]any, len(l.globals))
	for k, v := range l.globals {
		res[k] = v
	}

	return res
}

func (l *TemplatedLoader) envDirs() []string {
	dirs := []string{filepath.Join(l.confSource, l.opts.BaseEnv)}
	if l.opts.Env != l.opts.BaseEnv {
		dirs = append(dirs, filepath.Join(l.confSource, l.opts.Env))
	}

	return dirs
}

// load merges the files matching patterns, the run environment overriding the base one per
// top-level key.
func (l *TemplatedLoader) load(patterns []string) (map[string]any, error) {
	globs, err := compilePatterns(patterns)
	if err != nil {
		return nil, err
	}

	res := map[string]any{}
	found := false

	for _, dir := range l.envDirs() {
		files, err := matchFiles(dir, globs)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			continue
		}
		found = true

		content, err := loadFiles(files)
		if err != nil {
			return nil, err
		}
		for k, v := range content {
			res[k] = v
		}
	}

	if !found {
		return nil, errors.Wrapf(ErrNoConfigFiles, "patterns [%s] in %s", strings.Join(patterns, ", "), strings.Join(l.envDirs(), ", "))
	}

	return res, nil
}

// Get returns the rendered configuration matching patterns. Top-level keys starting with an
// underscore only exist to hold YAML anchors and are dropped.
func (l *TemplatedLoader) Get(patterns ...string) (map[string]any, error) {
	content, err := l.load(patterns)
	if err != nil {
		return nil, err
	}

	rendered, err := render(content, l.globals)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to render [%s]", strings.Join(patterns, ", "))
	}

	res, _ := rendered.(map[string]any)
	for k := range res {
		if strings.HasPrefix(k, "_") {
			delete(res, k)
		}
	}

	if isParameters(patterns) && len(l.opts.RuntimeParams) > 0 {
		res = deepMerge(res, l.opts.RuntimeParams)
	}

	return res, nil
}

func isParameters(patterns []string) bool {
	for _, p := range patterns {
		if strings.HasPrefix(p, "parameters") {
			return true
		}
	}

	return false
}

func deepMerge(dst, src map[string]any) map[string]any {
	for k, v := range src {
		srcMap, srcOK := v.(map[string]any)
		dstMap, dstOK := dst[k].(map[string]any)
		if srcOK && dstOK {
			dst[k] = deepMerge(dstMap, srcMap)

			continue
		}
		dst[k] = v
	}

	return dst
}

func isNoConfigFiles(err error) bool {
	return errors.Is(err, ErrNoConfigFiles)
}

var _ Loader = (*TemplatedLoader)(nil)

// NewConfigLoader returns a loader without templating globals files. Placeholders can still be
// filled from opts.GlobalsDict and opts.RuntimeParams.
func NewConfigLoader(confSource string, opts Options) (*TemplatedLoader, error) {
	opts.GlobalsPattern = ""

	return NewTemplatedLoader(confSource, opts)
}
