package config

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

func compilePatterns(patterns []string) ([]glob.Glob, error) {
	res := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, errors.Wrapf(err, "invalid pattern %q", pattern)
		}
		res = append(res, g)
	}

	return res, nil
}

func isYAML(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))

	return ext == ".yml" || ext == ".yaml"
}

// matchFiles lists the YAML files of dir matching any pattern, either on their path relative to
// dir or on their base name. Hidden files and directories are skipped. A missing dir has no files.
func matchFiles(dir string, patterns []glob.Glob) ([]string, error) {
	info, err := os.Stat(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "unable to stat %s", dir)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("%s is not a directory", dir)
	}

	files := []string{}
	err = filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != dir && strings.HasPrefix(entry.Name(), ".") {
			if entry.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}
		if entry.IsDir() || !isYAML(entry.Name()) {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		for _, g := range patterns {
			if g.Match(rel) || g.Match(entry.Name()) {
				files = append(files, path)

				return nil
			}
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "unable to walk %s", dir)
	}
	sort.Strings(files)

	return files, nil
}

func readYAML(path string) (map[string]any, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read %s", path)
	}

	var raw any

	err = yaml.Unmarshal(content, &raw)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to parse %s", path)
	}
	if raw == nil {
		return map[string]any{}, nil
	}

	res, ok := normalize(raw).(map[string]any)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidConfig, "%s holds %T", path, raw)
	}

	return res, nil
}

// normalize turns the map[any]any yaml produces for non-string keys into map[string]any.
func normalize(value any) any {
	switch v := value.(type) {
	case map[string]any:
		for k, item := range v {
			v[k] = normalize(item)
		}

		return v
	case map[any]any:
		res := make(map[string]any, len(v))
		for k, item := range v {
			res[fmt.Sprint(k)] = normalize(item)
		}

		return res
	case []any:
		for i, item := range v {
			v[i] = normalize(item)
		}

		return v
	default:
		return value
	}
}

// loadFiles merges the top-level keys of files. A key defined in two files is an error.
func loadFiles(files []string) (map[string]any, error) {
	res := map[string]any{}
	origin := map[string]string{}

	for _, path := range files {
		content, err := readYAML(path)
		if err != nil {
			return nil, err
		}

		for key, value := range content {
			if other, ok := origin[key]; ok {
				return nil, errors.Wrapf(ErrDuplicateKey, "%q in %s and %s", key, other, path)
			}
			origin[key] = path
			res[key] = value
		}
	}

	return res, nil
}
