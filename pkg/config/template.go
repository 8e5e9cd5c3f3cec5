package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// templateRegexp matches ${key} and ${key|default}.
var templateRegexp = regexp.MustCompile(`\$\{([^}|]+)(?:\|([^}]*))?\}`)

// lookup resolves a dotted key such as "a.b.c" in values.
func lookup(values map[string]any, key string) (any, bool) {
	var current any = values

	for _, part := range strings.Split(key, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}

	return current, true
}

func resolve(values map[string]any, key string, def string, hasDefault bool) (any, error) {
	key = strings.TrimSpace(key)
	if value, ok := lookup(values, key); ok {
		return value, nil
	}
	if hasDefault {
		return def, nil
	}

	return nil, errors.Wrapf(ErrTemplateValue, "${%s}", key)
}

// renderString replaces the placeholders of s. A string made of a single placeholder is replaced
// by the raw value, keeping its type; otherwise values are formatted into the string.
func renderString(s string, values map[string]any) (any, error) {
	if match := templateRegexp.FindStringSubmatchIndex(s); match != nil && match[0] == 0 && match[1] == len(s) {
		key := s[match[2]:match[3]]
		def, hasDefault := "", match[4] >= 0
		if hasDefault {
			def = s[match[4]:match[5]]
		}

		return resolve(values, key, def, hasDefault)
	}

	var firstErr error

	res := templateRegexp.ReplaceAllStringFunc(s, func(placeholder string) string {
		groups := templateRegexp.FindStringSubmatchIndex(placeholder)
		key := placeholder[groups[2]:groups[3]]
		def, hasDefault := "", groups[4] >= 0
		if hasDefault {
			def = placeholder[groups[4]:groups[5]]
		}

		value, err := resolve(values, key, def, hasDefault)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}

			return placeholder
		}

		return fmt.Sprint(value)
	})
	if firstErr != nil {
		return nil, firstErr
	}

	return res, nil
}

// render applies renderString to every string, map key included, of value.
func render(value any, values map[string]any) (any, error) {
	switch v := value.(type) {
	case string:
		return renderString(v, values)
	case map[string]any:
		res := make(map[string]any, len(v))
		for key, item := range v {
			renderedKey, err := renderString(key, values)
			if err != nil {
				return nil, err
			}
			renderedItem, err := render(item, values)
			if err != nil {
				return nil, errors.Wrapf(err, "key %s", key)
			}
			res[fmt.Sprint(renderedKey)] = renderedItem
		}

		return res, nil
	case []any:
		res := make([]any, len(v))
		for i, item := range v {
			rendered, err := render(item, values)
			if err != nil {
				return nil, errors.Wrapf(err, "index %d", i)
			}
			res[i] = rendered
		}

		return res, nil
	default:
		return value, nil
	}
}
