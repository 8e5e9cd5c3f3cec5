package config

// Loader returns the merged configuration matching a set of file patterns.
type Loader interface {
	Get(patterns ...string) (map[string]any, error)
}

// File patterns of the catalog and parameters configuration.
var (
	CatalogPatterns    = []string{"catalog*", "catalog*/**"}
	ParametersPatterns = []string{"parameters*", "parameters*/**"}
)

// Catalog returns the catalog configuration of l.
func Catalog(l Loader) (map[string]any, error) {
	return l.Get(CatalogPatterns...)
}

// Parameters returns the parameters of l. A project without parameter files has no parameters.
func Parameters(l Loader) (map[string]any, error) {
	params, err := l.Get(ParametersPatterns...)
	if err != nil {
		if isNoConfigFiles(err) {
			return map[string]any{}, nil
		}

		return nil, err
	}

	return params, nil
}
