package runner

import (
	"github.com/askiada/go-dataproject/pkg/catalog"
	"github.com/askiada/go-dataproject/pkg/node"
)

// releaser frees in-memory datasets once every node reading them has run. It is not safe for
// concurrent use; the release sink calls it from a single goroutine.
type releaser struct {
	cat       *catalog.Catalog
	ephemeral map[string]struct{}
	outputs   map[string]struct{}
	remaining map[string]int
}

func newReleaser(p *node.Pipeline, cat *catalog.Catalog, ephemeral map[string]struct{}) *releaser {
	rel := &releaser{
		cat:       cat,
		ephemeral: ephemeral,
		outputs:   map[string]struct{}{},
		remaining: map[string]int{},
	}
	for _, name := range p.Outputs() {
		rel.outputs[name] = struct{}{}
	}
	for _, name := range p.Datasets() {
		rel.remaining[name] = len(p.Consumers(name))
	}

	return rel
}

func (rel *releaser) nodeDone(n *node.Node) error {
	for _, name := range n.Inputs() {
		rel.remaining[name]--
		if rel.remaining[name] > 0 {
			continue
		}
		if _, ok := rel.ephemeral[name]; !ok {
			continue
		}
		if _, ok := rel.outputs[name]; ok {
			continue
		}

		err := rel.cat.Release(name)
		if err != nil {
			return err
		}
	}

	return nil
}
