package node

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
)

// Pipeline is an immutable set of nodes. Nodes keep their declaration order; the execution order
// is derived from the datasets they share.
type Pipeline struct {
	nodes     []*Node
	byName    map[string]*Node
	producers map[string]*Node
	consumers map[string][]*Node
	groups    [][]*Node
}

// NewPipeline checks that node names and outputs are unique and that the dependencies between
// nodes form a DAG.
func NewPipeline(nodes ...*Node) (*Pipeline, error) {
	pipe := &Pipeline{
		byName:    make(map[string]*Node, len(nodes)),
		producers: make(map[string]*Node),
		consumers: make(map[string][]*Node),
	}

	for _, n := range nodes {
		if n == nil {
			return nil, errors.New("node must be set")
		}
		if _, ok := pipe.byName[n.name]; ok {
			return nil, errors.Wrap(ErrDuplicateNode, n.name)
		}
		pipe.byName[n.name] = n
		pipe.nodes = append(pipe.nodes, n)

		for _, out := range n.outputs {
			if other, ok := pipe.producers[out]; ok {
				return nil, errors.Wrapf(ErrDuplicateOutput, "%s is produced by %s and %s", out, other.name, n.name)
			}
			pipe.producers[out] = n
		}
		for _, in := range n.inputs {
			pipe.consumers[in] = append(pipe.consumers[in], n)
		}
	}

	groups, err := pipe.group()
	if err != nil {
		return nil, err
	}
	pipe.groups = groups

	return pipe, nil
}

// MustPipeline is like NewPipeline but panics on error. It is meant for descriptors built from
// static declarations.
func MustPipeline(nodes ...*Node) *Pipeline {
	pipe, err := NewPipeline(nodes...)
	if err != nil {
		panic(err)
	}

	return pipe
}

func nodeHash(n *Node) string { return n.name }

// dependencyGraph links every producer to the consumers of its outputs.
func (p *Pipeline) dependencyGraph() (graph.Graph[string, *Node], error) {
	g := graph.New(nodeHash, graph.Directed(), graph.PreventCycles())

	for _, n := range p.nodes {
		err := g.AddVertex(n)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to add node %s", n.name)
		}
	}

	for _, n := range p.nodes {
		for _, in := range n.inputs {
			producer, ok := p.producers[in]
			if !ok {
				continue
			}

			err := g.AddEdge(producer.name, n.name)
			switch {
			case err == nil, errors.Is(err, graph.ErrEdgeAlreadyExists):
			case errors.Is(err, graph.ErrEdgeCreatesCycle):
				return nil, errors.Wrapf(ErrCycle, "%s -> %s through %s", producer.name, n.name, in)
			default:
				return nil, errors.Wrapf(err, "unable to link %s to %s", producer.name, n.name)
			}
		}
	}

	return g, nil
}

// group splits the nodes into generations: a node only depends on nodes of earlier generations.
func (p *Pipeline) group() ([][]*Node, error) {
	g, err := p.dependencyGraph()
	if err != nil {
		return nil, err
	}

	predecessors, err := g.PredecessorMap()
	if err != nil {
		return nil, errors.Wrap(err, "unable to get predecessors")
	}

	remaining := make(map[string]int, len(predecessors))
	for name, parents := range predecessors {
		remaining[name] = len(parents)
	}

	adjacency, err := g.AdjacencyMap()
	if err != nil {
		return nil, errors.Wrap(err, "unable to get adjacency map")
	}

	groups := [][]*Node{}
	for len(remaining) > 0 {
		current := []string{}
		for name, count := range remaining {
			if count == 0 {
				current = append(current, name)
			}
		}
		if len(current) == 0 {
			return nil, ErrCycle
		}
		sort.Strings(current)

		group := make([]*Node, len(current))
		for i, name := range current {
			group[i] = p.byName[name]
			delete(remaining, name)
		}
		for _, name := range current {
			for child := range adjacency[name] {
				remaining[child]--
			}
		}
		groups = append(groups, group)
	}

	return groups, nil
}

// Nodes returns the nodes in declaration order.
func (p *Pipeline) Nodes() []*Node {
	return slices.Clone(p.nodes)
}

// Node returns the node called name.
func (p *Pipeline) Node(name string) (*Node, bool) {
	n, ok := p.byName[name]

	return n, ok
}

// Grouped returns the nodes by generation, each generation sorted by name.
func (p *Pipeline) Grouped() [][]*Node {
	res := make([][]*Node, len(p.groups))
	for i, group := range p.groups {
		res[i] = slices.Clone(group)
	}

	return res
}

// TopologicalNodes returns the generations flattened.
func (p *Pipeline) TopologicalNodes() []*Node {
	res := make([]*Node, 0, len(p.nodes))
	for _, group := range p.groups {
		res = append(res, group...)
	}

	return res
}

// Inputs returns the datasets consumed but not produced by the pipeline.
func (p *Pipeline) Inputs() []string {
	res := []string{}
	for name := range p.consumers {
		if _, ok := p.producers[name]; !ok {
			res = append(res, name)
		}
	}
	sort.Strings(res)

	return res
}

// Outputs returns the datasets produced but not consumed by the pipeline.
func (p *Pipeline) Outputs() []string {
	res := []string{}
	for name := range p.producers {
		if _, ok := p.consumers[name]; !ok {
			res = append(res, name)
		}
	}
	sort.Strings(res)

	return res
}

// Datasets returns every dataset used by the pipeline.
func (p *Pipeline) Datasets() []string {
	seen := make(map[string]struct{}, len(p.producers)+len(p.consumers))
	for name := range p.producers {
		seen[name] = struct{}{}
	}
	for name := range p.consumers {
		seen[name] = struct{}{}
	}

	res := make([]string, 0, len(seen))
	for name := range seen {
		res = append(res, name)
	}
	sort.Strings(res)

	return res
}

// Consumers returns the names of the nodes reading dataset.
func (p *Pipeline) Consumers(dataset string) []string {
	res := make([]string, 0, len(p.consumers[dataset]))
	for _, n := range p.consumers[dataset] {
		res = append(res, n.name)
	}

	return res
}

// OnlyNodes returns a pipeline with the named nodes only.
func (p *Pipeline) OnlyNodes(names ...string) (*Pipeline, error) {
	keep := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, ok := p.byName[name]; !ok {
			return nil, errors.Wrap(ErrNodeNotFound, name)
		}
		keep[name] = struct{}{}
	}

	return p.filter(func(n *Node) bool {
		_, ok := keep[n.name]

		return ok
	})
}

// OnlyNodesWithTags returns a pipeline with the nodes carrying any of tags.
func (p *Pipeline) OnlyNodesWithTags(tags ...string) (*Pipeline, error) {
	return p.filter(func(n *Node) bool {
		return n.HasTag(tags...)
	})
}

func (p *Pipeline) filter(keep func(n *Node) bool) (*Pipeline, error) {
	nodes := []*Node{}
	for _, n := range p.nodes {
		if keep(n) {
			nodes = append(nodes, n)
		}
	}

	return NewPipeline(nodes...)
}

// Add returns the union of p and other. A node present in both is kept once.
func (p *Pipeline) Add(other *Pipeline) (*Pipeline, error) {
	nodes := slices.Clone(p.nodes)
	for _, n := range other.nodes {
		if existing, ok := p.byName[n.name]; ok && existing == n {
			continue
		}
		nodes = append(nodes, n)
	}

	return NewPipeline(nodes...)
}

// Describe lists the nodes by generation.
func (p *Pipeline) Describe() string {
	sb := &strings.Builder{}
	for i, group := range p.groups {
		fmt.Fprintf(sb, "generation %d:\n", i+1)
		for _, n := range group {
			fmt.Fprintf(sb, "  %s\n", n)
		}
	}
	fmt.Fprintf(sb, "inputs: [%s]\n", strings.Join(p.Inputs(), ","))
	fmt.Fprintf(sb, "outputs: [%s]\n", strings.Join(p.Outputs(), ","))

	return sb.String()
}
