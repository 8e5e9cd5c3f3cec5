package node

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/pkg/errors"
)

// Func is the function run by a node. It receives one value per input dataset, in declaration
// order, and must return one value per output dataset.
type Func func(ctx context.Context, inputs []any) ([]any, error)

// Unary adapts a typed function with a single input and a single output.
// A nil input is passed as the zero value of I.
func Unary[I, O any](fn func(context.Context, I) (O, error)) Func {
	return func(ctx context.Context, inputs []any) ([]any, error) {
		if len(inputs) != 1 {
			return nil, errors.Wrapf(ErrArity, "got %d inputs, want 1", len(inputs))
		}

		var in I
		if inputs[0] != nil {
			v, ok := inputs[0].(I)
			if !ok {
				return nil, errors.Wrapf(ErrInputType, "got %T, want %T", inputs[0], in)
			}
			in = v
		}

		out, err := fn(ctx, in)
		if err != nil {
			return nil, err
		}

		return []any{out}, nil
	}
}

// Node binds a function to its input and output datasets.
type Node struct {
	name    string
	fn      Func
	inputs  []string
	outputs []string
	tags    []string
}

// Option configures a Node built with New.
type Option func(n *Node)

// WithName sets the node name. Names must be unique within a pipeline.
func WithName(name string) Option {
	return func(n *Node) {
		n.name = name
	}
}

// WithTags adds tags used to select nodes with Pipeline.OnlyNodesWithTags.
func WithTags(tags ...string) Option {
	return func(n *Node) {
		n.tags = append(n.tags, tags...)
	}
}

// New creates a node. Without WithName the node is named after its datasets.
func New(fn Func, inputs, outputs []string, opts ...Option) (*Node, error) {
	n := &Node{
		fn:      fn,
		inputs:  slices.Clone(inputs),
		outputs: slices.Clone(outputs),
	}
	for _, opt := range opts {
		opt(n)
	}

	if n.name == "" {
		n.name = fmt.Sprintf("[%s] -> [%s]", strings.Join(n.inputs, ","), strings.Join(n.outputs, ","))
	}

	err := n.validate()
	if err != nil {
		return nil, errors.Wrapf(err, "invalid node %s", n.name)
	}

	return n, nil
}

func (n *Node) validate() error {
	if n.fn == nil {
		return errors.New("function must be set")
	}

	seen := make(map[string]struct{}, len(n.outputs))
	for _, out := range n.outputs {
		if out == "" {
			return ErrEmptyDataset
		}
		if _, ok := seen[out]; ok {
			return errors.Wrap(ErrNodeOutputTwice, out)
		}
		seen[out] = struct{}{}
	}

	for _, in := range n.inputs {
		if in == "" {
			return ErrEmptyDataset
		}
		if _, ok := seen[in]; ok {
			return errors.Wrap(ErrSelfReference, in)
		}
	}

	return nil
}

func (n *Node) Name() string { return n.name }

func (n *Node) Inputs() []string { return slices.Clone(n.inputs) }

func (n *Node) Outputs() []string { return slices.Clone(n.outputs) }

func (n *Node) Tags() []string { return slices.Clone(n.tags) }

// HasTag reports whether the node carries any of tags.
func (n *Node) HasTag(tags ...string) bool {
	for _, tag := range tags {
		if slices.Contains(n.tags, tag) {
			return true
		}
	}

	return false
}

// Run calls the node function, checking the number of values on both sides.
func (n *Node) Run(ctx context.Context, inputs []any) ([]any, error) {
	if len(inputs) != len(n.inputs) {
		return nil, errors.Wrapf(ErrArity, "node %s: got %d inputs, want %d", n.name, len(inputs), len(n.inputs))
	}

	outputs, err := n.fn(ctx, inputs)
	if err != nil {
		return nil, errors.Wrapf(err, "node %s", n.name)
	}

	if len(outputs) != len(n.outputs) {
		return nil, errors.Wrapf(ErrArity, "node %s: got %d outputs, want %d", n.name, len(outputs), len(n.outputs))
	}

	return outputs, nil
}

func (n *Node) String() string {
	return fmt.Sprintf("%s: [%s] -> [%s]", n.name, strings.Join(n.inputs, ","), strings.Join(n.outputs, ","))
}
