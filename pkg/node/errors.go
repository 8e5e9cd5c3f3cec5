package node

import "github.com/pkg/errors"

// Errors returned while building nodes and pipelines.
var (
	ErrEmptyDataset    = errors.New("dataset name must not be empty")
	ErrSelfReference   = errors.New("node uses the same dataset as input and output")
	ErrNodeOutputTwice = errors.New("node declares the same output twice")
	ErrArity           = errors.New("unexpected number of values")
	ErrInputType       = errors.New("unexpected input type")
	ErrDuplicateNode   = errors.New("duplicate node name")
	ErrDuplicateOutput = errors.New("output produced by more than one node")
	ErrCycle           = errors.New("pipeline contains a cycle")
	ErrNodeNotFound    = errors.New("node not found")
)
