// Package node describes data pipelines declaratively.
//
// A Node binds a function to named input and output datasets. A Pipeline is a set of nodes whose
// execution order follows from the data: a node that consumes a dataset runs after the node that
// produces it. Pipelines only describe work; the runner package executes them against a catalog.
package node
