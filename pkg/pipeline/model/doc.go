// Package model holds the types shared by the step engine and its options:
// the step handle passed between stages, the step description seen by options,
// and the option hook interface.
package model
