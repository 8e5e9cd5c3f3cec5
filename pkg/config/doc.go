// Package config reads the YAML configuration of a project.
//
// Configuration lives under a conf source directory with one sub-directory per environment:
// a base environment holding the defaults and a run environment whose top-level keys override
// them. The templated loader additionally substitutes ${...} placeholders with values read from
// "globals" files.
package config
