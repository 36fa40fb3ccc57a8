// Package config provides the configuration for a capture run: input and
// output locations, browser settings, capture format, target site URLs,
// UI selectors and wait budgets.
//
// Values come from three layers, later layers winning: built-in defaults
// (NewConfig), an optional YAML file (.templateshot.yaml), and CLI flags.
package config
