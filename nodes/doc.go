// Package nodes adapts the generative endpoints to the host's node-graph
// contract.
//
// Every node translates its input fields into one operation facade call
// and converts the result into host-native outputs. The failure contract
// is fail-soft throughout: a node never returns a Go error to the graph.
// Instead it fills its error output with a readable message and its data
// outputs with placeholders (blank image, silent clip, empty string), so
// one failed generation does not abort the whole graph run.
package nodes
