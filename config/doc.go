// Package config provides unified configuration loading for NodeFlow.
//
// Configuration is resolved in three layers, later layers overriding
// earlier ones: built-in defaults, a YAML file, then NODEFLOW_* environment
// variables. Named endpoint profiles live under the profiles key and
// inherit unset fields from the default api section.
package config
