// Package modelcache caches the model lists advertised by configured
// endpoints so that opening a node's model dropdown does not hit the
// network every time.
//
// Snapshots are keyed by profile name and persisted through a pluggable
// Store (single JSON file by default, Redis for shared deployments). The
// cache trades freshness for availability: expired snapshots are served
// when the upstream is down, and a total miss yields an empty list rather
// than an error.
//
// The package also hosts the capability filter, a keyword heuristic that
// narrows a model list to the family a node cares about (text, image,
// video, ...).
package modelcache
