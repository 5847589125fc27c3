// Package handlers implements the host-facing HTTP routes: model listing
// backed by the TTL cache, capability filtering, cache management, and a
// connection test, all wrapped in the standard success/error envelope.
package handlers
