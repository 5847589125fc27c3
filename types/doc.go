// Package types provides shared type definitions for the NodeFlow plugin.
//
// It is the lowest-level package and depends on nothing internal, so the
// client, cache, node, and handler layers can all share one structured
// error contract without import cycles.
//
//   - Error / ErrorCode — structured errors with HTTP status, Retryable flag,
//     and originating endpoint
//   - IsRetryable / GetErrorCode — helpers used by the retry loop and the
//     HTTP handlers
package types
