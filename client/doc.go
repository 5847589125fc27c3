// Package client implements the OpenAI-compatible API client used by every
// NodeFlow node.
//
// The client is three thin layers:
//
//   - a transport adapter: one http.Client with a fixed timeout and a static
//     bearer token
//   - a retrying executor: bounded attempts with a flat delay, where 4xx is
//     always terminal and timeouts / connection failures / 5xx are transient
//   - an operation facade: ListModels, ChatCompletion, GenerateImage,
//     GenerateVideo (plus async job polling), and GenerateSpeech
//
// Request bodies are merged from computed defaults plus caller Options with
// last-write-wins precedence; the facade performs no validation beyond that.
package client
