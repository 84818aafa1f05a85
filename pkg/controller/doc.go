// Package controller contains HTTP middlewares and helper handlers used by the API server.
//
// Provided middlewares:
//   - WithCORS: Adds CORS headers for the configured terminal origins and handles OPTIONS preflight.
//   - WithLogger: Attaches a request-scoped logger, request ID and terminal ID to the
//     context and logs access info.
//
// Provided helpers:
//   - Pprof: Serves the net/http/pprof endpoints under PprofPrefix.
package controller
