// Package server exposes the chart pipeline over HTTP.
//
// Routes:
//
//	POST /v1/render    chart or collection document in, one rendered artifact out
//	POST /v1/layout    chart or collection document in, layout JSON and per-chart status out
//	POST /v1/validate  per-chart validation report
//	GET  /healthz      liveness and build information
//	GET  /metrics      Prometheus metrics
//
// The request body is JSON unless the Content-Type names YAML or TOML, or the
// "input" query parameter says otherwise. Documents must inline their charts;
// path references are rejected because the server has no document directory.
//
// Errors are JSON objects carrying the error code, the message and the
// request id. Input errors (schema violations, dangling references, bad
// styles) map to 422, malformed requests to 400, everything else to 500.
package server
