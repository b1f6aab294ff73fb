// Package http implements the HTTP handlers of the analysis service.
// Handlers stay thin: they decode and validate the request, call a service
// and render the result. Every failure is written as an RFC 7807 problem
// document through errors.ErrorHandler.
//
// # Routes
//
//	POST /api/v1/analyses   run the pipeline on a dataset file
//	GET  /api/v1/datasets   dataset files available for analysis (?match=glob)
//	GET  /api/health        directory and runtime health
//	GET  /metrics           Prometheus exposition (when metrics are enabled)
//
// # Request Flow
//
//	HTTP Request → Chi Router → Middleware → Handler → Service
//	                                            ↓
//	HTTP Response ← Handler ← Service Response ←┘
//
// Services are accepted as small interfaces so handlers can be tested with
// fakes and httptest.
package http
