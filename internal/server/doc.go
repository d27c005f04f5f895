// Package server exposes the analyzer over HTTP with gin.
//
// Routes:
//
//	GET  /              form dashboard
//	GET  /healthz       liveness probe
//	POST /api/analyze   {"url": "..."} returns the JSON report
//	GET  /report        ?url=...&format=html|pdf|markdown|json|text
//
// Each request runs its own pipeline. Reports of failed analyses are still
// rendered, with status 502 so API clients can tell them apart.
package server
