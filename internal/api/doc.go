// Package api implements the JSON HTTP surface of the query router.
//
// Routes:
//
//	GET  /health        liveness probe
//	GET  /ready         readiness probe (checks database connectivity)
//	POST /api/v1/query  routed retrieval over the knowledge bases
//
// The middleware stack (outermost first) is Recovery → RequestID → Logging →
// RateLimit → Routes. Health probes bypass the stack so orchestrator checks
// are never rate limited.
package api
