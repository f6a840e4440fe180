// Package server implements the HTTP API of the orchestration service
//
// Each variant (contact, order, claim) registers its own routes, so one
// binary can serve a single variant per port or all of them at once.
// Upstream failures are mapped onto the HTTP status the upstream returned
package server
