// Package orchestrate exposes small HTTP endpoints that chain calls to
// upstream REST services and return a merged JSON payload
package orchestrate

// Name is the service name reported in logs and health responses
const Name = "orchestrate"

// Version is overridden at build time with -ldflags
var Version = "dev"
