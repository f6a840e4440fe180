// Package api defines the request and response types exchanged with callers
// of the orchestration endpoints
//
// This package contains the inbound request bodies, the merged response
// payloads of each flow, and the shared HTTP error and health messages
package api
