// Package orchestrator implements the request flows of the service
//
// Each flow runs a strictly ordered sequence of stages. A stage either calls
// an upstream service, inspects the previous result, or merges fields into
// the response. The first stage that fails ends the flow with an error and
// no partial response; a business rejection ends it early with a normal
// response. Stages already performed upstream are never compensated
package orchestrator
