// Package nsapi is a small client for the NationStates API: the read-only
// shards the NNE pipeline needs (region delegate, World Assembly members,
// endorsements) and the two-phase private command used to add a dispatch.
//
// Every response is XML. Reads are unauthenticated GETs; the dispatch command
// is a form POST authenticated by X-Password on the prepare phase and by the
// X-Pin session header plus a single-use token on the execute phase.
package nsapi
