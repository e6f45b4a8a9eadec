// Package app contains the NNE pipeline: load configuration, resolve the
// delegate, compute the nations not endorsing it and publish the report. It
// is decoupled from any specific entrypoint like a CLI.
package app
