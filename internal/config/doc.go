// Package config loads the NNE run configuration.
//
// Loading happens in two stages. A Loader decodes a file (YAML or HCL) into a
// Raw value; Load then applies NNE_* environment overrides and validates it.
// Raw may lack a delegate. Resolve turns a Raw and a delegate handle into an
// immutable Resolved, which is what the rest of the pipeline consumes.
package config
