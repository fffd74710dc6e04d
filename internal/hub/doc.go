// Package hub implements the TuneHub protocol layer: fetching and caching
// per-(platform, operation) method descriptors, executing the requests they
// describe, and calling the fixed /v1/parse endpoint for audio resolution.
package hub
