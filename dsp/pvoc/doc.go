// Package pvoc implements the per-channel phase-vocoder core: it tracks the
// phase of every frequency bin across analysis frames, estimates each bin's
// instantaneous frequency, and propagates a synthesis phase trajectory with
// an independent (synthesis) hop.
//
// Transients are handled by resetting synthesis phases to the analysis
// phases of the onset frame. Identity phase locking (Laroche & Dolson 1999)
// keeps bins around each magnitude peak coherent with the peak.
//
// A Vocoder is not safe for concurrent use.
package pvoc
