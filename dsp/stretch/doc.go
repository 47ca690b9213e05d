// Package stretch implements a streaming phase-vocoder time stretcher and
// pitch shifter.
//
// A Stretcher session accepts audio in chunks of any size, changes its
// duration by a time factor (output length = input length / factor) and
// transposes it by a ratio, a semitone offset or a custom frequency map,
// independently of each other. Input and output are planar: one []float64
// per channel.
//
//	s, err := stretch.New(stretch.WithStyle(stretch.StyleVocal))
//	if err != nil { ... }
//	_ = s.SetTimeFactor(0.8)       // 25% longer
//	_ = s.SetTransposeSemitones(-2)
//	out, err := s.Process(chunk)   // repeat per chunk
//	tail, err := s.Flush()
//
// Sessions are configured from a Style preset or an explicit Config and
// can be tuned through STRETCH_* environment variables (see EnvOverrides).
// Diagnostics go to a charmbracelet/log logger, silent unless one is
// supplied with WithLogger.
package stretch
