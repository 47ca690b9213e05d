// Package pitch transposes phase-vocoder frames by moving spectral energy
// between frequency bins.
//
// A [Remapper] applies either a plain transpose ratio, a ratio with a
// tonality limit (frequencies above the limit move by a constant offset
// instead of being scaled), or an arbitrary frequency map. Each magnitude
// peak is moved together with the bins around it, so a partial keeps its
// lobe shape, phase pattern and energy at any ratio. Frame length and hop
// are never changed; only the frequencies present in a frame are.
package pitch
