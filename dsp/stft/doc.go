// Package stft implements the framing and spectral transform stage of the
// phase vocoder: windowed real forward transforms, inverse transforms with
// a synthesis window, and magnitude/phase conversion of half spectra.
//
// Spectra are half spectra of Size()/2+1 bins. Inverse transforms are
// normalized, so Inverse(Forward(x)) == x.
package stft
