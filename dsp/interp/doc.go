// Package interp provides the fractional-position interpolation kernels
// used when spectral data is resampled along the frequency axis.
//
// Available methods, from cheapest to highest quality:
//
//   - [Linear2]:  2-point linear interpolation
//   - [Hermite4]: 4-point cubic Hermite
//
// [At] samples a whole slice at a fractional index with the selected [Mode].
package interp
