package core

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	clear(buf)
}

// Scale multiplies every value in buf by gain in place.
func Scale(buf []float64, gain float64) {
	for i := range buf {
		buf[i] *= gain
	}
}
