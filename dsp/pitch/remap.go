package pitch

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-stretch/dsp/core"
	"github.com/cwbudde/algo-stretch/dsp/interp"
	"github.com/cwbudde/algo-stretch/stats/frequency"
)

const (
	defaultRatio = 1.0

	identityEps = 1e-12
)

var (
	// ErrInvalidRatio reports a transpose ratio that is not finite and positive.
	ErrInvalidRatio = errors.New("pitch: transpose ratio must be positive and finite")
	// ErrInvalidLimit reports a negative or non-finite tonality limit.
	ErrInvalidLimit = errors.New("pitch: tonality limit must be finite and >= 0")
)

// FreqMap maps an input frequency in Hz to an output frequency in Hz.
type FreqMap func(hz float64) float64

// Remapper moves magnitude, frequency and phase data between bins of a
// half spectrum. It owns its output buffers; the slices returned by Remap
// are overwritten by the next call.
type Remapper struct {
	bins  int
	binHz float64
	toBin float64

	ratio         float64
	tonalityLimit float64
	freqMap       FreqMap
	mode          interp.Mode

	omega  []float64
	mag    []float64
	freq   []float64
	phase  []float64
	re     []float64
	im     []float64
	lobe   []float64
	weight []float64
	peaks  []int
}

// NewRemapper returns an identity remapper for frames of the given transform
// size at sampleRate.
func NewRemapper(size int, sampleRate float64) (*Remapper, error) {
	if size < 2 || size%2 != 0 {
		return nil, fmt.Errorf("pitch: frame size must be even and >= 2: %d", size)
	}

	if !core.IsFinitePositive(sampleRate) {
		return nil, fmt.Errorf("pitch: sample rate must be positive and finite: %f", sampleRate)
	}

	bins := size/2 + 1
	r := &Remapper{
		bins:   bins,
		binHz:  sampleRate / float64(size),
		toBin:  float64(size) / (2 * math.Pi),
		ratio:  defaultRatio,
		omega:  make([]float64, bins),
		mag:    make([]float64, bins),
		freq:   make([]float64, bins),
		phase:  make([]float64, bins),
		re:     make([]float64, bins),
		im:     make([]float64, bins),
		lobe:   make([]float64, bins),
		weight: make([]float64, bins),
		peaks:  make([]int, 0, bins),
	}

	for k := range bins {
		r.omega[k] = 2 * math.Pi * float64(k) / float64(size)
	}

	return r, nil
}

// Ratio returns the transpose ratio.
func (r *Remapper) Ratio() float64 { return r.ratio }

// Semitones returns the transpose ratio in semitones.
func (r *Remapper) Semitones() float64 { return core.RatioToSemitones(r.ratio) }

// TonalityLimit returns the tonality limit in Hz (0 when disabled).
func (r *Remapper) TonalityLimit() float64 { return r.tonalityLimit }

// Interpolation returns the magnitude interpolation mode.
func (r *Remapper) Interpolation() interp.Mode { return r.mode }

// SetRatio sets the transpose ratio, leaving the tonality limit unchanged.
func (r *Remapper) SetRatio(ratio float64) error {
	return r.SetTranspose(ratio, r.tonalityLimit)
}

// SetSemitones sets the transpose ratio from a pitch offset in semitones.
// Offsets whose ratio over- or underflows are rejected.
func (r *Remapper) SetSemitones(semitones float64) error {
	if !core.IsFinite(semitones) {
		return fmt.Errorf("%w: %f semitones", ErrInvalidRatio, semitones)
	}

	return r.SetRatio(core.SemitonesToRatio(semitones))
}

// SetTranspose sets the ratio and the tonality limit together. Above
// limit/sqrt(ratio) Hz frequencies are shifted by a constant offset rather
// than scaled, which keeps high-frequency detail from being stretched.
// A limit of 0 disables this. On error nothing changes.
func (r *Remapper) SetTranspose(ratio, tonalityLimitHz float64) error {
	if !core.IsFinitePositive(ratio) {
		return fmt.Errorf("%w: %f", ErrInvalidRatio, ratio)
	}

	if !core.IsFinite(tonalityLimitHz) || tonalityLimitHz < 0 {
		return fmt.Errorf("%w: %f", ErrInvalidLimit, tonalityLimitHz)
	}

	r.ratio = ratio
	r.tonalityLimit = tonalityLimitHz

	return nil
}

// SetFreqMap installs a custom frequency map that replaces the ratio and
// tonality limit. nil removes it.
func (r *Remapper) SetFreqMap(fn FreqMap) {
	r.freqMap = fn
}

// SetInterpolation selects how magnitudes are read between source bins.
func (r *Remapper) SetInterpolation(mode interp.Mode) {
	r.mode = mode
}

// Identity reports whether Remap currently passes frames through unchanged.
func (r *Remapper) Identity() bool {
	return r.freqMap == nil && core.NearlyEqual(r.ratio, 1, identityEps)
}

// MapFreq returns the output frequency for an input frequency, both in Hz.
func (r *Remapper) MapFreq(hz float64) float64 {
	if r.freqMap != nil {
		return r.freqMap(hz)
	}

	if r.tonalityLimit > 0 {
		limit := r.tonalityLimit / math.Sqrt(r.ratio)
		if hz > limit {
			return hz + (r.ratio-1)*limit
		}
	}

	return hz * r.ratio
}

// Remap transposes one frame. mag, freq (radians per sample) and phase must
// each hold one value per bin. In the identity case the inputs are returned
// as they are.
//
// Every magnitude peak owns the bins closer to it than to any other peak.
// Each such region moves as a whole, so that the peak's instantaneous
// frequency lands on its mapped frequency: the whole-bin part of the move
// carries magnitudes and phases unchanged, the fractional rest is applied
// to the magnitudes by interpolation, and every bin's frequency is offset
// by the same amount. Regions landing on the same bins add up as complex
// values; bins moved past DC or Nyquist are dropped.
func (r *Remapper) Remap(mag, freq, phase []float64) ([]float64, []float64, []float64) {
	if r.Identity() {
		return mag, freq, phase
	}

	core.Zero(r.re)
	core.Zero(r.im)
	core.Zero(r.weight)
	copy(r.freq, r.omega)

	r.peaks = frequency.Peaks(r.peaks[:0], mag)

	lo := 0
	for i, pk := range r.peaks {
		hi := r.bins - 1
		if i+1 < len(r.peaks) {
			hi = (pk + r.peaks[i+1]) / 2
		}

		r.moveRegion(mag, freq, phase, pk, lo, hi)
		lo = hi + 1
	}

	for k := range r.bins {
		r.mag[k] = math.Hypot(r.re[k], r.im[k])
		r.phase[k] = math.Atan2(r.im[k], r.re[k])
	}

	return r.mag, r.freq, r.phase
}

// moveRegion shifts bins lo..hi, the region of peak pk, into the
// accumulators.
func (r *Remapper) moveRegion(mag, freq, phase []float64, pk, lo, hi int) {
	if mag[pk] == 0 {
		return
	}

	from := core.Clamp(freq[pk]*r.toBin, float64(pk-1), float64(pk+1))

	to := r.MapFreq(from*r.binHz) / r.binHz
	if !core.IsFinite(to) || to < 0 {
		return
	}

	shift := to - from
	if math.Abs(shift) >= float64(r.bins) {
		return
	}

	whole := int(math.Round(shift))
	frac := shift - float64(whole)
	delta := shift / r.toBin

	// the interpolated lobe keeps the energy of the bins it replaces
	var exact, interpolated float64

	for k := lo; k <= hi; k++ {
		r.lobe[k] = 0

		if j := k + whole; j < 0 || j >= r.bins {
			continue
		}

		m := math.Max(0, interp.At(r.mode, mag, float64(k)-frac))
		r.lobe[k] = m
		exact += mag[k] * mag[k]
		interpolated += m * m
	}

	gain := 1.0
	if interpolated > 0 {
		gain = math.Sqrt(exact / interpolated)
	}

	for k := lo; k <= hi; k++ {
		m := r.lobe[k] * gain
		if m == 0 {
			continue
		}

		j := k + whole
		sin, cos := math.Sincos(phase[k])
		r.re[j] += m * cos
		r.im[j] += m * sin

		if m > r.weight[j] {
			r.weight[j] = m
			r.freq[j] = freq[k] + delta
		}
	}
}
