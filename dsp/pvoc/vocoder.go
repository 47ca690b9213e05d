package pvoc

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-stretch/dsp/core"
	"github.com/cwbudde/algo-stretch/dsp/stft"
	"github.com/cwbudde/algo-stretch/stats/frequency"
)

const (
	minFrameSize = 4

	// silenceFloor scales with the frame size: a frame whose total power is
	// below (silenceFloor*size)^2 carries no usable phase information.
	silenceFloor = 1e-9

	riseEpsilon = 1e-20

	// maxRiseDB bounds the onset strength of the first frame after silence.
	maxRiseDB = 120.0
)

// FrameInfo describes one analysed frame.
type FrameInfo struct {
	// Energy is the sum of squared bin magnitudes.
	Energy float64
	// Flux is the positive spectral flux against the previous frame.
	Flux float64
	// RiseDB is the broadband onset strength: the dB growth of the summed
	// magnitude when only rising bins are counted, in [0, 120].
	RiseDB float64
	// Silent frames skip phase estimation.
	Silent bool
	// Transient is set when RiseDB exceeds the configured threshold.
	Transient bool
}

// Vocoder tracks analysis and synthesis phase for one channel.
type Vocoder struct {
	size int
	cfg  config

	omega []float64
	polar *stft.Polar
	power []float64

	freq      []float64
	prevPhase []float64
	prevMag   []float64
	prevSum   float64
	synPhase  []float64
	prevOut   []float64
	peaks     []int

	hasPrev bool
	primed  bool
}

// New returns a vocoder for frames of the given transform size.
func New(size int, opts ...Option) (*Vocoder, error) {
	if size < minFrameSize || size%2 != 0 {
		return nil, fmt.Errorf("pvoc: frame size must be even and >= %d: %d", minFrameSize, size)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	bins := size/2 + 1
	v := &Vocoder{
		size:      size,
		cfg:       cfg,
		omega:     make([]float64, bins),
		polar:     stft.NewPolar(bins),
		power:     make([]float64, bins),
		freq:      make([]float64, bins),
		prevPhase: make([]float64, bins),
		prevMag:   make([]float64, bins),
		synPhase:  make([]float64, bins),
		prevOut:   make([]float64, bins),
		peaks:     make([]int, 0, bins),
	}

	for k := range bins {
		v.omega[k] = 2 * math.Pi * float64(k) / float64(size)
	}

	copy(v.freq, v.omega)

	return v, nil
}

// Size returns the frame size.
func (v *Vocoder) Size() int { return v.size }

// Bins returns the number of half-spectrum bins.
func (v *Vocoder) Bins() int { return len(v.omega) }

// Mag returns the magnitudes of the last analysed frame.
func (v *Vocoder) Mag() []float64 { return v.polar.Mag }

// Phase returns the analysis phases of the last analysed frame.
func (v *Vocoder) Phase() []float64 { return v.polar.Phase }

// Freq returns the instantaneous frequency estimate of every bin in
// radians per sample.
func (v *Vocoder) Freq() []float64 { return v.freq }

// Analyze measures one analysis frame. hop is the distance in samples from
// the previous analysis frame; a zero hop keeps the previous frequency
// estimates.
func (v *Vocoder) Analyze(spec []complex128, hop int) FrameInfo {
	v.polar.From(spec)
	v.polar.Power(v.power)

	mag := v.polar.Mag
	phase := v.polar.Phase

	info := FrameInfo{Energy: frequency.Energy(v.power)}

	floor := silenceFloor * float64(v.size)
	if info.Energy < floor*floor {
		info.Silent = true
		v.hasPrev = false
		v.prevSum = 0
		core.Zero(v.prevMag)

		return info
	}

	info.Flux = frequency.PositiveFlux(mag, v.prevMag)
	rise := 20 * mathLog10((v.prevSum+info.Flux+riseEpsilon)/(v.prevSum+riseEpsilon))
	info.RiseDB = core.Clamp(rise, 0, maxRiseDB)
	info.Transient = v.cfg.thresholdDB > 0 && info.RiseDB > v.cfg.thresholdDB

	if v.hasPrev && hop > 0 {
		h := float64(hop)
		for k, ph := range phase {
			delta := core.WrapPhase(ph - v.prevPhase[k] - v.omega[k]*h)
			v.freq[k] = v.omega[k] + delta/h
		}
	} else if !v.hasPrev {
		// first frame after a reset or a silent stretch: restart the
		// synthesis phase from this frame
		copy(v.freq, v.omega)
		v.primed = false
	}

	copy(v.prevPhase, phase)
	copy(v.prevMag, mag)

	v.prevSum = 0
	for _, m := range mag {
		v.prevSum += m
	}

	v.hasPrev = true

	return info
}

// Synthesize builds the output spectrum for magnitudes mag, instantaneous
// frequencies freq (radians per sample) and analysis phases phase, advancing
// the synthesis phase by hop samples. With reset set, or when no phase
// history exists yet, the synthesis phase restarts from phase.
//
// mag, freq and phase are usually the vocoder's own analysis arrays or a
// frequency-remapped version of them.
func (v *Vocoder) Synthesize(dst []complex128, mag, freq, phase []float64, hop int, reset bool) {
	h := float64(hop)

	switch {
	case reset || !v.primed:
		copy(v.synPhase, phase)
		v.primed = true
	case v.cfg.peakLocking && v.findPeaks(mag) > 0:
		v.lockToPeaks(mag, freq, phase, h)
	default:
		for k, m := range mag {
			if v.burst(k, m) {
				v.synPhase[k] = phase[k]
			} else {
				v.synPhase[k] += freq[k] * h
			}
		}
	}

	for k, m := range mag {
		v.synPhase[k] = core.WrapPhase(v.synPhase[k])
		dst[k] = cmplx.Rect(m, v.synPhase[k])
	}

	copy(v.prevOut, mag)
}

// Hold marks a silent frame: the synthesis phase is carried unchanged and
// dst receives the (near-zero) magnitudes with that phase.
func (v *Vocoder) Hold(dst []complex128, mag []float64) {
	for k, m := range mag {
		dst[k] = cmplx.Rect(m, v.synPhase[k])
	}

	copy(v.prevOut, mag)
}

// Reset clears all phase history.
func (v *Vocoder) Reset() {
	copy(v.freq, v.omega)
	core.Zero(v.prevPhase)
	core.Zero(v.prevMag)
	core.Zero(v.synPhase)
	core.Zero(v.prevOut)
	core.Zero(v.polar.Mag)
	core.Zero(v.polar.Phase)

	v.prevSum = 0
	v.hasPrev = false
	v.primed = false
}

func (v *Vocoder) findPeaks(mag []float64) int {
	v.peaks = frequency.Peaks(v.peaks[:0], mag)
	return len(v.peaks)
}

// burst reports whether bin k restarts from its analysis phase because its
// power grew by more than 6 dB over the previous output frame.
func (v *Vocoder) burst(k int, m float64) bool {
	return v.cfg.perBinTransients && m > silenceFloor && m*m > binBurstRatio*v.prevOut[k]*v.prevOut[k]
}

// lockToPeaks advances every peak by its own frequency and keeps all other
// bins at their analysis phase offset from the nearest peak. A bursting
// peak restarts from its analysis phase and takes its region with it.
func (v *Vocoder) lockToPeaks(mag, freq, phase []float64, hop float64) {
	for _, pk := range v.peaks {
		if v.burst(pk, mag[pk]) {
			v.synPhase[pk] = phase[pk]
		} else {
			v.synPhase[pk] += freq[pk] * hop
		}
	}

	peakIdx := 0
	for k := range v.synPhase {
		for peakIdx+1 < len(v.peaks) && absInt(v.peaks[peakIdx+1]-k) < absInt(v.peaks[peakIdx]-k) {
			peakIdx++
		}

		pk := v.peaks[peakIdx]
		if k != pk {
			v.synPhase[k] = v.synPhase[pk] + (phase[k] - phase[pk])
		}
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}

	return x
}
