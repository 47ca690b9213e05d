package pvoc

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-stretch/dsp/core"
	"github.com/cwbudde/algo-stretch/dsp/stft"
	"github.com/cwbudde/algo-stretch/dsp/window"
	"github.com/cwbudde/algo-stretch/internal/testutil"
)

const (
	testSize = 1024
	testSR   = 44100.0
)

type framer struct {
	an   *stft.Analyzer
	bins int
}

func newFramer(t *testing.T) framer {
	t.Helper()

	tr, err := stft.NewTransform(testSize)
	if err != nil {
		t.Fatal(err)
	}

	an, err := stft.NewAnalyzer(tr, window.Generate(window.TypeHann, testSize, window.WithPeriodic()))
	if err != nil {
		t.Fatal(err)
	}

	return framer{an: an, bins: tr.Bins()}
}

func (f framer) spectrum(t *testing.T, signal []float64, pos int) []complex128 {
	t.Helper()

	spec := make([]complex128, f.bins)
	if err := f.an.Analyze(spec, signal[pos:pos+testSize]); err != nil {
		t.Fatal(err)
	}

	return spec
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		size int
		opts []Option
	}{
		{name: "odd size", size: 1023},
		{name: "tiny size", size: 2},
		{name: "negative threshold", size: 64, opts: []Option{WithTransientThreshold(-1)}},
		{name: "nan threshold", size: 64, opts: []Option{WithTransientThreshold(math.NaN())}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.size, tt.opts...); err == nil {
				t.Fatal("expected error")
			}
		})
	}

	v, err := New(64, nil, WithPeakLocking(false))
	if err != nil {
		t.Fatal(err)
	}

	if v.Size() != 64 || v.Bins() != 33 {
		t.Fatalf("size=%d bins=%d", v.Size(), v.Bins())
	}
}

func TestInstantaneousFrequency(t *testing.T) {
	const (
		hz  = 1234.5
		hop = 256
	)

	f := newFramer(t)
	sig := testutil.DeterministicSine(hz, testSR, 0.5, testSize+4*hop)

	v, _ := New(testSize)
	for m := range 4 {
		v.Analyze(f.spectrum(t, sig, m*hop), hop)
	}

	peak := 0
	for k, m := range v.Mag() {
		if m > v.Mag()[peak] {
			peak = k
		}
	}

	want := 2 * math.Pi * hz / testSR
	for _, k := range []int{peak - 1, peak, peak + 1} {
		if got := v.Freq()[k]; math.Abs(got-want) > 1e-4 {
			t.Fatalf("bin %d: freq %v, want %v", k, got, want)
		}
	}
}

func TestIdentityHopReproducesAnalysisPhase(t *testing.T) {
	const hop = 256

	for _, locking := range []bool{false, true} {
		f := newFramer(t)
		sig := testutil.Sum(
			testutil.DeterministicSine(440, testSR, 0.4, testSize+8*hop),
			testutil.DeterministicSine(3100, testSR, 0.2, testSize+8*hop),
			testutil.DeterministicNoise(3, 0.01, testSize+8*hop),
		)

		v, _ := New(testSize, WithPeakLocking(locking), WithTransientThreshold(0))
		out := make([]complex128, f.bins)

		for m := range 8 {
			spec := f.spectrum(t, sig, m*hop)
			info := v.Analyze(spec, hop)

			if info.Silent || info.Transient {
				t.Fatalf("frame %d unexpectedly silent/transient: %+v", m, info)
			}

			v.Synthesize(out, v.Mag(), v.Freq(), v.Phase(), hop, false)

			for k := range spec {
				if cmplx.Abs(out[k]-spec[k]) > 1e-6*(1+cmplx.Abs(spec[k])) {
					t.Fatalf("locking=%v frame %d bin %d: %v != %v", locking, m, k, out[k], spec[k])
				}
			}
		}
	}
}

func TestSynthesisHopScalesPhaseAdvance(t *testing.T) {
	const (
		hz = 2000.0
		ha = 128
		hs = 256
	)

	f := newFramer(t)
	sig := testutil.DeterministicSine(hz, testSR, 0.5, testSize+4*ha)

	v, _ := New(testSize, WithPeakLocking(false))
	out := make([]complex128, f.bins)
	peak := int(math.Round(hz / testSR * testSize))

	var phases []float64
	for m := range 4 {
		v.Analyze(f.spectrum(t, sig, m*ha), ha)
		v.Synthesize(out, v.Mag(), v.Freq(), v.Phase(), hs, false)
		phases = append(phases, cmplx.Phase(out[peak]))
	}

	want := core.WrapPhase(2 * math.Pi * hz / testSR * hs)
	for m := 2; m < len(phases); m++ {
		got := core.WrapPhase(phases[m] - phases[m-1])
		if math.Abs(core.WrapPhase(got-want)) > 1e-3 {
			t.Fatalf("frame %d: advance %v, want %v", m, got, want)
		}
	}
}

func TestSilentFrameHoldsPhase(t *testing.T) {
	f := newFramer(t)
	sig := testutil.DeterministicSine(700, testSR, 0.5, 2*testSize)

	v, _ := New(testSize)
	out := make([]complex128, f.bins)

	v.Analyze(f.spectrum(t, sig, 0), 0)
	v.Synthesize(out, v.Mag(), v.Freq(), v.Phase(), 256, false)

	held := append([]float64(nil), v.synPhase...)

	info := v.Analyze(make([]complex128, f.bins), 256)
	if !info.Silent || info.Transient {
		t.Fatalf("zero frame info = %+v", info)
	}

	v.Hold(out, v.Mag())

	for k, c := range out {
		if c != 0 {
			t.Fatalf("silent output bin %d = %v", k, c)
		}
	}

	testutil.RequireSliceNearlyEqual(t, v.synPhase, held, 0)

	// the next audible frame is an onset and restarts from analysis phase
	spec := f.spectrum(t, sig, 512)
	if info := v.Analyze(spec, 256); !info.Transient {
		t.Fatalf("onset after silence not flagged: %+v", info)
	}

	v.Synthesize(out, v.Mag(), v.Freq(), v.Phase(), 256, false)

	for k := range spec {
		if cmplx.Abs(out[k]-spec[k]) > 1e-9*(1+cmplx.Abs(spec[k])) {
			t.Fatalf("bin %d not reseeded", k)
		}
	}
}

func TestTransientDetection(t *testing.T) {
	f := newFramer(t)

	quiet := testutil.DeterministicSine(500, testSR, 0.01, testSize)
	loud := testutil.Sum(
		testutil.DeterministicSine(500, testSR, 0.01, testSize),
		testutil.DeterministicNoise(9, 0.8, testSize),
	)

	v, _ := New(testSize)

	if info := v.Analyze(f.spectrum(t, quiet, 0), 0); info.Silent {
		t.Fatal("quiet frame classified as silent")
	}

	if info := v.Analyze(f.spectrum(t, quiet, 0), 256); info.Transient || info.RiseDB > 1 {
		t.Fatalf("stationary frame flagged: %+v", info)
	}

	info := v.Analyze(f.spectrum(t, loud, 0), 256)
	if !info.Transient || info.RiseDB < 20 || info.Flux <= 0 {
		t.Fatalf("burst not flagged: %+v", info)
	}

	off, _ := New(testSize, WithTransientThreshold(0))
	off.Analyze(f.spectrum(t, quiet, 0), 0)

	if info := off.Analyze(f.spectrum(t, loud, 0), 256); info.Transient {
		t.Fatal("threshold 0 should disable detection")
	}
}

func TestRiseDBTracksMagnitudeGrowth(t *testing.T) {
	f := newFramer(t)
	base := testutil.DeterministicSine(700, testSR, 0.1, testSize)

	tests := []struct {
		scale float64
		want  float64
	}{
		{scale: 1, want: 0},
		{scale: 2, want: 20 * math.Log10(2)},
		{scale: 10, want: 20},
		{scale: 0.5, want: 0},
	}

	for _, tt := range tests {
		v, _ := New(testSize)
		v.Analyze(f.spectrum(t, base, 0), 0)

		scaled := make([]float64, testSize)
		for i, x := range base {
			scaled[i] = tt.scale * x
		}

		if info := v.Analyze(f.spectrum(t, scaled, 0), 256); math.Abs(info.RiseDB-tt.want) > 1e-6 {
			t.Fatalf("scale %v: RiseDB = %v, want %v", tt.scale, info.RiseDB, tt.want)
		}
	}
}

func TestPerBinTransientResetsBurstBins(t *testing.T) {
	f := newFramer(t)
	sig := testutil.DeterministicSine(1000, testSR, 0.5, testSize+256)

	v, _ := New(testSize, WithPerBinTransients(true), WithPeakLocking(false))
	out := make([]complex128, f.bins)

	v.Analyze(f.spectrum(t, sig, 0), 0)
	v.Synthesize(out, v.Mag(), v.Freq(), v.Phase(), 512, false)

	spec := f.spectrum(t, sig, 256)
	v.Analyze(spec, 256)

	// bin 200 gains energy it did not have in the previous frame
	mag := append([]float64(nil), v.Mag()...)
	phase := append([]float64(nil), v.Phase()...)
	mag[200] = 1
	phase[200] = 0.75

	v.Synthesize(out, mag, v.Freq(), phase, 512, false)

	if got := cmplx.Phase(out[200]); math.Abs(got-0.75) > 1e-12 {
		t.Fatalf("burst bin phase = %v, want 0.75", got)
	}
}

func TestPerBinTransientMovesLockedRegion(t *testing.T) {
	f := newFramer(t)
	sig := testutil.DeterministicSine(1000, testSR, 0.5, testSize+256)

	v, _ := New(testSize, WithPerBinTransients(true))
	out := make([]complex128, f.bins)

	v.Analyze(f.spectrum(t, sig, 0), 0)
	v.Synthesize(out, v.Mag(), v.Freq(), v.Phase(), 512, false)

	v.Analyze(f.spectrum(t, sig, 256), 256)

	mag := append([]float64(nil), v.Mag()...)
	phase := v.Phase()

	pk := 0
	for k, m := range mag {
		if m > mag[pk] {
			pk = k
		}
	}

	// the whole main lobe jumps by 12 dB
	for k := pk - 1; k <= pk+1; k++ {
		mag[k] *= 4
	}

	v.Synthesize(out, mag, v.Freq(), phase, 512, false)

	for _, k := range []int{pk - 1, pk, pk + 1} {
		if d := core.WrapPhase(cmplx.Phase(out[k]) - phase[k]); math.Abs(d) > 1e-9 {
			t.Fatalf("bin %d phase off by %v after a locked burst", k, d)
		}
	}
}

func TestReset(t *testing.T) {
	f := newFramer(t)
	sig := testutil.DeterministicNoise(5, 0.5, testSize)

	v, _ := New(testSize)
	out := make([]complex128, f.bins)

	v.Analyze(f.spectrum(t, sig, 0), 0)
	v.Synthesize(out, v.Mag(), v.Freq(), v.Phase(), 256, false)
	v.Reset()

	if v.primed || v.hasPrev || v.prevSum != 0 {
		t.Fatal("Reset left history behind")
	}

	for k, w := range v.Freq() {
		if w != v.omega[k] {
			t.Fatalf("freq[%d] not restored", k)
		}
	}
}

func BenchmarkAnalyzeSynthesize(b *testing.B) {
	tr, _ := stft.NewTransform(4096)
	an, _ := stft.NewAnalyzer(tr, window.Generate(window.TypeHann, 4096, window.WithPeriodic()))
	spec := make([]complex128, tr.Bins())
	out := make([]complex128, tr.Bins())
	_ = an.Analyze(spec, testutil.DeterministicNoise(1, 0.5, 4096))

	v, _ := New(4096)

	b.ReportAllocs()
	for range b.N {
		v.Analyze(spec, 1024)
		v.Synthesize(out, v.Mag(), v.Freq(), v.Phase(), 1024, false)
	}
}
