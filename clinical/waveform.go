/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package clinical

import (
	"iter"
	"math"
	"math/rand/v2"
	"time"
)

const (
	DefaultSampleRate = 250
	DefaultDuration   = 3 * time.Second
)

// wave is one deflection of the cardiac cycle, expressed as a fraction of
// the cycle and a peak amplitude in millivolts.
type wave struct {
	start, end float64
	peak       float64
}

var cycleWaves = []wave{
	{start: 0.08, end: 0.12, peak: 0.2},  // P
	{start: 0.15, end: 0.18, peak: -0.3}, // Q
	{start: 0.18, end: 0.22, peak: 1.2},  // R
	{start: 0.22, end: 0.25, peak: -0.4}, // S
	{start: 0.35, end: 0.55, peak: 0.4},  // T
}

// PhaseAmplitude returns the noise-free amplitude at a position in [0, 1)
// of the cardiac cycle. Each wave is a half-sine over its window.
func PhaseAmplitude(pos float64) float64 {
	for _, w := range cycleWaves {
		if pos >= w.start && pos <= w.end {
			phase := (pos - w.start) / (w.end - w.start)
			return w.peak * math.Sin(phase*math.Pi)
		}
	}

	return 0
}

// Waveform synthesizes an illustrative ECG trace. It is a display aid and
// carries no diagnostic meaning.
type Waveform struct {
	HeartRate  float64
	Risk       ECGRisk
	SampleRate int
	Duration   time.Duration

	// Rand supplies noise. When nil each pass draws from a fresh
	// time-seeded generator.
	Rand *rand.Rand
}

// NewSeededRand returns a deterministic generator for tests and exports.
func NewSeededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func (w Waveform) sampleRate() int {
	if w.SampleRate <= 0 {
		return DefaultSampleRate
	}

	return w.SampleRate
}

func (w Waveform) duration() time.Duration {
	if w.Duration <= 0 {
		return DefaultDuration
	}

	return w.Duration
}

// Len returns the number of samples a full pass yields.
func (w Waveform) Len() int {
	if w.HeartRate <= 0 {
		return 0
	}

	return int(w.duration().Seconds() * float64(w.sampleRate()))
}

// Samples yields Len amplitudes. The sequence can be ranged over repeatedly.
func (w Waveform) Samples() iter.Seq[float64] {
	return func(yield func(float64) bool) {
		for _, amp := range w.Points() {
			if !yield(amp) {
				return
			}
		}
	}
}

// Points yields (time in milliseconds, amplitude) pairs.
func (w Waveform) Points() iter.Seq2[float64, float64] {
	return func(yield func(float64, float64) bool) {
		n := w.Len()
		if n == 0 {
			return
		}

		rng := w.Rand
		if rng == nil {
			now := uint64(time.Now().UnixNano())
			rng = rand.New(rand.NewPCG(now, now>>1))
		}

		fs := float64(w.sampleRate())
		samplesPerCycle := fs / (w.HeartRate / 60)

		for i := range n {
			pos := math.Mod(float64(i), samplesPerCycle) / samplesPerCycle
			amp := PhaseAmplitude(pos) + (rng.Float64()-0.5)*0.02

			switch w.Risk {
			case ECGRiskCritical:
				amp *= 1.3
				if rng.Float64() < 0.1 {
					amp += (rng.Float64() - 0.5) * 0.3
				}
			case ECGRiskAbnormal:
				if rng.Float64() < 0.05 {
					amp += (rng.Float64() - 0.5) * 0.2
				}
			}

			ms := math.Round(float64(i) / fs * 1000)
			if !yield(ms, math.Round(amp*1000)/1000) {
				return
			}
		}
	}
}
