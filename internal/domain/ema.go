package domain

import "math"

// DecayAlpha converts an elapsed time and a half-life, both in seconds, into the weight given
// to a new sample. Negative elapsed time is treated as zero. A non-positive half-life means
// no memory.
func DecayAlpha(elapsed, halfLife float64) float64 {
	if halfLife <= 0 {
		return 1
	}
	if elapsed <= 0 {
		return 0
	}
	return 1 - math.Exp2(-elapsed/halfLife)
}

// DecayFactor is the fraction of an accumulated value left after elapsed seconds.
func DecayFactor(elapsed, halfLife float64) float64 {
	return 1 - DecayAlpha(elapsed, halfLife)
}

// AdaptiveAlpha scales alpha by 1+gain*|deviation|, capped at 1.
func AdaptiveAlpha(alpha, gain, deviation float64) float64 {
	if alpha <= 0 {
		return 0
	}
	if gain < 0 {
		gain = 0
	}
	scaled := alpha * (1 + gain*math.Abs(deviation))
	if math.IsNaN(scaled) || scaled > 1 {
		return 1
	}
	return scaled
}

// Deviation is the euclidean distance between two points scaled to [0,1] for in-range input.
func Deviation(a, b VAD) float64 {
	dv := a.Valence - b.Valence
	da := a.Arousal - b.Arousal
	dd := a.Dominance - b.Dominance
	return math.Sqrt(dv*dv+da*da+dd*dd) / math.Sqrt(3)
}

// Blend moves current toward sample by alpha.
func Blend(current, sample VAD, alpha float64) VAD {
	return VAD{
		Valence:   current.Valence + alpha*(sample.Valence-current.Valence),
		Arousal:   current.Arousal + alpha*(sample.Arousal-current.Arousal),
		Dominance: current.Dominance + alpha*(sample.Dominance-current.Dominance),
	}
}
