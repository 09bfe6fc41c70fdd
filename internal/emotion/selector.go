package emotion

import (
	"errors"
	"math"
)

// ErrEmptyRanking is returned when the selector receives no scores. The
// gateway contract guarantees one entry per taxonomy label, so this is a
// caller bug rather than a runtime condition.
var ErrEmptyRanking = errors.New("ranked scores must not be empty")

// Selector reduces a ranked score list to the bounded set of detected
// categories. The threshold is relative to the best match: a secondary
// emotion qualifies only when its score is at least Ratio of the top score.
// This tolerates calibration drift between texts that produce a dominant
// 0.95 top score and texts whose best match is a muddy 0.4.
type Selector struct {
	// Ratio is the relative threshold in (0, 1]. At 1.0 only exact
	// co-maxima pass.
	Ratio float64
	// MaxEmotions caps the number of detections returned.
	MaxEmotions int
}

// DefaultSelector returns a selector with the documented defaults: a
// secondary emotion must reach 90% of the primary score, at most 3 returned.
func DefaultSelector() Selector {
	return Selector{Ratio: 0.90, MaxEmotions: 3}
}

// Select walks the ranked scores in order and keeps every entry at or above
// the relative cutoff until MaxEmotions entries are kept. The input must be
// sorted descending by score. The result always contains the top-ranked
// label first and is never empty.
//
// Threshold comparison uses the raw scores; confidences in the result are
// rounded to 2 decimals for presentation only.
func (s Selector) Select(ranked []Score) ([]Detection, error) {
	if len(ranked) == 0 {
		return nil, ErrEmptyRanking
	}

	cutoff := ranked[0].Score * s.Ratio

	detected := make([]Detection, 0, s.MaxEmotions)
	for _, entry := range ranked {
		if len(detected) >= s.MaxEmotions {
			break
		}
		if entry.Score >= cutoff {
			detected = append(detected, Detection{
				Name:       entry.Label,
				Confidence: Round2(entry.Score),
			})
		}
	}

	// The top entry always satisfies its own cutoff when Ratio <= 1, but
	// guard against a misconfigured ratio anyway.
	if len(detected) == 0 {
		detected = append(detected, Detection{
			Name:       ranked[0].Label,
			Confidence: Round2(ranked[0].Score),
		})
	}

	return detected, nil
}

// Round2 rounds a confidence to 2 decimal places
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
