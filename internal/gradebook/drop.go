package gradebook

import (
	"fmt"
	"math"
	"sort"
)

// ScaleAndDrop divides each score by its maximum, sorts the ratios
// ascending and discards the lowest dropCount. The remainder is returned
// in ascending order. Missing scores count as zero.
func ScaleAndDrop(scores []Score, maxima []float64, dropCount int) ([]float64, error) {
	if len(scores) != len(maxima) {
		return nil, fmt.Errorf("%w: %d scores but %d maxima", ErrInvalidInput, len(scores), len(maxima))
	}
	if dropCount < 0 || dropCount >= len(scores) {
		return nil, fmt.Errorf("%w: cannot drop %d of %d scores", ErrInvalidInput, dropCount, len(scores))
	}

	ratios := make([]float64, len(scores))
	for i, s := range scores {
		if maxima[i] == 0 {
			return nil, fmt.Errorf("%w: maximum for item %d is zero", ErrInvalidInput, i+1)
		}
		ratios[i] = s.Value() / maxima[i]
		if !finite(ratios[i]) {
			return nil, fmt.Errorf("%w: score %s over maximum %g is not finite", ErrInvalidInput, s, maxima[i])
		}
	}
	sort.Float64s(ratios)

	return ratios[dropCount:], nil
}

// Average returns the arithmetic mean of values.
func Average(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("%w: nothing to average", ErrInvalidInput)
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	if !finite(mean) {
		return 0, fmt.Errorf("%w: average is not finite", ErrInvalidInput)
	}
	return mean, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// DropAverage scales and drops, then averages what remains.
func DropAverage(scores []Score, maxima []float64, dropCount int) (float64, error) {
	kept, err := ScaleAndDrop(scores, maxima, dropCount)
	if err != nil {
		return 0, err
	}
	return Average(kept)
}
