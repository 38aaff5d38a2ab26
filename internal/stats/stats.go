// Package stats holds the summary math shared by the measurement probes.
package stats

import "math"

// Mean returns the arithmetic mean of series, or 0 for an empty series.
func Mean(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}

	sum := float64(0)
	for _, element := range series {
		sum += element
	}

	return sum / float64(len(series))
}

// SampleStdDev returns the sample standard deviation of series using the
// N-1 denominator. Series with fewer than two elements yield 0.
func SampleStdDev(series []float64) float64 {
	if len(series) < 2 {
		return 0
	}

	mean := Mean(series)

	sumSq := float64(0)
	for _, element := range series {
		diff := element - mean
		sumSq += diff * diff
	}

	return math.Sqrt(sumSq / float64(len(series)-1))
}
