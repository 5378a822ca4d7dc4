package grading

import (
	"math"
	"sort"

	"github.com/skolverk/betyg/internal/models"
)

// Summarizer computes cohort statistics over grade results. The distribution
// always buckets by the percentage bands and pass_rate is always measured
// against the fixed pass threshold, independent of the policy that produced
// the results, so cohorts graded under different policies stay comparable.
type Summarizer struct {
	buckets         []Band
	passThreshold   float64
	requireNonEmpty bool
}

type SummarizerOption func(*Summarizer)

// WithRequireNonEmpty makes Summarize fail with ErrEmptyCohort on empty
// input instead of returning the zero-count result.
func WithRequireNonEmpty() SummarizerOption {
	return func(s *Summarizer) { s.requireNonEmpty = true }
}

func NewSummarizer(buckets []Band, passThreshold float64, opts ...SummarizerOption) *Summarizer {
	sorted := make([]Band, len(buckets))
	copy(sorted, buckets)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Min > sorted[j].Min
	})
	s := &Summarizer{
		buckets:       sorted,
		passThreshold: passThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summarize derives cohort aggregates from the normalized scores. Empty
// input is legal by default: it returns Count 0 with nil aggregates rather
// than fabricating numbers. Std dev uses the population formula (divide by
// count) for determinism across cohort sizes. The input slice is not
// mutated and the result is order-independent.
func (s *Summarizer) Summarize(results []models.GradeResult) (models.CohortStatistics, error) {
	stats := models.CohortStatistics{
		Count:        len(results),
		Distribution: s.emptyDistribution(),
	}

	if len(results) == 0 {
		if s.requireNonEmpty {
			return stats, ErrEmptyCohort
		}
		return stats, nil
	}

	scores := make([]float64, len(results))
	for i := range results {
		scores[i] = results[i].NormalizedScore
	}
	sort.Float64s(scores)

	n := float64(len(scores))
	var sum float64
	for _, v := range scores {
		sum += v
	}
	mean := sum / n

	var sqDiff float64
	for _, v := range scores {
		d := v - mean
		sqDiff += d * d
	}
	stdDev := math.Sqrt(sqDiff / n)

	stats.Mean = &mean
	stats.Median = ptr(median(scores))
	stats.StdDev = &stdDev
	stats.Min = &scores[0]
	stats.Max = &scores[len(scores)-1]

	var passed int
	for _, v := range scores {
		if v >= s.passThreshold {
			passed++
		}
	}
	stats.PassRate = ptr(float64(passed) / n)

	for _, v := range scores {
		for i, band := range s.buckets {
			if v >= band.Min {
				stats.Distribution[i].Count++
				break
			}
		}
	}

	return stats, nil
}

func (s *Summarizer) emptyDistribution() []models.BucketCount {
	dist := make([]models.BucketCount, len(s.buckets))
	for i, band := range s.buckets {
		dist[i] = models.BucketCount{Label: band.Label}
	}
	return dist
}

// median expects scores sorted ascending.
func median(scores []float64) float64 {
	mid := len(scores) / 2
	if len(scores)%2 == 1 {
		return scores[mid]
	}
	return (scores[mid-1] + scores[mid]) / 2
}

func ptr(v float64) *float64 { return &v }
