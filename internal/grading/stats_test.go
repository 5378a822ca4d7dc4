package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skolverk/betyg/internal/models"
)

func resultsFromScores(scores ...float64) []models.GradeResult {
	results := make([]models.GradeResult, len(scores))
	for i, s := range scores {
		results[i] = models.GradeResult{
			StudentID:       "s",
			Subject:         "Math",
			NormalizedScore: s,
			PolicyID:        PolicyPercentage,
		}
	}
	return results
}

func TestSummarizer_ReferenceExample(t *testing.T) {
	summarizer := NewSummarizer(DefaultPercentageBands, DefaultPassThreshold)

	// the two-student sample: 45/50 and 25/50
	stats, err := summarizer.Summarize(resultsFromScores(0.90, 0.50))
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Count)
	require.NotNil(t, stats.Mean)
	assert.InDelta(t, 0.70, *stats.Mean, 1e-9)
	require.NotNil(t, stats.PassRate)
	// both scores sit at or above the 0.5 threshold
	assert.InDelta(t, 1.0, *stats.PassRate, 1e-9)
}

func TestSummarizer_Aggregates(t *testing.T) {
	summarizer := NewSummarizer(DefaultPercentageBands, DefaultPassThreshold)

	stats, err := summarizer.Summarize(resultsFromScores(0.2, 0.4, 0.6, 0.8))
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Count)
	assert.InDelta(t, 0.5, *stats.Mean, 1e-9)
	assert.InDelta(t, 0.5, *stats.Median, 1e-9)
	// population formula: sqrt(mean of squared deviations)
	assert.InDelta(t, 0.2236067977, *stats.StdDev, 1e-6)
	assert.InDelta(t, 0.2, *stats.Min, 1e-9)
	assert.InDelta(t, 0.8, *stats.Max, 1e-9)
	assert.InDelta(t, 0.5, *stats.PassRate, 1e-9)
}

func TestSummarizer_MedianOddCount(t *testing.T) {
	summarizer := NewSummarizer(DefaultPercentageBands, DefaultPassThreshold)

	stats, err := summarizer.Summarize(resultsFromScores(0.9, 0.1, 0.5))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, *stats.Median, 1e-9)
}

func TestSummarizer_EmptyCohort(t *testing.T) {
	summarizer := NewSummarizer(DefaultPercentageBands, DefaultPassThreshold)

	stats, err := summarizer.Summarize(nil)
	require.NoError(t, err, "empty cohort is legal by default")

	assert.Equal(t, 0, stats.Count)
	assert.Nil(t, stats.Mean)
	assert.Nil(t, stats.Median)
	assert.Nil(t, stats.StdDev)
	assert.Nil(t, stats.Min)
	assert.Nil(t, stats.Max)
	assert.Nil(t, stats.PassRate)

	require.Len(t, stats.Distribution, len(DefaultPercentageBands))
	for _, bucket := range stats.Distribution {
		assert.Zero(t, bucket.Count)
	}
}

func TestSummarizer_RequireNonEmpty(t *testing.T) {
	summarizer := NewSummarizer(
		DefaultPercentageBands,
		DefaultPassThreshold,
		WithRequireNonEmpty(),
	)

	_, err := summarizer.Summarize(nil)
	assert.ErrorIs(t, err, ErrEmptyCohort)

	_, err = summarizer.Summarize(resultsFromScores(0.5))
	assert.NoError(t, err)
}

func TestSummarizer_OrderIndependent(t *testing.T) {
	summarizer := NewSummarizer(DefaultPercentageBands, DefaultPassThreshold)

	forward, err := summarizer.Summarize(resultsFromScores(0.1, 0.3, 0.5, 0.7, 0.9))
	require.NoError(t, err)
	backward, err := summarizer.Summarize(resultsFromScores(0.9, 0.7, 0.5, 0.3, 0.1))
	require.NoError(t, err)
	shuffled, err := summarizer.Summarize(resultsFromScores(0.5, 0.9, 0.1, 0.7, 0.3))
	require.NoError(t, err)

	assert.Equal(t, forward, backward)
	assert.Equal(t, forward, shuffled)
}

func TestSummarizer_Distribution(t *testing.T) {
	summarizer := NewSummarizer(DefaultPercentageBands, DefaultPassThreshold)

	stats, err := summarizer.Summarize(resultsFromScores(0.95, 0.92, 0.85, 0.65, 0.10))
	require.NoError(t, err)

	expected := map[string]int{"A": 2, "B": 1, "C": 0, "D": 1, "F": 1}
	require.Len(t, stats.Distribution, 5)
	for _, bucket := range stats.Distribution {
		assert.Equal(t, expected[bucket.Label], bucket.Count, "bucket %s", bucket.Label)
	}

	// ordered best-first, matching the band table
	assert.Equal(t, "A", stats.Distribution[0].Label)
	assert.Equal(t, "F", stats.Distribution[4].Label)
}

func TestSummarizer_DistributionIgnoresProducingPolicy(t *testing.T) {
	summarizer := NewSummarizer(DefaultPercentageBands, DefaultPassThreshold)

	// grade results carry pass/fail labels, but buckets still follow the
	// percentage bands so cross-policy cohorts stay comparable
	results := resultsFromScores(0.95, 0.40)
	for i := range results {
		results[i].PolicyID = PolicyPassFail
		results[i].Grade = models.GradeValue{Label: "Pass"}
	}

	stats, err := summarizer.Summarize(results)
	require.NoError(t, err)

	counts := map[string]int{}
	for _, bucket := range stats.Distribution {
		counts[bucket.Label] = bucket.Count
	}
	assert.Equal(t, 1, counts["A"])
	assert.Equal(t, 1, counts["F"])
}

func TestSummarizer_DoesNotMutateInput(t *testing.T) {
	summarizer := NewSummarizer(DefaultPercentageBands, DefaultPassThreshold)

	results := resultsFromScores(0.9, 0.1, 0.5)
	original := make([]models.GradeResult, len(results))
	copy(original, results)

	_, err := summarizer.Summarize(results)
	require.NoError(t, err)
	assert.Equal(t, original, results)
}
