package grading

import (
	"sort"

	"github.com/skolverk/betyg/internal/models"
)

// Well-known policy ids. The registry is open: adding a policy means
// registering another Policy, the calculator never changes.
const (
	PolicyPercentage  = "percentage"
	PolicyLetterScale = "letter_scale"
	PolicyGPA         = "gpa"
	PolicyPassFail    = "pass_fail"
)

// DefaultPassThreshold is the PassFail cutoff used when the config does not
// override it. It doubles as the fixed pass_rate yardstick in statistics.
const DefaultPassThreshold = 0.5

// Policy maps a normalized score in [0,1] to a grade value. Implementations
// are pure, total on the closed interval, and safe for concurrent use.
type Policy interface {
	ID() string
	Grade(normalized float64) (models.GradeValue, error)
}

// Band is one (threshold, value) pair of an ordered grading scale.
// Min is the inclusive lower bound of the band on the normalized scale.
type Band struct {
	Label  string
	Min    float64
	Points *float64
	Remark string
}

// BandPolicy grades by ordered threshold bands, highest threshold first;
// the first band whose Min ≤ score wins. Percentage, LetterScale and GPA
// are all instances of this with different band tables.
type BandPolicy struct {
	id    string
	bands []Band
}

// NewBandPolicy builds a band policy. Bands are sorted by descending Min,
// so callers may supply them in any order. The last band should have Min 0
// to keep the mapping total.
func NewBandPolicy(id string, bands []Band) *BandPolicy {
	sorted := make([]Band, len(bands))
	copy(sorted, bands)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Min > sorted[j].Min
	})
	return &BandPolicy{id: id, bands: sorted}
}

func (p *BandPolicy) ID() string { return p.id }

// Bands returns the scale in evaluation order, for listings and for the
// statistics distribution buckets.
func (p *BandPolicy) Bands() []Band {
	out := make([]Band, len(p.bands))
	copy(out, p.bands)
	return out
}

func (p *BandPolicy) Grade(normalized float64) (models.GradeValue, error) {
	if normalized < 0 || normalized > 1 {
		return models.GradeValue{}, ErrInvalidScore
	}
	for _, band := range p.bands {
		if normalized >= band.Min {
			return models.GradeValue{
				Label:  band.Label,
				Points: band.Points,
				Remark: band.Remark,
			}, nil
		}
	}
	// band tables always end at Min 0, so this is unreachable for valid input
	return models.GradeValue{}, ErrInvalidScore
}

// PassFailPolicy grades against a single threshold: score ≥ threshold passes.
type PassFailPolicy struct {
	id        string
	threshold float64
}

func NewPassFailPolicy(id string, threshold float64) *PassFailPolicy {
	return &PassFailPolicy{id: id, threshold: threshold}
}

func (p *PassFailPolicy) ID() string { return p.id }

func (p *PassFailPolicy) Threshold() float64 { return p.threshold }

func (p *PassFailPolicy) Grade(normalized float64) (models.GradeValue, error) {
	if normalized < 0 || normalized > 1 {
		return models.GradeValue{}, ErrInvalidScore
	}
	if normalized >= p.threshold {
		return models.GradeValue{Label: "Pass"}, nil
	}
	return models.GradeValue{Label: "Fail"}, nil
}

func points(v float64) *float64 { return &v }

// DefaultPercentageBands mirror the classic percentage scale, expressed on
// the normalized interval. Lower bounds are inclusive: exactly 0.90 is "A".
var DefaultPercentageBands = []Band{
	{Label: "A", Min: 0.90, Remark: "Excellent"},
	{Label: "B", Min: 0.80, Remark: "Very Good"},
	{Label: "C", Min: 0.70, Remark: "Good"},
	{Label: "D", Min: 0.60, Remark: "Satisfactory"},
	{Label: "F", Min: 0, Remark: "Fail"},
}

var DefaultLetterScaleBands = []Band{
	{Label: "A", Min: 0.85, Remark: "Excellent"},
	{Label: "B+", Min: 0.75, Remark: "Very Good"},
	{Label: "B", Min: 0.65, Remark: "Good"},
	{Label: "C", Min: 0.55, Remark: "Above Average"},
	{Label: "D", Min: 0.45, Remark: "Average"},
	{Label: "F", Min: 0, Remark: "Fail"},
}

var DefaultGPABands = []Band{
	{Label: "A", Min: 0.90, Points: points(4.0), Remark: "Excellent"},
	{Label: "B", Min: 0.80, Points: points(3.0), Remark: "Good"},
	{Label: "C", Min: 0.70, Points: points(2.0), Remark: "Average"},
	{Label: "D", Min: 0.60, Points: points(1.0), Remark: "Below Average"},
	{Label: "F", Min: 0, Points: points(0.0), Remark: "Fail"},
}
