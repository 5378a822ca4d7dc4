package models

// BucketCount is one entry of the ordered grade distribution.
type BucketCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// CohortStatistics summarizes a set of GradeResults. The numeric aggregates
// are pointers so an empty cohort serializes them as null instead of a
// fabricated number; Count is the only field that is always meaningful.
// Distribution follows the percentage bands regardless of which policy
// produced the results, so cross-policy cohorts stay comparable.
type CohortStatistics struct {
	Count        int           `json:"count"`
	Mean         *float64      `json:"mean"`
	Median       *float64      `json:"median"`
	StdDev       *float64      `json:"std_dev"`
	Min          *float64      `json:"min"`
	Max          *float64      `json:"max"`
	Distribution []BucketCount `json:"distribution"`
	PassRate     *float64      `json:"pass_rate"`
}
