package models

import "time"

// ChurnSummary represents the version-control history of a single file.
type ChurnSummary struct {
	CommitCount  int       `json:"commit_count"`
	LinesAdded   int       `json:"lines_added"`
	LinesDeleted int       `json:"lines_deleted"`
	AuthorCount  int       `json:"author_count"`
	FirstCommit  time.Time `json:"first_commit"`
	LastCommit   time.Time `json:"last_commit"`
	ChurnRate    float64   `json:"churn_rate"` // commits per day
}

// CalculateChurnRate sets ChurnRate to commits per whole day between the
// first and last commit. Spans shorter than a day leave the rate at 0.
func (c *ChurnSummary) CalculateChurnRate() float64 {
	c.ChurnRate = 0
	if !c.LastCommit.After(c.FirstCommit) {
		return 0
	}
	days := int64(c.LastCommit.Sub(c.FirstCommit) / (24 * time.Hour))
	if days > 0 {
		c.ChurnRate = float64(c.CommitCount) / float64(days)
	}
	return c.ChurnRate
}
