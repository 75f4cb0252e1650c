package domain

import "time"

// Issue is the subset of a GitHub issue the idea board needs, before
// normalization.
type Issue struct {
	Title         string
	Body          string
	Labels        []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	IsPullRequest bool
}
