// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// Status is the pipeline stage of an idea, read from a `status:<x>` label.
type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusReviewing Status = "reviewing"
	StatusAccepted  Status = "accepted"
	StatusBuilding  Status = "building"
	StatusBeta      Status = "beta"
	StatusShipped   Status = "shipped"
	StatusDeclined  Status = "declined"
)

// StatusAll selects every status in a board filter.
const StatusAll = "all"

// DefaultCategory is used when an issue carries no `cat:<x>` label.
const DefaultCategory = "Other"

// StatusOrder lists the known statuses in pipeline order.
var StatusOrder = []Status{
	StatusSubmitted,
	StatusReviewing,
	StatusAccepted,
	StatusBuilding,
	StatusBeta,
	StatusShipped,
	StatusDeclined,
}

// StatusMeta is the display metadata of a status.
type StatusMeta struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

var statusMeta = map[Status]StatusMeta{
	StatusSubmitted: {Label: "Submitted", Color: "#c5def5"},
	StatusReviewing: {Label: "Reviewing", Color: "#0052cc"},
	StatusAccepted:  {Label: "Accepted", Color: "#8b5cf6"},
	StatusBuilding:  {Label: "Building", Color: "#fbca04"},
	StatusBeta:      {Label: "Beta", Color: "#f97316"},
	StatusShipped:   {Label: "Shipped", Color: "#0e8a16"},
	StatusDeclined:  {Label: "Declined", Color: "#b60205"},
}

const unknownStatusColor = "#7dd3fc"

// Meta returns the display metadata for s. Unknown statuses fall back to
// their raw value as the label.
func (s Status) Meta() StatusMeta {
	if m, ok := statusMeta[s]; ok {
		return m
	}
	return StatusMeta{Label: string(s), Color: unknownStatusColor}
}

// Known reports whether s is one of StatusOrder.
func (s Status) Known() bool {
	_, ok := statusMeta[s]
	return ok
}

// Progress is the position of s in the pipeline as a percentage.
// Unknown statuses sit at the start.
func (s Status) Progress() int {
	idx := 0
	for i, st := range StatusOrder {
		if st == s {
			idx = i
			break
		}
	}
	return int(float64(idx)/float64(len(StatusOrder)-1)*100 + 0.5)
}

// Idea is a normalized idea-board record derived from a GitHub issue.
type Idea struct {
	Title    string    `json:"title"`
	Body     string    `json:"body"`
	Created  time.Time `json:"created"`
	Updated  time.Time `json:"updated"`
	Status   Status    `json:"status"`
	Category string    `json:"category"`
}

// StatusCount is the number of ideas at a given status.
type StatusCount struct {
	Status Status     `json:"status"`
	Meta   StatusMeta `json:"meta"`
	Count  int        `json:"count"`
}
