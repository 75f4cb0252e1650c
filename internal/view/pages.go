// Package view renders pages as a pure function of records and filter state.
package view

import (
	"net/url"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/naka-gawa/idealab/internal/domain"
	"github.com/naka-gawa/idealab/internal/usecase"
)

const noDescription = "No description provided."

// IdeaCard is one idea as the board shows it.
type IdeaCard struct {
	Title    string
	Summary  string
	Category string
	Status   domain.Status
	Meta     domain.StatusMeta
	Progress int
	Updated  string
}

// BoardPage is the idea board view model.
type BoardPage struct {
	Query    string
	Status   string
	Statuses []domain.Status
	Counts   []domain.StatusCount
	Cards    []IdeaCard
	MaxItems int
	// Failed is set when the issues could not be loaded.
	Failed bool
}

// NewBoardPage derives the board view. ideas must already be sorted.
func NewBoardPage(ideas []domain.Idea, query, status string, max int, now time.Time) BoardPage {
	if status == "" {
		status = domain.StatusAll
	}
	page := BoardPage{
		Query:    query,
		Status:   status,
		Statuses: domain.StatusOrder,
		Counts:   usecase.CountByStatus(ideas),
		MaxItems: max,
	}
	for _, idea := range usecase.FilterIdeas(ideas, query, status, max) {
		summary := usecase.Summarize(idea.Body)
		if summary == "" {
			summary = noDescription
		}
		page.Cards = append(page.Cards, IdeaCard{
			Title:    idea.Title,
			Summary:  summary,
			Category: idea.Category,
			Status:   idea.Status,
			Meta:     idea.Status.Meta(),
			Progress: idea.Status.Progress(),
			Updated:  humanize.RelTime(idea.Updated, now, "ago", "from now"),
		})
	}
	return page
}

// FailedBoardPage is shown when the board could not be loaded.
func FailedBoardPage(query, status string, max int) BoardPage {
	page := NewBoardPage(nil, query, status, max, time.Time{})
	page.Failed = true
	return page
}

// Chip is a category selector with a deep link.
type Chip struct {
	Name   string
	Href   string
	Active bool
}

// MoleculeCard is one molecule as the gallery shows it.
type MoleculeCard struct {
	ID          string
	Name        string
	Category    string
	Description string
	Status      domain.MoleculeStatus
	URL         string
	Launchable  bool
}

// LabsPage is the labs gallery view model.
type LabsPage struct {
	Query      string
	Category   string
	Chips      []Chip
	Cards      []MoleculeCard
	CountLabel string
	RandomHref string
	Failed     bool
}

// NewLabsPage derives the gallery view.
func NewLabsPage(molecules []domain.Molecule, query, category string, max int) LabsPage {
	if usecase.IsAllCategory(category) {
		category = domain.CategoryAll
	}
	page := LabsPage{
		Query:      query,
		Category:   category,
		RandomHref: LabsHref("/labs/random", query, category),
	}
	for _, c := range usecase.Categories(molecules) {
		page.Chips = append(page.Chips, Chip{
			Name:   c,
			Href:   LabsHref("/labs", query, c),
			Active: c == category,
		})
	}
	for _, m := range usecase.FilterMolecules(molecules, query, category, max) {
		page.Cards = append(page.Cards, MoleculeCard{
			ID:          m.ID,
			Name:        m.DisplayName(),
			Category:    m.DisplayCategory(),
			Description: m.Description,
			Status:      m.NormalizedStatus(),
			URL:         m.LaunchURL(),
			Launchable:  m.Launchable(),
		})
	}
	page.CountLabel = usecase.CountLabel(len(page.Cards))
	return page
}

// FailedLabsPage is shown when the catalog could not be loaded.
func FailedLabsPage(query, category string) LabsPage {
	page := NewLabsPage(nil, query, category, 0)
	page.Failed = true
	page.CountLabel = "Failed to load molecules"
	return page
}

// LabsHref builds a gallery deep link. Default values are left out.
func LabsHref(path, query, category string) string {
	v := url.Values{}
	if !usecase.IsAllCategory(category) {
		v.Set("cat", category)
	}
	if query != "" {
		v.Set("q", query)
	}
	if len(v) == 0 {
		return path
	}
	return path + "?" + v.Encode()
}

// IntakePage is the intake form view model.
type IntakePage struct {
	State       domain.IntakeState
	Message     string
	Detail      string
	TrackingURL string
	BoardURL    string
	// PageURL is echoed back on submit as the page the idea was filed from.
	PageURL string
	// StartedAt is the unix millisecond timestamp echoed back on submit.
	StartedAt int64
	Form      domain.IntakeForm
}

// Messages shown by the intake form.
const (
	MsgTooFast    = "That was…fast. Try again in a second."
	MsgIncomplete = "Please fill the required fields and check the agreement box."
	MsgSubmitted  = "Submitted!"
	MsgFailed     = "Couldn’t submit right now."
	MsgRetryLater = "Please try again in a minute."
)
