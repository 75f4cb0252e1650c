// Package usecase contains the business logic of the application: turning
// raw records into views and driving the intake state machine.
package usecase

import (
	"context"
	"html"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/montanaflynn/stats"
	"github.com/naka-gawa/idealab/internal/domain"
	"github.com/naka-gawa/idealab/internal/gateway"
	"go.uber.org/zap"
)

const (
	statusLabelPrefix   = "status:"
	categoryLabelPrefix = "cat:"
	summaryMaxRunes     = 140
)

var ideaTitlePrefix = regexp.MustCompile(`(?i)^Idea:\s*`)

var stripTags = bluemonday.StrictPolicy()

// Board is the use case behind the idea board.
// It fetches issues and turns them into an immutable, sorted idea list.
type Board struct {
	source gateway.IssueSource
	label  string
	logger *zap.Logger
}

// NewBoard creates a new Board instance.
func NewBoard(source gateway.IssueSource, label string, logger *zap.Logger) *Board {
	return &Board{
		source: source,
		label:  label,
		logger: logger,
	}
}

// Load fetches the issues once and returns the ideas, most recently updated first.
func (b *Board) Load(ctx context.Context) ([]domain.Idea, error) {
	issues, err := b.source.ListIssues(ctx)
	if err != nil {
		b.logger.Error("Failed to load idea board", zap.Error(err))
		return nil, err
	}
	ideas := NormalizeIssues(issues, b.label)
	SortByUpdated(ideas)
	b.logger.Debug("Idea board loaded", zap.Int("issues", len(issues)), zap.Int("ideas", len(ideas)))
	return ideas, nil
}

// NormalizeIssues keeps the issues carrying label that are not pull requests.
func NormalizeIssues(issues []domain.Issue, label string) []domain.Idea {
	ideas := make([]domain.Idea, 0, len(issues))
	for _, issue := range issues {
		if issue.IsPullRequest || !hasLabel(issue.Labels, label) {
			continue
		}
		ideas = append(ideas, NormalizeIssue(issue))
	}
	return ideas
}

// NormalizeIssue converts one issue into an idea.
func NormalizeIssue(issue domain.Issue) domain.Idea {
	title := strings.TrimSpace(ideaTitlePrefix.ReplaceAllString(issue.Title, ""))
	if title == "" {
		title = issue.Title
	}
	status := labelValue(issue.Labels, statusLabelPrefix)
	if status == "" {
		status = string(domain.StatusSubmitted)
	}
	category := labelValue(issue.Labels, categoryLabelPrefix)
	if category == "" {
		category = domain.DefaultCategory
	}
	return domain.Idea{
		Title:    title,
		Body:     strings.TrimSpace(issue.Body),
		Created:  issue.CreatedAt,
		Updated:  issue.UpdatedAt,
		Status:   domain.Status(status),
		Category: category,
	}
}

func hasLabel(labels []string, want string) bool {
	for _, l := range labels {
		if l == want {
			return true
		}
	}
	return false
}

// labelValue returns what follows prefix on the first label that has it.
func labelValue(labels []string, prefix string) string {
	for _, l := range labels {
		if strings.HasPrefix(l, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(l, prefix))
		}
	}
	return ""
}

// SortByUpdated orders ideas newest first. Ties keep their fetch order.
func SortByUpdated(ideas []domain.Idea) {
	sort.SliceStable(ideas, func(i, j int) bool {
		return ideas[i].Updated.After(ideas[j].Updated)
	})
}

// FilterIdeas derives the visible subset: exact status (or "all"), then a
// case-insensitive substring match over title, body and category, then at
// most max items. The input is never modified.
func FilterIdeas(ideas []domain.Idea, query, status string, max int) []domain.Idea {
	q := strings.ToLower(strings.TrimSpace(query))
	status = strings.TrimSpace(status)
	out := make([]domain.Idea, 0, len(ideas))
	for _, idea := range ideas {
		if max > 0 && len(out) >= max {
			break
		}
		if status != "" && !strings.EqualFold(status, domain.StatusAll) && string(idea.Status) != status {
			continue
		}
		if q != "" && !strings.Contains(IdeaText(idea), q) {
			continue
		}
		out = append(out, idea)
	}
	return out
}

// IdeaText is the lowercased haystack a board query is matched against.
func IdeaText(idea domain.Idea) string {
	return strings.ToLower(idea.Title + " " + idea.Body + " " + idea.Category)
}

// CountByStatus counts ideas per status: every known status in pipeline
// order, then any unknown ones in order of first appearance.
func CountByStatus(ideas []domain.Idea) []domain.StatusCount {
	counts := make(map[domain.Status]int, len(domain.StatusOrder))
	var extra []domain.Status
	for _, idea := range ideas {
		if _, seen := counts[idea.Status]; !seen && !idea.Status.Known() {
			extra = append(extra, idea.Status)
		}
		counts[idea.Status]++
	}
	out := make([]domain.StatusCount, 0, len(domain.StatusOrder)+len(extra))
	for _, s := range append(append([]domain.Status{}, domain.StatusOrder...), extra...) {
		out = append(out, domain.StatusCount{Status: s, Meta: s.Meta(), Count: counts[s]})
	}
	return out
}

// Summarize returns the first non-blank line of body as plain text, cut at
// 140 characters.
func Summarize(body string) string {
	cleaned := strings.TrimSpace(strings.ReplaceAll(body, "\r", ""))
	if cleaned == "" {
		return ""
	}
	var first string
	for _, line := range strings.Split(cleaned, "\n") {
		if strings.TrimSpace(line) != "" {
			first = line
			break
		}
	}
	first = strings.TrimSpace(html.UnescapeString(stripTags.Sanitize(first)))
	if r := []rune(first); len(r) > summaryMaxRunes {
		return string(r[:summaryMaxRunes]) + "…"
	}
	return first
}

// Summary computes board-wide figures. Ages are days since last update,
// measured at now.
func Summary(ideas []domain.Idea, now time.Time) domain.BoardSummary {
	summary := domain.BoardSummary{
		Total:  len(ideas),
		Counts: CountByStatus(ideas),
	}
	if len(ideas) == 0 {
		return summary
	}
	ages := make(stats.Float64Data, 0, len(ideas))
	for _, idea := range ideas {
		ages = append(ages, now.Sub(idea.Updated).Hours()/24)
	}
	if median, err := ages.Median(); err == nil {
		summary.MedianAgeDays, _ = stats.Round(median, 1)
	}
	if mean, err := ages.Mean(); err == nil {
		summary.MeanAgeDays, _ = stats.Round(mean, 1)
	}
	return summary
}
