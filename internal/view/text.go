package view

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/naka-gawa/idealab/internal/domain"
)

var (
	headingStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8"))
	moleculeColors = map[domain.MoleculeStatus]lipgloss.Color{
		domain.MoleculeLive:     lipgloss.Color("#22c55e"),
		domain.MoleculeWIP:      lipgloss.Color("#f59e0b"),
		domain.MoleculeBeta:     lipgloss.Color("#a78bfa"),
		domain.MoleculePaused:   lipgloss.Color("#94a3b8"),
		domain.MoleculeArchived: lipgloss.Color("#64748b"),
		domain.MoleculeOther:    lipgloss.Color("#7dd3fc"),
	}
)

func statusStyle(color string) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(color))
}

// WriteBoardText prints the board for a terminal.
func WriteBoardText(w io.Writer, page BoardPage) error {
	if page.Failed {
		_, err := fmt.Fprintln(w, "Couldn’t load the idea board right now.")
		return err
	}
	for _, c := range page.Counts {
		if _, err := fmt.Fprintf(w, "%s %d  ", statusStyle(c.Meta.Color).Render(c.Meta.Label), c.Count); err != nil {
			return err
		}
	}
	fmt.Fprintln(w)
	if len(page.Cards) == 0 {
		_, err := fmt.Fprintln(w, "No ideas match that filter. Try a different status or search.")
		return err
	}
	for _, card := range page.Cards {
		fmt.Fprintf(w, "\n%s  %s\n", statusStyle(card.Meta.Color).Render(card.Meta.Label), headingStyle.Render(card.Title))
		fmt.Fprintf(w, "  %s · %d%% · updated %s\n", card.Category, card.Progress, card.Updated)
		if _, err := fmt.Fprintf(w, "  %s\n", mutedStyle.Render(card.Summary)); err != nil {
			return err
		}
	}
	return nil
}

// WriteSummaryText prints board-wide counts and idea age.
func WriteSummaryText(w io.Writer, s domain.BoardSummary) error {
	fmt.Fprintf(w, "%s %d\n", headingStyle.Render("Total ideas:"), s.Total)
	for _, c := range s.Counts {
		fmt.Fprintf(w, "  %-10s %d\n", c.Meta.Label, c.Count)
	}
	_, err := fmt.Fprintf(w, "Median age: %.1f days\nMean age:   %.1f days\n", s.MedianAgeDays, s.MeanAgeDays)
	return err
}

// WriteLabsText prints the gallery for a terminal.
func WriteLabsText(w io.Writer, page LabsPage) error {
	if _, err := fmt.Fprintln(w, headingStyle.Render(page.CountLabel)); err != nil {
		return err
	}
	if page.Failed {
		return nil
	}
	if len(page.Cards) == 0 {
		_, err := fmt.Fprintln(w, "No molecules match that filter.")
		return err
	}
	for _, card := range page.Cards {
		status := lipgloss.NewStyle().Foreground(moleculeColors[card.Status]).Render(string(card.Status))
		link := mutedStyle.Render("not launchable")
		if card.Launchable {
			link = card.URL
		}
		fmt.Fprintf(w, "\n%s  [%s] %s\n", headingStyle.Render(card.Name), card.Category, status)
		if card.Description != "" {
			fmt.Fprintf(w, "  %s\n", card.Description)
		}
		if _, err := fmt.Fprintf(w, "  %s\n", link); err != nil {
			return err
		}
	}
	return nil
}
