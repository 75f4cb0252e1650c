package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/naka-gawa/idealab/internal/domain"
	"github.com/naka-gawa/idealab/internal/gateway"
	"go.uber.org/zap"
)

// Gallery is the use case behind the labs page.
type Gallery struct {
	source gateway.CatalogSource
	logger *zap.Logger
}

func NewGallery(source gateway.CatalogSource, logger *zap.Logger) *Gallery {
	return &Gallery{source: source, logger: logger}
}

// Load returns the catalog in source order.
func (g *Gallery) Load(ctx context.Context) ([]domain.Molecule, error) {
	molecules, err := g.source.LoadMolecules(ctx)
	if err != nil {
		g.logger.Error("Failed to load molecules", zap.Error(err))
		return nil, err
	}
	return molecules, nil
}

// IsAllCategory reports whether category selects everything.
func IsAllCategory(category string) bool {
	category = strings.TrimSpace(category)
	return category == "" || strings.EqualFold(category, domain.CategoryAll)
}

// FilterMolecules keeps source order. max <= 0 means no cap.
func FilterMolecules(molecules []domain.Molecule, query, category string, max int) []domain.Molecule {
	q := strings.ToLower(strings.TrimSpace(query))
	all := IsAllCategory(category)
	out := make([]domain.Molecule, 0, len(molecules))
	for _, m := range molecules {
		if max > 0 && len(out) >= max {
			break
		}
		if !all && m.Category != category {
			continue
		}
		if q != "" && !strings.Contains(MoleculeText(m), q) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// MoleculeText is the lowercased haystack a gallery query is matched against.
func MoleculeText(m domain.Molecule) string {
	return strings.ToLower(m.Name + " " + m.Description + " " + m.Category)
}

// Categories returns "All" followed by every distinct non-empty category, sorted.
func Categories(molecules []domain.Molecule) []string {
	seen := make(map[string]struct{})
	var cats []string
	for _, m := range molecules {
		if m.Category == "" {
			continue
		}
		if _, ok := seen[m.Category]; ok {
			continue
		}
		seen[m.Category] = struct{}{}
		cats = append(cats, m.Category)
	}
	sort.Strings(cats)
	return append([]string{domain.CategoryAll}, cats...)
}

// PickLaunchable chooses one launchable molecule using intn, which must
// behave like rand.IntN.
func PickLaunchable(molecules []domain.Molecule, intn func(int) int) (domain.Molecule, error) {
	var live []domain.Molecule
	for _, m := range molecules {
		if m.Launchable() {
			live = append(live, m)
		}
	}
	if len(live) == 0 {
		return domain.Molecule{}, domain.ErrNothingLaunchable
	}
	return live[intn(len(live))], nil
}

// CountLabel is the caption above the gallery grid.
func CountLabel(n int) string {
	if n == 1 {
		return "1 molecule loaded"
	}
	return fmt.Sprintf("%d molecules loaded", n)
}
