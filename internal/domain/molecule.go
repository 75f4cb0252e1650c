package domain

import "strings"

// MoleculeStatus is the normalized lifecycle state of a labs gallery entry.
type MoleculeStatus string

const (
	MoleculeLive     MoleculeStatus = "live"
	MoleculeWIP      MoleculeStatus = "wip"
	MoleculeBeta     MoleculeStatus = "beta"
	MoleculePaused   MoleculeStatus = "paused"
	MoleculeArchived MoleculeStatus = "archived"
	MoleculeOther    MoleculeStatus = "other"
)

// CategoryAll selects every category in a gallery filter.
const CategoryAll = "All"

const (
	defaultMoleculeName     = "Untitled Molecule"
	defaultMoleculeCategory = "Unsorted"
)

var moleculeStatusSynonyms = map[string]MoleculeStatus{
	"live":             MoleculeLive,
	"launched":         MoleculeLive,
	"active":           MoleculeLive,
	"online":           MoleculeLive,
	"production":       MoleculeLive,
	"prod":             MoleculeLive,
	"released":         MoleculeLive,
	"shipped":          MoleculeLive,
	"wip":              MoleculeWIP,
	"work in progress": MoleculeWIP,
	"work-in-progress": MoleculeWIP,
	"in progress":      MoleculeWIP,
	"in-progress":      MoleculeWIP,
	"building":         MoleculeWIP,
	"dev":              MoleculeWIP,
	"development":      MoleculeWIP,
	"draft":            MoleculeWIP,
	"soon":             MoleculeWIP,
	"coming soon":      MoleculeWIP,
	"beta":             MoleculeBeta,
	"alpha":            MoleculeBeta,
	"preview":          MoleculeBeta,
	"experimental":     MoleculeBeta,
	"testing":          MoleculeBeta,
	"paused":           MoleculePaused,
	"on hold":          MoleculePaused,
	"on-hold":          MoleculePaused,
	"hold":             MoleculePaused,
	"blocked":          MoleculePaused,
	"inactive":         MoleculePaused,
	"archived":         MoleculeArchived,
	"archive":          MoleculeArchived,
	"deprecated":       MoleculeArchived,
	"retired":          MoleculeArchived,
	"sunset":           MoleculeArchived,
}

// NormalizeMoleculeStatus maps a free-form status onto the fixed set.
// Matching ignores case and surrounding whitespace; anything unrecognized,
// including the empty string, is MoleculeOther.
func NormalizeMoleculeStatus(raw string) MoleculeStatus {
	key := strings.Join(strings.Fields(strings.ToLower(raw)), " ")
	if st, ok := moleculeStatusSynonyms[key]; ok {
		return st
	}
	return MoleculeOther
}

// Molecule is a labs gallery record.
type Molecule struct {
	ID          string `json:"id" yaml:"id" mapstructure:"id"`
	Name        string `json:"name" yaml:"name" mapstructure:"name"`
	Category    string `json:"category" yaml:"category" mapstructure:"category"`
	Description string `json:"description" yaml:"description" mapstructure:"description"`
	URL         string `json:"url" yaml:"url" mapstructure:"url"`
	Status      string `json:"status" yaml:"status" mapstructure:"status"`
	Repo        string `json:"repo,omitempty" yaml:"repo,omitempty" mapstructure:"repo"`
}

// NormalizedStatus returns the molecule status on the fixed scale.
func (m Molecule) NormalizedStatus() MoleculeStatus {
	return NormalizeMoleculeStatus(m.Status)
}

// LaunchURL is the trimmed url of the molecule.
func (m Molecule) LaunchURL() string {
	return strings.TrimSpace(m.URL)
}

// Launchable reports whether the molecule is live and has a real link.
func (m Molecule) Launchable() bool {
	u := m.LaunchURL()
	return m.NormalizedStatus() == MoleculeLive && u != "" && u != "#"
}

// DisplayName is the name shown on a card.
func (m Molecule) DisplayName() string {
	if m.Name == "" {
		return defaultMoleculeName
	}
	return m.Name
}

// DisplayCategory is the category shown on a card.
func (m Molecule) DisplayCategory() string {
	if m.Category == "" {
		return defaultMoleculeCategory
	}
	return m.Category
}
