package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/naka-gawa/idealab/internal/domain"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// CatalogSource loads the labs gallery records.
type CatalogSource interface {
	LoadMolecules(ctx context.Context) ([]domain.Molecule, error)
}

// NewCatalogSource picks the adapter for location: an http(s) URL, a file
// path, or, when location is empty, the inline list.
func NewCatalogSource(location string, inline []domain.Molecule, client *http.Client, logger *zap.Logger) CatalogSource {
	switch {
	case location == "":
		return NewInlineCatalog(inline)
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return NewURLCatalog(location, client, logger)
	default:
		return NewFileCatalog(location, logger)
	}
}

// InlineCatalog serves molecules embedded in the configuration.
type InlineCatalog struct {
	molecules []domain.Molecule
}

func NewInlineCatalog(molecules []domain.Molecule) *InlineCatalog {
	return &InlineCatalog{molecules: append([]domain.Molecule(nil), molecules...)}
}

func (c *InlineCatalog) LoadMolecules(context.Context) ([]domain.Molecule, error) {
	return append([]domain.Molecule{}, c.molecules...), nil
}

// FileCatalog reads a JSON or YAML array from disk on every load.
type FileCatalog struct {
	path   string
	logger *zap.Logger
}

func NewFileCatalog(path string, logger *zap.Logger) *FileCatalog {
	return &FileCatalog{path: path, logger: logger}
}

func (c *FileCatalog) LoadMolecules(context.Context) ([]domain.Molecule, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", c.path, &domain.FetchError{Kind: domain.KindNetwork, Err: err})
	}
	molecules, err := decodeMolecules(data, isYAMLPath(c.path))
	if err != nil {
		return nil, fmt.Errorf("failed to decode catalog %s: %w", c.path, err)
	}
	c.logger.Debug("Loaded catalog file", zap.String("path", c.path), zap.Int("count", len(molecules)))
	return molecules, nil
}

// URLCatalog fetches the catalog over HTTP on every load, bypassing caches.
type URLCatalog struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

func NewURLCatalog(url string, client *http.Client, logger *zap.Logger) *URLCatalog {
	return &URLCatalog{url: url, client: client, logger: logger}
}

func (c *URLCatalog) LoadMolecules(ctx context.Context) ([]domain.Molecule, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog %s: %w", c.url, &domain.FetchError{Kind: domain.KindNetwork, Err: err})
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch catalog %s: %w", c.url, &domain.FetchError{Kind: domain.KindHTTP, Status: resp.StatusCode})
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", c.url, &domain.FetchError{Kind: domain.KindNetwork, Err: err})
	}
	isYAML := isYAMLPath(req.URL.Path) || strings.Contains(resp.Header.Get("Content-Type"), "yaml")
	molecules, err := decodeMolecules(data, isYAML)
	if err != nil {
		return nil, fmt.Errorf("failed to decode catalog %s: %w", c.url, err)
	}
	c.logger.Debug("Fetched catalog", zap.String("url", c.url), zap.Int("count", len(molecules)))
	return molecules, nil
}

func isYAMLPath(p string) bool {
	ext := strings.ToLower(path.Ext(filepath.ToSlash(p)))
	return ext == ".yaml" || ext == ".yml"
}

// decodeMolecules parses a catalog document. A well-formed document whose
// top level is not an array yields no molecules.
func decodeMolecules(data []byte, isYAML bool) ([]domain.Molecule, error) {
	if isYAML {
		return decodeYAMLMolecules(data)
	}
	trimmed := bytes.TrimSpace(data)
	if !json.Valid(trimmed) {
		var v interface{}
		err := json.Unmarshal(trimmed, &v)
		return nil, &domain.FetchError{Kind: domain.KindParse, Err: err}
	}
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return []domain.Molecule{}, nil
	}
	var molecules []domain.Molecule
	if err := json.Unmarshal(trimmed, &molecules); err != nil {
		return nil, &domain.FetchError{Kind: domain.KindParse, Err: err}
	}
	return molecules, nil
}

func decodeYAMLMolecules(data []byte) ([]domain.Molecule, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &domain.FetchError{Kind: domain.KindParse, Err: err}
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.SequenceNode {
		return []domain.Molecule{}, nil
	}
	var molecules []domain.Molecule
	if err := doc.Content[0].Decode(&molecules); err != nil {
		return nil, &domain.FetchError{Kind: domain.KindParse, Err: err}
	}
	return molecules, nil
}
