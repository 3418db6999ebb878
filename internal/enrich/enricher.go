// Package enrich turns parsed references into enriched table rows. It
// classifies references by hosting provider, deduplicates recognized ones by
// repository identity, fetches metadata and documentation for each distinct
// repository, and groups the results into tables.
package enrich

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/harrison/plugdex/internal/github"
	"github.com/harrison/plugdex/internal/models"
)

// DefaultDescriptionLength is the rendering budget for a description cell.
const DefaultDescriptionLength = 80

const ellipsis = "..."

// MetadataService supplies repository metadata, possibly through a cache.
type MetadataService interface {
	RepoDetails(ctx context.Context, key models.RepoKey) (*github.Details, error)
}

// DocsService downloads and serves a repository's documentation pages.
type DocsService interface {
	Download(ctx context.Context, key models.RepoKey, branch string) error
	Pages(key models.RepoKey) ([]string, error)
}

// Enricher builds enriched rows from references. Classification and status
// detection are injectable strategies.
type Enricher struct {
	meta              MetadataService
	docs              DocsService
	classify          Classifier
	detectStatus      StatusDetector
	descriptionLength int
	maxConcurrency    int
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithClassifier overrides the category classifier.
func WithClassifier(c Classifier) Option {
	return func(e *Enricher) { e.classify = c }
}

// WithStatusDetector overrides the status detector.
func WithStatusDetector(d StatusDetector) Option {
	return func(e *Enricher) { e.detectStatus = d }
}

// WithDescriptionLength overrides the description rendering budget.
func WithDescriptionLength(n int) Option {
	return func(e *Enricher) { e.descriptionLength = n }
}

// WithMaxConcurrency bounds how many repositories are enriched at once.
// Zero or negative means unbounded.
func WithMaxConcurrency(n int) Option {
	return func(e *Enricher) { e.maxConcurrency = n }
}

// NewEnricher creates an Enricher with the default strategies.
func NewEnricher(meta MetadataService, docs DocsService, opts ...Option) *Enricher {
	e := &Enricher{
		meta:              meta,
		docs:              docs,
		classify:          DefaultClassifier,
		detectStatus:      DefaultStatusDetector,
		descriptionLength: DefaultDescriptionLength,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enrich partitions references into recognized repositories and unknown
// entries, fetches metadata once per distinct repository, and returns the
// grouped tables. Any fetch failure aborts the whole run.
//
// Deduplication happens before fan-out, so concurrent enrichment never
// fetches the same repository twice.
func (e *Enricher) Enrich(ctx context.Context, refs []models.Reference) (models.Tables, error) {
	tables := models.Tables{ByCategory: map[string][]models.Row{}}

	var keys []models.RepoKey
	seen := map[models.RepoKey]bool{}

	for _, ref := range refs {
		url := string(ref)

		if !IsGitHub(url) {
			tables.Unknown = append(tables.Unknown, models.UnknownRow{URL: url})
			continue
		}

		key, err := KeyFromURL(url)
		if err != nil {
			return models.Tables{}, fmt.Errorf("classify reference: %w", err)
		}

		// Later duplicates are dropped silently; the document may list a
		// repository more than once.
		if seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}

	type categorized struct {
		category string
		row      models.Row
	}

	results := make([]categorized, len(keys))

	group, groupCtx := errgroup.WithContext(ctx)
	if e.maxConcurrency > 0 {
		group.SetLimit(e.maxConcurrency)
	}

	for i, key := range keys {
		i, key := i, key
		group.Go(func() error {
			row, category, err := e.enrichOne(groupCtx, key)
			if err != nil {
				return err
			}
			results[i] = categorized{category: category, row: row}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return models.Tables{}, err
	}

	for _, result := range results {
		tables.ByCategory[result.category] = append(tables.ByCategory[result.category], result.row)
	}

	return tables, nil
}

func (e *Enricher) enrichOne(ctx context.Context, key models.RepoKey) (models.Row, string, error) {
	details, err := e.meta.RepoDetails(ctx, key)
	if err != nil {
		return models.Row{}, "", err
	}

	if err := e.docs.Download(ctx, key, details.DefaultBranch); err != nil {
		return models.Row{}, "", err
	}

	pages, err := e.docs.Pages(key)
	if err != nil {
		return models.Row{}, "", err
	}

	date, err := lastCommitDate(details.PushedAt)
	if err != nil {
		return models.Row{}, "", fmt.Errorf("repository %s: %w", key, err)
	}

	row := models.Row{
		Name:           details.Name,
		URL:            details.HTMLURL,
		Description:    Ellide(details.Description, e.descriptionLength),
		StarCount:      details.StargazersCount,
		LastCommitDate: date,
		License:        convertLicense(details.License),
		Models:         DetectModels(pages),
		Status:         e.detectStatus(pages),
	}

	return row, e.classify(pages), nil
}

// Ellide crops text to at most max characters, ending in "..." when cropped.
// A cropped result is exactly max characters long. Lengths count runes, not
// bytes, so multibyte text is never split mid-character.
func Ellide(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	// A budget smaller than the ellipsis itself crops plain.
	if max <= len(ellipsis) {
		if max < 0 {
			max = 0
		}
		return string(runes[:max])
	}
	return string(runes[:max-len(ellipsis)]) + ellipsis
}

// lastCommitDate reformats an ISO-8601 timestamp such as
// "2025-06-04T19:41:16Z" to plain "YYYY-MM-DD".
func lastCommitDate(pushedAt string) (string, error) {
	parsed, err := time.Parse(time.RFC3339, pushedAt)
	if err != nil {
		return "", fmt.Errorf("parse pushed-at timestamp %q: %w", pushedAt, err)
	}
	return parsed.Format("2006-01-02"), nil
}

// convertLicense maps the API license to the row model, stripping the
// redundant " License" suffix from names like "MIT License".
func convertLicense(license *github.License) *models.License {
	if license == nil {
		return nil
	}
	return &models.License{
		Name: strings.ReplaceAll(license.Name, " License", ""),
		URL:  license.URL,
	}
}
