package enrich

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/harrison/plugdex/internal/models"
)

// githubPatterns are the recognized GitHub URL shapes. Anything else is an
// unknown entry and receives no enrichment.
var githubPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^https?://github\.com/`),
	regexp.MustCompile(`^git@github\.com:`),
	regexp.MustCompile(`^git://github\.com/`),
}

// IsGitHub reports whether url points at a GitHub repository.
func IsGitHub(url string) bool {
	for _, pattern := range githubPatterns {
		if pattern.MatchString(url) {
			return true
		}
	}
	return false
}

// KeyFromURL derives the repository identity from a recognized GitHub URL.
// The last two path segments are the owner and name; a trailing ".git" is
// stripped so clone-style spellings dedupe with the plain URL.
func KeyFromURL(url string) (models.RepoKey, error) {
	trimmed := strings.TrimSuffix(strings.TrimRight(url, "/"), ".git")
	// Normalize the ssh form so "host:owner/name" splits like a path.
	trimmed = strings.ReplaceAll(trimmed, ":", "/")

	parts := strings.Split(trimmed, "/")
	if len(parts) < 2 {
		return models.RepoKey{}, fmt.Errorf("url %q has no owner/name path segments", url)
	}

	key := models.RepoKey{
		Owner: parts[len(parts)-2],
		Name:  parts[len(parts)-1],
	}
	if key.Owner == "" || key.Name == "" {
		return models.RepoKey{}, fmt.Errorf("url %q has empty owner or name segment", url)
	}

	return key, nil
}

// Classifier assigns a category label to a plugin based on its
// documentation pages. Real classification is a declared extension point;
// the default is DefaultClassifier.
type Classifier func(pages []string) string

// DefaultClassifier puts every plugin in the unknown category.
func DefaultClassifier(pages []string) string {
	return models.CategoryUnknown
}

// StatusDetector derives a maturity status ("wip", "mature") from a
// plugin's documentation pages. The default detects nothing.
type StatusDetector func(pages []string) string

// DefaultStatusDetector reports no status.
func DefaultStatusDetector(pages []string) string {
	return ""
}

// DetectModels scans documentation pages for supported AI models using
// case-insensitive substring matching. The result is a set: each model
// appears at most once, in KnownModels order.
func DetectModels(pages []string) []models.Model {
	var found []models.Model

	for _, model := range models.KnownModels {
		if pagesMention(pages, model.Terms()) {
			found = append(found, model)
		}
	}

	return found
}

func pagesMention(pages []string, terms []string) bool {
	for _, page := range pages {
		lowered := strings.ToLower(page)
		for _, term := range terms {
			if strings.Contains(lowered, term) {
				return true
			}
		}
	}
	return false
}
