// Package models defines the core data types shared across the plugdex
// pipeline: references parsed from the README, enriched repository rows,
// and the grouped tables handed to the renderer.
package models

import (
	"fmt"
	"strings"
)

// Reference is a single source-location string taken from the embedded
// plugin list. It is immutable once parsed; ordering inside the embedded
// list carries no meaning.
type Reference string

// RepoKey identifies a GitHub repository. Two references that resolve to
// the same key are the same repository and are deduplicated before
// enrichment.
type RepoKey struct {
	Owner string
	Name  string
}

// String returns the canonical "owner/name" form.
func (k RepoKey) String() string {
	return k.Owner + "/" + k.Name
}

// License describes a repository's license as reported by GitHub.
// URL may be empty for non-standard licenses.
type License struct {
	Name string
	URL  string
}

// Row is one enriched table row: a recognized reference plus the metadata
// fetched for it. Rows are constructed by the enricher and immutable
// thereafter.
type Row struct {
	Name           string
	URL            string
	Description    string // already truncated; empty means none found
	StarCount      int
	LastCommitDate string // YYYY-MM-DD
	License        *License
	Models         []Model
	Status         string // empty until status detection is implemented
}

// RepositoryLabel returns the short markdown link for the repository.
func (r Row) RepositoryLabel() string {
	return fmt.Sprintf("[%s](%s)", r.Name, r.URL)
}

// UnknownRow is a reference that did not match any recognized hosting
// provider. It carries no enrichment.
type UnknownRow struct {
	URL string
}

// Category labels used to partition rows for presentation. Classification
// currently always yields CategoryUnknown; the renderer must still handle
// arbitrary categories.
const (
	CategoryCodeEditing    = "code-editting"
	CategoryAutoCompletion = "auto-completion"
	CategoryCommunication  = "communication / chat"
	CategoryUnknown        = "unknown"
)

// Tables is the complete regeneration result: enriched rows grouped by
// category plus the unclassifiable entries. Every input reference lands in
// exactly one place.
type Tables struct {
	ByCategory map[string][]Row
	Unknown    []UnknownRow
}

// IsEmpty reports whether there is nothing to render.
func (t Tables) IsEmpty() bool {
	return len(t.ByCategory) == 0 && len(t.Unknown) == 0
}

// Model is an AI model that a plugin may support, detected by substring
// search in the plugin's own documentation.
type Model struct {
	// SearchTerms are the lowercase strings used to find the model in a
	// plugin's documentation. Empty means "search for the name itself".
	SearchTerms []string
	Name        string
	URL         string
}

// Terms returns the effective search terms for the model.
func (m Model) Terms() []string {
	if len(m.SearchTerms) == 0 {
		return []string{strings.ToLower(m.Name)}
	}
	return m.SearchTerms
}

// MarkdownTag renders the model as a linked hashtag label.
func (m Model) MarkdownTag() string {
	return fmt.Sprintf("[#%s](%s)", m.Name, m.URL)
}

// KnownModels is the fixed set of recognizable models. Matching is a pure
// case-insensitive substring test, so terms must be lowercase.
var KnownModels = []Model{
	{SearchTerms: []string{"claude"}, Name: "Claude", URL: "https://claude.ai"},
	{SearchTerms: []string{"deepseek"}, Name: "DeepSeek", URL: "https://chat.deepseek.com"},
	{SearchTerms: []string{"ollama"}, Name: "Ollama", URL: "https://ollama.com"},
	{SearchTerms: []string{"openai"}, Name: "OpenAI", URL: "https://openai.com"},
	{SearchTerms: []string{"tabnine"}, Name: "TabNine", URL: "https://www.tabnine.com"},
	{SearchTerms: []string{"codeium", "windsurf"}, Name: "Windsurf", URL: "https://windsurf.com"},
	{SearchTerms: []string{"codium", "qodo"}, Name: "Qodo", URL: "https://www.qodo.ai"},
}
