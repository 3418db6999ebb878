package generator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/plugdex/internal/enrich"
	"github.com/harrison/plugdex/internal/github"
	"github.com/harrison/plugdex/internal/models"
	"github.com/harrison/plugdex/internal/parser"
	"github.com/harrison/plugdex/internal/render"
)

type stubMetadata struct {
	fetches map[models.RepoKey]int
}

func (s *stubMetadata) RepoDetails(ctx context.Context, key models.RepoKey) (*github.Details, error) {
	if s.fetches == nil {
		s.fetches = map[models.RepoKey]int{}
	}
	s.fetches[key]++

	return &github.Details{
		Name:            key.Name,
		Owner:           github.Owner{Login: key.Owner},
		HTMLURL:         fmt.Sprintf("https://github.com/%s/%s", key.Owner, key.Name),
		Description:     "A plugin for " + key.Name,
		DefaultBranch:   "main",
		StargazersCount: 7,
		PushedAt:        "2025-06-04T19:41:16Z",
		License:         &github.License{Name: "MIT License", URL: "https://api.github.com/licenses/mit"},
	}, nil
}

type stubDocs struct{}

func (stubDocs) Download(ctx context.Context, key models.RepoKey, branch string) error {
	return nil
}

func (stubDocs) Pages(key models.RepoKey) ([]string, error) {
	return []string{"README mentioning claude"}, nil
}

func writeReadme(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "README.md")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func validReadme(refs string) string {
	return "Intro line.\n\n<details>\n<summary>All Plugins</summary>\n\n```\n" +
		refs + "\n```\n</details>\n"
}

func newTestGenerator(path string, meta enrich.MetadataService) *Generator {
	clock := func() time.Time { return time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC) }

	return New(
		path,
		parser.NewReadmeParser("All Plugins"),
		enrich.NewEnricher(meta, stubDocs{}),
		render.NewComposer("All Plugins", render.WithClock(clock)),
		nil,
	)
}

func TestRunRewritesDocument(t *testing.T) {
	dir := t.TempDir()
	path := writeReadme(t, dir, validReadme("- https://github.com/foo/bar"))

	gen := newTestGenerator(path, &stubMetadata{})
	require.NoError(t, gen.Run(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "<summary>All Plugins</summary>")
	assert.Contains(t, text, "[bar](https://github.com/foo/bar)")
	assert.Contains(t, text, "[#Claude](https://claude.ai)")
	assert.Contains(t, text, "[MIT](https://api.github.com/licenses/mit)")
}

func TestRunIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := writeReadme(t, dir, validReadme("- https://github.com/foo/bar\n- https://github.com/baz/qux"))

	gen := newTestGenerator(path, &stubMetadata{})
	require.NoError(t, gen.Run(context.Background()))

	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, gen.Run(context.Background()))

	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second),
		"regenerating a regenerated document must be byte-identical")
}

func TestRunDeduplicatesSpellings(t *testing.T) {
	dir := t.TempDir()
	path := writeReadme(t, dir,
		validReadme("- https://github.com/foo/bar\n- https://github.com/foo/bar.git"))

	meta := &stubMetadata{}
	gen := newTestGenerator(path, meta)
	require.NoError(t, gen.Run(context.Background()))

	key := models.RepoKey{Owner: "foo", Name: "bar"}
	assert.Equal(t, 1, meta.fetches[key], "one fetch per identity")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "| [bar](https://github.com/foo/bar) |"),
		"one row per identity")
}

func TestRunMalformedBulletLeavesDocumentUntouched(t *testing.T) {
	dir := t.TempDir()
	original := validReadme("- https://github.com/foo/bar\nnot a bullet")
	path := writeReadme(t, dir, original)

	gen := newTestGenerator(path, &stubMetadata{})
	err := gen.Run(context.Background())
	require.ErrorIs(t, err, parser.ErrGrammarViolation)

	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, original, string(data), "a failed run must not modify the document")
}

func TestRunEmptyListIsFatal(t *testing.T) {
	dir := t.TempDir()
	path := writeReadme(t, dir, validReadme(""))

	gen := newTestGenerator(path, &stubMetadata{})
	err := gen.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, parser.ErrEmptyList) || errors.Is(err, parser.ErrGrammarViolation))
}

func TestRunMissingDocument(t *testing.T) {
	gen := newTestGenerator(filepath.Join(t.TempDir(), "README.md"), &stubMetadata{})
	require.Error(t, gen.Run(context.Background()))
}

func TestValidateReportsReferences(t *testing.T) {
	dir := t.TempDir()
	path := writeReadme(t, dir, validReadme("- https://github.com/foo/bar\n- https://example.com/x"))

	gen := newTestGenerator(path, &stubMetadata{})
	refs, err := gen.Validate()
	require.NoError(t, err)
	assert.Len(t, refs, 2)
}
