// Package docs discovers and downloads a repository's documentation pages
// (README-like files) into a local cache directory. A populated cache
// directory is treated as equivalent to a fresh fetch, so repeated runs do
// not re-download unchanged repositories.
package docs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/harrison/plugdex/internal/github"
	"github.com/harrison/plugdex/internal/models"
)

// pageCacheSize bounds the in-process page memoization; regenerations touch
// each repository once, so this only needs to cover a single run.
const pageCacheSize = 512

// Remote is the subset of the GitHub client the fetcher needs.
type Remote interface {
	RepoTree(ctx context.Context, key models.RepoKey, branch string) ([]github.TreeEntry, error)
	RawFile(ctx context.Context, key models.RepoKey, branch, path string) ([]byte, error)
}

// Logger receives progress messages. May be nil.
type Logger interface {
	LogInfo(message string)
	LogDebug(message string)
}

// Fetcher downloads documentation files and reads them back from the local
// cache directory.
type Fetcher struct {
	remote Remote
	dir    string
	pages  *lru.Cache[string, []string]
	log    Logger
}

// NewFetcher creates a Fetcher that caches files under dir.
func NewFetcher(remote Remote, dir string, log Logger) (*Fetcher, error) {
	pages, err := lru.New[string, []string](pageCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create page cache: %w", err)
	}

	return &Fetcher{
		remote: remote,
		dir:    dir,
		pages:  pages,
		log:    log,
	}, nil
}

// Download fetches the repository's documentation files into the cache
// directory unless they are already present.
func (f *Fetcher) Download(ctx context.Context, key models.RepoKey, branch string) error {
	dir := f.repoDir(key)

	if populated(dir) {
		f.logDebug(fmt.Sprintf("Skipped downloading %q, cache directory %q already exists.", key, dir))
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create documentation directory %q: %w", dir, err)
	}

	tree, err := f.remote.RepoTree(ctx, key, branch)
	if err != nil {
		return err
	}

	for _, entry := range tree {
		if entry.Type != "blob" || !IsDocumentation(entry.Path) {
			continue
		}

		f.logInfo(fmt.Sprintf("Downloading %q from %q.", entry.Path, key))

		data, err := f.remote.RawFile(ctx, key, branch, entry.Path)
		if err != nil {
			return err
		}

		path := filepath.Join(dir, filepath.Base(entry.Path))
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("write documentation file %q: %w", path, err)
		}
	}

	return nil
}

// Pages returns the cached documentation page contents for key. Repeated
// calls within a run are served from memory.
func (f *Fetcher) Pages(key models.RepoKey) ([]string, error) {
	if cached, ok := f.pages.Get(key.String()); ok {
		return cached, nil
	}

	dir := f.repoDir(key)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read documentation directory %q: %w", dir, err)
	}

	var pages []string
	for _, entry := range entries {
		if entry.IsDir() || !IsDocumentation(entry.Name()) {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read documentation file %q: %w", entry.Name(), err)
		}
		pages = append(pages, string(data))
	}

	f.pages.Add(key.String(), pages)
	return pages, nil
}

// IsDocumentation reports whether a path looks like a README file,
// regardless of extension or directory.
func IsDocumentation(path string) bool {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return strings.EqualFold(name, "readme")
}

func (f *Fetcher) repoDir(key models.RepoKey) string {
	return filepath.Join(f.dir, key.Owner, key.Name)
}

// populated reports whether dir exists and contains at least one entry.
func populated(dir string) bool {
	entries, err := os.ReadDir(dir)
	return err == nil && len(entries) > 0
}

func (f *Fetcher) logInfo(message string) {
	if f.log != nil {
		f.log.LogInfo(message)
	}
}

func (f *Fetcher) logDebug(message string) {
	if f.log != nil {
		f.log.LogDebug(message)
	}
}
