// Package generator composes the regeneration pipeline: read the README,
// recover the embedded reference list, enrich it, and rewrite the document.
// Every stage failure aborts the run before anything is written, so a
// failed run always leaves the prior document untouched.
package generator

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/harrison/plugdex/internal/enrich"
	"github.com/harrison/plugdex/internal/filelock"
	"github.com/harrison/plugdex/internal/models"
	"github.com/harrison/plugdex/internal/parser"
	"github.com/harrison/plugdex/internal/render"
)

// Logger receives progress messages. May be nil.
type Logger interface {
	LogInfo(message string)
	LogDebug(message string)
}

// Generator runs the regeneration pipeline against one README document.
type Generator struct {
	readmePath string
	parser     *parser.ReadmeParser
	enricher   *enrich.Enricher
	composer   *render.Composer
	log        Logger
}

// New wires a Generator from its collaborators.
func New(readmePath string, p *parser.ReadmeParser, e *enrich.Enricher, c *render.Composer, log Logger) *Generator {
	return &Generator{
		readmePath: readmePath,
		parser:     p,
		enricher:   e,
		composer:   c,
		log:        log,
	}
}

// Generate produces the full regenerated document text in memory without
// touching the README on disk.
func (g *Generator) Generate(ctx context.Context) (string, error) {
	runID := uuid.New().String()[:8]
	g.logInfo(fmt.Sprintf("[run %s] Regenerating %q.", runID, g.readmePath))

	data, err := os.ReadFile(g.readmePath)
	if err != nil {
		return "", fmt.Errorf("read document %q: %w", g.readmePath, err)
	}

	refs, err := g.parser.ExtractReferences(data)
	if err != nil {
		return "", err
	}
	if len(refs) == 0 {
		return "", fmt.Errorf("%w: %q", parser.ErrEmptyList, g.readmePath)
	}
	g.logDebug(fmt.Sprintf("[run %s] Parsed %d reference(s).", runID, len(refs)))

	tables, err := g.enricher.Enrich(ctx, refs)
	if err != nil {
		return "", err
	}
	g.logDebug(fmt.Sprintf("[run %s] Enriched %d categorie(s), %d unknown entrie(s).",
		runID, len(tables.ByCategory), len(tables.Unknown)))

	text, err := g.composer.Compose(refs, tables)
	if err != nil {
		return "", err
	}

	g.logInfo(fmt.Sprintf("[run %s] Composed %d bytes.", runID, len(text)))
	return text, nil
}

// Run regenerates the document and replaces it atomically. The README is
// only overwritten once the full text has been composed in memory.
func (g *Generator) Run(ctx context.Context) error {
	text, err := g.Generate(ctx)
	if err != nil {
		return err
	}
	return filelock.LockAndWrite(g.readmePath, []byte(text))
}

// Validate parses the embedded list and reports the references it found,
// without enrichment or writing. Used by the validate command.
func (g *Generator) Validate() ([]models.Reference, error) {
	data, err := os.ReadFile(g.readmePath)
	if err != nil {
		return nil, fmt.Errorf("read document %q: %w", g.readmePath, err)
	}

	refs, err := g.parser.ExtractReferences(data)
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return nil, fmt.Errorf("%w: %q", parser.ErrEmptyList, g.readmePath)
	}

	return refs, nil
}

func (g *Generator) logInfo(message string) {
	if g.log != nil {
		g.log.LogInfo(message)
	}
}

func (g *Generator) logDebug(message string) {
	if g.log != nil {
		g.log.LogDebug(message)
	}
}
