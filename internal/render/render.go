// Package render serializes the grouped tables and composes the final
// README text. Output is deterministic: categories render in lexicographic
// label order, rows sort by their rendered text, and the embedded reference
// list is re-emitted sorted. The disclosure block written here must remain
// parseable by the parser package, since it is the input of the next run.
package render

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/harrison/plugdex/internal/models"
)

// ErrEmptyTable indicates a category reached the serializer with no rows,
// which violates the grouping invariant.
var ErrEmptyTable = errors.New("render: category has no rows")

const (
	noDescription = "`<No description found>`"
	noLicense     = "`<No license found>`"
	noModels      = "<No AI models were found>"

	tableHeader = "| :ab: Name | :notebook: Description | :star2: Stars | :robot: Models | :date: Updated | :balance_scale: License |\n" +
		"| --------- | ---------------------- | ------------- | -------------- | -------------- | ----------------------- |"

	footer = "\n\n\n## Generating This List\n```sh\n" +
		"GITHUB_TOKEN=\"your API token here\" make generate\n" +
		"# Or directly\n" +
		"GITHUB_TOKEN=\"your API token here\" plugdex generate\n" +
		"```\n"
)

// Composer renders the full document.
type Composer struct {
	marker string
	now    func() time.Time
}

// Option configures a Composer.
type Option func(*Composer)

// WithClock overrides the generated-on timestamp source. Tests use this to
// pin the header date.
func WithClock(now func() time.Time) Option {
	return func(c *Composer) { c.now = now }
}

// NewComposer creates a Composer using marker as the disclosure widget
// summary label.
func NewComposer(marker string, opts ...Option) *Composer {
	c := &Composer{
		marker: marker,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose renders the complete README text: the header with the embedded
// reference list, the enriched tables, and the regeneration footer.
func (c *Composer) Compose(refs []models.Reference, tables models.Tables) (string, error) {
	var middle string

	if !tables.IsEmpty() {
		sections, err := tableSections(tables)
		if err != nil {
			return "", err
		}
		middle = "\n\n" + strings.Join(sections, "\n")
	}

	return c.header(refs) + middle + footer, nil
}

// header renders the top of the document, including the disclosure widget
// with the sorted embedded list. Duplicate references are re-emitted as-is;
// deduplication only applies to enriched rows.
func (c *Composer) header(refs []models.Reference) string {
	bullets := make([]string, 0, len(refs))
	for _, ref := range refs {
		bullets = append(bullets, "- "+string(ref))
	}
	sort.Strings(bullets)

	return fmt.Sprintf(
		"This is a list of Neovim AI plugins.\n"+
			"This page is auto-generated and was last updated on %q\n"+
			"\n"+
			"<details>\n"+
			"<summary>%s</summary>\n"+
			"\n"+
			"```\n"+
			"%s\n"+
			"```\n"+
			"</details>\n",
		c.now().Format("2006-01-02"),
		c.marker,
		strings.Join(bullets, "\n"),
	)
}

// tableSections renders one section per category, in lexicographic category
// order, followed by the unknown-entry section when present.
func tableSections(tables models.Tables) ([]string, error) {
	labels := make([]string, 0, len(tables.ByCategory))
	for label := range tables.ByCategory {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var sections []string

	for _, label := range labels {
		rows := tables.ByCategory[label]
		if len(rows) == 0 {
			return nil, fmt.Errorf("%w: %q", ErrEmptyTable, label)
		}

		sections = append(sections, sectionHeading(label)+"\n\n"+serializeTable(rows))
	}

	if len(tables.Unknown) > 0 {
		sections = append(sections, sectionHeading("Unknown")+"\n\n"+serializeUnknown(tables.Unknown))
	}

	return sections, nil
}

// sectionHeading renders a capitalized label with an "=" underline matching
// the label length.
func sectionHeading(label string) string {
	return capitalize(label) + "\n" + strings.Repeat("=", len(label))
}

// serializeTable renders a pipe-delimited table. Row lines sort
// lexicographically by rendered text so output does not depend on
// enrichment order.
func serializeTable(rows []models.Row) string {
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, serializeRow(row))
	}
	sort.Strings(lines)

	return tableHeader + "\n" + strings.Join(lines, "\n")
}

func serializeRow(row models.Row) string {
	parts := []string{
		row.RepositoryLabel(),
		descriptionCell(row.Description),
		fmt.Sprintf(":star2: %d", row.StarCount),
		modelsCell(row.Models),
		row.LastCommitDate,
		licenseCell(row.License),
	}
	return "| " + strings.Join(parts, " | ") + " |"
}

func descriptionCell(description string) string {
	if description == "" {
		return noDescription
	}
	return description
}

func modelsCell(found []models.Model) string {
	if len(found) == 0 {
		return noModels
	}

	tags := make([]string, 0, len(found))
	for _, model := range found {
		tags = append(tags, model.MarkdownTag())
	}
	sort.Strings(tags)

	return strings.Join(tags, " ")
}

func licenseCell(license *models.License) string {
	if license == nil {
		return noLicense
	}
	if license.URL == "" {
		return license.Name
	}
	return fmt.Sprintf("[%s](%s)", license.Name, license.URL)
}

// serializeUnknown renders unclassifiable references as a sorted bullet
// list so they still appear in the output.
func serializeUnknown(rows []models.UnknownRow) string {
	bullets := make([]string, 0, len(rows))
	for _, row := range rows {
		bullets = append(bullets, "- "+row.URL)
	}
	sort.Strings(bullets)

	return strings.Join(bullets, "\n")
}

// capitalize upper-cases the first rune and lower-cases the rest, matching
// the heading style of the generated document.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
