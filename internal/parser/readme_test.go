package parser

import (
	"errors"
	"testing"

	"github.com/harrison/plugdex/internal/models"
)

const validReadme = `This is a list of Neovim AI plugins.
This page is auto-generated and was last updated on "2025-06-04"

<details>
<summary>All Plugins</summary>

` + "```" + `
- https://github.com/foo/bar
- https://github.com/baz/qux
` + "```" + `
</details>
`

func TestExtractReferences(t *testing.T) {
	p := NewReadmeParser("All Plugins")

	refs, err := p.ExtractReferences([]byte(validReadme))
	if err != nil {
		t.Fatalf("Failed to extract references: %v", err)
	}

	expected := []models.Reference{
		"https://github.com/foo/bar",
		"https://github.com/baz/qux",
	}
	if len(refs) != len(expected) {
		t.Fatalf("Expected %d references, got %d", len(expected), len(refs))
	}
	for i, ref := range expected {
		if refs[i] != ref {
			t.Errorf("Expected reference %d to be %q, got %q", i, ref, refs[i])
		}
	}
}

func TestExtractReferencesPreservesDuplicates(t *testing.T) {
	readme := `<details>
<summary>All Plugins</summary>

` + "```" + `
- https://github.com/foo/bar
- https://github.com/foo/bar
` + "```" + `
</details>
`

	refs, err := NewReadmeParser("All Plugins").ExtractReferences([]byte(readme))
	if err != nil {
		t.Fatalf("Failed to extract references: %v", err)
	}
	if len(refs) != 2 {
		t.Errorf("Expected duplicates preserved (2 references), got %d", len(refs))
	}
}

func TestExtractReferencesMissingWidget(t *testing.T) {
	readme := "# Just a heading\n\nNo widget here.\n"

	_, err := NewReadmeParser("All Plugins").ExtractReferences([]byte(readme))
	if !errors.Is(err, ErrStructuralMismatch) {
		t.Errorf("Expected ErrStructuralMismatch, got %v", err)
	}
}

func TestExtractReferencesWrongSummaryText(t *testing.T) {
	readme := `<details>
<summary>Some Other Marker</summary>

` + "```" + `
- https://github.com/foo/bar
` + "```" + `
</details>
`

	_, err := NewReadmeParser("All Plugins").ExtractReferences([]byte(readme))
	if !errors.Is(err, ErrStructuralMismatch) {
		t.Errorf("Expected ErrStructuralMismatch, got %v", err)
	}
}

func TestExtractReferencesNoFollowingBlock(t *testing.T) {
	readme := `<details>
<summary>All Plugins</summary>
`

	_, err := NewReadmeParser("All Plugins").ExtractReferences([]byte(readme))
	if !errors.Is(err, ErrStructuralMismatch) {
		t.Errorf("Expected ErrStructuralMismatch, got %v", err)
	}
}

func TestExtractReferencesSiblingNotFenced(t *testing.T) {
	readme := `<details>
<summary>All Plugins</summary>

Just a paragraph, not a fenced block.
`

	_, err := NewReadmeParser("All Plugins").ExtractReferences([]byte(readme))
	if !errors.Is(err, ErrStructuralMismatch) {
		t.Errorf("Expected ErrStructuralMismatch, got %v", err)
	}
}

func TestExtractReferencesMalformedBullet(t *testing.T) {
	readme := `<details>
<summary>All Plugins</summary>

` + "```" + `
- https://github.com/foo/bar
https://github.com/missing/dash
` + "```" + `
</details>
`

	_, err := NewReadmeParser("All Plugins").ExtractReferences([]byte(readme))
	if !errors.Is(err, ErrGrammarViolation) {
		t.Errorf("Expected ErrGrammarViolation, got %v", err)
	}
}

func TestParseBulletListSkipsBlanksAndFences(t *testing.T) {
	refs, err := parseBulletList("```\n\n- one\n\n- two\n```\n")
	if err != nil {
		t.Fatalf("Failed to parse bullet list: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("Expected 2 references, got %d", len(refs))
	}
	if refs[0] != "one" || refs[1] != "two" {
		t.Errorf("Expected [one two], got %v", refs)
	}
}

func TestParseBulletListIndentedBullets(t *testing.T) {
	refs, err := parseBulletList("  - indented\n\t- tabbed\n")
	if err != nil {
		t.Fatalf("Failed to parse bullet list: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("Expected 2 references, got %d", len(refs))
	}
}

func TestExtractReferencesEmptyListIsNotAnError(t *testing.T) {
	// An empty list parses fine; rejecting it is the orchestrator's job.
	readme := `<details>
<summary>All Plugins</summary>

` + "```" + `
` + "```" + `
</details>
`

	refs, err := NewReadmeParser("All Plugins").ExtractReferences([]byte(readme))
	if err != nil {
		t.Fatalf("Expected no error for empty list, got %v", err)
	}
	if len(refs) != 0 {
		t.Errorf("Expected 0 references, got %d", len(refs))
	}
}

func TestExtractReferencesIgnoresOtherWidgets(t *testing.T) {
	readme := `<details>
<summary>Changelog</summary>

Some text.
</details>

<details>
<summary>All Plugins</summary>

` + "```" + `
- https://github.com/foo/bar
` + "```" + `
</details>
`

	refs, err := NewReadmeParser("All Plugins").ExtractReferences([]byte(readme))
	if err != nil {
		t.Fatalf("Failed to extract references: %v", err)
	}
	if len(refs) != 1 || refs[0] != "https://github.com/foo/bar" {
		t.Errorf("Expected one bar reference, got %v", refs)
	}
}
