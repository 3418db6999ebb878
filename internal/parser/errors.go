package parser

import "errors"

var (
	// ErrStructuralMismatch indicates the document no longer contains the
	// expected disclosure widget / fenced list shape.
	ErrStructuralMismatch = errors.New("parser: embedded list structure not found")
	// ErrGrammarViolation indicates a line inside the fenced list is not a
	// valid bullet entry.
	ErrGrammarViolation = errors.New("parser: malformed bullet line")
	// ErrEmptyList indicates the embedded list parsed successfully but
	// contains no references.
	ErrEmptyList = errors.New("parser: embedded list is empty")
)
