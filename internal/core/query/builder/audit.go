package builder

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/safequery/internal/core/query/domain"
	"github.com/satishbabariya/safequery/internal/core/query/placeholder"
)

// Audit rule names.
const (
	RuleConcatenation = "concatenated-input"
	RuleQuote         = "quote"
	RuleSeparator     = "statement-separator"
	RuleLineComment   = "line-comment"
	RuleBlockComment  = "block-comment"
	RuleLiteralEscape = "literal-escape"
	RuleUnbalanced    = "unbalanced-quote"
)

// surviving lists SQL metacharacters that encodeURI leaves as-is.
var surviving = []struct {
	token string
	rule  string
	msg   string
}{
	{"'", RuleQuote, "single quote survives URI encoding and closes the literal"},
	{";", RuleSeparator, "semicolon survives URI encoding and can start a new statement"},
	{"--", RuleLineComment, "double dash survives URI encoding and comments out the rest of the query"},
	{"/*", RuleBlockComment, "block comment opener survives URI encoding"},
	{"*/", RuleBlockComment, "block comment closer survives URI encoding"},
}

// Audit explains why text, built by concatenating id, is unsafe. The first
// finding is always the concatenation itself; the rest name the characters
// that survived encoding and any change to the statement's shape.
func Audit(id domain.CategoryIdentifier, text string) []domain.Finding {
	findings := []domain.Finding{{
		Rule:    RuleConcatenation,
		Message: "untrusted input was concatenated into query text instead of bound as a parameter",
	}}

	seen := make(map[string]bool)
	for _, s := range surviving {
		if seen[s.rule] || !strings.Contains(string(id), s.token) {
			continue
		}
		seen[s.rule] = true
		findings = append(findings, domain.Finding{Rule: s.rule, Message: s.msg})
	}

	summary, err := placeholder.Analyze(text)
	switch {
	case err != nil:
		findings = append(findings, domain.Finding{
			Rule:    RuleUnbalanced,
			Message: fmt.Sprintf("query text no longer lexes: %v", err),
		})
	case summary.Strings != 1 || summary.Comments > 0 || summary.Semicolons > 0:
		findings = append(findings, domain.Finding{
			Rule: RuleLiteralEscape,
			Message: fmt.Sprintf("input escaped its literal: %d string literals, %d comments, %d statement separators",
				summary.Strings, summary.Comments, summary.Semicolons),
		})
	}

	return findings
}
