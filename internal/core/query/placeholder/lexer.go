// Package placeholder tokenizes SQL templates and counts their positional
// placeholders without being fooled by literals or comments.
package placeholder

import (
	"errors"
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
)

// SQLLexer splits SQL text into the tokens that matter for placeholder and
// literal analysis. Order matters: comments and quoted forms are matched
// before the single-character fallback.
var SQLLexer = lexer.MustSimple([]lexer.SimpleRule{
	// Comments
	{Name: "LineComment", Pattern: `--[^\n]*`},
	{Name: "BlockComment", Pattern: `/\*[\s\S]*?\*/`},

	// Quoted forms ('' and "" are escaped quotes)
	{Name: "String", Pattern: `'(?:[^']|'')*'`},
	{Name: "QuotedIdent", Pattern: `"(?:[^"]|"")*"`},
	{Name: "BacktickIdent", Pattern: "`[^`]*`"},

	// Placeholders
	{Name: "Dollar", Pattern: `\$\d+`},
	{Name: "Question", Pattern: `\?`},

	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_$]*`},
	{Name: "Number", Pattern: `\d+(?:\.\d+)?`},
	{Name: "Semicolon", Pattern: `;`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Punct", Pattern: `[^\s]`},
})

var symbols = lexer.SymbolsByRune(SQLLexer)

var (
	// ErrUnterminatedQuote indicates a quote character with no closing partner.
	ErrUnterminatedQuote = errors.New("unterminated quoted literal")

	// ErrUnterminatedComment indicates a block comment that is never closed.
	ErrUnterminatedComment = errors.New("unterminated block comment")
)

// Kind is the category of a lexed token.
type Kind string

// Token kinds produced by Tokenize.
const (
	KindLineComment   Kind = "LineComment"
	KindBlockComment  Kind = "BlockComment"
	KindString        Kind = "String"
	KindQuotedIdent   Kind = "QuotedIdent"
	KindBacktickIdent Kind = "BacktickIdent"
	KindDollar        Kind = "Dollar"
	KindQuestion      Kind = "Question"
	KindIdent         Kind = "Ident"
	KindNumber        Kind = "Number"
	KindSemicolon     Kind = "Semicolon"
	KindWhitespace    Kind = "Whitespace"
	KindPunct         Kind = "Punct"
)

// Token is a lexed piece of SQL text.
type Token struct {
	Kind   Kind
	Value  string
	Offset int
}

// Tokenize lexes sql into tokens. Quote characters or comment openers that
// are never closed are reported as errors rather than silently treated as
// punctuation.
func Tokenize(sql string) ([]Token, error) {
	lex, err := SQLLexer.LexString("", sql)
	if err != nil {
		return nil, fmt.Errorf("failed to lex sql: %w", err)
	}

	raw, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, fmt.Errorf("failed to lex sql: %w", err)
	}

	tokens := make([]Token, 0, len(raw))
	for _, t := range raw {
		if t.EOF() {
			break
		}
		kind := Kind(symbols[t.Type])

		if kind == KindPunct {
			switch t.Value {
			case "'", `"`, "`":
				return nil, fmt.Errorf("%w at offset %d", ErrUnterminatedQuote, t.Pos.Offset)
			case "/":
				if t.Pos.Offset+1 < len(sql) && sql[t.Pos.Offset+1] == '*' {
					return nil, fmt.Errorf("%w at offset %d", ErrUnterminatedComment, t.Pos.Offset)
				}
			}
		}

		tokens = append(tokens, Token{Kind: kind, Value: t.Value, Offset: t.Pos.Offset})
	}

	return tokens, nil
}
