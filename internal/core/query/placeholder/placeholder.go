package placeholder

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// Style is the positional placeholder syntax a driver understands.
type Style int

const (
	// Dollar is PostgreSQL style: $1, $2, ...
	Dollar Style = iota + 1
	// Question is MySQL and SQLite style: ?, ?, ...
	Question
)

var (
	// ErrMixedStyles indicates a template using a placeholder syntax other
	// than the one requested.
	ErrMixedStyles = errors.New("placeholder style does not match dialect")

	// ErrNonContiguous indicates $N placeholders that do not cover 1..N.
	ErrNonContiguous = errors.New("numbered placeholders are not contiguous from $1")

	// ErrUnknownStyle indicates a zero or unsupported Style value.
	ErrUnknownStyle = errors.New("unknown placeholder style")
)

// String returns the style name.
func (s Style) String() string {
	switch s {
	case Dollar:
		return "dollar"
	case Question:
		return "question"
	default:
		return "unknown"
	}
}

// Format renders the n-th (1-based) placeholder in this style.
func (s Style) Format(n int) string {
	if s == Dollar {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// Count returns the number of parameters the template expects when bound
// with the given style. For Dollar the count is the highest index, and every
// index from 1 up to it must appear at least once.
func Count(style Style, template string) (int, error) {
	tokens, err := Tokenize(template)
	if err != nil {
		return 0, err
	}

	switch style {
	case Dollar:
		return countDollar(tokens)
	case Question:
		return countQuestion(tokens)
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnknownStyle, int(style))
	}
}

func countQuestion(tokens []Token) (int, error) {
	n := 0
	for _, t := range tokens {
		switch t.Kind {
		case KindQuestion:
			n++
		case KindDollar:
			return 0, fmt.Errorf("%w: found %s in a ? template", ErrMixedStyles, t.Value)
		}
	}
	return n, nil
}

func countDollar(tokens []Token) (int, error) {
	seen := make(map[int]struct{})
	for _, t := range tokens {
		switch t.Kind {
		case KindDollar:
			idx, err := strconv.Atoi(t.Value[1:])
			if err != nil || idx < 1 {
				return 0, fmt.Errorf("%w: %s", ErrNonContiguous, t.Value)
			}
			seen[idx] = struct{}{}
		case KindQuestion:
			return 0, fmt.Errorf("%w: found ? in a $N template", ErrMixedStyles)
		}
	}

	indices := make([]int, 0, len(seen))
	for idx := range seen {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	for i, idx := range indices {
		if idx != i+1 {
			return 0, fmt.Errorf("%w: missing $%d", ErrNonContiguous, i+1)
		}
	}
	return len(indices), nil
}

// Summary describes the syntactic shape of a piece of SQL text.
type Summary struct {
	Strings      int
	Comments     int
	Semicolons   int
	Placeholders int
}

// Analyze tokenizes sql and counts the constructs that change how a
// statement is parsed. It is used to detect values that escaped their
// literal after being concatenated into query text.
func Analyze(sql string) (Summary, error) {
	tokens, err := Tokenize(sql)
	if err != nil {
		return Summary{}, err
	}

	var s Summary
	for _, t := range tokens {
		switch t.Kind {
		case KindString:
			s.Strings++
		case KindLineComment, KindBlockComment:
			s.Comments++
		case KindSemicolon:
			s.Semicolons++
		case KindDollar, KindQuestion:
			s.Placeholders++
		}
	}
	return s, nil
}
