package placeholder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCount(t *testing.T) {
	tests := []struct {
		name     string
		style    Style
		template string
		want     int
		wantErr  error
	}{
		{
			name:     "single dollar",
			style:    Dollar,
			template: "SELECT ITEM,PRICE FROM PRODUCT WHERE ITEM_CATEGORY=$1 ORDER BY PRICE",
			want:     1,
		},
		{
			name:     "repeated dollar counts once",
			style:    Dollar,
			template: "SELECT * FROM t WHERE a = $1 OR b = $1 AND c = $2",
			want:     2,
		},
		{
			name:     "dollar gap",
			style:    Dollar,
			template: "SELECT * FROM t WHERE a = $1 AND c = $3",
			wantErr:  ErrNonContiguous,
		},
		{
			name:     "dollar zero",
			style:    Dollar,
			template: "SELECT * FROM t WHERE a = $0",
			wantErr:  ErrNonContiguous,
		},
		{
			name:     "question marks",
			style:    Question,
			template: "SELECT * FROM t WHERE a = ? AND b = ?",
			want:     2,
		},
		{
			name:     "no placeholders",
			style:    Question,
			template: "SELECT 1",
			want:     0,
		},
		{
			name:     "placeholder inside string literal ignored",
			style:    Question,
			template: "SELECT * FROM t WHERE a = '?' AND b = ?",
			want:     1,
		},
		{
			name:     "escaped quote inside literal",
			style:    Dollar,
			template: "SELECT * FROM t WHERE a = 'it''s $2' AND b = $1",
			want:     1,
		},
		{
			name:     "placeholder inside comments ignored",
			style:    Question,
			template: "SELECT * FROM t -- where a = ?\nWHERE b = ? /* and c = ? */",
			want:     1,
		},
		{
			name:     "placeholder inside quoted identifier ignored",
			style:    Dollar,
			template: `SELECT "col$2" FROM t WHERE a = $1`,
			want:     1,
		},
		{
			name:     "question in dollar template",
			style:    Dollar,
			template: "SELECT * FROM t WHERE a = ?",
			wantErr:  ErrMixedStyles,
		},
		{
			name:     "dollar in question template",
			style:    Question,
			template: "SELECT * FROM t WHERE a = $1",
			wantErr:  ErrMixedStyles,
		},
		{
			name:     "unterminated literal",
			style:    Question,
			template: "SELECT * FROM t WHERE a = 'oops AND b = ?",
			wantErr:  ErrUnterminatedQuote,
		},
		{
			name:     "unterminated comment",
			style:    Question,
			template: "SELECT * FROM t /* WHERE b = ?",
			wantErr:  ErrUnterminatedComment,
		},
		{
			name:     "unknown style",
			style:    Style(0),
			template: "SELECT 1",
			wantErr:  ErrUnknownStyle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Count(tt.style, tt.template)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStyleFormat(t *testing.T) {
	assert.Equal(t, "$1", Dollar.Format(1))
	assert.Equal(t, "$12", Dollar.Format(12))
	assert.Equal(t, "?", Question.Format(3))
	assert.Equal(t, "dollar", Dollar.String())
	assert.Equal(t, "question", Question.String())
	assert.Equal(t, "unknown", Style(42).String())
}

func TestAnalyze(t *testing.T) {
	t.Run("well formed literal", func(t *testing.T) {
		s, err := Analyze("SELECT ITEM FROM PRODUCT WHERE ITEM_CATEGORY='Electronics' ORDER BY PRICE")
		require.NoError(t, err)
		assert.Equal(t, Summary{Strings: 1}, s)
	})

	t.Run("value that escapes its literal", func(t *testing.T) {
		s, err := Analyze("SELECT ITEM FROM PRODUCT WHERE ITEM_CATEGORY='x'OR'1'='1' ORDER BY PRICE")
		require.NoError(t, err)
		assert.Equal(t, 3, s.Strings)
	})

	t.Run("stacked statement and comment", func(t *testing.T) {
		s, err := Analyze("SELECT 1 FROM t WHERE c='a';DROP TABLE t;--' ORDER BY 1")
		require.NoError(t, err)
		assert.Equal(t, 1, s.Strings)
		assert.Equal(t, 2, s.Semicolons)
		assert.Equal(t, 1, s.Comments)
	})
}

func TestTokenize(t *testing.T) {
	tokens, err := Tokenize("SELECT a FROM t WHERE b=$1")
	require.NoError(t, err)

	var kinds []Kind
	for _, tok := range tokens {
		if tok.Kind != KindWhitespace {
			kinds = append(kinds, tok.Kind)
		}
	}
	assert.Equal(t, []Kind{
		KindIdent, KindIdent, KindIdent, KindIdent, KindIdent, KindIdent, KindPunct, KindDollar,
	}, kinds)
}
