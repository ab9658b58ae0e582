package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileSearchPredicate(t *testing.T) {
	c, err := Compile(BuildSearchPredicate("go"))
	require.NoError(t, err)

	assert.Equal(t,
		"questions q"+
			" LEFT JOIN users u1 ON u1.id = q.author_id"+
			" LEFT JOIN answers a ON a.question_id = q.id"+
			" LEFT JOIN users u2 ON u2.id = a.author_id",
		c.From)
	assert.Equal(t,
		"(q.subject LIKE '%' || ? || '%'"+
			" OR q.body LIKE '%' || ? || '%'"+
			" OR u1.username LIKE '%' || ? || '%'"+
			" OR a.body LIKE '%' || ? || '%'"+
			" OR u2.username LIKE '%' || ? || '%')",
		c.Where)
	assert.Equal(t, []any{"go", "go", "go", "go", "go"}, c.Args)
	assert.True(t, c.Distinct)
}

func TestCompileKeepsWildcardsByDefault(t *testing.T) {
	c, err := Compile(BuildSearchPredicate("100%_done"))
	require.NoError(t, err)
	assert.Equal(t, "100%_done", c.Args[0])
	assert.NotContains(t, c.Where, "ESCAPE")
}

func TestCompileEscapedWildcards(t *testing.T) {
	c, err := Compile(BuildSearchPredicate(`100%_do\ne`), WithEscapedWildcards(true))
	require.NoError(t, err)
	assert.Equal(t, `100\%\_do\\ne`, c.Args[0])
	assert.Contains(t, c.Where, `ESCAPE '\'`)
}

func TestCompileAuthorPredicate(t *testing.T) {
	c, err := Compile(BuildAuthorPredicate(7))
	require.NoError(t, err)
	assert.Equal(t, "q.author_id = ?", c.Where)
	assert.Equal(t, []any{int64(7)}, c.Args)
}

func TestCompileEmptyExpressions(t *testing.T) {
	p := Predicate{Table: "questions", Alias: "q"}
	c, err := Compile(p)
	require.NoError(t, err)
	assert.Equal(t, "1 = 1", c.Where)

	p.Where = Or{}
	c, err = Compile(p)
	require.NoError(t, err)
	assert.Equal(t, "0 = 1", c.Where)

	p.Where = And{Equals{Field{"q", "id"}, 1}, Contains{Field{"q", "body"}, "x"}}
	c, err = Compile(p)
	require.NoError(t, err)
	assert.Equal(t, "(q.id = ? AND q.body LIKE '%' || ? || '%')", c.Where)
	assert.Equal(t, []any{1, "x"}, c.Args)
}

func TestCompileRejectsMalformedPredicates(t *testing.T) {
	tests := []struct {
		name string
		p    Predicate
	}{
		{
			name: "bad table",
			p:    Predicate{Table: "questions; drop", Alias: "q"},
		},
		{
			name: "unknown alias in where",
			p:    Predicate{Table: "questions", Alias: "q", Where: Contains{Field{"z", "body"}, "x"}},
		},
		{
			name: "bad column",
			p:    Predicate{Table: "questions", Alias: "q", Where: Equals{Field{"q", "id OR 1"}, 1}},
		},
		{
			name: "join references later alias",
			p: Predicate{Table: "questions", Alias: "q", Joins: []Join{
				{Kind: LeftJoin, Table: "users", Alias: "u", On: Field{"a", "author_id"}, To: Field{"u", "id"}},
			}},
		},
		{
			name: "duplicate alias",
			p: Predicate{Table: "questions", Alias: "q", Joins: []Join{
				{Kind: LeftJoin, Table: "users", Alias: "q", On: Field{"q", "author_id"}, To: Field{"q", "id"}},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.p)
			assert.Error(t, err)
		})
	}
}
