// Package query describes board queries as plain data.
//
// A Predicate names a root table, the joins hanging off it, a boolean filter
// expression and whether duplicate root rows must be collapsed. Builders in
// this package are pure functions; a backend compiles the result into its own
// query language (see Compile for SQLite).
package query

// JoinKind selects the join flavour.
type JoinKind int

const (
	// LeftJoin keeps the left row when nothing matches on the right.
	LeftJoin JoinKind = iota
	// InnerJoin drops the left row when nothing matches on the right.
	InnerJoin
)

func (k JoinKind) String() string {
	switch k {
	case LeftJoin:
		return "LEFT JOIN"
	case InnerJoin:
		return "JOIN"
	default:
		return "UNKNOWN JOIN"
	}
}

// Field is a column addressed through a table alias.
type Field struct {
	Alias  string
	Column string
}

func (f Field) String() string {
	return f.Alias + "." + f.Column
}

// Join attaches Table under Alias, matching On (a column of an alias already
// in scope) against To (a column of the new alias).
type Join struct {
	Kind  JoinKind
	Table string
	Alias string
	On    Field
	To    Field
}

// Expr is a node of a filter expression.
type Expr interface {
	expr()
}

// Contains holds when Field contains Value as a substring. String comparison
// follows the backend's default collation.
type Contains struct {
	Field Field
	Value string
}

// Equals holds when Field equals Value.
type Equals struct {
	Field Field
	Value any
}

// Or holds when any term holds. An empty Or never holds.
type Or []Expr

// And holds when every term holds. An empty And always holds.
type And []Expr

func (Contains) expr() {}
func (Equals) expr()   {}
func (Or) expr()       {}
func (And) expr()      {}

// Predicate is a complete filter over a join graph rooted at Table.
type Predicate struct {
	Table    string
	Alias    string
	Joins    []Join
	Where    Expr
	Distinct bool
}

// Aliases returns the root alias followed by every join alias in order.
func (p Predicate) Aliases() []string {
	out := make([]string, 0, len(p.Joins)+1)
	out = append(out, p.Alias)
	for _, j := range p.Joins {
		out = append(out, j.Alias)
	}
	return out
}

// Table and alias names of the board schema.
const (
	QuestionTable = "questions"
	AnswerTable   = "answers"
	UserTable     = "users"

	QuestionAlias       = "q"
	QuestionAuthorAlias = "u1"
	AnswerAlias         = "a"
	AnswerAuthorAlias   = "u2"
)

// Searchable fields of the question thread.
var (
	QuestionID             = Field{QuestionAlias, "id"}
	QuestionSubject        = Field{QuestionAlias, "subject"}
	QuestionBody           = Field{QuestionAlias, "body"}
	QuestionAuthorID       = Field{QuestionAlias, "author_id"}
	QuestionAuthorUsername = Field{QuestionAuthorAlias, "username"}
	AnswerBody             = Field{AnswerAlias, "body"}
	AnswerAuthorUsername   = Field{AnswerAuthorAlias, "username"}
)

func questionAuthorJoin() Join {
	return Join{
		Kind:  LeftJoin,
		Table: UserTable,
		Alias: QuestionAuthorAlias,
		On:    QuestionAuthorID,
		To:    Field{QuestionAuthorAlias, "id"},
	}
}

// BuildSearchPredicate returns the keyword filter for question listings.
//
// Questions are left joined to their author, their answers and the answers'
// authors, so a question without answers still matches on its own fields.
// The answer join fans a question out into one row per answer, which is why
// the predicate always asks for distinct question rows. The empty keyword
// matches every question.
func BuildSearchPredicate(keyword string) Predicate {
	return Predicate{
		Table: QuestionTable,
		Alias: QuestionAlias,
		Joins: []Join{
			questionAuthorJoin(),
			{
				Kind:  LeftJoin,
				Table: AnswerTable,
				Alias: AnswerAlias,
				On:    QuestionID,
				To:    Field{AnswerAlias, "question_id"},
			},
			{
				Kind:  LeftJoin,
				Table: UserTable,
				Alias: AnswerAuthorAlias,
				On:    Field{AnswerAlias, "author_id"},
				To:    Field{AnswerAuthorAlias, "id"},
			},
		},
		Where: Or{
			Contains{QuestionSubject, keyword},
			Contains{QuestionBody, keyword},
			Contains{QuestionAuthorUsername, keyword},
			Contains{AnswerBody, keyword},
			Contains{AnswerAuthorUsername, keyword},
		},
		Distinct: true,
	}
}

// BuildAuthorPredicate returns the filter for questions written by one user.
func BuildAuthorPredicate(userID int64) Predicate {
	return Predicate{
		Table:    QuestionTable,
		Alias:    QuestionAlias,
		Joins:    []Join{questionAuthorJoin()},
		Where:    Equals{QuestionAuthorID, userID},
		Distinct: true,
	}
}
