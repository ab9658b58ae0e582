package query

import (
	"fmt"
	"regexp"
	"strings"
)

var identRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Compiled is a predicate rendered as SQLite fragments. From holds the root
// table and joins, Where the filter (without the WHERE keyword) and Args the
// bound parameters in placeholder order.
type Compiled struct {
	From     string
	Where    string
	Args     []any
	Distinct bool
}

// CompileOption tweaks compilation.
type CompileOption func(*compiler)

// WithEscapedWildcards makes Contains match '%' and '_' literally. Without it
// the keyword is bound as-is and LIKE wildcards inside it keep their meaning.
func WithEscapedWildcards(enabled bool) CompileOption {
	return func(c *compiler) {
		c.escape = enabled
	}
}

type compiler struct {
	escape  bool
	aliases map[string]bool
	args    []any
}

// Compile renders p for SQLite. Identifiers are interpolated, so every table,
// alias and column must be a plain lowercase identifier and every field must
// reference an alias in scope. Values are always bound.
func Compile(p Predicate, opts ...CompileOption) (Compiled, error) {
	c := &compiler{aliases: make(map[string]bool)}
	for _, opt := range opts {
		opt(c)
	}

	if err := checkIdent(p.Table, p.Alias); err != nil {
		return Compiled{}, err
	}
	c.aliases[p.Alias] = true

	var from strings.Builder
	from.WriteString(p.Table + " " + p.Alias)
	for _, j := range p.Joins {
		if err := checkIdent(j.Table, j.Alias); err != nil {
			return Compiled{}, err
		}
		if c.aliases[j.Alias] {
			return Compiled{}, fmt.Errorf("duplicate alias %q", j.Alias)
		}
		if err := c.checkField(j.On); err != nil {
			return Compiled{}, fmt.Errorf("join %s: %w", j.Alias, err)
		}
		c.aliases[j.Alias] = true
		if err := c.checkField(j.To); err != nil {
			return Compiled{}, fmt.Errorf("join %s: %w", j.Alias, err)
		}
		fmt.Fprintf(&from, " %s %s %s ON %s = %s", j.Kind, j.Table, j.Alias, j.To, j.On)
	}

	where := "1 = 1"
	if p.Where != nil {
		var err error
		where, err = c.expr(p.Where)
		if err != nil {
			return Compiled{}, err
		}
	}

	return Compiled{
		From:     from.String(),
		Where:    where,
		Args:     c.args,
		Distinct: p.Distinct,
	}, nil
}

func (c *compiler) expr(e Expr) (string, error) {
	switch v := e.(type) {
	case Contains:
		if err := c.checkField(v.Field); err != nil {
			return "", err
		}
		if c.escape {
			c.args = append(c.args, escapeLike(v.Value))
			return v.Field.String() + ` LIKE '%' || ? || '%' ESCAPE '\'`, nil
		}
		c.args = append(c.args, v.Value)
		return v.Field.String() + " LIKE '%' || ? || '%'", nil
	case Equals:
		if err := c.checkField(v.Field); err != nil {
			return "", err
		}
		c.args = append(c.args, v.Value)
		return v.Field.String() + " = ?", nil
	case Or:
		return c.join(v, " OR ", "0 = 1")
	case And:
		return c.join(v, " AND ", "1 = 1")
	case nil:
		return "", fmt.Errorf("nil expression")
	default:
		return "", fmt.Errorf("unsupported expression %T", e)
	}
}

func (c *compiler) join(terms []Expr, sep, empty string) (string, error) {
	if len(terms) == 0 {
		return empty, nil
	}
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		s, err := c.expr(t)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return "(" + strings.Join(parts, sep) + ")", nil
}

func (c *compiler) checkField(f Field) error {
	if !identRe.MatchString(f.Column) {
		return fmt.Errorf("invalid column %q", f.Column)
	}
	if !c.aliases[f.Alias] {
		return fmt.Errorf("alias %q not in scope", f.Alias)
	}
	return nil
}

func checkIdent(table, alias string) error {
	if !identRe.MatchString(table) {
		return fmt.Errorf("invalid table %q", table)
	}
	if !identRe.MatchString(alias) {
		return fmt.Errorf("invalid alias %q", alias)
	}
	return nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
