package storage

import (
	"context"
	"database/sql"
	"fmt"
	"slices"

	"github.com/rubiojr/qboard/pkg/core"
	"github.com/rubiojr/qboard/pkg/query"
)

// Search returns one page of questions whose subject, body, author name, any
// answer body or any answer author name contains keyword, newest first.
//
// Pages are 0-based and hold core.PageSize questions. A negative page fails
// with core.ErrInvalidArgument; a page past the end is empty but still
// carries the totals. LIKE follows SQLite's default collation, so ASCII
// letters match case-insensitively.
func (s *Store) Search(ctx context.Context, keyword string, page int) (core.Page[core.Question], error) {
	return s.PageQuestions(ctx, query.BuildSearchPredicate(keyword), page)
}

// QuestionsByAuthor pages through the questions written by userID, newest
// first.
func (s *Store) QuestionsByAuthor(ctx context.Context, userID int64, page int) (core.Page[core.Question], error) {
	return s.PageQuestions(ctx, query.BuildAuthorPredicate(userID), page)
}

// PageQuestions runs a question predicate. The predicate must be rooted at
// questions (alias q) and join the question author as u1.
//
// The count and the page window are read in one read transaction over the
// same FROM and WHERE clauses, so the totals always describe the
// deduplicated, filtered set the page was cut from.
func (s *Store) PageQuestions(ctx context.Context, p query.Predicate, page int) (core.Page[core.Question], error) {
	if page < 0 {
		return core.Page[core.Question]{}, fmt.Errorf("page %d: %w: page must not be negative", page, core.ErrInvalidArgument)
	}
	if p.Table != query.QuestionTable || p.Alias != query.QuestionAlias ||
		!slices.Contains(p.Aliases(), query.QuestionAuthorAlias) {
		return core.Page[core.Question]{}, fmt.Errorf("%w: predicate must select questions with their author", core.ErrInvalidArgument)
	}

	c, err := query.Compile(p, query.WithEscapedWildcards(s.escape))
	if err != nil {
		return core.Page[core.Question]{}, fmt.Errorf("%w: compiling predicate: %w", core.ErrInvalidArgument, err)
	}

	distinct, count := "", "COUNT(*)"
	if c.Distinct {
		distinct, count = "DISTINCT ", "COUNT(DISTINCT q.id)"
	}
	countSQL := "SELECT " + count + " FROM " + c.From + " WHERE " + c.Where
	pageSQL := "SELECT " + distinct + questionColumns +
		" FROM " + c.From +
		" WHERE " + c.Where +
		" ORDER BY q.create_date DESC, q.id DESC LIMIT ? OFFSET ?"

	logger.Debugf("page %d: %s %v", page, pageSQL, c.Args)

	var total int
	var items []core.Question
	err = s.withTx(ctx, true, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, countSQL, c.Args...).Scan(&total); err != nil {
			return fmt.Errorf("counting questions: %w", err)
		}

		if total == 0 || page > (total-1)/core.PageSize {
			return nil
		}

		args := append(slices.Clone(c.Args), core.PageSize, page*core.PageSize)
		rows, err := tx.QueryContext(ctx, pageSQL, args...)
		if err != nil {
			return fmt.Errorf("querying questions: %w", err)
		}
		defer closeRows(rows)

		items = make([]core.Question, 0, core.PageSize)
		for rows.Next() {
			q, err := scanQuestion(rows)
			if err != nil {
				return fmt.Errorf("scanning question: %w", err)
			}
			items = append(items, q)
		}
		return rows.Err()
	})
	if err != nil {
		return core.Page[core.Question]{}, classify("searching questions", err)
	}

	return core.NewPage(items, page, core.PageSize, total), nil
}
