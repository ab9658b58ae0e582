package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rubiojr/qboard/pkg/core"
)

// questionColumns expects questions aliased q and the author joined as u1.
const questionColumns = `q.id, q.subject, q.body, q.create_date, q.modify_date, q.author_id,
	COALESCE(u1.username, ''), COALESCE(u1.email, ''),
	(SELECT COUNT(*) FROM answers ac WHERE ac.question_id = q.id),
	(SELECT COUNT(*) FROM question_voters qv WHERE qv.question_id = q.id)`

func scanQuestion(row scanner) (core.Question, error) {
	var q core.Question
	var created int64
	var modified sql.NullInt64
	err := row.Scan(
		&q.ID,
		&q.Subject,
		&q.Body,
		&created,
		&modified,
		&q.Author.ID,
		&q.Author.Username,
		&q.Author.Email,
		&q.AnswerCount,
		&q.VoterCount,
	)
	if err != nil {
		return core.Question{}, err
	}
	q.CreateDate = fromNanos(created)
	q.ModifyDate = fromNullNanos(modified)
	return q, nil
}

// GetQuestion returns a question with its answers (oldest first) and its
// endorsers.
func (s *Store) GetQuestion(ctx context.Context, id int64) (core.Question, error) {
	var q core.Question
	err := s.withTx(ctx, true, func(tx *sql.Tx) error {
		var err error
		q, err = getQuestion(ctx, tx, id)
		return err
	})
	return q, classify(fmt.Sprintf("getting question %d", id), err)
}

func getQuestion(ctx context.Context, tx *sql.Tx, id int64) (core.Question, error) {
	row := tx.QueryRowContext(ctx, `
		SELECT `+questionColumns+`
		FROM questions q
		LEFT JOIN users u1 ON u1.id = q.author_id
		WHERE q.id = ?`, id)
	q, err := scanQuestion(row)
	if err != nil {
		return core.Question{}, err
	}

	q.Answers, err = listAnswers(ctx, tx, id)
	if err != nil {
		return core.Question{}, fmt.Errorf("listing answers: %w", err)
	}
	q.Voters, err = listVoters(ctx, tx, "question_voters", "question_id", id)
	if err != nil {
		return core.Question{}, fmt.Errorf("listing voters: %w", err)
	}
	return q, nil
}

// CreateQuestion stores a new question authored by authorID.
func (s *Store) CreateQuestion(ctx context.Context, subject, body string, authorID int64) (core.Question, error) {
	var q core.Question
	err := s.withTx(ctx, false, func(tx *sql.Tx) error {
		if err := exists(ctx, tx, "users", authorID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			"INSERT INTO questions (subject, body, create_date, author_id) VALUES (?, ?, ?, ?)",
			subject, body, s.stamp(), authorID)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		q, err = getQuestion(ctx, tx, id)
		return err
	})
	return q, classify("creating question", err)
}

// ModifyQuestion replaces subject and body and stamps the modification date.
func (s *Store) ModifyQuestion(ctx context.Context, id int64, subject, body string) (core.Question, error) {
	var q core.Question
	err := s.withTx(ctx, false, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE questions SET subject = ?, body = ?, modify_date = ? WHERE id = ?",
			subject, body, s.stamp(), id)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return fmt.Errorf("question %d: %w", id, core.ErrNotFound)
		}
		q, err = getQuestion(ctx, tx, id)
		return err
	})
	return q, classify(fmt.Sprintf("modifying question %d", id), err)
}

// DeleteQuestion removes a question together with its answers and every
// endorsement attached to either. Users are never touched.
func (s *Store) DeleteQuestion(ctx context.Context, id int64) error {
	err := s.withTx(ctx, false, func(tx *sql.Tx) error {
		stmts := []string{
			"DELETE FROM answer_voters WHERE answer_id IN (SELECT id FROM answers WHERE question_id = ?)",
			"DELETE FROM answers WHERE question_id = ?",
			"DELETE FROM question_voters WHERE question_id = ?",
		}
		for _, stmt := range stmts {
			if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
				return err
			}
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM questions WHERE id = ?", id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("question %d: %w", id, core.ErrNotFound)
		}
		return nil
	})
	return classify(fmt.Sprintf("deleting question %d", id), err)
}

// EachQuestion calls fn with every question, newest first, fully loaded, from
// a single consistent snapshot.
func (s *Store) EachQuestion(ctx context.Context, fn func(core.Question) error) error {
	var fnErr error
	err := s.withTx(ctx, true, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, "SELECT id FROM questions ORDER BY create_date DESC, id DESC")
		if err != nil {
			return err
		}
		var ids []int64
		for rows.Next() {
			var id int64
			if err := rows.Scan(&id); err != nil {
				closeRows(rows)
				return err
			}
			ids = append(ids, id)
		}
		closeRows(rows)
		if err := rows.Err(); err != nil {
			return err
		}

		for _, id := range ids {
			q, err := getQuestion(ctx, tx, id)
			if err != nil {
				return err
			}
			if fnErr = fn(q); fnErr != nil {
				return fnErr
			}
		}
		return nil
	})
	if fnErr != nil {
		return fnErr
	}
	return classify("iterating questions", err)
}

// Stats counts the rows of every board table.
func (s *Store) Stats(ctx context.Context) (core.Stats, error) {
	var st core.Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM questions),
			(SELECT COUNT(*) FROM answers),
			(SELECT COUNT(*) FROM question_voters),
			(SELECT COUNT(*) FROM answer_voters)`).
		Scan(&st.Users, &st.Questions, &st.Answers, &st.QuestionVotes, &st.AnswerVotes)
	return st, classify("getting stats", err)
}
