package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rubiojr/qboard/pkg/core"
)

const answerColumns = `a.id, a.question_id, a.body, a.create_date, a.modify_date,
	a.author_id, COALESCE(u.username, ''), COALESCE(u.email, ''),
	(SELECT COUNT(*) FROM answer_voters av WHERE av.answer_id = a.id)`

func scanAnswer(row scanner) (core.Answer, error) {
	var a core.Answer
	var created int64
	var modified, authorID sql.NullInt64
	err := row.Scan(
		&a.ID,
		&a.QuestionID,
		&a.Body,
		&created,
		&modified,
		&authorID,
		&a.Author.Username,
		&a.Author.Email,
		&a.VoterCount,
	)
	if err != nil {
		return core.Answer{}, err
	}
	a.CreateDate = fromNanos(created)
	a.ModifyDate = fromNullNanos(modified)
	a.Author.ID = authorID.Int64
	return a, nil
}

func listAnswers(ctx context.Context, tx *sql.Tx, questionID int64) ([]core.Answer, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT `+answerColumns+`
		FROM answers a
		LEFT JOIN users u ON u.id = a.author_id
		WHERE a.question_id = ?
		ORDER BY a.create_date, a.id`, questionID)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var answers []core.Answer
	for rows.Next() {
		a, err := scanAnswer(rows)
		if err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

func getAnswer(ctx context.Context, tx *sql.Tx, id int64) (core.Answer, error) {
	row := tx.QueryRowContext(ctx, `
		SELECT `+answerColumns+`
		FROM answers a
		LEFT JOIN users u ON u.id = a.author_id
		WHERE a.id = ?`, id)
	a, err := scanAnswer(row)
	if err != nil {
		return core.Answer{}, err
	}
	a.Voters, err = listVoters(ctx, tx, "answer_voters", "answer_id", id)
	if err != nil {
		return core.Answer{}, fmt.Errorf("listing voters: %w", err)
	}
	return a, nil
}

// GetAnswer returns an answer with its endorsers.
func (s *Store) GetAnswer(ctx context.Context, id int64) (core.Answer, error) {
	var a core.Answer
	err := s.withTx(ctx, true, func(tx *sql.Tx) error {
		var err error
		a, err = getAnswer(ctx, tx, id)
		return err
	})
	return a, classify(fmt.Sprintf("getting answer %d", id), err)
}

// AddAnswer attaches a new answer to questionID. The question must exist.
func (s *Store) AddAnswer(ctx context.Context, questionID int64, body string, authorID int64) (core.Answer, error) {
	var a core.Answer
	err := s.withTx(ctx, false, func(tx *sql.Tx) error {
		if err := exists(ctx, tx, "questions", questionID); err != nil {
			return err
		}
		if err := exists(ctx, tx, "users", authorID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			"INSERT INTO answers (question_id, body, create_date, author_id) VALUES (?, ?, ?, ?)",
			questionID, body, s.stamp(), authorID)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		a, err = getAnswer(ctx, tx, id)
		return err
	})
	return a, classify(fmt.Sprintf("answering question %d", questionID), err)
}

// ModifyAnswer replaces the body and stamps the modification date.
func (s *Store) ModifyAnswer(ctx context.Context, id int64, body string) (core.Answer, error) {
	var a core.Answer
	err := s.withTx(ctx, false, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE answers SET body = ?, modify_date = ? WHERE id = ?",
			body, s.stamp(), id)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return fmt.Errorf("answer %d: %w", id, core.ErrNotFound)
		}
		a, err = getAnswer(ctx, tx, id)
		return err
	})
	return a, classify(fmt.Sprintf("modifying answer %d", id), err)
}

// DeleteAnswer removes one answer and its endorsements.
func (s *Store) DeleteAnswer(ctx context.Context, id int64) error {
	err := s.withTx(ctx, false, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM answer_voters WHERE answer_id = ?", id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM answers WHERE id = ?", id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("answer %d: %w", id, core.ErrNotFound)
		}
		return nil
	})
	return classify(fmt.Sprintf("deleting answer %d", id), err)
}
