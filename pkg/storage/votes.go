package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// VoteQuestion adds userID to the endorsers of questionID. The endorser set
// is a join table keyed by (question_id, user_id): a repeated vote leaves it
// unchanged and concurrent votes from different users all land. The returned
// bool reports whether the set grew.
func (s *Store) VoteQuestion(ctx context.Context, questionID, userID int64) (bool, error) {
	added, err := s.vote(ctx, "questions", "question_voters", "question_id", questionID, userID)
	return added, classify(fmt.Sprintf("voting question %d", questionID), err)
}

// VoteAnswer adds userID to the endorsers of answerID with the same set
// semantics as VoteQuestion.
func (s *Store) VoteAnswer(ctx context.Context, answerID, userID int64) (bool, error) {
	added, err := s.vote(ctx, "answers", "answer_voters", "answer_id", answerID, userID)
	return added, classify(fmt.Sprintf("voting answer %d", answerID), err)
}

func (s *Store) vote(ctx context.Context, target, table, column string, targetID, userID int64) (bool, error) {
	var added bool
	err := s.withTx(ctx, false, func(tx *sql.Tx) error {
		if err := exists(ctx, tx, target, targetID); err != nil {
			return err
		}
		if err := exists(ctx, tx, "users", userID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			"INSERT INTO "+table+" ("+column+", user_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
			targetID, userID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		added = n > 0
		return nil
	})
	return added, err
}
