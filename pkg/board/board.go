// Package board is the entry point callers use to read and change the board.
//
// It forwards to the entity store and, after each successful mutation,
// publishes a realtime event and bumps the matching metric. Identities arrive
// already resolved as core.User values; the board never checks credentials
// and never re-validates subject or body text.
package board

import (
	"context"

	"github.com/rubiojr/qboard/pkg/core"
	"github.com/rubiojr/qboard/pkg/log"
	"github.com/rubiojr/qboard/pkg/realtime"
	"github.com/rubiojr/qboard/pkg/storage"
)

// Service wraps a Store with events, metrics and logging.
type Service struct {
	store   *storage.Store
	hub     *realtime.Hub
	metrics *Metrics
	log     *log.Logger
}

// New returns a service. hub and metrics may be nil.
func New(store *storage.Store, hub *realtime.Hub, metrics *Metrics) *Service {
	if hub == nil {
		hub = realtime.NewHub(0)
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Service{
		store:   store,
		hub:     hub,
		metrics: metrics,
		log:     log.ForService("board"),
	}
}

// Hub returns the event hub mutations are published to.
func (s *Service) Hub() *realtime.Hub {
	return s.hub
}

// Store returns the underlying entity store.
func (s *Service) Store() *storage.Store {
	return s.store
}

func (s *Service) publish(eventType string, questionID, answerID int64, user core.User, subject string) {
	n := s.hub.Publish(realtime.NewEvent(eventType, questionID, answerID, user.Username, subject))
	s.log.Debugf("%s question=%d answer=%d delivered to %d listeners", eventType, questionID, answerID, n)
}

// Search returns one page of questions matching keyword. See storage.Store.Search.
func (s *Service) Search(ctx context.Context, keyword string, page int) (core.Page[core.Question], error) {
	s.metrics.Searches.Inc()
	return s.store.Search(ctx, keyword, page)
}

// QuestionsByAuthor pages through the questions of one user.
func (s *Service) QuestionsByAuthor(ctx context.Context, username string, page int) (core.Page[core.Question], error) {
	u, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return core.Page[core.Question]{}, err
	}
	return s.store.QuestionsByAuthor(ctx, u.ID, page)
}

// GetQuestion returns a fully loaded question or an error wrapping core.ErrNotFound.
func (s *Service) GetQuestion(ctx context.Context, id int64) (core.Question, error) {
	return s.store.GetQuestion(ctx, id)
}

// GetAnswer returns an answer or an error wrapping core.ErrNotFound.
func (s *Service) GetAnswer(ctx context.Context, id int64) (core.Answer, error) {
	return s.store.GetAnswer(ctx, id)
}

// ResolveUser maps a username to a user.
func (s *Service) ResolveUser(ctx context.Context, username string) (core.User, error) {
	return s.store.GetUserByUsername(ctx, username)
}

// RegisterUser creates a user.
func (s *Service) RegisterUser(ctx context.Context, username, email string) (core.User, error) {
	u, err := s.store.CreateUser(ctx, username, email)
	if err != nil {
		return core.User{}, err
	}
	s.metrics.Mutations.WithLabelValues("user.created").Inc()
	s.log.Infof("registered user %s", u.Username)
	return u, nil
}

// Ask creates a question authored by author.
func (s *Service) Ask(ctx context.Context, author core.User, subject, body string) (core.Question, error) {
	q, err := s.store.CreateQuestion(ctx, subject, body, author.ID)
	if err != nil {
		return core.Question{}, err
	}
	s.metrics.Mutations.WithLabelValues(realtime.QuestionCreated).Inc()
	s.log.Infof("question %d created by %s", q.ID, author.Username)
	s.publish(realtime.QuestionCreated, q.ID, 0, author, q.Subject)
	return q, nil
}

// ModifyQuestion replaces subject and body of a question.
func (s *Service) ModifyQuestion(ctx context.Context, editor core.User, id int64, subject, body string) (core.Question, error) {
	q, err := s.store.ModifyQuestion(ctx, id, subject, body)
	if err != nil {
		return core.Question{}, err
	}
	s.metrics.Mutations.WithLabelValues(realtime.QuestionModified).Inc()
	s.log.Infof("question %d modified by %s", id, editor.Username)
	s.publish(realtime.QuestionModified, id, 0, editor, q.Subject)
	return q, nil
}

// DeleteQuestion removes a question and its answers.
func (s *Service) DeleteQuestion(ctx context.Context, editor core.User, id int64) error {
	if err := s.store.DeleteQuestion(ctx, id); err != nil {
		return err
	}
	s.metrics.Mutations.WithLabelValues(realtime.QuestionDeleted).Inc()
	s.log.Infof("question %d deleted by %s", id, editor.Username)
	s.publish(realtime.QuestionDeleted, id, 0, editor, "")
	return nil
}

// Answer adds an answer to a question.
func (s *Service) Answer(ctx context.Context, author core.User, questionID int64, body string) (core.Answer, error) {
	a, err := s.store.AddAnswer(ctx, questionID, body, author.ID)
	if err != nil {
		return core.Answer{}, err
	}
	s.metrics.Mutations.WithLabelValues(realtime.AnswerCreated).Inc()
	s.log.Infof("answer %d on question %d by %s", a.ID, questionID, author.Username)
	s.publish(realtime.AnswerCreated, questionID, a.ID, author, "")
	return a, nil
}

// ModifyAnswer replaces the body of an answer.
func (s *Service) ModifyAnswer(ctx context.Context, editor core.User, id int64, body string) (core.Answer, error) {
	a, err := s.store.ModifyAnswer(ctx, id, body)
	if err != nil {
		return core.Answer{}, err
	}
	s.metrics.Mutations.WithLabelValues(realtime.AnswerModified).Inc()
	s.log.Infof("answer %d modified by %s", id, editor.Username)
	s.publish(realtime.AnswerModified, a.QuestionID, id, editor, "")
	return a, nil
}

// DeleteAnswer removes an answer.
func (s *Service) DeleteAnswer(ctx context.Context, editor core.User, id int64) error {
	a, err := s.store.GetAnswer(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteAnswer(ctx, id); err != nil {
		return err
	}
	s.metrics.Mutations.WithLabelValues(realtime.AnswerDeleted).Inc()
	s.log.Infof("answer %d deleted by %s", id, editor.Username)
	s.publish(realtime.AnswerDeleted, a.QuestionID, id, editor, "")
	return nil
}

// Endorse adds voter to the endorsers of a question. Repeated calls are
// no-ops; only a call that grows the set publishes an event.
func (s *Service) Endorse(ctx context.Context, voter core.User, questionID int64) error {
	added, err := s.store.VoteQuestion(ctx, questionID, voter.ID)
	if err != nil {
		return err
	}
	s.metrics.endorsed("question", added)
	if added {
		s.publish(realtime.QuestionVoted, questionID, 0, voter, "")
	}
	return nil
}

// EndorseAnswer adds voter to the endorsers of an answer.
func (s *Service) EndorseAnswer(ctx context.Context, voter core.User, answerID int64) error {
	added, err := s.store.VoteAnswer(ctx, answerID, voter.ID)
	if err != nil {
		return err
	}
	s.metrics.endorsed("answer", added)
	if added {
		a, err := s.store.GetAnswer(ctx, answerID)
		if err != nil {
			return err
		}
		s.publish(realtime.AnswerVoted, a.QuestionID, answerID, voter, "")
	}
	return nil
}

// Stats returns row counts.
func (s *Service) Stats(ctx context.Context) (core.Stats, error) {
	return s.store.Stats(ctx)
}
