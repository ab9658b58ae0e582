package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rubiojr/qboard/pkg/core"
	"github.com/rubiojr/qboard/pkg/version"
)

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", r.PathValue("id"))
	}
	return id, nil
}

func pageParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 0, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid page %q", raw)
	}
	return page, nil
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// ValidateQuestion performs the form checks every adapter applies before
// handing a question to the board.
func ValidateQuestion(subject, body string) error {
	switch {
	case strings.TrimSpace(subject) == "":
		return errors.New("subject is required")
	case utf8.RuneCountInString(subject) > MaxSubjectLength:
		return fmt.Errorf("subject must be at most %d characters", MaxSubjectLength)
	case strings.TrimSpace(body) == "":
		return errors.New("body is required")
	}
	return nil
}

// ValidateAnswer checks an answer body.
func ValidateAnswer(body string) error {
	if strings.TrimSpace(body) == "" {
		return errors.New("body is required")
	}
	return nil
}

// authenticate writes a 401 and returns false when the request has no user.
func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) (core.User, bool) {
	u, err := s.auth.Authenticate(r)
	if err == nil {
		return u, true
	}
	if errors.Is(err, ErrUnauthenticated) {
		s.writeError(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	} else {
		s.writeServiceError(w, err)
	}
	return core.User{}, false
}

func (s *Server) HandleSearch(w http.ResponseWriter, r *http.Request) {
	page, err := pageParam(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid page", err.Error())
		return
	}
	kw := r.URL.Query().Get("kw")

	results, err := s.board.Search(r.Context(), kw, page)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, newPageResponse(kw, results))
}

func (s *Server) HandleUserQuestions(w http.ResponseWriter, r *http.Request) {
	page, err := pageParam(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid page", err.Error())
		return
	}
	results, err := s.board.QuestionsByAuthor(r.Context(), r.PathValue("username"), page)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, newPageResponse("", results))
}

func (s *Server) HandleCreateQuestion(w http.ResponseWriter, r *http.Request) {
	user, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	var req QuestionRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	if err := ValidateQuestion(req.Subject, req.Body); err != nil {
		s.writeError(w, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	q, err := s.board.Ask(r.Context(), user, req.Subject, req.Body)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/api/questions/%d", q.ID))
	s.writeJSON(w, http.StatusCreated, q)
}

func (s *Server) HandleGetQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid path", err.Error())
		return
	}
	q, err := s.board.GetQuestion(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, q)
}

func (s *Server) HandleModifyQuestion(w http.ResponseWriter, r *http.Request) {
	user, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid path", err.Error())
		return
	}
	var req QuestionRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	if err := ValidateQuestion(req.Subject, req.Body); err != nil {
		s.writeError(w, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	q, err := s.board.ModifyQuestion(r.Context(), user, id, req.Subject, req.Body)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, q)
}

func (s *Server) HandleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	user, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid path", err.Error())
		return
	}
	if err := s.board.DeleteQuestion(r.Context(), user, id); err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) HandleVoteQuestion(w http.ResponseWriter, r *http.Request) {
	user, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid path", err.Error())
		return
	}
	if err := s.board.Endorse(r.Context(), user, id); err != nil {
		s.writeServiceError(w, err)
		return
	}
	q, err := s.board.GetQuestion(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, q)
}

func (s *Server) HandleCreateAnswer(w http.ResponseWriter, r *http.Request) {
	user, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid path", err.Error())
		return
	}
	var req AnswerRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	if err := ValidateAnswer(req.Body); err != nil {
		s.writeError(w, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	a, err := s.board.Answer(r.Context(), user, id, req.Body)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/api/answers/%d", a.ID))
	s.writeJSON(w, http.StatusCreated, a)
}

func (s *Server) HandleGetAnswer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid path", err.Error())
		return
	}
	a, err := s.board.GetAnswer(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, a)
}

func (s *Server) HandleModifyAnswer(w http.ResponseWriter, r *http.Request) {
	user, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid path", err.Error())
		return
	}
	var req AnswerRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	if err := ValidateAnswer(req.Body); err != nil {
		s.writeError(w, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	a, err := s.board.ModifyAnswer(r.Context(), user, id, req.Body)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, a)
}

func (s *Server) HandleDeleteAnswer(w http.ResponseWriter, r *http.Request) {
	user, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid path", err.Error())
		return
	}
	if err := s.board.DeleteAnswer(r.Context(), user, id); err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) HandleVoteAnswer(w http.ResponseWriter, r *http.Request) {
	user, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid path", err.Error())
		return
	}
	if err := s.board.EndorseAnswer(r.Context(), user, id); err != nil {
		s.writeServiceError(w, err)
		return
	}
	a, err := s.board.GetAnswer(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, a)
}

func (s *Server) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.board.Stats(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, stats)
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	health := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Version:   version.APIVersion(),
	}

	s.writeJSON(w, http.StatusOK, health)
}
