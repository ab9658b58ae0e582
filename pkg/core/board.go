package core

import "time"

// PageSize is the fixed number of questions returned per result page.
const PageSize = 10

// User is a board member. It authors questions and answers and endorses them.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// Question is a top level post. Answers and Voters are only populated by
// detail lookups; listings carry the counts instead.
type Question struct {
	ID          int64      `json:"id"`
	Subject     string     `json:"subject"`
	Body        string     `json:"body"`
	CreateDate  time.Time  `json:"create_date"`
	ModifyDate  *time.Time `json:"modify_date,omitempty"`
	Author      User       `json:"author"`
	AnswerCount int        `json:"answer_count"`
	VoterCount  int        `json:"voter_count"`
	Answers     []Answer   `json:"answers,omitempty"`
	Voters      []User     `json:"voters,omitempty"`
}

// Answer belongs to exactly one question.
type Answer struct {
	ID         int64      `json:"id"`
	QuestionID int64      `json:"question_id"`
	Body       string     `json:"body"`
	CreateDate time.Time  `json:"create_date"`
	ModifyDate *time.Time `json:"modify_date,omitempty"`
	Author     User       `json:"author"`
	VoterCount int        `json:"voter_count"`
	Voters     []User     `json:"voters,omitempty"`
}

// HasVoter reports whether the user with the given id endorsed the question.
func (q *Question) HasVoter(userID int64) bool {
	for _, v := range q.Voters {
		if v.ID == userID {
			return true
		}
	}
	return false
}

// Page is one window of an ordered result set.
type Page[T any] struct {
	Items         []T `json:"items"`
	Number        int `json:"page"`
	Size          int `json:"size"`
	TotalElements int `json:"total_elements"`
	TotalPages    int `json:"total_pages"`
}

// NewPage builds page metadata from the total element count.
func NewPage[T any](items []T, number, size, total int) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if size > 0 {
		pages = (total + size - 1) / size
	}
	return Page[T]{
		Items:         items,
		Number:        number,
		Size:          size,
		TotalElements: total,
		TotalPages:    pages,
	}
}

// HasNext reports whether a page follows this one.
func (p Page[T]) HasNext() bool {
	return p.Number+1 < p.TotalPages
}

// HasPrevious reports whether a page precedes this one.
func (p Page[T]) HasPrevious() bool {
	return p.Number > 0
}

// Stats holds row counts for the whole board.
type Stats struct {
	Users         int `json:"users"`
	Questions     int `json:"questions"`
	Answers       int `json:"answers"`
	QuestionVotes int `json:"question_votes"`
	AnswerVotes   int `json:"answer_votes"`
}
