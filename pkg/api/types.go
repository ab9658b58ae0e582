package api

import (
	"time"

	"github.com/rubiojr/qboard/pkg/core"
)

// MaxSubjectLength bounds question subjects, counted in characters.
const MaxSubjectLength = 200

type QuestionRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type AnswerRequest struct {
	Body string `json:"body"`
}

type PageResponse struct {
	Keyword       string          `json:"keyword,omitempty"`
	Items         []core.Question `json:"items"`
	Page          int             `json:"page"`
	Size          int             `json:"size"`
	TotalElements int             `json:"total_elements"`
	TotalPages    int             `json:"total_pages"`
	HasNext       bool            `json:"has_next"`
	HasPrevious   bool            `json:"has_previous"`
}

func newPageResponse(keyword string, p core.Page[core.Question]) PageResponse {
	return PageResponse{
		Keyword:       keyword,
		Items:         p.Items,
		Page:          p.Number,
		Size:          p.Size,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
		HasNext:       p.HasNext(),
		HasPrevious:   p.HasPrevious(),
	}
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

type initMessage struct {
	Type    string `json:"type"`
	Version string `json:"version"`
}
