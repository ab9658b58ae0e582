package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/questions", s.HandleSearch)
	mux.HandleFunc("POST /api/questions", s.HandleCreateQuestion)
	mux.HandleFunc("GET /api/questions/{id}", s.HandleGetQuestion)
	mux.HandleFunc("PUT /api/questions/{id}", s.HandleModifyQuestion)
	mux.HandleFunc("DELETE /api/questions/{id}", s.HandleDeleteQuestion)
	mux.HandleFunc("POST /api/questions/{id}/answers", s.HandleCreateAnswer)
	mux.HandleFunc("POST /api/questions/{id}/vote", s.HandleVoteQuestion)

	mux.HandleFunc("GET /api/answers/{id}", s.HandleGetAnswer)
	mux.HandleFunc("PUT /api/answers/{id}", s.HandleModifyAnswer)
	mux.HandleFunc("DELETE /api/answers/{id}", s.HandleDeleteAnswer)
	mux.HandleFunc("POST /api/answers/{id}/vote", s.HandleVoteAnswer)

	mux.HandleFunc("GET /api/users/{username}/questions", s.HandleUserQuestions)
	mux.HandleFunc("GET /api/stats", s.HandleStats)
	mux.HandleFunc("GET /api/events", s.HandleEvents)

	mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /health", s.HandleHealth)
}

// Handler returns the routed mux wrapped in the standard middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return RequestIDMiddleware(CorsMiddleware(mux))
}
