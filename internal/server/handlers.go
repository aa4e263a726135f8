package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/talentgrid/assessment-recommender/internal/engine"
)

const serviceName = "Assessment Recommendation Engine"

const (
	defaultStructuredTopN = 5
	defaultTextTopN       = 10
)

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encoding response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{
		"service": serviceName,
		"version": "1.0.0",
		"status":  "running",
		"endpoints": map[string]string{
			"GET /":                      "API documentation (this endpoint)",
			"GET /health":                "Health check endpoint",
			"GET /assessments":           "List all assessments in the catalogue",
			"GET /assessments/{id}":      "Get a specific assessment by ID",
			"GET /assessments/search?q=": "Search assessments by name or description",
			"GET /recommendations":       "Get recommendations via query parameters (structured filters)",
			"POST /recommendations":      "Get recommendations via JSON body (structured filters)",
			"POST /text_recommendations": "Get recommendations from natural language or job description text",
			"POST /explanations":         "Get an AI-generated explanation for text-based recommendations",
		},
		"parameters": map[string]string{
			"target_role":          "Job role (e.g., manager, sales, engineer)",
			"competencies":         "List of required competencies",
			"use_case":             "hiring, development, promotion, coaching, succession_planning, team_building",
			"assessment_type":      "cognitive, personality, situational, motivation, development, feedback",
			"max_duration_minutes": "Maximum assessment duration in minutes",
			"difficulty_level":     "beginner, intermediate, advanced",
			"language":             "Language code (e.g., en, es, fr)",
			"exclude_ids":          "List of assessment IDs to exclude",
			"top_n":                "Number of recommendations to return (default: 5 structured, 5-10 text)",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": serviceName,
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusNotFound, map[string]any{
		"error":   "Endpoint not found",
		"message": "Please check the API documentation at /",
	})
}

func (s *Server) handleListAssessments(w http.ResponseWriter, r *http.Request) {
	assessments := s.engine.GetAll()
	s.respondJSON(w, http.StatusOK, map[string]any{
		"count":       len(assessments),
		"assessments": assessments,
	})
}

func (s *Server) handleGetAssessment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	assessment := s.engine.GetByID(id)
	if assessment == nil {
		s.respondError(w, http.StatusNotFound, "Assessment "+id+" not found")
		return
	}

	s.respondJSON(w, http.StatusOK, assessment)
}

func (s *Server) handleSearchAssessments(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	if term == "" {
		s.respondError(w, http.StatusBadRequest, `Query parameter "q" is required`)
		return
	}

	results := s.engine.SearchByName(term)
	s.respondJSON(w, http.StatusOK, map[string]any{
		"count":       len(results),
		"assessments": results,
	})
}

func (s *Server) handleRecommendQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	criteria := &engine.Criteria{
		Competencies: q["competencies"],
		ExcludeIDs:   q["exclude_ids"],
	}
	if v := q.Get("target_role"); v != "" {
		criteria.TargetRole = engine.String(v)
	}
	if v := q.Get("use_case"); v != "" {
		criteria.UseCase = engine.String(v)
	}
	if v := q.Get("assessment_type"); v != "" {
		criteria.AssessmentType = engine.String(v)
	}
	if v := q.Get("difficulty_level"); v != "" {
		criteria.DifficultyLevel = engine.String(v)
	}
	if v := q.Get("language"); v != "" {
		criteria.Language = engine.String(v)
	}
	if v := q.Get("max_duration_minutes"); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "max_duration_minutes must be an integer")
			return
		}
		criteria.MaxDurationMinutes = engine.Int(minutes)
	}

	topN := defaultStructuredTopN
	if v := q.Get("top_n"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "top_n must be an integer")
			return
		}
		topN = n
	}

	recommendations := s.engine.Recommend(criteria, topN)
	s.respondJSON(w, http.StatusOK, map[string]any{
		"count":           len(recommendations),
		"recommendations": recommendations,
	})
}

type recommendRequest struct {
	engine.Criteria
	TopN *int `json:"top_n"`
}

func (s *Server) handleRecommendBody(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	topN := defaultStructuredTopN
	if req.TopN != nil {
		topN = *req.TopN
	}

	recommendations := s.engine.Recommend(&req.Criteria, topN)
	s.respondJSON(w, http.StatusOK, map[string]any{
		"count":           len(recommendations),
		"recommendations": recommendations,
		"criteria":        req.Criteria,
	})
}

type textRequest struct {
	Query string `json:"query"`
	TopN  *int   `json:"top_n"`
}

// textRecommendation is the reduced shape for text routes; callers ranking
// by free text only need identity and the similarity itself.
type textRecommendation struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	URL        string  `json:"url"`
	Similarity float64 `json:"similarity"`
}

func (s *Server) handleTextRecommendations(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		s.respondError(w, http.StatusBadRequest, `Provide a non-empty "query"`)
		return
	}

	topN := defaultTextTopN
	if req.TopN != nil {
		topN = *req.TopN
	}

	ranked := s.engine.RecommendFromText(req.Query, topN)

	simplified := make([]textRecommendation, 0, len(ranked))
	for _, rec := range ranked {
		simplified = append(simplified, textRecommendation{
			ID:         rec.ID,
			Name:       rec.Name,
			URL:        rec.URL,
			Similarity: rec.Similarity,
		})
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"count":           len(simplified),
		"recommendations": simplified,
	})
}

func (s *Server) handleExplanations(w http.ResponseWriter, r *http.Request) {
	if s.explainer == nil {
		s.respondError(w, http.StatusServiceUnavailable, "explanations are not configured")
		return
	}

	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		s.respondError(w, http.StatusBadRequest, `Provide a non-empty "query"`)
		return
	}

	topN := defaultTextTopN
	if req.TopN != nil {
		topN = *req.TopN
	}

	ranked := s.engine.RecommendFromText(req.Query, topN)

	explanation, err := s.explainer.Explain(r.Context(), req.Query, ranked)
	if err != nil {
		s.logger.Error("generating explanation", zap.Error(err))
		s.respondError(w, http.StatusBadGateway, "failed to generate explanation")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"count":           len(ranked),
		"recommendations": ranked,
		"explanation":     explanation,
	})
}
