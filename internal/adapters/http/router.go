// Package httpadapter exposes the entity and search API.
package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/skillbase/competency-search/internal/adapters/middleware"
	"github.com/skillbase/competency-search/internal/core/domain"
	"github.com/skillbase/competency-search/internal/core/ports"
	"github.com/skillbase/competency-search/internal/observability/metrics"
)

const serviceName = "api"

type Router struct {
	entities      ports.EntityService
	serverMetrics *metrics.HTTPServerMetrics
	defaultTop    int
}

func NewRouter(entities ports.EntityService, serverMetrics *metrics.HTTPServerMetrics, defaultTop int) *Router {
	if defaultTop <= 0 {
		defaultTop = 10
	}
	return &Router{
		entities:      entities,
		serverMetrics: serverMetrics,
		defaultTop:    defaultTop,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	if rt.serverMetrics != nil {
		mux.Handle("/metrics", rt.serverMetrics.Handler())
	}
	mux.HandleFunc("/v1/entities", rt.createEntity)
	mux.HandleFunc("/v1/entities/", rt.entityByID)
	mux.HandleFunc("/v1/search/text", rt.searchByText)

	var handler http.Handler = mux
	if rt.serverMetrics != nil {
		handler = rt.serverMetrics.Middleware(serviceName, handler)
	}
	return middleware.RequestID(middleware.AccessLog(handler))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) createEntity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req entityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	competency := req.toCompetency()
	entity, err := rt.entities.CreateEntity(r.Context(), competency, competency.IndexedText)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newEntityResponse(entity))
}

func (rt *Router) entityByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/entities/")
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "entity id is required"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		entity, err := rt.entities.GetEntity(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newEntityResponse(entity))

	case http.MethodPut:
		var req entityRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
			return
		}
		competency := req.toCompetency()
		entity, err := rt.entities.UpdateEntity(r.Context(), id, competency, competency.IndexedText)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newEntityResponse(entity))

	case http.MethodDelete:
		if err := rt.entities.DeleteEntity(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (rt *Router) searchByText(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	filters, err := req.toFilters()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	searchType := domain.SearchType(req.SearchType)
	if req.SearchType == "" {
		searchType = domain.SearchHybrid
	}
	top := req.Top
	if top <= 0 {
		top = rt.defaultTop
	}

	start := time.Now()
	results, err := rt.entities.SearchByText(r.Context(), req.Text, filters, top, searchType)
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.serverMetrics != nil {
		rt.serverMetrics.RecordSearch(serviceName, string(searchType), len(results), time.Since(start))
	}
	writeJSON(w, http.StatusOK, newSearchResponse(results))
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
