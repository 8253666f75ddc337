// Package importhttp exposes the import API: single records, provider file
// uploads, and the audit trail of processed jobs.
package importhttp

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/skillbase/competency-search/internal/adapters/middleware"
	"github.com/skillbase/competency-search/internal/core/domain"
	"github.com/skillbase/competency-search/internal/core/ports"
	"github.com/skillbase/competency-search/internal/observability/metrics"
)

const serviceName = "importer"

// Uploads larger than this are rejected before parsing.
const maxUploadBytes = 64 << 20

type Router struct {
	importer      ports.CompetencyImporter
	audit         ports.ImportAuditStore
	serverMetrics *metrics.HTTPServerMetrics
}

func NewRouter(importer ports.CompetencyImporter, audit ports.ImportAuditStore, serverMetrics *metrics.HTTPServerMetrics) *Router {
	return &Router{
		importer:      importer,
		audit:         audit,
		serverMetrics: serverMetrics,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	if rt.serverMetrics != nil {
		mux.Handle("/metrics", rt.serverMetrics.Handler())
	}
	mux.HandleFunc("/v1/import", rt.importOne)
	mux.HandleFunc("/v1/import/file", rt.importFile)
	mux.HandleFunc("/v1/imports", rt.listImports)

	var handler http.Handler = mux
	if rt.serverMetrics != nil {
		handler = rt.serverMetrics.Middleware(serviceName, handler)
	}
	return middleware.RequestID(middleware.AccessLog(handler))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) importOne(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var input domain.ImportInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	queued, err := rt.importer.ImportOne(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.serverMetrics != nil {
		rt.serverMetrics.RecordImportBatch(serviceName, string(input.Provider), 1)
	}
	writeJSON(w, http.StatusAccepted, importResponse{Records: 1, Queued: queued})
}

func (rt *Router) importFile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	attrs, err := parseUploadAttributes(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	records, err := parseRecords(file, fileHeader.Filename)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	inputs := make([]domain.ImportInput, 0, len(records))
	for _, record := range records {
		inputs = append(inputs, domain.ImportInput{
			Provider:         attrs.provider,
			CompetencyType:   attrs.competencyType,
			Lang:             attrs.lang,
			Data:             record,
			IndexingStrategy: attrs.indexingStrategy,
			IndexingFields:   attrs.indexingFields,
		})
	}

	queued, err := rt.importer.ImportBatch(r.Context(), inputs)
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.serverMetrics != nil {
		rt.serverMetrics.RecordImportBatch(serviceName, string(attrs.provider), len(inputs))
	}
	writeJSON(w, http.StatusAccepted, importResponse{Records: len(inputs), Queued: queued})
}

func (rt *Router) listImports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	limit := 50
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	records, err := rt.audit.ListRecent(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if records == nil {
		records = []domain.ImportRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"imports": records})
}

type importResponse struct {
	Records int `json:"records"`
	Queued  int `json:"queued"`
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrValidation):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	case domain.IsKind(err, domain.ErrRepository):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
