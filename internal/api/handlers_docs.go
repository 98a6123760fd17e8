package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dgallion1/cvextract/internal/experience"
	"github.com/dgallion1/cvextract/internal/store"
	"github.com/go-chi/chi/v5"
)

// handleListDocuments returns document rows without their extraction payloads.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	docs, err := s.orchestrator.Documents().List(r.Context(), limit)
	if err != nil {
		jsonError(w, "failed to list documents: "+err.Error(), http.StatusInternalServerError)
		return
	}

	summaries := make([]map[string]any, 0, len(docs))
	for _, d := range docs {
		summaries = append(summaries, map[string]any{
			"doc_id":      d.ID,
			"filename":    d.Filename,
			"status":      d.Status,
			"error":       d.Error,
			"ocr_applied": d.OCRApplied,
			"created_at":  d.CreatedAt,
			"updated_at":  d.UpdatedAt,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"documents": summaries})
}

// handleGetDocument returns the full row, extraction result and validation
// issues included.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")

	doc, err := s.orchestrator.Documents().Get(r.Context(), docID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, "document not found", http.StatusNotFound)
			return
		}
		jsonError(w, "failed to load document: "+err.Error(), http.StatusInternalServerError)
		return
	}

	resp := map[string]any{"document": doc}
	if doc.Result != nil {
		if latest, ok := experience.Latest(doc.Result.Experience); ok {
			resp["latest_position"] = map[string]any{
				"title":      latest.Title,
				"company":    latest.Company,
				"is_current": latest.IsCurrent,
				"date_end":   latest.DateEnd,
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
