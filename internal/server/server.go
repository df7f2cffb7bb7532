// Package server exposes the sync service over HTTP for the dashboard UI.
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/kitchenops/demosync/internal/fetch"
	"github.com/kitchenops/demosync/internal/model"
	"github.com/kitchenops/demosync/internal/sync"
)

// Server holds the HTTP handlers around a sync service.
type Server struct {
	svc *sync.Service
}

// New creates a Server.
func New(svc *sync.Service) *Server {
	return &Server{svc: svc}
}

// Router builds the chi router with CORS enabled for the dashboard.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/csv-data", s.handleCSVData)
	r.Get("/demo-requests", s.handleListDemoRequests)
	r.Put("/demo-requests/{id}", s.handleSaveDemoRequest)
	r.Delete("/demo-requests/{id}", s.handleDeleteDemoRequest)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleCSVData runs the fetch cascade and returns merged records. On
// total failure it answers 502 with the classified remediation message so
// the UI can tell a sharing problem from a network problem.
func (s *Server) handleCSVData(w http.ResponseWriter, r *http.Request) {
	records, err := s.svc.FetchAndReconcile(r.Context())
	if err != nil {
		writeFetchError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"records": records})
}

// handleListDemoRequests returns merged records plus any orphaned
// overrides (stored edits whose client no longer appears in the sheet).
func (s *Server) handleListDemoRequests(w http.ResponseWriter, r *http.Request) {
	records, err := s.svc.FetchAndReconcile(r.Context())
	if err != nil {
		writeFetchError(w, err)
		return
	}
	orphans, err := s.svc.Orphans(r.Context(), records)
	if err != nil {
		zap.L().Warn("server: orphan lookup failed", zap.Error(err))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"records": records,
		"orphans": orphans,
	})
}

func (s *Server) handleSaveDemoRequest(w http.ResponseWriter, r *http.Request) {
	var rec model.DemoRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	rec.ID = chi.URLParam(r, "id")
	if rec.ClientName == "" || rec.ClientEmail == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "client_name and client_email are required"})
		return
	}

	ov, err := s.svc.SaveOverride(r.Context(), &rec)
	if err != nil {
		zap.L().Error("server: save override", zap.String("id", rec.ID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save"})
		return
	}
	writeJSON(w, http.StatusOK, ov)
}

func (s *Server) handleDeleteDemoRequest(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ClientName   string `json:"client_name"`
		ClientEmail  string `json:"client_email"`
		ClientMobile string `json:"client_mobile"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	id := model.NewIdentity(body.ClientName, body.ClientEmail, body.ClientMobile)
	if err := s.svc.DeleteOverride(r.Context(), id); err != nil {
		zap.L().Error("server: delete override", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete"})
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func writeFetchError(w http.ResponseWriter, err error) {
	var se *fetch.StrategyError
	if errors.As(err, &se) {
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"error": se.Remediation(),
			"class": string(se.Class),
		})
		return
	}
	writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			zap.L().Error("server: encode response", zap.Error(err))
		}
	}
}
