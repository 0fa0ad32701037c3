package rest

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/berwahousing/records-backend/internal/repository"
	"github.com/berwahousing/records-backend/internal/service"
)

// Handler manages HTTP request handlers for clients and reports.
type Handler struct {
	repo    repository.Store
	reports *service.ReportService
}

// NewHandler creates a new HTTP handler.
func NewHandler(repo repository.Store, reports *service.ReportService) *Handler {
	return &Handler{repo: repo, reports: reports}
}

// SetupRoutes configures API routes.
func SetupRoutes(router *mux.Router, h *Handler) {
	// Client routes
	router.HandleFunc("/clients", h.ListClients).Methods("GET")
	router.HandleFunc("/clients", h.CreateClient).Methods("POST")
	router.HandleFunc("/clients/{id:[0-9]+}", h.GetClient).Methods("GET")
	router.HandleFunc("/clients/{id:[0-9]+}", h.UpdateClient).Methods("PUT")
	router.HandleFunc("/clients/{id:[0-9]+}", h.DeleteClient).Methods("DELETE")

	// Report routes
	router.HandleFunc("/reports/clients/{format}", h.GenerateClientReport).Methods("GET")
	router.HandleFunc("/reports", h.ListReports).Methods("GET")
}

// respondJSON writes a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// respondError writes a JSON error body with the given status.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
