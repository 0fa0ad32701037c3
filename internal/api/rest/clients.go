package rest

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/berwahousing/records-backend/internal/models"
	"github.com/berwahousing/records-backend/internal/pkg/validate"
	"github.com/berwahousing/records-backend/internal/repository"
)

// clientRequest is the body for POST/PUT /clients.
type clientRequest struct {
	Name        string  `json:"name"`
	ContactInfo string  `json:"contactInfo"`
	Address     *string `json:"address"`
	Notes       *string `json:"notes"`
}

// validateBody applies field caps beyond the repository's required-field
// checks, so oversized payloads are rejected before touching storage.
func (req *clientRequest) validateBody() *repository.ValidationError {
	if !validate.ClientName(req.Name) {
		return &repository.ValidationError{Field: "name", Reason: "is required"}
	}
	if !validate.ContactInfo(req.ContactInfo) {
		return &repository.ValidationError{Field: "contactInfo", Reason: "is required"}
	}
	if req.Address != nil && !validate.Address(*req.Address) {
		return &repository.ValidationError{Field: "address", Reason: "is too long"}
	}
	if req.Notes != nil && !validate.Notes(*req.Notes) {
		return &repository.ValidationError{Field: "notes", Reason: "is too long"}
	}
	return nil
}

func (req *clientRequest) toModel() *models.Client {
	return &models.Client{
		Name:        strings.TrimSpace(req.Name),
		ContactInfo: strings.TrimSpace(req.ContactInfo),
		Address:     req.Address,
		Notes:       req.Notes,
	}
}

// CreateClient handles POST /clients
func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if verr := req.validateBody(); verr != nil {
		respondDomainError(w, r, verr)
		return
	}

	id, err := h.repo.CreateClient(r.Context(), req.toModel())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":  "Client created successfully",
		"clientId": id,
	})
}

// ListClients handles GET /clients
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.repo.ListClients(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if clients == nil {
		clients = []*models.Client{}
	}
	respondJSON(w, http.StatusOK, clients)
}

// GetClient handles GET /clients/{id}
func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)

	client, err := h.repo.GetClient(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, client)
}

// UpdateClient handles PUT /clients/{id}. Updating an absent id is a no-op
// success: the store is unchanged and the caller gets 200.
func (h *Handler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if verr := req.validateBody(); verr != nil {
		respondDomainError(w, r, verr)
		return
	}

	client := req.toModel()
	client.ID = pathID(r)
	if err := h.repo.UpdateClient(r.Context(), client); err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Client updated successfully"})
}

// DeleteClient handles DELETE /clients/{id}. Idempotent: deleting an absent
// id still succeeds.
func (h *Handler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.DeleteClient(r.Context(), pathID(r)); err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Client deleted successfully"})
}

// pathID parses the {id} path variable. The route pattern restricts it to
// digits, so parse errors cannot occur for routed requests.
func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}
