package api

import (
	"database/sql"
	"net/http"

	"github.com/ortobank/ortobank/internal/model"
	"github.com/ortobank/ortobank/internal/store"
)

// HubsHandler handles distribution hub endpoints.
type HubsHandler struct {
	DB *sql.DB
}

type hubRequest struct {
	Name string `json:"name" validate:"required"`
	City string `json:"city" validate:"required"`
}

// List handles GET /api/hubs.
func (h *HubsHandler) List(w http.ResponseWriter, r *http.Request) {
	hubs, err := store.ListHubs(r.Context(), h.DB)
	if err != nil {
		jsonStoreError(w, err, "listing hubs")
		return
	}
	if hubs == nil {
		hubs = []model.Hub{}
	}
	jsonResponse(w, http.StatusOK, hubs)
}

// Create handles POST /api/hubs.
func (h *HubsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req hubRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "name and city required")
		return
	}

	hub, err := store.CreateHub(r.Context(), h.DB, req.Name, req.City)
	if err != nil {
		jsonStoreError(w, err, "creating hub")
		return
	}
	jsonResponse(w, http.StatusCreated, hub)
}

// Get handles GET /api/hubs/{id}.
func (h *HubsHandler) Get(w http.ResponseWriter, r *http.Request) {
	hub, err := store.GetHub(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		jsonStoreError(w, err, "getting hub")
		return
	}
	jsonResponse(w, http.StatusOK, hub)
}

// Update handles PUT /api/hubs/{id}.
func (h *HubsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req hubRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "name and city required")
		return
	}

	hub, err := store.UpdateHub(r.Context(), h.DB, r.PathValue("id"), req.Name, req.City)
	if err != nil {
		jsonStoreError(w, err, "updating hub")
		return
	}
	jsonResponse(w, http.StatusOK, hub)
}

// Delete handles DELETE /api/hubs/{id}.
func (h *HubsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := store.DeleteHub(r.Context(), h.DB, r.PathValue("id")); err != nil {
		jsonStoreError(w, err, "deleting hub")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "hub deleted"})
}
