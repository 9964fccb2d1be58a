package api

import (
	"database/sql"
	"net/http"

	"github.com/ortobank/ortobank/internal/model"
	"github.com/ortobank/ortobank/internal/store"
)

// DependentsHandler handles endpoints for an applicant's dependents.
type DependentsHandler struct {
	DB *sql.DB
}

type dependentRequest struct {
	Name       string `json:"name" validate:"required"`
	NationalID string `json:"national_id" validate:"required"`
	Email      string `json:"email" validate:"omitempty,email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
}

func (req dependentRequest) model() model.Dependent {
	return model.Dependent{
		Name:       req.Name,
		NationalID: req.NationalID,
		Email:      req.Email,
		Phone:      req.Phone,
		Address:    req.Address,
	}
}

// List handles GET /api/applicants/{id}/dependents.
func (h *DependentsHandler) List(w http.ResponseWriter, r *http.Request) {
	applicantID := r.PathValue("id")
	if _, err := store.GetApplicant(r.Context(), h.DB, applicantID); err != nil {
		jsonStoreError(w, err, "getting applicant")
		return
	}

	dependents, err := store.ListDependents(r.Context(), h.DB, applicantID)
	if err != nil {
		jsonStoreError(w, err, "listing dependents")
		return
	}
	if dependents == nil {
		dependents = []model.Dependent{}
	}
	jsonResponse(w, http.StatusOK, dependents)
}

// Create handles POST /api/applicants/{id}/dependents.
func (h *DependentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dependentRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "name and national_id required")
		return
	}

	d := req.model()
	d.ApplicantID = r.PathValue("id")
	dependent, err := store.CreateDependent(r.Context(), h.DB, d)
	if err != nil {
		jsonStoreError(w, err, "creating dependent")
		return
	}
	jsonResponse(w, http.StatusCreated, dependent)
}

// Get handles GET /api/dependents/{id}.
func (h *DependentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	dependent, err := store.GetDependent(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		jsonStoreError(w, err, "getting dependent")
		return
	}
	jsonResponse(w, http.StatusOK, dependent)
}

// Update handles PUT /api/dependents/{id}.
func (h *DependentsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dependentRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "name and national_id required")
		return
	}

	dependent, err := store.UpdateDependent(r.Context(), h.DB, r.PathValue("id"), req.model())
	if err != nil {
		jsonStoreError(w, err, "updating dependent")
		return
	}
	jsonResponse(w, http.StatusOK, dependent)
}

// Delete handles DELETE /api/dependents/{id}.
func (h *DependentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := store.DeleteDependent(r.Context(), h.DB, r.PathValue("id")); err != nil {
		jsonStoreError(w, err, "deleting dependent")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "dependent deleted"})
}
