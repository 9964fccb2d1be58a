package api

import (
	"database/sql"
	"net/http"

	"github.com/ortobank/ortobank/internal/model"
	"github.com/ortobank/ortobank/internal/store"
)

// ApplicantsHandler handles loan applicant endpoints.
type ApplicantsHandler struct {
	DB *sql.DB
}

type applicantRequest struct {
	Name       string `json:"name" validate:"required"`
	NationalID string `json:"national_id" validate:"required"`
	Email      string `json:"email" validate:"omitempty,email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
}

func (req applicantRequest) model() model.Applicant {
	return model.Applicant{
		Name:       req.Name,
		NationalID: req.NationalID,
		Email:      req.Email,
		Phone:      req.Phone,
		Address:    req.Address,
	}
}

// List handles GET /api/applicants.
func (h *ApplicantsHandler) List(w http.ResponseWriter, r *http.Request) {
	applicants, err := store.ListApplicants(r.Context(), h.DB)
	if err != nil {
		jsonStoreError(w, err, "listing applicants")
		return
	}
	if applicants == nil {
		applicants = []model.Applicant{}
	}
	jsonResponse(w, http.StatusOK, applicants)
}

// Create handles POST /api/applicants.
func (h *ApplicantsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req applicantRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "name and national_id required")
		return
	}

	applicant, err := store.CreateApplicant(r.Context(), h.DB, req.model())
	if err != nil {
		jsonStoreError(w, err, "creating applicant")
		return
	}
	jsonResponse(w, http.StatusCreated, applicant)
}

// Get handles GET /api/applicants/{id}.
func (h *ApplicantsHandler) Get(w http.ResponseWriter, r *http.Request) {
	applicant, err := store.GetApplicant(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		jsonStoreError(w, err, "getting applicant")
		return
	}
	jsonResponse(w, http.StatusOK, applicant)
}

// Update handles PUT /api/applicants/{id}.
func (h *ApplicantsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req applicantRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "name and national_id required")
		return
	}

	applicant, err := store.UpdateApplicant(r.Context(), h.DB, r.PathValue("id"), req.model())
	if err != nil {
		jsonStoreError(w, err, "updating applicant")
		return
	}
	jsonResponse(w, http.StatusOK, applicant)
}

// Delete handles DELETE /api/applicants/{id}.
func (h *ApplicantsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := store.DeleteApplicant(r.Context(), h.DB, r.PathValue("id")); err != nil {
		jsonStoreError(w, err, "deleting applicant")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "applicant deleted"})
}
