package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ortobank/ortobank/internal/model"
	"github.com/ortobank/ortobank/internal/store"
)

// LoansHandler handles loan endpoints. Loan creation, closing, and deletion
// move the linked item and its stock counters in the same transaction.
type LoansHandler struct {
	DB *sql.DB
}

type createLoanRequest struct {
	ApplicantID string `json:"applicant_id" validate:"required"`
	ItemID      string `json:"item_id" validate:"required"`
	Reason      string `json:"reason" validate:"required"`
}

type updateLoanRequest struct {
	Reason     *string `json:"reason,omitempty"`
	ReturnDate *string `json:"return_date,omitempty"`
	IsActive   *bool   `json:"is_active,omitempty"`
}

// List handles GET /api/loans. Only active loans are returned.
func (h *LoansHandler) List(w http.ResponseWriter, r *http.Request) {
	loans, err := store.ListLoans(r.Context(), h.DB)
	if err != nil {
		jsonStoreError(w, err, "listing loans")
		return
	}
	if loans == nil {
		loans = []model.Loan{}
	}
	jsonResponse(w, http.StatusOK, loans)
}

// Create handles POST /api/loans. The authenticated user becomes the loan's
// responsible party.
func (h *LoansHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req createLoanRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "applicant_id, item_id and reason required")
		return
	}

	loan, err := store.CreateLoan(r.Context(), h.DB, req.ApplicantID, claims.UserID, req.ItemID, req.Reason)
	if err != nil {
		jsonStoreError(w, err, "creating loan")
		return
	}

	slog.Info("loan created", "loan", loan.ID, "item", loan.ItemID, "responsible", claims.Username)
	jsonResponse(w, http.StatusCreated, loan)
}

// Get handles GET /api/loans/{id}.
func (h *LoansHandler) Get(w http.ResponseWriter, r *http.Request) {
	loan, err := store.GetLoan(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		jsonStoreError(w, err, "getting loan")
		return
	}
	jsonResponse(w, http.StatusOK, loan)
}

// Update handles PUT /api/loans/{id}. Setting is_active to false returns the
// item to circulation; setting it back to true borrows it again.
func (h *LoansHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateLoanRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var returnDate *time.Time
	if req.ReturnDate != nil {
		t, err := time.Parse(time.RFC3339, *req.ReturnDate)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "return_date must be RFC 3339")
			return
		}
		returnDate = &t
	}

	loan, err := store.UpdateLoan(r.Context(), h.DB, r.PathValue("id"), req.Reason, returnDate, req.IsActive)
	if err != nil {
		jsonStoreError(w, err, "updating loan")
		return
	}
	jsonResponse(w, http.StatusOK, loan)
}

// Delete handles DELETE /api/loans/{id}.
func (h *LoansHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := store.DeleteLoan(r.Context(), h.DB, r.PathValue("id")); err != nil {
		jsonStoreError(w, err, "deleting loan")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "loan deleted"})
}

// ListExpiring handles GET /api/jobs/loans/expiring, authenticated with an
// API key instead of a user token. Supports ?within_days= (default 7).
func (h *LoansHandler) ListExpiring(w http.ResponseWriter, r *http.Request) {
	days := 7
	if v := r.URL.Query().Get("within_days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			jsonError(w, http.StatusBadRequest, "within_days must be a positive integer")
			return
		}
		days = n
	}

	loans, err := store.ListExpiringLoans(r.Context(), h.DB, time.Duration(days)*24*time.Hour)
	if err != nil {
		jsonStoreError(w, err, "listing expiring loans")
		return
	}
	if loans == nil {
		loans = []model.Loan{}
	}
	jsonResponse(w, http.StatusOK, loans)
}
