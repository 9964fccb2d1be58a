package api

import (
	"database/sql"
	"net/http"

	"github.com/ortobank/ortobank/internal/model"
	"github.com/ortobank/ortobank/internal/store"
)

// StocksHandler handles stock group endpoints. Stock counters are
// read-only over the API; they only move through item and loan operations.
type StocksHandler struct {
	DB *sql.DB
}

type createStockRequest struct {
	HubID string `json:"hub_id" validate:"required"`
	Title string `json:"title" validate:"required"`
}

type updateStockRequest struct {
	Title string `json:"title" validate:"required"`
}

// List handles GET /api/stocks. Supports ?hub_id= filtering.
func (h *StocksHandler) List(w http.ResponseWriter, r *http.Request) {
	stocks, err := store.ListStocks(r.Context(), h.DB, r.URL.Query().Get("hub_id"))
	if err != nil {
		jsonStoreError(w, err, "listing stocks")
		return
	}
	if stocks == nil {
		stocks = []model.Stock{}
	}
	jsonResponse(w, http.StatusOK, stocks)
}

// Create handles POST /api/stocks.
func (h *StocksHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createStockRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "hub_id and title required")
		return
	}

	stock, err := store.CreateStock(r.Context(), h.DB, req.HubID, req.Title)
	if err != nil {
		jsonStoreError(w, err, "creating stock")
		return
	}
	jsonResponse(w, http.StatusCreated, stock)
}

// Get handles GET /api/stocks/{id}. The response includes the stock's items.
func (h *StocksHandler) Get(w http.ResponseWriter, r *http.Request) {
	stock, err := store.GetStock(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		jsonStoreError(w, err, "getting stock")
		return
	}
	jsonResponse(w, http.StatusOK, stock)
}

// Update handles PUT /api/stocks/{id}. Only the title can change.
func (h *StocksHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateStockRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "title required")
		return
	}

	stock, err := store.UpdateStock(r.Context(), h.DB, r.PathValue("id"), req.Title)
	if err != nil {
		jsonStoreError(w, err, "updating stock")
		return
	}
	jsonResponse(w, http.StatusOK, stock)
}

// Delete handles DELETE /api/stocks/{id}.
func (h *StocksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := store.DeleteStock(r.Context(), h.DB, r.PathValue("id")); err != nil {
		jsonStoreError(w, err, "deleting stock")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "stock deleted"})
}
