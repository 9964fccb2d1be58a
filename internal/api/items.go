package api

import (
	"database/sql"
	"net/http"

	"github.com/ortobank/ortobank/internal/imaging"
	"github.com/ortobank/ortobank/internal/model"
	"github.com/ortobank/ortobank/internal/store"
)

// ItemsHandler handles equipment item endpoints.
type ItemsHandler struct {
	DB *sql.DB
}

type createItemRequest struct {
	SerialCode int    `json:"serial_code" validate:"required,gt=0"`
	StockID    string `json:"stock_id" validate:"required"`
}

type updateItemRequest struct {
	SerialCode *int    `json:"serial_code,omitempty" validate:"omitempty,gt=0"`
	Status     *string `json:"status,omitempty"`
}

// List handles GET /api/items. Supports ?stock_id= and ?status= filtering.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	status := model.ItemStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		jsonError(w, http.StatusBadRequest, "invalid status filter")
		return
	}

	items, err := store.ListItems(r.Context(), h.DB, r.URL.Query().Get("stock_id"), status)
	if err != nil {
		jsonStoreError(w, err, "listing items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/items. New items start AVAILABLE.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "serial_code and stock_id required")
		return
	}

	item, err := store.CreateItem(r.Context(), h.DB, req.SerialCode, req.StockID)
	if err != nil {
		jsonStoreError(w, err, "creating item")
		return
	}
	jsonResponse(w, http.StatusCreated, item)
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := store.GetItem(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		jsonStoreError(w, err, "getting item")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Update handles PUT /api/items/{id}. A status change moves the stock
// counters together with the item row.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var status *model.ItemStatus
	if req.Status != nil {
		s := model.ItemStatus(*req.Status)
		if !s.Valid() {
			jsonError(w, http.StatusBadRequest, "invalid status")
			return
		}
		status = &s
	}

	item, err := store.UpdateItem(r.Context(), h.DB, r.PathValue("id"), req.SerialCode, status)
	if err != nil {
		jsonStoreError(w, err, "updating item")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, err := store.DeleteItem(r.Context(), h.DB, r.PathValue("id")); err != nil {
		jsonStoreError(w, err, "deleting item")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// UploadImage handles PUT /api/items/{id}/image.
func (h *ItemsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	// Limit to 5 MB.
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)

	if err := r.ParseMultipartForm(5 << 20); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	data, mime, err := imaging.Normalize(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.SetItemImage(r.Context(), h.DB, r.PathValue("id"), data, mime); err != nil {
		jsonStoreError(w, err, "saving item image")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "image uploaded"})
}

// GetImage handles GET /api/items/{id}/image.
func (h *ItemsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	data, mime, err := store.GetItemImage(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		jsonStoreError(w, err, "getting item image")
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no image")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}
