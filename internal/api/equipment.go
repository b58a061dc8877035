package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dowan1041/ocie-helper/internal/catalog"
	"github.com/dowan1041/ocie-helper/internal/model"
)

// EquipmentHandler handles the equipment endpoints.
type EquipmentHandler struct {
	Catalog *catalog.Service
}

type createEquipmentResponse struct {
	Success bool             `json:"success"`
	Item    *model.Equipment `json:"item"`
	Message string           `json:"message"`
}

// List handles GET /api/equipment.
func (h *EquipmentHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Catalog.List(r.Context())
	if err != nil {
		slog.Error("failed to list equipment", "error", err)
		details := "internal error"
		var se *model.StoreError
		if errors.As(err, &se) {
			details = se.Op
		}
		jsonResponse(w, http.StatusInternalServerError, map[string]string{
			"error":   "Failed to read data",
			"details": details,
		})
		return
	}
	if items == nil {
		items = []model.Equipment{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/equipment.
func (h *EquipmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.EquipmentInput
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.Catalog.AddItem(r.Context(), req, nil)
	if err != nil {
		writeCatalogError(w, err, "Failed to add item")
		return
	}

	slog.Info("equipment added", "id", item.ID, "nsn", item.PartialNSN)
	jsonResponse(w, http.StatusOK, createEquipmentResponse{
		Success: true,
		Item:    item,
		Message: "Item added successfully",
	})
}
