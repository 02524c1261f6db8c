package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/pharmaline/pos-api/internal/application/service"
	"github.com/pharmaline/pos-api/internal/presentation/http/dto/request"
	"github.com/pharmaline/pos-api/internal/presentation/http/dto/response"
)

// SettingsHandler handles store settings HTTP requests
type SettingsHandler struct {
	storeService *service.StoreService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(storeService *service.StoreService) *SettingsHandler {
	return &SettingsHandler{storeService: storeService}
}

// GetSettings returns the current store's profile and settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	store, err := h.storeService.GetStore(c.Request.Context(), GetStoreID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings retrieved successfully", store)
}

// UpdateSettings updates the current store's settings
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req request.UpdateStoreSettingsRequest
	if !bindJSON(c, &req) {
		return
	}

	store, err := h.storeService.UpdateSettings(c.Request.Context(), GetStoreID(c), &service.UpdateSettingsInput{
		Address:       req.Address,
		Phone:         req.Phone,
		TaxID:         req.TaxID,
		Currency:      req.Currency,
		Timezone:      req.Timezone,
		ReceiptFooter: req.ReceiptFooter,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings updated successfully", store)
}
