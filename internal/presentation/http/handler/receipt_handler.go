package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pharmaline/pos-api/internal/application/service"
	"github.com/pharmaline/pos-api/internal/presentation/http/dto/response"
)

// ReceiptHandler handles receipt printing HTTP requests
type ReceiptHandler struct {
	receiptService *service.ReceiptService
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(receiptService *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// GetStatus returns the thermal printer connection status
func (h *ReceiptHandler) GetStatus(c *gin.Context) {
	response.OK(c, "Printer status retrieved successfully", h.receiptService.GetStatus())
}

// TestPrint sends a short test receipt to the printer
func (h *ReceiptHandler) TestPrint(c *gin.Context) {
	receipt, err := h.receiptService.TestPrint()
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Test receipt printed", receipt)
}

// PrintSale prints the receipt for a completed sale. The formatted receipt is
// returned in the response so the client can render it even without a printer.
func (h *ReceiptHandler) PrintSale(c *gin.Context) {
	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	receipt, err := h.receiptService.PrintSaleReceipt(c.Request.Context(), saleID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt printed", receipt)
}
