package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pharmaline/pos-api/internal/domain/entity"
	"github.com/pharmaline/pos-api/internal/domain/repository"
	"github.com/pharmaline/pos-api/pkg/apperror"
	"github.com/pharmaline/pos-api/pkg/printer"
)

// ReceiptService handles receipt formatting and thermal printing.
type ReceiptService struct {
	printer     printer.Printer
	saleRepo    repository.SaleRepository
	storeRepo   repository.StoreRepository
	printerType string
	logger      *zap.Logger
}

// NewReceiptService creates a new receipt service.
func NewReceiptService(
	p printer.Printer,
	saleRepo repository.SaleRepository,
	storeRepo repository.StoreRepository,
	printerType string,
	logger *zap.Logger,
) *ReceiptService {
	return &ReceiptService{
		printer:     p,
		saleRepo:    saleRepo,
		storeRepo:   storeRepo,
		printerType: printerType,
		logger:      logger,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status.
func (s *ReceiptService) GetStatus() *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != "none" && s.printerType != "",
		Connected:  s.printer.IsConnected(),
		Type:       s.printerType,
	}
}

// TestPrint sends a test page to the printer.
// Returns the receipt data so the handler can return it as JSON when printer is disabled.
func (s *ReceiptService) TestPrint() (*entity.Receipt, error) {
	receipt := &entity.Receipt{
		Header: entity.ReceiptHeader{
			StoreName: "PRINTER TEST",
			Address:   "Test Address",
			Phone:     "+254 000 000 000",
		},
		InvoiceNo: "TEST-001",
		Date:      "Test Date",
		Cashier:   "System",
		Items: []entity.ReceiptItem{
			{Name: "Test Item 1", Quantity: 1, UnitPrice: 10.00, Total: 10.00},
			{Name: "Test Item 2", Quantity: 2, UnitPrice: 5.00, Total: 10.00},
		},
		SubTotal: 20.00,
		Tax:      0.00,
		Total:    20.00,
		Paid:     20.00,
		Due:      0.00,
	}

	data := FormatReceipt(receipt)
	if err := s.printer.Print(data); err != nil {
		return receipt, fmt.Errorf("test print failed: %w", err)
	}

	return receipt, nil
}

// PrintSaleReceipt fetches a sale (with items) and prints its receipt.
func (s *ReceiptService) PrintSaleReceipt(ctx context.Context, saleID uuid.UUID) (*entity.Receipt, error) {
	sale, err := s.saleRepo.GetWithDetails(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}

	header := entity.ReceiptHeader{StoreName: "Pharmacy"}
	footer := ""
	store, err := s.storeRepo.GetByID(ctx, sale.StoreID)
	if err == nil && store != nil {
		header.StoreName = store.Name
		header.Address = store.Settings.Address
		header.Phone = store.Settings.Phone
		header.TaxID = store.Settings.TaxID
		footer = store.Settings.ReceiptFooter
	}

	receipt := &entity.Receipt{
		Header:      header,
		InvoiceNo:   sale.InvoiceNo,
		Date:        sale.SaleDate.Format("2006-01-02 15:04"),
		PaymentType: sale.PaymentMethod.String(),
		SubTotal:    float64(sale.SubTotal) / 100,
		Tax:         float64(sale.Tax) / 100,
		Discount:    float64(sale.Discount) / 100,
		Total:       float64(sale.Total) / 100,
		Paid:        float64(sale.Pay) / 100,
		Due:         float64(sale.Due) / 100,
		Footer:      footer,
	}

	if sale.Customer != nil && !sale.Customer.IsWalkIn {
		receipt.Customer = sale.Customer.Name
	}
	if sale.User.FirstName != "" {
		receipt.Cashier = sale.User.FirstName
	}

	for _, item := range sale.Items {
		line := entity.ReceiptItem{
			Quantity:  item.Quantity,
			BatchNo:   item.Batch.BatchNo,
			UnitPrice: float64(item.UnitPrice) / 100,
			Total:     float64(item.Total) / 100,
		}
		if item.Product.Name != "" {
			line.Name = item.Product.Name
		} else {
			line.Name = "Product"
		}
		receipt.Items = append(receipt.Items, line)
	}

	data := FormatReceipt(receipt)
	if err := s.printer.Print(data); err != nil {
		s.logger.Warn("printer error", zap.String("sale_id", saleID.String()), zap.Error(err))
		return receipt, fmt.Errorf("failed to print receipt: %w", err)
	}

	return receipt, nil
}

// FormatReceipt converts a Receipt into ESC/POS bytes.
func FormatReceipt(r *entity.Receipt) []byte {
	doc := printer.NewDocument(32) // 58mm paper = 32 chars

	// Header
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}
	if r.Header.TaxID != "" {
		doc.TextF("Tax ID: %s", r.Header.TaxID)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	// Invoice info
	doc.KeyValue("Invoice:", r.InvoiceNo).
		KeyValue("Date:", r.Date)

	if r.Cashier != "" {
		doc.KeyValue("Cashier:", r.Cashier)
	}
	if r.Customer != "" {
		doc.KeyValue("Customer:", r.Customer)
	}
	if r.PaymentType != "" {
		doc.KeyValue("Payment:", r.PaymentType)
	}

	doc.Separator('-')

	// Items
	for _, item := range r.Items {
		doc.ItemLine(item.Quantity, item.Name, fmt.Sprintf("%.2f", item.Total))
		if item.BatchNo != "" {
			doc.TextF("  batch %s", item.BatchNo)
		}
		if item.Quantity > 1 {
			doc.TextF("  @ %.2f each", item.UnitPrice)
		}
	}

	doc.Separator('-')

	// Totals
	doc.KeyValue("Subtotal:", fmt.Sprintf("%.2f", r.SubTotal))
	if r.Tax > 0 {
		doc.KeyValue("Tax:", fmt.Sprintf("%.2f", r.Tax))
	}
	if r.Discount > 0 {
		doc.KeyValue("Discount:", fmt.Sprintf("-%.2f", r.Discount))
	}
	doc.SetBold(true).
		KeyValue("TOTAL:", fmt.Sprintf("%.2f", r.Total)).
		SetBold(false)

	if r.Paid > 0 {
		doc.KeyValue("Paid:", fmt.Sprintf("%.2f", r.Paid))
	}
	if r.Due > 0 {
		doc.KeyValue("Due:", fmt.Sprintf("%.2f", r.Due))
	}

	doc.Separator('-')

	// Footer
	footer := r.Footer
	if footer == "" {
		footer = "Thank you, get well soon!"
	}
	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Text(footer).
		LineFeed().
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
