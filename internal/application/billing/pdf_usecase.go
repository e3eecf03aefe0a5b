package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/facturo/internal/domain"
	"github.com/jhoicas/facturo/internal/domain/repository"
)

// PDFUseCase genera la representación gráfica (PDF) de una factura.
type PDFUseCase struct {
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	paymentRepo  repository.PaymentRepository
	generator    InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	paymentRepo repository.PaymentRepository,
	generator InvoicePDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		paymentRepo:  paymentRepo,
		generator:    generator,
	}
}

// DownloadInvoicePDF recupera la factura de la cuenta y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la factura no existe en la cuenta.
func (uc *PDFUseCase) DownloadInvoicePDF(
	ctx context.Context,
	ownerID, invoiceID string,
) (pdfBytes []byte, filename string, err error) {
	inv, err := loadInvoice(ctx, uc.invoiceRepo, ownerID, invoiceID)
	if err != nil {
		return nil, "", err
	}

	customer, err := uc.customerRepo.GetByID(ctx, ownerID, inv.CustomerID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener cliente: %w", err)
	}
	if customer == nil {
		return nil, "", fmt.Errorf("pdf: cliente %s: %w", inv.CustomerID, domain.ErrNotFound)
	}

	rawItems, err := uc.invoiceRepo.ListItems(ctx, inv.ID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener líneas: %w", err)
	}
	enriched := make([]InvoiceItemForPDF, 0, len(rawItems))
	for _, it := range rawItems {
		name := "Producto " + it.ProductID // fallback
		if product, pErr := uc.productRepo.GetByID(ctx, ownerID, it.ProductID); pErr == nil && product != nil {
			name = product.Name
		}
		enriched = append(enriched, InvoiceItemForPDF{InvoiceItem: *it, ProductName: name})
	}

	payments, err := uc.paymentRepo.ListByInvoice(ctx, inv.ID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener pagos: %w", err)
	}

	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, inv, customer, enriched, payments)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("factura_%s.pdf", inv.Number), nil
}
