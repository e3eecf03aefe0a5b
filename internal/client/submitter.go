package client

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturo/internal/application/dto"
	"github.com/jhoicas/facturo/internal/domain/draft"
	"github.com/jhoicas/facturo/pkg/logger"
)

var (
	_ draft.Submitter = (*CompositeSubmitter)(nil)
	_ draft.Submitter = (*SequentialSubmitter)(nil)
	_ InvoiceAPI      = (*Client)(nil)
)

// InvoiceAPI operaciones de la API que usan los submitters.
type InvoiceAPI interface {
	CreateInvoice(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error)
	CreateInvoiceItem(ctx context.Context, invoiceID string, in dto.InvoiceItemRequest) (*dto.InvoiceItemResponse, error)
	CreatePayment(ctx context.Context, invoiceID string, in dto.PaymentRequest) (*dto.PaymentResponse, error)
}

// CompositeSubmitter envía cabecera, líneas y pago en una sola petición;
// la API los guarda en una transacción (todo o nada).
type CompositeSubmitter struct {
	api InvoiceAPI
}

// NewCompositeSubmitter construye el submitter por defecto.
func NewCompositeSubmitter(api InvoiceAPI) *CompositeSubmitter {
	return &CompositeSubmitter{api: api}
}

func (s *CompositeSubmitter) SubmitInvoice(ctx context.Context, payload dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	return s.api.CreateInvoice(ctx, payload)
}

// PartialSubmissionError el envío secuencial se cortó después de crear la cabecera.
// Lo ya creado queda en el servidor: no hay rollback.
//
// FailedIndex es el índice de la línea que falló, o len(items) si lo que
// falló fue el pago. Created cuenta las líneas creadas antes del fallo.
type PartialSubmissionError struct {
	InvoiceID   string
	Created     int
	FailedIndex int
	Err         error
}

func (e *PartialSubmissionError) Error() string {
	return fmt.Sprintf("envío parcial de la factura %s (%d líneas creadas, falló el paso %d): %v",
		e.InvoiceID, e.Created, e.FailedIndex, e.Err)
}

func (e *PartialSubmissionError) Unwrap() error { return e.Err }

// SequentialSubmitter reproduce el flujo de varias peticiones: cabecera,
// una petición por línea en orden y por último el pago.
type SequentialSubmitter struct {
	api InvoiceAPI
	log *logger.Logger
}

// NewSequentialSubmitter construye el submitter secuencial.
func NewSequentialSubmitter(api InvoiceAPI, log *logger.Logger) *SequentialSubmitter {
	if log == nil {
		log = logger.Nop()
	}
	return &SequentialSubmitter{api: api, log: log.Component("sequential_submitter")}
}

func (s *SequentialSubmitter) SubmitInvoice(ctx context.Context, payload dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	header := payload
	header.Items = nil
	header.Payment = nil

	invoice, err := s.api.CreateInvoice(ctx, header)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for i, item := range payload.Items {
		created, err := s.api.CreateInvoiceItem(ctx, invoice.ID, item)
		if err != nil {
			return nil, s.partial(invoice, i, i, err)
		}
		invoice.Items = append(invoice.Items, *created)
		total = total.Add(created.Total)
	}
	invoice.TotalAmount = total

	if payload.Payment != nil {
		payment, err := s.api.CreatePayment(ctx, invoice.ID, *payload.Payment)
		if err != nil {
			return nil, s.partial(invoice, len(payload.Items), len(payload.Items), err)
		}
		invoice.Payments = append(invoice.Payments, *payment)
	}
	return invoice, nil
}

func (s *SequentialSubmitter) partial(invoice *dto.InvoiceResponse, created, failed int, err error) error {
	ids := make([]string, 0, len(invoice.Items))
	for _, it := range invoice.Items {
		ids = append(ids, it.ID)
	}
	s.log.Error().Err(err).
		Str("invoice_id", invoice.ID).
		Str("invoice_number", invoice.InvoiceNumber).
		Strs("created_items", ids).
		Int("failed_index", failed).
		Msg("envío secuencial incompleto; la factura quedó parcialmente creada")
	return &PartialSubmissionError{
		InvoiceID:   invoice.ID,
		Created:     created,
		FailedIndex: failed,
		Err:         err,
	}
}
