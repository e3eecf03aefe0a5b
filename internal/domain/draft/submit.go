package draft

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/facturo/internal/application/dto"
	"github.com/jhoicas/facturo/internal/domain/entity"
)

// Submitter colaborador que persiste la factura (API remota, memoria en tests).
type Submitter interface {
	SubmitInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error)
}

// SubmitterFunc adapta una función a Submitter.
type SubmitterFunc func(ctx context.Context, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error)

func (f SubmitterFunc) SubmitInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	return f(ctx, req)
}

// OutcomeKind resultado de Submit.
type OutcomeKind int

const (
	OutcomeSubmitted OutcomeKind = iota + 1
	OutcomeInvalid
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSubmitted:
		return "submitted"
	case OutcomeInvalid:
		return "invalid"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome resultado de Submit.
//   - OutcomeSubmitted: Payload enviado y Result devuelto por el colaborador.
//   - OutcomeInvalid: Validation con las violaciones, Err es *ValidationError. No hubo llamada.
//   - OutcomeFailed: Err es *SubmissionError (o ErrNotEditable / ErrNoSubmitter).
type Outcome struct {
	Kind       OutcomeKind
	Validation ValidationResult
	Payload    *dto.CreateInvoiceRequest
	Result     *dto.InvoiceResponse
	Err        error
}

// InvoiceNumber genera "INV-<año>-<últimos 3 dígitos de los milisegundos unix>".
func InvoiceNumber(now time.Time) string {
	return fmt.Sprintf("INV-%d-%03d", now.Year(), now.UnixMilli()%1000)
}

// Submit valida el borrador y, si es válido, lo envía al colaborador.
// No reintenta. Si el colaborador falla el borrador vuelve a Editing con el
// error disponible en LastError; si tiene éxito queda en Submitted.
func (d *Draft) Submit(ctx context.Context, s Submitter) Outcome {
	d.mu.Lock()
	if d.state != StateEditing {
		d.mu.Unlock()
		return Outcome{Kind: OutcomeFailed, Err: ErrNotEditable}
	}
	if s == nil {
		d.mu.Unlock()
		return Outcome{Kind: OutcomeFailed, Err: ErrNoSubmitter}
	}
	res := d.validateLocked()
	if !res.Valid() {
		d.mu.Unlock()
		return Outcome{Kind: OutcomeInvalid, Validation: res, Err: res.Err()}
	}
	payload := d.payloadLocked(d.now())
	d.state = StateSubmitting
	d.lastErr = nil
	d.mu.Unlock()

	result, err := s.SubmitInvoice(ctx, payload)

	d.mu.Lock()
	defer d.mu.Unlock()
	if err != nil {
		serr := &SubmissionError{Err: err}
		d.state = StateEditing
		d.lastErr = serr
		return Outcome{Kind: OutcomeFailed, Validation: res, Payload: &payload, Err: serr}
	}
	d.state = StateSubmitted
	return Outcome{Kind: OutcomeSubmitted, Validation: res, Payload: &payload, Result: result}
}

// Payload arma el cuerpo de envío con el estado actual sin validar ni enviar.
func (d *Draft) Payload() dto.CreateInvoiceRequest {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.payloadLocked(d.now())
}

func (d *Draft) payloadLocked(now time.Time) dto.CreateInvoiceRequest {
	total := d.totalLocked()
	today := now.Format(dto.DateLayout)

	req := dto.CreateInvoiceRequest{
		InvoiceNumber: InvoiceNumber(now),
		Status:        string(d.status),
		TotalAmount:   total,
		Currency:      entity.CurrencyXOF,
		IssuedAt:      today,
		Notes:         d.notes,
		Items:         make([]dto.InvoiceItemRequest, 0, len(d.items)),
	}
	if d.customer != nil {
		req.CustomerID = d.customer.ID
	}
	if !d.dueDate.IsZero() {
		req.DueDate = d.dueDate.Format(dto.DateLayout)
	}
	for _, item := range d.items {
		line := dto.InvoiceItemRequest{Quantity: item.Quantity, UnitPrice: item.UnitPrice}
		if item.Product != nil {
			line.ProductID = item.Product.ID
		}
		req.Items = append(req.Items, line)
	}
	if d.status == entity.StatusPaid {
		req.Payment = &dto.PaymentRequest{
			Amount:        total,
			PaymentMethod: string(d.method),
			PaidAt:        today,
		}
	}
	return req
}
