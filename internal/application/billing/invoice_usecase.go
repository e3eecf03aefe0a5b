package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturo/internal/application/dto"
	"github.com/jhoicas/facturo/internal/domain"
	"github.com/jhoicas/facturo/internal/domain/entity"
	"github.com/jhoicas/facturo/internal/domain/repository"
)

// InvoiceUseCase crea y consulta facturas.
//
// Create recibe la factura completa (cabecera + líneas + pago) y la persiste en
// una sola transacción. AddItem y AddPayment sirven al flujo secuencial, donde
// la cabecera se crea primero y las líneas llegan una por una.
type InvoiceUseCase struct {
	txRunner     BillingTxRunner
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	paymentRepo  repository.PaymentRepository
	now          func() time.Time
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	txRunner BillingTxRunner,
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	paymentRepo repository.PaymentRepository,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner:     txRunner,
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		paymentRepo:  paymentRepo,
		now:          time.Now,
	}
}

// amountOutOfRange mensaje para montos fuera de entity.AmountInRange.
const amountOutOfRange = "fuera de rango (máximo 1000000000000)"

// unitPriceProblem mensaje de error del precio unitario o "" si es válido.
// El signo se revisa antes del rango: un negativo con exponente enorme no se expande.
func unitPriceProblem(p decimal.Decimal) string {
	if p.IsNegative() {
		return "no puede ser negativo"
	}
	if !entity.AmountInRange(p) {
		return amountOutOfRange
	}
	return ""
}

func paymentAmountProblem(a decimal.Decimal) string {
	if !a.IsPositive() {
		return "debe ser mayor que 0"
	}
	if !entity.AmountInRange(a) {
		return amountOutOfRange
	}
	return ""
}

// Create valida y persiste la factura con sus líneas y el pago opcional.
// Con líneas, total_amount debe coincidir con la suma recalculada (ErrTotalMismatch).
// Sin líneas se crea solo la cabecera con total 0; el total se recalcula al agregar líneas.
func (uc *InvoiceUseCase) Create(ctx context.Context, ownerID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	issuedAt, dueDate, err := parseInvoiceDates(in.IssuedAt, in.DueDate)
	if err != nil {
		return nil, err
	}

	fields := map[string]string{}
	computed := decimal.Zero
	for i, item := range in.Items {
		if msg := unitPriceProblem(item.UnitPrice); msg != "" {
			fields[fmt.Sprintf("items[%d].unit_price", i)] = msg
			continue
		}
		computed = computed.Add(lineTotal(item.Quantity, item.UnitPrice))
	}
	if !entity.AmountInRange(in.TotalAmount) {
		fields["total_amount"] = amountOutOfRange
	}
	status := entity.PaymentStatus(in.Status)
	if in.Payment != nil {
		if status != entity.StatusPaid {
			fields["payment"] = "solo se admite con estado PAID"
		}
		if msg := paymentAmountProblem(in.Payment.Amount); msg != "" {
			fields["payment.amount"] = msg
		}
	}
	if len(fields) > 0 {
		return nil, &dto.ValidationError{Fields: fields}
	}
	if len(in.Items) > 0 && !computed.Equal(in.TotalAmount) {
		return nil, fmt.Errorf("%w: declarado %s, calculado %s", domain.ErrTotalMismatch, in.TotalAmount, computed)
	}

	now := uc.now()
	inv := &entity.Invoice{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		CustomerID:  in.CustomerID,
		Number:      in.InvoiceNumber,
		Status:      status,
		TotalAmount: computed,
		Currency:    entity.CurrencyXOF,
		IssuedAt:    issuedAt,
		DueDate:     dueDate,
		Notes:       in.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	var (
		customer *entity.Customer
		items    []*entity.InvoiceItem
		payments []*entity.Payment
	)

	err = uc.txRunner.RunBilling(ctx, func(
		customerRepo repository.CustomerRepository,
		productRepo repository.ProductRepository,
		invoiceRepo repository.InvoiceRepository,
		paymentRepo repository.PaymentRepository,
	) error {
		customer, err = customerRepo.GetByID(ctx, ownerID, in.CustomerID)
		if err != nil {
			return fmt.Errorf("obtener cliente: %w", err)
		}
		if customer == nil {
			return fmt.Errorf("cliente %s: %w", in.CustomerID, domain.ErrNotFound)
		}
		if err := invoiceRepo.Create(ctx, inv); err != nil {
			return err
		}
		for _, req := range in.Items {
			item, err := insertItem(ctx, productRepo, invoiceRepo, ownerID, inv.ID, req)
			if err != nil {
				return err
			}
			items = append(items, item)
		}
		if in.Payment != nil {
			p, err := insertPayment(ctx, paymentRepo, inv.ID, *in.Payment, now)
			if err != nil {
				return err
			}
			payments = append(payments, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, customer, items, payments), nil
}

// AddItem agrega una línea a una factura existente y recalcula su total.
func (uc *InvoiceUseCase) AddItem(ctx context.Context, ownerID, invoiceID string, in dto.InvoiceItemRequest) (*dto.InvoiceItemResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if msg := unitPriceProblem(in.UnitPrice); msg != "" {
		return nil, &dto.ValidationError{Fields: map[string]string{"unit_price": msg}}
	}

	var item *entity.InvoiceItem
	err := uc.txRunner.RunBilling(ctx, func(
		_ repository.CustomerRepository,
		productRepo repository.ProductRepository,
		invoiceRepo repository.InvoiceRepository,
		_ repository.PaymentRepository,
	) error {
		inv, err := loadInvoice(ctx, invoiceRepo, ownerID, invoiceID)
		if err != nil {
			return err
		}
		item, err = insertItem(ctx, productRepo, invoiceRepo, ownerID, inv.ID, in)
		if err != nil {
			return err
		}
		inv.TotalAmount = inv.TotalAmount.Add(item.Total)
		inv.UpdatedAt = uc.now()
		return invoiceRepo.UpdateTotals(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	resp := toItemResponse(item)
	return &resp, nil
}

// AddPayment registra un pago. Cuando lo pagado cubre el total la factura pasa a PAID.
func (uc *InvoiceUseCase) AddPayment(ctx context.Context, ownerID, invoiceID string, in dto.PaymentRequest) (*dto.PaymentResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if msg := paymentAmountProblem(in.Amount); msg != "" {
		return nil, &dto.ValidationError{Fields: map[string]string{"amount": msg}}
	}

	var payment *entity.Payment
	err := uc.txRunner.RunBilling(ctx, func(
		_ repository.CustomerRepository,
		_ repository.ProductRepository,
		invoiceRepo repository.InvoiceRepository,
		paymentRepo repository.PaymentRepository,
	) error {
		inv, err := loadInvoice(ctx, invoiceRepo, ownerID, invoiceID)
		if err != nil {
			return err
		}
		if inv.Status == entity.StatusCancelled {
			return fmt.Errorf("%w: la factura está anulada", domain.ErrInvalidInput)
		}
		now := uc.now()
		payment, err = insertPayment(ctx, paymentRepo, inv.ID, in, now)
		if err != nil {
			return err
		}
		all, err := paymentRepo.ListByInvoice(ctx, inv.ID)
		if err != nil {
			return fmt.Errorf("listar pagos: %w", err)
		}
		paid := decimal.Zero
		for _, p := range all {
			paid = paid.Add(p.Amount)
		}
		if inv.Status != entity.StatusPaid && paid.GreaterThanOrEqual(inv.TotalAmount) {
			inv.Status = entity.StatusPaid
			inv.UpdatedAt = now
			return invoiceRepo.UpdateTotals(ctx, inv)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := toPaymentResponse(payment)
	return &resp, nil
}

// Get devuelve la factura con líneas y pagos.
func (uc *InvoiceUseCase) Get(ctx context.Context, ownerID, invoiceID string) (*dto.InvoiceResponse, error) {
	inv, err := loadInvoice(ctx, uc.invoiceRepo, ownerID, invoiceID)
	if err != nil {
		return nil, err
	}
	items, err := uc.invoiceRepo.ListItems(ctx, inv.ID)
	if err != nil {
		return nil, fmt.Errorf("listar líneas: %w", err)
	}
	payments, err := uc.paymentRepo.ListByInvoice(ctx, inv.ID)
	if err != nil {
		return nil, fmt.Errorf("listar pagos: %w", err)
	}
	customer, err := uc.customerRepo.GetByID(ctx, ownerID, inv.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("obtener cliente: %w", err)
	}
	return toInvoiceResponse(inv, customer, items, payments), nil
}

// List lista las facturas de la cuenta, más recientes primero.
func (uc *InvoiceUseCase) List(ctx context.Context, ownerID string, page dto.PageRequest) ([]dto.InvoiceSummary, error) {
	page.DefaultPage()
	list, err := uc.invoiceRepo.ListByOwner(ctx, ownerID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return summarize(ctx, uc.customerRepo, ownerID, list)
}

// summarize arma las filas resolviendo el nombre de cada cliente una sola vez.
func summarize(ctx context.Context, customers repository.CustomerRepository, ownerID string, list []*entity.Invoice) ([]dto.InvoiceSummary, error) {
	names := make(map[string]string)
	out := make([]dto.InvoiceSummary, 0, len(list))
	for _, inv := range list {
		name, ok := names[inv.CustomerID]
		if !ok {
			c, err := customers.GetByID(ctx, ownerID, inv.CustomerID)
			if err != nil {
				return nil, fmt.Errorf("obtener cliente: %w", err)
			}
			if c != nil {
				name = c.DisplayName()
			}
			names[inv.CustomerID] = name
		}
		out = append(out, dto.InvoiceSummary{
			ID:            inv.ID,
			InvoiceNumber: inv.Number,
			CustomerID:    inv.CustomerID,
			CustomerName:  name,
			Status:        string(inv.Status),
			TotalAmount:   inv.TotalAmount,
			Currency:      inv.Currency,
			IssuedAt:      inv.IssuedAt.Format(dto.DateLayout),
			DueDate:       inv.DueDate.Format(dto.DateLayout),
		})
	}
	return out, nil
}

func loadInvoice(ctx context.Context, repo repository.InvoiceRepository, ownerID, id string) (*entity.Invoice, error) {
	inv, err := repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("obtener factura: %w", err)
	}
	if inv == nil {
		return nil, fmt.Errorf("factura %s: %w", id, domain.ErrNotFound)
	}
	return inv, nil
}

func insertItem(
	ctx context.Context,
	productRepo repository.ProductRepository,
	invoiceRepo repository.InvoiceRepository,
	ownerID, invoiceID string,
	req dto.InvoiceItemRequest,
) (*entity.InvoiceItem, error) {
	product, err := productRepo.GetByID(ctx, ownerID, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("obtener producto: %w", err)
	}
	if product == nil {
		return nil, fmt.Errorf("producto %s: %w", req.ProductID, domain.ErrNotFound)
	}
	item := &entity.InvoiceItem{
		ID:        uuid.New().String(),
		InvoiceID: invoiceID,
		ProductID: product.ID,
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice,
		Total:     lineTotal(req.Quantity, req.UnitPrice),
	}
	if err := invoiceRepo.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func insertPayment(ctx context.Context, repo repository.PaymentRepository, invoiceID string, req dto.PaymentRequest, now time.Time) (*entity.Payment, error) {
	paidAt, err := time.Parse(dto.DateLayout, req.PaidAt)
	if err != nil {
		return nil, &dto.ValidationError{Fields: map[string]string{"paid_at": "fecha inválida (YYYY-MM-DD)"}}
	}
	p := &entity.Payment{
		ID:        uuid.New().String(),
		InvoiceID: invoiceID,
		Amount:    req.Amount,
		Method:    entity.PaymentMethod(req.PaymentMethod),
		PaidAt:    paidAt,
		CreatedAt: now,
	}
	if err := repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func parseInvoiceDates(issued, due string) (time.Time, time.Time, error) {
	issuedAt, err := time.Parse(dto.DateLayout, issued)
	if err != nil {
		return time.Time{}, time.Time{}, &dto.ValidationError{Fields: map[string]string{"issued_at": "fecha inválida (YYYY-MM-DD)"}}
	}
	dueDate, err := time.Parse(dto.DateLayout, due)
	if err != nil {
		return time.Time{}, time.Time{}, &dto.ValidationError{Fields: map[string]string{"due_date": "fecha inválida (YYYY-MM-DD)"}}
	}
	if dueDate.Before(issuedAt) {
		return time.Time{}, time.Time{}, &dto.ValidationError{Fields: map[string]string{"due_date": "no puede ser anterior a issued_at"}}
	}
	return issuedAt, dueDate, nil
}

func lineTotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(int64(quantity)).Mul(unitPrice)
}

func toInvoiceResponse(inv *entity.Invoice, customer *entity.Customer, items []*entity.InvoiceItem, payments []*entity.Payment) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.Number,
		CustomerID:    inv.CustomerID,
		Status:        string(inv.Status),
		TotalAmount:   inv.TotalAmount,
		Currency:      inv.Currency,
		IssuedAt:      inv.IssuedAt.Format(dto.DateLayout),
		DueDate:       inv.DueDate.Format(dto.DateLayout),
		Notes:         inv.Notes,
		Items:         make([]dto.InvoiceItemResponse, 0, len(items)),
		Payments:      make([]dto.PaymentResponse, 0, len(payments)),
	}
	if customer != nil {
		resp.CustomerName = customer.DisplayName()
	}
	for _, it := range items {
		resp.Items = append(resp.Items, toItemResponse(it))
	}
	for _, p := range payments {
		resp.Payments = append(resp.Payments, toPaymentResponse(p))
	}
	return resp
}

func toItemResponse(it *entity.InvoiceItem) dto.InvoiceItemResponse {
	return dto.InvoiceItemResponse{
		ID:        it.ID,
		ProductID: it.ProductID,
		Quantity:  it.Quantity,
		UnitPrice: it.UnitPrice,
		Total:     it.Total,
	}
}

func toPaymentResponse(p *entity.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:            p.ID,
		Amount:        p.Amount,
		PaymentMethod: string(p.Method),
		PaidAt:        p.PaidAt.Format(dto.DateLayout),
	}
}
