package dto

import "github.com/shopspring/decimal"

// CreateCustomerRequest body para POST /api/customers.
type CreateCustomerRequest struct {
	FirstName string `json:"firstname" validate:"required,max=100"`
	LastName  string `json:"name" validate:"required,max=100"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	Phone     string `json:"phone,omitempty" validate:"omitempty,max=30"`
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"firstname"`
	LastName  string `json:"name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// CreateInvoiceRequest body para POST /api/invoices.
// Con Items la factura se crea completa en una sola transacción; sin Items solo
// se crea la cabecera y las líneas llegan después por POST /api/invoices/:id/items.
type CreateInvoiceRequest struct {
	CustomerID    string               `json:"customer_id" validate:"required"`
	InvoiceNumber string               `json:"invoice_number" validate:"required,max=50"`
	Status        string               `json:"status" validate:"required,oneof=PENDING PAID OVERDUE CANCELLED"`
	TotalAmount   decimal.Decimal      `json:"total_amount"`
	Currency      string               `json:"currency" validate:"required,eq=XOF"`
	IssuedAt      string               `json:"issued_at" validate:"required,datetime=2006-01-02"`
	DueDate       string               `json:"due_date" validate:"required,datetime=2006-01-02"`
	Notes         string               `json:"notes" validate:"max=2000"`
	Items         []InvoiceItemRequest `json:"items" validate:"dive"`
	Payment       *PaymentRequest      `json:"payment"`
}

// InvoiceItemRequest línea de factura (producto, cantidad, precio unitario).
type InvoiceItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  int             `json:"quantity" validate:"min=1"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// PaymentRequest pago adjunto a una factura PAID.
type PaymentRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method" validate:"required,oneof=CASH BANK_TRANSFER CARD MOBILE_MONEY"`
	PaidAt        string          `json:"paid_at" validate:"required,datetime=2006-01-02"`
}

// InvoiceResponse factura con líneas y pagos para GET /api/invoices/:id.
type InvoiceResponse struct {
	ID            string                `json:"id"`
	InvoiceNumber string                `json:"invoice_number"`
	CustomerID    string                `json:"customer_id"`
	CustomerName  string                `json:"customer_name,omitempty"`
	Status        string                `json:"status"`
	TotalAmount   decimal.Decimal       `json:"total_amount"`
	Currency      string                `json:"currency"`
	IssuedAt      string                `json:"issued_at"`
	DueDate       string                `json:"due_date"`
	Notes         string                `json:"notes"`
	Items         []InvoiceItemResponse `json:"items"`
	Payments      []PaymentResponse     `json:"payments"`
}

// InvoiceItemResponse línea de factura en la respuesta.
type InvoiceItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

// PaymentResponse pago en la respuesta.
type PaymentResponse struct {
	ID            string          `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	PaidAt        string          `json:"paid_at"`
}
