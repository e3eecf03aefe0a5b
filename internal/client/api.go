package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jhoicas/facturo/internal/application/dto"
)

// Login inicia sesión y guarda el token en el cliente.
func (c *Client) Login(ctx context.Context, email, password string) (*dto.LoginResponse, error) {
	var out dto.LoginResponse
	in := dto.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, in, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.AccessToken)
	return &out, nil
}

// Register crea la cuenta y deja la sesión iniciada.
func (c *Client) Register(ctx context.Context, in dto.RegisterRequest) (*dto.LoginResponse, error) {
	var out dto.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", nil, in, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.AccessToken)
	return &out, nil
}

// Me devuelve el usuario del token actual.
func (c *Client) Me(ctx context.Context) (*dto.UserResponse, error) {
	var out dto.UserResponse
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListCustomers(ctx context.Context, page dto.PageRequest) ([]dto.CustomerResponse, error) {
	var out []dto.CustomerResponse
	if err := c.do(ctx, http.MethodGet, "/api/customers", pageQuery(page), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateCustomer(ctx context.Context, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	var out dto.CustomerResponse
	if err := c.do(ctx, http.MethodPost, "/api/customers", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListProducts(ctx context.Context, page dto.PageRequest) ([]dto.ProductResponse, error) {
	var out []dto.ProductResponse
	if err := c.do(ctx, http.MethodGet, "/api/products", pageQuery(page), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateProduct(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	var out dto.ProductResponse
	if err := c.do(ctx, http.MethodPost, "/api/products", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListInvoices(ctx context.Context, page dto.PageRequest) ([]dto.InvoiceSummary, error) {
	var out []dto.InvoiceSummary
	if err := c.do(ctx, http.MethodGet, "/api/invoices", pageQuery(page), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	var out dto.InvoiceResponse
	if err := c.do(ctx, http.MethodGet, "/api/invoices/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateInvoice POST /api/invoices. Con Items la API guarda todo en una transacción.
func (c *Client) CreateInvoice(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	var out dto.InvoiceResponse
	if err := c.do(ctx, http.MethodPost, "/api/invoices", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateInvoiceItem(ctx context.Context, invoiceID string, in dto.InvoiceItemRequest) (*dto.InvoiceItemResponse, error) {
	var out dto.InvoiceItemResponse
	path := "/api/invoices/" + url.PathEscape(invoiceID) + "/items"
	if err := c.do(ctx, http.MethodPost, path, nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreatePayment(ctx context.Context, invoiceID string, in dto.PaymentRequest) (*dto.PaymentResponse, error) {
	var out dto.PaymentResponse
	path := "/api/invoices/" + url.PathEscape(invoiceID) + "/payments"
	if err := c.do(ctx, http.MethodPost, path, nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// InvoicePDF descarga el PDF de la factura.
func (c *Client) InvoicePDF(ctx context.Context, invoiceID string) ([]byte, error) {
	return c.send(ctx, http.MethodGet, "/api/invoices/"+url.PathEscape(invoiceID)+"/pdf", nil, nil)
}

// Dashboard KPIs del mes en curso.
func (c *Client) Dashboard(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	var out dto.DashboardSummaryDTO
	if err := c.do(ctx, http.MethodGet, "/api/dashboard/summary", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
