package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturo/internal/apitest"
	"github.com/jhoicas/facturo/internal/application/dto"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers: API completa sobre el store en memoria
// ──────────────────────────────────────────────────────────────────────────────

func newTestAPI(t *testing.T) *fiber.App {
	t.Helper()
	return apitest.NewApp()
}

// call envía body como JSON y devuelve status y cuerpo crudo.
func call(t *testing.T, app *fiber.App, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

// seedAccount registra una cuenta con un cliente y un producto de 5000 XOF.
func seedAccount(t *testing.T, app *fiber.App) (token, customerID, productID string) {
	t.Helper()
	status, raw := call(t, app, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Email: "Awa@Example.com", Password: "secreto1",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	login := decode[dto.LoginResponse](t, raw)
	require.NotEmpty(t, login.AccessToken)
	token = login.AccessToken

	status, raw = call(t, app, http.MethodPost, "/api/customers", token, dto.CreateCustomerRequest{
		FirstName: "Moussa", LastName: "Diallo", Phone: "+221 77 000 00 00",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	customerID = decode[dto.CustomerResponse](t, raw).ID

	status, raw = call(t, app, http.MethodPost, "/api/products", token, dto.CreateProductRequest{
		Name: "Consultation", Amount: decimal.NewFromInt(5000),
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	productID = decode[dto.ProductResponse](t, raw).ID
	return token, customerID, productID
}

// rawJSON serializa body y deja que set reemplace campos por números JSON
// literales (json.Number) que decimal.Decimal no podría serializar barato.
func rawJSON(t *testing.T, body any, set func(m map[string]any)) map[string]any {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	var m map[string]any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	require.NoError(t, dec.Decode(&m))
	set(m)
	return m
}

const hugeAmount = json.Number("1e50000000")

func today() string { return time.Now().Format(dto.DateLayout) }

func compositeInvoice(customerID, productID, number string) dto.CreateInvoiceRequest {
	return dto.CreateInvoiceRequest{
		CustomerID:    customerID,
		InvoiceNumber: number,
		Status:        "PAID",
		TotalAmount:   decimal.NewFromInt(10000),
		Currency:      "XOF",
		IssuedAt:      today(),
		DueDate:       time.Now().AddDate(0, 0, 7).Format(dto.DateLayout),
		Items: []dto.InvoiceItemRequest{
			{ProductID: productID, Quantity: 2, UnitPrice: decimal.NewFromInt(5000)},
		},
		Payment: &dto.PaymentRequest{
			Amount: decimal.NewFromInt(10000), PaymentMethod: "MOBILE_MONEY", PaidAt: today(),
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_RegistroLoginYMe(t *testing.T) {
	app := newTestAPI(t)
	token, _, _ := seedAccount(t, app)

	status, raw := call(t, app, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.Equal(t, "awa@example.com", decode[dto.UserResponse](t, raw).Email)

	status, raw = call(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{
		Email: "awa@example.com", Password: "secreto1",
	})
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.NotEmpty(t, decode[dto.LoginResponse](t, raw).AccessToken)

	status, raw = call(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{
		Email: "awa@example.com", Password: "otra-clave",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", decode[dto.ErrorResponse](t, raw).Code)
}

func TestRouter_RegistroEmailDuplicado_Retorna409(t *testing.T) {
	app := newTestAPI(t)
	seedAccount(t, app)

	status, raw := call(t, app, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Email: "awa@example.com", Password: "secreto1",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "EMAIL_EXISTS", decode[dto.ErrorResponse](t, raw).Code)
}

func TestRouter_RutaProtegidaSinToken_Retorna401(t *testing.T) {
	app := newTestAPI(t)
	status, raw := call(t, app, http.MethodGet, "/api/customers", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "MISSING_TOKEN", decode[dto.ErrorResponse](t, raw).Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Clientes y productos
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_ClienteInvalido_DevuelveCampos(t *testing.T) {
	app := newTestAPI(t)
	token, _, _ := seedAccount(t, app)

	status, raw := call(t, app, http.MethodPost, "/api/customers", token, dto.CreateCustomerRequest{
		FirstName: "Moussa", Email: "no-es-email",
	})
	require.Equal(t, http.StatusBadRequest, status)
	resp := decode[dto.ErrorResponse](t, raw)
	assert.Equal(t, "VALIDATION_ERROR", resp.Code)
	assert.Contains(t, resp.Fields, "name")
	assert.Contains(t, resp.Fields, "email")
}

func TestRouter_ProductoMontoCero_Retorna400(t *testing.T) {
	app := newTestAPI(t)
	token, _, _ := seedAccount(t, app)

	status, raw := call(t, app, http.MethodPost, "/api/products", token, dto.CreateProductRequest{
		Name: "Gratis", Amount: decimal.Zero,
	})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, decode[dto.ErrorResponse](t, raw).Fields, "product_amount")
}

func TestRouter_ListadosAisladosPorCuenta(t *testing.T) {
	app := newTestAPI(t)
	token, _, _ := seedAccount(t, app)

	status, raw := call(t, app, http.MethodGet, "/api/customers", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]dto.CustomerResponse](t, raw), 1)

	status, raw = call(t, app, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Email: "otra@example.com", Password: "secreto2",
	})
	require.Equal(t, http.StatusCreated, status)
	other := decode[dto.LoginResponse](t, raw).AccessToken

	status, raw = call(t, app, http.MethodGet, "/api/products", other, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode[[]dto.ProductResponse](t, raw))
}

// ──────────────────────────────────────────────────────────────────────────────
// Facturas
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_FacturaCompuesta(t *testing.T) {
	app := newTestAPI(t)
	token, customerID, productID := seedAccount(t, app)

	status, raw := call(t, app, http.MethodPost, "/api/invoices", token,
		compositeInvoice(customerID, productID, "INV-2025-001"))
	require.Equal(t, http.StatusCreated, status, string(raw))
	created := decode[dto.InvoiceResponse](t, raw)
	assert.True(t, decimal.NewFromInt(10000).Equal(created.TotalAmount))
	assert.Equal(t, "Moussa Diallo", created.CustomerName)
	require.Len(t, created.Items, 1)
	assert.True(t, decimal.NewFromInt(10000).Equal(created.Items[0].Total))
	require.Len(t, created.Payments, 1)
	assert.Equal(t, "MOBILE_MONEY", created.Payments[0].PaymentMethod)

	status, raw = call(t, app, http.MethodGet, "/api/invoices/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "INV-2025-001", decode[dto.InvoiceResponse](t, raw).InvoiceNumber)

	status, raw = call(t, app, http.MethodGet, "/api/invoices", token, nil)
	require.Equal(t, http.StatusOK, status)
	list := decode[[]dto.InvoiceSummary](t, raw)
	require.Len(t, list, 1)
	assert.Equal(t, "PAID", list[0].Status)
}

func TestRouter_FacturaNumeroDuplicado_Retorna409(t *testing.T) {
	app := newTestAPI(t)
	token, customerID, productID := seedAccount(t, app)

	body := compositeInvoice(customerID, productID, "INV-2025-001")
	status, _ := call(t, app, http.MethodPost, "/api/invoices", token, body)
	require.Equal(t, http.StatusCreated, status)

	status, raw := call(t, app, http.MethodPost, "/api/invoices", token, body)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "DUPLICATE", decode[dto.ErrorResponse](t, raw).Code)
}

func TestRouter_FacturaTotalNoCoincide_Retorna422(t *testing.T) {
	app := newTestAPI(t)
	token, customerID, productID := seedAccount(t, app)

	body := compositeInvoice(customerID, productID, "INV-2025-002")
	body.TotalAmount = decimal.NewFromInt(9999)
	status, raw := call(t, app, http.MethodPost, "/api/invoices", token, body)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "TOTAL_MISMATCH", decode[dto.ErrorResponse](t, raw).Code)

	// Nada quedó persistido.
	status, raw = call(t, app, http.MethodGet, "/api/invoices", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode[[]dto.InvoiceSummary](t, raw))
}

func TestRouter_FacturaMontosFueraDeRango_Retorna400(t *testing.T) {
	app := newTestAPI(t)
	token, customerID, productID := seedAccount(t, app)

	body := rawJSON(t, compositeInvoice(customerID, productID, "INV-2025-004"), func(m map[string]any) {
		m["items"].([]any)[0].(map[string]any)["unit_price"] = hugeAmount
		m["total_amount"] = hugeAmount
		m["payment"].(map[string]any)["amount"] = hugeAmount
	})
	start := time.Now()
	status, raw := call(t, app, http.MethodPost, "/api/invoices", token, body)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Less(t, len(raw), 4096)
	fields := decode[dto.ErrorResponse](t, raw).Fields
	assert.Contains(t, fields, "items[0].unit_price")
	assert.Contains(t, fields, "total_amount")
	assert.Contains(t, fields, "payment.amount")

	status, raw = call(t, app, http.MethodGet, "/api/invoices", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode[[]dto.InvoiceSummary](t, raw))
}

func TestRouter_LineaPagoYProductoFueraDeRango_Retorna400(t *testing.T) {
	app := newTestAPI(t)
	token, customerID, productID := seedAccount(t, app)

	header := compositeInvoice(customerID, productID, "INV-2025-005")
	header.Status = "PENDING"
	header.Items = nil
	header.Payment = nil
	header.TotalAmount = decimal.Zero
	status, raw := call(t, app, http.MethodPost, "/api/invoices", token, header)
	require.Equal(t, http.StatusCreated, status, string(raw))
	invoiceID := decode[dto.InvoiceResponse](t, raw).ID

	item := rawJSON(t, dto.InvoiceItemRequest{ProductID: productID, Quantity: 1}, func(m map[string]any) {
		m["unit_price"] = hugeAmount
	})
	status, raw = call(t, app, http.MethodPost, "/api/invoices/"+invoiceID+"/items", token, item)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, decode[dto.ErrorResponse](t, raw).Fields, "unit_price")

	payment := rawJSON(t, dto.PaymentRequest{PaymentMethod: "CASH", PaidAt: today()}, func(m map[string]any) {
		m["amount"] = hugeAmount
	})
	status, raw = call(t, app, http.MethodPost, "/api/invoices/"+invoiceID+"/payments", token, payment)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, decode[dto.ErrorResponse](t, raw).Fields, "amount")

	product := rawJSON(t, dto.CreateProductRequest{Name: "Caro"}, func(m map[string]any) {
		m["product_amount"] = hugeAmount
	})
	status, raw = call(t, app, http.MethodPost, "/api/products", token, product)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, decode[dto.ErrorResponse](t, raw).Fields, "product_amount")

	status, raw = call(t, app, http.MethodGet, "/api/invoices/"+invoiceID, token, nil)
	require.Equal(t, http.StatusOK, status)
	got := decode[dto.InvoiceResponse](t, raw)
	assert.True(t, got.TotalAmount.IsZero())
	assert.Empty(t, got.Items)
	assert.Empty(t, got.Payments)
}

func TestRouter_FacturaProductoAjeno_Retorna404YNoPersiste(t *testing.T) {
	app := newTestAPI(t)
	token, customerID, _ := seedAccount(t, app)

	body := compositeInvoice(customerID, "producto-inexistente", "INV-2025-003")
	status, raw := call(t, app, http.MethodPost, "/api/invoices", token, body)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, raw).Code)

	status, raw = call(t, app, http.MethodGet, "/api/invoices", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode[[]dto.InvoiceSummary](t, raw), "la transacción debe deshacerse")
}

func TestRouter_FlujoSecuencial(t *testing.T) {
	app := newTestAPI(t)
	token, customerID, productID := seedAccount(t, app)

	header := compositeInvoice(customerID, productID, "INV-2025-010")
	header.Status = "PENDING"
	header.Items = nil
	header.Payment = nil
	header.TotalAmount = decimal.Zero
	status, raw := call(t, app, http.MethodPost, "/api/invoices", token, header)
	require.Equal(t, http.StatusCreated, status, string(raw))
	invoiceID := decode[dto.InvoiceResponse](t, raw).ID

	status, raw = call(t, app, http.MethodPost, "/api/invoices/"+invoiceID+"/items", token, dto.InvoiceItemRequest{
		ProductID: productID, Quantity: 3, UnitPrice: decimal.NewFromInt(2500),
	})
	require.Equal(t, http.StatusCreated, status, string(raw))

	status, raw = call(t, app, http.MethodGet, "/api/invoices/"+invoiceID, token, nil)
	require.Equal(t, http.StatusOK, status)
	got := decode[dto.InvoiceResponse](t, raw)
	assert.True(t, decimal.NewFromInt(7500).Equal(got.TotalAmount), got.TotalAmount.String())
	assert.Equal(t, "PENDING", got.Status)

	status, raw = call(t, app, http.MethodPost, "/api/invoices/"+invoiceID+"/payments", token, dto.PaymentRequest{
		Amount: decimal.NewFromInt(7500), PaymentMethod: "CASH", PaidAt: today(),
	})
	require.Equal(t, http.StatusCreated, status, string(raw))

	status, raw = call(t, app, http.MethodGet, "/api/invoices/"+invoiceID, token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "PAID", decode[dto.InvoiceResponse](t, raw).Status)
}

func TestRouter_FacturaInexistente_Retorna404(t *testing.T) {
	app := newTestAPI(t)
	token, _, _ := seedAccount(t, app)

	status, _ := call(t, app, http.MethodGet, "/api/invoices/no-existe", token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRouter_DescargaPDF(t *testing.T) {
	app := newTestAPI(t)
	token, customerID, productID := seedAccount(t, app)

	status, raw := call(t, app, http.MethodPost, "/api/invoices", token,
		compositeInvoice(customerID, productID, "INV-2025-020"))
	require.Equal(t, http.StatusCreated, status)
	invoiceID := decode[dto.InvoiceResponse](t, raw).ID

	req := httptest.NewRequest(http.MethodGet, "/api/invoices/"+invoiceID+"/pdf", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "INV-2025-020")
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Dashboard
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_DashboardResumenDelMes(t *testing.T) {
	app := newTestAPI(t)
	token, customerID, productID := seedAccount(t, app)

	status, _ := call(t, app, http.MethodPost, "/api/invoices", token,
		compositeInvoice(customerID, productID, "INV-2025-030"))
	require.Equal(t, http.StatusCreated, status)

	pending := compositeInvoice(customerID, productID, "INV-2025-031")
	pending.Status = "PENDING"
	pending.Payment = nil
	status, _ = call(t, app, http.MethodPost, "/api/invoices", token, pending)
	require.Equal(t, http.StatusCreated, status)

	status, raw := call(t, app, http.MethodGet, "/api/dashboard/summary", token, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	summary := decode[dto.DashboardSummaryDTO](t, raw)
	assert.True(t, decimal.NewFromInt(10000).Equal(summary.MonthlyRevenue), summary.MonthlyRevenue.String())
	assert.Equal(t, 2, summary.InvoicesCreated)
	assert.Equal(t, 1, summary.ActiveCustomers)
	assert.Equal(t, 1, summary.PaymentsReceived)
	assert.Equal(t, "XOF", summary.Currency)
	assert.Len(t, summary.RecentInvoices, 2)
}
