package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturo/internal/apitest"
	"github.com/jhoicas/facturo/internal/application/dto"
	"github.com/jhoicas/facturo/internal/cli"
	"github.com/jhoicas/facturo/internal/client"
	"github.com/jhoicas/facturo/internal/client/forms"
	"github.com/jhoicas/facturo/internal/domain/draft"
	"github.com/jhoicas/facturo/pkg/config"
	"github.com/jhoicas/facturo/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Entorno: API real en memoria + archivo de token temporal
// ──────────────────────────────────────────────────────────────────────────────

type env struct {
	url       string
	tokenFile string
	now       func() time.Time
}

func newEnv(t *testing.T, ms int) env {
	t.Helper()
	today := time.Now()
	at := time.Date(today.Year(), today.Month(), today.Day(), 12, 0, 0, ms*int(time.Millisecond), today.Location())
	return env{
		url:       apitest.Start(t),
		tokenFile: filepath.Join(t.TempDir(), "token"),
		now:       func() time.Time { return at },
	}
}

func (e env) run(args ...string) (stdout, stderr string, err error) {
	cmd := cli.NewRootCommand(config.ClientConfig{
		APIURL:    e.url,
		Timeout:   5 * time.Second,
		TokenFile: e.tokenFile,
	}, logger.Nop(), cli.WithClock(e.now))
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func (e env) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, stderr, err := e.run(args...)
	require.NoError(t, err, "stderr: %s", stderr)
	return out
}

// api cliente con el token que guardó la CLI, para leer IDs.
func (e env) api(t *testing.T) *client.Client {
	t.Helper()
	token, err := client.NewTokenStore(e.tokenFile).Load()
	require.NoError(t, err)
	return client.New(e.url, client.WithToken(token))
}

func (e env) dueIn(days int) string {
	return e.now().AddDate(0, 0, days).Format(dto.DateLayout)
}

// seed registra una cuenta con un cliente y un producto de 5000 XOF.
func seed(t *testing.T, e env) (customerID, productID string) {
	t.Helper()
	e.mustRun(t, "register", "--email", "awa@example.com", "--password", "secreto1", "--confirm-password", "secreto1")
	e.mustRun(t, "customers", "create", "--firstname", "Moussa", "--name", "Diop", "--phone", "+221 77 000 00 00")
	e.mustRun(t, "products", "create", "--name", "Riz 25kg", "--amount", "5000")

	ctx := context.Background()
	customers, err := e.api(t).ListCustomers(ctx, dto.PageRequest{Limit: 10})
	require.NoError(t, err)
	require.Len(t, customers, 1)
	products, err := e.api(t).ListProducts(ctx, dto.PageRequest{Limit: 10})
	require.NoError(t, err)
	require.Len(t, products, 1)
	return customers[0].ID, products[0].ID
}

// ──────────────────────────────────────────────────────────────────────────────
// Sesión
// ──────────────────────────────────────────────────────────────────────────────

func TestCLI_RegisterLoginLogout(t *testing.T) {
	e := newEnv(t, 1)

	out := e.mustRun(t, "register", "--email", "awa@example.com", "--password", "secreto1", "--confirm-password", "secreto1")
	assert.Contains(t, out, "Cuenta creada: awa@example.com")
	_, err := os.Stat(e.tokenFile)
	require.NoError(t, err)

	out = e.mustRun(t, "me")
	assert.Contains(t, out, "awa@example.com")

	out = e.mustRun(t, "logout")
	assert.Contains(t, out, "Sesión cerrada")
	_, err = os.Stat(e.tokenFile)
	assert.True(t, os.IsNotExist(err))

	_, _, err = e.run("me")
	require.Error(t, err)
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.IsUnauthorized())
	assert.Contains(t, err.Error(), "facturo login")

	out = e.mustRun(t, "login", "--email", "awa@example.com", "--password", "secreto1")
	assert.Contains(t, out, "Sesión iniciada como awa@example.com")
}

func TestCLI_LoginValidaFormularioSinLlamarAPI(t *testing.T) {
	e := newEnv(t, 2)

	_, _, err := e.run("login", "--email", "no-es-email", "--password", "123")
	require.Error(t, err)
	var fe forms.FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe, "email")
	assert.Contains(t, fe, "password")
}

func TestCLI_LoginCredencialesInvalidas(t *testing.T) {
	e := newEnv(t, 3)
	e.mustRun(t, "register", "--email", "awa@example.com", "--password", "secreto1", "--confirm-password", "secreto1")

	_, _, err := e.run("login", "--email", "awa@example.com", "--password", "otraclave")
	require.Error(t, err)
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.IsUnauthorized())
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo
// ──────────────────────────────────────────────────────────────────────────────

func TestCLI_ListadosVaciosYConDatos(t *testing.T) {
	e := newEnv(t, 4)
	e.mustRun(t, "register", "--email", "awa@example.com", "--password", "secreto1", "--confirm-password", "secreto1")

	assert.Contains(t, e.mustRun(t, "customers", "list"), "Sin clientes")
	assert.Contains(t, e.mustRun(t, "products", "list"), "Sin productos")
	assert.Contains(t, e.mustRun(t, "invoices", "list"), "Sin facturas")

	e.mustRun(t, "customers", "create", "--firstname", "Moussa", "--name", "Diop")
	e.mustRun(t, "products", "create", "--name", "Riz 25kg", "--amount", "5000")

	out := e.mustRun(t, "customers", "list")
	assert.Contains(t, out, "Moussa Diop")
	out = e.mustRun(t, "products", "list")
	assert.Contains(t, out, "Riz 25kg")
	assert.Contains(t, out, "XOF")
}

func TestCLI_ProductoMontoInvalido(t *testing.T) {
	e := newEnv(t, 5)
	e.mustRun(t, "register", "--email", "awa@example.com", "--password", "secreto1", "--confirm-password", "secreto1")

	_, _, err := e.run("products", "create", "--name", "Riz", "--amount", "0")
	require.Error(t, err)
	var fe forms.FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe, "product_amount")
}

// ──────────────────────────────────────────────────────────────────────────────
// Facturas
// ──────────────────────────────────────────────────────────────────────────────

func TestCLI_InvoiceCreatePagadaYListado(t *testing.T) {
	e := newEnv(t, 11)
	customerID, productID := seed(t, e)

	out := e.mustRun(t, "invoices", "create",
		"--customer", customerID,
		"--item", productID+":2",
		"--due", e.dueIn(7),
		"--status", "paid",
		"--method", "mobile_money",
		"--notes", "Livraison incluse",
	)
	number := draft.InvoiceNumber(e.now())
	assert.Contains(t, out, "Factura "+number+" creada")

	invoices, err := e.api(t).ListInvoices(context.Background(), dto.PageRequest{Limit: 10})
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Equal(t, "PAID", invoices[0].Status)
	assert.True(t, decimal.NewFromInt(10000).Equal(invoices[0].TotalAmount))

	inv, err := e.api(t).GetInvoice(context.Background(), invoices[0].ID)
	require.NoError(t, err)
	require.Len(t, inv.Payments, 1)
	assert.Equal(t, "MOBILE_MONEY", inv.Payments[0].PaymentMethod)

	assert.Contains(t, e.mustRun(t, "invoices", "list"), number)
	show := e.mustRun(t, "invoices", "show", inv.ID)
	assert.Contains(t, show, "Livraison incluse")
	assert.Contains(t, show, "MOBILE_MONEY")

	dash := e.mustRun(t, "dashboard")
	assert.Contains(t, dash, "Ingresos del mes")
	assert.Contains(t, dash, number)

	pdfPath := filepath.Join(t.TempDir(), "f.pdf")
	out = e.mustRun(t, "invoices", "pdf", inv.ID, "-o", pdfPath)
	assert.Contains(t, out, pdfPath)
	data, err := os.ReadFile(pdfPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestCLI_InvoiceCreateSecuencial(t *testing.T) {
	e := newEnv(t, 12)
	customerID, productID := seed(t, e)

	e.mustRun(t, "invoices", "create", "--sequential",
		"--customer", customerID,
		"--item", productID+":1",
		"--item", productID+":3:2500",
		"--due", e.dueIn(0),
	)

	invoices, err := e.api(t).ListInvoices(context.Background(), dto.PageRequest{Limit: 10})
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Equal(t, "PENDING", invoices[0].Status)
	assert.True(t, decimal.NewFromInt(12500).Equal(invoices[0].TotalAmount))

	inv, err := e.api(t).GetInvoice(context.Background(), invoices[0].ID)
	require.NoError(t, err)
	assert.Len(t, inv.Items, 2)
	assert.Empty(t, inv.Payments)
}

func TestCLI_InvoiceCreateReportaTodasLasViolaciones(t *testing.T) {
	e := newEnv(t, 13)
	e.mustRun(t, "register", "--email", "awa@example.com", "--password", "secreto1", "--confirm-password", "secreto1")

	_, stderr, err := e.run("invoices", "create")
	require.Error(t, err)
	var verr *draft.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, stderr, "Seleccione un cliente")
	assert.Contains(t, stderr, "Agregue al menos un producto")
	assert.Contains(t, stderr, "Seleccione una fecha de vencimiento")

	invoices, err := e.api(t).ListInvoices(context.Background(), dto.PageRequest{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, invoices)
}

func TestCLI_InvoiceCreateCantidadCeroYFechaPasada(t *testing.T) {
	e := newEnv(t, 14)
	customerID, productID := seed(t, e)

	_, stderr, err := e.run("invoices", "create",
		"--customer", customerID,
		"--item", productID+":abc",
		"--due", e.dueIn(-1),
	)
	require.Error(t, err)
	assert.Contains(t, stderr, "Cantidad inválida para la línea 1")
	assert.Contains(t, stderr, "anterior a hoy")
}

func TestCLI_InvoiceCreateDryRun(t *testing.T) {
	e := newEnv(t, 15)
	customerID, productID := seed(t, e)

	out := e.mustRun(t, "invoices", "create", "--dry-run",
		"--customer", customerID,
		"--item", productID+":3:2500",
		"--due", e.dueIn(3),
	)
	var payload dto.CreateInvoiceRequest
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, customerID, payload.CustomerID)
	assert.Equal(t, "XOF", payload.Currency)
	assert.Equal(t, draft.InvoiceNumber(e.now()), payload.InvoiceNumber)
	assert.True(t, decimal.NewFromInt(7500).Equal(payload.TotalAmount))
	assert.Nil(t, payload.Payment)

	invoices, err := e.api(t).ListInvoices(context.Background(), dto.PageRequest{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, invoices)
}

func TestCLI_InvoiceCreateErroresDeEntrada(t *testing.T) {
	e := newEnv(t, 16)
	customerID, productID := seed(t, e)

	cases := map[string][]string{
		"item mal formado":     {"--item", "solo-producto"},
		"fecha mal formada":    {"--item", productID + ":1", "--due", "30/11/2026"},
		"producto desconocido": {"--item", "no-existe:1", "--due", e.dueIn(1)},
		"cliente desconocido":  {"--customer", "no-existe", "--item", productID + ":1", "--due", e.dueIn(1)},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			full := append([]string{"invoices", "create", "--customer", customerID}, args...)
			_, _, err := e.run(full...)
			assert.Error(t, err)
		})
	}

	invoices, err := e.api(t).ListInvoices(context.Background(), dto.PageRequest{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, invoices)
}
