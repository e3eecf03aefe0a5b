package client_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturo/internal/apitest"
	"github.com/jhoicas/facturo/internal/application/dto"
	"github.com/jhoicas/facturo/internal/client"
	"github.com/jhoicas/facturo/internal/domain"
	"github.com/jhoicas/facturo/internal/domain/draft"
	"github.com/jhoicas/facturo/internal/domain/entity"
)

// fixedClock hoy a las 12:00 con los milisegundos indicados (número de factura distinto por test).
func fixedClock(ms int) func() time.Time {
	now := time.Now()
	t := time.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, ms*int(time.Millisecond), now.Location())
	return func() time.Time { return t }
}

type account struct {
	api      *client.Client
	customer *entity.Customer
	products []*entity.Product
}

func newAccount(t *testing.T, baseURL string) account {
	t.Helper()
	ctx := context.Background()
	api := client.New(baseURL, client.WithTimeout(5*time.Second))

	_, err := api.Register(ctx, dto.RegisterRequest{Email: "awa@example.com", Password: "secreto1"})
	require.NoError(t, err)
	require.NotEmpty(t, api.Token())

	cust, err := api.CreateCustomer(ctx, dto.CreateCustomerRequest{FirstName: "Moussa", LastName: "Diallo"})
	require.NoError(t, err)

	acc := account{
		api:      api,
		customer: &entity.Customer{ID: cust.ID, FirstName: cust.FirstName, LastName: cust.LastName},
	}
	for _, p := range []dto.CreateProductRequest{
		{Name: "Consultation", Amount: decimal.NewFromInt(5000)},
		{Name: "Déplacement", Amount: decimal.NewFromInt(2500)},
	} {
		out, err := api.CreateProduct(ctx, p)
		require.NoError(t, err)
		acc.products = append(acc.products, &entity.Product{ID: out.ID, Name: out.Name, Amount: out.Amount})
	}
	return acc
}

// fill arma un borrador PAID con dos líneas: 2 × 5000 + 1 × 2500 = 12500.
func fill(t *testing.T, d *draft.Draft, acc account) {
	t.Helper()
	require.NoError(t, d.SelectCustomer(acc.customer))
	for i, p := range acc.products {
		_, err := d.AddLineItem()
		require.NoError(t, err)
		require.NoError(t, d.SelectProductForItem(i, p))
	}
	require.NoError(t, d.SetQuantity(0, "2"))
	require.NoError(t, d.SetPaymentStatus(entity.StatusPaid))
	require.NoError(t, d.SetPaymentMethod(entity.MethodMobileMoney))
	require.NoError(t, d.SetDueDate(time.Now().AddDate(0, 0, 15)))
	require.NoError(t, d.SetNotes("Merci"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestE2E_BorradorCompuesto(t *testing.T) {
	acc := newAccount(t, apitest.Start(t))
	ctx := context.Background()

	d := draft.New(draft.WithClock(fixedClock(101)))
	fill(t, d, acc)
	require.True(t, decimal.NewFromInt(12500).Equal(d.TotalAmount()))

	out := d.Submit(ctx, client.NewCompositeSubmitter(acc.api))
	require.Equal(t, draft.OutcomeSubmitted, out.Kind, "%v", out.Err)
	assert.Equal(t, draft.StateSubmitted, d.State())
	require.NotNil(t, out.Result)
	assert.True(t, decimal.NewFromInt(12500).Equal(out.Result.TotalAmount))
	assert.Len(t, out.Result.Items, 2)
	assert.Len(t, out.Result.Payments, 1)

	got, err := acc.api.GetInvoice(ctx, out.Result.ID)
	require.NoError(t, err)
	assert.Equal(t, "PAID", got.Status)
	assert.Equal(t, out.Payload.InvoiceNumber, got.InvoiceNumber)

	summary, err := acc.api.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.InvoicesCreated)
	assert.True(t, decimal.NewFromInt(12500).Equal(summary.MonthlyRevenue))

	raw, err := acc.api.InvoicePDF(ctx, out.Result.ID)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(raw[:4]))
}

func TestE2E_BorradorSecuencial(t *testing.T) {
	acc := newAccount(t, apitest.Start(t))
	ctx := context.Background()

	d := draft.New(draft.WithClock(fixedClock(202)))
	fill(t, d, acc)

	out := d.Submit(ctx, client.NewSequentialSubmitter(acc.api, nil))
	require.Equal(t, draft.OutcomeSubmitted, out.Kind, "%v", out.Err)

	got, err := acc.api.GetInvoice(ctx, out.Result.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(12500).Equal(got.TotalAmount), got.TotalAmount.String())
	assert.Len(t, got.Items, 2)
	assert.Len(t, got.Payments, 1)
}

func TestE2E_SecuencialParcialDejaCabecera(t *testing.T) {
	acc := newAccount(t, apitest.Start(t))
	ctx := context.Background()

	d := draft.New(draft.WithClock(fixedClock(303)))
	fill(t, d, acc)
	// La segunda línea apunta a un producto que la API no conoce.
	require.NoError(t, d.SelectProductForItem(1, &entity.Product{ID: "fantasma", Name: "X", Amount: decimal.NewFromInt(1)}))

	out := d.Submit(ctx, client.NewSequentialSubmitter(acc.api, nil))
	require.Equal(t, draft.OutcomeFailed, out.Kind)
	assert.Equal(t, draft.StateEditing, d.State(), "el borrador vuelve a edición")

	var partial *client.PartialSubmissionError
	require.True(t, errors.As(out.Err, &partial))
	assert.Equal(t, 1, partial.Created)
	assert.True(t, errors.Is(out.Err, domain.ErrNotFound))

	got, err := acc.api.GetInvoice(ctx, partial.InvoiceID)
	require.NoError(t, err, "la cabecera quedó creada sin rollback")
	assert.Len(t, got.Items, 1)
}

func TestE2E_CompuestoFallidoNoDejaNada(t *testing.T) {
	acc := newAccount(t, apitest.Start(t))
	ctx := context.Background()

	d := draft.New(draft.WithClock(fixedClock(404)))
	fill(t, d, acc)
	require.NoError(t, d.SelectProductForItem(1, &entity.Product{ID: "fantasma", Name: "X", Amount: decimal.NewFromInt(1)}))

	out := d.Submit(ctx, client.NewCompositeSubmitter(acc.api))
	require.Equal(t, draft.OutcomeFailed, out.Kind)
	var serr *draft.SubmissionError
	require.True(t, errors.As(out.Err, &serr))

	list, err := acc.api.ListInvoices(ctx, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, list)
}
