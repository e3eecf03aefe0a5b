package client_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturo/internal/application/dto"
	"github.com/jhoicas/facturo/internal/client"
	"github.com/jhoicas/facturo/internal/domain"
	"github.com/jhoicas/facturo/pkg/logger"
)

func bufferLogger(buf *bytes.Buffer) *logger.Logger {
	return logger.FromZerolog(zerolog.New(buf))
}

func TestClient_EnviaTokenYDecodifica(t *testing.T) {
	var gotAuth, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"c-1","firstname":"Awa","name":"Diop"}]`))
	}))
	defer srv.Close()

	c := client.New(srv.URL+"/", client.WithToken("tok-123"))
	list, err := c.ListCustomers(context.Background(), dto.PageRequest{Limit: 5})
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "limit=5&offset=0", gotQuery)
	require.Len(t, list, 1)
	assert.Equal(t, "Diop", list[0].LastName)
}

func TestClient_LoginGuardaToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"access_token":"nuevo","user":{"id":"u-1","email":"awa@example.com"}}`))
	}))
	defer srv.Close()

	var buf bytes.Buffer
	c := client.New(srv.URL, client.WithLogger(bufferLogger(&buf)))
	out, err := c.Login(context.Background(), "awa@example.com", "secreto1")
	require.NoError(t, err)

	assert.Equal(t, "u-1", out.User.ID)
	assert.Equal(t, "nuevo", c.Token())
	assert.Empty(t, buf.String(), "login es público: no debe avisar por falta de token")
}

func TestClient_ErrorDeAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"code":"DUPLICATE","message":"factura INV-2025-001: recurso duplicado"}`))
	}))
	defer srv.Close()

	c := client.New(srv.URL, client.WithToken("tok"))
	_, err := c.CreateInvoice(context.Background(), dto.CreateInvoiceRequest{})
	require.Error(t, err)

	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "DUPLICATE", apiErr.Code)
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
	assert.False(t, apiErr.IsUnauthorized())
}

func TestClient_CamposDeValidacion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":"VALIDATION_ERROR","message":"datos inválidos","fields":{"name":"requerido"}}`))
	}))
	defer srv.Close()

	_, err := client.New(srv.URL, client.WithToken("tok")).
		CreateCustomer(context.Background(), dto.CreateCustomerRequest{FirstName: "Awa"})

	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "requerido", apiErr.Fields["name"])
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestClient_NoAutorizadoSeRegistra(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":"INVALID_TOKEN","message":"token inválido o expirado"}`))
	}))
	defer srv.Close()

	var buf bytes.Buffer
	c := client.New(srv.URL, client.WithToken("viejo"), client.WithLogger(bufferLogger(&buf)))
	_, err := c.Me(context.Background())

	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.IsUnauthorized())
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
	assert.Contains(t, buf.String(), "no autorizado")
}

func TestClient_SinTokenAvisaYContinua(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	var buf bytes.Buffer
	c := client.New(srv.URL, client.WithLogger(bufferLogger(&buf)))
	list, err := c.ListProducts(context.Background(), dto.PageRequest{})
	require.NoError(t, err)

	assert.True(t, called, "la petición debe enviarse igual")
	assert.Empty(t, list)
	assert.Contains(t, buf.String(), "petición sin token")
}

func TestClient_ErrorSinCuerpoJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream caído", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := client.New(srv.URL, client.WithToken("tok")).Dashboard(context.Background())

	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "upstream caído", apiErr.Message)
	assert.Nil(t, apiErr.Unwrap())
}

func TestClient_ContextoCancelado(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.New(srv.URL, client.WithToken("tok")).ListInvoices(ctx, dto.PageRequest{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestClient_InvoicePDFDevuelveBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/invoices/inv-1/pdf", r.URL.Path)
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.3 fake"))
	}))
	defer srv.Close()

	out, err := client.New(srv.URL, client.WithToken("tok")).InvoicePDF(context.Background(), "inv-1")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3 fake", string(out))
}
