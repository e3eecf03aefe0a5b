// Package client habla con la API de facturación por HTTP y provee los
// colaboradores que envían un borrador de factura (draft.Submitter).
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/facturo/internal/application/dto"
	"github.com/jhoicas/facturo/internal/domain"
	"github.com/jhoicas/facturo/pkg/logger"
)

const (
	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 10 << 20 // los PDF son la respuesta más grande
)

// Rutas que no requieren token.
var publicPaths = map[string]bool{
	"/api/auth/login":    true,
	"/api/auth/register": true,
}

// APIError respuesta de error de la API (status >= 400).
// Unwrap devuelve el error de dominio equivalente al status, así los
// llamadores pueden usar errors.Is(err, domain.ErrNotFound).
type APIError struct {
	Status  int
	Code    string
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api: HTTP %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: HTTP %d %s: %s", e.Status, e.Code, e.Message)
}

// IsUnauthorized indica que el token falta, expiró o fue rechazado.
func (e *APIError) IsUnauthorized() bool { return e.Status == http.StatusUnauthorized }

func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusBadRequest:
		return domain.ErrInvalidInput
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusConflict:
		return domain.ErrDuplicate
	case http.StatusUnprocessableEntity:
		return domain.ErrTotalMismatch
	}
	return nil
}

// Client cliente de la API de facturación. Seguro para uso concurrente.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger

	mu    sync.RWMutex
	token string
}

// Option configura el Client.
type Option func(*Client)

// WithTimeout límite por petición.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient reemplaza el *http.Client (tests, transportes propios).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger logger para avisos de autenticación.
func WithLogger(log *logger.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithToken token inicial (por ejemplo leído de TokenStore).
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New construye el cliente contra baseURL (sin "/" final).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken reemplaza el token de acceso; "" lo borra.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token devuelve el token actual.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// do envía in como JSON y decodifica la respuesta en out (si no es nil).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	raw, err := c.send(ctx, method, path, query, in)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("api: decodificar %s %s: %w", method, path, err)
	}
	return nil
}

// send ejecuta la petición y devuelve el cuerpo crudo; status >= 400 produce *APIError.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, in any) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("api: serializar request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("api: crear HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	} else if !publicPaths[path] {
		// La petición sigue; la API decidirá.
		c.log.Warn().Str("path", path).Msg("petición sin token de acceso")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("api: timeout o cancelación: %w", ctx.Err())
		}
		return nil, fmt.Errorf("api: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("api: leer respuesta: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode}
		var errResp dto.ErrorResponse
		if jsonErr := json.Unmarshal(raw, &errResp); jsonErr == nil && errResp.Code != "" {
			apiErr.Code = errResp.Code
			apiErr.Message = errResp.Message
			apiErr.Fields = errResp.Fields
		} else {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		if apiErr.IsUnauthorized() {
			c.log.Warn().Str("path", path).Str("code", apiErr.Code).Msg("no autorizado: token ausente o expirado")
		}
		return nil, apiErr
	}
	return raw, nil
}

func pageQuery(page dto.PageRequest) url.Values {
	page.DefaultPage()
	q := url.Values{}
	q.Set("limit", fmt.Sprint(page.Limit))
	q.Set("offset", fmt.Sprint(page.Offset))
	return q
}
