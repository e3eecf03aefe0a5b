// Package cli implementa los comandos de la CLI facturo: las pantallas de la
// app móvil (login, clientes, productos, facturas, inicio) sobre la API.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/facturo/internal/client"
	"github.com/jhoicas/facturo/pkg/config"
	"github.com/jhoicas/facturo/pkg/logger"
)

var version = "0.1.0"

// app estado compartido por los subcomandos de una ejecución.
type app struct {
	cfg    config.ClientConfig
	log    *logger.Logger
	tokens *client.TokenStore
	api    *client.Client
	now    func() time.Time
}

// Option ajusta la CLI (tests).
type Option func(*app)

// WithClock fija el reloj usado para fechas y números de factura.
func WithClock(now func() time.Time) Option {
	return func(a *app) { a.now = now }
}

// NewRootCommand arma el árbol de comandos. El cliente HTTP se construye en
// PersistentPreRunE con el token guardado en disco.
func NewRootCommand(cfg config.ClientConfig, log *logger.Logger, opts ...Option) *cobra.Command {
	if log == nil {
		log = logger.Nop()
	}
	a := &app{cfg: cfg, log: log.Component("cli"), now: time.Now}
	for _, opt := range opts {
		opt(a)
	}

	root := &cobra.Command{
		Use:           "facturo",
		Short:         "Facturo CLI - facturación en XOF",
		Long:          "Facturo crea clientes, productos y facturas contra la API de facturación.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.connect()
		},
	}
	root.PersistentFlags().StringVar(&a.cfg.APIURL, "api-url", cfg.APIURL, "URL base de la API")
	root.PersistentFlags().StringVar(&a.cfg.TokenFile, "token-file", cfg.TokenFile, "archivo donde se guarda el token")

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newRegisterCmd(a),
		newMeCmd(a),
		newCustomersCmd(a),
		newProductsCmd(a),
		newInvoicesCmd(a),
		newDashboardCmd(a),
	)
	return root
}

func (a *app) connect() error {
	a.tokens = client.NewTokenStore(a.cfg.TokenFile)
	token, err := a.tokens.Load()
	if err != nil {
		return fmt.Errorf("leer token: %w", err)
	}
	timeout := a.cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	a.api = client.New(a.cfg.APIURL,
		client.WithTimeout(timeout),
		client.WithLogger(a.log),
		client.WithToken(token),
	)
	a.log.Debug().Str("api_url", a.cfg.APIURL).Bool("token", token != "").Msg("cliente listo")
	return nil
}
