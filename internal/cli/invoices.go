package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/facturo/internal/application/dto"
	"github.com/jhoicas/facturo/internal/client"
	"github.com/jhoicas/facturo/internal/domain/draft"
	"github.com/jhoicas/facturo/internal/domain/entity"
	"github.com/jhoicas/facturo/pkg/money"
)

// lookupLimit máximo de clientes/productos que se cargan para resolver IDs.
const lookupLimit = 100

func newInvoicesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "invoices",
		Aliases: []string{"factures"},
		Short:   "Facturas de la cuenta",
	}
	cmd.AddCommand(newInvoicesListCmd(a), newInvoicesShowCmd(a), newInvoicesCreateCmd(a), newInvoicesPDFCmd(a))
	return cmd
}

func newInvoicesListCmd(a *app) *cobra.Command {
	var page dto.PageRequest
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Lista las facturas",
		RunE: func(cmd *cobra.Command, args []string) error {
			invoices, err := a.api.ListInvoices(cmd.Context(), page)
			if err != nil {
				return sessionErr(err)
			}
			if len(invoices) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Sin facturas")
				return nil
			}
			return printInvoices(cmd.OutOrStdout(), invoices)
		},
	}
	cmd.Flags().IntVar(&page.Limit, "limit", 20, "máximo de resultados")
	cmd.Flags().IntVar(&page.Offset, "offset", 0, "desplazamiento")
	return cmd
}

func printInvoices(out io.Writer, invoices []dto.InvoiceSummary) error {
	w := newTable(out)
	w.row("ID", "NÚMERO", "CLIENTE", "ESTADO", "TOTAL", "VENCE")
	for _, inv := range invoices {
		w.row(inv.ID, inv.InvoiceNumber, dash(inv.CustomerName), inv.Status, money.Format(inv.TotalAmount), inv.DueDate)
	}
	return w.flush()
}

func newInvoicesShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Muestra una factura con sus líneas y pagos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := a.api.GetInvoice(cmd.Context(), args[0])
			if err != nil {
				return sessionErr(err)
			}
			out := cmd.OutOrStdout()
			w := newTable(out)
			w.row("Número", inv.InvoiceNumber)
			w.row("Cliente", dash(inv.CustomerName))
			w.row("Estado", inv.Status)
			w.row("Emitida", inv.IssuedAt)
			w.row("Vence", inv.DueDate)
			w.row("Total", money.Format(inv.TotalAmount))
			w.row("Notas", dash(inv.Notes))
			if err := w.flush(); err != nil {
				return err
			}
			if len(inv.Items) > 0 {
				fmt.Fprintln(out, "\nLíneas")
				w = newTable(out)
				w.row("PRODUCTO", "CANT.", "PRECIO", "TOTAL")
				for _, it := range inv.Items {
					w.row(it.ProductID, fmt.Sprint(it.Quantity), money.Format(it.UnitPrice), money.Format(it.Total))
				}
				if err := w.flush(); err != nil {
					return err
				}
			}
			if len(inv.Payments) > 0 {
				fmt.Fprintln(out, "\nPagos")
				w = newTable(out)
				for _, p := range inv.Payments {
					w.row(p.PaidAt, p.PaymentMethod, money.Format(p.Amount))
				}
				return w.flush()
			}
			return nil
		},
	}
}

// createOptions flags de "invoices create".
type createOptions struct {
	customerID string
	items      []string
	due        string
	status     string
	method     string
	notes      string
	sequential bool
	dryRun     bool
}

func newInvoicesCreateCmd(a *app) *cobra.Command {
	var opts createOptions
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Crea una factura a partir de un borrador",
		Long: `Arma un borrador con el cliente, las líneas y el estado de pago, lo valida
y lo envía. Cada --item es "producto:cantidad" o "producto:cantidad:precio"; sin
precio se usa el monto del producto.

Por defecto la factura se envía en una sola petición (la API la guarda en una
transacción). Con --sequential se crea la cabecera, luego cada línea y el pago,
sin rollback si algo falla a mitad de camino.`,
		Example: `  facturo invoices create --customer <id> --item <producto>:2 --due 2026-11-30
  facturo invoices create --customer <id> --item <p1>:1:5000 --item <p2>:3 --due 2026-11-30 --status PAID --method MOBILE_MONEY`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.createInvoice(cmd, opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.customerID, "customer", "", "ID del cliente")
	f.StringArrayVar(&opts.items, "item", nil, "línea producto:cantidad[:precio] (repetible)")
	f.StringVar(&opts.due, "due", "", "fecha de vencimiento YYYY-MM-DD")
	f.StringVar(&opts.status, "status", string(entity.StatusPending), "PENDING | PAID | OVERDUE | CANCELLED")
	f.StringVar(&opts.method, "method", string(entity.MethodCash), "CASH | BANK_TRANSFER | CARD | MOBILE_MONEY (con PAID)")
	f.StringVar(&opts.notes, "notes", "", "notas")
	f.BoolVar(&opts.sequential, "sequential", false, "enviar cabecera, líneas y pago en peticiones separadas")
	f.BoolVar(&opts.dryRun, "dry-run", false, "validar y mostrar el cuerpo sin enviarlo")
	return cmd
}

// itemSpec una línea pedida por flag.
type itemSpec struct {
	productID string
	quantity  string
	price     string
	hasPrice  bool
}

func parseItemSpec(raw string) (itemSpec, error) {
	parts := strings.Split(raw, ":")
	if len(parts) < 2 || len(parts) > 3 || strings.TrimSpace(parts[0]) == "" {
		return itemSpec{}, fmt.Errorf("--item %q: se espera producto:cantidad[:precio]", raw)
	}
	spec := itemSpec{productID: strings.TrimSpace(parts[0]), quantity: parts[1]}
	if len(parts) == 3 {
		spec.price, spec.hasPrice = parts[2], true
	}
	return spec, nil
}

func (a *app) createInvoice(cmd *cobra.Command, opts createOptions) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	specs := make([]itemSpec, 0, len(opts.items))
	for _, raw := range opts.items {
		spec, err := parseItemSpec(raw)
		if err != nil {
			return err
		}
		specs = append(specs, spec)
	}
	var due time.Time
	if strings.TrimSpace(opts.due) != "" {
		t, err := time.ParseInLocation(dto.DateLayout, strings.TrimSpace(opts.due), a.now().Location())
		if err != nil {
			return fmt.Errorf("--due %q: se espera YYYY-MM-DD", opts.due)
		}
		due = t
	}

	d := draft.New(draft.WithClock(a.now))

	if opts.customerID != "" {
		customer, err := a.findCustomer(cmd, opts.customerID)
		if err != nil {
			return err
		}
		if err := d.SelectCustomer(customer); err != nil {
			return err
		}
	}
	if len(specs) > 0 {
		products, err := a.productIndex(cmd)
		if err != nil {
			return err
		}
		for i, spec := range specs {
			p, ok := products[spec.productID]
			if !ok {
				return fmt.Errorf("línea %d: producto %s no encontrado", i+1, spec.productID)
			}
			if _, err := d.AddLineItem(); err != nil {
				return err
			}
			if err := d.SelectProductForItem(i, p); err != nil {
				return err
			}
			if err := d.SetQuantity(i, spec.quantity); err != nil {
				return err
			}
			if spec.hasPrice {
				if err := d.SetUnitPrice(i, spec.price); err != nil {
					return err
				}
			}
		}
	}
	if err := errors.Join(
		d.SetPaymentStatus(entity.PaymentStatus(strings.ToUpper(strings.TrimSpace(opts.status)))),
		d.SetPaymentMethod(entity.PaymentMethod(strings.ToUpper(strings.TrimSpace(opts.method)))),
		d.SetDueDate(due),
		d.SetNotes(opts.notes),
	); err != nil {
		return err
	}

	if opts.dryRun {
		if res := d.Validate(); !res.Valid() {
			printViolations(cmd.ErrOrStderr(), res)
			return res.Err()
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(d.Payload())
	}

	var submitter draft.Submitter = client.NewCompositeSubmitter(a.api)
	if opts.sequential {
		submitter = client.NewSequentialSubmitter(a.api, a.log)
	}
	outcome := d.Submit(ctx, submitter)
	switch outcome.Kind {
	case draft.OutcomeInvalid:
		printViolations(cmd.ErrOrStderr(), outcome.Validation)
		return outcome.Err
	case draft.OutcomeFailed:
		var partial *client.PartialSubmissionError
		if errors.As(outcome.Err, &partial) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Factura %s creada de forma incompleta: %d línea(s) guardada(s)\n",
				partial.InvoiceID, partial.Created)
		}
		return sessionErr(outcome.Err)
	}

	inv := outcome.Result
	a.log.Debug().Str("invoice_id", inv.ID).Str("invoice_number", inv.InvoiceNumber).Msg("factura creada")
	fmt.Fprintf(out, "Factura %s creada (%s): %s\n", inv.InvoiceNumber, inv.ID, money.Format(inv.TotalAmount))
	return nil
}

func printViolations(w io.Writer, res draft.ValidationResult) {
	fmt.Fprintln(w, "La factura no es válida:")
	for _, v := range res.Violations {
		fmt.Fprintf(w, "  - %s\n", v.Message)
	}
}

func (a *app) findCustomer(cmd *cobra.Command, id string) (*entity.Customer, error) {
	customers, err := a.api.ListCustomers(cmd.Context(), dto.PageRequest{Limit: lookupLimit})
	if err != nil {
		return nil, sessionErr(err)
	}
	for _, c := range customers {
		if c.ID == id {
			return &entity.Customer{ID: c.ID, FirstName: c.FirstName, LastName: c.LastName, Email: c.Email, Phone: c.Phone}, nil
		}
	}
	return nil, fmt.Errorf("cliente %s no encontrado", id)
}

func (a *app) productIndex(cmd *cobra.Command) (map[string]*entity.Product, error) {
	products, err := a.api.ListProducts(cmd.Context(), dto.PageRequest{Limit: lookupLimit})
	if err != nil {
		return nil, sessionErr(err)
	}
	index := make(map[string]*entity.Product, len(products))
	for _, p := range products {
		index[p.ID] = &entity.Product{ID: p.ID, Name: p.Name, Amount: p.Amount}
	}
	return index, nil
}

func newInvoicesPDFCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "pdf <id>",
		Short: "Descarga el PDF de una factura",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.api.InvoicePDF(cmd.Context(), args[0])
			if err != nil {
				return sessionErr(err)
			}
			path := output
			if path == "" {
				path = "factura_" + args[0] + ".pdf"
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("guardar pdf: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "PDF guardado en %s (%d bytes)\n", path, len(data))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "archivo de salida (por defecto factura_<id>.pdf)")
	return cmd
}
