package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jhoicas/facturo/pkg/money"
)

func newDashboardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"home"},
		Short:   "Resumen del mes y últimas facturas",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.api.Dashboard(cmd.Context())
			if err != nil {
				return sessionErr(err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Período %s\n", s.DateLabel)
			w := newTable(out)
			w.row("Ingresos del mes", money.Format(s.MonthlyRevenue))
			w.row("Facturas emitidas", strconv.Itoa(s.InvoicesCreated))
			w.row("Clientes activos", strconv.Itoa(s.ActiveCustomers))
			w.row("Pagos recibidos", strconv.Itoa(s.PaymentsReceived))
			if err := w.flush(); err != nil {
				return err
			}
			if len(s.RecentInvoices) == 0 {
				return nil
			}
			fmt.Fprintln(out, "\nFacturas recientes")
			return printInvoices(out, s.RecentInvoices)
		},
	}
}
