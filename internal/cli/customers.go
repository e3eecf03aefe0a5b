package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/facturo/internal/application/dto"
	"github.com/jhoicas/facturo/internal/client/forms"
)

func newCustomersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "customers",
		Aliases: []string{"clients"},
		Short:   "Clientes de la cuenta",
	}
	cmd.AddCommand(newCustomersListCmd(a), newCustomersCreateCmd(a))
	return cmd
}

func newCustomersListCmd(a *app) *cobra.Command {
	var page dto.PageRequest
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Lista los clientes",
		RunE: func(cmd *cobra.Command, args []string) error {
			customers, err := a.api.ListCustomers(cmd.Context(), page)
			if err != nil {
				return sessionErr(err)
			}
			if len(customers) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Sin clientes")
				return nil
			}
			w := newTable(cmd.OutOrStdout())
			w.row("ID", "NOMBRE", "EMAIL", "TELÉFONO")
			for _, c := range customers {
				w.row(c.ID, c.FirstName+" "+c.LastName, dash(c.Email), dash(c.Phone))
			}
			return w.flush()
		},
	}
	cmd.Flags().IntVar(&page.Limit, "limit", 100, "máximo de resultados")
	cmd.Flags().IntVar(&page.Offset, "offset", 0, "desplazamiento")
	return cmd
}

func newCustomersCreateCmd(a *app) *cobra.Command {
	var form forms.Customer
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Crea un cliente",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := form.Validate(); err != nil {
				return err
			}
			c, err := a.api.CreateCustomer(cmd.Context(), form.Request())
			if err != nil {
				return sessionErr(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cliente creado: %s (%s %s)\n", c.ID, c.FirstName, c.LastName)
			return nil
		},
	}
	cmd.Flags().StringVar(&form.FirstName, "firstname", "", "nombre")
	cmd.Flags().StringVar(&form.LastName, "name", "", "apellido")
	cmd.Flags().StringVar(&form.Email, "email", "", "email (opcional)")
	cmd.Flags().StringVar(&form.Phone, "phone", "", "teléfono (opcional)")
	return cmd
}
