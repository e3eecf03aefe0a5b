package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/facturo/internal/application/dto"
	"github.com/jhoicas/facturo/internal/client/forms"
	"github.com/jhoicas/facturo/pkg/money"
)

func newProductsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Productos de la cuenta",
	}
	cmd.AddCommand(newProductsListCmd(a), newProductsCreateCmd(a))
	return cmd
}

func newProductsListCmd(a *app) *cobra.Command {
	var page dto.PageRequest
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Lista los productos",
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := a.api.ListProducts(cmd.Context(), page)
			if err != nil {
				return sessionErr(err)
			}
			if len(products) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Sin productos")
				return nil
			}
			w := newTable(cmd.OutOrStdout())
			w.row("ID", "PRODUCTO", "PRECIO")
			for _, p := range products {
				w.row(p.ID, p.Name, money.Format(p.Amount))
			}
			return w.flush()
		},
	}
	cmd.Flags().IntVar(&page.Limit, "limit", 100, "máximo de resultados")
	cmd.Flags().IntVar(&page.Offset, "offset", 0, "desplazamiento")
	return cmd
}

func newProductsCreateCmd(a *app) *cobra.Command {
	var form forms.Product
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Crea un producto",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := form.Validate(); err != nil {
				return err
			}
			req, err := form.Request()
			if err != nil {
				return err
			}
			p, err := a.api.CreateProduct(cmd.Context(), req)
			if err != nil {
				return sessionErr(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Producto creado: %s (%s, %s)\n", p.ID, p.Name, money.Format(p.Amount))
			return nil
		},
	}
	cmd.Flags().StringVar(&form.Name, "name", "", "nombre del producto")
	cmd.Flags().StringVar(&form.Amount, "amount", "", "precio unitario en XOF")
	return cmd
}
