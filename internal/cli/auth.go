package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/facturo/internal/client"
	"github.com/jhoicas/facturo/internal/client/forms"
)

func newLoginCmd(a *app) *cobra.Command {
	var form forms.Login
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Inicia sesión y guarda el token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := form.Validate(); err != nil {
				return err
			}
			resp, err := a.api.Login(cmd.Context(), form.Email, form.Password)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}
			if err := a.tokens.Save(resp.AccessToken); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sesión iniciada como %s\n", resp.User.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&form.Email, "email", "", "email")
	cmd.Flags().StringVar(&form.Password, "password", "", "contraseña")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Borra el token guardado",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.tokens.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Sesión cerrada")
			return nil
		},
	}
}

func newRegisterCmd(a *app) *cobra.Command {
	var form forms.Register
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Crea una cuenta y guarda el token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := form.Validate(); err != nil {
				return err
			}
			resp, err := a.api.Register(cmd.Context(), form.Request())
			if err != nil {
				return fmt.Errorf("registro: %w", err)
			}
			if err := a.tokens.Save(resp.AccessToken); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cuenta creada: %s\n", resp.User.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&form.Email, "email", "", "email")
	cmd.Flags().StringVar(&form.Username, "username", "", "nombre de usuario (opcional)")
	cmd.Flags().StringVar(&form.Password, "password", "", "contraseña")
	cmd.Flags().StringVar(&form.Confirm, "confirm-password", "", "repetir contraseña")
	return cmd
}

func newMeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Muestra el usuario de la sesión",
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.api.Me(cmd.Context())
			if err != nil {
				return sessionErr(err)
			}
			w := newTable(cmd.OutOrStdout())
			w.row("ID", u.ID)
			w.row("Email", u.Email)
			w.row("Usuario", u.Username)
			w.row("Estado", u.Status)
			return w.flush()
		},
	}
}

// sessionErr agrega una pista cuando la API rechaza el token.
func sessionErr(err error) error {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.IsUnauthorized() {
		return fmt.Errorf("%w (ejecute 'facturo login')", err)
	}
	return err
}
