package forms_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturo/internal/client/forms"
)

func fieldErrors(t *testing.T, err error) forms.FieldErrors {
	t.Helper()
	var fe forms.FieldErrors
	require.True(t, errors.As(err, &fe), "se esperaba FieldErrors, llegó %v", err)
	return fe
}

func TestLogin(t *testing.T) {
	assert.NoError(t, forms.Login{Email: " awa@example.com ", Password: "secreto"}.Validate())

	fe := fieldErrors(t, forms.Login{}.Validate())
	assert.Equal(t, "Email requerido", fe["email"])
	assert.Equal(t, "Contraseña requerida", fe["password"])

	fe = fieldErrors(t, forms.Login{Email: "awa@example", Password: "12345"}.Validate())
	assert.Equal(t, "Email inválido", fe["email"])
	assert.Equal(t, "Mínimo 6 caracteres", fe["password"])
}

func TestRegister(t *testing.T) {
	ok := forms.Register{Email: "awa@example.com", Password: "secreto", Confirm: "secreto"}
	require.NoError(t, ok.Validate())
	assert.Equal(t, "awa@example.com", ok.Request().Email)

	fe := fieldErrors(t, forms.Register{Email: "awa@example.com", Password: "secreto", Confirm: "otro"}.Validate())
	assert.Equal(t, map[string]string{"confirm_password": "Las contraseñas no coinciden"}, map[string]string(fe))

	fe = fieldErrors(t, forms.Register{}.Validate())
	assert.Len(t, fe, 3, "todos los errores juntos")
	assert.Equal(t, "Confirmación requerida", fe["confirm_password"])
}

func TestCustomer(t *testing.T) {
	f := forms.Customer{FirstName: " Moussa ", LastName: "Diallo", Phone: "+221 77 000 00 00"}
	require.NoError(t, f.Validate())
	assert.Equal(t, "Moussa", f.Request().FirstName)

	fe := fieldErrors(t, forms.Customer{FirstName: "  ", Email: "no-es-email"}.Validate())
	assert.Equal(t, "Nombre requerido", fe["firstname"])
	assert.Equal(t, "Apellido requerido", fe["name"])
	assert.Equal(t, "Email inválido", fe["email"])
}

func TestProduct(t *testing.T) {
	f := forms.Product{Name: "Consultation", Amount: " 12500.50 "}
	require.NoError(t, f.Validate())
	req, err := f.Request()
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("12500.5").Equal(req.Amount))

	for _, amount := range []string{"0", "-10", "abc", "1e13", "1e50000000"} {
		fe := fieldErrors(t, forms.Product{Name: "X", Amount: amount}.Validate())
		assert.Equal(t, "El monto debe ser un número mayor que 0 y no superar 1000000000000", fe["product_amount"], amount)
	}

	fe := fieldErrors(t, forms.Product{}.Validate())
	assert.Equal(t, "Nombre requerido", fe["product_name"])
	assert.Equal(t, "Monto requerido", fe["product_amount"])
}

func TestFieldErrors_MensajeOrdenado(t *testing.T) {
	err := forms.FieldErrors{"password": "b", "email": "a"}
	assert.Equal(t, "formulario inválido: email: a; password: b", err.Error())
}
