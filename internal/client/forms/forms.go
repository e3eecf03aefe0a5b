// Package forms valida los formularios de la CLI antes de llamar a la API:
// login, registro, cliente y producto. Todos los errores se devuelven juntos,
// uno por campo.
package forms

import (
	"errors"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturo/internal/application/dto"
	"github.com/jhoicas/facturo/internal/domain/entity"
)

// loginEmailRe mismo criterio laxo que la app móvil: algo@algo.algo
var loginEmailRe = regexp.MustCompile(`\S+@\S+\.\S+`)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			return fld.Tag.Get("form")
		})
		_ = validate.RegisterValidation("loose_email", func(fl validator.FieldLevel) bool {
			return loginEmailRe.MatchString(fl.Field().String())
		})
		_ = validate.RegisterValidation("positive_amount", func(fl validator.FieldLevel) bool {
			d, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
			return err == nil && d.IsPositive() && entity.AmountInRange(d)
		})
	})
	return validate
}

// FieldErrors mensajes por campo. Vacío significa formulario válido.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return "formulario inválido: " + strings.Join(parts, "; ")
}

// check corre el validador y traduce cada error con messages[campo+"."+tag].
func check(v any, messages map[string]string) error {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		msg, ok := messages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = "inválido"
		}
		out[fe.Field()] = msg
	}
	return out
}

// ── Login ─────────────────────────────────────────────────────────────────────

// Login formulario de inicio de sesión.
type Login struct {
	Email    string `form:"email" validate:"required,loose_email"`
	Password string `form:"password" validate:"required,min=6"`
}

var loginMessages = map[string]string{
	"email.required":    "Email requerido",
	"email.loose_email": "Email inválido",
	"password.required": "Contraseña requerida",
	"password.min":      "Mínimo 6 caracteres",
}

// Validate devuelve FieldErrors o nil.
func (f Login) Validate() error {
	f.Email = strings.TrimSpace(f.Email)
	return check(f, loginMessages)
}

// ── Registro ──────────────────────────────────────────────────────────────────

// Register formulario de alta de cuenta.
type Register struct {
	Email    string `form:"email" validate:"required,loose_email"`
	Username string `form:"username" validate:"omitempty,max=100"`
	Password string `form:"password" validate:"required,min=6"`
	Confirm  string `form:"confirm_password" validate:"required,eqfield=Password"`
}

var registerMessages = map[string]string{
	"email.required":            "Email requerido",
	"email.loose_email":         "Email inválido",
	"username.max":              "Máximo 100 caracteres",
	"password.required":         "Contraseña requerida",
	"password.min":              "Mínimo 6 caracteres",
	"confirm_password.required": "Confirmación requerida",
	"confirm_password.eqfield":  "Las contraseñas no coinciden",
}

func (f Register) Validate() error {
	f.Email = strings.TrimSpace(f.Email)
	return check(f, registerMessages)
}

// Request cuerpo para POST /api/auth/register.
func (f Register) Request() dto.RegisterRequest {
	return dto.RegisterRequest{
		Email:    strings.TrimSpace(f.Email),
		Password: f.Password,
		Username: strings.TrimSpace(f.Username),
	}
}

// ── Cliente ───────────────────────────────────────────────────────────────────

// Customer formulario de cliente.
type Customer struct {
	FirstName string `form:"firstname" validate:"required,max=100"`
	LastName  string `form:"name" validate:"required,max=100"`
	Email     string `form:"email" validate:"omitempty,email"`
	Phone     string `form:"phone" validate:"omitempty,max=30"`
}

var customerMessages = map[string]string{
	"firstname.required": "Nombre requerido",
	"firstname.max":      "Máximo 100 caracteres",
	"name.required":      "Apellido requerido",
	"name.max":           "Máximo 100 caracteres",
	"email.email":        "Email inválido",
	"phone.max":          "Máximo 30 caracteres",
}

func (f Customer) Validate() error {
	f = f.trimmed()
	return check(f, customerMessages)
}

func (f Customer) trimmed() Customer {
	return Customer{
		FirstName: strings.TrimSpace(f.FirstName),
		LastName:  strings.TrimSpace(f.LastName),
		Email:     strings.TrimSpace(f.Email),
		Phone:     strings.TrimSpace(f.Phone),
	}
}

// Request cuerpo para POST /api/customers.
func (f Customer) Request() dto.CreateCustomerRequest {
	t := f.trimmed()
	return dto.CreateCustomerRequest{FirstName: t.FirstName, LastName: t.LastName, Email: t.Email, Phone: t.Phone}
}

// ── Producto ──────────────────────────────────────────────────────────────────

// Product formulario de producto. Amount llega como texto desde la CLI.
type Product struct {
	Name   string `form:"product_name" validate:"required,max=200"`
	Amount string `form:"product_amount" validate:"required,positive_amount"`
}

var productMessages = map[string]string{
	"product_name.required":          "Nombre requerido",
	"product_name.max":               "Máximo 200 caracteres",
	"product_amount.required":        "Monto requerido",
	"product_amount.positive_amount": "El monto debe ser un número mayor que 0 y no superar 1000000000000",
}

func (f Product) Validate() error {
	f.Name = strings.TrimSpace(f.Name)
	f.Amount = strings.TrimSpace(f.Amount)
	return check(f, productMessages)
}

// Request cuerpo para POST /api/products. Llamar después de Validate.
func (f Product) Request() (dto.CreateProductRequest, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(f.Amount))
	if err != nil {
		return dto.CreateProductRequest{}, FieldErrors{"product_amount": productMessages["product_amount.positive_amount"]}
	}
	return dto.CreateProductRequest{Name: strings.TrimSpace(f.Name), Amount: amount}, nil
}
