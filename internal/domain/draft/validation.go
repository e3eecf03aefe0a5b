package draft

import (
	"fmt"
	"strings"

	"github.com/jhoicas/facturo/internal/domain/entity"
)

// Rule código de una regla de completitud del formulario.
type Rule string

const (
	RuleCustomerRequired    Rule = "CUSTOMER_REQUIRED"
	RuleItemsRequired       Rule = "ITEMS_REQUIRED"
	RuleItemProductRequired Rule = "ITEM_PRODUCT_REQUIRED"
	RuleItemQuantityInvalid Rule = "ITEM_QUANTITY_INVALID"
	RuleDueDateRequired     Rule = "DUE_DATE_REQUIRED"
	RuleDueDatePast         Rule = "DUE_DATE_PAST"
	RuleStatusInvalid       Rule = "STATUS_INVALID"
	RuleMethodInvalid       Rule = "METHOD_INVALID"
)

// Violation una regla incumplida. Line es 1-based y 0 cuando la regla no es de una línea.
type Violation struct {
	Rule    Rule
	Line    int
	Message string
}

// ValidationResult todas las reglas incumplidas, en orden de evaluación.
type ValidationResult struct {
	Violations []Violation
}

// Valid true si no hay violaciones.
func (r ValidationResult) Valid() bool { return len(r.Violations) == 0 }

// Has indica si la regla aparece entre las violaciones.
func (r ValidationResult) Has(rule Rule) bool {
	for _, v := range r.Violations {
		if v.Rule == rule {
			return true
		}
	}
	return false
}

// Err devuelve *ValidationError o nil.
func (r ValidationResult) Err() error {
	if r.Valid() {
		return nil
	}
	return &ValidationError{Violations: r.Violations}
}

// ValidationError el formulario está incompleto. Nunca llega a la capa de red.
type ValidationError struct {
	Violations []Violation
}

// Error une los mensajes en una sola alerta.
func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Message
	}
	return "draft: formulario incompleto: " + strings.Join(msgs, "; ")
}

// Validate evalúa todas las reglas sobre el estado actual. No modifica el borrador.
func (d *Draft) Validate() ValidationResult {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.validateLocked()
}

func (d *Draft) validateLocked() ValidationResult {
	var res ValidationResult
	add := func(rule Rule, line int, msg string) {
		res.Violations = append(res.Violations, Violation{Rule: rule, Line: line, Message: msg})
	}

	if d.customer == nil {
		add(RuleCustomerRequired, 0, "Seleccione un cliente")
	}
	if len(d.items) == 0 {
		add(RuleItemsRequired, 0, "Agregue al menos un producto")
	}
	for i, item := range d.items {
		line := i + 1
		if item.Product == nil {
			add(RuleItemProductRequired, line, fmt.Sprintf("Seleccione un producto para la línea %d", line))
		}
		if item.Quantity <= 0 {
			add(RuleItemQuantityInvalid, line, fmt.Sprintf("Cantidad inválida para la línea %d", line))
		}
	}
	if d.dueDate.IsZero() {
		add(RuleDueDateRequired, 0, "Seleccione una fecha de vencimiento")
	} else if calendarDay(d.dueDate).Before(calendarDay(d.now())) {
		add(RuleDueDatePast, 0, "La fecha de vencimiento no puede ser anterior a hoy")
	}
	if !d.status.Valid() {
		add(RuleStatusInvalid, 0, fmt.Sprintf("Estado de pago desconocido: %q", d.status))
	}
	if d.status == entity.StatusPaid && !d.method.Valid() {
		add(RuleMethodInvalid, 0, fmt.Sprintf("Medio de pago desconocido: %q", d.method))
	}
	return res
}
