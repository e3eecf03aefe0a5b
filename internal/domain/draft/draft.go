package draft

import (
	"sync"
	"time"

	"github.com/jhoicas/facturo/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// State estado del borrador.
type State int

const (
	StateEditing State = iota
	StateSubmitting
	StateSubmitted
)

func (s State) String() string {
	switch s {
	case StateEditing:
		return "EDITING"
	case StateSubmitting:
		return "SUBMITTING"
	case StateSubmitted:
		return "SUBMITTED"
	default:
		return "UNKNOWN"
	}
}

// LineItem una línea del borrador. Total siempre se deriva de Quantity × UnitPrice.
type LineItem struct {
	ID        int64           // temporal, único dentro del borrador
	Product   *entity.Product // nil hasta que se elige
	Quantity  int
	UnitPrice decimal.Decimal
}

// Total devuelve Quantity × UnitPrice.
func (li LineItem) Total() decimal.Decimal {
	return decimal.NewFromInt(int64(li.Quantity)).Mul(li.UnitPrice)
}

// Option configura un Draft.
type Option func(*Draft)

// WithClock fija el reloj usado para "hoy", la fecha de emisión y el número de factura.
func WithClock(now func() time.Time) Option {
	return func(d *Draft) {
		if now != nil {
			d.now = now
		}
	}
}

// Draft borrador de factura. Es seguro llamarlo desde varias goroutines, pero
// está pensado para un único dueño (la sesión de formulario que lo creó).
type Draft struct {
	mu  sync.Mutex
	now func() time.Time

	nextID   int64
	customer *entity.Customer
	items    []LineItem
	status   entity.PaymentStatus
	method   entity.PaymentMethod
	dueDate  time.Time // cero = sin fecha
	notes    string

	state   State
	lastErr error
}

// New crea un borrador vacío en estado Editing: sin cliente, sin líneas,
// estado PENDING, medio CASH, sin vencimiento.
func New(opts ...Option) *Draft {
	d := &Draft{
		now:    time.Now,
		status: entity.StatusPending,
		method: entity.MethodCash,
		state:  StateEditing,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// edit ejecuta fn con el lock tomado, solo si el borrador está en Editing.
func (d *Draft) edit(fn func() error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != StateEditing {
		return ErrNotEditable
	}
	return fn()
}

func (d *Draft) itemAt(index int) (*LineItem, error) {
	if index < 0 || index >= len(d.items) {
		return nil, outOfRange(index, len(d.items))
	}
	return &d.items[index], nil
}

// SelectCustomer fija el cliente. Idempotente.
func (d *Draft) SelectCustomer(c *entity.Customer) error {
	if c == nil {
		return ErrNilReference
	}
	return d.edit(func() error {
		d.customer = c
		return nil
	})
}

// AddLineItem agrega una línea sin producto, cantidad 1 y precio 0.
func (d *Draft) AddLineItem() (LineItem, error) {
	var added LineItem
	err := d.edit(func() error {
		d.nextID++
		added = LineItem{ID: d.nextID, Quantity: 1, UnitPrice: decimal.Zero}
		d.items = append(d.items, added)
		return nil
	})
	return added, err
}

// SelectProductForItem fija el producto de la línea y copia su monto como precio unitario.
func (d *Draft) SelectProductForItem(index int, p *entity.Product) error {
	if p == nil {
		return ErrNilReference
	}
	return d.edit(func() error {
		item, err := d.itemAt(index)
		if err != nil {
			return err
		}
		item.Product = p
		item.UnitPrice = p.Amount
		return nil
	})
}

// SetQuantity interpreta raw como entero; negativos o no numéricos quedan en 0.
func (d *Draft) SetQuantity(index int, raw string) error {
	return d.edit(func() error {
		item, err := d.itemAt(index)
		if err != nil {
			return err
		}
		item.Quantity = parseQuantity(raw)
		return nil
	})
}

// SetUnitPrice interpreta raw como decimal; negativos o no numéricos quedan en 0.
func (d *Draft) SetUnitPrice(index int, raw string) error {
	return d.edit(func() error {
		item, err := d.itemAt(index)
		if err != nil {
			return err
		}
		item.UnitPrice = parseUnitPrice(raw)
		return nil
	})
}

// RemoveLineItem elimina la línea; las siguientes bajan un índice.
func (d *Draft) RemoveLineItem(index int) error {
	return d.edit(func() error {
		if _, err := d.itemAt(index); err != nil {
			return err
		}
		d.items = append(d.items[:index], d.items[index+1:]...)
		return nil
	})
}

// SetPaymentStatus fija el estado de pago. Se valida al enviar.
func (d *Draft) SetPaymentStatus(s entity.PaymentStatus) error {
	return d.edit(func() error {
		d.status = s
		return nil
	})
}

// SetPaymentMethod fija el medio de pago (solo relevante con PAID). Se valida al enviar.
func (d *Draft) SetPaymentMethod(m entity.PaymentMethod) error {
	return d.edit(func() error {
		d.method = m
		return nil
	})
}

// SetDueDate fija la fecha de vencimiento; la hora se descarta. Se valida al enviar.
func (d *Draft) SetDueDate(date time.Time) error {
	return d.edit(func() error {
		if date.IsZero() {
			d.dueDate = time.Time{}
			return nil
		}
		d.dueDate = dateOnly(date)
		return nil
	})
}

// SetNotes fija las notas libres.
func (d *Draft) SetNotes(text string) error {
	return d.edit(func() error {
		d.notes = text
		return nil
	})
}

// TotalAmount suma Quantity × UnitPrice de todas las líneas. Se recalcula en cada lectura.
func (d *Draft) TotalAmount() decimal.Decimal {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.totalLocked()
}

func (d *Draft) totalLocked() decimal.Decimal {
	total := decimal.Zero
	for _, item := range d.items {
		total = total.Add(item.Total())
	}
	return total
}

// Customer cliente elegido o nil.
func (d *Draft) Customer() *entity.Customer {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.customer
}

// Items copia de las líneas en orden de inserción.
func (d *Draft) Items() []LineItem {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]LineItem, len(d.items))
	copy(out, d.items)
	return out
}

// Len número de líneas.
func (d *Draft) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.items)
}

// PaymentStatus estado de pago actual.
func (d *Draft) PaymentStatus() entity.PaymentStatus {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status
}

// PaymentMethod medio de pago actual.
func (d *Draft) PaymentMethod() entity.PaymentMethod {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.method
}

// DueDate fecha de vencimiento; ok es false si no se fijó.
func (d *Draft) DueDate() (date time.Time, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dueDate, !d.dueDate.IsZero()
}

// Notes notas actuales.
func (d *Draft) Notes() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.notes
}

// State estado del ciclo de vida.
func (d *Draft) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// LastError último error de envío; se limpia al reintentar.
func (d *Draft) LastError() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastErr
}

// calendarDay fecha de calendario de t en su propia zona, como medianoche UTC.
// issued_at se formatea en la zona del reloj y due_date en la suya; comparar
// así da el mismo resultado que comparar las cadenas del cuerpo de envío.
func calendarDay(t time.Time) time.Time {
	y, m, day := t.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func dateOnly(t time.Time) time.Time {
	y, m, day := t.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, t.Location())
}
