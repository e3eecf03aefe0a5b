package draft

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange el índice no corresponde a ninguna línea del borrador.
	ErrOutOfRange = errors.New("draft: índice de línea fuera de rango")
	// ErrNotEditable el borrador se está enviando o ya fue enviado.
	ErrNotEditable = errors.New("draft: el borrador no admite cambios en este estado")
	// ErrNilReference se pasó un cliente o producto nil.
	ErrNilReference = errors.New("draft: referencia nil")
	// ErrNoSubmitter Submit sin colaborador de envío.
	ErrNoSubmitter = errors.New("draft: colaborador de envío requerido")
)

// SubmissionError el colaborador de envío falló. Se propaga tal cual, sin
// interpretar códigos de estado y sin reintentos.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("draft: envío de la factura: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

func outOfRange(index, length int) error {
	return fmt.Errorf("%w: índice %d, líneas %d", ErrOutOfRange, index, length)
}
