// Package draft mantiene el borrador de una factura mientras el formulario de
// creación está abierto: cliente, líneas (producto, cantidad, precio unitario),
// estado y medio de pago, vencimiento y notas.
//
// Un Draft vive lo que dura una sesión de formulario. Lo crea el host con New,
// lo modifica solo a través de sus métodos y lo descarta al cerrar el
// formulario, se haya enviado o no. Nada se persiste.
//
// Ciclo de vida:
//
//	Editing ──Submit(válido)──▶ Submitting ──ok──▶ Submitted
//	   ▲                             │
//	   └────────error del colaborador┘
//
// Mientras está en Submitting (o ya en Submitted) toda mutación devuelve
// ErrNotEditable.
package draft
