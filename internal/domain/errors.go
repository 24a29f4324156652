package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// InsufficientStockError indica que una salida dejaría el stock por debajo de cero.
// Lleva la cantidad disponible y la unidad del producto para mostrar al usuario.
type InsufficientStockError struct {
	Available int64
	Unit      string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: disponible %d %s", e.Available, e.Unit)
}

// Is hace que errors.Is(err, ErrInsufficientStock) reconozca el error con detalle.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
