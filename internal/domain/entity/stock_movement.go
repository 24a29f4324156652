package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType dirección de un movimiento de stock (variante cerrada: in | out).
type MovementType string

const (
	MovementTypeIn  MovementType = "in"  // entrada
	MovementTypeOut MovementType = "out" // salida
)

// Valid indica si el tipo es uno de los permitidos.
func (t MovementType) Valid() bool {
	return t == MovementTypeIn || t == MovementTypeOut
}

// Sign devuelve el signo que el tipo aplica a la cantidad: +1 entrada, -1 salida.
func (t MovementType) Sign() int64 {
	if t == MovementTypeOut {
		return -1
	}
	return 1
}

// StockMovement representa un movimiento del journal de stock de un producto.
// Quantity es siempre la magnitud (positiva); la dirección la da Type.
type StockMovement struct {
	ID           string
	ProductID    string
	Type         MovementType
	Quantity     int64
	UnitPrice    *decimal.Decimal // opcional
	Notes        string
	Reference    string // factura, orden de compra, nota de ajuste, etc.
	MovementDate time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SignedQuantity cantidad con signo aplicado por dirección (+in, -out).
func (m *StockMovement) SignedQuantity() int64 {
	return m.Type.Sign() * m.Quantity
}
