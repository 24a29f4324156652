package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un producto en el catálogo.
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// Valid indica si el estado es uno de los permitidos.
func (s ProductStatus) Valid() bool {
	return s == ProductStatusActive || s == ProductStatusInactive
}

// Product representa un producto del catálogo con su stock actual.
// Stock es un valor derivado cacheado: debe ser igual a la suma con signo de
// todos sus movimientos. Solo se modifica vía el ledger, nunca por edición directa.
type Product struct {
	ID          string
	Code        string // SKU único
	Name        string
	Description string
	Category    string
	Price       decimal.Decimal
	Stock       int64
	MinStock    int64
	Unit        string // pcs, kg, liter, etc.
	Supplier    string
	Location    string
	Status      ProductStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsLowStock indica si el stock está en o por debajo del mínimo configurado.
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.MinStock
}

// InventoryValue valor del inventario de este producto (stock * precio).
func (p *Product) InventoryValue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(p.Stock))
}
