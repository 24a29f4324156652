package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterStockRequest body para POST /api/products/{id}/stock/add y /stock/remove.
// La dirección la da la ruta; quantity es siempre la magnitud positiva.
type RegisterStockRequest struct {
	Quantity     int64            `json:"quantity" validate:"required,min=1"`
	UnitPrice    *decimal.Decimal `json:"unit_price"`
	Notes        string           `json:"notes"`
	Reference    string           `json:"reference" validate:"max=100"`
	MovementDate *time.Time       `json:"movement_date"`
}

// UpdateMovementRequest entrada para editar un movimiento. Nil = sin cambio.
// Cambiar type invierte la dirección; el ledger ajusta el stock por la diferencia.
type UpdateMovementRequest struct {
	Type         *string          `json:"type" validate:"omitempty,oneof=in out"`
	Quantity     *int64           `json:"quantity" validate:"omitempty,min=1"`
	UnitPrice    *decimal.Decimal `json:"unit_price"`
	Notes        *string          `json:"notes"`
	Reference    *string          `json:"reference" validate:"omitempty,max=100"`
	MovementDate *time.Time       `json:"movement_date"`
}

// MovementResponse salida de un movimiento del journal.
type MovementResponse struct {
	ID           string           `json:"id"`
	ProductID    string           `json:"product_id"`
	Type         string           `json:"type"`
	Quantity     int64            `json:"quantity"`
	UnitPrice    *decimal.Decimal `json:"unit_price,omitempty"`
	Notes        string           `json:"notes,omitempty"`
	Reference    string           `json:"reference,omitempty"`
	MovementDate time.Time        `json:"movement_date"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ReconcileResponse resultado de la reconciliación contador vs journal.
type ReconcileResponse struct {
	ProductID string `json:"product_id"`
	Drift     int64  `json:"drift"` // contador - suma del journal antes de reparar
	Stock     int64  `json:"stock"` // stock tras la reconciliación
}
