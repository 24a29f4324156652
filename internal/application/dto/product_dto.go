package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
// Stock es el saldo inicial: si es mayor que cero se registra como un
// movimiento de entrada de apertura para que el journal cuadre desde el inicio.
type CreateProductRequest struct {
	Code        string          `json:"code" validate:"required,min=1,max=50"`
	Name        string          `json:"name" validate:"required,min=1,max=255"`
	Description string          `json:"description"`
	Category    string          `json:"category" validate:"required,max=100"`
	Price       decimal.Decimal `json:"price"`
	Stock       int64           `json:"stock" validate:"min=0"`
	MinStock    int64           `json:"min_stock" validate:"min=0"`
	Unit        string          `json:"unit" validate:"required,max=20"`
	Supplier    string          `json:"supplier"`
	Location    string          `json:"location"`
	Status      string          `json:"status" validate:"required,oneof=active inactive"`
}

// UpdateProductRequest entrada para actualizar un producto (sin Stock:
// el stock solo cambia vía movimientos).
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	Price       *decimal.Decimal `json:"price"`
	MinStock    *int64           `json:"min_stock" validate:"omitempty,min=0"`
	Unit        *string          `json:"unit"`
	Supplier    *string          `json:"supplier"`
	Location    *string          `json:"location"`
	Status      *string          `json:"status" validate:"omitempty,oneof=active inactive"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string          `json:"id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Stock       int64           `json:"stock"`
	MinStock    int64           `json:"min_stock"`
	Unit        string          `json:"unit"`
	Supplier    string          `json:"supplier"`
	Location    string          `json:"location"`
	Status      string          `json:"status"`
	IsLowStock  bool            `json:"is_low_stock"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductDetailResponse producto con sus movimientos recientes.
type ProductDetailResponse struct {
	ProductResponse
	RecentMovements []MovementResponse `json:"recent_movements"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// StatsResponse agregados del catálogo para el dashboard.
type StatsResponse struct {
	TotalProducts    int64           `json:"total_products"`
	ActiveProducts   int64           `json:"active_products"`
	LowStockProducts int64           `json:"low_stock_products"`
	TotalValue       decimal.Decimal `json:"total_value"`
}
