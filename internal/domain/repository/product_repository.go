package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// ProductFilter filtros del listado del catálogo.
type ProductFilter struct {
	Search   string // busca en code, name y category
	Category string
	Status   entity.ProductStatus
	LowStock bool // solo productos con stock <= min_stock
}

// ProductStats agregados del catálogo para el dashboard.
type ProductStats struct {
	TotalProducts    int64
	ActiveProducts   int64
	LowStockProducts int64
	TotalValue       decimal.Decimal // SUM(stock * price)
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByCode(code string) (*entity.Product, error)
	// GetForUpdate obtiene el producto bloqueando su fila para la transacción
	// en curso. Todo ajuste de stock debe pasar por aquí.
	GetForUpdate(id string) (*entity.Product, error)
	Update(product *entity.Product) error
	// UpdateStock actualiza solo el contador de stock (usado por el ledger).
	UpdateStock(productID string, stock int64) error
	List(filter ProductFilter, limit, offset int) ([]*entity.Product, error)
	Count(filter ProductFilter) (int64, error)
	Categories() ([]string, error)
	Stats() (*ProductStats, error)
	Delete(id string) error
}
