package repository

import (
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// MovementFilter filtros del listado del journal.
type MovementFilter struct {
	ProductID string
	Type      entity.MovementType
}

// StockMovementRepository define el puerto de persistencia para el journal de movimientos (DIP).
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	Update(movement *entity.StockMovement) error
	Delete(id string) error
	List(filter MovementFilter, limit, offset int) ([]*entity.StockMovement, error)
	Count(filter MovementFilter) (int64, error)
	// SumByProduct suma con signo de todos los movimientos de un producto
	// (+quantity entradas, -quantity salidas). Es la fuente de verdad del stock.
	SumByProduct(productID string) (int64, error)
}
