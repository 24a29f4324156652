package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// Options opciones del ledger.
type Options struct {
	// AllowNegativeStock permite que el stock quede por debajo de cero
	// (backorders). Por defecto toda operación que dejaría stock negativo
	// falla con InsufficientStockError y no escribe nada.
	AllowNegativeStock bool
}

// Ledger mantiene el invariante stock == suma con signo del journal.
// Cada mutación ejecuta el par contador + movimiento dentro de una transacción
// con bloqueo de fila (SELECT FOR UPDATE) sobre el producto.
type Ledger struct {
	txRunner TxRunner
	opts     Options
}

// New construye el ledger.
func New(txRunner TxRunner, opts Options) *Ledger {
	return &Ledger{txRunner: txRunner, opts: opts}
}

// MovementInput datos de un movimiento nuevo (AddStock / RemoveStock).
type MovementInput struct {
	Quantity     int64
	UnitPrice    *decimal.Decimal
	Notes        string
	Reference    string
	MovementDate *time.Time // nil = ahora; permite movimientos retroactivos
}

// ReviseInput campos editables de un movimiento existente. Nil = sin cambio.
type ReviseInput struct {
	Type         *entity.MovementType
	Quantity     *int64
	UnitPrice    *decimal.Decimal
	Notes        *string
	Reference    *string
	MovementDate *time.Time
}

// AddStock incrementa el stock del producto y registra un movimiento de entrada.
// Ambas escrituras van en la misma transacción.
func (l *Ledger) AddStock(ctx context.Context, productID string, in MovementInput) (*entity.StockMovement, error) {
	return l.apply(ctx, productID, entity.MovementTypeIn, in)
}

// RemoveStock decrementa el stock del producto y registra un movimiento de salida.
// Falla con InsufficientStockError si el resultado quedaría negativo (salvo
// que AllowNegativeStock esté activo), sin escritura parcial.
func (l *Ledger) RemoveStock(ctx context.Context, productID string, in MovementInput) (*entity.StockMovement, error) {
	return l.apply(ctx, productID, entity.MovementTypeOut, in)
}

func (l *Ledger) apply(ctx context.Context, productID string, typ entity.MovementType, in MovementInput) (*entity.StockMovement, error) {
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	var created *entity.StockMovement
	err := l.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movementRepo repository.StockMovementRepository,
	) error {
		product, err := productRepo.GetForUpdate(productID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}

		newStock := product.Stock + typ.Sign()*in.Quantity
		if newStock < 0 && !l.opts.AllowNegativeStock {
			return &domain.InsufficientStockError{Available: product.Stock, Unit: product.Unit}
		}
		if err := productRepo.UpdateStock(product.ID, newStock); err != nil {
			return err
		}

		now := time.Now()
		date := now
		if in.MovementDate != nil {
			date = *in.MovementDate
		}
		mov := &entity.StockMovement{
			ID:           uuid.New().String(),
			ProductID:    product.ID,
			Type:         typ,
			Quantity:     in.Quantity,
			UnitPrice:    in.UnitPrice,
			Notes:        in.Notes,
			Reference:    in.Reference,
			MovementDate: date,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := movementRepo.Create(mov); err != nil {
			return err
		}
		created = mov
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ReviseMovement edita un movimiento existente y ajusta el stock del producto
// por la diferencia. El delta se calcula en general como cantidad con signo
// nueva menos la anterior, lo que cubre también el cambio de dirección
// (in <-> out). Movimiento y contador se persisten juntos.
func (l *Ledger) ReviseMovement(ctx context.Context, movementID string, in ReviseInput) (*entity.StockMovement, error) {
	if in.Quantity != nil && *in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.Type != nil && !in.Type.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	var revised *entity.StockMovement
	err := l.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movementRepo repository.StockMovementRepository,
	) error {
		mov, err := movementRepo.GetByID(movementID)
		if err != nil {
			return err
		}
		if mov == nil {
			return domain.ErrNotFound
		}
		product, err := productRepo.GetForUpdate(mov.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}

		newType := mov.Type
		if in.Type != nil {
			newType = *in.Type
		}
		newQty := mov.Quantity
		if in.Quantity != nil {
			newQty = *in.Quantity
		}

		delta := newType.Sign()*newQty - mov.SignedQuantity()
		newStock := product.Stock + delta
		if newStock < 0 && !l.opts.AllowNegativeStock {
			return &domain.InsufficientStockError{Available: product.Stock, Unit: product.Unit}
		}
		if delta != 0 {
			if err := productRepo.UpdateStock(product.ID, newStock); err != nil {
				return err
			}
		}

		mov.Type = newType
		mov.Quantity = newQty
		if in.UnitPrice != nil {
			mov.UnitPrice = in.UnitPrice
		}
		if in.Notes != nil {
			mov.Notes = *in.Notes
		}
		if in.Reference != nil {
			mov.Reference = *in.Reference
		}
		if in.MovementDate != nil {
			mov.MovementDate = *in.MovementDate
		}
		mov.UpdatedAt = time.Now()
		if err := movementRepo.Update(mov); err != nil {
			return err
		}
		revised = mov
		return nil
	})
	if err != nil {
		return nil, err
	}
	return revised, nil
}

// DeleteMovement elimina un movimiento revirtiendo su efecto sobre el stock:
// borrar una entrada resta, borrar una salida suma. Revertir una entrada
// puede dejar el stock negativo, así que aplica la misma guarda que una salida.
func (l *Ledger) DeleteMovement(ctx context.Context, movementID string) error {
	return l.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movementRepo repository.StockMovementRepository,
	) error {
		mov, err := movementRepo.GetByID(movementID)
		if err != nil {
			return err
		}
		if mov == nil {
			return domain.ErrNotFound
		}
		product, err := productRepo.GetForUpdate(mov.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}

		newStock := product.Stock - mov.SignedQuantity()
		if newStock < 0 && !l.opts.AllowNegativeStock {
			return &domain.InsufficientStockError{Available: product.Stock, Unit: product.Unit}
		}
		if err := productRepo.UpdateStock(product.ID, newStock); err != nil {
			return err
		}
		return movementRepo.Delete(mov.ID)
	})
}

// ReconcileResult resultado de una reconciliación contador vs journal.
type ReconcileResult struct {
	Drift int64 // contador - suma del journal antes de reparar (0 = invariante ok)
	Stock int64 // stock tras la reconciliación
}

// Reconcile recalcula el stock desde la suma del journal bajo el bloqueo de
// fila y repara el contador si hay deriva.
func (l *Ledger) Reconcile(ctx context.Context, productID string) (*ReconcileResult, error) {
	var res ReconcileResult
	err := l.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movementRepo repository.StockMovementRepository,
	) error {
		product, err := productRepo.GetForUpdate(productID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		sum, err := movementRepo.SumByProduct(product.ID)
		if err != nil {
			return err
		}
		res.Drift = product.Stock - sum
		res.Stock = sum
		if res.Drift == 0 {
			return nil
		}
		return productRepo.UpdateStock(product.ID, sum)
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}
