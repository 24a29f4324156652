package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/ledger"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. El stock no se edita
// directamente: el saldo inicial entra como movimiento de apertura y los
// cambios posteriores pasan por el ledger.
type ProductUseCase struct {
	repo     repository.ProductRepository
	movRepo  repository.StockMovementRepository
	txRunner ledger.TxRunner
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	repo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	txRunner ledger.TxRunner,
) *ProductUseCase {
	return &ProductUseCase{repo: repo, movRepo: movRepo, txRunner: txRunner}
}

// Create crea un producto. Si Stock > 0 registra además un movimiento de
// entrada de apertura en la misma transacción, para que el contador sea igual
// a la suma del journal desde el primer momento.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Code == "" || in.Name == "" || in.Category == "" || in.Unit == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Price.IsNegative() || in.Stock < 0 || in.MinStock < 0 {
		return nil, domain.ErrInvalidInput
	}
	status := entity.ProductStatus(in.Status)
	if !status.Valid() {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByCode(in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		Code:        in.Code,
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Price:       in.Price,
		Stock:       in.Stock,
		MinStock:    in.MinStock,
		Unit:        in.Unit,
		Supplier:    in.Supplier,
		Location:    in.Location,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movementRepo repository.StockMovementRepository,
	) error {
		if err := productRepo.Create(product); err != nil {
			return err
		}
		if in.Stock == 0 {
			return nil
		}
		opening := &entity.StockMovement{
			ID:           uuid.New().String(),
			ProductID:    product.ID,
			Type:         entity.MovementTypeIn,
			Quantity:     in.Stock,
			Notes:        "saldo inicial",
			MovementDate: now,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return movementRepo.Create(opening)
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// Detail obtiene un producto con sus últimos movimientos.
func (uc *ProductUseCase) Detail(id string) (*dto.ProductDetailResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	movements, err := uc.movRepo.List(repository.MovementFilter{ProductID: id}, 20, 0)
	if err != nil {
		return nil, err
	}
	out := &dto.ProductDetailResponse{
		ProductResponse: *toProductResponse(product),
		RecentMovements: make([]dto.MovementResponse, 0, len(movements)),
	}
	for _, m := range movements {
		out.RecentMovements = append(out.RecentMovements, *ToMovementResponse(m))
	}
	return out, nil
}

// Update actualiza los campos descriptivos de un producto. No permite
// modificar Stock (se maneja vía movimientos).
func (uc *ProductUseCase) Update(id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.Price = *in.Price
	}
	if in.MinStock != nil {
		if *in.MinStock < 0 {
			return nil, domain.ErrInvalidInput
		}
		product.MinStock = *in.MinStock
	}
	if in.Unit != nil {
		product.Unit = *in.Unit
	}
	if in.Supplier != nil {
		product.Supplier = *in.Supplier
	}
	if in.Location != nil {
		product.Location = *in.Location
	}
	if in.Status != nil {
		status := entity.ProductStatus(*in.Status)
		if !status.Valid() {
			return nil, domain.ErrInvalidInput
		}
		product.Status = status
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos con filtros y paginación.
func (uc *ProductUseCase) List(filter repository.ProductFilter, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(filter, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.Count(filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Categories lista las categorías existentes en el catálogo.
func (uc *ProductUseCase) Categories() ([]string, error) {
	return uc.repo.Categories()
}

// Stats agregados del catálogo (totales, stock bajo, valor del inventario).
// Se recalculan en cada consulta, sin caché.
func (uc *ProductUseCase) Stats() (*dto.StatsResponse, error) {
	stats, err := uc.repo.Stats()
	if err != nil {
		return nil, err
	}
	return &dto.StatsResponse{
		TotalProducts:    stats.TotalProducts,
		ActiveProducts:   stats.ActiveProducts,
		LowStockProducts: stats.LowStockProducts,
		TotalValue:       stats.TotalValue,
	}, nil
}

// Delete elimina un producto. La BD elimina en cascada su journal.
func (uc *ProductUseCase) Delete(id string) error {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		Code:        p.Code,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		Stock:       p.Stock,
		MinStock:    p.MinStock,
		Unit:        p.Unit,
		Supplier:    p.Supplier,
		Location:    p.Location,
		Status:      string(p.Status),
		IsLowStock:  p.IsLowStock(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
