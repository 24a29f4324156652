package ledger_test

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/application/ledger"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// memStore almacén en memoria que respalda los fakes de ambos repositorios.
// El TxRunner de prueba toma un snapshot antes de cada transacción y lo
// restaura si el callback falla, emulando el rollback de PostgreSQL.
type memStore struct {
	products  map[string]*entity.Product
	movements map[string]*entity.StockMovement

	// error inyectable para simular un fallo a mitad de transacción
	failMovementCreate error
}

func newMemStore() *memStore {
	return &memStore{
		products:  make(map[string]*entity.Product),
		movements: make(map[string]*entity.StockMovement),
	}
}

func (s *memStore) snapshot() (map[string]*entity.Product, map[string]*entity.StockMovement) {
	products := make(map[string]*entity.Product, len(s.products))
	for id, p := range s.products {
		cp := *p
		products[id] = &cp
	}
	movements := make(map[string]*entity.StockMovement, len(s.movements))
	for id, m := range s.movements {
		cp := *m
		movements[id] = &cp
	}
	return products, movements
}

type memProductRepo struct{ s *memStore }

var _ repository.ProductRepository = (*memProductRepo)(nil)

func (r *memProductRepo) Create(p *entity.Product) error {
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memProductRepo) GetByCode(code string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.Code == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *memProductRepo) Update(p *entity.Product) error {
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *memProductRepo) UpdateStock(productID string, stock int64) error {
	if p, ok := r.s.products[productID]; ok {
		p.Stock = stock
	}
	return nil
}

func (r *memProductRepo) List(filter repository.ProductFilter, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return page(out, limit, offset), nil
}

func (r *memProductRepo) Count(filter repository.ProductFilter) (int64, error) {
	return int64(len(r.s.products)), nil
}

func (r *memProductRepo) Categories() ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, p := range r.s.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *memProductRepo) Stats() (*repository.ProductStats, error) {
	stats := &repository.ProductStats{TotalValue: decimal.Zero}
	for _, p := range r.s.products {
		stats.TotalProducts++
		if p.Status == entity.ProductStatusActive {
			stats.ActiveProducts++
		}
		if p.IsLowStock() {
			stats.LowStockProducts++
		}
		stats.TotalValue = stats.TotalValue.Add(p.InventoryValue())
	}
	return stats, nil
}

func (r *memProductRepo) Delete(id string) error {
	delete(r.s.products, id)
	for mid, m := range r.s.movements {
		if m.ProductID == id {
			delete(r.s.movements, mid)
		}
	}
	return nil
}

type memMovementRepo struct{ s *memStore }

var _ repository.StockMovementRepository = (*memMovementRepo)(nil)

func (r *memMovementRepo) Create(m *entity.StockMovement) error {
	if r.s.failMovementCreate != nil {
		return r.s.failMovementCreate
	}
	cp := *m
	r.s.movements[m.ID] = &cp
	return nil
}

func (r *memMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	m, ok := r.s.movements[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *memMovementRepo) Update(m *entity.StockMovement) error {
	cp := *m
	r.s.movements[m.ID] = &cp
	return nil
}

func (r *memMovementRepo) Delete(id string) error {
	delete(r.s.movements, id)
	return nil
}

func (r *memMovementRepo) List(filter repository.MovementFilter, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if filter.ProductID != "" && m.ProductID != filter.ProductID {
			continue
		}
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].MovementDate.After(out[j].MovementDate)
	})
	return page(out, limit, offset), nil
}

func (r *memMovementRepo) Count(filter repository.MovementFilter) (int64, error) {
	items, _ := r.List(filter, len(r.s.movements), 0)
	return int64(len(items)), nil
}

func (r *memMovementRepo) SumByProduct(productID string) (int64, error) {
	var sum int64
	for _, m := range r.s.movements {
		if m.ProductID == productID {
			sum += m.SignedQuantity()
		}
	}
	return sum, nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// memTxRunner ejecuta el callback contra el almacén en memoria con semántica
// todo-o-nada: si el callback devuelve error, el estado vuelve al snapshot.
type memTxRunner struct{ s *memStore }

var _ ledger.TxRunner = (*memTxRunner)(nil)

func (tx *memTxRunner) Run(_ context.Context, fn func(repository.ProductRepository, repository.StockMovementRepository) error) error {
	products, movements := tx.s.snapshot()
	err := fn(&memProductRepo{s: tx.s}, &memMovementRepo{s: tx.s})
	if err != nil {
		tx.s.products = products
		tx.s.movements = movements
		return err
	}
	return nil
}
