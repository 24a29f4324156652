package usecase_test

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// fakeStore respaldo en memoria de los fakes de repositorio de este paquete.
type fakeStore struct {
	products  map[string]*entity.Product
	movements map[string]*entity.StockMovement
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products:  make(map[string]*entity.Product),
		movements: make(map[string]*entity.StockMovement),
	}
}

type fakeProductRepo struct{ s *fakeStore }

var _ repository.ProductRepository = (*fakeProductRepo)(nil)

func (r *fakeProductRepo) Create(p *entity.Product) error {
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) GetByCode(code string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.Code == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *fakeProductRepo) Update(p *entity.Product) error {
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) UpdateStock(productID string, stock int64) error {
	if p, ok := r.s.products[productID]; ok {
		p.Stock = stock
	}
	return nil
}

func (r *fakeProductRepo) matches(p *entity.Product, f repository.ProductFilter) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.LowStock && !p.IsLowStock() {
		return false
	}
	return true
}

func (r *fakeProductRepo) List(filter repository.ProductFilter, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		if r.matches(p, filter) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeProductRepo) Count(filter repository.ProductFilter) (int64, error) {
	var n int64
	for _, p := range r.s.products {
		if r.matches(p, filter) {
			n++
		}
	}
	return n, nil
}

func (r *fakeProductRepo) Categories() ([]string, error) {
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

func (r *fakeProductRepo) Stats() (*repository.ProductStats, error) {
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

func (r *fakeProductRepo) Delete(id string) error {
	delete(r.s.products, id)
	for mid, m := range r.s.movements {
		if m.ProductID == id {
			delete(r.s.movements, mid)
		}
	}
	return nil
}

type fakeMovementRepo struct{ s *fakeStore }

var _ repository.StockMovementRepository = (*fakeMovementRepo)(nil)

func (r *fakeMovementRepo) Create(m *entity.StockMovement) error {
	cp := *m
	r.s.movements[m.ID] = &cp
	return nil
}

func (r *fakeMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	m, ok := r.s.movements[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMovementRepo) Update(m *entity.StockMovement) error {
	cp := *m
	r.s.movements[m.ID] = &cp
	return nil
}

func (r *fakeMovementRepo) Delete(id string) error {
	delete(r.s.movements, id)
	return nil
}

func (r *fakeMovementRepo) List(filter repository.MovementFilter, limit, offset int) ([]*entity.StockMovement, error) {
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
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeMovementRepo) Count(filter repository.MovementFilter) (int64, error) {
	var n int64
	for _, m := range r.s.movements {
		if filter.ProductID != "" && m.ProductID != filter.ProductID {
			continue
		}
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		n++
	}
	return n, nil
}

func (r *fakeMovementRepo) SumByProduct(productID string) (int64, error) {
	var sum int64
	for _, m := range r.s.movements {
		if m.ProductID == productID {
			sum += m.SignedQuantity()
		}
	}
	return sum, nil
}

// fakeTxRunner ejecuta el callback directamente contra el almacén; los casos
// de uso de este paquete no dependen del rollback.
type fakeTxRunner struct{ s *fakeStore }

func (tx *fakeTxRunner) Run(_ context.Context, fn func(repository.ProductRepository, repository.StockMovementRepository) error) error {
	return fn(&fakeProductRepo{s: tx.s}, &fakeMovementRepo{s: tx.s})
}
