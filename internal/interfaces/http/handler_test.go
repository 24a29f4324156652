package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/ledger"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	apihttp "github.com/jhoicas/almacen-api/internal/interfaces/http"
)

// testApp levanta la app fiber completa sobre repositorios en memoria.
func testApp(t *testing.T) (*fiber.App, *store) {
	t.Helper()
	s := &store{
		products:  make(map[string]*entity.Product),
		movements: make(map[string]*entity.StockMovement),
	}
	l := ledger.New(&txRunner{s: s}, ledger.Options{})
	app := fiber.New()
	apihttp.Router(app, apihttp.RouterDeps{
		ProductUC:  usecase.NewProductUseCase(&productRepo{s: s}, &movementRepo{s: s}, &txRunner{s: s}),
		MovementUC: usecase.NewMovementUseCase(&movementRepo{s: s}),
		Ledger:     l,
	})
	return app, s
}

func seed(s *store, id string, stock int64) {
	s.products[id] = &entity.Product{
		ID:       id,
		Code:     "PRD-" + id,
		Name:     "Producto " + id,
		Category: "general",
		Price:    decimal.RequireFromString("1000"),
		Stock:    stock,
		MinStock: 5,
		Unit:     "unidad",
		Status:   entity.ProductStatusActive,
	}
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var out map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), "cuerpo: %s", raw)
	}
	return resp, out
}

func TestProductos_CrearYConsultar(t *testing.T) {
	app, _ := testApp(t)

	resp, body := doJSON(t, app, fiber.MethodPost, "/api/products", fiber.Map{
		"code":      "LAP-001",
		"name":      "Laptop HP",
		"category":  "Electrónica",
		"price":     "2500000",
		"stock":     10,
		"min_stock": 2,
		"unit":      "unidad",
		"status":    "active",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	id := body["id"].(string)

	// código duplicado
	resp, body = doJSON(t, app, fiber.MethodPost, "/api/products", fiber.Map{
		"code": "LAP-001", "name": "Otra", "category": "x", "unit": "unidad", "status": "active",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", body["code"])

	// detalle con movimientos recientes (incluye la apertura)
	resp, body = doJSON(t, app, fiber.MethodGet, "/api/products/"+id, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(10), body["stock"])
	assert.Len(t, body["recent_movements"], 1)

	resp, _ = doJSON(t, app, fiber.MethodGet, "/api/products/no-existe", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestStock_EntradaYSalida(t *testing.T) {
	app, s := testApp(t)
	seed(s, "p1", 10)

	resp, body := doJSON(t, app, fiber.MethodPost, "/api/products/p1/stock/add", fiber.Map{
		"quantity":  15,
		"reference": "OC-1",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "in", body["type"])
	assert.Equal(t, float64(15), body["quantity"])
	assert.Equal(t, int64(25), s.products["p1"].Stock)

	resp, body = doJSON(t, app, fiber.MethodPost, "/api/products/p1/stock/remove", fiber.Map{
		"quantity": 25,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "out", body["type"])
	assert.Equal(t, int64(0), s.products["p1"].Stock)
}

func TestStock_SalidaInsuficiente(t *testing.T) {
	app, s := testApp(t)
	seed(s, "p1", 3)

	resp, body := doJSON(t, app, fiber.MethodPost, "/api/products/p1/stock/remove", fiber.Map{
		"quantity": 4,
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])
	assert.Contains(t, body["message"], "disponible 3")
	assert.Equal(t, int64(3), s.products["p1"].Stock)
}

func TestStock_CantidadInvalida(t *testing.T) {
	app, s := testApp(t)
	seed(s, "p1", 3)

	resp, body := doJSON(t, app, fiber.MethodPost, "/api/products/p1/stock/add", fiber.Map{
		"quantity": 0,
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body["code"])
}

func TestStock_ProductoInexistente(t *testing.T) {
	app, _ := testApp(t)

	resp, _ := doJSON(t, app, fiber.MethodPost, "/api/products/nope/stock/add", fiber.Map{
		"quantity": 1,
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestMovimientos_EditarYBorrar(t *testing.T) {
	app, s := testApp(t)
	seed(s, "p1", 0)

	_, body := doJSON(t, app, fiber.MethodPost, "/api/products/p1/stock/add", fiber.Map{
		"quantity": 100,
	})
	movID := body["id"].(string)

	// corregir la cantidad: el stock se ajusta por la diferencia
	resp, body := doJSON(t, app, fiber.MethodPut, "/api/stock-movements/"+movID, fiber.Map{
		"quantity": 60,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(60), body["quantity"])
	assert.Equal(t, int64(60), s.products["p1"].Stock)

	// borrar revierte el efecto
	resp, _ = doJSON(t, app, fiber.MethodDelete, "/api/stock-movements/"+movID, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, int64(0), s.products["p1"].Stock)
}

func TestMovimientos_Listar(t *testing.T) {
	app, s := testApp(t)
	seed(s, "p1", 0)
	seed(s, "p2", 0)

	doJSON(t, app, fiber.MethodPost, "/api/products/p1/stock/add", fiber.Map{"quantity": 5})
	doJSON(t, app, fiber.MethodPost, "/api/products/p2/stock/add", fiber.Map{"quantity": 7})

	resp, body := doJSON(t, app, fiber.MethodGet, "/api/stock-movements?product_id=p1", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, body["items"], 1)

	resp, body = doJSON(t, app, fiber.MethodGet, "/api/stock-movements?type=caducado", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body["code"])
}

func TestReconcile(t *testing.T) {
	app, s := testApp(t)
	seed(s, "p1", 0)
	doJSON(t, app, fiber.MethodPost, "/api/products/p1/stock/add", fiber.Map{"quantity": 10})

	// deriva inyectada directamente sobre el contador
	s.products["p1"].Stock = 13

	resp, body := doJSON(t, app, fiber.MethodPost, "/api/products/p1/reconcile", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(3), body["drift"])
	assert.Equal(t, float64(10), body["stock"])
	assert.Equal(t, int64(10), s.products["p1"].Stock)
}

// --- fakes en memoria ---

type store struct {
	products  map[string]*entity.Product
	movements map[string]*entity.StockMovement
}

type productRepo struct{ s *store }

var _ repository.ProductRepository = (*productRepo)(nil)

func (r *productRepo) Create(p *entity.Product) error {
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *productRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *productRepo) GetByCode(code string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.Code == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *productRepo) GetForUpdate(id string) (*entity.Product, error) { return r.GetByID(id) }

func (r *productRepo) Update(p *entity.Product) error {
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *productRepo) UpdateStock(productID string, stock int64) error {
	if p, ok := r.s.products[productID]; ok {
		p.Stock = stock
	}
	return nil
}

func (r *productRepo) List(f repository.ProductFilter, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *productRepo) Count(f repository.ProductFilter) (int64, error) {
	return int64(len(r.s.products)), nil
}

func (r *productRepo) Categories() ([]string, error) { return nil, nil }

func (r *productRepo) Stats() (*repository.ProductStats, error) {
	return &repository.ProductStats{TotalValue: decimal.Zero}, nil
}

func (r *productRepo) Delete(id string) error {
	delete(r.s.products, id)
	return nil
}

type movementRepo struct{ s *store }

var _ repository.StockMovementRepository = (*movementRepo)(nil)

func (r *movementRepo) Create(m *entity.StockMovement) error {
	cp := *m
	r.s.movements[m.ID] = &cp
	return nil
}

func (r *movementRepo) GetByID(id string) (*entity.StockMovement, error) {
	m, ok := r.s.movements[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *movementRepo) Update(m *entity.StockMovement) error {
	cp := *m
	r.s.movements[m.ID] = &cp
	return nil
}

func (r *movementRepo) Delete(id string) error {
	delete(r.s.movements, id)
	return nil
}

func (r *movementRepo) List(f repository.MovementFilter, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if f.ProductID != "" && m.ProductID != f.ProductID {
			continue
		}
		if f.Type != "" && m.Type != f.Type {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].MovementDate.After(out[j].MovementDate)
	})
	return out, nil
}

func (r *movementRepo) Count(f repository.MovementFilter) (int64, error) {
	items, _ := r.List(f, 0, 0)
	return int64(len(items)), nil
}

func (r *movementRepo) SumByProduct(productID string) (int64, error) {
	var sum int64
	for _, m := range r.s.movements {
		if m.ProductID == productID {
			sum += m.SignedQuantity()
		}
	}
	return sum, nil
}

type txRunner struct{ s *store }

func (tx *txRunner) Run(_ context.Context, fn func(repository.ProductRepository, repository.StockMovementRepository) error) error {
	return fn(&productRepo{s: tx.s}, &movementRepo{s: tx.s})
}
