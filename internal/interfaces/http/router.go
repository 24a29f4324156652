package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/ledger"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC  *usecase.ProductUseCase
	MovementUC *usecase.MovementUseCase
	Ledger     *ledger.Ledger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Products (catálogo)
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/categories", productHandler.Categories)
	products.Get("/stats", productHandler.Stats)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Stock (mutaciones del ledger sobre un producto)
	stockHandler := NewStockHandler(deps.Ledger)
	products.Post("/:id/stock/add", stockHandler.AddStock)
	products.Post("/:id/stock/remove", stockHandler.RemoveStock)
	products.Post("/:id/reconcile", stockHandler.Reconcile)

	// Stock movements (journal)
	movements := api.Group("/stock-movements")
	movementHandler := NewMovementHandler(deps.MovementUC, deps.Ledger)
	movements.Get("/", movementHandler.List)
	movements.Get("/:id", movementHandler.GetByID)
	movements.Put("/:id", movementHandler.Update)
	movements.Delete("/:id", movementHandler.Delete)
}
