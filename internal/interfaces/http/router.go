package http

import (
	"github.com/gofiber/fiber/v2"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Users    Users
	Catalog  Catalog
	Comandas Comandas
	JWT      JWTConfig
}

// Router registra las rutas del contrato REST de comandas.
func Router(app *fiber.App, deps RouterDeps) {
	// Auth (público)
	authGroup := app.Group("/auth")
	authHandler := NewAuthHandler(deps.Users, deps.JWT)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	auth := AuthMiddleware(deps.JWT.Secret)

	// Comandas
	comandas := app.Group("/comandas", auth)
	comandaHandler := NewComandaHandler(deps.Comandas)
	comandas.Get("/", comandaHandler.List)
	comandas.Post("/", comandaHandler.Create)
	comandas.Get("/:id", comandaHandler.GetByID)
	comandas.Post("/:id/produtos", comandaHandler.AddProduct)
	comandas.Put("/:id/taxa", comandaHandler.SetServiceFee)
	comandas.Put("/:id/fechar", comandaHandler.Close)

	// Products
	products := app.Group("/products", auth)
	productHandler := NewProductHandler(deps.Catalog)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Delete("/:id", productHandler.Delete)
}
