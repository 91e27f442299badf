// Package routes wires controllers into the named route table.
package routes

import (
	"github.com/shashiranjanraj/vampware/app/controllers"
	"github.com/shashiranjanraj/vampware/pkg/auth"
	"github.com/shashiranjanraj/vampware/pkg/ctx"
	"github.com/shashiranjanraj/vampware/pkg/middleware"
	"github.com/shashiranjanraj/vampware/pkg/router"
)

// Controllers bundles everything the route table mounts.
type Controllers struct {
	Users    *controllers.UserController
	Products *controllers.ProductController
	Orders   *controllers.OrderController
}

// Register mounts the API route table on r.
func Register(r *router.Router, c Controllers, tokens *auth.Manager) {
	authRequired := router.Middleware(middleware.RequireAuth(tokens))

	// Auth
	r.Post("/register", "auth.register", ctx.Wrap(c.Users.Register))
	r.Post("/login", "auth.login", ctx.Wrap(c.Users.Login))

	// Users
	r.Get("/users", "users.index", ctx.Wrap(c.Users.Index))
	r.Get("/users/me", "users.me", ctx.Wrap(c.Users.Me), authRequired)
	r.Get("/users/{id}", "users.show", ctx.Wrap(c.Users.Show))
	r.Put("/users/{id}", "users.update", ctx.Wrap(c.Users.Update), authRequired)
	r.Delete("/users/{id}", "users.delete", ctx.Wrap(c.Users.Delete), authRequired)
	r.Get("/users/{id}/order_stats", "users.order_stats", ctx.Wrap(c.Users.Stats))
	r.Get("/users/{id}/orders", "users.orders", ctx.Wrap(c.Orders.ForUser))

	// Products
	r.Get("/products", "products.index", ctx.Wrap(c.Products.Index))
	r.Post("/products", "products.store", ctx.Wrap(c.Products.Store))
	r.Delete("/products/delete_multiple", "products.delete_multiple", ctx.Wrap(c.Products.DeleteMultiple))
	r.Get("/products/{id}", "products.show", ctx.Wrap(c.Products.Show))
	r.Put("/products/{id}", "products.update", ctx.Wrap(c.Products.Update))
	r.Delete("/products/{id}", "products.delete", ctx.Wrap(c.Products.Delete))
	r.Get("/products/{id}/orders", "products.orders", ctx.Wrap(c.Products.Orders))
	r.Get("/products/{id}/users", "products.users", ctx.Wrap(c.Products.Users))

	// Orders
	r.Get("/orders", "orders.index", ctx.Wrap(c.Orders.Index))
	r.Post("/orders", "orders.store", ctx.Wrap(c.Orders.Store))
	r.Get("/orders/filter", "orders.filter", ctx.Wrap(c.Orders.Filter))
	r.Get("/orders/user/{id}", "orders.for_user", ctx.Wrap(c.Orders.ForUser))
	r.Get("/orders/{id}", "orders.show", ctx.Wrap(c.Orders.Show))
	r.Put("/orders/{id}", "orders.update", ctx.Wrap(c.Orders.Update))
	r.Delete("/orders/{id}", "orders.delete", ctx.Wrap(c.Orders.Delete))
	r.Get("/orders/{id}/products", "orders.products", ctx.Wrap(c.Orders.Products))
	r.Get("/orders/{id}/total", "orders.total", ctx.Wrap(c.Orders.Total))
	r.Put("/orders/{id}/add_product/{product_id}", "orders.add_product", ctx.Wrap(c.Orders.AddProduct))
	r.Delete("/orders/{id}/remove_product/{product_id}", "orders.remove_product", ctx.Wrap(c.Orders.RemoveProduct))
}
