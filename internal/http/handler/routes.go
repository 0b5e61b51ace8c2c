package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"shopapi/internal/http/middleware"
	"shopapi/internal/service"
)

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	DB       *sql.DB
	Users    service.UserService
	Products service.ProductService
	Orders   service.OrderService
	Session  Session
	// Metrics is exposed at /metrics when set.
	Metrics prometheus.Gatherer
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/health", HealthCheck(d.DB))
	app.Get("/healthz", LivenessProbe())
	if d.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Metrics, promhttp.HandlerOpts{})))
	}

	authn := middleware.Authenticate(d.Session.Tokens, d.Users)
	admin := middleware.RequireAdmin()

	api := app.Group("/api")

	users := api.Group("/user")
	users.Post("/", RegisterUser(d.Users, d.Session))
	users.Post("/login", LoginUser(d.Users, d.Session))
	users.Post("/logout", LogoutUser(d.Session))
	users.Get("/profile", authn, GetProfile())
	users.Put("/profile", authn, UpdateProfile(d.Users))
	users.Get("/", authn, admin, ListUsers(d.Users))
	users.Get("/:id", authn, admin, GetUser(d.Users))
	users.Put("/:id", authn, admin, UpdateUser(d.Users))
	users.Delete("/:id", authn, admin, DeleteUser(d.Users))

	products := api.Group("/product")
	products.Get("/", ListProducts(d.Products))
	products.Get("/top", TopProducts(d.Products))
	products.Get("/:id", GetProduct(d.Products))
	products.Post("/", authn, admin, CreateProduct(d.Products))
	products.Put("/:id", authn, admin, UpdateProduct(d.Products))
	products.Delete("/:id", authn, admin, DeleteProduct(d.Products))
	products.Post("/:id/image", authn, admin, UploadProductImage(d.Products))
	products.Post("/:id/review", authn, CreateProductReview(d.Products))

	orders := api.Group("/order")
	orders.Post("/", authn, CreateOrder(d.Orders))
	orders.Get("/", authn, admin, ListOrders(d.Orders))
	orders.Get("/myorders", authn, MyOrders(d.Orders))
	orders.Get("/:id", authn, GetOrder(d.Orders))
	orders.Put("/:id/pay", authn, PayOrder(d.Orders))
	orders.Put("/:id/status", authn, admin, DeliverOrder(d.Orders))
}
