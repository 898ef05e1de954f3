package http

import (
	_ "github.com/Sidharth-Chirathazha/order-app-backend/docs" // Импорт сгенерированных файлов
	"github.com/Sidharth-Chirathazha/order-app-backend/internal/usecase"
	"github.com/Sidharth-Chirathazha/order-app-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(prUC usecase.ProductUC, orUC usecase.OrderUC) {
	r.router.Use(middleware.StripSlashes)

	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"), // ссылка на JSON
	))

	prHandler := NewProductHandler(prUC, r.logger)
	orHandler := NewOrderHandler(orUC, r.logger)

	registerProductRoutes(r.router, prHandler)
	registerOrderRoutes(r.router, orHandler)
}

func registerProductRoutes(router chi.Router, prHandler *ProductHandler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Get("/", prHandler.listProducts)
		pr.Post("/", prHandler.createProduct)
	})
}

func registerOrderRoutes(router chi.Router, orHandler *OrderHandler) {
	router.Route("/orders", func(or chi.Router) {
		or.Post("/", orHandler.createOrder)
		or.Get("/{orderID}", orHandler.getOrder)
	})
	router.Post("/confirm-order/{orderID}", orHandler.confirmOrder)
}
