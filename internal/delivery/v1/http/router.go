package http

import (
	"github.com/go-chi/chi/v5"
	_ "github.com/karthickgaurdian/AI-E-commerce-Assistant/docs" // Импорт сгенерированных файлов
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/internal/usecase"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/pkg/logger"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(recUC usecase.RecommendationUC, catalogUC usecase.CatalogUC) {
	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"), // ссылка на JSON
	))

	r.router.Route("/api/v1", func(v1 chi.Router) {
		recHandler := NewRecommendationHandler(recUC, r.logger)
		prHandler := NewProductHandler(catalogUC, r.logger)

		registerUserRoutes(v1, recHandler, prHandler)
		registerProductRoutes(v1, recHandler, prHandler)
	})
}

func registerUserRoutes(router chi.Router, recHandler *RecommendationHandler, prHandler *ProductHandler) {
	router.Route("/users/{user_id}", func(u chi.Router) {
		u.Get("/recommendations", recHandler.getRecommendations)
		u.Post("/purchases", prHandler.recordPurchase)
	})
}

func registerProductRoutes(router chi.Router, recHandler *RecommendationHandler, prHandler *ProductHandler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Post("/", prHandler.registerNewProduct)
		pr.Get("/", prHandler.getProducts)
		pr.Put("/{id}/embedding", recHandler.updateProductEmbedding)
	})
}
