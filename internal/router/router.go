package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/custdir/api/handler"
)

type Handlers struct {
	Customer *apiHandler.CustomerHandler
	Backup   *apiHandler.BackupHandler
	Health   *apiHandler.HealthHandler
}

// New registers the directory API. /health stays public; everything under
// /api/v1 goes through authMiddleware.
func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	api := r.Group("/api/v1")

	api.GET("/customers", authMiddleware(handlers.Customer.List))
	api.POST("/customers", authMiddleware(handlers.Customer.Create))
	api.GET("/customers/{id}", authMiddleware(handlers.Customer.Get))
	api.PUT("/customers/{id}", authMiddleware(handlers.Customer.Update))
	api.DELETE("/customers/{id}", authMiddleware(handlers.Customer.Delete))
	api.POST("/customers/{id}/purchases", authMiddleware(handlers.Customer.RecordPurchase))

	api.GET("/recent-customers", authMiddleware(handlers.Customer.Recent))
	api.GET("/lookup/phone/{phone}", authMiddleware(handlers.Customer.ByPhone))

	api.GET("/backup", authMiddleware(handlers.Backup.Export))
	api.POST("/backup/import", authMiddleware(handlers.Backup.Import))

	return r
}
