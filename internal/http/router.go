package api

import (
	"log"
	stdhttp "net/http"

	intconfig "carreras/internal/config"
	h "carreras/internal/http/handlers"
	"carreras/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	_ = env

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS())

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "ruta no encontrada",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)
		api.GET("/routes", h.Routes)

		// Catálogo
		providers := api.Group("/providers")
		providers.GET("", h.GetProviders)
		providers.POST("", h.CreateProvider)
		providers.DELETE("/:id", h.DeleteProvider)

		units := api.Group("/units")
		units.GET("", h.GetUnits)
		units.POST("", h.CreateUnit)
		units.DELETE("/:id", h.DeleteUnit)

		// Carreras
		rides := api.Group("/rides")
		rides.GET("", h.GetRides)
		rides.POST("", h.CreateRide)
		rides.PATCH("/:id/amount", h.UpdateRideAmount)
		rides.DELETE("/:id", h.DeleteRide)

		// Sesiones de reporte semanal
		reports := api.Group("/report-sessions")
		reports.POST("", h.CreateReportSession)
		reports.GET("/:id", h.GetReportSession)
		reports.PUT("/:id/range", h.UpdateReportSessionRange)
		reports.DELETE("/:id", h.DeleteReportSession)
		reports.GET("/:id/report", h.GetSessionReport)
		reports.GET("/:id/units/:key", h.GetSessionUnitDetail)
		reports.GET("/:id/providers/:key", h.GetSessionProviderDetail)
		reports.POST("/:id/edit", h.BeginSessionEdit)
		reports.DELETE("/:id/edit", h.CancelSessionEdit)
		reports.PUT("/:id/edit", h.CommitSessionEdit)
		reports.PATCH("/:id/rides/:rideId/amount", h.UpdateSessionRideAmount)
		reports.DELETE("/:id/rides/:rideId", h.DeleteSessionRide)
		reports.GET("/:id/export/:kind/:key", h.ExportSessionPDF)
	}

	h.SetRouter(r)
	return r
}
