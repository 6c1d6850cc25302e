package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Router aggregates the API handlers into one route registrar plus the
// health endpoint.
type Router struct {
	models   *ModelsHandler
	analysis *AnalysisHandler
	data     *DataHandler
	health   func() error
}

func NewRouter(models *ModelsHandler, analysis *AnalysisHandler, data *DataHandler) *Router {
	return &Router{models: models, analysis: analysis, data: data}
}

// SetHealthCheck installs an infrastructure probe for /healthz.
func (r *Router) SetHealthCheck(check func() error) { r.health = check }

func (r *Router) RegisterRoutes(e *echo.Echo) {
	r.models.RegisterRoutes(e)
	r.analysis.RegisterRoutes(e)
	r.data.RegisterRoutes(e)

	e.GET("/healthz", func(c echo.Context) error {
		if r.health != nil {
			if err := r.health(); err != nil {
				return c.JSON(http.StatusServiceUnavailable, map[string]string{
					"status": "degraded",
					"error":  err.Error(),
				})
			}
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}
