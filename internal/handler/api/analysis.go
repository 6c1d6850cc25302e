package api

import (
	"context"

	models "TSLab/internal/domain/models"
	"TSLab/internal/usecase"
	xhttp "TSLab/pkg/http"
	xlogger "TSLab/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AnalysisHandler exposes the statistical diagnostic endpoints.
type AnalysisHandler struct {
	logger   *xlogger.Logger
	analyzer *usecase.Analyzer
}

func NewAnalysisHandler(logger *xlogger.Logger, analyzer *usecase.Analyzer) *AnalysisHandler {
	return &AnalysisHandler{logger: logger, analyzer: analyzer}
}

func (h *AnalysisHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/analysis")
	g.POST("/stationarity", h.diagnostic("stationarity", func(ctx context.Context, req *models.AnalysisRequest) (any, error) {
		return h.analyzer.Stationarity(ctx, req)
	}))
	g.POST("/seasonality", h.diagnostic("seasonality", func(ctx context.Context, req *models.AnalysisRequest) (any, error) {
		return h.analyzer.Seasonality(ctx, req)
	}))
	g.POST("/decompose", h.diagnostic("decompose", func(ctx context.Context, req *models.AnalysisRequest) (any, error) {
		return h.analyzer.Decompose(ctx, req)
	}))
	g.POST("/acf-pacf", h.diagnostic("acf-pacf", func(ctx context.Context, req *models.AnalysisRequest) (any, error) {
		return h.analyzer.Autocorrelation(ctx, req)
	}))
	g.POST("/rolling-stats", h.diagnostic("rolling-stats", func(ctx context.Context, req *models.AnalysisRequest) (any, error) {
		return h.analyzer.Rolling(ctx, req)
	}))
	g.POST("/outliers", h.diagnostic("outliers", func(ctx context.Context, req *models.AnalysisRequest) (any, error) {
		return h.analyzer.Outliers(ctx, req)
	}))
	g.POST("/suggestions", h.diagnostic("suggestions", func(ctx context.Context, req *models.AnalysisRequest) (any, error) {
		return h.analyzer.Suggest(ctx, req)
	}))
	g.POST("/comprehensive", h.diagnostic("comprehensive", func(ctx context.Context, req *models.AnalysisRequest) (any, error) {
		return h.analyzer.Comprehensive(ctx, req)
	}))
}

// diagnostic wraps one analyzer call with the shared bind/validate/error
// handling, since every endpoint takes the same request shape.
func (h *AnalysisHandler) diagnostic(name string, run func(context.Context, *models.AnalysisRequest) (any, error)) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := &models.AnalysisRequest{}
		if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
			return xhttp.BadRequestResponse(c, verr)
		}

		res, err := run(c.Request().Context(), req)
		if err != nil {
			h.logger.Error("analysis usecase error",
				xlogger.String("diagnostic", name),
				xlogger.Error(err))
			return xhttp.AppErrorResponse(c, toAppError(err))
		}
		return xhttp.SuccessResponse(c, res)
	}
}
