package api

import (
	models "TSLab/internal/domain/models"
	"TSLab/internal/usecase"
	xhttp "TSLab/pkg/http"
	xlogger "TSLab/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ModelsHandler exposes the forecasting endpoints.
type ModelsHandler struct {
	logger     *xlogger.Logger
	forecaster *usecase.Forecaster
}

func NewModelsHandler(logger *xlogger.Logger, forecaster *usecase.Forecaster) *ModelsHandler {
	return &ModelsHandler{logger: logger, forecaster: forecaster}
}

func (h *ModelsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/models")
	g.GET("", h.Available)
	g.POST("/fit", h.Fit)
	g.POST("/compare", h.Compare)
	g.POST("/auto-select", h.AutoSelect)
	g.POST("/validate", h.Validate)
}

func (h *ModelsHandler) Available(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.forecaster.AvailableModels())
}

func (h *ModelsHandler) Fit(c echo.Context) error {
	req := &models.FitRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.forecaster.Fit(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("fit usecase error",
			xlogger.String("model_type", req.Config.ModelType),
			xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *ModelsHandler) Compare(c echo.Context) error {
	req := &models.CompareRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.forecaster.Compare(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("compare usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *ModelsHandler) AutoSelect(c echo.Context) error {
	req := &models.AutoSelectRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.forecaster.AutoSelect(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("auto-select usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *ModelsHandler) Validate(c echo.Context) error {
	req := &models.ValidateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return xhttp.SuccessResponse(c, h.forecaster.Validate(&req.Config))
}
