package api

import (
	"TSLab/internal/usecase"
	xhttp "TSLab/pkg/http"
	xlogger "TSLab/pkg/logger"
	xutil "TSLab/pkg/util"

	"github.com/labstack/echo/v4"
)

// DataHandler exposes the dataset endpoints: CSV upload, sample catalog, and
// the persistent dataset store.
type DataHandler struct {
	logger   *xlogger.Logger
	datasets *usecase.Datasets
}

func NewDataHandler(logger *xlogger.Logger, datasets *usecase.Datasets) *DataHandler {
	return &DataHandler{logger: logger, datasets: datasets}
}

func (h *DataHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/data")
	g.POST("/upload", h.Upload)
	g.GET("/samples", h.Samples)
	g.GET("/samples/:name", h.LoadSample)
	g.GET("/datasets", h.List)
	g.GET("/datasets/:name", h.Get)
	g.DELETE("/datasets/:name", h.Delete)
}

// Upload accepts a multipart "file" field or a raw CSV body, with the
// dataset name in the "name" query or form field.
func (h *DataHandler) Upload(c echo.Context) error {
	name := c.QueryParam("name")
	if name == "" {
		name = c.FormValue("name")
	}
	if name == "" {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("dataset name is required"))
	}

	if src := c.QueryParam("url"); src != "" {
		report, err := h.datasets.UploadFromURL(c.Request().Context(), name, src)
		if err != nil {
			h.logger.Error("dataset fetch error",
				xlogger.String("name", name),
				xlogger.String("url", src),
				xlogger.Error(err))
			return xhttp.AppErrorResponse(c, toAppError(err))
		}
		return xhttp.CreatedResponse(c, report)
	}

	body := c.Request().Body
	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			return xhttp.AppErrorResponse(c, xhttp.BadRequestError("cannot open uploaded file"))
		}
		defer f.Close()
		body = f
	}

	report, err := h.datasets.Upload(c.Request().Context(), name, body)
	if err != nil {
		h.logger.Error("dataset upload error",
			xlogger.String("name", name),
			xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.CreatedResponse(c, report)
}

func (h *DataHandler) Samples(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.datasets.Samples())
}

// LoadSample generates a sample dataset; the optional "rows" query parameter
// truncates it.
func (h *DataHandler) LoadSample(c echo.Context) error {
	rows := xutil.ParseIntDefault(c.QueryParam("rows"), 0)
	report, err := h.datasets.LoadSample(c.Request().Context(), c.Param("name"), rows)
	if err != nil {
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.SuccessResponse(c, report)
}

func (h *DataHandler) List(c echo.Context) error {
	list, err := h.datasets.List(c.Request().Context())
	if err != nil {
		h.logger.Error("dataset list error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.SuccessResponse(c, list)
}

func (h *DataHandler) Get(c echo.Context) error {
	ds, err := h.datasets.Get(c.Request().Context(), c.Param("name"))
	if err != nil {
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.SuccessResponse(c, ds)
}

func (h *DataHandler) Delete(c echo.Context) error {
	if err := h.datasets.Delete(c.Request().Context(), c.Param("name")); err != nil {
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.NoContentResponse(c)
}
