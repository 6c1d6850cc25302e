package api

import (
	"errors"
	"net/http"

	"TSLab/internal/domain/models"
	xhttp "TSLab/pkg/http"
)

// toAppError maps domain sentinel errors to transport errors with stable
// codes. Unknown errors become opaque 500s.
func toAppError(err error) *xhttp.AppError {
	switch {
	case errors.Is(err, models.ErrDataFormat):
		return xhttp.NewAppError("ERR_DATA_FORMAT", "", err.Error(), http.StatusBadRequest).WithError(err)
	case errors.Is(err, models.ErrInvalidParameter):
		return xhttp.NewAppError("ERR_INVALID_PARAMETER", "", err.Error(), http.StatusBadRequest).WithError(err)
	case errors.Is(err, models.ErrInsufficientData):
		return xhttp.NewAppError("ERR_INSUFFICIENT_DATA", "", err.Error(), http.StatusBadRequest).WithError(err)
	case errors.Is(err, models.ErrUnknownModel):
		return xhttp.NewAppError("ERR_UNKNOWN_MODEL", "", err.Error(), http.StatusBadRequest).WithError(err)
	case errors.Is(err, models.ErrDatasetNotFound):
		return xhttp.NewAppError("ERR_NOT_FOUND", "", err.Error(), http.StatusNotFound).WithError(err)
	case errors.Is(err, models.ErrFitting):
		return xhttp.NewAppError("ERR_FITTING", "", err.Error(), http.StatusUnprocessableEntity).WithError(err)
	case errors.Is(err, models.ErrState):
		return xhttp.NewAppError("ERR_MODEL_STATE", "", err.Error(), http.StatusConflict).WithError(err)
	}
	return xhttp.InternalError("internal error").WithError(err)
}
