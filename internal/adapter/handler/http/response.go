package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nutrilab/imc-registry/internal/domain/entity"
	apperrors "github.com/nutrilab/imc-registry/pkg/errors"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success    bool                   `json:"success"`
	Data       interface{}            `json:"data,omitempty"`
	Error      *ErrorBody             `json:"error,omitempty"`
	Pagination *entity.PaginationMeta `json:"pagination,omitempty"`
}

// ErrorBody carries the machine-readable code and a human-readable message.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondOK(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func respondCreated(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

func respondPaginated(c echo.Context, data interface{}, meta entity.PaginationMeta) error {
	return c.JSON(http.StatusOK, Response{Success: true, Data: data, Pagination: &meta})
}

func respondError(c echo.Context, err error) error {
	code := apperrors.CodeOf(err)
	return c.JSON(statusFor(code), Response{
		Success: false,
		Error:   &ErrorBody{Code: code, Message: err.Error()},
	})
}

func respondBadRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, Response{
		Success: false,
		Error:   &ErrorBody{Code: apperrors.ErrInvalidArgument, Message: message},
	})
}

// statusFor maps error codes to HTTP statuses. Unknown codes surface as 500.
func statusFor(code string) int {
	switch code {
	case apperrors.ErrInvalidArgument, apperrors.ErrInvalidMeasurement:
		return http.StatusBadRequest
	case apperrors.ErrUnauthenticated:
		return http.StatusUnauthorized
	case apperrors.ErrForbidden:
		return http.StatusForbidden
	case apperrors.ErrNotFound:
		return http.StatusNotFound
	case apperrors.ErrConflict, apperrors.ErrInvalidState, apperrors.ErrAlreadyDeleted:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
