package http

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/nutrilab/imc-registry/internal/usecase/dto"
)

// requestMeta collects the client fingerprint stamped onto audit entries.
func requestMeta(c echo.Context) dto.RequestMeta {
	return dto.RequestMeta{
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
		RequestID: c.Response().Header().Get(echo.HeaderXRequestID),
	}
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}
