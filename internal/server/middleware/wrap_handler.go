package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// WrapHandler wraps echo handler with extra binding and validation. The
// result is rendered in the success envelope; a *Response result is
// rendered as-is.
func WrapHandler[Req any, Res any](f func(c echo.Context, req Req) (Res, error)) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req Req
		if err := BindAndValidate(c, &req); err != nil {
			return err
		}

		res, err := f(c, req)
		if err != nil {
			return err
		}
		if c.Response().Committed {
			return nil
		}

		var data interface{} = res
		resp, ok := data.(*Response)
		if !ok {
			resp = &Response{
				Status:  http.StatusOK,
				Success: true,
				Data:    data,
			}
		}
		if resp.Status == 0 {
			resp.Status = http.StatusOK
		}
		return c.JSON(resp.Status, resp)
	}
}
