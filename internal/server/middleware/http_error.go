package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	ErrorCodeInvalidArgument = "invalid_argument"
	ErrorCodeNotFound        = "not_found"
	ErrorCodeInternal        = "internal_error"
	ErrorCodeCanceled        = "canceled"
)

// StatusClientClosedRequest is reported when the caller went away first.
const StatusClientClosedRequest = 499

// ErrorHandler return custom http error handler.
func ErrorHandler(log Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if err == nil || c.Response().Committed {
			return
		}

		resp := NewResponseError(err)
		if resp.Status == http.StatusNotFound && isNotFoundHandler(c.Handler()) {
			resp.Message = "no route matched"
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(resp.Status)
		} else {
			err = c.JSON(resp.Status, resp)
		}
		if err != nil {
			log.Errorw("could not response", "code", resp.Status, "response_body", resp)
		}
	}
}

// NewResponseError maps err to the failure envelope. gRPC status codes
// decide the HTTP status; anything unrecognised is a 500 with a generic
// message.
func NewResponseError(err error) *ResponseError {
	var re *ResponseError
	if errors.As(err, &re) {
		return re
	}

	resp := &ResponseError{
		Status:    http.StatusInternalServerError,
		Err:       err,
		Success:   false,
		Message:   "internal server error",
		ErrorCode: ErrorCodeInternal,
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		resp.Status = he.Code
		resp.Message = fmt.Sprint(he.Message)
		resp.ErrorCode = ""
		if he.Code >= http.StatusInternalServerError {
			resp.ErrorCode = ErrorCodeInternal
		}
		return resp
	}

	// detect canceled request error
	if errors.Is(err, context.Canceled) {
		resp.Status = StatusClientClosedRequest
		resp.Message = "request canceled"
		resp.ErrorCode = ErrorCodeCanceled
		return resp
	}

	if st, ok := status.FromError(err); ok {
		switch st.Code() {
		case codes.InvalidArgument:
			resp.Status = http.StatusBadRequest
			resp.Message = st.Message()
			resp.ErrorCode = ErrorCodeInvalidArgument
		case codes.NotFound:
			resp.Status = http.StatusNotFound
			resp.Message = st.Message()
			resp.ErrorCode = ErrorCodeNotFound
		}
	}
	return resp
}
