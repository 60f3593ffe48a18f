package middleware

import (
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/cstockton/go-conv"
	"github.com/labstack/echo/v4"
)

// BindAndValidate bind request context and validate request struct.
// Bind includes path params, strict query params, headers and coerced query params.
// Validate request struct, response bad request with error message if the request is invalid.
func BindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return err
	}

	if err := bindHeader(c.Request().Header, req); err != nil {
		return err
	}

	if err := bindCoercedQuery(c.QueryParams(), req); err != nil {
		return err
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	return nil
}

// bindHeader decode http header to struct by tag `header:"<header_name>"`
// out must be a pointer to a struct
func bindHeader(header http.Header, dst interface{}) error {
	getValueFn := func(tagValue string) (interface{}, bool) {
		v := header.Get(tagValue)
		return v, v != ""
	}

	return bindStruct(dst, "header", getValueFn, true)
}

// bindCoercedQuery decode query params to struct by tag `coerce:"<param>"`.
// Values that do not convert leave the field untouched, so pointer fields
// stay nil and the caller applies its default.
func bindCoercedQuery(query url.Values, dst interface{}) error {
	getValueFn := func(tagValue string) (interface{}, bool) {
		v := strings.TrimSpace(query.Get(tagValue))
		return v, v != ""
	}

	return bindStruct(dst, "coerce", getValueFn, false)
}

// bindStruct decode to struct by custom tag `tagName:"tagValue"`
// dst must be a pointer to a struct
func bindStruct(dst interface{}, tagName string, getValueFn func(tagValue string) (interface{}, bool), strict bool) error {
	ptr := reflect.ValueOf(dst)
	if ptr.Kind() != reflect.Ptr {
		return fmt.Errorf("non-pointer passed to Unmarshal")
	}

	indirect := reflect.Indirect(ptr)
	structType := indirect.Type()
	if structType.Kind() != reflect.Struct {
		return fmt.Errorf("non-struct passed to Unmarshal: %s", structType.Kind())
	}

	for i := 0; i < structType.NumField(); i++ {
		structField := structType.Field(i)
		tagValue := structField.Tag.Get(tagName)
		if tagValue == "-" || tagValue == "" {
			continue
		}

		value, ok := getValueFn(tagValue)
		if !ok {
			continue
		}

		field := indirect.Field(i)
		target := field.Addr()
		if field.Kind() == reflect.Ptr {
			target = reflect.New(field.Type().Elem())
		}
		if err := conv.Infer(target.Interface(), value); err != nil {
			if !strict {
				continue
			}
			return echo.NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("cannot parse %s.%s as %s from: %#v", structType.Name(), structField.Name, field.Type(), value))
		}
		if field.Kind() == reflect.Ptr {
			field.Set(target)
		}
	}

	return nil
}
