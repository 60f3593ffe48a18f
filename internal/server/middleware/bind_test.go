package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindHeader(t *testing.T) {
	type normalCase struct {
		App     string `header:"app"`
		Service string `header:"service"`

		Non   string `header:"-"`
		Empty bool
	}

	type complexCase struct {
		Nine              int64   `header:"nine"`
		NegativeThirtyTwo int64   `header:"negative-thirty-two"`
		HundredPointSix   float32 `header:"hundred-point-six"`
		Rose              string  `header:"rose"`
	}

	tests := []struct {
		name    string
		header  map[string]string
		out     interface{}
		want    interface{}
		wantErr bool
	}{
		{
			name: "normal bind header",
			header: map[string]string{
				"app":     "storefront",
				"service": "catalog-web",
				"non":     "non",
				"empty":   "empty",
			},
			out:  new(normalCase),
			want: &normalCase{App: "storefront", Service: "catalog-web"},
		},
		{
			name: "complex bind header",
			header: map[string]string{
				"nine":                "9",
				"negative-thirty-two": "-32",
				"hundred-point-six":   "100.6",
				"rose":                "rose",
			},
			out: new(complexCase),
			want: &complexCase{
				Nine:              9,
				NegativeThirtyTwo: -32,
				HundredPointSix:   100.6,
				Rose:              "rose",
			},
		},
		{
			name:    "invalid number",
			header:  map[string]string{"nine": "nine"},
			out:     new(complexCase),
			wantErr: true,
		},
		{
			name:    "non pointer",
			out:     complexCase{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			for k, v := range tt.header {
				h.Set(k, v)
			}
			err := bindHeader(h, tt.out)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, tt.out)
		})
	}
}

type listQuery struct {
	Search   string   `query:"search" validate:"max=10"`
	Page     int64    `coerce:"page"`
	MinPrice *float64 `coerce:"minPrice"`
	MaxPrice *float64 `coerce:"maxPrice"`
}

func bindQuery(t *testing.T, target string) (*listQuery, error) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	c := e.NewContext(req, httptest.NewRecorder())

	out := new(listQuery)
	err := BindAndValidate(c, out)
	return out, err
}

func TestBindAndValidate_CoercedQuery(t *testing.T) {
	out, err := bindQuery(t, "/products?search=rice&page=3&minPrice=12.5")
	require.NoError(t, err)
	assert.Equal(t, "rice", out.Search)
	assert.Equal(t, int64(3), out.Page)
	require.NotNil(t, out.MinPrice)
	assert.Equal(t, 12.5, *out.MinPrice)
	assert.Nil(t, out.MaxPrice)
}

func TestBindAndValidate_MalformedNumbersAreIgnored(t *testing.T) {
	out, err := bindQuery(t, "/products?page=abc&minPrice=cheap&maxPrice=")
	require.NoError(t, err)
	assert.Equal(t, int64(0), out.Page)
	assert.Nil(t, out.MinPrice)
	assert.Nil(t, out.MaxPrice)
}

func TestBindAndValidate_ValidationError(t *testing.T) {
	_, err := bindQuery(t, "/products?search=a-very-long-search-term")
	require.Error(t, err)

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.Code)
	assert.Contains(t, he.Message, "search")
}
