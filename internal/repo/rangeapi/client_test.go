package rangeapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nguyentranbao-ct/catalog-discovery/internal/config"
	"github.com/nguyentranbao-ct/catalog-discovery/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{Range: config.RangeConfig{
		Provider: config.RangeProviderHTTP,
		BaseURL:  srv.URL,
		Timeout:  time.Second,
	}}
	c, err := NewClient(cfg)
	require.NoError(t, err)
	return c
}

func TestFindSellersWithinRange(t *testing.T) {
	t.Run("returns canonical ids only", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, withinRangePath, r.URL.Path)
			assert.Equal(t, "12.9716", r.URL.Query().Get("lat"))
			assert.Equal(t, "77.5946", r.URL.Query().Get("lng"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"sellerIds":["64b7f0c2a1b2c3d4e5f60718","bogus"]}`))
		})

		ids, err := c.FindSellersWithinRange(t.Context(), models.Coordinates{Lat: 12.9716, Lng: 77.5946})
		require.NoError(t, err)
		assert.Equal(t, []models.ObjectID{"64b7f0c2a1b2c3d4e5f60718"}, ids)
	})

	t.Run("empty result", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"sellerIds":[]}`))
		})

		ids, err := c.FindSellersWithinRange(t.Context(), models.Coordinates{Lat: 1, Lng: 2})
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("upstream error is not retried", func(t *testing.T) {
		calls := 0
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := c.FindSellersWithinRange(t.Context(), models.Coordinates{Lat: 1, Lng: 2})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "502")
		assert.Equal(t, 1, calls)
	})
}

func TestParseSellerIDs(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    []models.ObjectID
		wantErr bool
	}{
		{
			name: "root list",
			body: `{"sellerIds":["64b7f0c2a1b2c3d4e5f60718"]}`,
			want: []models.ObjectID{"64b7f0c2a1b2c3d4e5f60718"},
		},
		{
			name: "data envelope",
			body: `{"success":true,"data":{"sellerIds":["64b7f0c2a1b2c3d4e5f60718","64b7f0c2a1b2c3d4e5f60719"]}}`,
			want: []models.ObjectID{"64b7f0c2a1b2c3d4e5f60718", "64b7f0c2a1b2c3d4e5f60719"},
		},
		{name: "missing list", body: `{"sellers":[]}`, wantErr: true},
		{name: "not json", body: `<html>oops</html>`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSellerIDs([]byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
