package rangeapi

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/nguyentranbao-ct/catalog-discovery/internal/config"
	"github.com/nguyentranbao-ct/catalog-discovery/internal/models"
	"github.com/nguyentranbao-ct/catalog-discovery/pkg/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tidwall/gjson"
)

const withinRangePath = "/sellers/within-range"

// sellerIDPaths are tried in order; some deployments wrap payloads in "data".
var sellerIDPaths = []string{"sellerIds", "data.sellerIds"}

// Client calls a remote range service for sellers whose service radius
// covers a point.
type Client struct {
	http    *resty.Client
	metrics *prometheus.HistogramVec
}

func NewClient(cfg *config.Config) (*Client, error) {
	metrics, err := util.GetHistogramVec("seller_range_lookup_seconds", "provider", "status")
	if err != nil {
		return nil, fmt.Errorf("get histogram vec: %w", err)
	}
	return &Client{
		http:    util.NewRestyClient(cfg.Range.Timeout).SetBaseURL(cfg.Range.BaseURL),
		metrics: metrics,
	}, nil
}

func (c *Client) FindSellersWithinRange(ctx context.Context, at models.Coordinates) (ids []models.ObjectID, err error) {
	start := time.Now()
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
		}
		c.metrics.WithLabelValues("http", status).Observe(time.Since(start).Seconds())
	}()

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("lat", strconv.FormatFloat(at.Lat, 'f', -1, 64)).
		SetQueryParam("lng", strconv.FormatFloat(at.Lng, 'f', -1, 64)).
		Get(withinRangePath)
	if err != nil {
		return nil, fmt.Errorf("request range service: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("range service returned status %d", resp.StatusCode())
	}

	return parseSellerIDs(resp.Body())
}

func parseSellerIDs(body []byte) ([]models.ObjectID, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("range service returned invalid json")
	}
	for _, path := range sellerIDPaths {
		list := gjson.GetBytes(body, path)
		if !list.IsArray() {
			continue
		}
		raw := make([]string, 0, len(list.Array()))
		list.ForEach(func(_, v gjson.Result) bool {
			raw = append(raw, v.String())
			return true
		})
		return models.ObjectIDs(raw), nil
	}
	return nil, fmt.Errorf("range service response has no seller ids")
}
