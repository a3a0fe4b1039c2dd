package gateway

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"net/url"
	"strconv"

	"github.com/piresc/kirimjek/internal/pkg/geo"
	httpclient "github.com/piresc/kirimjek/internal/pkg/http"
	"github.com/piresc/kirimjek/internal/pkg/models"
)

// LocationClient queries the location service for proximity searches
type LocationClient struct {
	apiClient *httpclient.APIKeyClient
}

// NewLocationClient creates a proximity client for the location service at baseURL
func NewLocationClient(baseURL, apiKey string) *LocationClient {
	return &LocationClient{
		apiClient: httpclient.NewAPIKeyClient("location-service", baseURL, apiKey, httpclient.DefaultTimeout),
	}
}

type nearbyEnvelope struct {
	Data models.NearbyResponse `json:"data"`
}

// Nearby calls GET /v1/drivers/nearby. A 400 from the location service is
// reported as invalid input.
func (c *LocationClient) Nearby(ctx context.Context, lat, lon, radiusKm float64) ([]models.MatchCandidate, error) {
	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	query.Set("radius_km", strconv.FormatFloat(radiusKm, 'f', -1, 64))

	var resp nearbyEnvelope
	err := c.apiClient.GetJSON(ctx, "/v1/drivers/nearby", query, &resp)
	var statusErr *httpclient.StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == nethttp.StatusBadRequest {
		return nil, fmt.Errorf("%w: %s", geo.ErrInvalidInput, statusErr.Body)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to search nearby drivers: %w", err)
	}
	return resp.Data.Candidates, nil
}
