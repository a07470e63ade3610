package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const DefaultBaseURL = "https://api.geoapify.com"

// Client calls the Geoapify reverse endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type reverseResponse struct {
	Results []struct {
		Formatted   string  `json:"formatted"`
		Street      string  `json:"street"`
		HouseNumber string  `json:"housenumber"`
		City        string  `json:"city"`
		Postcode    string  `json:"postcode"`
		Country     string  `json:"country"`
		CountryCode string  `json:"country_code"`
		Lat         float64 `json:"lat"`
		Lon         float64 `json:"lon"`
	} `json:"results"`
}

func (c *Client) Reverse(ctx context.Context, lat, lng float64) (*Address, error) {
	if !ValidCoordinates(lat, lng) {
		return nil, ErrInvalidCoordinates
	}
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	params.Set("format", "json")
	params.Set("apiKey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/geocode/reverse?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("geocode: unexpected status %d: %s", resp.StatusCode, body)
	}

	var payload reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("geocode: decode response: %w", err)
	}
	if len(payload.Results) == 0 {
		return nil, ErrNotFound
	}

	r := payload.Results[0]
	return &Address{
		Formatted:   r.Formatted,
		Street:      r.Street,
		HouseNumber: r.HouseNumber,
		City:        r.City,
		Postcode:    r.Postcode,
		Country:     r.Country,
		CountryCode: r.CountryCode,
		Latitude:    r.Lat,
		Longitude:   r.Lon,
	}, nil
}
