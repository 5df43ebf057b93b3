// Package places queries the HERE Discover API for hospitals around a
// coordinate.
package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	// MaxResults caps the number of items requested and returned.
	MaxResults = 4
	category   = "hospital"
)

var ErrLookupUnavailable = errors.New("places lookup unavailable")

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type discoverResponse struct {
	Items []json.RawMessage `json:"items"`
}

// FindHospitalsNear returns the provider's items for hospitals near the
// coordinate, unmodified and at most MaxResults of them.
func (c *Client) FindHospitalsNear(ctx context.Context, latitude, longitude float64) ([]json.RawMessage, error) {
	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("q", category)
	params.Set("at", formatCoord(latitude)+","+formatCoord(longitude))
	params.Set("limit", strconv.Itoa(MaxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrLookupUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error carries the request URL, which includes the key.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, fmt.Errorf("%w: %v", ErrLookupUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: provider returned status %d: %s", ErrLookupUnavailable, resp.StatusCode, body)
	}

	var payload discoverResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrLookupUnavailable, err)
	}

	items := payload.Items
	if items == nil {
		items = []json.RawMessage{}
	}
	if len(items) > MaxResults {
		items = items[:MaxResults]
	}
	return items, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
