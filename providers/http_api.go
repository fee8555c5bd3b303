package providers

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"

	"github.com/9seconds/geoipfilter/geolib"
)

type httpAPIResponse struct {
	CountryCode string `json:"country_code"`
}

type httpAPIProvider struct {
	baseURL string
	client  geolib.HTTPClient
}

func (h httpAPIProvider) Name() string {
	return NameHTTPAPI
}

func (h httpAPIProvider) Lookup(ctx context.Context, ip net.IP) (geolib.CountryCode, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+ip.String(), nil)
	if err != nil {
		return "", fmt.Errorf("cannot build a request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("cannot send a request: %w", err)
	}

	defer flushResponse(resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	jsonResponse := httpAPIResponse{}
	jsonDecoder := json.NewDecoder(bufio.NewReader(resp.Body))

	if err := jsonDecoder.Decode(&jsonResponse); err != nil {
		return "", fmt.Errorf("cannot parse a response: %w", err)
	}

	code := geolib.NormalizeCountryCode(jsonResponse.CountryCode)
	if !code.Known() {
		return "", ErrNoCountryCode
	}

	return code, nil
}

// NewHTTPAPI creates a provider which asks a remote API. It sends
// GET request to baseURL with IP address appended verbatim and expects
// a JSON object with country_code field.
//
// This provider does network I/O in a calling goroutine. Usually you
// want to wrap it with geolib.NewBlockingProvider.
func NewHTTPAPI(client geolib.HTTPClient, baseURL string) (geolib.Provider, error) {
	if baseURL == "" {
		return nil, ErrBaseURLIsRequired
	}

	return httpAPIProvider{
		baseURL: baseURL,
		client:  client,
	}, nil
}
