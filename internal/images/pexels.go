package images

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const pexelsBaseURL = "https://api.pexels.com"

// Pexels is the fallback photo provider.
type Pexels struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewPexels returns a provider, or nil when no API key is configured.
func NewPexels(apiKey string) *Pexels {
	if apiKey == "" {
		return nil
	}
	return &Pexels{
		apiKey:     apiKey,
		baseURL:    pexelsBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (p *Pexels) Name() string { return "pexels" }

func (p *Pexels) Search(ctx context.Context, query string) ([]Photo, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", "10")
	params.Set("orientation", "landscape")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		p.baseURL+"/v1/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pexels returned %d", resp.StatusCode)
	}

	var body struct {
		Photos []struct {
			Src struct {
				Large string `json:"large"`
			} `json:"src"`
			Photographer string `json:"photographer"`
		} `json:"photos"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	photos := make([]Photo, 0, len(body.Photos))
	for _, ph := range body.Photos {
		photos = append(photos, Photo{
			URL:    ph.Src.Large,
			Credit: ph.Photographer + " on Pexels",
		})
	}
	return photos, nil
}
