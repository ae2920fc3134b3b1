package images

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const unsplashBaseURL = "https://api.unsplash.com"

// Unsplash is the primary photo provider.
type Unsplash struct {
	accessKey  string
	baseURL    string
	httpClient *http.Client
}

// NewUnsplash returns a provider, or nil when no access key is
// configured.
func NewUnsplash(accessKey string) *Unsplash {
	if accessKey == "" {
		return nil
	}
	return &Unsplash{
		accessKey:  accessKey,
		baseURL:    unsplashBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (u *Unsplash) Name() string { return "unsplash" }

func (u *Unsplash) Search(ctx context.Context, query string) ([]Photo, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", "10")
	params.Set("orientation", "landscape")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		u.baseURL+"/search/photos?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Client-ID "+u.accessKey)

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unsplash returned %d", resp.StatusCode)
	}

	var body struct {
		Results []struct {
			URLs struct {
				Regular string `json:"regular"`
			} `json:"urls"`
			User struct {
				Name string `json:"name"`
			} `json:"user"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	photos := make([]Photo, 0, len(body.Results))
	for _, r := range body.Results {
		photos = append(photos, Photo{
			URL:    r.URLs.Regular,
			Credit: r.User.Name + " on Unsplash",
		})
	}
	return photos, nil
}
