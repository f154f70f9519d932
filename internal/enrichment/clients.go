package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// fetchTimeout bounds each outbound enrichment call. A slow source degrades
// to an empty contribution rather than stalling the request.
const fetchTimeout = 10 * time.Second

func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: fetchTimeout,
		Transport: &http.Transport{
			MaxIdleConns:        16,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 5 * time.Second,
		},
	}
}

// InfoClient fetches an encyclopedic summary for a place.
type InfoClient interface {
	Summary(ctx context.Context, place string) (content string, images []string, err error)
}

// ImageClient fetches stock photos for a place.
type ImageClient interface {
	Photos(ctx context.Context, place string) ([]UnsplashImage, error)
}

// PracticalClient fetches practical-information search results (hours,
// tickets) for a place.
type PracticalClient interface {
	Search(ctx context.Context, place, language string) ([]PracticalResult, error)
}

// WikipediaClient reads the REST page-summary endpoint. No API key needed.
type WikipediaClient struct {
	http    *http.Client
	baseURL string
}

// NewWikipediaClient builds the client. baseURL overrides the live endpoint
// in tests; empty selects the real one.
func NewWikipediaClient(baseURL string) *WikipediaClient {
	if baseURL == "" {
		baseURL = "https://en.wikipedia.org/api/rest_v1/page/summary"
	}
	return &WikipediaClient{http: newHTTPClient(), baseURL: baseURL}
}

func (c *WikipediaClient) Summary(ctx context.Context, place string) (string, []string, error) {
	endpoint := c.baseURL + "/" + url.PathEscape(strings.ReplaceAll(place, " ", "_"))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", nil, err
	}
	req.Header.Set("User-Agent", "georgian-rag/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("wikipedia summary %s: status %d", place, resp.StatusCode)
	}

	var body struct {
		Extract   string `json:"extract"`
		Thumbnail struct {
			Source string `json:"source"`
		} `json:"thumbnail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", nil, err
	}
	var images []string
	if body.Thumbnail.Source != "" {
		images = append(images, body.Thumbnail.Source)
	}
	return body.Extract, images, nil
}

// UnsplashClient searches the photo API. Requires an access key; a nil
// client simply contributes nothing.
type UnsplashClient struct {
	http      *http.Client
	baseURL   string
	accessKey string
}

// NewUnsplashClient builds the client, or returns nil when no key is
// configured so callers can treat the source as absent.
func NewUnsplashClient(baseURL, accessKey string) *UnsplashClient {
	if accessKey == "" {
		return nil
	}
	if baseURL == "" {
		baseURL = "https://api.unsplash.com"
	}
	return &UnsplashClient{http: newHTTPClient(), baseURL: baseURL, accessKey: accessKey}
}

func (c *UnsplashClient) Photos(ctx context.Context, place string) ([]UnsplashImage, error) {
	q := url.Values{}
	q.Set("query", place+" Georgia tourism")
	q.Set("per_page", "5")
	q.Set("orientation", "landscape")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search/photos?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Client-ID "+c.accessKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unsplash search %s: status %d", place, resp.StatusCode)
	}

	var body struct {
		Results []struct {
			URLs struct {
				Regular string `json:"regular"`
				Thumb   string `json:"thumb"`
			} `json:"urls"`
			User struct {
				Name string `json:"name"`
			} `json:"user"`
			AltDescription string `json:"alt_description"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	images := make([]UnsplashImage, 0, len(body.Results))
	for _, photo := range body.Results {
		images = append(images, UnsplashImage{
			URL:          photo.URLs.Regular,
			Thumbnail:    photo.URLs.Thumb,
			Photographer: photo.User.Name,
			Alt:          photo.AltDescription,
		})
	}
	return images, nil
}

// SerpClient queries a Google-results API for practical info. Requires an
// API key; nil when unconfigured.
type SerpClient struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

// NewSerpClient builds the client, or returns nil when no key is
// configured.
func NewSerpClient(baseURL, apiKey string) *SerpClient {
	if apiKey == "" {
		return nil
	}
	if baseURL == "" {
		baseURL = "https://serpapi.com/search"
	}
	return &SerpClient{http: newHTTPClient(), baseURL: baseURL, apiKey: apiKey}
}

func (c *SerpClient) Search(ctx context.Context, place, language string) ([]PracticalResult, error) {
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("engine", "google")
	q.Set("q", place+" Georgia tourism opening hours tickets")
	q.Set("hl", language)
	q.Set("num", "5")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("practical search %s: status %d", place, resp.StatusCode)
	}

	var body struct {
		OrganicResults []struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Snippet string `json:"snippet"`
		} `json:"organic_results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	results := make([]PracticalResult, 0, len(body.OrganicResults))
	for _, r := range body.OrganicResults {
		results = append(results, PracticalResult{Title: r.Title, Link: r.Link, Snippet: r.Snippet})
	}
	return results, nil
}
