package osm

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultOverpassURL = "https://overpass-api.de/api/interpreter"

// Client queries the Overpass API for raw piste and lift features.
type Client struct {
	URL        string
	MaxRetries int
	// BaseTimeout grows by one minute per retry attempt.
	BaseTimeout time.Duration
	// RetryWait is multiplied by the attempt number between retries.
	RetryWait time.Duration
}

// NewClient creates a Client with the production retry policy.
func NewClient(overpassURL string) *Client {
	if overpassURL == "" {
		overpassURL = DefaultOverpassURL
	}
	return &Client{
		URL:         overpassURL,
		MaxRetries:  3,
		BaseTimeout: 120 * time.Second,
		RetryWait:   10 * time.Second,
	}
}

// FetchPistes downloads downhill and connection pistes (ways and
// relations) within the bbox, with full geometry.
func (c *Client) FetchPistes(bbox string) (*Response, error) {
	query := fmt.Sprintf(`
[out:json][timeout:120];
(
  way["piste:type"="downhill"](%s);
  relation["piste:type"="downhill"](%s);
  way["piste:type"="connection"](%s);
);
out geom;
`, bbox, bbox, bbox)
	return c.query(query, "pistes (downhill + connection)")
}

// FetchLifts downloads all aerialway ways within the bbox.
func (c *Client) FetchLifts(bbox string) (*Response, error) {
	query := fmt.Sprintf(`
[out:json][timeout:120];
(
  way["aerialway"](%s);
);
out geom;
`, bbox)
	return c.query(query, "lifts (aerialways)")
}

// query posts an Overpass QL query, retrying with a growing timeout and
// linear backoff between attempts.
func (c *Client) query(query, description string) (*Response, error) {
	form := url.Values{"data": {query}}.Encode()

	var lastErr error
	for attempt := 0; attempt < c.MaxRetries; attempt++ {
		timeout := c.BaseTimeout + time.Duration(attempt)*time.Minute
		log.Printf("Fetching %s (attempt %d/%d, timeout=%s)", description, attempt+1, c.MaxRetries, timeout)

		resp, err := c.post(form, timeout)
		if err == nil {
			log.Printf("Got %d elements for %s", len(resp.Elements), description)
			return resp, nil
		}
		lastErr = err
		log.Printf("Attempt %d failed: %v", attempt+1, err)

		if attempt < c.MaxRetries-1 {
			wait := time.Duration(attempt+1) * c.RetryWait
			log.Printf("Waiting %s before retry", wait)
			time.Sleep(wait)
		}
	}
	return nil, fmt.Errorf("all %d attempts failed for %s: %w", c.MaxRetries, description, lastErr)
}

func (c *Client) post(form string, timeout time.Duration) (*Response, error) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(c.URL, "application/x-www-form-urlencoded", strings.NewReader(form))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("overpass returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var out Response
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode overpass response: %w", err)
	}
	return &out, nil
}
