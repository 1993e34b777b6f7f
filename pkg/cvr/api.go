package cvr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// ErrRegistryUnavailable is returned when every search strategy has
// failed or timed out.
var ErrRegistryUnavailable = errors.New("registry unavailable: all search strategies failed")

const (
	// DefaultBaseURL is the public distribution endpoint for the
	// offentliggørelser index.
	DefaultBaseURL = "http://distribution.virk.dk"

	searchPath = "/offentliggoerelser/_search"

	// MaxScanSize caps how many filing hits one search returns.
	MaxScanSize = 20

	strategyTimeout = 20 * time.Second
	documentTimeout = 5 * time.Second
)

// Client handles communication with the registry with rate limiting.
type Client struct {
	baseURL    string
	username   string
	password   string
	userAgent  string
	httpClient *http.Client
}

// rateLimitedTransport wraps an HTTP transport with rate limiting.
type rateLimitedTransport struct {
	transport http.RoundTripper
	limiter   *rate.Limiter
}

// RoundTrip implements the http.RoundTripper interface with rate limiting.
func (r *rateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := r.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return r.transport.RoundTrip(req)
}

// NewClient creates a registry client. Credentials may be empty when
// talking to a mirror that does not require basic auth.
func NewClient(baseURL, username, password, userAgent string, rateLimit int) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if rateLimit <= 0 {
		rateLimit = 5
	}

	transport := &rateLimitedTransport{
		transport: http.DefaultTransport,
		limiter:   rate.NewLimiter(rate.Limit(rateLimit), rateLimit),
	}

	return &Client{
		baseURL:   baseURL,
		username:  username,
		password:  password,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

// searchStrategy is one (query, timeout) pair in the progressive
// discovery chain. Strategies are consumed in order by SearchFilings,
// which exits on the first successful response.
type searchStrategy struct {
	name    string
	timeout time.Duration
	query   func(cvrNumber string) map[string]interface{}
}

func baseQuery(terms ...map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": terms,
			},
		},
		"size": MaxScanSize,
		"sort": []map[string]interface{}{
			{"offentliggoerelsesTidspunkt": map[string]interface{}{"order": "desc"}},
		},
	}
}

func term(field string, value interface{}) map[string]interface{} {
	return map[string]interface{}{"term": map[string]interface{}{field: value}}
}

// searchStrategies is the ordered fallback chain, least to most specific.
var searchStrategies = []searchStrategy{
	{
		name:    "cvr",
		timeout: strategyTimeout,
		query: func(cvrNumber string) map[string]interface{} {
			return baseQuery(term("cvrNummer", cvrNumber))
		},
	},
	{
		name:    "cvr+type",
		timeout: strategyTimeout,
		query: func(cvrNumber string) map[string]interface{} {
			return baseQuery(
				term("cvrNummer", cvrNumber),
				term("dokumenter.dokumentType", DocTypeAnnual),
			)
		},
	},
	{
		name:    "cvr+daterange",
		timeout: strategyTimeout,
		query: func(cvrNumber string) map[string]interface{} {
			return baseQuery(
				term("cvrNummer", cvrNumber),
				map[string]interface{}{
					"range": map[string]interface{}{
						"offentliggoerelsesTidspunkt": map[string]interface{}{"gte": "now-12y"},
					},
				},
			)
		},
	},
	{
		name:    "cvr+type+mime",
		timeout: strategyTimeout,
		query: func(cvrNumber string) map[string]interface{} {
			return baseQuery(
				term("cvrNummer", cvrNumber),
				term("dokumenter.dokumentType", DocTypeAnnual),
				term("dokumenter.dokumentMimeType", MimeXML),
			)
		},
	},
}

// searchResponse mirrors the registry's search envelope.
type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source Filing `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// SearchFilings discovers filing events for a CVR number. It walks the
// strategy chain in order, each attempt under its own timeout, and
// returns the hits of the first successful response without merging
// partial results across strategies. A response with zero hits is still
// a success. All strategies failing yields ErrRegistryUnavailable.
func (c *Client) SearchFilings(ctx context.Context, cvrNumber string) ([]Filing, error) {
	if err := ValidateCVR(cvrNumber); err != nil {
		return nil, err
	}

	var lastErr error
	for _, strategy := range searchStrategies {
		attemptCtx, cancel := context.WithTimeout(ctx, strategy.timeout)
		filings, err := c.search(attemptCtx, strategy.query(cvrNumber))
		cancel()
		if err != nil {
			log.Printf("search strategy %q failed for CVR %s: %v", strategy.name, cvrNumber, err)
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}
		SortNewestFirst(filings)
		if len(filings) > MaxScanSize {
			filings = filings[:MaxScanSize]
		}
		return filings, nil
	}
	return nil, fmt.Errorf("%w (last error: %v)", ErrRegistryUnavailable, lastErr)
}

func (c *Client) search(ctx context.Context, query map[string]interface{}) ([]Filing, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+searchPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query registry: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("registry returned status %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to parse registry response: %w", err)
	}

	filings := make([]Filing, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		filings = append(filings, hit.Source)
	}
	return filings, nil
}

// LoadDocument fetches the raw document text for a descriptor. The call
// carries its own timeout so a slow document abandons only this
// candidate, not the whole lookup.
func (c *Client) LoadDocument(ctx context.Context, doc Document) ([]byte, error) {
	if doc.DokumentURL == "" {
		return nil, fmt.Errorf("document has no retrieval URL")
	}

	docCtx, cancel := context.WithTimeout(ctx, documentTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(docCtx, "GET", doc.DokumentURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("registry returned status %d for document request", resp.StatusCode)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read document content: %w", err)
	}
	return content, nil
}
