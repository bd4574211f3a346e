package neows

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/neowatch/neo-risk-service/internal/domain"
	"github.com/neowatch/neo-risk-service/internal/observability"
)

// UpstreamError reports a non-success response from the NeoWs API. The
// status code is preserved so callers can relay it.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("neows API error: status %d: %s", e.StatusCode, e.Body)
}

// Client implements domain.NeoSource against the NASA NeoWs REST API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a NeoWs client. baseURL is the API root without a
// trailing slash, e.g. "https://api.nasa.gov/neo/rest/v1".
func NewClient(apiKey, baseURL string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: metrics,
	}
}

// Feed fetches NEO records between startDate and endDate (YYYY-MM-DD).
// endDate may be empty, in which case the API applies its own window.
func (c *Client) Feed(ctx context.Context, startDate, endDate string) (domain.FeedResult, error) {
	params := url.Values{"start_date": {startDate}}
	if endDate != "" {
		params.Set("end_date", endDate)
	}

	var out domain.FeedResult
	if err := c.doRequest(ctx, "feed", c.baseURL+"/feed", params, &out); err != nil {
		return domain.FeedResult{}, err
	}
	return out, nil
}

// Detail fetches a single NEO record by its NeoWs identifier.
func (c *Client) Detail(ctx context.Context, id string) (domain.NeoRecord, error) {
	var out domain.NeoRecord
	u := c.baseURL + "/neo/" + url.PathEscape(id)
	if err := c.doRequest(ctx, "detail", u, url.Values{}, &out); err != nil {
		return domain.NeoRecord{}, err
	}
	return out, nil
}

// Browse fetches one page of the paginated NEO listing.
func (c *Client) Browse(ctx context.Context, page, size int) (domain.BrowsePage, error) {
	params := url.Values{
		"page": {strconv.Itoa(page)},
		"size": {strconv.Itoa(size)},
	}

	var out domain.BrowsePage
	if err := c.doRequest(ctx, "browse", c.baseURL+"/neo/browse", params, &out); err != nil {
		return domain.BrowsePage{}, err
	}
	return out, nil
}

func (c *Client) doRequest(ctx context.Context, endpoint, rawURL string, params url.Values, out any) error {
	params.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.UpstreamDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("neows %s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
		c.logger.Warn("neows upstream error",
			"endpoint", endpoint,
			"status", resp.StatusCode)
		return &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}

	c.metrics.UpstreamRequests.WithLabelValues(endpoint, "success").Inc()
	return nil
}
