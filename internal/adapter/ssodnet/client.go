// Package ssodnet looks up asteroid physical parameters in IMCCE's SsODNet
// service: a fuzzy quaero search resolves a label to an identifier, then the
// ssoCard endpoint returns the best-estimate parameter card.
package ssodnet

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/neowatch/neo-risk-service/internal/domain"
	"github.com/neowatch/neo-risk-service/internal/observability"
)

const sourceName = "ssodnet"

// Client implements domain.PhysicalCatalog against SsODNet.
type Client struct {
	searchURL  string
	cardURL    string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates an SsODNet client with the production endpoints.
func NewClient(timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		searchURL: "https://api.ssodnet.imcce.fr/quaero/1/sso/search",
		cardURL:   "https://api.ssodnet.imcce.fr/ssocard",
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: metrics,
	}
}

// Source returns the provenance tag for this catalog.
func (c *Client) Source() string { return sourceName }

// Lookup searches quaero for the label and, on a hit, pulls the matching
// ssoCard. An object with no match yields a zero PhysicalData, not an error.
func (c *Client) Lookup(ctx context.Context, label string) (domain.PhysicalData, error) {
	start := time.Now()
	data, err := c.lookup(ctx, label)
	c.metrics.EnrichmentDuration.WithLabelValues(sourceName).Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		c.metrics.EnrichmentLookups.WithLabelValues(sourceName, "error").Inc()
	case data.Empty():
		c.metrics.EnrichmentLookups.WithLabelValues(sourceName, "empty").Inc()
	default:
		c.metrics.EnrichmentLookups.WithLabelValues(sourceName, "success").Inc()
	}
	return data, err
}

func (c *Client) lookup(ctx context.Context, label string) (domain.PhysicalData, error) {
	id, err := c.search(ctx, label)
	if err != nil {
		return domain.PhysicalData{}, err
	}
	if id == "" {
		return domain.PhysicalData{}, nil
	}
	return c.fetchCard(ctx, id)
}

func (c *Client) search(ctx context.Context, label string) (string, error) {
	params := url.Values{
		"q":     {label},
		"type":  {"Asteroid"},
		"limit": {"1"},
	}

	var result struct {
		Data []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"data"`
	}
	if err := c.getJSON(ctx, c.searchURL+"?"+params.Encode(), &result); err != nil {
		return "", fmt.Errorf("quaero search: %w", err)
	}
	if len(result.Data) == 0 {
		return "", nil
	}
	return result.Data[0].ID, nil
}

func (c *Client) fetchCard(ctx context.Context, id string) (domain.PhysicalData, error) {
	var card map[string]any
	if err := c.getJSON(ctx, c.cardURL+"/"+url.PathEscape(id), &card); err != nil {
		return domain.PhysicalData{}, fmt.Errorf("ssocard fetch: %w", err)
	}

	physical, _ := dig(card, "parameters", "physical").(map[string]any)
	if physical == nil {
		return domain.PhysicalData{}, nil
	}

	var data domain.PhysicalData
	if v, ok := domain.CoerceFloat(physical["diameter"]); ok {
		data.DiameterKm = &v
	}
	if v, ok := domain.CoerceFloat(physical["mass"]); ok {
		data.MassKg = &v
	}
	if v, ok := domain.CoerceFloat(physical["density"]); ok {
		data.DensityGcm3 = &v
	}
	if class, ok := dig(physical, "taxonomy", "class", "value").(string); ok {
		data.Taxonomy = class
	}
	data.Bibref = firstBibref(physical)
	return data, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// Unknown object; the card endpoint 404s for ids quaero no longer knows.
		return json.Unmarshal([]byte("{}"), out)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// dig walks nested map[string]any by key path, returning nil on any miss.
func dig(m map[string]any, path ...string) any {
	var cur any = m
	for _, key := range path {
		node, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = node[key]
	}
	return cur
}

// firstBibref returns the first bibref shortname attached to any of the
// physical parameters the card carries.
func firstBibref(physical map[string]any) string {
	for _, param := range []string{"mass", "density", "diameter", "taxonomy"} {
		refs, _ := dig(physical, param, "bibref").([]any)
		for _, ref := range refs {
			refMap, ok := ref.(map[string]any)
			if !ok {
				continue
			}
			if short, ok := refMap["shortname"].(string); ok && short != "" {
				return short
			}
		}
	}
	return ""
}
