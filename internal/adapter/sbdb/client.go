// Package sbdb looks up asteroid physical parameters in JPL's Small-Body
// Database API. One `sstr` query returns the object's phys-par list; values
// arrive as strings, sometimes with uncertainty suffixes.
package sbdb

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

const sourceName = "sbdb"

// Client implements domain.PhysicalCatalog against the SBDB API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates an SBDB client with the production endpoint.
func NewClient(timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		baseURL: "https://ssd-api.jpl.nasa.gov/sbdb.api",
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: metrics,
	}
}

// Source returns the provenance tag for this catalog.
func (c *Client) Source() string { return sourceName }

// Lookup queries SBDB by search string. Unknown or ambiguous objects yield a
// zero PhysicalData, not an error.
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

type physPar struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Units string `json:"units"`
	Ref   string `json:"ref"`
}

type sbdbResponse struct {
	PhysPar []physPar `json:"phys_par"`
}

func (c *Client) lookup(ctx context.Context, label string) (domain.PhysicalData, error) {
	params := url.Values{
		"sstr":     {label},
		"phys-par": {"1"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return domain.PhysicalData{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.PhysicalData{}, fmt.Errorf("sbdb request: %w", err)
	}
	defer resp.Body.Close()

	// 300 means the search string matched several bodies, 404 means none.
	if resp.StatusCode == http.StatusMultipleChoices || resp.StatusCode == http.StatusNotFound {
		return domain.PhysicalData{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return domain.PhysicalData{}, fmt.Errorf("sbdb API error: status %d", resp.StatusCode)
	}

	var body sbdbResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.PhysicalData{}, fmt.Errorf("decode sbdb response: %w", err)
	}

	return fromPhysPar(body.PhysPar), nil
}

// fromPhysPar maps the phys-par name/value list onto PhysicalData. Later
// duplicates of a name are ignored.
func fromPhysPar(pars []physPar) domain.PhysicalData {
	var data domain.PhysicalData
	for _, p := range pars {
		switch p.Name {
		case "diameter":
			if data.DiameterKm == nil {
				if v, ok := domain.CoerceFloat(p.Value); ok {
					data.DiameterKm = &v
				}
			}
		case "GM":
			if data.GMKm3S2 == nil {
				if v, ok := domain.CoerceFloat(p.Value); ok {
					data.GMKm3S2 = &v
				}
			}
		case "density", "bulk density":
			if data.DensityGcm3 == nil {
				if v, ok := domain.CoerceFloat(p.Value); ok {
					data.DensityGcm3 = &v
				}
			}
		case "spec_B", "spec_T":
			if data.Taxonomy == "" && p.Value != "" {
				data.Taxonomy = p.Value
			}
		}
		if data.Bibref == "" && p.Ref != "" {
			data.Bibref = p.Ref
		}
	}
	return data
}
