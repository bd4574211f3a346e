package neows

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/neowatch/neo-risk-service/internal/cache"
	"github.com/neowatch/neo-risk-service/internal/domain"
	"github.com/neowatch/neo-risk-service/internal/observability"
)

// CachedSource wraps a NeoSource with per-endpoint TTL caches. Keys are
// built from the endpoint name and sorted query parameters; the API key
// is never part of a cache key.
type CachedSource struct {
	inner   domain.NeoSource
	ttl     time.Duration
	metrics *observability.Metrics

	feeds   *cache.TTL[domain.FeedResult]
	details *cache.TTL[domain.NeoRecord]
	pages   *cache.TTL[domain.BrowsePage]
}

// NewCachedSource creates a cache decorator around a NeoSource.
func NewCachedSource(inner domain.NeoSource, ttl time.Duration, metrics *observability.Metrics) *CachedSource {
	return &CachedSource{
		inner:   inner,
		ttl:     ttl,
		metrics: metrics,
		feeds:   cache.New[domain.FeedResult](),
		details: cache.New[domain.NeoRecord](),
		pages:   cache.New[domain.BrowsePage](),
	}
}

func (c *CachedSource) Feed(ctx context.Context, startDate, endDate string) (domain.FeedResult, error) {
	params := url.Values{"start_date": {startDate}}
	if endDate != "" {
		params.Set("end_date", endDate)
	}
	key := cache.Key("feed", params)

	if result, ok := c.feeds.Get(key); ok {
		c.metrics.CacheLookups.WithLabelValues("neows", "hit").Inc()
		return result, nil
	}
	c.metrics.CacheLookups.WithLabelValues("neows", "miss").Inc()

	result, err := c.inner.Feed(ctx, startDate, endDate)
	if err != nil {
		return result, err
	}
	c.feeds.Set(key, result, c.ttl)
	return result, nil
}

func (c *CachedSource) Detail(ctx context.Context, id string) (domain.NeoRecord, error) {
	key := cache.Key("detail", url.Values{"id": {id}})

	if result, ok := c.details.Get(key); ok {
		c.metrics.CacheLookups.WithLabelValues("neows", "hit").Inc()
		return result, nil
	}
	c.metrics.CacheLookups.WithLabelValues("neows", "miss").Inc()

	result, err := c.inner.Detail(ctx, id)
	if err != nil {
		return result, err
	}
	c.details.Set(key, result, c.ttl)
	return result, nil
}

func (c *CachedSource) Browse(ctx context.Context, page, size int) (domain.BrowsePage, error) {
	params := url.Values{
		"page": {strconv.Itoa(page)},
		"size": {strconv.Itoa(size)},
	}
	key := cache.Key("browse", params)

	if result, ok := c.pages.Get(key); ok {
		c.metrics.CacheLookups.WithLabelValues("neows", "hit").Inc()
		return result, nil
	}
	c.metrics.CacheLookups.WithLabelValues("neows", "miss").Inc()

	result, err := c.inner.Browse(ctx, page, size)
	if err != nil {
		return result, err
	}
	c.pages.Set(key, result, c.ttl)
	return result, nil
}
