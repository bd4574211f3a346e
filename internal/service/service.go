// Package service composes the domain computations per inbound query: fetch,
// filter, assess, enrich, and impact-model near-Earth objects.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/neowatch/neo-risk-service/internal/cache"
	"github.com/neowatch/neo-risk-service/internal/domain"
	"github.com/neowatch/neo-risk-service/internal/observability"
)

// AssessmentPublisher pushes completed assessments to downstream consumers.
// A nil publisher disables streaming.
type AssessmentPublisher interface {
	Publish(ctx context.Context, neoID, label, threatLevel string, assessment any) error
}

// Service orchestrates the risk-assessment flows. All methods are safe for
// concurrent use; the enrichment cache is the only shared mutable state.
type Service struct {
	source    domain.NeoSource
	catalogs  []domain.PhysicalCatalog
	publisher AssessmentPublisher

	enrichCache *cache.TTL[domain.PhysicalProfile]
	enrichTTL   time.Duration
	resolverCfg domain.ResolverConfig

	logger  *slog.Logger
	metrics *observability.Metrics
}

// New wires a Service. catalogs are tried in priority order; publisher may be nil.
func New(source domain.NeoSource, catalogs []domain.PhysicalCatalog, publisher AssessmentPublisher,
	enrichTTL time.Duration, resolverCfg domain.ResolverConfig,
	logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		source:      source,
		catalogs:    catalogs,
		publisher:   publisher,
		enrichCache: cache.New[domain.PhysicalProfile](),
		enrichTTL:   enrichTTL,
		resolverCfg: resolverCfg,
		logger:      logger,
		metrics:     metrics,
	}
}

// AssessedNeo is one record annotated with its metrics and threat level, as
// returned by the feed and browse listings.
type AssessedNeo struct {
	ID          string                `json:"id"`
	Label       string                `json:"label"`
	Metrics     domain.MetricsSummary `json:"metrics"`
	ThreatLevel domain.ThreatLevel    `json:"threat_level"`
}

// FeedView is a filtered, assessed feed window.
type FeedView struct {
	ElementCount int                      `json:"element_count"`
	ByDate       map[string][]AssessedNeo `json:"near_earth_objects"`
}

// BrowseView is a filtered, assessed browse page.
type BrowseView struct {
	Page  domain.PageInfo `json:"page"`
	Items []AssessedNeo   `json:"items"`
}

// Assessment is the full risk picture for one object.
type Assessment struct {
	NeoID       string                        `json:"neo_id"`
	Label       string                        `json:"label"`
	Metrics     domain.MetricsSummary         `json:"metrics"`
	ThreatLevel domain.ThreatLevel            `json:"threat_level"`
	Mitigations []domain.MitigationSuggestion `json:"mitigations"`
	AssessedAt  time.Time                     `json:"assessed_at"`
}

// Enrichment is the resolved physical profile for one object.
type Enrichment struct {
	NeoID   string                 `json:"neo_id"`
	Label   string                 `json:"label"`
	Profile domain.PhysicalProfile `json:"profile"`
}

// ImpactReport is the impact scenario for one object.
type ImpactReport struct {
	NeoID    string                `json:"neo_id"`
	Label    string                `json:"label"`
	Scenario domain.ImpactScenario `json:"scenario"`
}

// Feed fetches the date window and returns records passing the filter, each
// annotated with metrics and threat level. Dates that filter down to nothing
// are dropped from the map.
func (s *Service) Feed(ctx context.Context, startDate, endDate string, bounds domain.FilterBounds) (FeedView, error) {
	feed, err := s.source.Feed(ctx, startDate, endDate)
	if err != nil {
		return FeedView{}, err
	}

	view := FeedView{ByDate: make(map[string][]AssessedNeo, len(feed.ByDate))}
	for date, records := range feed.ByDate {
		assessed := s.assessAll(records, bounds)
		if len(assessed) > 0 {
			view.ByDate[date] = assessed
			view.ElementCount += len(assessed)
		}
	}
	return view, nil
}

// Browse fetches one catalog page and returns records passing the filter.
// Page metadata reflects the upstream page, not the filtered count.
func (s *Service) Browse(ctx context.Context, page, size int, bounds domain.FilterBounds) (BrowseView, error) {
	result, err := s.source.Browse(ctx, page, size)
	if err != nil {
		return BrowseView{}, err
	}
	return BrowseView{
		Page:  result.Page,
		Items: s.assessAll(result.Records, bounds),
	}, nil
}

// Detail fetches one raw record by id.
func (s *Service) Detail(ctx context.Context, id string) (domain.NeoRecord, error) {
	return s.source.Detail(ctx, id)
}

// Assess fetches the record and computes its metrics, threat level, and
// mitigation list. When a publisher is configured the result is also pushed
// to the assessment stream; publish failures degrade to a log line.
func (s *Service) Assess(ctx context.Context, id string) (Assessment, error) {
	rec, err := s.source.Detail(ctx, id)
	if err != nil {
		return Assessment{}, err
	}

	m := domain.ExtractMetrics(rec)
	level := domain.ClassifyThreat(m)
	assessment := Assessment{
		NeoID:       rec.ID,
		Label:       rec.DisplayLabel(),
		Metrics:     m,
		ThreatLevel: level,
		Mitigations: domain.SuggestMitigations(m, level),
		AssessedAt:  time.Now().UTC(),
	}
	s.metrics.AssessmentsComputed.Inc()

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, assessment.NeoID, assessment.Label, level.String(), assessment); err != nil {
			s.logger.Warn("assessment stream publish failed", "neo_id", assessment.NeoID, "error", err)
		}
	}
	return assessment, nil
}

// Enrich fetches the record and resolves its physical profile through the
// catalog fallback chain. Profiles are cached by display label.
func (s *Service) Enrich(ctx context.Context, id string) (Enrichment, error) {
	rec, err := s.source.Detail(ctx, id)
	if err != nil {
		return Enrichment{}, err
	}
	return Enrichment{
		NeoID:   rec.ID,
		Label:   rec.DisplayLabel(),
		Profile: s.resolveProfile(ctx, rec),
	}, nil
}

// Impact fetches the record, resolves its physical profile, and computes an
// impact scenario with the supplied overrides.
func (s *Service) Impact(ctx context.Context, id string, ov domain.ImpactOverrides) (ImpactReport, error) {
	rec, err := s.source.Detail(ctx, id)
	if err != nil {
		return ImpactReport{}, err
	}
	profile := s.resolveProfile(ctx, rec)
	s.metrics.ImpactsComputed.Inc()
	return ImpactReport{
		NeoID:    rec.ID,
		Label:    rec.DisplayLabel(),
		Scenario: domain.ComputeImpact(rec, &profile, ov, s.resolverCfg),
	}, nil
}

func (s *Service) assessAll(records []domain.NeoRecord, bounds domain.FilterBounds) []AssessedNeo {
	out := make([]AssessedNeo, 0, len(records))
	for _, rec := range records {
		m := domain.ExtractMetrics(rec)
		if !bounds.Matches(rec, m) {
			continue
		}
		out = append(out, AssessedNeo{
			ID:          rec.ID,
			Label:       rec.DisplayLabel(),
			Metrics:     m,
			ThreatLevel: domain.ClassifyThreat(m),
		})
	}
	return out
}

func (s *Service) resolveProfile(ctx context.Context, rec domain.NeoRecord) domain.PhysicalProfile {
	label := rec.DisplayLabel()
	if profile, ok := s.enrichCache.Get(label); ok {
		s.metrics.CacheLookups.WithLabelValues("enrichment", "hit").Inc()
		return profile
	}
	s.metrics.CacheLookups.WithLabelValues("enrichment", "miss").Inc()

	profile := domain.ResolvePhysicalProfile(ctx, label, rec, s.catalogs, s.resolverCfg, s.logger)
	s.enrichCache.Set(label, profile, s.enrichTTL)
	return profile
}
