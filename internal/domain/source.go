package domain

import "context"

// FeedResult is a date-keyed window of NEO records as returned by the
// orbital catalog's feed endpoint.
type FeedResult struct {
	ElementCount int                    `json:"element_count"`
	ByDate       map[string][]NeoRecord `json:"near_earth_objects"`
}

// BrowsePage is one page of the orbital catalog's paginated browse listing.
type BrowsePage struct {
	Page    PageInfo    `json:"page"`
	Records []NeoRecord `json:"near_earth_objects"`
}

// PageInfo describes pagination state for a browse page.
type PageInfo struct {
	Size          int `json:"size"`
	TotalElements int `json:"total_elements"`
	TotalPages    int `json:"total_pages"`
	Number        int `json:"number"`
}

// NeoSource abstracts the orbital-object catalog. Implementations are
// expected to surface upstream failures as errors; callers decide whether
// a failure is fatal.
type NeoSource interface {
	Feed(ctx context.Context, startDate, endDate string) (FeedResult, error)
	Detail(ctx context.Context, id string) (NeoRecord, error)
	Browse(ctx context.Context, page, size int) (BrowsePage, error)
}
