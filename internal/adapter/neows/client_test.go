package neows

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/neowatch/neo-risk-service/internal/domain"
	"github.com/neowatch/neo-risk-service/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testKey           = "TEST_KEY"
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

func testMetrics() *observability.Metrics {
	return observability.NewMetricsForTesting()
}

func testClient(baseURL string) *Client {
	return &Client{
		apiKey:     testKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics:    testMetrics(),
	}
}

func TestClient_Feed_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/feed", r.URL.Path)
		assert.Equal(t, "2026-08-01", r.URL.Query().Get("start_date"))
		assert.Equal(t, "2026-08-07", r.URL.Query().Get("end_date"))
		assert.Equal(t, testKey, r.URL.Query().Get("api_key"))

		resp := domain.FeedResult{
			ElementCount: 1,
			ByDate: map[string][]domain.NeoRecord{
				"2026-08-01": {{ID: "3542519", Name: "(2010 PK9)"}},
			},
		}
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	result, err := c.Feed(context.Background(), "2026-08-01", "2026-08-07")
	require.NoError(t, err)

	assert.Equal(t, 1, result.ElementCount)
	require.Len(t, result.ByDate["2026-08-01"], 1)
	assert.Equal(t, "3542519", result.ByDate["2026-08-01"][0].ID)
}

func TestClient_Feed_OmitsEmptyEndDate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("end_date"))
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(domain.FeedResult{}))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Feed(context.Background(), "2026-08-01", "")
	require.NoError(t, err)
}

func TestClient_Detail_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/neo/2000433", r.URL.Path)
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(domain.NeoRecord{
			ID:   "2000433",
			Name: "433 Eros (A898 PA)",
		}))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	rec, err := c.Detail(context.Background(), "2000433")
	require.NoError(t, err)
	assert.Equal(t, "433 Eros (A898 PA)", rec.Name)
}

func TestClient_Detail_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Detail(context.Background(), "0000000")
	require.Error(t, err)

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusNotFound, upstream.StatusCode)
}

func TestClient_Browse_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/neo/browse", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "20", r.URL.Query().Get("size"))

		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(domain.BrowsePage{
			Page:    domain.PageInfo{Size: 20, Number: 2, TotalPages: 100},
			Records: []domain.NeoRecord{{ID: "2000433"}},
		}))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	page, err := c.Browse(context.Background(), 2, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page.Number)
	require.Len(t, page.Records, 1)
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.httpClient.Timeout = 50 * time.Millisecond

	_, err := c.Detail(context.Background(), "2000433")
	require.Error(t, err)
}
