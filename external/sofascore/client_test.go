package sofascore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		BaseURL:          server.URL,
		MobileBaseURL:    server.URL,
		Timeout:          2 * time.Second,
		MaxRetries:       1,
		RateLimitBackoff: 10 * time.Millisecond,
		DisablePacing:    true,
	})
	return client, server
}

func TestFetchJSONSuccess(t *testing.T) {
	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"events":[{"id":101}]}`))
	}))

	payload, err := client.FetchJSON(context.Background(), server.URL+"/event/101/statistics", false)
	require.NoError(t, err)
	require.Len(t, payload["events"], 1)
}

func TestFetchJSONNotFoundIsDataAbsence(t *testing.T) {
	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.FetchJSON(context.Background(), server.URL+"/event/101/statistics", false)
	require.ErrorIs(t, err, ErrNoData)
}

func TestFetchJSONRetriesOnceOnServerError(t *testing.T) {
	var calls atomic.Int32
	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))

	payload, err := client.FetchJSON(context.Background(), server.URL+"/event/101/statistics", false)
	require.NoError(t, err)
	require.Equal(t, true, payload["ok"])
	require.EqualValues(t, 2, calls.Load())
}

func TestFetchJSONRateLimitBacksOffWithinCall(t *testing.T) {
	var calls atomic.Int32
	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))

	started := time.Now()
	_, err := client.FetchJSON(context.Background(), server.URL+"/event/101/statistics", false)
	require.NoError(t, err)
	require.GreaterOrEqual(t, time.Since(started), 10*time.Millisecond)
	require.EqualValues(t, 2, calls.Load())
}

func TestFetchJSONTransientFailureAfterRetries(t *testing.T) {
	var calls atomic.Int32
	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := client.FetchJSON(context.Background(), server.URL+"/event/101/statistics", false)
	require.Error(t, err)
	require.False(t, crerr.Is(err, ErrNoData))
	require.EqualValues(t, 2, calls.Load())
}

func TestMobileHeaders(t *testing.T) {
	var userAgent atomic.Value
	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent.Store(r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{}`))
	}))

	_, err := client.FetchJSON(context.Background(), server.URL+"/event/101/statistics", true)
	require.NoError(t, err)
	require.Equal(t, mobileUserAgent, userAgent.Load())
}

func TestStatisticsCandidatesOrderAndCount(t *testing.T) {
	client := NewClient(ClientConfig{DisablePacing: true})
	candidates := client.StatisticsCandidates(12345)

	require.Len(t, candidates, 11)
	require.Equal(t, "endpoint_desktop_1", candidates[0].Label)
	require.False(t, candidates[0].Mobile)
	require.Contains(t, candidates[0].URL, "/event/12345/statistics")

	mobileSeen := 0
	for _, candidate := range candidates {
		if candidate.Mobile {
			mobileSeen++
		}
	}
	require.Equal(t, 4, mobileSeen)
}
