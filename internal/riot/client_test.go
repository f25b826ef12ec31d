package riot

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/e-mault/stat-sage/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPUUID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Verify the request path and key
		assert.Equal(t, "/riot/account/v1/accounts/by-riot-id/Hide on bush/KR1", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Riot-Token"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintln(w, `{"puuid": "abc-123", "gameName": "Hide on bush", "tagLine": "KR1"}`)
	}))
	defer server.Close()

	m := metrics.NewMock()
	client := NewClient("test-key", server.URL, server.URL, m)

	puuid, err := client.GetPUUID(context.Background(), "Hide on bush", "KR1")
	require.NoError(t, err)
	assert.Equal(t, "abc-123", puuid)
	assert.Equal(t, 1, m.RiotRequests(EndpointAccount, metrics.OutcomeOK))
}

func TestGetPUUID_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status": {"status_code": 404}}`, http.StatusNotFound)
	}))
	defer server.Close()

	m := metrics.NewMock()
	client := NewClient("test-key", server.URL, server.URL, m)

	_, err := client.GetPUUID(context.Background(), "nobody", "000")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, m.RiotRequests(EndpointAccount, metrics.OutcomeNotFound))
}

func TestGetPUUID_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL, server.URL, metrics.NewMock())

	_, err := client.GetPUUID(context.Background(), "name", "tag")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.Status)
	assert.Equal(t, 7*time.Second, apiErr.RetryAfter)
}

func TestGetPUUID_CollapsesConcurrentLookups(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		fmt.Fprintln(w, `{"puuid": "shared"}`)
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL, server.URL, nil)

	const callers = 5
	var wg sync.WaitGroup
	results := make([]string, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Mixed case maps to the same lookup.
			name := "Faker"
			if i%2 == 0 {
				name = "faker"
			}
			puuid, err := client.GetPUUID(context.Background(), name, "T1")
			assert.NoError(t, err)
			results[i] = puuid
		}(i)
	}

	// Let the goroutines pile up on the in-flight call before answering.
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, "shared", r)
	}
	assert.Equal(t, int32(1), hits.Load())
}

func TestGetPUUID_CancelledCallerDoesNotFailSharedLookup(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		fmt.Fprintln(w, `{"puuid": "shared"}`)
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL, server.URL, nil)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := client.GetPUUID(firstCtx, "Faker", "T1")
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return hits.Load() == 1 }, time.Second, 5*time.Millisecond)

	second := make(chan string, 1)
	go func() {
		puuid, err := client.GetPUUID(context.Background(), "Faker", "T1")
		assert.NoError(t, err)
		second <- puuid
	}()
	// Let the second caller join the in-flight call.
	time.Sleep(100 * time.Millisecond)

	cancelFirst()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	select {
	case puuid := <-second:
		assert.Equal(t, "shared", puuid)
	case <-time.After(5 * time.Second):
		t.Fatal("second caller never received the shared result")
	}
	assert.Equal(t, int32(1), hits.Load())
}

func TestGetTotalMasteryScore(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/lol/champion-mastery/v4/scores/by-puuid/abc-123", r.URL.Path)
		fmt.Fprint(w, "742")
	}))
	defer server.Close()

	m := metrics.NewMock()
	client := NewClient("test-key", server.URL, server.URL, m)

	score, err := client.GetTotalMasteryScore(context.Background(), "abc-123")
	require.NoError(t, err)
	assert.Equal(t, 742, score)
	assert.Equal(t, 1, m.RiotRequests(EndpointMastery, metrics.OutcomeOK))
}

func TestGetTotalMasteryScore_BadBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "not a number")
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL, server.URL, nil)

	_, err := client.GetTotalMasteryScore(context.Background(), "abc-123")
	assert.Error(t, err)
}
