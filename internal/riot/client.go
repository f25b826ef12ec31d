package riot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/e-mault/stat-sage/internal/metrics"
	"github.com/valyala/fasthttp"
)

// Ensure APIClient implements the RiotClient interface.
var _ RiotClient = (*APIClient)(nil)

// NewClient creates a Riot API client. Empty URLs fall back to the NA
// defaults.
func NewClient(apiKey, regionalURL, platformURL string, m metrics.Metrics) *APIClient {
	if regionalURL == "" {
		regionalURL = DefaultRegionalURL
	}
	if platformURL == "" {
		platformURL = DefaultPlatformURL
	}
	return &APIClient{
		apiKey: apiKey,
		client: &fasthttp.Client{
			MaxConnsPerHost:     16,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: time.Minute,
		},
		metrics:     m,
		RegionalURL: strings.TrimRight(regionalURL, "/"),
		PlatformURL: strings.TrimRight(platformURL, "/"),
	}
}

// GetPUUID resolves gameName#tagLine to the account's PUUID. Concurrent
// lookups of the same Riot ID share one request. The shared request runs
// detached from any single caller's cancellation and is bounded by
// lookupTimeout; a caller whose ctx ends first returns ctx.Err().
func (c *APIClient) GetPUUID(ctx context.Context, gameName, tagLine string) (string, error) {
	key := strings.ToLower(gameName + "#" + tagLine)
	ch := c.lookups.DoChan(key, func() (any, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), lookupTimeout)
		defer cancel()
		endpoint := fmt.Sprintf("%s/riot/account/v1/accounts/by-riot-id/%s/%s",
			c.RegionalURL, url.PathEscape(gameName), url.PathEscape(tagLine))
		account, err := doRequest[Account](lookupCtx, c, EndpointAccount, endpoint)
		if err != nil {
			return "", err
		}
		return account.PUUID, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		log.Debug("Resolved Riot ID", "riot_id", gameName+"#"+tagLine, "shared", res.Shared)
		return res.Val.(string), nil
	}
}

// GetTotalMasteryScore returns the summed champion mastery level for puuid.
func (c *APIClient) GetTotalMasteryScore(ctx context.Context, puuid string) (int, error) {
	endpoint := fmt.Sprintf("%s/lol/champion-mastery/v4/scores/by-puuid/%s", c.PlatformURL, url.PathEscape(puuid))
	score, err := doRequest[int](ctx, c, EndpointMastery, endpoint)
	if err != nil {
		return 0, err
	}
	return *score, nil
}

func doRequest[T any](ctx context.Context, c *APIClient, endpoint, uri string) (*T, error) {
	result, err := fetch[T](ctx, c, uri)
	c.record(endpoint, err)
	return result, err
}

func fetch[T any](ctx context.Context, c *APIClient, uri string) (*T, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(uri)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set(tokenHeader, c.apiKey)

	deadline, ok := ctx.Deadline()
	if ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, err
		}
	} else {
		if err := c.client.Do(req, resp); err != nil {
			return nil, err
		}
	}

	switch status := resp.StatusCode(); {
	case status == fasthttp.StatusNotFound:
		return nil, ErrNotFound
	case status != fasthttp.StatusOK:
		apiErr := &APIError{Status: status, Body: string(resp.Body())}
		if secs, err := strconv.Atoi(string(resp.Header.Peek("Retry-After"))); err == nil {
			apiErr.RetryAfter = time.Duration(secs) * time.Second
		}
		log.Warn("Riot API request failed", "status", status, "uri", string(req.URI().Path()))
		return nil, apiErr
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to decode riot response: %w", err)
	}
	return &result, nil
}

func (c *APIClient) record(endpoint string, err error) {
	if c.metrics == nil {
		return
	}
	outcome := metrics.OutcomeOK
	switch {
	case errors.Is(err, ErrNotFound):
		outcome = metrics.OutcomeNotFound
	case err != nil:
		outcome = metrics.OutcomeError
	}
	c.metrics.IncRiotRequest(endpoint, outcome)
}
