package riot

import (
	"errors"
	"fmt"
	"time"

	"github.com/e-mault/stat-sage/internal/metrics"
	"github.com/valyala/fasthttp"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultRegionalURL = "https://americas.api.riotgames.com"
	DefaultPlatformURL = "https://na1.api.riotgames.com"

	// Endpoint labels used for metrics.
	EndpointAccount = "account"
	EndpointMastery = "mastery"

	tokenHeader = "X-Riot-Token"

	// lookupTimeout bounds a shared account lookup.
	lookupTimeout = 10 * time.Second
)

// ErrNotFound is returned when Riot has no account for the requested Riot ID
// or PUUID.
var ErrNotFound = errors.New("riot: not found")

// APIError is a non-2xx response other than 404.
type APIError struct {
	Status     int
	Body       string
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("riot API error: %d (retry after %s)", e.Status, e.RetryAfter)
	}
	return fmt.Sprintf("riot API error: %d", e.Status)
}

// Account is the account-v1 by-riot-id response.
type Account struct {
	PUUID    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

// APIClient talks to the Riot API over fasthttp.
type APIClient struct {
	apiKey      string
	client      *fasthttp.Client
	metrics     metrics.Metrics
	lookups     singleflight.Group
	RegionalURL string
	PlatformURL string
}
