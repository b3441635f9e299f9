package sofascore

import (
	"context"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"golang.org/x/time/rate"

	"github.com/statpulse/harvester/internal/platform/logging"
	"github.com/statpulse/harvester/internal/platform/resilience"
)

const (
	defaultBaseURL       = "https://api.sofascore.com/api/v1"
	defaultMobileBaseURL = "https://api.sofascore.app/api/v1"

	desktopUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"
	mobileUserAgent  = "SofaScore/6.18.2 (Android 14; Pixel 8)"

	maxResponseBytes = 4 << 20
)

var errFeedTransient = crerr.New("feed transient failure")

// ErrNoData marks endpoints that answered but hold nothing for the match.
// Callers treat it the same as an empty payload, never as a hard failure.
var ErrNoData = crerr.New("feed has no data for this endpoint")

type ClientConfig struct {
	HTTPClient       *http.Client
	BaseURL          string
	MobileBaseURL    string
	Timeout          time.Duration
	MaxRetries       int
	RequestInterval  time.Duration
	RequestJitter    time.Duration
	RateLimitBackoff time.Duration
	Logger           *logging.Logger
	CircuitBreaker   resilience.CircuitBreakerConfig
	DisablePacing    bool
}

// Client talks to the upstream statistics feed. Every probe is paced by a
// shared rate limiter plus a randomized jitter sleep, because the collector
// fires dozens of speculative endpoint probes per cycle and the feed bans
// aggressive callers.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	mobileBaseURL  string
	maxRetries     int
	jitter         time.Duration
	rateBackoff    time.Duration
	limiter        *rate.Limiter
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 15 * time.Second
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	mobileBaseURL := strings.TrimRight(cfg.MobileBaseURL, "/")
	if mobileBaseURL == "" {
		mobileBaseURL = defaultMobileBaseURL
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 1
	}

	interval := cfg.RequestInterval
	if interval <= 0 {
		interval = 1500 * time.Millisecond
	}
	var limiter *rate.Limiter
	if !cfg.DisablePacing {
		limiter = rate.NewLimiter(rate.Every(interval), 1)
	}

	jitter := cfg.RequestJitter
	if jitter < 0 {
		jitter = 0
	}

	rateBackoff := cfg.RateLimitBackoff
	if rateBackoff <= 0 {
		rateBackoff = 5 * time.Second
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		mobileBaseURL:  mobileBaseURL,
		maxRetries:     maxRetries,
		jitter:         jitter,
		rateBackoff:    rateBackoff,
		limiter:        limiter,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(cfg.CircuitBreaker),
		circuitEnabled: cfg.CircuitBreaker.Enabled,
		rnd:            rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *Client) BaseURL() string       { return c.baseURL }
func (c *Client) MobileBaseURL() string { return c.mobileBaseURL }

// FetchJSON retrieves one endpoint and decodes the body. A 404 answer means
// "this endpoint has no data for the match" and comes back as ErrNoData; a
// 429 triggers one in-call backoff sleep; any other failure is retried once
// and then reported. Callers are expected to treat every error as absence of
// data and move on to the next candidate.
func (c *Client) FetchJSON(ctx context.Context, url string, mobile bool) (map[string]any, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.DebugContext(ctx, "feed circuit breaker rejected probe", "state", c.breaker.State())
			return nil, crerr.Wrap(err, "feed temporarily unavailable")
		}
	}

	out, err, _ := c.flight.Do(url, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, url, mobile)
		if c.circuitEnabled {
			switch {
			case reqErr == nil, crerr.Is(reqErr, ErrNoData):
				c.breaker.RecordSuccess()
			case crerr.Is(reqErr, errFeedTransient):
				c.breaker.RecordFailure()
			default:
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, crerr.Newf("unexpected response payload type %T", out)
	}

	var payload map[string]any
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		c.logger.DebugContext(ctx, "feed payload is not an object", "url", url, "error", err)
		return nil, crerr.Wrap(err, "decode feed payload")
	}

	return payload, nil
}

func (c *Client) executeRequest(ctx context.Context, url string, mobile bool) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.pace(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, crerr.Wrap(err, "build request")
		}
		c.setHeaders(req, mobile)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = crerr.Wrapf(errFeedTransient, "send request: %v", err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()

			switch {
			case readErr != nil:
				lastErr = crerr.Wrapf(errFeedTransient, "read response body: %v", readErr)
			case resp.StatusCode == http.StatusOK:
				return raw, nil
			case resp.StatusCode == http.StatusNotFound:
				return nil, ErrNoData
			case resp.StatusCode == http.StatusTooManyRequests:
				c.logger.WarnContext(ctx, "feed rate limited, backing off", "url", url)
				if err := sleepCtx(ctx, c.rateBackoff); err != nil {
					return nil, err
				}
				lastErr = crerr.Wrapf(errFeedTransient, "rate limited status=%d", resp.StatusCode)
			case resp.StatusCode >= 500:
				lastErr = crerr.Wrapf(errFeedTransient, "feed status=%d", resp.StatusCode)
			default:
				return nil, crerr.Newf("feed status=%d", resp.StatusCode)
			}
		}

		if attempt == c.maxRetries {
			break
		}
	}

	if lastErr == nil {
		lastErr = crerr.New("feed request failed")
	}
	c.logger.DebugContext(ctx, "feed request exhausted retries", "url", url, "error", lastErr)
	return nil, lastErr
}

// pace blocks until the shared limiter grants a slot, then adds a random
// jitter so probe timing does not form a fingerprintable pattern.
func (c *Client) pace(ctx context.Context) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	if c.jitter > 0 {
		c.rndMu.Lock()
		delay := time.Duration(c.rnd.Int63n(int64(c.jitter)))
		c.rndMu.Unlock()
		return sleepCtx(ctx, delay)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request, mobile bool) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	if mobile {
		req.Header.Set("User-Agent", mobileUserAgent)
	} else {
		req.Header.Set("User-Agent", desktopUserAgent)
		req.Header.Set("Referer", "https://www.sofascore.com/")
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
